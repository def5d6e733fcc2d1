package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"modbot/model"
)

// Muter creates and lifts mutes and keeps the per-guild mute role.
type Muter struct {
	store    Store
	roles    RoleManager
	reverser *Reverser
	waker    Waker
	events   *Events
	now      func() time.Time
	log      *logrus.Entry
}

func NewMuter(store Store, roles RoleManager, reverser *Reverser, waker Waker, events *Events) *Muter {
	return &Muter{
		store:    store,
		roles:    roles,
		reverser: reverser,
		waker:    waker,
		events:   events,
		now:      time.Now,
		log:      logrus.WithField("module", "muter"),
	}
}

// MuteRequest describes a mute issued by a moderator.
type MuteRequest struct {
	GuildID     string
	UserID      string
	ModeratorID string
	Reason      string
	Expiry      time.Time
}

// Mute assigns the guild's mute role to the member and records a mute
// infraction with an active mute record.
//
// It fails with ErrNoMuteRole or ErrMuteRoleMissing when the role is not
// usable, with ErrConflict when the user is already muted, with
// ErrAlreadyHasRole when the member holds the role outside of a mute, and with a
// *CollaboratorError when the role could not be assigned.
func (m *Muter) Mute(ctx context.Context, req MuteRequest) (*model.Infraction, *model.Mute, error) {
	roleID, err := m.usableMuteRole(ctx, req.GuildID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := m.store.GetActiveMute(ctx, req.GuildID, req.UserID); err == nil {
		return nil, nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	member, err := m.roles.ResolveMember(ctx, req.GuildID, req.UserID)
	if err != nil {
		return nil, nil, collaboratorErr("resolve member", err)
	}
	if member.HasRole(roleID) {
		return nil, nil, ErrAlreadyHasRole
	}

	auditReason := auditLogReason(fmt.Sprintf("Mute command invoked by %s, expiry: %s, reason: %s",
		req.ModeratorID, req.Expiry.UTC().Format(time.RFC3339), reasonOrDefault(req.Reason)))
	if err := m.roles.AddRole(ctx, member, roleID, auditReason); err != nil {
		return nil, nil, collaboratorErr("add mute role", err)
	}

	inf, mute, err := m.store.CreateMute(ctx, model.Infraction{
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		ModeratorID: req.ModeratorID,
		Kind:        model.KindMute,
		Reason:      req.Reason,
		CreatedAt:   m.now().UnixMilli(),
	}, req.Expiry)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			// A concurrent mute won the race and owns the role now.
			return nil, nil, err
		}
		// Nothing was recorded, so the role must not stay either.
		if rerr := m.roles.RemoveRole(ctx, member, roleID, "Mute could not be recorded"); rerr != nil {
			m.log.WithError(rerr).WithField("user_id", req.UserID).Error("Failed to roll back mute role")
		}
		return nil, nil, err
	}
	m.waker.Notify()

	m.log.WithFields(logrus.Fields{
		"infraction_id": inf.ID,
		"guild_id":      req.GuildID,
		"user_id":       req.UserID,
		"expiry":        req.Expiry,
	}).Info("Member muted")
	m.events.Publish(Event{
		Type:       EventInfractionCreated,
		GuildID:    req.GuildID,
		UserID:     req.UserID,
		ActorID:    req.ModeratorID,
		Infraction: inf,
		Mute:       mute,
	})
	return inf, mute, nil
}

// Unmute lifts the user's active mute ahead of its expiry. Platform failures
// are returned to the caller after the mute has been marked inactive.
func (m *Muter) Unmute(ctx context.Context, guildID, userID, moderatorID string) (*model.Mute, error) {
	mute, err := m.store.GetActiveMute(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	m.log.WithFields(logrus.Fields{
		"infraction_id": mute.InfractionID,
		"user_id":       userID,
		"moderator_id":  moderatorID,
	}).Info("Manual unmute requested")
	rerr := m.reverser.Reverse(ctx, mute, TriggerManual)
	var collabErr *CollaboratorError
	if rerr != nil && !errors.As(rerr, &collabErr) {
		return nil, rerr
	}
	m.waker.Notify()
	mute.Active = false
	return mute, rerr
}

// ActiveMute returns the user's active mute or ErrNotFound.
func (m *Muter) ActiveMute(ctx context.Context, guildID, userID string) (*model.Mute, error) {
	return m.store.GetActiveMute(ctx, guildID, userID)
}

// SetMuteRole replaces the guild's mute role. Active mutes keep running and
// are lifted using whatever role is configured when they expire.
func (m *Muter) SetMuteRole(ctx context.Context, guildID, roleID string) error {
	if _, err := m.roles.ResolveRole(ctx, guildID, roleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrMuteRoleMissing
		}
		return collaboratorErr("resolve role", err)
	}
	if err := m.store.SetMuteRole(ctx, guildID, roleID); err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{"guild_id": guildID, "role_id": roleID}).Info("Mute role set")
	return nil
}

func (m *Muter) MuteRole(ctx context.Context, guildID string) (*model.MuteRoleConfig, error) {
	return m.store.GetMuteRole(ctx, guildID)
}

// OnMemberJoined re-applies the mute role to a member that left and rejoined
// while still muted. It never creates infractions or mute records.
func (m *Muter) OnMemberJoined(ctx context.Context, guildID, userID string) error {
	mute, err := m.store.GetActiveMute(ctx, guildID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	cfg, err := m.store.GetMuteRole(ctx, guildID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if _, err := m.roles.ResolveRole(ctx, guildID, cfg.RoleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			m.log.WithField("guild_id", guildID).Warn("Mute role missing, cannot re-apply it to rejoined member")
			return nil
		}
		return collaboratorErr("resolve mute role", err)
	}

	member, err := m.roles.ResolveMember(ctx, guildID, userID)
	if err != nil {
		return collaboratorErr("resolve member", err)
	}
	reason := fmt.Sprintf("User rejoined while still being muted, mute infraction ID: %d", mute.InfractionID)
	if err := m.roles.AddRole(ctx, member, cfg.RoleID, reason); err != nil {
		return collaboratorErr("add mute role", err)
	}

	m.log.WithFields(logrus.Fields{
		"infraction_id": mute.InfractionID,
		"guild_id":      guildID,
		"user_id":       userID,
	}).Info("Re-applied mute role to rejoined member")
	m.events.Publish(Event{
		Type:    EventMuteReapplied,
		GuildID: guildID,
		UserID:  userID,
		Mute:    mute,
	})
	return nil
}

func (m *Muter) usableMuteRole(ctx context.Context, guildID string) (string, error) {
	cfg, err := m.store.GetMuteRole(ctx, guildID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNoMuteRole
		}
		return "", err
	}
	if _, err := m.roles.ResolveRole(ctx, guildID, cfg.RoleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrMuteRoleMissing
		}
		return "", collaboratorErr("resolve mute role", err)
	}
	return cfg.RoleID, nil
}

// maxAuditReason is the longest audit log reason Discord accepts.
const maxAuditReason = 512

func auditLogReason(s string) string {
	r := []rune(s)
	if len(r) <= maxAuditReason {
		return s
	}
	return string(r[:maxAuditReason-1]) + "…"
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "No reason specified"
	}
	return reason
}
