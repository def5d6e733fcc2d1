package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"modbot/model"
)

// Reverser lifts mutes. It is safe to call Reverse concurrently and more than
// once for the same mute: only the caller whose update flips the record to
// inactive talks to the platform.
type Reverser struct {
	store  Store
	roles  RoleManager
	events *Events
	log    *logrus.Entry
}

func NewReverser(store Store, roles RoleManager, events *Events) *Reverser {
	return &Reverser{
		store:  store,
		roles:  roles,
		events: events,
		log:    logrus.WithField("module", "reversal"),
	}
}

// Reverse marks the mute inactive and removes the mute role from the member.
//
// The record always ends inactive once Reverse has claimed it, whatever the
// platform does. A member that left the guild is not an error. A missing mute
// role or a failed role removal is returned as a *CollaboratorError.
func (r *Reverser) Reverse(ctx context.Context, mute *model.Mute, trigger string) error {
	current, err := r.store.GetMute(ctx, mute.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if !current.Active {
		return nil
	}

	claimed, err := r.store.DeactivateMute(ctx, current.ID)
	if err != nil {
		return err
	}
	if !claimed {
		r.log.WithField("mute_id", current.ID).Debug("Mute already reversed by another caller")
		return nil
	}

	log := r.log.WithFields(logrus.Fields{
		"mute_id":       current.ID,
		"infraction_id": current.InfractionID,
		"guild_id":      current.GuildID,
		"user_id":       current.UserID,
		"trigger":       trigger,
	})

	current.Active = false
	removeErr := r.removeRole(ctx, current, trigger)
	if removeErr != nil {
		log.WithError(removeErr).Warn("Mute marked inactive but the mute role could not be removed")
	} else {
		log.Info("Mute reversed")
	}

	r.events.Publish(Event{
		Type:    EventMuteReversed,
		GuildID: current.GuildID,
		UserID:  current.UserID,
		Mute:    current,
		Trigger: trigger,
		Err:     removeErr,
	})
	return removeErr
}

func (r *Reverser) removeRole(ctx context.Context, mute *model.Mute, trigger string) error {
	member, err := r.roles.ResolveMember(ctx, mute.GuildID, mute.UserID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil
		}
		return collaboratorErr("resolve member", err)
	}

	cfg, err := r.store.GetMuteRole(ctx, mute.GuildID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return collaboratorErr("resolve mute role", ErrNoMuteRole)
		}
		return collaboratorErr("resolve mute role", err)
	}
	if _, err := r.roles.ResolveRole(ctx, mute.GuildID, cfg.RoleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return collaboratorErr("resolve mute role", ErrMuteRoleMissing)
		}
		return collaboratorErr("resolve mute role", err)
	}

	reason := fmt.Sprintf("Unmuted (%s), mute infraction ID: %d", trigger, mute.InfractionID)
	if err := r.roles.RemoveRole(ctx, member, cfg.RoleID, reason); err != nil {
		return collaboratorErr("remove mute role", err)
	}
	return nil
}
