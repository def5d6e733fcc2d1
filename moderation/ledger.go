package moderation

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"modbot/model"
)

// Ledger is the infraction history of every guild. All lookups are scoped to
// a guild: an id from another guild resolves to ErrNotFound.
type Ledger struct {
	store    Store
	reverser *Reverser
	waker    Waker
	events   *Events
	now      func() time.Time
	log      *logrus.Entry
}

func NewLedger(store Store, reverser *Reverser, waker Waker, events *Events) *Ledger {
	return &Ledger{
		store:    store,
		reverser: reverser,
		waker:    waker,
		events:   events,
		now:      time.Now,
		log:      logrus.WithField("module", "ledger"),
	}
}

// Create records a new infraction. Mutes are created through Muter.Mute so
// that the mute record is written with them.
func (l *Ledger) Create(ctx context.Context, kind model.InfractionKind, guildID, userID, moderatorID, reason string) (*model.Infraction, error) {
	inf, err := l.store.CreateInfraction(ctx, model.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Kind:        kind,
		Reason:      reason,
		CreatedAt:   l.now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	l.log.WithFields(logrus.Fields{
		"infraction_id": inf.ID,
		"guild_id":      guildID,
		"kind":          kind,
	}).Info("Infraction created")
	l.events.Publish(Event{
		Type:       EventInfractionCreated,
		GuildID:    guildID,
		UserID:     userID,
		ActorID:    moderatorID,
		Infraction: inf,
	})
	return inf, nil
}

func (l *Ledger) Get(ctx context.Context, id int64, guildID string) (*model.Infraction, error) {
	return l.store.GetInfraction(ctx, id, guildID)
}

// Detail returns the infraction together with its active mute, if it is a
// mute infraction that has not been reversed yet.
func (l *Ledger) Detail(ctx context.Context, id int64, guildID string) (*model.Infraction, *model.Mute, error) {
	inf, err := l.store.GetInfraction(ctx, id, guildID)
	if err != nil {
		return nil, nil, err
	}
	if inf.Kind != model.KindMute {
		return inf, nil, nil
	}
	mute, err := l.store.GetActiveMuteByInfraction(ctx, inf.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return inf, nil, nil
		}
		return nil, nil, err
	}
	return inf, mute, nil
}

// EditReason replaces the reason of an infraction and stamps edited_at.
func (l *Ledger) EditReason(ctx context.Context, id int64, guildID, newReason, editorID string) (*model.Infraction, error) {
	inf, err := l.store.UpdateInfractionReason(ctx, id, guildID, newReason, l.now())
	if err != nil {
		return nil, err
	}
	l.events.Publish(Event{
		Type:       EventInfractionEdited,
		GuildID:    guildID,
		UserID:     inf.UserID,
		ActorID:    editorID,
		Infraction: inf,
	})
	return inf, nil
}

// DeleteResult describes what Delete did besides removing the row.
type DeleteResult struct {
	Infraction *model.Infraction
	// ReversedMute is the mute that was lifted because its infraction was
	// deleted, or nil.
	ReversedMute *model.Mute
	// ReversalErr is the platform failure hit while lifting the mute. It is
	// informational only: the deletion went ahead.
	ReversalErr error
}

// Delete removes an infraction. Deleting a mute infraction first reverses
// its active mute; reversal failures are logged and do not stop the delete.
func (l *Ledger) Delete(ctx context.Context, id int64, guildID, actorID string) (*DeleteResult, error) {
	inf, err := l.store.GetInfraction(ctx, id, guildID)
	if err != nil {
		return nil, err
	}
	res := &DeleteResult{Infraction: inf}

	if inf.Kind == model.KindMute {
		mute, err := l.store.GetActiveMuteByInfraction(ctx, inf.ID)
		switch {
		case err == nil:
			res.ReversedMute = mute
			if rerr := l.reverser.Reverse(ctx, mute, TriggerInfractionDeleted); rerr != nil {
				res.ReversalErr = rerr
				l.log.WithError(rerr).WithField("infraction_id", inf.ID).
					Warn("Failed to unmute member while deleting mute infraction")
			}
		case errors.Is(err, ErrNotFound):
		default:
			return nil, err
		}
	}

	if err := l.store.DeleteInfraction(ctx, inf.ID, guildID); err != nil {
		return nil, err
	}
	if inf.Kind == model.KindMute && l.waker != nil {
		l.waker.Notify()
	}

	l.log.WithFields(logrus.Fields{
		"infraction_id": inf.ID,
		"guild_id":      guildID,
		"kind":          inf.Kind,
	}).Info("Infraction deleted")
	l.events.Publish(Event{
		Type:       EventInfractionDeleted,
		GuildID:    guildID,
		UserID:     inf.UserID,
		ActorID:    actorID,
		Infraction: inf,
		Mute:       res.ReversedMute,
	})
	return res, nil
}

// List returns the infractions of a guild, newest first, optionally limited
// to the given kinds.
func (l *Ledger) List(ctx context.Context, guildID string, kinds ...model.InfractionKind) ([]model.Infraction, error) {
	return l.store.ListInfractions(ctx, guildID, kinds)
}

// ListByUser returns a user's infractions grouped by kind in the order of
// model.InfractionKinds. Each group is ordered newest first and empty
// groups are omitted.
func (l *Ledger) ListByUser(ctx context.Context, guildID, userID string) ([]model.InfractionGroup, error) {
	infs, err := l.store.ListUserInfractions(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	return groupByKind(infs), nil
}

func groupByKind(infs []model.Infraction) []model.InfractionGroup {
	byKind := make(map[model.InfractionKind][]model.Infraction, len(model.InfractionKinds))
	for _, inf := range infs {
		byKind[inf.Kind] = append(byKind[inf.Kind], inf)
	}

	groups := make([]model.InfractionGroup, 0, len(byKind))
	for _, kind := range model.InfractionKinds {
		list, ok := byKind[kind]
		if !ok {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CreatedAt != list[j].CreatedAt {
				return list[i].CreatedAt > list[j].CreatedAt
			}
			return list[i].ID > list[j].ID
		})
		groups = append(groups, model.InfractionGroup{Kind: kind, Infractions: list})
	}
	return groups
}

// Stats ranks the guild's moderators by the infractions they created since
// the given time and returns the total alongside.
func (l *Ledger) Stats(ctx context.Context, guildID string, since time.Time) ([]model.ModeratorCount, int, error) {
	stats, err := l.store.ModeratorStats(ctx, guildID, since)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	for _, s := range stats {
		total += s.Count
	}
	return stats, total, nil
}
