package model

import (
	"fmt"
	"strings"
	"time"
)

// InfractionKind is the type of moderation action an infraction records.
type InfractionKind string

const (
	KindKick    InfractionKind = "kick"
	KindBan     InfractionKind = "ban"
	KindMute    InfractionKind = "mute"
	KindWarning InfractionKind = "warning"
	KindNote    InfractionKind = "note"
)

// InfractionKinds lists every kind in display order.
var InfractionKinds = []InfractionKind{KindKick, KindBan, KindMute, KindWarning, KindNote}

// ParseInfractionKind converts user input like "Warning" into an InfractionKind.
func ParseInfractionKind(s string) (InfractionKind, error) {
	k := InfractionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range InfractionKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown infraction kind %q", s)
}

// Infraction represents a single row of the infractions table.
type Infraction struct {
	ID          int64          `db:"id"` // Primary Key, Auto-increment
	GuildID     string         `db:"guild_id"`
	UserID      string         `db:"user_id"`
	ModeratorID string         `db:"moderator_id"`
	Kind        InfractionKind `db:"kind"`
	Reason      string         `db:"reason"`     // NULL in the database when empty
	CreatedAt   int64          `db:"created_at"` // unix milliseconds
	EditedAt    *int64         `db:"edited_at"`  // unix milliseconds, nil if never edited
}

func (i *Infraction) Created() time.Time {
	return time.UnixMilli(i.CreatedAt)
}

// Edited returns the last edit time and whether the reason was ever edited.
func (i *Infraction) Edited() (time.Time, bool) {
	if i.EditedAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*i.EditedAt), true
}

// InfractionGroup holds all infractions of one kind for a user, newest first.
type InfractionGroup struct {
	Kind        InfractionKind
	Infractions []Infraction
}

// MostRecent returns the newest infraction across all groups.
func MostRecent(groups []InfractionGroup) (*Infraction, int) {
	var newest *Infraction
	total := 0
	for gi := range groups {
		for ii := range groups[gi].Infractions {
			total++
			inf := &groups[gi].Infractions[ii]
			if newest == nil || inf.CreatedAt > newest.CreatedAt ||
				(inf.CreatedAt == newest.CreatedAt && inf.ID > newest.ID) {
				newest = inf
			}
		}
	}
	return newest, total
}

// ModeratorCount is the number of infractions a moderator created.
type ModeratorCount struct {
	ModeratorID string `db:"moderator_id"`
	Count       int    `db:"infraction_count"`
}
