package model

import "time"

// MuteRecord tracks the enforcement window of one mute infraction.
// Each record is owned by exactly one infraction of kind mute.
type MuteRecord struct {
	ID           int64 `db:"id"`
	InfractionID int64 `db:"infraction_id"`
	Expiry       int64 `db:"expiry"` // unix milliseconds
	Active       bool  `db:"active"`
}

func (m *MuteRecord) ExpiresAt() time.Time {
	return time.UnixMilli(m.Expiry)
}

// Mute is a MuteRecord joined with the guild and user of its owning infraction.
type Mute struct {
	MuteRecord
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
}

// MuteRoleConfig maps a guild to the role that represents "muted" there.
type MuteRoleConfig struct {
	GuildID string `db:"guild_id"`
	RoleID  string `db:"role_id"`
}
