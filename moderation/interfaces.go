package moderation

import (
	"context"
	"time"

	"modbot/model"
)

// Store is the durable storage used by the moderation core. Implementations
// must return ErrNotFound and ErrConflict (possibly wrapped) where documented
// and must serialize the check-then-write sequences of CreateMute and
// DeactivateMute.
type Store interface {
	CreateInfraction(ctx context.Context, inf model.Infraction) (*model.Infraction, error)
	GetInfraction(ctx context.Context, id int64, guildID string) (*model.Infraction, error)
	UpdateInfractionReason(ctx context.Context, id int64, guildID, reason string, editedAt time.Time) (*model.Infraction, error)
	DeleteInfraction(ctx context.Context, id int64, guildID string) error
	ListInfractions(ctx context.Context, guildID string, kinds []model.InfractionKind) ([]model.Infraction, error)
	ListUserInfractions(ctx context.Context, guildID, userID string) ([]model.Infraction, error)
	ModeratorStats(ctx context.Context, guildID string, since time.Time) ([]model.ModeratorCount, error)

	// CreateMute inserts a mute infraction and its active mute record as one
	// unit. It returns ErrConflict if the user already has an active mute.
	CreateMute(ctx context.Context, inf model.Infraction, expiry time.Time) (*model.Infraction, *model.Mute, error)
	GetMute(ctx context.Context, id int64) (*model.Mute, error)
	GetActiveMute(ctx context.Context, guildID, userID string) (*model.Mute, error)
	GetActiveMuteByInfraction(ctx context.Context, infractionID int64) (*model.Mute, error)
	// NextMuteExpiry returns the soonest expiry among all active mutes, or
	// false if there are none.
	NextMuteExpiry(ctx context.Context) (time.Time, bool, error)
	DueMutes(ctx context.Context, now time.Time) ([]model.Mute, error)
	// DeactivateMute flips an active mute to inactive. It reports whether
	// this call performed the transition.
	DeactivateMute(ctx context.Context, id int64) (bool, error)

	GetMuteRole(ctx context.Context, guildID string) (*model.MuteRoleConfig, error)
	SetMuteRole(ctx context.Context, guildID, roleID string) error
	DeleteMuteRole(ctx context.Context, guildID string) error
}

// Member is a resolved guild member.
type Member struct {
	GuildID string
	UserID  string
	RoleIDs []string
}

// HasRole reports whether the member currently holds roleID.
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Role is a resolved guild role.
type Role struct {
	ID   string
	Name string
}

// RoleManager is the chat platform's role management surface.
type RoleManager interface {
	AddRole(ctx context.Context, member *Member, roleID, reason string) error
	RemoveRole(ctx context.Context, member *Member, roleID, reason string) error
	// ResolveMember returns ErrMemberNotFound if the user is not in the guild.
	ResolveMember(ctx context.Context, guildID, userID string) (*Member, error)
	// ResolveRole returns ErrNotFound if the role does not exist.
	ResolveRole(ctx context.Context, guildID, roleID string) (*Role, error)
}

// MemberActions covers the platform calls behind kicks and bans.
type MemberActions interface {
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error
}

// Waker interrupts the unmute scheduler's sleep.
type Waker interface {
	Notify()
}
