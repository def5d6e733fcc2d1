package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"modbot/moderation"
)

// Discord implements moderation.Platform with a discordgo session.
type Discord struct {
	session *discordgo.Session
}

var _ moderation.Platform = (*Discord)(nil)

func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{session: s}
}

func requestOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return opts
}

func (d *Discord) AddRole(ctx context.Context, member *moderation.Member, roleID, reason string) error {
	if err := d.session.GuildMemberRoleAdd(member.GuildID, member.UserID, roleID, requestOptions(ctx, reason)...); err != nil {
		return fmt.Errorf("failed to add role %s to %s: %w", roleID, member.UserID, mapError(err))
	}
	return nil
}

func (d *Discord) RemoveRole(ctx context.Context, member *moderation.Member, roleID, reason string) error {
	if err := d.session.GuildMemberRoleRemove(member.GuildID, member.UserID, roleID, requestOptions(ctx, reason)...); err != nil {
		return fmt.Errorf("failed to remove role %s from %s: %w", roleID, member.UserID, mapError(err))
	}
	return nil
}

func (d *Discord) ResolveMember(ctx context.Context, guildID, userID string) (*moderation.Member, error) {
	m, err := d.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", userID, mapError(err))
	}
	return &moderation.Member{GuildID: guildID, UserID: userID, RoleIDs: m.Roles}, nil
}

func (d *Discord) ResolveRole(ctx context.Context, guildID, roleID string) (*moderation.Role, error) {
	roles, err := d.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles of guild %s: %w", guildID, mapError(err))
	}
	for _, r := range roles {
		if r.ID == roleID {
			return &moderation.Role{ID: r.ID, Name: r.Name}, nil
		}
	}
	return nil, fmt.Errorf("role %s: %w", roleID, moderation.ErrNotFound)
}

func (d *Discord) Kick(ctx context.Context, guildID, userID, reason string) error {
	if err := d.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to kick %s: %w", userID, mapError(err))
	}
	return nil
}

func (d *Discord) Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error {
	if err := d.session.GuildBanCreateWithReason(guildID, userID, reason, deleteMessageDays, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to ban %s: %w", userID, mapError(err))
	}
	return nil
}

// mapError translates Discord "unknown entity" responses into the moderation
// sentinels so callers can branch on errors.Is.
func mapError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
			return fmt.Errorf("%w: %w", moderation.ErrMemberNotFound, err)
		case discordgo.ErrCodeUnknownRole:
			return fmt.Errorf("%w: %w", moderation.ErrNotFound, err)
		}
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", moderation.ErrNotFound, err)
	}
	return err
}
