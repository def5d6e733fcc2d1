package infractions

import (
	"context"

	"modbot/model"
)

// GetMuteRole retrieves the mute role configured for a guild.
func (s *Store) GetMuteRole(ctx context.Context, guildID string) (*model.MuteRoleConfig, error) {
	var cfg model.MuteRoleConfig
	if err := s.db.GetContext(ctx, &cfg, "SELECT guild_id, role_id FROM mute_roles WHERE guild_id = ?", guildID); err != nil {
		return nil, storeErr(err, "get mute role for guild %s", guildID)
	}
	return &cfg, nil
}

// SetMuteRole replaces the guild's mute role: the old row is deleted before
// the new one is inserted, in one transaction.
func (s *Store) SetMuteRole(ctx context.Context, guildID, roleID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(err, "begin mute role transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM mute_roles WHERE guild_id = ?", guildID); err != nil {
		return storeErr(err, "delete mute role for guild %s", guildID)
	}
	cfg := model.MuteRoleConfig{GuildID: guildID, RoleID: roleID}
	if _, err := tx.NamedExecContext(ctx, "INSERT INTO mute_roles (guild_id, role_id) VALUES (:guild_id, :role_id)", cfg); err != nil {
		return storeErr(err, "insert mute role for guild %s", guildID)
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err, "commit mute role transaction")
	}
	return nil
}

// DeleteMuteRole removes the guild's mute role configuration, if any.
func (s *Store) DeleteMuteRole(ctx context.Context, guildID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM mute_roles WHERE guild_id = ?", guildID); err != nil {
		return storeErr(err, "delete mute role for guild %s", guildID)
	}
	return nil
}
