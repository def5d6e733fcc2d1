package infractions

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"modbot/model"
	"modbot/moderation"
)

const infractionColumns = `id, guild_id, user_id, moderator_id, kind, COALESCE(reason, '') AS reason, created_at, edited_at`

const insertInfractionQuery = `INSERT INTO infractions (guild_id, user_id, moderator_id, kind, reason, created_at)
		  VALUES (:guild_id, :user_id, :moderator_id, :kind, NULLIF(:reason, ''), :created_at)`

// CreateInfraction adds a new infraction and returns it with its assigned ID.
func (s *Store) CreateInfraction(ctx context.Context, inf model.Infraction) (*model.Infraction, error) {
	result, err := s.db.NamedExecContext(ctx, insertInfractionQuery, inf)
	if err != nil {
		return nil, storeErr(err, "insert infraction")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, storeErr(err, "get last insert ID")
	}
	inf.ID = id
	inf.EditedAt = nil
	return &inf, nil
}

// GetInfraction retrieves an infraction by ID within a guild.
func (s *Store) GetInfraction(ctx context.Context, id int64, guildID string) (*model.Infraction, error) {
	var inf model.Infraction
	query := "SELECT " + infractionColumns + " FROM infractions WHERE id = ? AND guild_id = ?"
	if err := s.db.GetContext(ctx, &inf, query, id, guildID); err != nil {
		return nil, storeErr(err, "get infraction %d in guild %s", id, guildID)
	}
	return &inf, nil
}

// UpdateInfractionReason sets a new reason and edit timestamp.
func (s *Store) UpdateInfractionReason(ctx context.Context, id int64, guildID, reason string, editedAt time.Time) (*model.Infraction, error) {
	query := "UPDATE infractions SET reason = NULLIF(?, ''), edited_at = ? WHERE id = ? AND guild_id = ?"
	result, err := s.db.ExecContext(ctx, query, reason, editedAt.UnixMilli(), id, guildID)
	if err != nil {
		return nil, storeErr(err, "update reason of infraction %d", id)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, storeErr(err, "check rows affected for infraction %d", id)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("infraction %d in guild %s: %w", id, guildID, moderation.ErrNotFound)
	}
	return s.GetInfraction(ctx, id, guildID)
}

// DeleteInfraction deletes an infraction; its mute records go with it.
func (s *Store) DeleteInfraction(ctx context.Context, id int64, guildID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM infractions WHERE id = ? AND guild_id = ?", id, guildID)
	if err != nil {
		return storeErr(err, "delete infraction %d", id)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeErr(err, "check rows affected for infraction %d", id)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("infraction %d in guild %s: %w", id, guildID, moderation.ErrNotFound)
	}
	return nil
}

// ListInfractions retrieves a guild's infractions, newest first, optionally
// filtered by kind.
func (s *Store) ListInfractions(ctx context.Context, guildID string, kinds []model.InfractionKind) ([]model.Infraction, error) {
	query := "SELECT " + infractionColumns + " FROM infractions WHERE guild_id = ?"
	args := []interface{}{guildID}

	if len(kinds) > 0 {
		inQuery, inArgs, err := sqlx.In(" AND kind IN (?)", kinds)
		if err != nil {
			return nil, fmt.Errorf("failed to build kind filter: %w", err)
		}
		query += inQuery
		args = append(args, inArgs...)
	}
	query += " ORDER BY created_at DESC, id DESC"

	records := []model.Infraction{}
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(query), args...); err != nil {
		return nil, storeErr(err, "list infractions for guild %s", guildID)
	}
	return records, nil
}

// ListUserInfractions retrieves every infraction of a user in a guild,
// newest first.
func (s *Store) ListUserInfractions(ctx context.Context, guildID, userID string) ([]model.Infraction, error) {
	query := "SELECT " + infractionColumns + " FROM infractions WHERE guild_id = ? AND user_id = ? ORDER BY created_at DESC, id DESC"
	records := []model.Infraction{}
	if err := s.db.SelectContext(ctx, &records, query, guildID, userID); err != nil {
		return nil, storeErr(err, "list infractions for user %s in guild %s", userID, guildID)
	}
	return records, nil
}

// ModeratorStats counts the infractions each moderator created in a guild
// since the given time, highest count first.
func (s *Store) ModeratorStats(ctx context.Context, guildID string, since time.Time) ([]model.ModeratorCount, error) {
	query := `SELECT moderator_id, COUNT(*) AS infraction_count FROM infractions
			  WHERE guild_id = ? AND created_at >= ?
			  GROUP BY moderator_id
			  ORDER BY infraction_count DESC, moderator_id`
	stats := []model.ModeratorCount{}
	if err := s.db.SelectContext(ctx, &stats, query, guildID, since.UnixMilli()); err != nil {
		return nil, storeErr(err, "get moderator stats for guild %s", guildID)
	}
	return stats, nil
}
