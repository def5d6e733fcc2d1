package infractions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"modbot/model"
	"modbot/moderation"
)

const muteColumns = `m.id, m.infraction_id, m.expiry, m.active, i.guild_id, i.user_id`

const muteFrom = ` FROM mutes m JOIN infractions i ON i.id = m.infraction_id`

// CreateMute inserts a mute infraction together with its active mute record
// in one transaction. The active-mute check runs inside the same transaction.
func (s *Store) CreateMute(ctx context.Context, inf model.Infraction, expiry time.Time) (*model.Infraction, *model.Mute, error) {
	inf.Kind = model.KindMute

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, storeErr(err, "begin mute transaction")
	}
	defer tx.Rollback()

	var active int
	countQuery := "SELECT COUNT(*)" + muteFrom + " WHERE m.active = 1 AND i.guild_id = ? AND i.user_id = ?"
	if err := tx.GetContext(ctx, &active, countQuery, inf.GuildID, inf.UserID); err != nil {
		return nil, nil, storeErr(err, "check active mutes for user %s", inf.UserID)
	}
	if active > 0 {
		return nil, nil, fmt.Errorf("user %s in guild %s: %w", inf.UserID, inf.GuildID, moderation.ErrConflict)
	}

	result, err := tx.NamedExecContext(ctx, insertInfractionQuery, inf)
	if err != nil {
		return nil, nil, storeErr(err, "insert mute infraction")
	}
	infID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, storeErr(err, "get last insert ID")
	}

	result, err = tx.ExecContext(ctx, "INSERT INTO mutes (infraction_id, expiry, active) VALUES (?, ?, 1)", infID, expiry.UnixMilli())
	if err != nil {
		return nil, nil, storeErr(err, "insert mute record")
	}
	muteID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, storeErr(err, "get last insert ID")
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, storeErr(err, "commit mute transaction")
	}

	inf.ID = infID
	mute := &model.Mute{
		MuteRecord: model.MuteRecord{
			ID:           muteID,
			InfractionID: infID,
			Expiry:       expiry.UnixMilli(),
			Active:       true,
		},
		GuildID: inf.GuildID,
		UserID:  inf.UserID,
	}
	return &inf, mute, nil
}

// GetMute retrieves a mute record by its ID, active or not.
func (s *Store) GetMute(ctx context.Context, id int64) (*model.Mute, error) {
	var mute model.Mute
	query := "SELECT " + muteColumns + muteFrom + " WHERE m.id = ?"
	if err := s.db.GetContext(ctx, &mute, query, id); err != nil {
		return nil, storeErr(err, "get mute %d", id)
	}
	return &mute, nil
}

// GetActiveMute retrieves the active mute of a user in a guild.
func (s *Store) GetActiveMute(ctx context.Context, guildID, userID string) (*model.Mute, error) {
	var mute model.Mute
	query := "SELECT " + muteColumns + muteFrom + " WHERE m.active = 1 AND i.guild_id = ? AND i.user_id = ? LIMIT 1"
	if err := s.db.GetContext(ctx, &mute, query, guildID, userID); err != nil {
		return nil, storeErr(err, "get active mute for user %s in guild %s", userID, guildID)
	}
	return &mute, nil
}

// GetActiveMuteByInfraction retrieves the active mute owned by an infraction.
func (s *Store) GetActiveMuteByInfraction(ctx context.Context, infractionID int64) (*model.Mute, error) {
	var mute model.Mute
	query := "SELECT " + muteColumns + muteFrom + " WHERE m.active = 1 AND m.infraction_id = ? LIMIT 1"
	if err := s.db.GetContext(ctx, &mute, query, infractionID); err != nil {
		return nil, storeErr(err, "get active mute for infraction %d", infractionID)
	}
	return &mute, nil
}

// NextMuteExpiry returns the soonest expiry of any active mute in any guild.
func (s *Store) NextMuteExpiry(ctx context.Context) (time.Time, bool, error) {
	var next sql.NullInt64
	if err := s.db.GetContext(ctx, &next, "SELECT MIN(expiry) FROM mutes WHERE active = 1"); err != nil {
		return time.Time{}, false, storeErr(err, "get next mute expiry")
	}
	if !next.Valid {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(next.Int64), true, nil
}

// DueMutes retrieves all active mutes that expired at or before now, oldest
// expiry first.
func (s *Store) DueMutes(ctx context.Context, now time.Time) ([]model.Mute, error) {
	mutes := []model.Mute{}
	query := "SELECT " + muteColumns + muteFrom + " WHERE m.active = 1 AND m.expiry <= ? ORDER BY m.expiry, m.id"
	if err := s.db.SelectContext(ctx, &mutes, query, now.UnixMilli()); err != nil {
		return nil, storeErr(err, "get due mutes")
	}
	return mutes, nil
}

// DeactivateMute flips an active mute to inactive. It returns false if the
// mute was already inactive, so concurrent callers can tell who won.
func (s *Store) DeactivateMute(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, "UPDATE mutes SET active = 0 WHERE id = ? AND active = 1", id)
	if err != nil {
		return false, storeErr(err, "deactivate mute %d", id)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storeErr(err, "check rows affected for mute %d", id)
	}
	if rowsAffected == 0 {
		// Tell an unknown id apart from a mute that was already inactive.
		if _, err := s.GetMute(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
