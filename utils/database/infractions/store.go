package infractions

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"modbot/moderation"
)

// Store implements moderation.Store on top of SQLite.
type Store struct {
	db *sqlx.DB
}

var _ moderation.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

// storeErr marks a database failure as moderation.ErrStoreUnavailable and
// turns sql.ErrNoRows into moderation.ErrNotFound.
func storeErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, moderation.ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w: %w", msg, moderation.ErrStoreUnavailable, err)
}
