package infractions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS infractions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	moderator_id TEXT NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('kick', 'ban', 'mute', 'warning', 'note')),
	reason TEXT,
	created_at INTEGER NOT NULL,
	edited_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_infractions_guild_created ON infractions (guild_id, created_at);
CREATE INDEX IF NOT EXISTS idx_infractions_guild_user ON infractions (guild_id, user_id);

CREATE TABLE IF NOT EXISTS mutes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	infraction_id INTEGER NOT NULL REFERENCES infractions (id) ON DELETE CASCADE,
	expiry INTEGER NOT NULL,
	active BOOLEAN NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_mutes_active_expiry ON mutes (active, expiry);
CREATE INDEX IF NOT EXISTS idx_mutes_infraction ON mutes (infraction_id);

CREATE TABLE IF NOT EXISTS mute_roles (
	guild_id TEXT PRIMARY KEY,
	role_id TEXT NOT NULL
);`

// Init opens the infraction database and ensures all tables exist.
//
// Write transactions start with BEGIN IMMEDIATE and the pool holds a single
// connection, so every check-then-write sequence of the store runs alone.
func Init(dbPath string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to infraction database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create infraction tables: %w", err)
	}
	return db, nil
}
