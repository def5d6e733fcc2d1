package model

import (
	"github.com/jmoiron/sqlx"
)

// Bot provides an interface for bot functionality to avoid circular dependencies.
type Bot interface {
	GetConfig() *Config
	GetDB() *sqlx.DB
}
