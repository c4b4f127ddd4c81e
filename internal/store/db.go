package store

import (
	"database/sql"

	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
