package store

import (
	"database/sql"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/migrations"
)

// DB is a database handle shared by the repositories of one process.
type DB struct {
	*sql.DB
	dialect            migrations.Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the schema of the handle's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// classify returns NonRetryable when no classifier is configured.
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}
