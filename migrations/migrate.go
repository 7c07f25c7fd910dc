// Package migrations embeds and applies the SQL schema of both databases:
// PostgreSQL for the document server and SQLite for the client.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Dialect selects the migration set and the goose dialect.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Migrate applies every pending migration of the given dialect.
func Migrate(db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("migration error: unknown dialect %q", dialect)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(gooseDialect)); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, string(dialect)); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
