package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate brings the replica schema up to date. driver is the configured
// database driver name ("pgx" or "sqlite3"); the migration SQL is written to
// run unchanged on both backends.
func Migrate(db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	dialect := driver
	if driver == "pgx" {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
