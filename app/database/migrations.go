package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// RunMigrations brings the schema up to the newest embedded migration and
// reports the resulting schema version.
func RunMigrations(db *DB) (uint, bool, error) {
	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Debug("Schema already up to date")
	case err != nil:
		return 0, false, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}

	slog.Debug("Schema ready", "version", version, "dirty", dirty)
	return version, dirty, nil
}

// newMigrator binds the embedded scripts to the open connection. The
// migrator is not closed: closing it would close db as well.
func newMigrator(db *DB) (*migrate.Migrate, error) {
	scripts, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	target, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sqlite for migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", scripts, "sqlite", target)
	if err != nil {
		return nil, fmt.Errorf("failed to build migrator: %w", err)
	}
	return m, nil
}
