// Package migration applies the embedded SQL schema with golang-migrate.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Sanket93s/gst-billing-system/pkg/logger"
)

// Migrator runs schema migrations.
type Migrator struct {
	migrate *migrate.Migrate
	log     *logger.Logger
}

// New builds a Migrator reading migrations from src (root of the SQL files)
// against the postgres database at databaseURL.
func New(src fs.FS, databaseURL string, log *logger.Logger) (*Migrator, error) {
	driver, err := iofs.New(src, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", driver, toPgx5URL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Migrator{migrate: m, log: log}, nil
}

// toPgx5URL rewrites postgres:// and postgresql:// URLs to the pgx5 scheme
// golang-migrate expects for the pgx/v5 driver.
func toPgx5URL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	m.log.Info().Msg("running migrations up")
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up: %w", err)
	}
	return m.logVersion("migrations applied")
}

// Down rolls back every migration.
func (m *Migrator) Down() error {
	m.log.Info().Msg("running migrations down")
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down: %w", err)
	}
	m.log.Info().Msg("all migrations rolled back")
	return nil
}

// Steps applies n migrations; negative n rolls back.
func (m *Migrator) Steps(n int) error {
	m.log.Info().Int("steps", n).Msg("running migration steps")
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("no migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration steps: %w", err)
	}
	return m.logVersion("migration steps applied")
}

// Version returns the current schema version; 0 when nothing is applied.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.log.Info().Uint("version", version).Bool("dirty", dirty).Msg(msg)
	return nil
}
