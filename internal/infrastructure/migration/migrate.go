package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies the billing schema migrations (clients, invoices,
// invoice_items, payments) from SQL files using golang-migrate.
type Migrator struct {
	migrate *migrate.Migrate
	log     *zap.Logger
}

// New creates a Migrator over an open postgres connection.
func New(db *sql.DB, migrationsDir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{migrate: m, log: log}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	m.log.Info("applying schema migrations")

	if err := m.apply(m.migrate.Up()); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Down rolls back all applied migrations
func (m *Migrator) Down() error {
	m.log.Info("rolling back schema migrations")

	if err := m.apply(m.migrate.Down()); err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Steps applies n migrations: positive is up, negative is down
func (m *Migrator) Steps(n int) error {
	m.log.Info("applying migration steps", zap.Int("steps", n))

	if err := m.apply(m.migrate.Steps(n)); err != nil {
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return nil
}

// apply normalizes a migrate result: no-change is success, anything
// else is either an error or a reason to report the new schema version.
func (m *Migrator) apply(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("schema already up to date")
		return nil
	}
	if err != nil {
		return err
	}
	m.reportVersion()
	return nil
}

func (m *Migrator) reportVersion() {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			m.log.Info("schema is empty")
			return
		}
		m.log.Warn("failed to read schema version", zap.Error(err))
		return
	}
	m.log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
}

// Version returns the current schema version; zero when no migration
// has been applied yet.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded schema version without running any
// migration. Only for recovering a dirty schema state.
func (m *Migrator) Force(version int) error {
	m.log.Warn("forcing schema version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the migrator's source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close migration database: %w", dbErr)
	}
	return nil
}
