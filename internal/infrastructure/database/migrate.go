package database

import (
	"errors"
	"fmt"

	"ketpa-backend/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

type Migrator struct {
	m *migrate.Migrate
}

func NewMigrator(cfg config.DBConfig) (*Migrator, error) {
	m, err := migrate.New(cfg.MigrationsPath, URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. No pending migrations is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	mg.logVersion()
	return nil
}

// Down rolls back the given number of migrations.
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	mg.logVersion()
	return nil
}

func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (mg *Migrator) Close() {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil || dbErr != nil {
		logrus.Warnf("Failed to close migrator: source=%v database=%v", srcErr, dbErr)
	}
}

func (mg *Migrator) logVersion() {
	version, dirty, err := mg.Version()
	if err != nil {
		logrus.Warnf("Failed to read migration version: %+v", err)
		return
	}
	logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Database schema migrated")
}
