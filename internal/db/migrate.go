package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ApplyMigrations brings the schema to the latest version found in path.
func ApplyMigrations(connString string, path string) error {
	m, err := migrate.New("file://"+path, connString)
	if err != nil {
		return fmt.Errorf("could not connect to DB for applying migrations: %w", err)
	}
	defer m.Close()
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply DB migrations: %w", err)
	}
	return nil
}

// RollbackMigration reverts the last applied migration.
func RollbackMigration(connString string, path string) error {
	m, err := migrate.New("file://"+path, connString)
	if err != nil {
		return fmt.Errorf("could not connect to DB for reverting migrations: %w", err)
	}
	defer m.Close()
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("could not revert DB migration: %w", err)
	}
	return nil
}
