package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

const TEST_DB_ENV = "TEST_POSTGRESQL_URL"

// SkipWithoutTestDB skips DB tests unless TEST_POSTGRESQL_URL is set.
func SkipWithoutTestDB(t *testing.T) {
	t.Helper()
	if os.Getenv(TEST_DB_ENV) == "" {
		t.Skipf("%s is not set", TEST_DB_ENV)
	}
}

func migrationsPath() string {
	if path := os.Getenv("TEST_MIGRATIONS_PATH"); path != "" {
		return path
	}
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("TEST_MIGRATIONS_PATH must be set.")
		}
		dir = parent
	}
}

func CreateTestPool() *pgxpool.Pool {
	connString := os.Getenv(TEST_DB_ENV)
	if connString == "" {
		panic("TEST_POSTGRESQL_URL must be set.")
	}
	if err := ApplyMigrations(connString, migrationsPath()); err != nil {
		panic(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		panic("Could not connect to the database.")
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `TRUNCATE "user" RESTART IDENTITY`)
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
