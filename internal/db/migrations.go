package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies the migrations for the connection's dialect.
// migrationsPath is the root directory holding one subdirectory per dialect
// (e.g. "file://./migrations" resolves to "file://./migrations/postgres").
func RunMigrations(conn *DB, migrationsPath string) error {
	sqlDB, err := conn.GetSQLDB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	var (
		driver     database.Driver
		driverName string
	)
	switch conn.Dialect() {
	case DialectPostgres:
		driver, err = migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
		driverName = "pgx5"
	case DialectSQLite:
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
		driverName = "sqlite3"
	default:
		return fmt.Errorf("unsupported dialect for migrations: %s", conn.Dialect())
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source := strings.TrimRight(migrationsPath, "/") + "/" + string(conn.Dialect())
	m, err := migrate.NewWithDatabaseInstance(source, driverName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
