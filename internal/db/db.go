// Package db provides database connection management, the request-scoped data client and
// the repositories built on top of it.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Dialect identifies the SQL backend behind a DB
type Dialect string

// Supported dialects
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB wraps a GORM database connection
type DB struct {
	*gorm.DB
	dialect Dialect
}

// New opens a database connection for the given driver.
// For postgres dsn is a connection URL, for sqlite it is a file path (e.g. "./data/lyra.db").
func New(driver, dsn string, connectTimeout time.Duration) (*DB, error) {
	var (
		dialector gorm.Dialector
		dialect   Dialect
	)
	switch Dialect(driver) {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
		dialect = DialectPostgres
	case DialectSQLite:
		// Foreign keys, WAL mode and a busy timeout so concurrent writers wait instead of failing
		dialector = sqlite.Open(fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dsn))
		dialect = DialectSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		// Repositories open their own scoped transactions
		SkipDefaultTransaction: true,
		PrepareStmt:            dialect == DialectSQLite,
		// Driver errors are classified and logged by the callers
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: gormDB, dialect: dialect}, nil
}

// Wrap adopts an already opened GORM connection
func Wrap(gormDB *gorm.DB, dialect Dialect) *DB {
	return &DB{DB: gormDB, dialect: dialect}
}

// Dialect returns the SQL backend of the connection
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Health checks database connectivity
func (db *DB) Health(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// GetSQLDB returns the underlying sql.DB for migrations
func (db *DB) GetSQLDB() (*sql.DB, error) {
	return db.DB.DB()
}
