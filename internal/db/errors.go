package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Custom database errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrForeignKey    = errors.New("foreign key constraint violation")
	ErrMissingTable  = errors.New("table does not exist")
	ErrMissingColumn = errors.New("column does not exist")
	ErrPermission    = errors.New("permission denied by row-level policy")
)

// Postgres SQLSTATE codes inspected by MapGormError
const (
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgUndefinedTable        = "42P01"
	pgUndefinedColumn       = "42703"
	pgInsufficientPrivilege = "42501"
)

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate checks if error is a unique constraint violation
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsForeignKey checks if error is a foreign key constraint violation
func IsForeignKey(err error) bool {
	return errors.Is(err, ErrForeignKey)
}

// IsPermission checks if error is a row-level security rejection
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

// MapGormError maps GORM and driver errors to custom domain errors
func MapGormError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		case pgUndefinedTable:
			return ErrMissingTable
		case pgUndefinedColumn:
			return ErrMissingColumn
		case pgInsufficientPrivilege:
			return ErrPermission
		}
		return err
	}

	// SQLite reports constraint and schema problems only through the message
	errMsg := err.Error()
	switch {
	case containsAny(errMsg, "UNIQUE constraint", "unique constraint"):
		return ErrDuplicate
	case containsAny(errMsg, "FOREIGN KEY constraint", "foreign key constraint"):
		return ErrForeignKey
	case containsAny(errMsg, "no such table"):
		return ErrMissingTable
	case containsAny(errMsg, "no such column", "has no column named"):
		return ErrMissingColumn
	}

	return err
}

// containsAny checks if s contains any of the substrings
func containsAny(s string, substrs ...string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
