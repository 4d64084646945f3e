// Package dbtest provides migrated sqlite databases and seeded accounts for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/models"
)

// MigrationsPath returns the file:// URL of the repository's migrations directory
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// NewSQLite creates a migrated sqlite database in a temporary directory, closed when t ends
func NewSQLite(t testing.TB) *db.DB {
	t.Helper()

	database, err := db.New(string(db.DialectSQLite), filepath.Join(t.TempDir(), "lyra.db"), 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database, MigrationsPath()))

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedAccount inserts an auth user without a profile and returns its principal
func SeedAccount(t testing.TB, database *db.DB, email string) *models.Principal {
	t.Helper()

	user := &models.AuthUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.NewAuthUserRepository(database).Create(context.Background(), user))

	return &models.Principal{ID: user.ID, Email: user.Email}
}

// SeedUser inserts an auth user with a profile named username and returns its principal
func SeedUser(t testing.TB, database *db.DB, username string) *models.Principal {
	t.Helper()

	principal := SeedAccount(t, database, username+"@example.com")
	client := Scope(t, database, principal)
	require.NoError(t, db.NewRepositories(client).Profiles.Create(context.Background(), models.NewProfile(principal.ID, username)))

	return principal
}

// Scope returns a client acting as p
func Scope(t testing.TB, database *db.DB, p *models.Principal) *db.Client {
	t.Helper()

	client, err := db.NewScopeFactory(database, "").Scope(p)
	require.NoError(t, err)
	return client
}
