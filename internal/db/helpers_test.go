package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/lyra/internal/models"
)

// setupTestDB creates a migrated sqlite database in a temporary directory
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := New(string(DialectSQLite), filepath.Join(t.TempDir(), "lyra.db"), 5*time.Second)
	require.NoError(t, err)

	err = RunMigrations(database, "file://../../migrations")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// seedUser inserts an auth user and a profile and returns a client scoped to that user
func seedUser(t *testing.T, database *DB, username string) *Client {
	t.Helper()

	user := &models.AuthUser{
		ID:           uuid.New(),
		Email:        username + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, database.Create(user).Error)

	client, err := NewScopeFactory(database, "").Scope(&models.Principal{ID: user.ID, Email: user.Email})
	require.NoError(t, err)

	require.NoError(t, NewRepositories(client).Profiles.Create(context.Background(), models.NewProfile(user.ID, username)))

	return client
}

func strPtr(s string) *string {
	return &s
}
