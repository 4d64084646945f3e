//go:build integration

// Package integration runs the service against a real Postgres with row-level security enabled.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/db/dbtest"
	"github.com/stwalsh4118/lyra/internal/library"
	"github.com/stwalsh4118/lyra/internal/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	scopedRole    = "authenticated"
)

// setupPostgres starts a disposable Postgres and applies the migrations
func setupPostgres(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("lyra"),
		postgres.WithUsername("lyra"),
		postgres.WithPassword("lyra"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "Failed to start postgres container")

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := db.New(string(db.DialectPostgres), dsn, 10*time.Second)
	require.NoError(t, err, "Failed to connect to postgres")
	t.Cleanup(func() {
		_ = database.Close()
	})

	require.NoError(t, db.RunMigrations(database, dbtest.MigrationsPath()), "Failed to run migrations")

	return database
}

// user is a registered principal acting through the scoped role
type user struct {
	principal *models.Principal
	client    *db.Client
}

// seedUser creates an account, then creates its profile through the scoped client
func seedUser(t *testing.T, database *db.DB, username string) user {
	t.Helper()

	principal := dbtest.SeedAccount(t, database, username+"@example.com")
	client, err := db.NewScopeFactory(database, scopedRole).Scope(principal)
	require.NoError(t, err)

	_, created, err := library.NewProfileService(client).Ensure(context.Background(), username)
	require.NoError(t, err)
	require.True(t, created)

	return user{principal: principal, client: client}
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
