package library

import (
	"testing"

	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/db/dbtest"
	"github.com/stwalsh4118/lyra/internal/models"
)

// testUser bundles a seeded principal with its scoped client
type testUser struct {
	principal *models.Principal
	client    *db.Client
}

func seedUser(t *testing.T, database *db.DB, username string) testUser {
	t.Helper()
	p := dbtest.SeedUser(t, database, username)
	return testUser{principal: p, client: dbtest.Scope(t, database, p)}
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

func itemFields(title, externalID string) TrackFields {
	return TrackFields{
		Title:             title,
		ExternalTrackID:   strPtr(externalID),
		ExternalStreamURL: strPtr("http://x"),
	}
}
