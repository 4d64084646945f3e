package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/lyra/internal/config"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/db/dbtest"
	"github.com/stwalsh4118/lyra/internal/identity"
	"github.com/stwalsh4118/lyra/internal/middleware"
	"github.com/stwalsh4118/lyra/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

// testEnv is a fully wired router over a migrated sqlite database
type testEnv struct {
	router *gin.Engine
	db     *db.DB
	issuer *identity.TokenIssuer
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "lyra_test_jwt_secret_key_1234567890abcd",
		Issuer:     "lyra-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

// setupTestEnv builds the router. withRevocation backs the verifier with miniredis.
func setupTestEnv(t *testing.T, withRevocation bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := dbtest.NewSQLite(t)
	cfg := testAuthConfig()

	var revocations identity.RevocationStore
	if withRevocation {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		revocations = identity.NewRedisRevocationStore(rdb)
	}

	router := gin.New()
	router.Use(middleware.RequestID())

	issuer := identity.NewTokenIssuer(cfg)
	SetupRoutes(router, Dependencies{
		DB:             database,
		Factory:        db.NewScopeFactory(database, ""),
		Provider:       identity.NewLocalProvider(database, cfg.BcryptCost),
		Issuer:         issuer,
		Verifier:       identity.NewVerifier(cfg, revocations),
		RequestTimeout: 5 * time.Second,
	})

	return &testEnv{router: router, db: database, issuer: issuer}
}

// do sends a JSON request. body may be nil, a string of raw JSON, or a value to marshal.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// seedUser creates an account with a profile and returns an access token for it
func (e *testEnv) seedUser(t *testing.T, username string) string {
	t.Helper()
	p := dbtest.SeedUser(t, e.db, username)
	return e.token(t, p)
}

func (e *testEnv) token(t *testing.T, p *models.Principal) string {
	t.Helper()
	tokens, err := e.issuer.Issue(&models.AuthUser{ID: p.ID, Email: p.Email})
	require.NoError(t, err)
	return tokens.AccessToken
}

// createPlaylist creates a playlist through the API and returns it
func (e *testEnv) createPlaylist(t *testing.T, token, name string, public bool) *PlaylistResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/playlists", token, CreatePlaylistRequest{Name: name, IsPublic: &public})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[PlaylistEnvelope](t, w).Playlist
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func itemRequest(title, externalID string) map[string]any {
	return map[string]any{
		"title":               title,
		"external_track_id":   externalID,
		"external_stream_url": "http://x",
	}
}
