package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := setupTestEnv(t, false)

	t.Run("creates account and default profile", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "U@Example.com", Password: testPassword})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[AuthResponse](t, w)
		assert.Equal(t, "u@example.com", resp.User.Email)
		require.NotNil(t, resp.Profile)
		assert.Regexp(t, `^u_[0-9a-f]{8}$`, resp.Profile.Username)
		assert.Equal(t, "Bearer", resp.Tokens.TokenType)
		assert.NotEmpty(t, resp.Tokens.AccessToken)

		// The issued token works against protected routes
		w = env.do(t, http.MethodGet, "/profile", resp.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, resp.Profile.Username, decode[ProfileEnvelope](t, w).Profile.Username)
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "u@example.com", Password: testPassword})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "email_taken", decode[ErrorResponse](t, w).Error)
	})

	t.Run("invalid email and weak password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "not-an-email", Password: testPassword})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "email", decode[ErrorResponse](t, w).Field)

		w = env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "short@example.com", Password: "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password", decode[ErrorResponse](t, w).Field)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/register", "", `{"email":"x@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decode[ErrorResponse](t, w).Error)
	})
}

func TestRegisterUsernameTakenRollsBackAccount(t *testing.T) {
	env := setupTestEnv(t, false)
	env.seedUser(t, "roadtrip")

	taken := "roadtrip"
	w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "v@example.com", Password: testPassword, Username: &taken})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "username_taken", decode[ErrorResponse](t, w).Error)

	// The email is free again because the account was removed
	free := "roadtrip_2"
	w = env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "v@example.com", Password: testPassword, Username: &free})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "roadtrip_2", decode[AuthResponse](t, w).Profile.Username)
}

func TestLogin(t *testing.T) {
	env := setupTestEnv(t, false)
	w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "u@example.com", Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "u@example.com", Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[AuthResponse](t, w)
	assert.Equal(t, "u@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	w = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "u@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_login", decode[ErrorResponse](t, w).Error)

	w = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "nobody@example.com", Password: testPassword})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	env := setupTestEnv(t, true)
	w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "u@example.com", Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	tokens := decode[AuthResponse](t, w).Tokens

	t.Run("access token is not a refresh token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/refresh", "", RefreshRequest{RefreshToken: tokens.AccessToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh tokens are single use", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/refresh", "", RefreshRequest{RefreshToken: tokens.RefreshToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotEmpty(t, decode[TokensResponse](t, w).Tokens.AccessToken)

		w = env.do(t, http.MethodPost, "/auth/refresh", "", RefreshRequest{RefreshToken: tokens.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout revokes the access token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/logout", tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/profile", tokens.AccessToken, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid_credential", decode[ErrorResponse](t, w).Error)
	})
}

func TestLogoutWithoutRevocationStore(t *testing.T) {
	env := setupTestEnv(t, false)
	token := env.seedUser(t, "listener")

	w := env.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "revocation_unavailable", decode[ErrorResponse](t, w).Error)
}

func TestProtectedRoutesRequireCredential(t *testing.T) {
	env := setupTestEnv(t, false)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/profile"},
		{http.MethodPatch, "/profile"},
		{http.MethodGet, "/playlists"},
		{http.MethodPost, "/playlists"},
		{http.MethodGet, "/favorites"},
		{http.MethodPost, "/favorites"},
		{http.MethodDelete, "/favorites/T1"},
		{http.MethodPost, "/auth/logout"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := env.do(t, route.method, route.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "missing_credential", decode[ErrorResponse](t, w).Error)

			w = env.do(t, route.method, route.path, "garbage", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "invalid_credential", decode[ErrorResponse](t, w).Error)
		})
	}
}
