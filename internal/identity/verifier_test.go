package identity

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/lyra/internal/config"
	"github.com/stwalsh4118/lyra/internal/models"
)

const testSecret = "lyra_test_jwt_secret_key_1234567890abcd"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  testSecret,
		Issuer:     "lyra",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		BcryptCost: 4,
	}
}

func testUser() *models.AuthUser {
	return &models.AuthUser{ID: uuid.New(), Email: "u@example.com"}
}

// setupRevocationStore starts a miniredis instance and returns a store backed by it
func setupRevocationStore(t *testing.T) (*RedisRevocationStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisRevocationStore(rdb), mr
}

func signRaw(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestIssueAndVerify(t *testing.T) {
	cfg := testAuthConfig()
	issuer := NewTokenIssuer(cfg)
	verifier := NewVerifier(cfg, nil)
	user := testUser()

	tokens, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	principal, err := verifier.Verify(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, user.Email, principal.Email)
	assert.NotEmpty(t, principal.TokenID)
	assert.True(t, principal.ExpiresAt.After(time.Now()))
	assert.Equal(t, TokenTypeAccess, principal.Claims["typ"])

	principal, err = verifier.VerifyRefresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
}

func TestVerifyRejects(t *testing.T) {
	cfg := testAuthConfig()
	verifier := NewVerifier(cfg, nil)
	tokens, err := NewTokenIssuer(cfg).Issue(testUser())
	require.NoError(t, err)

	now := time.Now()
	valid := func() *Claims {
		return &Claims{
			TokenType: TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   uuid.NewString(),
				Issuer:    "lyra",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"

	badSubject := valid()
	badSubject.Subject = "42"

	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"refresh token used as access", tokens.RefreshToken},
		{"expired", signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"wrong issuer", signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)},
		{"non uuid subject", signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), badSubject)},
		{"missing expiry", signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{"wrong secret", signRaw(t, jwt.SigningMethodHS256, []byte("another_secret_that_is_long_enough_123"), valid())},
		{"wrong algorithm", signRaw(t, jwt.SigningMethodHS512, []byte(testSecret), valid())},
		{"unsigned", signRaw(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := verifier.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
			assert.Nil(t, principal)
		})
	}
}

func TestVerifyMissingCredential(t *testing.T) {
	verifier := NewVerifier(testAuthConfig(), nil)

	_, err := verifier.Verify(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.True(t, IsCredentialError(err))
}

func TestVerifyRevokedToken(t *testing.T) {
	cfg := testAuthConfig()
	store, mr := setupRevocationStore(t)
	verifier := NewVerifier(cfg, store)
	ctx := context.Background()

	tokens, err := NewTokenIssuer(cfg).Issue(testUser())
	require.NoError(t, err)

	principal, err := verifier.Verify(ctx, tokens.AccessToken)
	require.NoError(t, err)
	require.True(t, verifier.RevocationEnabled())

	require.NoError(t, verifier.Revoke(ctx, principal))
	assert.True(t, mr.Exists(revokedKeyPrefix+principal.TokenID))

	_, err = verifier.Verify(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	// The refresh token has its own id and is still usable
	_, err = verifier.VerifyRefresh(ctx, tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestVerifyFailsClosedWhenStoreUnavailable(t *testing.T) {
	cfg := testAuthConfig()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	verifier := NewVerifier(cfg, NewRedisRevocationStore(rdb))

	tokens, err := NewTokenIssuer(cfg).Issue(testUser())
	require.NoError(t, err)

	principal, err := verifier.Verify(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
	assert.Nil(t, principal)
}

func TestRevokeWithoutStore(t *testing.T) {
	verifier := NewVerifier(testAuthConfig(), nil)

	err := verifier.Revoke(context.Background(), &models.Principal{ID: uuid.New(), TokenID: "jti"})
	assert.ErrorIs(t, err, ErrRevocationOff)
	assert.False(t, verifier.RevocationEnabled())
}

func TestRedisRevocationStoreExpiry(t *testing.T) {
	store, mr := setupRevocationStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Already expired tokens are not stored
	require.NoError(t, store.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-2"))
}
