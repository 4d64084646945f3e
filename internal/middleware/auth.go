package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/identity"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/models"
)

const (
	principalContextKey = "principal"
	clientContextKey    = "scoped_client"
)

// TokenVerifier turns a bearer token into a principal
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.Principal, error)
}

// Authenticate verifies the bearer token and attaches the principal and a freshly scoped
// data client to the request. Requests without a valid token are rejected with 401.
func Authenticate(verifier TokenVerifier, factory *db.ScopeFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			abort(c, http.StatusUnauthorized, "missing_credential", "Authorization header is required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, http.StatusUnauthorized, "invalid_credential", "Authorization header must be in the format 'Bearer {token}'")
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrMissingCredential) {
				abort(c, http.StatusUnauthorized, "missing_credential", "Authorization header is required")
				return
			}
			if errors.Is(err, identity.ErrInvalidCredential) {
				abort(c, http.StatusUnauthorized, "invalid_credential", "Invalid or expired token")
				return
			}
			logger.Log.Error().
				Err(err).
				Str("request_id", RequestIDFromContext(c)).
				Msg("Token verification failed")
			abort(c, http.StatusInternalServerError, "internal_error", "Failed to verify credential")
			return
		}

		client, err := factory.Scope(principal)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid_credential", "Invalid or expired token")
			return
		}

		c.Set(principalContextKey, principal)
		c.Set(clientContextKey, client)
		c.Next()
	}
}

// PrincipalFromContext returns the principal attached by Authenticate
func PrincipalFromContext(c *gin.Context) (*models.Principal, bool) {
	value, ok := c.Get(principalContextKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*models.Principal)
	return principal, ok
}

// ClientFromContext returns the scoped data client attached by Authenticate
func ClientFromContext(c *gin.Context) (*db.Client, bool) {
	value, ok := c.Get(clientContextKey)
	if !ok {
		return nil, false
	}
	client, ok := value.(*db.Client)
	return client, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}
