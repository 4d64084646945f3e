package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/identity"
	"github.com/stwalsh4118/lyra/internal/library"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/middleware"
	"github.com/stwalsh4118/lyra/internal/models"
)

// AuthHandler handles account and token requests
type AuthHandler struct {
	provider *identity.LocalProvider
	issuer   *identity.TokenIssuer
	verifier *identity.Verifier
	factory  *db.ScopeFactory
	timeout  time.Duration
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(provider *identity.LocalProvider, issuer *identity.TokenIssuer, verifier *identity.Verifier, factory *db.ScopeFactory, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		issuer:   issuer,
		verifier: verifier,
		factory:  factory,
		timeout:  timeout,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.provider.Register(ctx, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	username := library.DefaultUsername(user.Email, user.ID)
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		username = *req.Username
	}

	profile, err := h.ensureProfile(ctx, user, username)
	if err != nil {
		// Leave no account behind that the caller cannot see
		if removeErr := h.provider.Remove(ctx, user.ID); removeErr != nil {
			logger.Log.Error().
				Err(removeErr).
				Str("user_id", user.ID.String()).
				Msg("Failed to roll back registration")
		}
		writeError(c, err)
		return
	}

	tokens, err := h.issuer.Issue(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		User:    toUserResponse(user),
		Profile: toProfileResponse(profile),
		Tokens:  tokens,
	})
}

func (h *AuthHandler) ensureProfile(ctx context.Context, user *models.AuthUser, username string) (*models.Profile, error) {
	client, err := h.factory.Scope(&models.Principal{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, err
	}
	profile, _, err := library.NewProfileService(client).Ensure(ctx, username)
	return profile, err
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.provider.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidLogin) {
			logger.Log.Warn().
				Str("request_id", middleware.RequestIDFromContext(c)).
				Msg("Login rejected")
		}
		writeError(c, err)
		return
	}

	tokens, err := h.issuer.Issue(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		User:   toUserResponse(user),
		Tokens: tokens,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	principal, err := h.verifier.VerifyRefresh(ctx, req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	user, err := h.provider.Lookup(ctx, principal.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	// Refresh tokens are single use when revocation is available
	if h.verifier.RevocationEnabled() {
		if err := h.verifier.Revoke(ctx, principal); err != nil {
			writeError(c, err)
			return
		}
	}

	tokens, err := h.issuer.Issue(user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokensResponse{Tokens: tokens})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		writeError(c, identity.ErrMissingCredential)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.verifier.Revoke(ctx, principal); err != nil {
		writeError(c, err)
		return
	}

	logger.Log.Info().
		Str("user_id", principal.ID.String()).
		Msg("Access token revoked")

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}
