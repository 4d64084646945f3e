package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/config"
	"github.com/stwalsh4118/lyra/internal/models"
)

// Verifier turns bearer tokens into principals
type Verifier struct {
	secret      []byte
	issuer      string
	revocations RevocationStore
}

// NewVerifier creates a verifier for tokens signed with the configured secret.
// revocations may be nil, in which case revoked tokens stay valid until they expire.
func NewVerifier(cfg config.AuthConfig, revocations RevocationStore) *Verifier {
	return &Verifier{
		secret:      []byte(cfg.JWTSecret),
		issuer:      cfg.Issuer,
		revocations: revocations,
	}
}

// Verify validates an access token and returns the principal it names
func (v *Verifier) Verify(ctx context.Context, token string) (*models.Principal, error) {
	return v.verify(ctx, token, TokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns the principal it names
func (v *Verifier) VerifyRefresh(ctx context.Context, token string) (*models.Principal, error) {
	return v.verify(ctx, token, TokenTypeRefresh)
}

func (v *Verifier) verify(ctx context.Context, token, tokenType string) (*models.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingCredential
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredential
	}

	if claims.TokenType != tokenType {
		return nil, ErrInvalidCredential
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, ErrInvalidCredential
	}

	if v.revocations != nil && claims.ID != "" {
		revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify token: %w", err)
		}
		if revoked {
			return nil, ErrInvalidCredential
		}
	}

	return &models.Principal{
		ID:        userID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		Claims: map[string]any{
			"iss": claims.Issuer,
			"typ": claims.TokenType,
			"jti": claims.ID,
			"exp": claims.ExpiresAt.Unix(),
		},
	}, nil
}

// Revoke invalidates the token behind p for the rest of its lifetime
func (v *Verifier) Revoke(ctx context.Context, p *models.Principal) error {
	if v.revocations == nil {
		return ErrRevocationOff
	}
	if p == nil || p.TokenID == "" {
		return errors.New("principal carries no token id")
	}
	return v.revocations.Revoke(ctx, p.TokenID, p.ExpiresAt)
}

// RevocationEnabled reports whether Revoke can succeed
func (v *Verifier) RevocationEnabled() bool {
	return v.revocations != nil
}
