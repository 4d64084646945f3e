package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/lyra/internal/models"
	"gorm.io/gorm"
)

// ErrNoPrincipal is returned when a scoped client is requested without a verified identity
var ErrNoPrincipal = errors.New("scoped client requires a verified principal")

// ScopeFactory builds request-scoped data clients.
// The connection it holds is never handed out unscoped.
type ScopeFactory struct {
	db   *DB
	role string
}

// NewScopeFactory creates a factory whose clients assume role inside every transaction.
// An empty role leaves the session role untouched.
func NewScopeFactory(database *DB, role string) *ScopeFactory {
	return &ScopeFactory{db: database, role: role}
}

// Scope returns a fresh client acting as p. Clients must not outlive the request they were built for.
func (f *ScopeFactory) Scope(p *models.Principal) (*Client, error) {
	if !p.Valid() {
		return nil, ErrNoPrincipal
	}
	return &Client{db: f.db, role: f.role, principal: *p}, nil
}

// Client executes every query as a single principal
type Client struct {
	db        *DB
	role      string
	principal models.Principal
}

// UserID returns the acting principal's ID
func (c *Client) UserID() uuid.UUID {
	return c.principal.ID
}

// Do runs fn inside a transaction bound to the client's principal.
// On postgres the principal's claims and role are installed with transaction-local settings
// before fn runs, so row-level policies evaluate against it.
func (c *Client) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := c.assume(tx); err != nil {
			return fmt.Errorf("failed to scope transaction: %w", err)
		}
		return fn(tx)
	})
}

func (c *Client) assume(tx *gorm.DB) error {
	if c.db.Dialect() != DialectPostgres {
		return nil
	}

	claims, err := json.Marshal(c.claims())
	if err != nil {
		return fmt.Errorf("failed to encode claims: %w", err)
	}

	if err := tx.Exec(
		"SELECT set_config('request.jwt.claims', ?, true), set_config('request.jwt.claim.sub', ?, true)",
		string(claims), c.principal.ID.String(),
	).Error; err != nil {
		return err
	}

	if c.role == "" {
		return nil
	}
	return tx.Exec("SET LOCAL ROLE " + pgx.Identifier{c.role}.Sanitize()).Error
}

// claims is the JSON document exposed to policies as request.jwt.claims
func (c *Client) claims() map[string]any {
	claims := make(map[string]any, len(c.principal.Claims)+3)
	for k, v := range c.principal.Claims {
		claims[k] = v
	}
	claims["sub"] = c.principal.ID.String()
	if c.principal.Email != "" {
		claims["email"] = c.principal.Email
	}
	if c.role != "" {
		claims["role"] = c.role
	}
	return claims
}
