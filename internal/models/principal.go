package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the verified identity behind a request. It lives for one request and is never persisted.
type Principal struct {
	ID        uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
	Claims    map[string]any
}

// Valid reports whether the principal carries a usable identity
func (p *Principal) Valid() bool {
	return p != nil && p.ID != uuid.Nil
}
