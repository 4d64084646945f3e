package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/db"
	"github.com/stwalsh4118/lyra/internal/logger"
	"github.com/stwalsh4118/lyra/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

// LocalProvider manages accounts stored in auth_users with bcrypt password hashes
type LocalProvider struct {
	users *db.AuthUserRepository
	cost  int
}

// NewLocalProvider creates a provider over the service connection
func NewLocalProvider(database *db.DB, bcryptCost int) *LocalProvider {
	return &LocalProvider{
		users: db.NewAuthUserRepository(database),
		cost:  bcryptCost,
	}
}

// Register creates an account for email and password
func (p *LocalProvider) Register(ctx context.Context, email, password string) (*models.AuthUser, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AuthUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.users.Create(ctx, user); err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Log.Info().
		Str("user_id", user.ID.String()).
		Msg("Account registered")

	return user, nil
}

// Authenticate checks email and password and returns the matching account
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.AuthUser, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	user, found, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}

	return user, nil
}

// Lookup returns the account with the given ID
func (p *LocalProvider) Lookup(ctx context.Context, id uuid.UUID) (*models.AuthUser, error) {
	user, found, err := p.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Remove deletes an account. Used to undo a registration whose profile could not be created.
func (p *LocalProvider) Remove(ctx context.Context, id uuid.UUID) error {
	if err := p.users.Delete(ctx, id); err != nil && !db.IsNotFound(err) {
		return err
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
