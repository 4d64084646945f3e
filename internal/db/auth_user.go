package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/models"
)

// AuthUserRepository handles account storage for the identity provider.
// It runs on the service connection and is never handed to resource handlers.
type AuthUserRepository struct {
	db *DB
}

// NewAuthUserRepository creates a new auth user repository
func NewAuthUserRepository(database *DB) *AuthUserRepository {
	return &AuthUserRepository{db: database}
}

// Create inserts a new account
func (r *AuthUserRepository) Create(ctx context.Context, user *models.AuthUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create auth user: %w", MapGormError(err))
	}
	return nil
}

// GetByEmail retrieves an account by its normalised email
func (r *AuthUserRepository) GetByEmail(ctx context.Context, email string) (*models.AuthUser, bool, error) {
	var user models.AuthUser
	found, err := takeOne(r.db.WithContext(ctx).Where("email = ?", email), &user)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get auth user: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &user, true, nil
}

// GetByID retrieves an account by its UUID
func (r *AuthUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuthUser, bool, error) {
	var user models.AuthUser
	found, err := takeOne(r.db.WithContext(ctx).Where("id = ?", id.String()), &user)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get auth user: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &user, true, nil
}

// Delete removes an account; profiles and favorites cascade
func (r *AuthUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.AuthUser{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete auth user: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
