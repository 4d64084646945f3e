package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	client *Client
}

// Get retrieves the profile of a user
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, bool, error) {
	var profile models.Profile
	var found bool
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = takeOne(tx.Where("user_id = ?", userID.String()), &profile)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get profile: %w", MapGormError(err))
	}
	if !found {
		return nil, false, nil
	}
	return &profile, true, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		return tx.Create(profile).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", MapGormError(err))
	}
	return nil
}

// Update applies the given column values to a profile and refreshes updated_at
func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now().UTC()

	var affected int64
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).Where("user_id = ?", userID.String()).Updates(updates)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", MapGormError(err))
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
