package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository handles database operations for favorites
type FavoriteRepository struct {
	client *Client
}

// Find retrieves a user's favorite for trackID, with its track
func (r *FavoriteRepository) Find(ctx context.Context, userID uuid.UUID, trackID string) (*models.Favorite, bool, error) {
	var favorite models.Favorite
	var found bool
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = takeOne(tx.Preload("Track").
			Where("user_id = ? AND track_id = ?", userID.String(), trackID), &favorite)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to find favorite: %w", MapGormError(err))
	}
	if !found {
		return nil, false, nil
	}
	return &favorite, true, nil
}

// Create inserts a new favorite. The track association is never written.
func (r *FavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(favorite).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create favorite: %w", MapGormError(err))
	}
	return nil
}

// ListWithTracks retrieves a user's favorites with their tracks, newest first
func (r *FavoriteRepository) ListWithTracks(ctx context.Context, userID uuid.UUID) ([]*models.Favorite, error) {
	var favorites []*models.Favorite
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Track").
			Where("user_id = ?", userID.String()).
			Order("created_at DESC").
			Find(&favorites).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", MapGormError(err))
	}
	return favorites, nil
}

// Delete removes a user's favorite
func (r *FavoriteRepository) Delete(ctx context.Context, userID uuid.UUID, trackID string) error {
	var affected int64
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND track_id = ?", userID.String(), trackID).Delete(&models.Favorite{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", MapGormError(err))
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
