package db

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/lyra/internal/models"
	"gorm.io/gorm"
)

// TrackRepository handles database operations for tracks. Tracks are never updated.
type TrackRepository struct {
	client *Client
}

// GetByID retrieves a track by its primary key
func (r *TrackRepository) GetByID(ctx context.Context, id string) (*models.Track, bool, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByExternalID retrieves a track by its catalogue identifier
func (r *TrackRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Track, bool, error) {
	return r.getBy(ctx, "external_track_id = ?", externalID)
}

func (r *TrackRepository) getBy(ctx context.Context, cond string, arg string) (*models.Track, bool, error) {
	var track models.Track
	var found bool
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = takeOne(tx.Where(cond, arg), &track)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get track: %w", MapGormError(err))
	}
	if !found {
		return nil, false, nil
	}
	return &track, true, nil
}

// Create inserts a track, leaving out the named columns
func (r *TrackRepository) Create(ctx context.Context, track *models.Track, omit ...string) error {
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		if len(omit) > 0 {
			tx = tx.Omit(omit...)
		}
		return tx.Create(track).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create track: %w", MapGormError(err))
	}
	return nil
}
