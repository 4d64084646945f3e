package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistItemRepository handles database operations for playlist items
type PlaylistItemRepository struct {
	client *Client
}

// Find retrieves the item placing trackID in playlistID, with its track
func (r *PlaylistItemRepository) Find(ctx context.Context, playlistID uuid.UUID, trackID string) (*models.PlaylistItem, bool, error) {
	var item models.PlaylistItem
	var found bool
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = takeOne(tx.Preload("Track").
			Where("playlist_id = ? AND track_id = ?", playlistID.String(), trackID), &item)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to find playlist item: %w", MapGormError(err))
	}
	if !found {
		return nil, false, nil
	}
	return &item, true, nil
}

// Create inserts a new playlist item. The track association is never written.
func (r *PlaylistItemRepository) Create(ctx context.Context, item *models.PlaylistItem) error {
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(item).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create playlist item: %w", MapGormError(err))
	}
	return nil
}

// ListWithTracks retrieves a playlist's items with their tracks, most recently added first
func (r *PlaylistItemRepository) ListWithTracks(ctx context.Context, playlistID uuid.UUID) ([]*models.PlaylistItem, error) {
	var items []*models.PlaylistItem
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Track").
			Where("playlist_id = ?", playlistID.String()).
			Order("added_at DESC").
			Order("id DESC").
			Find(&items).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", MapGormError(err))
	}
	return items, nil
}

// Delete removes an item from a playlist
func (r *PlaylistItemRepository) Delete(ctx context.Context, playlistID, itemID uuid.UUID) error {
	var affected int64
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND playlist_id = ?", itemID.String(), playlistID.String()).
			Delete(&models.PlaylistItem{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete playlist item: %w", MapGormError(err))
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
