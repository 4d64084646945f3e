package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/lyra/internal/models"
	"gorm.io/gorm"
)

// PlaylistRepository handles database operations for playlists
type PlaylistRepository struct {
	client *Client
}

// Create inserts a new playlist, leaving out the named columns
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist, omit ...string) error {
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		if len(omit) > 0 {
			tx = tx.Omit(omit...)
		}
		return tx.Create(playlist).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", MapGormError(err))
	}
	return nil
}

// GetByID retrieves a playlist by its UUID
func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, bool, error) {
	var playlist models.Playlist
	var found bool
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = takeOne(tx.Where("id = ?", id.String()), &playlist)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get playlist: %w", MapGormError(err))
	}
	if !found {
		return nil, false, nil
	}
	return &playlist, true, nil
}

// ListByOwner retrieves a user's playlists ordered by creation date (newest first)
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("owner_id = ?", ownerID.String()).
			Order("created_at DESC").
			Find(&playlists).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", MapGormError(err))
	}
	return playlists, nil
}

// Update applies the given column values to a playlist and refreshes updated_at.
// Map-based updates allow setting zero values such as is_public=false.
func (r *PlaylistRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now().UTC()

	var affected int64
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.Playlist{}).Where("id = ?", id.String()).Updates(updates)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", MapGormError(err))
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a playlist by its UUID (cascade delete to playlist items)
func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	err := r.client.Do(ctx, func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id.String()).Delete(&models.Playlist{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", MapGormError(err))
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
