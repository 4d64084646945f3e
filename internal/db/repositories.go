package db

import (
	"errors"

	"gorm.io/gorm"
)

// Repositories provides access to all resource repositories for one scoped client
type Repositories struct {
	Profiles      *ProfileRepository
	Tracks        *TrackRepository
	Playlists     *PlaylistRepository
	PlaylistItems *PlaylistItemRepository
	Favorites     *FavoriteRepository
}

// NewRepositories creates a repository collection that issues every query through c
func NewRepositories(c *Client) *Repositories {
	return &Repositories{
		Profiles:      &ProfileRepository{client: c},
		Tracks:        &TrackRepository{client: c},
		Playlists:     &PlaylistRepository{client: c},
		PlaylistItems: &PlaylistItemRepository{client: c},
		Favorites:     &FavoriteRepository{client: c},
	}
}

// takeOne loads a single row into dest and reports whether it existed
func takeOne(query *gorm.DB, dest any) (bool, error) {
	err := query.Take(dest).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, MapGormError(err)
	}
}
