package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaylistItem places a track in a playlist. (PlaylistID, TrackID) is unique.
type PlaylistItem struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey;column:id"`
	PlaylistID uuid.UUID `json:"playlist_id" gorm:"not null;column:playlist_id"`
	TrackID    string    `json:"track_id" gorm:"not null;column:track_id"`
	AddedAt    time.Time `json:"added_at" gorm:"column:added_at"`

	// Populated by preload
	Track *Track `json:"track,omitempty" gorm:"foreignKey:TrackID;references:ID"`
}

// TableName returns the table backing PlaylistItem
func (PlaylistItem) TableName() string {
	return "playlist_items"
}

// NewPlaylistItem creates a new PlaylistItem with generated UUID and timestamp
func NewPlaylistItem(playlistID uuid.UUID, trackID string) *PlaylistItem {
	return &PlaylistItem{
		ID:         uuid.New(),
		PlaylistID: playlistID,
		TrackID:    trackID,
		AddedAt:    time.Now().UTC(),
	}
}
