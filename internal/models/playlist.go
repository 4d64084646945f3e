package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is a user-owned, optionally public list of tracks
type Playlist struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;column:id"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"not null;column:owner_id"`
	Name        string    `json:"name" gorm:"not null;column:name"`
	Description string    `json:"description" gorm:"not null;column:description"`
	IsPublic    bool      `json:"is_public" gorm:"not null;column:is_public"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table backing Playlist
func (Playlist) TableName() string {
	return "playlists"
}

// NewPlaylist creates a new Playlist with generated UUID and timestamps
func NewPlaylist(ownerID uuid.UUID, name, description string, isPublic bool) *Playlist {
	now := time.Now().UTC()
	return &Playlist{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// OwnedBy reports whether the playlist belongs to the given user
func (p *Playlist) OwnedBy(userID uuid.UUID) bool {
	return p.OwnerID == userID
}
