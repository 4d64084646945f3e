package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a track as liked by a user. (UserID, TrackID) is the primary key.
type Favorite struct {
	UserID    uuid.UUID `json:"user_id" gorm:"primaryKey;column:user_id"`
	TrackID   string    `json:"track_id" gorm:"primaryKey;column:track_id"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`

	// Populated by preload
	Track *Track `json:"track,omitempty" gorm:"foreignKey:TrackID;references:ID"`
}

// TableName returns the table backing Favorite
func (Favorite) TableName() string {
	return "favorites"
}

// NewFavorite creates a Favorite stamped with the current time
func NewFavorite(userID uuid.UUID, trackID string) *Favorite {
	return &Favorite{
		UserID:    userID,
		TrackID:   trackID,
		CreatedAt: time.Now().UTC(),
	}
}
