package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public face of a user; UserID equals the owning principal's ID
type Profile struct {
	UserID      uuid.UUID `json:"user_id" gorm:"primaryKey;column:user_id"`
	Username    string    `json:"username" gorm:"not null;uniqueIndex;column:username"`
	DisplayName *string   `json:"display_name,omitempty" gorm:"column:display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty" gorm:"column:avatar_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table backing Profile
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a Profile for the given user with timestamps set
func NewProfile(userID uuid.UUID, username string) *Profile {
	now := time.Now().UTC()
	return &Profile{
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
