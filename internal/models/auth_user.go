package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthUser is an account known to the identity provider
type AuthUser struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;column:id"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex;column:email"`
	PasswordHash string    `json:"-" gorm:"not null;column:password_hash"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table backing AuthUser
func (AuthUser) TableName() string {
	return "auth_users"
}
