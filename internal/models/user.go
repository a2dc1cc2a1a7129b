package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`             // Primary key, generated at creation, immutable
	Email        string    `json:"email" db:"email"`                 // Unique secondary key, stored lowercased
	Username     string    `json:"username" db:"username"`           // Display name, not unique
	PasswordHash string    `json:"password_hash" db:"password_hash"` // Hashed password, never exposed to callers
	CreatedOn    time.Time `json:"created_on" db:"created_on"`       // Creation timestamp, set once at insert
}
