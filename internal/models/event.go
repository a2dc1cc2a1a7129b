package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRegisteredEvent is published to Kafka after a user record is inserted.
// Publishing is best-effort and never affects the registration outcome.
type UserRegisteredEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedOn time.Time `json:"created_on"`
}
