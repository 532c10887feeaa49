package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the person whose bills are being tracked.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique).
	// Setup looks users up by exact email match.
	Email string

	// PhoneNumber is where SMS reminders would be sent.
	PhoneNumber string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

// NewUser returns a User with a fresh ID and creation time.
func NewUser(email, phoneNumber string, now time.Time) *User {
	return &User{
		ID:          uuid.New().String(),
		Email:       email,
		PhoneNumber: phoneNumber,
		CreatedAt:   now.Unix(),
	}
}
