// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billtracker/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist. Bill lookups
	// scoped to a user also return it when the bill belongs to someone else.
	ErrNotFound = errors.New("not found")

	// ErrEmailExists is returned by CreateUser when the email is taken.
	ErrEmailExists = errors.New("email already registered")
)

// Store defines the interface for user and bill storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Returns ErrEmailExists if another user
	// already has the same email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by exact email match.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUserPhone replaces a user's phone number.
	UpdateUserPhone(ctx context.Context, id, phoneNumber string) error

	// DeleteUser removes a user and every bill they own, atomically.
	DeleteUser(ctx context.Context, id string) error

	// CreateBill persists a new bill.
	// The bill.ID field will be populated by the store if empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID, only if it is owned by userID.
	GetBill(ctx context.Context, billID, userID string) (*models.Bill, error)

	// ListBills returns all bills owned by userID, ordered by due date.
	ListBills(ctx context.Context, userID string) ([]*models.Bill, error)

	// UpdateBill overwrites the mutable fields of an existing bill.
	// The bill is matched on both ID and UserID.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill owned by userID.
	DeleteBill(ctx context.Context, billID, userID string) error

	// Close releases any resources held by the store.
	Close() error
}
