package models

import (
	"time"
)

// Bill is a payable obligation with a due date, owned by one User.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// UserID is the owning user. Required.
	UserID string

	// Name is the short label shown on the dashboard (e.g., "Rent").
	Name string

	// Description is optional free text.
	Description string

	// DueDate is a calendar date. Only the year, month and day are
	// meaningful; see DateOf.
	DueDate time.Time

	// Amount is optional. When set it is never negative.
	Amount *float64

	// Paid reports whether the bill has been settled.
	Paid bool

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// DaysUntilDue is a convenience wrapper around the package-level function.
func (b *Bill) DaysUntilDue(today time.Time) int {
	return DaysUntilDue(b.DueDate, today)
}

// IsOverdue is a convenience wrapper around the package-level function.
func (b *Bill) IsOverdue(today time.Time) bool {
	return IsOverdue(b.DueDate, b.Paid, today)
}

// Status is a convenience wrapper around StatusOf.
func (b *Bill) Status(today time.Time) BillStatus {
	return StatusOf(b.DueDate, b.Paid, today)
}

// StatusText is a convenience wrapper around the package-level function.
func (b *Bill) StatusText(today time.Time) string {
	return StatusText(b.DueDate, b.Paid, today)
}

// HasAmount reports whether an amount was recorded.
func (b *Bill) HasAmount() bool {
	return b.Amount != nil
}
