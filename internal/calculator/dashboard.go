// Package calculator derives dashboard views from stored bills.
package calculator

import (
	"time"

	"github.com/mmynk/billtracker/internal/models"
)

// Entry is a bill paired with its status as of a given day.
type Entry struct {
	Bill         *models.Bill
	DaysUntilDue int
	Status       models.BillStatus
	StatusText   string
}

// Class returns the CSS class for the entry's status.
func (e Entry) Class() string {
	return e.Status.Class()
}

// Dashboard is the grouped view of one user's bills.
type Dashboard struct {
	// Pending and Paid keep the input order (due date ascending).
	Pending []Entry
	Paid    []Entry

	// Reminders are the pending bills due between today and
	// models.DueSoonDays days from now, inclusive.
	Reminders []Entry

	// PendingTotal sums the amounts of pending bills that have one.
	PendingTotal float64

	// OverdueCount is the number of pending bills past their due date.
	OverdueCount int
}

// NewEntry computes the derived fields of bill for today.
func NewEntry(bill *models.Bill, today time.Time) Entry {
	return Entry{
		Bill:         bill,
		DaysUntilDue: bill.DaysUntilDue(today),
		Status:       bill.Status(today),
		StatusText:   bill.StatusText(today),
	}
}

// Summarize partitions bills into pending, paid and reminder lists.
// bills is expected to already be sorted by due date.
func Summarize(bills []*models.Bill, today time.Time) *Dashboard {
	d := &Dashboard{
		Pending:   []Entry{},
		Paid:      []Entry{},
		Reminders: []Entry{},
	}

	for _, bill := range bills {
		entry := NewEntry(bill, today)
		if bill.Paid {
			d.Paid = append(d.Paid, entry)
			continue
		}

		d.Pending = append(d.Pending, entry)
		if bill.HasAmount() {
			d.PendingTotal += *bill.Amount
		}
		if bill.IsOverdue(today) {
			d.OverdueCount++
		}
		if entry.DaysUntilDue >= 0 && entry.DaysUntilDue <= models.DueSoonDays {
			d.Reminders = append(d.Reminders, entry)
		}
	}

	return d
}
