package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for due dates.
const DateLayout = "2006-01-02"

// parseLayout also accepts single-digit months and days ("2024-3-5").
const parseLayout = "2006-1-2"

const secondsPerDay = 24 * 60 * 60

// DueSoonDays is the reminder window. A pending bill due within this many
// days (inclusive) is due soon.
const DueSoonDays = 3

// BillStatus is the derived payment state of a bill.
type BillStatus string

const (
	StatusPaid     BillStatus = "paid"
	StatusOverdue  BillStatus = "overdue"
	StatusDueSoon  BillStatus = "due_soon"
	StatusUpcoming BillStatus = "upcoming"
)

// Class returns the CSS class the dashboard uses for the status.
func (s BillStatus) Class() string {
	switch s {
	case StatusPaid:
		return "success"
	case StatusOverdue:
		return "danger"
	case StatusDueSoon:
		return "warning"
	default:
		return "primary"
	}
}

// DateOf truncates t to its calendar date in t's own location and returns
// that date at midnight UTC. Two DateOf values differ by a whole number of
// days.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date. Month and day
// may omit the leading zero.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(parseLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DaysUntilDue returns due minus today in whole days. Negative when the due
// date has passed. Works on Unix seconds since time.Duration cannot span
// more than about 292 years.
func DaysUntilDue(due, today time.Time) int {
	return int((DateOf(due).Unix() - DateOf(today).Unix()) / secondsPerDay)
}

// IsOverdue reports whether the due date is strictly before today and the
// bill is still unpaid.
func IsOverdue(due time.Time, paid bool, today time.Time) bool {
	return !paid && DateOf(due).Before(DateOf(today))
}

// StatusOf classifies a bill. Paid wins over everything, then overdue, then
// due soon.
func StatusOf(due time.Time, paid bool, today time.Time) BillStatus {
	switch {
	case paid:
		return StatusPaid
	case IsOverdue(due, paid, today):
		return StatusOverdue
	case DaysUntilDue(due, today) <= DueSoonDays:
		return StatusDueSoon
	default:
		return StatusUpcoming
	}
}

// StatusText renders the status for humans, with exact day counts.
func StatusText(due time.Time, paid bool, today time.Time) string {
	days := DaysUntilDue(due, today)
	switch StatusOf(due, paid, today) {
	case StatusPaid:
		return "Paid"
	case StatusOverdue:
		return fmt.Sprintf("Overdue by %s", pluralDays(-days))
	}
	if days == 0 {
		return "Due today"
	}
	return fmt.Sprintf("Due in %s", pluralDays(days))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
