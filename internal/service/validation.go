package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/billtracker/internal/models"
)

// Validation messages shown to the user.
const (
	MsgContactRequired = "Please provide both email and phone number."
	MsgNameRequired    = "Bill name is required."
	MsgDueDateRequired = "Due date is required."
	MsgDueDateInvalid  = "Invalid due date format."
	MsgDueDateInPast   = "Due date cannot be in the past."
	MsgAmountInvalid   = "Invalid amount format."
	MsgAmountNegative  = "Amount cannot be negative."
)

// ValidationErrors is the ordered list of problems found in one submission.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, " ")
}

// BillInput is a bill form submission before parsing.
type BillInput struct {
	Name        string
	Description string
	DueDate     string
	Amount      string
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (in BillInput) Trimmed() BillInput {
	return BillInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		DueDate:     strings.TrimSpace(in.DueDate),
		Amount:      strings.TrimSpace(in.Amount),
	}
}

// billFields is a BillInput after successful parsing.
type billFields struct {
	name        string
	description string
	dueDate     time.Time
	amount      *float64
}

// parseBill validates every field and collects all errors rather than
// stopping at the first. With allowPast false a due date before today is
// rejected.
func parseBill(in BillInput, today time.Time, allowPast bool) (billFields, ValidationErrors) {
	in = in.Trimmed()
	var errs ValidationErrors

	fields := billFields{
		name:        in.Name,
		description: in.Description,
	}

	if in.Name == "" {
		errs = append(errs, MsgNameRequired)
	}

	if in.DueDate == "" {
		errs = append(errs, MsgDueDateRequired)
	} else if due, err := models.ParseDate(in.DueDate); err != nil {
		errs = append(errs, MsgDueDateInvalid)
	} else {
		fields.dueDate = due
		if !allowPast && due.Before(models.DateOf(today)) {
			errs = append(errs, MsgDueDateInPast)
		}
	}

	if in.Amount != "" {
		amount, err := strconv.ParseFloat(in.Amount, 64)
		switch {
		case err != nil, math.IsNaN(amount), math.IsInf(amount, 0):
			errs = append(errs, MsgAmountInvalid)
		case amount < 0:
			errs = append(errs, MsgAmountNegative)
		default:
			fields.amount = &amount
		}
	}

	return fields, errs
}
