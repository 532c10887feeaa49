package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// BillService holds the business rules behind every user action. Methods
// that act on behalf of a user take that user's ID explicitly.
type BillService struct {
	store  storage.Store
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a BillService.
type Option func(*BillService)

// WithClock overrides the time source used for "today" and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *BillService) {
		s.now = now
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *BillService) {
		s.logger = logger
	}
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, opts ...Option) *BillService {
	s := &BillService{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date.
func (s *BillService) Today() time.Time {
	return models.DateOf(s.now())
}

// SetupResult reports what Setup did.
type SetupResult struct {
	User *models.User

	// Created is true when the email was new.
	Created bool
}

// Setup finds or creates the user for email. On repeat setup the phone
// number is updated when it differs. Blank inputs fail with
// ValidationErrors.
func (s *BillService) Setup(ctx context.Context, email, phoneNumber string) (*SetupResult, error) {
	email = strings.TrimSpace(email)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if email == "" || phoneNumber == "" {
		return nil, ValidationErrors{MsgContactRequired}
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		user = models.NewUser(email, phoneNumber, s.now())
		err = s.store.CreateUser(ctx, user)
		if err == nil {
			s.logger.Info("User created", "user_id", user.ID, "email", email)
			return &SetupResult{User: user, Created: true}, nil
		}
		if !errors.Is(err, storage.ErrEmailExists) {
			return nil, err
		}
		// Lost a race with a concurrent setup for the same email.
		user, err = s.store.GetUserByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	if user.PhoneNumber != phoneNumber {
		if err := s.store.UpdateUserPhone(ctx, user.ID, phoneNumber); err != nil {
			return nil, err
		}
		user.PhoneNumber = phoneNumber
		s.logger.Info("User phone updated", "user_id", user.ID)
	}

	return &SetupResult{User: user}, nil
}

// CurrentUser resolves a session pointer. Returns storage.ErrNotFound for an
// empty or unknown ID.
func (s *BillService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, storage.ErrNotFound
	}
	return s.store.GetUserByID(ctx, userID)
}

// Dashboard loads and groups the user's bills.
func (s *BillService) Dashboard(ctx context.Context, userID string) (*calculator.Dashboard, error) {
	bills, err := s.store.ListBills(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calculator.Summarize(bills, s.Today()), nil
}

// AddBill validates input and stores a new bill owned by userID. The due
// date may not be before today.
func (s *BillService) AddBill(ctx context.Context, userID string, in BillInput) (*models.Bill, error) {
	fields, errs := parseBill(in, s.Today(), false)
	if len(errs) > 0 {
		return nil, errs
	}

	now := s.now().Unix()
	bill := &models.Bill{
		UserID:      userID,
		Name:        fields.name,
		Description: fields.description,
		DueDate:     fields.dueDate,
		Amount:      fields.amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, err
	}

	s.logger.Info("Bill created", "user_id", userID, "bill_id", bill.ID)
	return bill, nil
}

// GetBill returns the bill only if userID owns it.
func (s *BillService) GetBill(ctx context.Context, userID, billID string) (*models.Bill, error) {
	return s.store.GetBill(ctx, billID, userID)
}

// UpdateBill overwrites name, description, due date and amount. Past due
// dates are allowed. On validation failure the stored bill is returned
// unchanged alongside the ValidationErrors.
func (s *BillService) UpdateBill(ctx context.Context, userID, billID string, in BillInput) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID, userID)
	if err != nil {
		return nil, err
	}

	fields, errs := parseBill(in, s.Today(), true)
	if len(errs) > 0 {
		return bill, errs
	}

	bill.Name = fields.name
	bill.Description = fields.description
	bill.DueDate = fields.dueDate
	bill.Amount = fields.amount
	bill.UpdatedAt = s.now().Unix()
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, err
	}

	s.logger.Info("Bill updated", "user_id", userID, "bill_id", bill.ID)
	return bill, nil
}

// SetPaid sets the paid flag. Setting it to its current value only
// refreshes UpdatedAt.
func (s *BillService) SetPaid(ctx context.Context, userID, billID string, paid bool) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID, userID)
	if err != nil {
		return nil, err
	}

	bill.Paid = paid
	bill.UpdatedAt = s.now().Unix()
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, err
	}

	s.logger.Info("Bill paid flag set", "user_id", userID, "bill_id", bill.ID, "paid", paid)
	return bill, nil
}

// DeleteBill removes the bill and returns what was deleted.
func (s *BillService) DeleteBill(ctx context.Context, userID, billID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteBill(ctx, billID, userID); err != nil {
		return nil, fmt.Errorf("delete bill %s: %w", billID, err)
	}

	s.logger.Info("Bill deleted", "user_id", userID, "bill_id", billID)
	return bill, nil
}
