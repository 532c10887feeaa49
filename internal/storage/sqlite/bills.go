package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const billColumns = `id, user_id, name, description, due_date, amount, is_paid, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.UpdatedAt == 0 {
		bill.UpdatedAt = bill.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID,
		bill.UserID,
		bill.Name,
		bill.Description,
		bill.DueDate.Format(models.DateLayout),
		nullAmount(bill.Amount),
		bill.Paid,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, scoped to its owner.
func (s *SQLiteStore) GetBill(ctx context.Context, billID, userID string) (*models.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = ? AND user_id = ?",
		billID, userID,
	)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// ListBills returns every bill owned by userID, earliest due date first.
func (s *SQLiteStore) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE user_id = ? ORDER BY due_date ASC, created_at ASC, id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// UpdateBill writes every mutable column of the bill.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bills
		SET name = ?, description = ?, due_date = ?, amount = ?, is_paid = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		bill.Name,
		bill.Description,
		bill.DueDate.Format(models.DateLayout),
		nullAmount(bill.Amount),
		bill.Paid,
		bill.UpdatedAt,
		bill.ID,
		bill.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return expectOneRow(res)
}

// DeleteBill permanently removes a bill.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM bills WHERE id = ? AND user_id = ?",
		billID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return expectOneRow(res)
}

func scanBill(row rowScanner) (*models.Bill, error) {
	var (
		bill    models.Bill
		dueDate string
		amount  sql.NullFloat64
	)
	err := row.Scan(
		&bill.ID,
		&bill.UserID,
		&bill.Name,
		&bill.Description,
		&dueDate,
		&amount,
		&bill.Paid,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bill.DueDate, err = models.ParseDate(dueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", dueDate, err)
	}
	if amount.Valid {
		v := amount.Float64
		bill.Amount = &v
	}
	return &bill, nil
}

func nullAmount(amount *float64) sql.NullFloat64 {
	if amount == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *amount, Valid: true}
}
