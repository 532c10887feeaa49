package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, "555-0100", time.Now())
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func date(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func amount(v float64) *float64 { return &v }

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, store, "a@x.com")

	t.Run("GetUserByEmail finds exact match", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID || got.PhoneNumber != "555-0100" {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("GetUserByEmail is not fuzzy", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "A@X.COM ")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUserByID returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("a@x.com", "555-0199", time.Now())
		err := store.CreateUser(ctx, dup)
		if !errors.Is(err, storage.ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("UpdateUserPhone", func(t *testing.T) {
		if err := store.UpdateUserPhone(ctx, user.ID, "555-0142"); err != nil {
			t.Fatalf("UpdateUserPhone failed: %v", err)
		}
		got, _ := store.GetUserByID(ctx, user.ID)
		if got.PhoneNumber != "555-0142" {
			t.Errorf("phone = %q, want 555-0142", got.PhoneNumber)
		}
		if err := store.UpdateUserPhone(ctx, "missing", "x"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@x.com")
	bob := mustCreateUser(t, store, "bob@x.com")

	t.Run("CreateBill generates ID and timestamps", func(t *testing.T) {
		bill := &models.Bill{UserID: alice.ID, Name: "Water", DueDate: date("2024-05-01")}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.CreatedAt == 0 || bill.UpdatedAt != bill.CreatedAt {
			t.Errorf("unexpected timestamps: created=%d updated=%d", bill.CreatedAt, bill.UpdatedAt)
		}
	})

	t.Run("GetBill round-trips every field", func(t *testing.T) {
		original := &models.Bill{
			UserID:      alice.ID,
			Name:        "Rent",
			Description: "March rent",
			DueDate:     date("2024-03-12"),
			Amount:      amount(1200),
		}
		if err := store.CreateBill(ctx, original); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, original.ID, alice.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Name != "Rent" || got.Description != "March rent" {
			t.Errorf("unexpected bill: %+v", got)
		}
		if !got.DueDate.Equal(original.DueDate) {
			t.Errorf("DueDate = %s, want %s", got.DueDate, original.DueDate)
		}
		if got.Amount == nil || *got.Amount != 1200 {
			t.Errorf("Amount = %v, want 1200", got.Amount)
		}
		if got.Paid {
			t.Error("expected new bill to be unpaid")
		}
	})

	t.Run("GetBill hides other users' bills", func(t *testing.T) {
		bill := &models.Bill{UserID: alice.ID, Name: "Private", DueDate: date("2024-03-20")}
		store.CreateBill(ctx, bill)

		_, err := store.GetBill(ctx, bill.ID, bob.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for foreign bill, got %v", err)
		}
		_, err = store.GetBill(ctx, "nonexistent-id", alice.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing bill, got %v", err)
		}
	})

	t.Run("ListBills orders by due date", func(t *testing.T) {
		store.CreateBill(ctx, &models.Bill{UserID: bob.ID, Name: "Late", DueDate: date("2024-12-01")})
		store.CreateBill(ctx, &models.Bill{UserID: bob.ID, Name: "Early", DueDate: date("2024-01-15")})
		store.CreateBill(ctx, &models.Bill{UserID: bob.ID, Name: "Middle", DueDate: date("2024-06-30")})

		bills, err := store.ListBills(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		var names []string
		for _, b := range bills {
			names = append(names, b.Name)
		}
		want := []string{"Early", "Middle", "Late"}
		if len(names) != len(want) {
			t.Fatalf("got %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("position %d: got %s, want %s", i, names[i], want[i])
			}
		}
	})

	t.Run("UpdateBill overwrites fields and clears amount", func(t *testing.T) {
		bill := &models.Bill{UserID: alice.ID, Name: "Phone", DueDate: date("2024-04-01"), Amount: amount(50)}
		store.CreateBill(ctx, bill)

		bill.Name = "Mobile"
		bill.Amount = nil
		bill.Paid = true
		bill.UpdatedAt = bill.CreatedAt + 60
		if err := store.UpdateBill(ctx, bill); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}

		got, _ := store.GetBill(ctx, bill.ID, alice.ID)
		if got.Name != "Mobile" || got.Amount != nil || !got.Paid {
			t.Errorf("unexpected bill after update: %+v", got)
		}
		if got.UpdatedAt != bill.CreatedAt+60 {
			t.Errorf("UpdatedAt = %d, want %d", got.UpdatedAt, bill.CreatedAt+60)
		}

		// Same values again still matches the row.
		if err := store.UpdateBill(ctx, bill); err != nil {
			t.Errorf("repeat UpdateBill failed: %v", err)
		}
	})

	t.Run("UpdateBill and DeleteBill respect ownership", func(t *testing.T) {
		bill := &models.Bill{UserID: alice.ID, Name: "Gym", DueDate: date("2024-04-02")}
		store.CreateBill(ctx, bill)

		stolen := *bill
		stolen.UserID = bob.ID
		stolen.Name = "Hijacked"
		if err := store.UpdateBill(ctx, &stolen); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteBill(ctx, bill.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		got, err := store.GetBill(ctx, bill.ID, alice.ID)
		if err != nil || got.Name != "Gym" {
			t.Errorf("bill was modified: %+v, %v", got, err)
		}

		if err := store.DeleteBill(ctx, bill.ID, alice.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		if _, err := store.GetBill(ctx, bill.ID, alice.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected deleted bill to be gone, got %v", err)
		}
	})

	t.Run("CreateBill requires an existing owner", func(t *testing.T) {
		err := store.CreateBill(ctx, &models.Bill{UserID: "ghost", Name: "Orphan", DueDate: date("2024-04-03")})
		if err == nil {
			t.Error("expected foreign key violation")
		}
	})
}

func TestDeleteUserCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, store, "gone@x.com")
	other := mustCreateUser(t, store, "stays@x.com")
	for _, name := range []string{"One", "Two"} {
		store.CreateBill(ctx, &models.Bill{UserID: user.ID, Name: name, DueDate: date("2024-07-01")})
	}
	store.CreateBill(ctx, &models.Bill{UserID: other.ID, Name: "Keep", DueDate: date("2024-07-01")})

	if err := store.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := store.GetUserByID(ctx, user.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected user to be gone, got %v", err)
	}
	bills, err := store.ListBills(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListBills failed: %v", err)
	}
	if len(bills) != 0 {
		t.Errorf("expected 0 bills after cascade, got %d", len(bills))
	}

	kept, _ := store.ListBills(ctx, other.ID)
	if len(kept) != 1 {
		t.Errorf("expected other user's bill to survive, got %d", len(kept))
	}

	if err := store.DeleteUser(ctx, user.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bills.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	user := models.NewUser("persist@x.com", "555-0100", time.Now())
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	store.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetUserByEmail(context.Background(), "persist@x.com"); err != nil {
		t.Errorf("expected user after reopen, got %v", err)
	}
}
