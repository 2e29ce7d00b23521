package service

import (
	"context"
	"errors"
	"testing"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

func newTransactionService(t *testing.T) (*TransactionService, storage.Store) {
	t.Helper()
	store := newTestStore(t)
	return NewTransactionService(store, NewBudgetSync(store)), store
}

func createBudget(t *testing.T, store storage.Store, category string, amountCents int64) *models.Budget {
	t.Helper()
	budget := &models.Budget{
		UserID: testUser, Name: category + " budget", AmountCents: amountCents,
		Period: "monthly", Category: category,
		StartDate: 1000, EndDate: 2000, Status: models.BudgetStatusActive,
	}
	if err := store.CreateBudget(context.Background(), budget); err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}
	return budget
}

func spentCents(t *testing.T, store storage.Store, budgetID string) int64 {
	t.Helper()
	budget, err := store.GetBudget(context.Background(), testUser, budgetID)
	if err != nil {
		t.Fatalf("GetBudget failed: %v", err)
	}
	return budget.SpentCents
}

func TestTransactionServiceRecord(t *testing.T) {
	svc, store := newTransactionService(t)
	ctx := context.Background()

	budget := createBudget(t, store, "Food", 10000)

	tx, err := svc.Record(ctx, testUser, RecordTransactionInput{
		Description: "Groceries",
		AmountCents: 2500,
		Category:    "Food",
		Date:        1500,
		Type:        "expense",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if tx.ID == "" {
		t.Error("expected transaction ID")
	}
	if tx.Status != models.TransactionStatusCompleted {
		t.Errorf("status = %q, want completed default", tx.Status)
	}
	if got := spentCents(t, store, budget.ID); got != 2500 {
		t.Errorf("budget spent = %d, want 2500", got)
	}

	t.Run("income does not touch budgets", func(t *testing.T) {
		if _, err := svc.Record(ctx, testUser, RecordTransactionInput{
			Description: "Paycheck",
			AmountCents: 100000,
			Category:    "Food",
			Date:        1500,
			Type:        "income",
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if got := spentCents(t, store, budget.ID); got != 2500 {
			t.Errorf("budget spent = %d, want 2500", got)
		}
	})

	t.Run("uncategorized expense does not touch budgets", func(t *testing.T) {
		if _, err := svc.Record(ctx, testUser, RecordTransactionInput{
			Description: "Cash withdrawal",
			AmountCents: 5000,
			Date:        1500,
			Type:        "expense",
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if got := spentCents(t, store, budget.ID); got != 2500 {
			t.Errorf("budget spent = %d, want 2500", got)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			in   RecordTransactionInput
		}{
			{name: "missing description", in: RecordTransactionInput{AmountCents: 100, Type: "expense"}},
			{name: "non-positive amount", in: RecordTransactionInput{Description: "X", AmountCents: 0, Type: "expense"}},
			{name: "bad type", in: RecordTransactionInput{Description: "X", AmountCents: 100, Type: "transfer"}},
			{name: "bad status", in: RecordTransactionInput{Description: "X", AmountCents: 100, Type: "expense", Status: "done"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := svc.Record(ctx, testUser, tt.in); !errors.Is(err, ErrValidation) {
					t.Errorf("Record error = %v, want ErrValidation", err)
				}
			})
		}
	})
}

func TestTransactionServiceUpdateReplaysBudgets(t *testing.T) {
	svc, store := newTransactionService(t)
	ctx := context.Background()

	food := createBudget(t, store, "Food", 10000)
	travel := createBudget(t, store, "Travel", 10000)

	tx, err := svc.Record(ctx, testUser, RecordTransactionInput{
		Description: "Groceries",
		AmountCents: 2500,
		Category:    "Food",
		Date:        1500,
		Type:        "expense",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	t.Run("category change moves spend between budgets", func(t *testing.T) {
		newCategory := "Travel"
		if _, err := svc.Update(ctx, testUser, tx.ID, UpdateTransactionInput{Category: &newCategory}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got := spentCents(t, store, food.ID); got != 0 {
			t.Errorf("food spent = %d, want 0", got)
		}
		if got := spentCents(t, store, travel.ID); got != 2500 {
			t.Errorf("travel spent = %d, want 2500", got)
		}
	})

	t.Run("amount change replays the delta", func(t *testing.T) {
		newAmount := int64(4000)
		if _, err := svc.Update(ctx, testUser, tx.ID, UpdateTransactionInput{AmountCents: &newAmount}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got := spentCents(t, store, travel.ID); got != 4000 {
			t.Errorf("travel spent = %d, want 4000", got)
		}
	})

	t.Run("switching to income backs the expense out", func(t *testing.T) {
		newType := "income"
		if _, err := svc.Update(ctx, testUser, tx.ID, UpdateTransactionInput{Type: &newType}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got := spentCents(t, store, travel.ID); got != 0 {
			t.Errorf("travel spent = %d, want 0", got)
		}
	})

	t.Run("unknown transaction", func(t *testing.T) {
		desc := "X"
		if _, err := svc.Update(ctx, testUser, "nope", UpdateTransactionInput{Description: &desc}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update error = %v, want ErrNotFound", err)
		}
	})
}

func TestTransactionServiceDelete(t *testing.T) {
	svc, store := newTransactionService(t)
	ctx := context.Background()

	budget := createBudget(t, store, "Food", 10000)

	tx, err := svc.Record(ctx, testUser, RecordTransactionInput{
		Description: "Groceries",
		AmountCents: 2500,
		Category:    "Food",
		Date:        1500,
		Type:        "expense",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := svc.Delete(ctx, testUser, tx.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := spentCents(t, store, budget.ID); got != 0 {
		t.Errorf("budget spent = %d, want 0 after delete", got)
	}
	if _, err := svc.Get(ctx, testUser, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}
