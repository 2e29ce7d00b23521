package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
	"github.com/billfold/billfold/internal/storage/sqlite"
)

const testUser = "user-1"

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newBillService(t *testing.T) (*BillService, storage.Store) {
	t.Helper()
	store := newTestStore(t)
	return NewBillService(store, NewMirrorWriter(store), NewBudgetSync(store)), store
}

func dinnerInput() CreateBillInput {
	return CreateBillInput{
		Description: "Dinner",
		Items: []BillItemInput{
			{Name: "Pizza", AmountCents: 2000, Participants: []string{"alice", "bob"}},
			{Name: "Salad", AmountCents: 1000, Participants: []string{"carol"}},
		},
		PaidBy:        "alice",
		Participants:  []string{"alice", "bob", "carol"},
		TaxPercentage: 10,
		Date:          1500,
	}
}

func mirrorsFor(t *testing.T, store storage.Store, userID string, paymentType models.PaymentType) []*models.Transaction {
	t.Helper()
	txs, err := store.ListTransactions(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	var out []*models.Transaction
	for _, tx := range txs {
		if tx.Mirror != nil && tx.Mirror.PaymentType == paymentType {
			out = append(out, tx)
		}
	}
	return out
}

func TestBillServiceCreate(t *testing.T) {
	svc, store := newBillService(t)
	ctx := context.Background()

	bill, err := svc.Create(ctx, testUser, dinnerInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if bill.Status != models.BillStatusFinalized {
		t.Errorf("status = %q, want finalized", bill.Status)
	}
	if bill.TotalCents != 3300 {
		t.Errorf("total = %d, want 3300", bill.TotalCents)
	}
	var sum int64
	for _, s := range bill.Splits {
		sum += s
	}
	if sum != bill.TotalCents {
		t.Errorf("splits sum to %d, want %d", sum, bill.TotalCents)
	}
	if !bill.PaymentStatus["alice"] {
		t.Error("payer should start settled")
	}
	if bill.PaymentStatus["bob"] || bill.PaymentStatus["carol"] {
		t.Error("non-payers should start pending")
	}

	mirrors := mirrorsFor(t, store, testUser, models.PaymentTypeBillPayment)
	if len(mirrors) != 1 {
		t.Fatalf("payment mirrors = %d, want 1", len(mirrors))
	}
	mirror := mirrors[0]
	if mirror.AmountCents != 3300 || mirror.Category != CategoryBills || mirror.Type != models.TransactionTypeExpense {
		t.Errorf("mirror = %+v", mirror)
	}
	if mirror.Mirror.BillID != bill.ID {
		t.Errorf("mirror bill = %q, want %q", mirror.Mirror.BillID, bill.ID)
	}
}

func TestBillServiceCreateCountsAgainstBudget(t *testing.T) {
	svc, store := newBillService(t)
	ctx := context.Background()

	budget := &models.Budget{
		UserID: testUser, Name: "Bills budget", AmountCents: 10000,
		Period: "monthly", Category: CategoryBills,
		StartDate: 1000, EndDate: 2000, Status: models.BudgetStatusActive,
	}
	if err := store.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}

	if _, err := svc.Create(ctx, testUser, dinnerInput()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, _ := store.GetBudget(ctx, testUser, budget.ID)
	if got.SpentCents != 3300 {
		t.Errorf("budget spent = %d, want 3300", got.SpentCents)
	}
}

func TestBillServiceCreateValidation(t *testing.T) {
	svc, _ := newBillService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(in *CreateBillInput)
	}{
		{
			name:   "missing description",
			mutate: func(in *CreateBillInput) { in.Description = "" },
		},
		{
			name:   "no participants",
			mutate: func(in *CreateBillInput) { in.Participants = nil },
		},
		{
			name:   "payer not a participant",
			mutate: func(in *CreateBillInput) { in.PaidBy = "mallory" },
		},
		{
			name: "item assigned to stranger",
			mutate: func(in *CreateBillInput) {
				in.Items[0].Participants = []string{"mallory"}
			},
		},
		{
			name:   "negative tax",
			mutate: func(in *CreateBillInput) { in.TaxPercentage = -5 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := dinnerInput()
			tt.mutate(&in)
			if _, err := svc.Create(ctx, testUser, in); !errors.Is(err, ErrValidation) {
				t.Errorf("Create error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBillServiceDraftCreation(t *testing.T) {
	svc, _ := newBillService(t)
	ctx := context.Background()

	in := dinnerInput()
	in.Draft = true
	bill, err := svc.Create(ctx, testUser, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if bill.Status != models.BillStatusDraft {
		t.Errorf("status = %q, want draft", bill.Status)
	}
}

func TestBillServiceSetParticipantPaymentStatus(t *testing.T) {
	svc, store := newBillService(t)
	ctx := context.Background()

	bill, err := svc.Create(ctx, testUser, dinnerInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("marking paid mirrors the settlement", func(t *testing.T) {
		updated, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "bob", "paid")
		if err != nil {
			t.Fatalf("SetParticipantPaymentStatus failed: %v", err)
		}
		if !updated.PaymentStatus["bob"] {
			t.Error("bob should be paid")
		}
		if updated.Status != models.BillStatusFinalized {
			t.Errorf("status = %q, want finalized", updated.Status)
		}

		mirrors := mirrorsFor(t, store, testUser, models.PaymentTypeBillSettlement)
		if len(mirrors) != 1 {
			t.Fatalf("settlement mirrors = %d, want 1", len(mirrors))
		}
		if mirrors[0].AmountCents != bill.Splits["bob"] || mirrors[0].Type != models.TransactionTypeIncome {
			t.Errorf("mirror = %+v", mirrors[0])
		}
		if mirrors[0].Mirror.ParticipantID != "bob" {
			t.Errorf("mirror participant = %q, want bob", mirrors[0].Mirror.ParticipantID)
		}
	})

	t.Run("repeating paid is idempotent", func(t *testing.T) {
		if _, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "bob", "paid"); err != nil {
			t.Fatalf("SetParticipantPaymentStatus failed: %v", err)
		}
		if mirrors := mirrorsFor(t, store, testUser, models.PaymentTypeBillSettlement); len(mirrors) != 1 {
			t.Errorf("settlement mirrors = %d, want 1 after repeat", len(mirrors))
		}
	})

	t.Run("last payer settles the bill", func(t *testing.T) {
		updated, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "carol", "paid")
		if err != nil {
			t.Fatalf("SetParticipantPaymentStatus failed: %v", err)
		}
		if updated.Status != models.BillStatusSettled {
			t.Errorf("status = %q, want settled", updated.Status)
		}
	})

	t.Run("reverting removes the mirror and reopens the bill", func(t *testing.T) {
		updated, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "bob", "pending")
		if err != nil {
			t.Fatalf("SetParticipantPaymentStatus failed: %v", err)
		}
		if updated.Status != models.BillStatusFinalized {
			t.Errorf("status = %q, want finalized", updated.Status)
		}

		mirrors := mirrorsFor(t, store, testUser, models.PaymentTypeBillSettlement)
		if len(mirrors) != 1 {
			t.Fatalf("settlement mirrors = %d, want 1 (carol's)", len(mirrors))
		}
		if mirrors[0].Mirror.ParticipantID != "carol" {
			t.Errorf("surviving mirror belongs to %q, want carol", mirrors[0].Mirror.ParticipantID)
		}
	})

	t.Run("payer is immutable", func(t *testing.T) {
		if _, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "alice", "pending"); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		if _, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "bob", "settled"); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown bill", func(t *testing.T) {
		if _, err := svc.SetParticipantPaymentStatus(ctx, testUser, "nope", "bob", "paid"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestBillServiceDelete(t *testing.T) {
	svc, store := newBillService(t)
	ctx := context.Background()

	budget := &models.Budget{
		UserID: testUser, Name: "Bills budget", AmountCents: 10000,
		Period: "monthly", Category: CategoryBills,
		StartDate: 1000, EndDate: 2000, Status: models.BudgetStatusActive,
	}
	if err := store.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("CreateBudget failed: %v", err)
	}

	bill, err := svc.Create(ctx, testUser, dinnerInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "bob", "paid"); err != nil {
		t.Fatalf("SetParticipantPaymentStatus failed: %v", err)
	}

	if err := svc.Delete(ctx, testUser, bill.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.Get(ctx, testUser, bill.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}

	txs, err := store.ListTransactions(ctx, testUser)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("transactions = %d, want 0 after bill cleanup", len(txs))
	}

	got, _ := store.GetBudget(ctx, testUser, budget.ID)
	if got.SpentCents != 0 {
		t.Errorf("budget spent = %d, want 0 after reversal", got.SpentCents)
	}
}

func TestBillServiceSettlementReports(t *testing.T) {
	svc, _ := newBillService(t)
	ctx := context.Background()

	bill, err := svc.Create(ctx, testUser, dinnerInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.SetParticipantPaymentStatus(ctx, testUser, bill.ID, "bob", "paid"); err != nil {
		t.Fatalf("SetParticipantPaymentStatus failed: %v", err)
	}

	summary, err := svc.GetSettlementSummary(ctx, testUser, bill.ID)
	if err != nil {
		t.Fatalf("GetSettlementSummary failed: %v", err)
	}
	wantOwed := bill.Splits["bob"] + bill.Splits["carol"]
	if summary.TotalOwedCents != wantOwed {
		t.Errorf("total owed = %d, want %d", summary.TotalOwedCents, wantOwed)
	}
	if summary.TotalPaidCents != bill.Splits["bob"] {
		t.Errorf("total paid = %d, want %d", summary.TotalPaidCents, bill.Splits["bob"])
	}
	if summary.FullySettled {
		t.Error("bill should not be fully settled")
	}

	edges, err := svc.GetOptimalSettlements(ctx, testUser, bill.ID)
	if err != nil {
		t.Fatalf("GetOptimalSettlements failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	if edges[0].From != "carol" || edges[0].To != "alice" || edges[0].AmountCents != bill.Splits["carol"] {
		t.Errorf("edge = %+v", edges[0])
	}
}
