package service

import (
	"context"
	"fmt"
	"time"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// CategoryBills is the ledger category assigned to bill mirrors, and
// therefore the category a budget must use to have bill spending counted
// against it.
const CategoryBills = "Bills"

// MirrorWriter creates and removes the ledger transactions that represent
// the cash-flow effect of bill and goal events, so the general transaction
// history stays accurate without the user entering anything twice.
//
// Creation is not idempotent: calling it twice for the same logical event
// produces two mirrors, so orchestrators invoke it at most once per real
// transition. Removal is set-based and idempotent: deleting zero matches is
// success.
type MirrorWriter struct {
	store storage.Store
}

// NewMirrorWriter creates a mirror writer on the given store.
func NewMirrorWriter(store storage.Store) *MirrorWriter {
	return &MirrorWriter{store: store}
}

// BillPayment records the payer covering the bill's total as an expense.
func (w *MirrorWriter) BillPayment(ctx context.Context, bill *models.Bill) (*models.Transaction, error) {
	tx := &models.Transaction{
		UserID:      bill.UserID,
		Description: fmt.Sprintf("Bill: %s", bill.Description),
		AmountCents: bill.TotalCents,
		Category:    CategoryBills,
		Date:        bill.Date,
		Type:        models.TransactionTypeExpense,
		Status:      models.TransactionStatusCompleted,
		Mirror: &models.Mirror{
			BillID:      bill.ID,
			PaymentType: models.PaymentTypeBillPayment,
		},
	}
	if err := w.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// BillSettlement records a participant paying back their split as income
// for the bill owner.
func (w *MirrorWriter) BillSettlement(ctx context.Context, bill *models.Bill, participantID string) (*models.Transaction, error) {
	tx := &models.Transaction{
		UserID:      bill.UserID,
		Description: fmt.Sprintf("Settlement from %s: %s", participantID, bill.Description),
		AmountCents: bill.Splits[participantID],
		Category:    CategoryBills,
		Date:        time.Now().Unix(),
		Type:        models.TransactionTypeIncome,
		Status:      models.TransactionStatusCompleted,
		Mirror: &models.Mirror{
			BillID:        bill.ID,
			ParticipantID: participantID,
			PaymentType:   models.PaymentTypeBillSettlement,
		},
	}
	if err := w.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// RemoveBillSettlement deletes the settlement mirror for one participant.
// Zero matches is not an error.
func (w *MirrorWriter) RemoveBillSettlement(ctx context.Context, userID, billID, participantID string) error {
	_, err := w.store.DeleteMirroredTransactions(ctx, userID, storage.MirrorFilter{
		BillID:        billID,
		ParticipantID: participantID,
		PaymentType:   models.PaymentTypeBillSettlement,
	})
	return err
}

// RemoveBillMirrors deletes every transaction mirroring the bill: the
// payment mirror and any settlement mirrors.
func (w *MirrorWriter) RemoveBillMirrors(ctx context.Context, userID, billID string) (int64, error) {
	return w.store.DeleteMirroredTransactions(ctx, userID, storage.MirrorFilter{BillID: billID})
}

// GoalContribution records money moved into a goal as an expense in the
// goal's category.
func (w *MirrorWriter) GoalContribution(ctx context.Context, goal *models.Goal, amountCents, date int64) (*models.Transaction, error) {
	tx := &models.Transaction{
		UserID:      goal.UserID,
		Description: fmt.Sprintf("Contribution to %s", goal.Name),
		AmountCents: amountCents,
		Category:    goal.Category,
		Date:        date,
		Type:        models.TransactionTypeExpense,
		Status:      models.TransactionStatusCompleted,
		Mirror: &models.Mirror{
			GoalID:      goal.ID,
			PaymentType: models.PaymentTypeGoalContribution,
		},
	}
	if err := w.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GoalWithdrawal records money taken back out of a goal as income.
func (w *MirrorWriter) GoalWithdrawal(ctx context.Context, goal *models.Goal, amountCents, date int64) (*models.Transaction, error) {
	tx := &models.Transaction{
		UserID:      goal.UserID,
		Description: fmt.Sprintf("Withdrawal from %s", goal.Name),
		AmountCents: amountCents,
		Category:    goal.Category,
		Date:        date,
		Type:        models.TransactionTypeIncome,
		Status:      models.TransactionStatusCompleted,
		Mirror: &models.Mirror{
			GoalID:      goal.ID,
			PaymentType: models.PaymentTypeGoalWithdrawal,
		},
	}
	if err := w.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
