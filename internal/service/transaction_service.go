package service

import (
	"context"
	"time"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// TransactionService orchestrates the ledger CRUD and keeps budget spend in
// step with every expense mutation.
type TransactionService struct {
	store   storage.Store
	budgets *BudgetSync
}

// NewTransactionService creates a transaction service.
func NewTransactionService(store storage.Store, budgets *BudgetSync) *TransactionService {
	return &TransactionService{store: store, budgets: budgets}
}

// RecordTransactionInput carries a new ledger entry.
type RecordTransactionInput struct {
	Description string
	AmountCents int64
	Category    string
	Date        int64
	LedgerID    string
	Type        string
	Status      string
}

// UpdateTransactionInput patches an existing entry; nil fields are left
// unchanged. Mirror metadata is never patchable.
type UpdateTransactionInput struct {
	Description *string
	AmountCents *int64
	Category    *string
	Date        *int64
	LedgerID    *string
	Type        *string
	Status      *string
}

func parseTransactionType(s string) (models.TransactionType, error) {
	switch models.TransactionType(s) {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return models.TransactionType(s), nil
	default:
		return "", invalidf("type must be income or expense, got %q", s)
	}
}

func parseTransactionStatus(s string) (models.TransactionStatus, error) {
	switch models.TransactionStatus(s) {
	case models.TransactionStatusPending, models.TransactionStatusCompleted, models.TransactionStatusCancelled:
		return models.TransactionStatus(s), nil
	default:
		return "", invalidf("status must be pending, completed, or cancelled, got %q", s)
	}
}

// Record validates and persists a ledger entry, then counts an expense
// against matching budgets.
func (s *TransactionService) Record(ctx context.Context, userID string, in RecordTransactionInput) (*models.Transaction, error) {
	if in.Description == "" {
		return nil, invalidf("description is required")
	}
	if in.AmountCents <= 0 {
		return nil, invalidf("amount must be positive")
	}

	txType, err := parseTransactionType(in.Type)
	if err != nil {
		return nil, err
	}

	status := models.TransactionStatusCompleted
	if in.Status != "" {
		if status, err = parseTransactionStatus(in.Status); err != nil {
			return nil, err
		}
	}

	date := in.Date
	if date == 0 {
		date = time.Now().Unix()
	}

	tx := &models.Transaction{
		UserID:      userID,
		Description: in.Description,
		AmountCents: in.AmountCents,
		Category:    in.Category,
		Date:        date,
		LedgerID:    in.LedgerID,
		Type:        txType,
		Status:      status,
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if tx.IsExpense() {
		s.budgets.ApplyDelta(ctx, userID, tx.Category, tx.Date, tx.AmountCents)
	}

	return tx, nil
}

// Get retrieves a transaction owned by userID.
func (s *TransactionService) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return tx, nil
}

// List retrieves all transactions owned by userID.
func (s *TransactionService) List(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

// Update patches a transaction and replays its budget effect: the old
// expense is backed out against the transaction's ORIGINAL category and
// date, and the new expense is applied against the new ones. Without that
// split a category or date change would leak spend into the wrong budget.
func (s *TransactionService) Update(ctx context.Context, userID, id string, in UpdateTransactionInput) (*models.Transaction, error) {
	old, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	updated := *old
	if in.Description != nil {
		if *in.Description == "" {
			return nil, invalidf("description is required")
		}
		updated.Description = *in.Description
	}
	if in.AmountCents != nil {
		if *in.AmountCents <= 0 {
			return nil, invalidf("amount must be positive")
		}
		updated.AmountCents = *in.AmountCents
	}
	if in.Category != nil {
		updated.Category = *in.Category
	}
	if in.Date != nil {
		updated.Date = *in.Date
	}
	if in.LedgerID != nil {
		updated.LedgerID = *in.LedgerID
	}
	if in.Type != nil {
		if updated.Type, err = parseTransactionType(*in.Type); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if updated.Status, err = parseTransactionStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateTransaction(ctx, &updated); err != nil {
		return nil, mapNotFound(err)
	}

	if old.IsExpense() {
		s.budgets.ApplyDelta(ctx, userID, old.Category, old.Date, -old.AmountCents)
	}
	if updated.IsExpense() {
		s.budgets.ApplyDelta(ctx, userID, updated.Category, updated.Date, updated.AmountCents)
	}

	return &updated, nil
}

// Delete removes a transaction and backs an expense out of matching budgets.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	old, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return mapNotFound(err)
	}

	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return mapNotFound(err)
	}

	if old.IsExpense() {
		s.budgets.ApplyDelta(ctx, userID, old.Category, old.Date, -old.AmountCents)
	}

	return nil
}
