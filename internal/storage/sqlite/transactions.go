package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// nullable maps "" to NULL so that mirror columns stay NULL on ordinary
// user-entered transactions.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateTransaction persists a new ledger entry.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}

	var billID, goalID, participantID, paymentType any
	if m := tx.Mirror; m != nil {
		billID = nullable(m.BillID)
		goalID = nullable(m.GoalID)
		participantID = nullable(m.ParticipantID)
		paymentType = nullable(string(m.PaymentType))
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, description, amount_cents, category, date, ledger_id, type, status, bill_id, goal_id, participant_id, payment_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Description, tx.AmountCents, tx.Category, tx.Date, tx.LedgerID,
		string(tx.Type), string(tx.Status), billID, goalID, participantID, paymentType, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var txType, status string
	var billID, goalID, participantID, paymentType sql.NullString
	err := scan(&tx.ID, &tx.UserID, &tx.Description, &tx.AmountCents, &tx.Category, &tx.Date,
		&tx.LedgerID, &txType, &status, &billID, &goalID, &participantID, &paymentType, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	tx.Type = models.TransactionType(txType)
	tx.Status = models.TransactionStatus(status)
	if billID.Valid || goalID.Valid {
		tx.Mirror = &models.Mirror{
			BillID:        billID.String,
			GoalID:        goalID.String,
			ParticipantID: participantID.String,
			PaymentType:   models.PaymentType(paymentType.String),
		}
	}
	return tx, nil
}

const transactionColumns = "id, user_id, description, amount_cents, category, date, ledger_id, type, status, bill_id, goal_id, participant_id, payment_type, created_at"

// GetTransaction retrieves a transaction owned by userID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	tx, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions retrieves all transactions owned by userID, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY date DESC, created_at DESC, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// UpdateTransaction overwrites a transaction's mutable fields. Mirror
// columns are immutable after creation.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET description = ?, amount_cents = ?, category = ?, date = ?, ledger_id = ?, type = ?, status = ?
		 WHERE id = ? AND user_id = ?`,
		tx.Description, tx.AmountCents, tx.Category, tx.Date, tx.LedgerID,
		string(tx.Type), string(tx.Status), tx.ID, tx.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTransaction removes a single transaction.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// DeleteMirroredTransactions removes every transaction matching the mirror
// filter. Zero matches is success.
func (s *SQLiteStore) DeleteMirroredTransactions(ctx context.Context, userID string, f storage.MirrorFilter) (int64, error) {
	if f.BillID == "" && f.GoalID == "" {
		return 0, fmt.Errorf("mirror filter requires a bill or goal id")
	}

	conds := []string{"user_id = ?"}
	args := []any{userID}
	if f.BillID != "" {
		conds = append(conds, "bill_id = ?")
		args = append(args, f.BillID)
	}
	if f.GoalID != "" {
		conds = append(conds, "goal_id = ?")
		args = append(args, f.GoalID)
	}
	if f.ParticipantID != "" {
		conds = append(conds, "participant_id = ?")
		args = append(args, f.ParticipantID)
	}
	if f.PaymentType != "" {
		conds = append(conds, "payment_type = ?")
		args = append(args, string(f.PaymentType))
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE "+strings.Join(conds, " AND "),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete mirrored transactions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
