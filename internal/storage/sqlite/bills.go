package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// CreateBill persists a new bill with its items, splits, and payment map.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, user_id, description, paid_by, subtotal_cents, tax_percentage, tax_cents, tip_cents, total_cents, date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.UserID, bill.Description, bill.PaidBy,
		bill.SubtotalCents, bill.TaxPercentage, bill.TaxCents, bill.TipCents, bill.TotalCents,
		bill.Date, string(bill.Status), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for pos, participant := range bill.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_splits (bill_id, participant, position, owed_cents, paid) VALUES (?, ?, ?, ?, ?)",
			bill.ID, participant, pos, bill.Splits[participant], bill.PaymentStatus[participant],
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	for pos := range bill.Items {
		item := &bill.Items[pos]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_items (id, bill_id, name, amount_cents, position) VALUES (?, ?, ?, ?, ?)",
			item.ID, bill.ID, item.Name, item.AmountCents, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for apos, participant := range item.Participants {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO bill_item_assignments (item_id, participant, position) VALUES (?, ?, ?)",
				item.ID, participant, apos,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill owned by userID, including items, splits, and
// payment statuses.
func (s *SQLiteStore) GetBill(ctx context.Context, userID, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, paid_by, subtotal_cents, tax_percentage, tax_cents, tip_cents, total_cents, date, status, created_at
		 FROM bills WHERE id = ? AND user_id = ?`,
		billID, userID,
	).Scan(&bill.ID, &bill.UserID, &bill.Description, &bill.PaidBy,
		&bill.SubtotalCents, &bill.TaxPercentage, &bill.TaxCents, &bill.TipCents, &bill.TotalCents,
		&bill.Date, &status, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Status = models.BillStatus(status)

	if err := s.loadBillDetails(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// ListBills retrieves all bills owned by userID, newest first.
func (s *SQLiteStore) ListBills(ctx context.Context, userID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, description, paid_by, subtotal_cents, tax_percentage, tax_cents, tip_cents, total_cents, date, status, created_at
		 FROM bills WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill := &models.Bill{}
		var status string
		if err := rows.Scan(&bill.ID, &bill.UserID, &bill.Description, &bill.PaidBy,
			&bill.SubtotalCents, &bill.TaxPercentage, &bill.TaxCents, &bill.TipCents, &bill.TotalCents,
			&bill.Date, &status, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill.Status = models.BillStatus(status)
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	for _, bill := range bills {
		if err := s.loadBillDetails(ctx, bill); err != nil {
			return nil, err
		}
	}

	return bills, nil
}

// loadBillDetails fills in participants, splits, payment statuses, and items.
func (s *SQLiteStore) loadBillDetails(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant, owed_cents, paid FROM bill_splits WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	bill.Splits = make(map[string]int64)
	bill.PaymentStatus = make(map[string]bool)
	for rows.Next() {
		var participant string
		var owed int64
		var paid bool
		if err := rows.Scan(&participant, &owed, &paid); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		bill.Participants = append(bill.Participants, participant)
		bill.Splits[participant] = owed
		bill.PaymentStatus[participant] = paid
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, amount_cents FROM bill_items WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.BillItem
		if err := itemRows.Scan(&item.ID, &item.Name, &item.AmountCents); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		assignRows, err := s.db.QueryContext(ctx,
			"SELECT participant FROM bill_item_assignments WHERE item_id = ? ORDER BY position",
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var participant string
			if err := assignRows.Scan(&participant); err != nil {
				assignRows.Close()
				return fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.Participants = append(item.Participants, participant)
		}
		if err := assignRows.Err(); err != nil {
			assignRows.Close()
			return fmt.Errorf("failed to iterate assignments: %w", err)
		}
		assignRows.Close()
	}

	return nil
}

// UpdateBillSettlement persists the payment map and derived status.
func (s *SQLiteStore) UpdateBillSettlement(ctx context.Context, bill *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE bills SET status = ? WHERE id = ? AND user_id = ?",
		string(bill.Status), bill.ID, bill.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("bill %s: %w", bill.ID, storage.ErrNotFound)
	}

	for _, participant := range bill.Participants {
		_, err = tx.ExecContext(ctx,
			"UPDATE bill_splits SET paid = ? WHERE bill_id = ? AND participant = ?",
			bill.PaymentStatus[participant], bill.ID, participant,
		)
		if err != nil {
			return fmt.Errorf("failed to update split payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteBill removes a bill; dependent rows go with it via foreign keys.
func (s *SQLiteStore) DeleteBill(ctx context.Context, userID, billID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM bills WHERE id = ? AND user_id = ?",
		billID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}
