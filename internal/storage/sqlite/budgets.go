package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// CreateBudget persists a new budget.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, name, amount_cents, spent_cents, period, category, start_date, end_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.UserID, budget.Name, budget.AmountCents, budget.SpentCents,
		budget.Period, budget.Category, budget.StartDate, budget.EndDate, string(budget.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

func scanBudget(scan func(dest ...any) error) (*models.Budget, error) {
	budget := &models.Budget{}
	var status string
	err := scan(&budget.ID, &budget.UserID, &budget.Name, &budget.AmountCents, &budget.SpentCents,
		&budget.Period, &budget.Category, &budget.StartDate, &budget.EndDate, &status)
	if err != nil {
		return nil, err
	}
	budget.Status = models.BudgetStatus(status)
	return budget, nil
}

const budgetColumns = "id, user_id, name, amount_cents, spent_cents, period, category, start_date, end_date, status"

// GetBudget retrieves a budget owned by userID.
func (s *SQLiteStore) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE id = ? AND user_id = ?",
		id, userID,
	)
	budget, err := scanBudget(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return budget, nil
}

// ListBudgets retrieves all budgets owned by userID.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = ? ORDER BY start_date DESC, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget overwrites a budget's fields.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets
		 SET name = ?, amount_cents = ?, spent_cents = ?, period = ?, category = ?, start_date = ?, end_date = ?, status = ?
		 WHERE id = ? AND user_id = ?`,
		budget.Name, budget.AmountCents, budget.SpentCents, budget.Period, budget.Category,
		budget.StartDate, budget.EndDate, string(budget.Status), budget.ID, budget.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("budget %s: %w", budget.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteBudget removes a budget.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("budget %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ApplyBudgetDelta adds deltaCents to the spent accumulator of every budget
// matching the category and window in one statement. The increment, the
// clamp at zero, and the status recompute all happen inside SQLite, so
// concurrent deltas on the same budget cannot lose updates the way a
// read-modify-write pair would.
func (s *SQLiteStore) ApplyBudgetDelta(ctx context.Context, userID, category string, date, deltaCents int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets
		 SET spent_cents = MAX(0, spent_cents + ?),
		     status = CASE WHEN MAX(0, spent_cents + ?) >= amount_cents THEN 'exceeded' ELSE 'active' END
		 WHERE user_id = ? AND category = ? AND start_date <= ? AND end_date >= ?`,
		deltaCents, deltaCents, userID, category, date, date,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to apply budget delta: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
