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

// CreateGoal persists a new goal.
func (s *SQLiteStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt == 0 {
		goal.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, category, target_cents, current_cents, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Name, goal.Category,
		goal.TargetAmountCents, goal.CurrentAmountCents, string(goal.Status), goal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func scanGoal(scan func(dest ...any) error) (*models.Goal, error) {
	goal := &models.Goal{}
	var status string
	err := scan(&goal.ID, &goal.UserID, &goal.Name, &goal.Category,
		&goal.TargetAmountCents, &goal.CurrentAmountCents, &status, &goal.CreatedAt)
	if err != nil {
		return nil, err
	}
	goal.Status = models.GoalStatus(status)
	return goal, nil
}

const goalColumns = "id, user_id, name, category, target_cents, current_cents, status, created_at"

// GetGoal retrieves a goal owned by userID with its contribution ledger.
func (s *SQLiteStore) GetGoal(ctx context.Context, userID, id string) (*models.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE id = ? AND user_id = ?",
		id, userID,
	)
	goal, err := scanGoal(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, goal_id, amount_cents, note, date FROM goal_contributions WHERE goal_id = ? ORDER BY date, id",
		goal.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.GoalID, &c.AmountCents, &c.Note, &c.Date); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		goal.Contributions = append(goal.Contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return goal, nil
}

// ListGoals retrieves all goals owned by userID, without contribution ledgers.
func (s *SQLiteStore) ListGoals(ctx context.Context, userID string) ([]*models.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE user_id = ? ORDER BY created_at DESC, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

// AddGoalContribution appends the contribution and persists the goal's
// updated balance and status in one local transaction.
func (s *SQLiteStore) AddGoalContribution(ctx context.Context, goal *models.Goal, c *models.Contribution) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.GoalID = goal.ID
	if c.Date == 0 {
		c.Date = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE goals SET current_cents = ?, status = ? WHERE id = ? AND user_id = ?",
		goal.CurrentAmountCents, string(goal.Status), goal.ID, goal.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", goal.ID, storage.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO goal_contributions (id, goal_id, amount_cents, note, date) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.GoalID, c.AmountCents, c.Note, c.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateGoalStatus persists a status-only change.
func (s *SQLiteStore) UpdateGoalStatus(ctx context.Context, userID, id string, status models.GoalStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE goals SET status = ? WHERE id = ? AND user_id = ?",
		string(status), id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// DeleteGoal removes a goal; its contribution ledger cascades.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM goals WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
