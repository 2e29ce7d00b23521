package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/billfold/billfold/internal/metrics"
	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// GoalService orchestrates savings goals: the contribution ledger, balance
// and status derivation, mirrored transactions, and budget bookkeeping for
// contributions.
type GoalService struct {
	store   storage.Store
	mirrors *MirrorWriter
	budgets *BudgetSync
}

// NewGoalService creates a goal service with the given collaborators.
func NewGoalService(store storage.Store, mirrors *MirrorWriter, budgets *BudgetSync) *GoalService {
	return &GoalService{store: store, mirrors: mirrors, budgets: budgets}
}

// CreateGoalInput carries a new savings goal.
type CreateGoalInput struct {
	Name              string
	Category          string
	TargetAmountCents int64
}

// Create validates and persists a goal with a zero balance.
func (s *GoalService) Create(ctx context.Context, userID string, in CreateGoalInput) (*models.Goal, error) {
	if in.Name == "" {
		return nil, invalidf("name is required")
	}
	if in.Category == "" {
		return nil, invalidf("category is required")
	}
	if in.TargetAmountCents <= 0 {
		return nil, invalidf("target amount must be positive")
	}

	goal := &models.Goal{
		UserID:            userID,
		Name:              in.Name,
		Category:          in.Category,
		TargetAmountCents: in.TargetAmountCents,
		Status:            models.GoalStatusActive,
	}

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Get retrieves a goal owned by userID with its contribution ledger.
func (s *GoalService) Get(ctx context.Context, userID, id string) (*models.Goal, error) {
	goal, err := s.store.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return goal, nil
}

// List retrieves all goals owned by userID.
func (s *GoalService) List(ctx context.Context, userID string) ([]*models.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

// AddContribution appends a positive entry to the goal's ledger, bumps the
// balance and status, then mirrors the cash movement as an expense and
// counts it against budgets in the goal's category at the current time.
// The mirror and budget steps are best-effort.
func (s *GoalService) AddContribution(ctx context.Context, userID, goalID string, amountCents int64, note string) (*models.Goal, error) {
	if amountCents <= 0 {
		return nil, invalidf("contribution amount must be positive")
	}

	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	now := time.Now().Unix()
	c := &models.Contribution{
		AmountCents: amountCents,
		Note:        note,
		Date:        now,
	}
	goal.CurrentAmountCents += amountCents
	goal.Status = goal.DeriveStatus()

	if err := s.store.AddGoalContribution(ctx, goal, c); err != nil {
		return nil, mapNotFound(err)
	}
	goal.Contributions = append(goal.Contributions, *c)

	if _, err := s.mirrors.GoalContribution(ctx, goal, amountCents, now); err != nil {
		slog.Warn("goal contribution mirror failed", "goal_id", goal.ID, "error", err)
		metrics.MirrorFailures.WithLabelValues("goal_contribution").Inc()
	}
	s.budgets.ApplyDelta(ctx, userID, goal.Category, now, amountCents)

	return goal, nil
}

// Withdraw appends a negative entry to the goal's ledger and mirrors the
// cash movement as income. Withdrawing more than the balance is rejected
// before anything is written, and withdrawals never touch budgets.
func (s *GoalService) Withdraw(ctx context.Context, userID, goalID string, amountCents int64, note string) (*models.Goal, error) {
	if amountCents <= 0 {
		return nil, invalidf("withdrawal amount must be positive")
	}

	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if amountCents > goal.CurrentAmountCents {
		return nil, fmt.Errorf("%w: withdrawal of %d exceeds goal balance %d", ErrConflict, amountCents, goal.CurrentAmountCents)
	}

	now := time.Now().Unix()
	c := &models.Contribution{
		AmountCents: -amountCents,
		Note:        note,
		Date:        now,
	}
	goal.CurrentAmountCents -= amountCents
	goal.Status = goal.DeriveStatus()

	if err := s.store.AddGoalContribution(ctx, goal, c); err != nil {
		return nil, mapNotFound(err)
	}
	goal.Contributions = append(goal.Contributions, *c)

	if _, err := s.mirrors.GoalWithdrawal(ctx, goal, amountCents, now); err != nil {
		slog.Warn("goal withdrawal mirror failed", "goal_id", goal.ID, "error", err)
		metrics.MirrorFailures.WithLabelValues("goal_withdrawal").Inc()
	}

	return goal, nil
}

// Pause marks a goal paused. The state is sticky: contributions and
// withdrawals keep it unless the target is reached.
func (s *GoalService) Pause(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if goal.Status == models.GoalStatusCompleted {
		return nil, invalidf("completed goal cannot be paused")
	}

	goal.Status = models.GoalStatusPaused
	if err := s.store.UpdateGoalStatus(ctx, userID, goalID, goal.Status); err != nil {
		return nil, mapNotFound(err)
	}
	return goal, nil
}

// Resume re-derives a paused goal's status from its balance.
func (s *GoalService) Resume(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	goal.Status = models.GoalStatusActive
	goal.Status = goal.DeriveStatus()
	if err := s.store.UpdateGoalStatus(ctx, userID, goalID, goal.Status); err != nil {
		return nil, mapNotFound(err)
	}
	return goal, nil
}

// Delete removes a goal and its contribution ledger. Mirrored transactions
// are kept: contributions and withdrawals were real cash movements and the
// ledger history stays accurate without the goal.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	return mapNotFound(s.store.DeleteGoal(ctx, userID, goalID))
}
