package service

import (
	"context"
	"log/slog"

	"github.com/billfold/billfold/internal/metrics"
	"github.com/billfold/billfold/internal/storage"
)

// BudgetSync propagates signed spend deltas into every budget whose category
// and date window match an expense event. It is the single shared component
// behind all budget bookkeeping: transaction create/update/delete, bill
// payments, and goal contributions all funnel through ApplyDelta.
type BudgetSync struct {
	store storage.Store
}

// NewBudgetSync creates a budget synchronizer on the given store.
func NewBudgetSync(store storage.Store) *BudgetSync {
	return &BudgetSync{store: store}
}

// ApplyDelta adds deltaCents to the spent accumulator of every budget owned
// by userID whose category matches exactly and whose window contains date,
// inclusive on both ends. Spend is clamped at zero and status is recomputed
// (spent >= amount means exceeded, anything else active; a completed budget
// receiving a delta is reopened).
//
// A missing category, zero date, or zero delta is a silent no-op: budgets
// are category+date scoped and a zero delta changes nothing.
//
// ApplyDelta never returns an error. It runs after the caller's primary
// mutation has committed, so a failure here must not fail the operation;
// it is logged and counted instead, and the budget drifts until the next
// matching delta or an explicit reassignment.
func (s *BudgetSync) ApplyDelta(ctx context.Context, userID, category string, date, deltaCents int64) {
	if category == "" || date == 0 || deltaCents == 0 {
		return
	}

	matched, err := s.store.ApplyBudgetDelta(ctx, userID, category, date, deltaCents)
	if err != nil {
		slog.Warn("budget sync failed",
			"user_id", userID,
			"category", category,
			"delta_cents", deltaCents,
			"error", err,
		)
		metrics.BudgetSyncFailures.Inc()
		return
	}

	if matched > 0 {
		metrics.BudgetSyncApplied.Add(float64(matched))
		slog.Debug("budget sync applied",
			"user_id", userID,
			"category", category,
			"delta_cents", deltaCents,
			"budgets", matched,
		)
	}
}
