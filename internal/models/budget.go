package models

// BudgetStatus is the derived state of a budget relative to its cap.
type BudgetStatus string

const (
	BudgetStatusActive   BudgetStatus = "active"
	BudgetStatusExceeded BudgetStatus = "exceeded"
	// BudgetStatusCompleted marks a closed-out budget. Any spend delta
	// landing on the budget clears it back to active/exceeded.
	BudgetStatusCompleted BudgetStatus = "completed"
)

// Budget is a spending cap over a category and date window. SpentCents is a
// running accumulator mutated only by the budget synchronizer in response to
// matching expense events, never directly by the API except an explicit
// reassignment.
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string

	// UserID is the owner of the budget.
	UserID string

	// Name is the display name (e.g., "Groceries January").
	Name string

	// AmountCents is the spending cap.
	AmountCents int64

	// SpentCents is the accumulated spend, clamped at zero.
	SpentCents int64

	// Period is the human-facing cadence label (weekly, monthly, yearly).
	Period string

	// Category must match a transaction's category exactly for the
	// transaction to count against this budget.
	Category string

	// StartDate and EndDate bound the window, inclusive on both ends,
	// as Unix timestamps.
	StartDate int64
	EndDate   int64

	// Status is exceeded iff SpentCents >= AmountCents, recomputed on
	// every delta application.
	Status BudgetStatus
}

// DeriveStatus returns the status implied by the current spend and cap.
func (b *Budget) DeriveStatus() BudgetStatus {
	if b.SpentCents >= b.AmountCents {
		return BudgetStatusExceeded
	}
	return BudgetStatusActive
}

// Contains reports whether date falls inside the budget window.
func (b *Budget) Contains(date int64) bool {
	return b.StartDate <= date && date <= b.EndDate
}
