package models

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive GoalStatus = "active"
	// GoalStatusCompleted holds iff CurrentAmountCents >= TargetAmountCents.
	GoalStatusCompleted GoalStatus = "completed"
	// GoalStatusPaused is sticky: it survives contributions and withdrawals
	// unless completion overrides it.
	GoalStatusPaused GoalStatus = "paused"
)

// Goal is a savings target with a contribution ledger. CurrentAmountCents is
// conceptually the sum of the signed contribution amounts.
type Goal struct {
	// ID is the unique identifier for the goal (UUID format).
	ID string

	// UserID is the owner of the goal.
	UserID string

	// Name is the display name (e.g., "Emergency fund").
	Name string

	// Category is used for budget matching when contributions are mirrored
	// into the transaction ledger.
	Category string

	// TargetAmountCents is the savings target.
	TargetAmountCents int64

	// CurrentAmountCents is the accumulated balance.
	CurrentAmountCents int64

	// Status is derived on every balance change; see DeriveStatus.
	Status GoalStatus

	// Contributions is the append-only ledger of signed entries, in entry
	// order. Contributions are positive, withdrawals negative.
	Contributions []Contribution

	// CreatedAt is the Unix timestamp when the goal was created.
	CreatedAt int64
}

// Contribution is one signed entry in a goal's contribution ledger.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// GoalID is the goal this entry belongs to.
	GoalID string

	// AmountCents is positive for contributions, negative for withdrawals.
	AmountCents int64

	// Note is an optional free-form annotation.
	Note string

	// Date is the Unix timestamp when the entry was recorded.
	Date int64
}

// DeriveStatus returns the status implied by the current balance: completed
// when the target is reached, otherwise the sticky paused state is kept and
// anything else is active.
func (g *Goal) DeriveStatus() GoalStatus {
	if g.CurrentAmountCents >= g.TargetAmountCents {
		return GoalStatusCompleted
	}
	if g.Status == GoalStatusPaused {
		return GoalStatusPaused
	}
	return GoalStatusActive
}
