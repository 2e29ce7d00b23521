package models

// TransactionType tells whether money came in or went out. Amounts are
// always stored positive; the sign is implied by the type.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionStatus is the processing state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// PaymentType tags a mirrored transaction with the kind of event that
// spawned it, so the mirror can be found and reversed later.
type PaymentType string

const (
	// PaymentTypeBillPayment mirrors the payer covering a bill's total.
	PaymentTypeBillPayment PaymentType = "bill_payment"
	// PaymentTypeBillSettlement mirrors a participant paying back their split.
	PaymentTypeBillSettlement PaymentType = "bill_settlement"
	// PaymentTypeGoalContribution mirrors money moved into a savings goal.
	PaymentTypeGoalContribution PaymentType = "goal_contribution"
	// PaymentTypeGoalWithdrawal mirrors money taken back out of a goal.
	PaymentTypeGoalWithdrawal PaymentType = "goal_withdrawal"
)

// Transaction is an atomic income/expense ledger entry. It is either entered
// directly by the user or mirrored by the bill/goal orchestrators to keep
// the transaction history consistent with bill and goal events.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the owner of the transaction.
	UserID string

	// Description is the human-readable label for the entry.
	Description string

	// AmountCents is always non-negative; the direction comes from Type.
	AmountCents int64

	// Category groups the transaction for budget matching.
	Category string

	// Date is the Unix timestamp the cash flow occurred.
	Date int64

	// LedgerID optionally assigns the transaction to a shared ledger.
	LedgerID string

	// Type is income or expense.
	Type TransactionType

	// Status is pending, completed, or cancelled.
	Status TransactionStatus

	// Mirror is non-nil when this transaction was generated by a bill or
	// goal event. It carries enough origin metadata for set-based cleanup
	// (e.g., deleting a bill deletes every transaction with its bill ID).
	Mirror *Mirror

	// CreatedAt is the Unix timestamp when the entry was recorded.
	CreatedAt int64
}

// Mirror identifies the originating aggregate of a mirrored transaction.
type Mirror struct {
	// BillID is set for bill_payment and bill_settlement mirrors.
	BillID string

	// GoalID is set for goal_contribution and goal_withdrawal mirrors.
	GoalID string

	// ParticipantID is set for bill_settlement mirrors: the participant
	// whose payment the transaction records.
	ParticipantID string

	// PaymentType is the kind of event that spawned the mirror.
	PaymentType PaymentType
}

// IsExpense reports whether the transaction represents money going out.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}
