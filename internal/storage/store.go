// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/billfold/billfold/internal/models"
)

// ErrNotFound is returned when a record does not exist or is not owned by
// the requesting user. Ownership misses are indistinguishable from absence
// on purpose.
var ErrNotFound = errors.New("not found")

// MirrorFilter selects mirrored transactions by their origin metadata for
// set-based cleanup. Zero-valued fields are ignored; at least one of BillID
// or GoalID must be set.
type MirrorFilter struct {
	BillID        string
	GoalID        string
	ParticipantID string
	PaymentType   models.PaymentType
}

// Store defines the interface for Billfold's persistence operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every read and mutation is scoped by user ID; no call can touch another
// user's aggregates. Each method is a single independent write: there is no
// cross-aggregate transaction, and the service layer is responsible for the
// best-effort ordering between them.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateBill persists a new bill with its items, splits, and payment
	// map. The bill's ID and CreatedAt are populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill owned by userID, including items, splits,
	// and payment statuses.
	GetBill(ctx context.Context, userID, billID string) (*models.Bill, error)

	// ListBills retrieves all bills owned by userID, newest first.
	ListBills(ctx context.Context, userID string) ([]*models.Bill, error)

	// UpdateBillSettlement persists the bill's payment map and derived
	// status after a settlement transition.
	UpdateBillSettlement(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill and its dependent rows. Mirrored
	// transactions are NOT removed here; the service layer cleans those
	// up as a separate best-effort step.
	DeleteBill(ctx context.Context, userID, billID string) error

	// CreateTransaction persists a new ledger entry. ID and CreatedAt are
	// populated by the store.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction owned by userID.
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)

	// ListTransactions retrieves all transactions owned by userID, newest
	// first.
	ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)

	// UpdateTransaction overwrites a transaction's mutable fields.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes a single transaction.
	DeleteTransaction(ctx context.Context, userID, id string) error

	// DeleteMirroredTransactions removes every transaction matching the
	// mirror filter and reports how many were removed. Zero matches is
	// success, making reversal idempotent.
	DeleteMirroredTransactions(ctx context.Context, userID string, f MirrorFilter) (int64, error)

	// CreateBudget persists a new budget. ID is populated by the store.
	CreateBudget(ctx context.Context, budget *models.Budget) error

	// GetBudget retrieves a budget owned by userID.
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)

	// ListBudgets retrieves all budgets owned by userID.
	ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error)

	// UpdateBudget overwrites a budget's fields, including an explicit
	// spent reassignment, with its status already recomputed by the caller.
	UpdateBudget(ctx context.Context, budget *models.Budget) error

	// DeleteBudget removes a budget.
	DeleteBudget(ctx context.Context, userID, id string) error

	// ApplyBudgetDelta atomically adds deltaCents to the spent accumulator
	// of every budget owned by userID whose category matches exactly and
	// whose window contains date (inclusive bounds). Spend is clamped at
	// zero and status is recomputed in the same statement. Returns the
	// number of budgets touched.
	ApplyBudgetDelta(ctx context.Context, userID, category string, date, deltaCents int64) (int64, error)

	// CreateGoal persists a new goal. ID and CreatedAt are populated by
	// the store.
	CreateGoal(ctx context.Context, goal *models.Goal) error

	// GetGoal retrieves a goal owned by userID with its contribution
	// ledger in entry order.
	GetGoal(ctx context.Context, userID, id string) (*models.Goal, error)

	// ListGoals retrieves all goals owned by userID, without contribution
	// ledgers.
	ListGoals(ctx context.Context, userID string) ([]*models.Goal, error)

	// AddGoalContribution appends a signed contribution and persists the
	// goal's updated balance and status in one local transaction.
	AddGoalContribution(ctx context.Context, goal *models.Goal, c *models.Contribution) error

	// UpdateGoalStatus persists a status-only change (pause/resume).
	UpdateGoalStatus(ctx context.Context, userID, id string, status models.GoalStatus) error

	// DeleteGoal removes a goal and its contribution ledger. Mirrored
	// transactions are kept: they record cash flows that really happened.
	DeleteGoal(ctx context.Context, userID, id string) error

	// Close releases any resources held by the store.
	Close() error
}
