package service

import (
	"context"

	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/storage"
)

// BudgetService handles budget CRUD. The spent accumulator is owned by the
// budget synchronizer; the only direct write to it is an explicit
// reassignment through Update, which recomputes the status like any delta
// application would.
type BudgetService struct {
	store storage.Store
}

// NewBudgetService creates a budget service.
func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store}
}

// CreateBudgetInput carries a new budget.
type CreateBudgetInput struct {
	Name        string
	AmountCents int64
	Period      string
	Category    string
	StartDate   int64
	EndDate     int64
}

// UpdateBudgetInput patches a budget; nil fields are left unchanged.
type UpdateBudgetInput struct {
	Name        *string
	AmountCents *int64
	SpentCents  *int64
	Period      *string
	Category    *string
	StartDate   *int64
	EndDate     *int64
	// Completed closes the budget out. Any later spend delta landing on it
	// reopens it to active/exceeded.
	Completed *bool
}

// Create validates and persists a budget with zero accumulated spend.
func (s *BudgetService) Create(ctx context.Context, userID string, in CreateBudgetInput) (*models.Budget, error) {
	if in.Name == "" {
		return nil, invalidf("name is required")
	}
	if in.Category == "" {
		return nil, invalidf("category is required")
	}
	if in.AmountCents <= 0 {
		return nil, invalidf("amount must be positive")
	}
	if in.StartDate == 0 || in.EndDate == 0 || in.EndDate < in.StartDate {
		return nil, invalidf("start and end dates must form a valid window")
	}

	budget := &models.Budget{
		UserID:      userID,
		Name:        in.Name,
		AmountCents: in.AmountCents,
		SpentCents:  0,
		Period:      in.Period,
		Category:    in.Category,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      models.BudgetStatusActive,
	}

	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// Get retrieves a budget owned by userID.
func (s *BudgetService) Get(ctx context.Context, userID, id string) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return budget, nil
}

// List retrieves all budgets owned by userID.
func (s *BudgetService) List(ctx context.Context, userID string) ([]*models.Budget, error) {
	return s.store.ListBudgets(ctx, userID)
}

// Update patches a budget. Touching the cap or the spent accumulator
// recomputes the status; an explicit Completed flag overrides it.
func (s *BudgetService) Update(ctx context.Context, userID, id string, in UpdateBudgetInput) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, invalidf("name is required")
		}
		budget.Name = *in.Name
	}
	if in.AmountCents != nil {
		if *in.AmountCents <= 0 {
			return nil, invalidf("amount must be positive")
		}
		budget.AmountCents = *in.AmountCents
	}
	if in.SpentCents != nil {
		if *in.SpentCents < 0 {
			return nil, invalidf("spent cannot be negative")
		}
		budget.SpentCents = *in.SpentCents
	}
	if in.Period != nil {
		budget.Period = *in.Period
	}
	if in.Category != nil {
		if *in.Category == "" {
			return nil, invalidf("category is required")
		}
		budget.Category = *in.Category
	}
	if in.StartDate != nil {
		budget.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		budget.EndDate = *in.EndDate
	}
	if budget.EndDate < budget.StartDate {
		return nil, invalidf("start and end dates must form a valid window")
	}

	budget.Status = budget.DeriveStatus()
	if in.Completed != nil && *in.Completed {
		budget.Status = models.BudgetStatusCompleted
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, mapNotFound(err)
	}
	return budget, nil
}

// Delete removes a budget.
func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	return mapNotFound(s.store.DeleteBudget(ctx, userID, id))
}
