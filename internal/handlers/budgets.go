package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billfold/billfold/internal/middleware"
	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/service"
)

// BudgetHandler serves budget CRUD.
type BudgetHandler struct {
	budgets *service.BudgetService
}

// NewBudgetHandler creates a budget handler.
func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// CreateBudgetRequest carries a new budget.
type CreateBudgetRequest struct {
	Name        string `json:"name" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Period      string `json:"period" validate:"omitempty,oneof=weekly monthly yearly"`
	Category    string `json:"category" validate:"required"`
	StartDate   int64  `json:"start_date" validate:"gt=0"`
	EndDate     int64  `json:"end_date" validate:"gt=0"`
}

// UpdateBudgetRequest patches a budget; omitted fields are left unchanged.
type UpdateBudgetRequest struct {
	Name        *string `json:"name"`
	AmountCents *int64  `json:"amount_cents"`
	SpentCents  *int64  `json:"spent_cents"`
	Period      *string `json:"period" validate:"omitempty,oneof=weekly monthly yearly"`
	Category    *string `json:"category"`
	StartDate   *int64  `json:"start_date"`
	EndDate     *int64  `json:"end_date"`
	Completed   *bool   `json:"completed"`
}

// BudgetResponse is the budget shape returned by the API.
type BudgetResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AmountCents    int64  `json:"amount_cents"`
	SpentCents     int64  `json:"spent_cents"`
	RemainingCents int64  `json:"remaining_cents"`
	Period         string `json:"period"`
	Category       string `json:"category"`
	StartDate      int64  `json:"start_date"`
	EndDate        int64  `json:"end_date"`
	Status         string `json:"status"`
}

func toBudgetResponse(budget *models.Budget) BudgetResponse {
	remaining := budget.AmountCents - budget.SpentCents
	if remaining < 0 {
		remaining = 0
	}
	return BudgetResponse{
		ID:             budget.ID,
		Name:           budget.Name,
		AmountCents:    budget.AmountCents,
		SpentCents:     budget.SpentCents,
		RemainingCents: remaining,
		Period:         budget.Period,
		Category:       budget.Category,
		StartDate:      budget.StartDate,
		EndDate:        budget.EndDate,
		Status:         string(budget.Status),
	}
}

// Create creates a budget.
func (h *BudgetHandler) Create(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	budget, err := h.budgets.Create(c.Request().Context(), userID, service.CreateBudgetInput{
		Name:        req.Name,
		AmountCents: req.AmountCents,
		Period:      req.Period,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// List returns all budgets owned by the authenticated user.
func (h *BudgetHandler) List(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	budgets, err := h.budgets.List(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]BudgetResponse, 0, len(budgets))
	for _, budget := range budgets {
		response = append(response, toBudgetResponse(budget))
	}
	return c.JSON(http.StatusOK, response)
}

// Get returns one budget.
func (h *BudgetHandler) Get(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	budget, err := h.budgets.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// Update patches a budget.
func (h *BudgetHandler) Update(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	budget, err := h.budgets.Update(c.Request().Context(), userID, c.Param("id"), service.UpdateBudgetInput{
		Name:        req.Name,
		AmountCents: req.AmountCents,
		SpentCents:  req.SpentCents,
		Period:      req.Period,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Completed:   req.Completed,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// Delete removes a budget.
func (h *BudgetHandler) Delete(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.budgets.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
