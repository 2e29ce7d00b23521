package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billfold/billfold/internal/middleware"
	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/service"
)

// GoalHandler serves savings goals and their contribution ledger.
type GoalHandler struct {
	goals *service.GoalService
}

// NewGoalHandler creates a goal handler.
func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// CreateGoalRequest carries a new savings goal.
type CreateGoalRequest struct {
	Name              string `json:"name" validate:"required"`
	Category          string `json:"category" validate:"required"`
	TargetAmountCents int64  `json:"target_amount_cents" validate:"gt=0"`
}

// ContributionRequest carries a contribution or withdrawal amount.
type ContributionRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Note        string `json:"note"`
}

// ContributionResponse is one ledger entry of a goal. Withdrawals carry a
// negative amount.
type ContributionResponse struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note,omitempty"`
	Date        int64  `json:"date"`
}

// GoalResponse is the goal shape returned by the API.
type GoalResponse struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Category           string                 `json:"category"`
	TargetAmountCents  int64                  `json:"target_amount_cents"`
	CurrentAmountCents int64                  `json:"current_amount_cents"`
	Status             string                 `json:"status"`
	Contributions      []ContributionResponse `json:"contributions"`
	CreatedAt          int64                  `json:"created_at"`
}

func toGoalResponse(goal *models.Goal) GoalResponse {
	contributions := make([]ContributionResponse, 0, len(goal.Contributions))
	for _, c := range goal.Contributions {
		contributions = append(contributions, ContributionResponse{
			ID:          c.ID,
			AmountCents: c.AmountCents,
			Note:        c.Note,
			Date:        c.Date,
		})
	}
	return GoalResponse{
		ID:                 goal.ID,
		Name:               goal.Name,
		Category:           goal.Category,
		TargetAmountCents:  goal.TargetAmountCents,
		CurrentAmountCents: goal.CurrentAmountCents,
		Status:             string(goal.Status),
		Contributions:      contributions,
		CreatedAt:          goal.CreatedAt,
	}
}

// Create creates a goal with a zero balance.
func (h *GoalHandler) Create(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	goal, err := h.goals.Create(c.Request().Context(), userID, service.CreateGoalInput{
		Name:              req.Name,
		Category:          req.Category,
		TargetAmountCents: req.TargetAmountCents,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// List returns all goals owned by the authenticated user.
func (h *GoalHandler) List(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	goals, err := h.goals.List(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]GoalResponse, 0, len(goals))
	for _, goal := range goals {
		response = append(response, toGoalResponse(goal))
	}
	return c.JSON(http.StatusOK, response)
}

// Get returns one goal with its contribution ledger.
func (h *GoalHandler) Get(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	goal, err := h.goals.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// Contribute adds money to a goal.
func (h *GoalHandler) Contribute(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req ContributionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	goal, err := h.goals.AddContribution(c.Request().Context(), userID, c.Param("id"), req.AmountCents, req.Note)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// Withdraw takes money back out of a goal.
func (h *GoalHandler) Withdraw(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req ContributionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	goal, err := h.goals.Withdraw(c.Request().Context(), userID, c.Param("id"), req.AmountCents, req.Note)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// Pause marks a goal paused.
func (h *GoalHandler) Pause(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	goal, err := h.goals.Pause(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// Resume re-derives a paused goal's status from its balance.
func (h *GoalHandler) Resume(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	goal, err := h.goals.Resume(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// Delete removes a goal and its contribution ledger.
func (h *GoalHandler) Delete(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.goals.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
