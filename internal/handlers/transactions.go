package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billfold/billfold/internal/middleware"
	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/service"
)

// TransactionHandler serves the income/expense ledger.
type TransactionHandler struct {
	transactions *service.TransactionService
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// RecordTransactionRequest carries a new ledger entry.
type RecordTransactionRequest struct {
	Description string `json:"description" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Category    string `json:"category"`
	Date        int64  `json:"date"`
	LedgerID    string `json:"ledger_id"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
	Status      string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// UpdateTransactionRequest patches a ledger entry; omitted fields are left
// unchanged.
type UpdateTransactionRequest struct {
	Description *string `json:"description"`
	AmountCents *int64  `json:"amount_cents"`
	Category    *string `json:"category"`
	Date        *int64  `json:"date"`
	LedgerID    *string `json:"ledger_id"`
	Type        *string `json:"type" validate:"omitempty,oneof=income expense"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// MirrorResponse identifies the bill or goal event a transaction mirrors.
type MirrorResponse struct {
	BillID        string `json:"bill_id,omitempty"`
	GoalID        string `json:"goal_id,omitempty"`
	ParticipantID string `json:"participant_id,omitempty"`
	PaymentType   string `json:"payment_type"`
}

// TransactionResponse is the ledger entry shape returned by the API.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	AmountCents int64           `json:"amount_cents"`
	Category    string          `json:"category"`
	Date        int64           `json:"date"`
	LedgerID    string          `json:"ledger_id,omitempty"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Mirror      *MirrorResponse `json:"mirror,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

func toTransactionResponse(tx *models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		AmountCents: tx.AmountCents,
		Category:    tx.Category,
		Date:        tx.Date,
		LedgerID:    tx.LedgerID,
		Type:        string(tx.Type),
		Status:      string(tx.Status),
		CreatedAt:   tx.CreatedAt,
	}
	if tx.Mirror != nil {
		resp.Mirror = &MirrorResponse{
			BillID:        tx.Mirror.BillID,
			GoalID:        tx.Mirror.GoalID,
			ParticipantID: tx.Mirror.ParticipantID,
			PaymentType:   string(tx.Mirror.PaymentType),
		}
	}
	return resp
}

// Record creates a ledger entry.
func (h *TransactionHandler) Record(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req RecordTransactionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	tx, err := h.transactions.Record(c.Request().Context(), userID, service.RecordTransactionInput{
		Description: req.Description,
		AmountCents: req.AmountCents,
		Category:    req.Category,
		Date:        req.Date,
		LedgerID:    req.LedgerID,
		Type:        req.Type,
		Status:      req.Status,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// List returns all ledger entries owned by the authenticated user.
func (h *TransactionHandler) List(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	txs, err := h.transactions.List(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		response = append(response, toTransactionResponse(tx))
	}
	return c.JSON(http.StatusOK, response)
}

// Get returns one ledger entry.
func (h *TransactionHandler) Get(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	tx, err := h.transactions.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// Update patches a ledger entry.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	tx, err := h.transactions.Update(c.Request().Context(), userID, c.Param("id"), service.UpdateTransactionInput{
		Description: req.Description,
		AmountCents: req.AmountCents,
		Category:    req.Category,
		Date:        req.Date,
		LedgerID:    req.LedgerID,
		Type:        req.Type,
		Status:      req.Status,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// Delete removes a ledger entry.
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.transactions.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
