package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billfold/billfold/internal/calculator"
	"github.com/billfold/billfold/internal/middleware"
	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/service"
)

// BillHandler serves the bill lifecycle: creation, settlement, reporting.
type BillHandler struct {
	bills *service.BillService
}

// NewBillHandler creates a bill handler.
func NewBillHandler(bills *service.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

// BillItemRequest is one line item of a bill payload.
type BillItemRequest struct {
	Name         string   `json:"name" validate:"required"`
	AmountCents  int64    `json:"amount_cents" validate:"gte=0"`
	Participants []string `json:"participants"`
}

// CreateBillRequest carries a new bill.
type CreateBillRequest struct {
	Description   string            `json:"description" validate:"required"`
	Items         []BillItemRequest `json:"items" validate:"dive"`
	PaidBy        string            `json:"paid_by" validate:"required"`
	Participants  []string          `json:"participants" validate:"required,min=1"`
	TaxPercentage float64           `json:"tax_percentage" validate:"gte=0"`
	TipCents      int64             `json:"tip_cents" validate:"gte=0"`
	Date          int64             `json:"date"`
	Draft         bool              `json:"draft"`
}

// PreviewSplitRequest carries a split to compute without persisting.
type PreviewSplitRequest struct {
	Items         []BillItemRequest `json:"items" validate:"dive"`
	Participants  []string          `json:"participants" validate:"required,min=1"`
	TaxPercentage float64           `json:"tax_percentage" validate:"gte=0"`
	TipCents      int64             `json:"tip_cents" validate:"gte=0"`
}

// PaymentStatusRequest sets one participant's payment status.
type PaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid pending"`
}

// BillItemResponse is one line item of a bill.
type BillItemResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	AmountCents  int64    `json:"amount_cents"`
	Participants []string `json:"participants"`
}

// BillResponse is the bill shape returned by the API.
type BillResponse struct {
	ID            string             `json:"id"`
	Description   string             `json:"description"`
	Items         []BillItemResponse `json:"items"`
	PaidBy        string             `json:"paid_by"`
	Participants  []string           `json:"participants"`
	SubtotalCents int64              `json:"subtotal_cents"`
	TaxPercentage float64            `json:"tax_percentage"`
	TaxCents      int64              `json:"tax_cents"`
	TipCents      int64              `json:"tip_cents"`
	TotalCents    int64              `json:"total_cents"`
	Date          int64              `json:"date"`
	Status        string             `json:"status"`
	Splits        map[string]int64   `json:"splits"`
	PaymentStatus map[string]bool    `json:"payment_status"`
	CreatedAt     int64              `json:"created_at"`
}

// SplitResultResponse is a computed split preview.
type SplitResultResponse struct {
	SubtotalCents int64            `json:"subtotal_cents"`
	TaxCents      int64            `json:"tax_cents"`
	TipCents      int64            `json:"tip_cents"`
	TotalCents    int64            `json:"total_cents"`
	Splits        map[string]int64 `json:"splits"`
}

// ParticipantSettlementResponse is one participant's settlement state.
type ParticipantSettlementResponse struct {
	ParticipantID  string `json:"participant_id"`
	OwedCents      int64  `json:"owed_cents"`
	Paid           bool   `json:"paid"`
	RemainingCents int64  `json:"remaining_cents"`
}

// SettlementSummaryResponse aggregates the settlement state of a bill.
type SettlementSummaryResponse struct {
	Participants         []ParticipantSettlementResponse `json:"participants"`
	TotalOwedCents       int64                           `json:"total_owed_cents"`
	TotalPaidCents       int64                           `json:"total_paid_cents"`
	TotalRemainingCents  int64                           `json:"total_remaining_cents"`
	FullySettled         bool                            `json:"fully_settled"`
	SettlementPercentage int                             `json:"settlement_percentage"`
}

// DebtEdgeResponse is a single outstanding debt.
type DebtEdgeResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	AmountCents int64  `json:"amount_cents"`
}

func toBillResponse(bill *models.Bill) BillResponse {
	items := make([]BillItemResponse, 0, len(bill.Items))
	for _, item := range bill.Items {
		items = append(items, BillItemResponse{
			ID:           item.ID,
			Name:         item.Name,
			AmountCents:  item.AmountCents,
			Participants: item.Participants,
		})
	}
	return BillResponse{
		ID:            bill.ID,
		Description:   bill.Description,
		Items:         items,
		PaidBy:        bill.PaidBy,
		Participants:  bill.Participants,
		SubtotalCents: bill.SubtotalCents,
		TaxPercentage: bill.TaxPercentage,
		TaxCents:      bill.TaxCents,
		TipCents:      bill.TipCents,
		TotalCents:    bill.TotalCents,
		Date:          bill.Date,
		Status:        string(bill.Status),
		Splits:        bill.Splits,
		PaymentStatus: bill.PaymentStatus,
		CreatedAt:     bill.CreatedAt,
	}
}

func toItemInputs(items []BillItemRequest) []service.BillItemInput {
	out := make([]service.BillItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, service.BillItemInput{
			Name:         item.Name,
			AmountCents:  item.AmountCents,
			Participants: item.Participants,
		})
	}
	return out
}

// Create records a new bill with its computed splits.
func (h *BillHandler) Create(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req CreateBillRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	bill, err := h.bills.Create(c.Request().Context(), userID, service.CreateBillInput{
		Description:   req.Description,
		Items:         toItemInputs(req.Items),
		PaidBy:        req.PaidBy,
		Participants:  req.Participants,
		TaxPercentage: req.TaxPercentage,
		TipCents:      req.TipCents,
		Date:          req.Date,
		Draft:         req.Draft,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, toBillResponse(bill))
}

// Preview computes a split without persisting anything.
func (h *BillHandler) Preview(c echo.Context) error {
	var req PreviewSplitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	result, err := h.bills.ComputeSplit(toItemInputs(req.Items), req.TaxPercentage, req.TipCents, req.Participants)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, SplitResultResponse{
		SubtotalCents: result.SubtotalCents,
		TaxCents:      result.TaxCents,
		TipCents:      result.TipCents,
		TotalCents:    result.TotalCents,
		Splits:        result.Splits,
	})
}

// List returns all bills owned by the authenticated user.
func (h *BillHandler) List(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	bills, err := h.bills.List(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		response = append(response, toBillResponse(bill))
	}
	return c.JSON(http.StatusOK, response)
}

// Get returns one bill.
func (h *BillHandler) Get(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	bill, err := h.bills.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBillResponse(bill))
}

// SetPaymentStatus marks one participant paid or pending and returns the
// bill with its recomputed settlement state.
func (h *BillHandler) SetPaymentStatus(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	var req PaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	bill, err := h.bills.SetParticipantPaymentStatus(c.Request().Context(), userID, c.Param("id"), c.Param("participantId"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBillResponse(bill))
}

// Delete removes a bill and its mirrored transactions.
func (h *BillHandler) Delete(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	if err := h.bills.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SettlementSummary reports who owes what on a bill and how settled it is.
func (h *BillHandler) SettlementSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	summary, err := h.bills.GetSettlementSummary(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	participants := make([]ParticipantSettlementResponse, 0, len(summary.Participants))
	for _, p := range summary.Participants {
		participants = append(participants, ParticipantSettlementResponse{
			ParticipantID:  p.ParticipantID,
			OwedCents:      p.OwedCents,
			Paid:           p.Paid,
			RemainingCents: p.RemainingCents,
		})
	}
	return c.JSON(http.StatusOK, SettlementSummaryResponse{
		Participants:         participants,
		TotalOwedCents:       summary.TotalOwedCents,
		TotalPaidCents:       summary.TotalPaidCents,
		TotalRemainingCents:  summary.TotalRemainingCents,
		FullySettled:         summary.FullySettled,
		SettlementPercentage: summary.SettlementPercentage,
	})
}

// OptimalSettlements lists the outstanding debts on a bill.
func (h *BillHandler) OptimalSettlements(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}

	edges, err := h.bills.GetOptimalSettlements(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	response := make([]DebtEdgeResponse, 0, len(edges))
	for _, edge := range edges {
		response = append(response, DebtEdgeResponse{
			From:        edge.From,
			To:          edge.To,
			AmountCents: edge.AmountCents,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// ComputeSplitRequest carries a mode-based split to compute.
type ComputeSplitRequest struct {
	Mode         string             `json:"mode" validate:"required,oneof=equal percentage custom"`
	TotalCents   int64              `json:"total_cents" validate:"gt=0"`
	Participants []string           `json:"participants"`
	Percentages  []PercentShareItem `json:"percentages" validate:"dive"`
	Amounts      []CustomShareItem  `json:"amounts" validate:"dive"`
}

// PercentShareItem is one participant's percentage share.
type PercentShareItem struct {
	ParticipantID string  `json:"participant_id" validate:"required"`
	Percentage    float64 `json:"percentage" validate:"gte=0"`
}

// CustomShareItem is one participant's fixed share.
type CustomShareItem struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	AmountCents   int64  `json:"amount_cents" validate:"gte=0"`
}

// ComputeSplit computes an equal, percentage, or custom split of a total.
func (h *BillHandler) ComputeSplit(c echo.Context) error {
	var req ComputeSplitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	var (
		splits map[string]int64
		err    error
	)
	switch req.Mode {
	case "equal":
		splits, err = calculator.EqualSplit(req.TotalCents, req.Participants)
	case "percentage":
		shares := make([]calculator.PercentShare, 0, len(req.Percentages))
		for _, p := range req.Percentages {
			shares = append(shares, calculator.PercentShare{
				ParticipantID: p.ParticipantID,
				Percent:       p.Percentage,
			})
		}
		splits, err = calculator.PercentageSplit(req.TotalCents, shares)
	case "custom":
		shares := make([]calculator.CustomShare, 0, len(req.Amounts))
		for _, a := range req.Amounts {
			shares = append(shares, calculator.CustomShare{
				ParticipantID: a.ParticipantID,
				AmountCents:   a.AmountCents,
			})
		}
		splits, err = calculator.CustomSplit(req.TotalCents, shares)
	}
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]map[string]int64{"splits": splits})
}
