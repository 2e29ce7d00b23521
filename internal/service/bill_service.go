package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/billfold/billfold/internal/calculator"
	"github.com/billfold/billfold/internal/metrics"
	"github.com/billfold/billfold/internal/models"
	"github.com/billfold/billfold/internal/settlement"
	"github.com/billfold/billfold/internal/storage"
)

// BillService orchestrates bill lifecycle: split computation, settlement
// transitions, mirrored transactions, and budget bookkeeping.
type BillService struct {
	store   storage.Store
	mirrors *MirrorWriter
	budgets *BudgetSync
}

// NewBillService creates a bill service with the given collaborators.
func NewBillService(store storage.Store, mirrors *MirrorWriter, budgets *BudgetSync) *BillService {
	return &BillService{store: store, mirrors: mirrors, budgets: budgets}
}

// BillItemInput is one line item of a bill being created or previewed.
type BillItemInput struct {
	Name         string
	AmountCents  int64
	Participants []string
}

// CreateBillInput carries everything needed to create a bill.
type CreateBillInput struct {
	Description   string
	Items         []BillItemInput
	PaidBy        string
	Participants  []string
	TaxPercentage float64
	TipCents      int64
	Date          int64
	// Draft creates the bill in draft status instead of finalized. The
	// settlement transition never re-enters draft afterwards.
	Draft bool
}

func calcItems(items []BillItemInput) []calculator.Item {
	out := make([]calculator.Item, len(items))
	for i, item := range items {
		out[i] = calculator.Item{
			Name:         item.Name,
			AmountCents:  item.AmountCents,
			Participants: item.Participants,
		}
	}
	return out
}

// ComputeSplit previews a split without persisting anything.
func (s *BillService) ComputeSplit(items []BillItemInput, taxPercentage float64, tipCents int64, participants []string) (*calculator.SplitResult, error) {
	result, err := calculator.ComputeSplit(calcItems(items), taxPercentage, tipCents, participants)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	return result, nil
}

// Create validates and persists a bill, then mirrors the payer's outlay into
// the transaction ledger and counts it against matching budgets. The mirror
// and budget steps are best-effort: the bill exists even if they fail.
func (s *BillService) Create(ctx context.Context, userID string, in CreateBillInput) (*models.Bill, error) {
	if in.Description == "" {
		return nil, invalidf("description is required")
	}
	if len(in.Participants) == 0 {
		return nil, invalidf("at least one participant is required")
	}
	if in.PaidBy == "" {
		return nil, invalidf("paid_by is required")
	}

	paidByKnown := false
	for _, p := range in.Participants {
		if p == in.PaidBy {
			paidByKnown = true
			break
		}
	}
	if !paidByKnown {
		return nil, invalidf("paid_by %q must be one of the participants", in.PaidBy)
	}

	result, err := calculator.ComputeSplit(calcItems(in.Items), in.TaxPercentage, in.TipCents, in.Participants)
	if err != nil {
		return nil, invalidf("%v", err)
	}

	date := in.Date
	if date == 0 {
		date = time.Now().Unix()
	}

	status := models.BillStatusFinalized
	if in.Draft {
		status = models.BillStatusDraft
	}

	// The payer is self-settled from the start; everyone else is pending.
	paymentStatus := make(map[string]bool, len(in.Participants))
	for _, p := range in.Participants {
		paymentStatus[p] = p == in.PaidBy
	}

	bill := &models.Bill{
		UserID:        userID,
		Description:   in.Description,
		PaidBy:        in.PaidBy,
		Participants:  in.Participants,
		SubtotalCents: result.SubtotalCents,
		TaxPercentage: in.TaxPercentage,
		TaxCents:      result.TaxCents,
		TipCents:      result.TipCents,
		TotalCents:    result.TotalCents,
		Date:          date,
		Status:        status,
		Splits:        result.Splits,
		PaymentStatus: paymentStatus,
	}
	for _, item := range in.Items {
		bill.Items = append(bill.Items, models.BillItem{
			Name:         item.Name,
			AmountCents:  item.AmountCents,
			Participants: item.Participants,
		})
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, err
	}

	tx, err := s.mirrors.BillPayment(ctx, bill)
	if err != nil {
		slog.Warn("bill payment mirror failed", "bill_id", bill.ID, "error", err)
		metrics.MirrorFailures.WithLabelValues("bill_payment").Inc()
		return bill, nil
	}
	s.budgets.ApplyDelta(ctx, userID, tx.Category, tx.Date, tx.AmountCents)

	return bill, nil
}

// Get retrieves a bill owned by userID.
func (s *BillService) Get(ctx context.Context, userID, billID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return bill, nil
}

// List retrieves all bills owned by userID.
func (s *BillService) List(ctx context.Context, userID string) ([]*models.Bill, error) {
	return s.store.ListBills(ctx, userID)
}

// SetParticipantPaymentStatus drives the settlement state machine for one
// participant and applies the side effects of the transition taken: a
// pending-to-paid edge mirrors the repayment as income for the bill owner,
// and the reverse edge removes that mirror again. Repeating the same status
// takes no edge and therefore produces no side effect.
func (s *BillService) SetParticipantPaymentStatus(ctx context.Context, userID, billID, participantID, status string) (*models.Bill, error) {
	paid, err := settlement.ParseStatus(status)
	if err != nil {
		return nil, invalidf("%v", err)
	}

	bill, err := s.store.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	edge, err := settlement.Apply(bill, participantID, paid)
	if err != nil {
		return nil, invalidf("%v", err)
	}

	if err := s.store.UpdateBillSettlement(ctx, bill); err != nil {
		return nil, mapNotFound(err)
	}

	switch edge {
	case settlement.EdgeMarkedPaid:
		if bill.Splits[participantID] > 0 {
			if _, err := s.mirrors.BillSettlement(ctx, bill, participantID); err != nil {
				slog.Warn("settlement mirror failed", "bill_id", bill.ID, "participant", participantID, "error", err)
				metrics.MirrorFailures.WithLabelValues("bill_settlement").Inc()
			}
		}
	case settlement.EdgeMarkedPending:
		if err := s.mirrors.RemoveBillSettlement(ctx, userID, bill.ID, participantID); err != nil {
			slog.Warn("settlement unmirror failed", "bill_id", bill.ID, "participant", participantID, "error", err)
			metrics.MirrorFailures.WithLabelValues("bill_settlement_cleanup").Inc()
		}
	}

	return bill, nil
}

// Delete removes a bill, cleans up every transaction mirroring it, and
// reverses the payer's outlay from matching budgets.
func (s *BillService) Delete(ctx context.Context, userID, billID string) error {
	bill, err := s.store.GetBill(ctx, userID, billID)
	if err != nil {
		return mapNotFound(err)
	}

	if err := s.store.DeleteBill(ctx, userID, billID); err != nil {
		return mapNotFound(err)
	}

	if _, err := s.mirrors.RemoveBillMirrors(ctx, userID, billID); err != nil {
		slog.Warn("bill mirror cleanup failed", "bill_id", billID, "error", err)
		metrics.MirrorFailures.WithLabelValues("bill_cleanup").Inc()
	}
	s.budgets.ApplyDelta(ctx, userID, CategoryBills, bill.Date, -bill.TotalCents)

	return nil
}

func billView(bill *models.Bill) calculator.BillView {
	return calculator.BillView{
		PaidBy:        bill.PaidBy,
		Participants:  bill.Participants,
		Splits:        bill.Splits,
		PaymentStatus: bill.PaymentStatus,
	}
}

// GetSettlementSummary reports the per-participant and aggregate settlement
// state of a bill.
func (s *BillService) GetSettlementSummary(ctx context.Context, userID, billID string) (*calculator.Summary, error) {
	bill, err := s.store.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return calculator.SettlementSummary(billView(bill)), nil
}

// GetOptimalSettlements lists who still owes the payer what on a bill.
func (s *BillService) GetOptimalSettlements(ctx context.Context, userID, billID string) ([]calculator.DebtEdge, error) {
	bill, err := s.store.GetBill(ctx, userID, billID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return calculator.DirectSettlements(billView(bill)), nil
}
