package settlement

import (
	"errors"
	"testing"

	"github.com/billfold/billfold/internal/models"
)

func newTestBill() *models.Bill {
	return &models.Bill{
		ID:           "bill-1",
		PaidBy:       "alice",
		Participants: []string{"alice", "bob", "carol"},
		Status:       models.BillStatusFinalized,
		Splits:       map[string]int64{"alice": 1100, "bob": 1100, "carol": 1100},
		PaymentStatus: map[string]bool{
			"alice": true,
			"bob":   false,
			"carol": false,
		},
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		status   string
		wantPaid bool
		wantErr  error
	}{
		{status: "paid", wantPaid: true},
		{status: "pending", wantPaid: false},
		{status: "settled", wantErr: ErrUnknownStatus},
		{status: "", wantErr: ErrUnknownStatus},
		{status: "Paid", wantErr: ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			paid, err := ParseStatus(tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseStatus(%q) error = %v, want %v", tt.status, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.status, err)
			}
			if paid != tt.wantPaid {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.status, paid, tt.wantPaid)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(bill *models.Bill)
		participantID string
		paid          bool
		wantEdge      Edge
		wantErr       error
		wantStatus    models.BillStatus
	}{
		{
			name:          "marking pending participant paid",
			participantID: "bob",
			paid:          true,
			wantEdge:      EdgeMarkedPaid,
			wantStatus:    models.BillStatusFinalized,
		},
		{
			name: "last participant paying settles the bill",
			setup: func(bill *models.Bill) {
				bill.PaymentStatus["bob"] = true
			},
			participantID: "carol",
			paid:          true,
			wantEdge:      EdgeMarkedPaid,
			wantStatus:    models.BillStatusSettled,
		},
		{
			name: "reverting a paid participant reopens a settled bill",
			setup: func(bill *models.Bill) {
				bill.PaymentStatus["bob"] = true
				bill.PaymentStatus["carol"] = true
				bill.Status = models.BillStatusSettled
			},
			participantID: "bob",
			paid:          false,
			wantEdge:      EdgeMarkedPending,
			wantStatus:    models.BillStatusFinalized,
		},
		{
			name:          "repeating the current status takes no edge",
			participantID: "bob",
			paid:          false,
			wantEdge:      EdgeNone,
			wantStatus:    models.BillStatusFinalized,
		},
		{
			name: "repeating paid on a settled bill keeps it settled",
			setup: func(bill *models.Bill) {
				bill.PaymentStatus["bob"] = true
				bill.PaymentStatus["carol"] = true
				bill.Status = models.BillStatusSettled
			},
			participantID: "carol",
			paid:          true,
			wantEdge:      EdgeNone,
			wantStatus:    models.BillStatusSettled,
		},
		{
			name: "draft stays draft while unpaid",
			setup: func(bill *models.Bill) {
				bill.Status = models.BillStatusDraft
			},
			participantID: "bob",
			paid:          true,
			wantEdge:      EdgeMarkedPaid,
			wantStatus:    models.BillStatusDraft,
		},
		{
			name: "fully paid draft becomes settled, never draft again",
			setup: func(bill *models.Bill) {
				bill.Status = models.BillStatusDraft
				bill.PaymentStatus["bob"] = true
			},
			participantID: "carol",
			paid:          true,
			wantEdge:      EdgeMarkedPaid,
			wantStatus:    models.BillStatusSettled,
		},
		{
			name:          "payer status is immutable",
			participantID: "alice",
			paid:          false,
			wantErr:       ErrPayerImmutable,
		},
		{
			name:          "unknown participant",
			participantID: "mallory",
			paid:          true,
			wantErr:       ErrUnknownParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := newTestBill()
			if tt.setup != nil {
				tt.setup(bill)
			}

			edge, err := Apply(bill, tt.participantID, tt.paid)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if edge != tt.wantEdge {
				t.Errorf("Apply() edge = %v, want %v", edge, tt.wantEdge)
			}
			if bill.Status != tt.wantStatus {
				t.Errorf("bill status = %q, want %q", bill.Status, tt.wantStatus)
			}
			if bill.PaymentStatus[tt.participantID] != tt.paid {
				t.Errorf("payment status = %v, want %v", bill.PaymentStatus[tt.participantID], tt.paid)
			}
		})
	}
}

func TestApplyReversalSymmetry(t *testing.T) {
	bill := newTestBill()

	edge, err := Apply(bill, "bob", true)
	if err != nil || edge != EdgeMarkedPaid {
		t.Fatalf("mark paid: edge = %v, err = %v", edge, err)
	}
	edge, err = Apply(bill, "bob", false)
	if err != nil || edge != EdgeMarkedPending {
		t.Fatalf("mark pending: edge = %v, err = %v", edge, err)
	}

	if bill.Status != models.BillStatusFinalized {
		t.Errorf("bill status = %q, want %q", bill.Status, models.BillStatusFinalized)
	}
	if bill.PaymentStatus["bob"] {
		t.Error("bob should be back to pending")
	}
}
