// Package settlement implements the per-participant payment state machine
// for bills and the derivation of the bill-level status from it.
//
// Participant states move between pending and paid; the payer is always
// implicitly paid. The bill-level status follows: when every non-payer
// participant has paid, the bill becomes settled; when a paid participant is
// reverted, a settled bill drops back to finalized. Draft is only ever set
// at creation time and is never re-entered by a transition.
package settlement

import (
	"errors"
	"fmt"

	"github.com/billfold/billfold/internal/models"
)

var (
	ErrUnknownParticipant = errors.New("participant is not on the bill")
	ErrUnknownStatus      = errors.New(`payment status must be "paid" or "pending"`)
	ErrPayerImmutable     = errors.New("payer's payment status cannot be changed")
)

// Edge identifies the transition taken by a payment-status write. The
// orchestrator uses it to decide whether to mirror or unmirror a settlement
// transaction; EdgeNone means the write was a no-op (idempotent repeat).
type Edge int

const (
	EdgeNone Edge = iota
	EdgeMarkedPaid
	EdgeMarkedPending
)

// Statuses accepted on the wire for a participant payment-status update.
const (
	StatusPaid    = "paid"
	StatusPending = "pending"
)

// ParseStatus converts a wire status into the paid flag, rejecting anything
// outside {paid, pending}.
func ParseStatus(status string) (bool, error) {
	switch status {
	case StatusPaid:
		return true, nil
	case StatusPending:
		return false, nil
	default:
		return false, fmt.Errorf("%w: got %q", ErrUnknownStatus, status)
	}
}

// Apply writes a participant's payment status onto the bill and re-derives
// the bill-level status. It mutates bill in place and returns the edge taken
// so the caller can apply side effects exactly once per real transition.
func Apply(bill *models.Bill, participantID string, paid bool) (Edge, error) {
	if participantID == bill.PaidBy {
		return EdgeNone, ErrPayerImmutable
	}
	if !bill.HasParticipant(participantID) {
		return EdgeNone, fmt.Errorf("%w: %q", ErrUnknownParticipant, participantID)
	}

	edge := EdgeNone
	if current := bill.PaymentStatus[participantID]; current != paid {
		if paid {
			edge = EdgeMarkedPaid
		} else {
			edge = EdgeMarkedPending
		}
	}
	if bill.PaymentStatus == nil {
		bill.PaymentStatus = make(map[string]bool)
	}
	bill.PaymentStatus[participantID] = paid

	Derive(bill)
	return edge, nil
}

// Derive recomputes the bill-level status from the payment map. Settled is
// entered when all non-payer participants have paid, and left for finalized
// when one of them has not; draft is left alone until fully paid.
func Derive(bill *models.Bill) {
	allPaid := bill.AllPaid()
	if allPaid && bill.Status != models.BillStatusSettled {
		bill.Status = models.BillStatusSettled
		return
	}
	if !allPaid && bill.Status == models.BillStatusSettled {
		bill.Status = models.BillStatusFinalized
	}
}
