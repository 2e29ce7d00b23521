package calculator

import "math"

// BillView is the minimal bill state needed for settlement reporting.
type BillView struct {
	PaidBy        string
	Participants  []string
	Splits        map[string]int64
	PaymentStatus map[string]bool
}

// ParticipantSettlement is the settlement state of one non-payer participant.
type ParticipantSettlement struct {
	ParticipantID  string
	OwedCents      int64
	Paid           bool
	RemainingCents int64
}

// Summary aggregates the settlement state of a bill.
type Summary struct {
	Participants        []ParticipantSettlement
	TotalOwedCents      int64
	TotalPaidCents      int64
	TotalRemainingCents int64
	// FullySettled is true only when something was owed and all of it has
	// been paid; a bill where nobody owes anything is not "settled".
	FullySettled bool
	// SettlementPercentage is round(paid/owed*100), and 0 when nothing is
	// owed at all.
	SettlementPercentage int
}

// DebtEdge is a single "from owes to" entry.
type DebtEdge struct {
	From        string
	To          string
	AmountCents int64
}

// SettlementSummary reports, for every participant other than the payer with
// a positive split, how much they owe, whether they have paid, and what
// remains, plus bill-level aggregates.
func SettlementSummary(bill BillView) *Summary {
	s := &Summary{Participants: []ParticipantSettlement{}}

	for _, p := range bill.Participants {
		if p == bill.PaidBy {
			continue
		}
		owed := bill.Splits[p]
		if owed <= 0 {
			continue
		}

		paid := bill.PaymentStatus[p]
		remaining := owed
		if paid {
			remaining = 0
		}

		s.Participants = append(s.Participants, ParticipantSettlement{
			ParticipantID:  p,
			OwedCents:      owed,
			Paid:           paid,
			RemainingCents: remaining,
		})
		s.TotalOwedCents += owed
		s.TotalRemainingCents += remaining
	}

	s.TotalPaidCents = s.TotalOwedCents - s.TotalRemainingCents
	s.FullySettled = s.TotalRemainingCents == 0 && s.TotalOwedCents > 0
	if s.TotalOwedCents > 0 {
		s.SettlementPercentage = int(math.Round(float64(s.TotalPaidCents) / float64(s.TotalOwedCents) * 100))
	}

	return s
}

// DirectSettlements emits one debt edge per unpaid participant with a
// positive split, pointing straight at the payer.
//
// This is a per-bill owes-payer projection, not debt minimization: opposing
// debts across multiple bills are deliberately not netted against each
// other, matching how settlements are presented elsewhere in the app.
func DirectSettlements(bill BillView) []DebtEdge {
	edges := []DebtEdge{}
	for _, p := range bill.Participants {
		if p == bill.PaidBy || bill.PaymentStatus[p] {
			continue
		}
		owed := bill.Splits[p]
		if owed <= 0 {
			continue
		}
		edges = append(edges, DebtEdge{From: p, To: bill.PaidBy, AmountCents: owed})
	}
	return edges
}
