package models

// BillStatus is the settlement lifecycle state of a bill.
type BillStatus string

const (
	// BillStatusDraft is only ever set at creation time, on request.
	// The settlement transition never re-enters it.
	BillStatusDraft BillStatus = "draft"
	// BillStatusFinalized means the bill is live and at least one
	// non-payer participant still owes their split.
	BillStatusFinalized BillStatus = "finalized"
	// BillStatusSettled means every non-payer participant has paid.
	BillStatusSettled BillStatus = "settled"
)

// Bill represents a shared expense event split among participants.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// UserID is the owner of the bill. Only the owner can read or mutate it.
	UserID string

	// Description is the human-readable name for the bill.
	Description string

	// Items are the individual line items on the bill, in entry order.
	Items []BillItem

	// PaidBy is the participant who fronted the money. Always a member of
	// Participants, and always implicitly settled.
	PaidBy string

	// Participants is the ordered list of people splitting the bill,
	// possibly including people not assigned to any item.
	Participants []string

	// SubtotalCents is the sum of all item amounts.
	SubtotalCents int64

	// TaxPercentage is the tax rate applied to the subtotal.
	TaxPercentage float64

	// TaxCents is the computed tax amount, rounded to a cent.
	TaxCents int64

	// TipCents is the tip amount, given directly rather than as a rate.
	TipCents int64

	// TotalCents is SubtotalCents + TaxCents + TipCents, exactly.
	TotalCents int64

	// Date is the Unix timestamp of the expense itself.
	Date int64

	// Status is the bill-level settlement state, derived from PaymentStatus.
	Status BillStatus

	// Splits maps each participant to the amount they owe toward the total.
	// Every key is a member of Participants.
	Splits map[string]int64

	// PaymentStatus maps each participant to whether they have paid their
	// split. PaymentStatus[PaidBy] is always true and never user-editable.
	PaymentStatus map[string]bool

	// CreatedAt is the Unix timestamp when the bill was recorded.
	CreatedAt int64
}

// BillItem represents a single line item on a bill. Items can be shared
// among multiple participants; an item with no assignees still counts toward
// the subtotal but contributes to no one's share.
type BillItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the description of the item (e.g., "Pizza", "Beer").
	Name string

	// AmountCents is the pre-tax price of this item.
	AmountCents int64

	// Participants is the list of participant IDs splitting this item
	// equally among themselves.
	Participants []string
}

// HasParticipant reports whether id is a member of the bill's participants.
func (b *Bill) HasParticipant(id string) bool {
	for _, p := range b.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// AllPaid reports whether every non-payer participant has paid their split.
func (b *Bill) AllPaid() bool {
	for _, p := range b.Participants {
		if p == b.PaidBy {
			continue
		}
		if !b.PaymentStatus[p] {
			return false
		}
	}
	return true
}
