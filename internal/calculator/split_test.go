package calculator

import (
	"errors"
	"testing"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name          string
		items         []Item
		taxPercentage float64
		tipCents      int64
		participants  []string
		wantErr       error
		validateFunc  func(t *testing.T, result *SplitResult)
	}{
		{
			name: "two-person split with tax",
			items: []Item{
				{Name: "Pizza", AmountCents: 2000, Participants: []string{"alice", "bob"}},
				{Name: "Salad", AmountCents: 1000, Participants: []string{"alice"}},
			},
			taxPercentage: 10,
			participants:  []string{"alice", "bob"},
			validateFunc: func(t *testing.T, result *SplitResult) {
				// alice: 1000 + 1000 items, 200 tax; bob: 1000 items, 100 tax
				if result.SubtotalCents != 3000 {
					t.Errorf("subtotal = %d, want 3000", result.SubtotalCents)
				}
				if result.TaxCents != 300 {
					t.Errorf("tax = %d, want 300", result.TaxCents)
				}
				if result.TotalCents != 3300 {
					t.Errorf("total = %d, want 3300", result.TotalCents)
				}
				if result.Splits["alice"] != 2200 {
					t.Errorf("alice split = %d, want 2200", result.Splits["alice"])
				}
				if result.Splits["bob"] != 1100 {
					t.Errorf("bob split = %d, want 1100", result.Splits["bob"])
				}
			},
		},
		{
			name: "awkward division still sums exactly to the total",
			items: []Item{
				{Name: "Tasting menu", AmountCents: 1000, Participants: []string{"alice", "bob", "carol"}},
			},
			taxPercentage: 8.875,
			tipCents:      101,
			participants:  []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, result *SplitResult) {
				// tax = round(1000 * 0.08875) = 89, total = 1190
				if result.TaxCents != 89 {
					t.Errorf("tax = %d, want 89", result.TaxCents)
				}
				if result.TotalCents != 1190 {
					t.Errorf("total = %d, want 1190", result.TotalCents)
				}
				var sum int64
				for _, s := range result.Splits {
					sum += s
				}
				if sum != result.TotalCents {
					t.Errorf("splits sum to %d, want total %d", sum, result.TotalCents)
				}
				// First assignee absorbs the leftover cents.
				if result.Splits["alice"] != 398 {
					t.Errorf("alice split = %d, want 398", result.Splits["alice"])
				}
				if result.Splits["bob"] != 396 {
					t.Errorf("bob split = %d, want 396", result.Splits["bob"])
				}
			},
		},
		{
			name: "unassigned item counts toward subtotal but nobody's share",
			items: []Item{
				{Name: "Wine", AmountCents: 1000, Participants: []string{"alice"}},
				{Name: "Mystery dish", AmountCents: 500},
			},
			participants: []string{"alice", "bob"},
			validateFunc: func(t *testing.T, result *SplitResult) {
				if result.SubtotalCents != 1500 {
					t.Errorf("subtotal = %d, want 1500", result.SubtotalCents)
				}
				if result.TotalCents != 1500 {
					t.Errorf("total = %d, want 1500", result.TotalCents)
				}
				if result.Splits["alice"] != 1000 {
					t.Errorf("alice split = %d, want 1000", result.Splits["alice"])
				}
				if result.Splits["bob"] != 0 {
					t.Errorf("bob split = %d, want 0", result.Splits["bob"])
				}
			},
		},
		{
			name: "no assignees anywhere leaves tax and tip undistributed",
			items: []Item{
				{Name: "Mystery dish", AmountCents: 1000},
			},
			taxPercentage: 10,
			tipCents:      200,
			participants:  []string{"alice", "bob"},
			validateFunc: func(t *testing.T, result *SplitResult) {
				if result.TotalCents != 1300 {
					t.Errorf("total = %d, want 1300", result.TotalCents)
				}
				for p, s := range result.Splits {
					if s != 0 {
						t.Errorf("%s split = %d, want 0", p, s)
					}
				}
			},
		},
		{
			name:         "no items yields zero splits for everyone",
			participants: []string{"alice", "bob"},
			validateFunc: func(t *testing.T, result *SplitResult) {
				if len(result.Splits) != 2 {
					t.Errorf("splits has %d entries, want 2", len(result.Splits))
				}
				if result.TotalCents != 0 {
					t.Errorf("total = %d, want 0", result.TotalCents)
				}
			},
		},
		{
			name:         "no participants",
			items:        []Item{{Name: "Pizza", AmountCents: 1000, Participants: []string{"alice"}}},
			participants: []string{},
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "item assigned to someone not on the bill",
			items:        []Item{{Name: "Pizza", AmountCents: 1000, Participants: []string{"mallory"}}},
			participants: []string{"alice"},
			wantErr:      ErrUnknownAssignee,
		},
		{
			name:          "negative tax",
			items:         []Item{{Name: "Pizza", AmountCents: 1000, Participants: []string{"alice"}}},
			taxPercentage: -1,
			participants:  []string{"alice"},
			wantErr:       ErrNegativeTax,
		},
		{
			name:         "negative tip",
			items:        []Item{{Name: "Pizza", AmountCents: 1000, Participants: []string{"alice"}}},
			tipCents:     -50,
			participants: []string{"alice"},
			wantErr:      ErrNegativeAmount,
		},
		{
			name:         "negative item amount",
			items:        []Item{{Name: "Refund", AmountCents: -500, Participants: []string{"alice"}}},
			participants: []string{"alice"},
			wantErr:      ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeSplit(tt.items, tt.taxPercentage, tt.tipCents, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeSplit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSplit() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, result)
			}
		})
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		weights []int64
		want    []int64
	}{
		{
			name:    "exact division",
			amount:  300,
			weights: []int64{1, 1, 1},
			want:    []int64{100, 100, 100},
		},
		{
			name:    "leftover cents go to largest remainders",
			amount:  100,
			weights: []int64{1, 1, 1},
			want:    []int64{34, 33, 33},
		},
		{
			name:    "proportional to weights",
			amount:  300,
			weights: []int64{2000, 1000},
			want:    []int64{200, 100},
		},
		{
			name:    "zero weight gets nothing",
			amount:  100,
			weights: []int64{1, 0},
			want:    []int64{100, 0},
		},
		{
			name:    "zero amount",
			amount:  0,
			weights: []int64{1, 2, 3},
			want:    []int64{0, 0, 0},
		},
		{
			name:    "all-zero weights",
			amount:  100,
			weights: []int64{0, 0},
			want:    []int64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.amount, tt.weights)
			if len(got) != len(tt.want) {
				t.Fatalf("Allocate() returned %d shares, want %d", len(got), len(tt.want))
			}
			var sum int64
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("share[%d] = %d, want %d", i, got[i], tt.want[i])
				}
				sum += got[i]
			}
			var weightSum int64
			for _, w := range tt.weights {
				weightSum += w
			}
			if tt.amount > 0 && weightSum > 0 && sum != tt.amount {
				t.Errorf("shares sum to %d, want %d", sum, tt.amount)
			}
		})
	}
}
