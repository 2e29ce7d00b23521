// Package calculator contains the pure money math for Billfold: item-level
// bill splitting with proportional tax/tip allocation, bill-level split
// modes, and read-only settlement views. No I/O, deterministic for identical
// input, so results are reproducible on retry.
package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoParticipants  = errors.New("must have at least one participant")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrNegativeTax     = errors.New("tax percentage cannot be negative")
	ErrUnknownAssignee = errors.New("item assigned to unknown participant")
)

// Item is a single line item to split. Participants are the people sharing
// this item equally; an item with no participants still counts toward the
// subtotal but contributes to no one's share.
type Item struct {
	Name         string
	AmountCents  int64
	Participants []string
}

// SplitResult is the outcome of a bill split computation. The Splits map has
// an entry for every participant, zero for people assigned to nothing.
type SplitResult struct {
	SubtotalCents int64
	TaxCents      int64
	TipCents      int64
	TotalCents    int64
	Splits        map[string]int64
}

// ComputeSplit computes how much each participant owes, including their
// proportional share of tax and tip.
//
// Subtotal is the sum of item amounts; tax is the subtotal times the rate,
// rounded to the nearest cent; total = subtotal + tax + tip. Each item is
// divided equally (largest-remainder) among its assignees, then tax+tip is
// distributed proportionally to each participant's item share, again by
// largest remainder, so that the splits sum exactly to the total whenever
// every item has at least one assignee.
//
// If no item has any assignee, tax and tip are left undistributed: the
// splits stay at zero rather than being spread arbitrarily.
func ComputeSplit(items []Item, taxPercentage float64, tipCents int64, participants []string) (*SplitResult, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if taxPercentage < 0 {
		return nil, ErrNegativeTax
	}
	if tipCents < 0 {
		return nil, fmt.Errorf("%w: tip", ErrNegativeAmount)
	}

	members := make(map[string]bool, len(participants))
	for _, p := range participants {
		members[p] = true
	}

	var subtotal int64
	for _, item := range items {
		if item.AmountCents < 0 {
			return nil, fmt.Errorf("%w: item %q", ErrNegativeAmount, item.Name)
		}
		for _, p := range item.Participants {
			if !members[p] {
				return nil, fmt.Errorf("%w: %q on item %q", ErrUnknownAssignee, p, item.Name)
			}
		}
		subtotal += item.AmountCents
	}

	tax := int64(math.Round(float64(subtotal) * taxPercentage / 100))
	total := subtotal + tax + tipCents

	// Each participant's item share: equal division per item.
	itemShares := make(map[string]int64, len(participants))
	for _, item := range items {
		if len(item.Participants) == 0 {
			continue
		}
		portions := allocateEqually(item.AmountCents, len(item.Participants))
		for i, p := range item.Participants {
			itemShares[p] += portions[i]
		}
	}

	var shareSum int64
	for _, s := range itemShares {
		shareSum += s
	}

	splits := make(map[string]int64, len(participants))
	for _, p := range participants {
		splits[p] = itemShares[p]
	}

	// Distribute tax+tip proportionally to item shares. With no shares at
	// all there is nothing to distribute against, and the splits are left
	// at zero.
	if shareSum > 0 {
		weights := make([]int64, len(participants))
		for i, p := range participants {
			weights[i] = itemShares[p]
		}
		extras := Allocate(tax+tipCents, weights)
		for i, p := range participants {
			splits[p] += extras[i]
		}
	}

	return &SplitResult{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TipCents:      tipCents,
		TotalCents:    total,
		Splits:        splits,
	}, nil
}
