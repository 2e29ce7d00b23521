package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrBadPercentages = errors.New("percentages must sum to 100")
	ErrBadCustomSplit = errors.New("custom amounts must sum to the total")
)

// PercentShare assigns a participant a percentage of a bill total.
type PercentShare struct {
	ParticipantID string
	Percent       float64
}

// CustomShare assigns a participant an explicit amount of a bill total.
type CustomShare struct {
	ParticipantID string
	AmountCents   int64
}

// EqualSplit divides totalCents evenly among the participants, earlier
// participants absorbing the leftover cents.
func EqualSplit(totalCents int64, participants []string) (map[string]int64, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if totalCents < 0 {
		return nil, fmt.Errorf("%w: total", ErrNegativeAmount)
	}

	portions := allocateEqually(totalCents, len(participants))
	splits := make(map[string]int64, len(participants))
	for i, p := range participants {
		splits[p] = portions[i]
	}
	return splits, nil
}

// PercentageSplit divides totalCents according to per-participant
// percentages, which must sum to 100 (within 0.01 to absorb float noise).
// Rounding is largest-remainder on the fractional quotas, so the shares sum
// exactly to totalCents.
func PercentageSplit(totalCents int64, shares []PercentShare) (map[string]int64, error) {
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}
	if totalCents < 0 {
		return nil, fmt.Errorf("%w: total", ErrNegativeAmount)
	}

	var pctSum float64
	for _, s := range shares {
		if s.Percent < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, s.ParticipantID)
		}
		pctSum += s.Percent
	}
	if math.Abs(pctSum-100) > 0.01 {
		return nil, fmt.Errorf("%w: got %.2f", ErrBadPercentages, pctSum)
	}

	type quota struct {
		idx  int
		frac float64
	}
	base := make([]int64, len(shares))
	quotas := make([]quota, len(shares))

	var allocated int64
	for i, s := range shares {
		exact := float64(totalCents) * s.Percent / 100
		base[i] = int64(math.Floor(exact))
		quotas[i] = quota{idx: i, frac: exact - math.Floor(exact)}
		allocated += base[i]
	}

	// Leftover cents to the largest fractional parts, earlier index on ties.
	for n := totalCents - allocated; n > 0; n-- {
		best := -1
		for _, q := range quotas {
			if best == -1 || q.frac > quotas[best].frac {
				best = q.idx
			}
		}
		base[best]++
		quotas[best].frac = -1
	}

	splits := make(map[string]int64, len(shares))
	for i, s := range shares {
		splits[s.ParticipantID] = base[i]
	}
	return splits, nil
}

// CustomSplit validates explicitly assigned amounts against the total and
// returns them as a split map. The amounts must sum exactly to totalCents.
func CustomSplit(totalCents int64, shares []CustomShare) (map[string]int64, error) {
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}

	var sum int64
	for _, s := range shares {
		if s.AmountCents < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, s.ParticipantID)
		}
		sum += s.AmountCents
	}
	if sum != totalCents {
		return nil, fmt.Errorf("%w: amounts sum to %d, total is %d", ErrBadCustomSplit, sum, totalCents)
	}

	splits := make(map[string]int64, len(shares))
	for _, s := range shares {
		splits[s.ParticipantID] = s.AmountCents
	}
	return splits, nil
}
