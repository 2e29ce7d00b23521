package calculator

import "sort"

// Allocate divides amount (in cents) across weights using largest-remainder
// rounding: each position gets floor(amount*w/sum(weights)), then the leftover
// cents go one each to the positions with the largest remainders, earlier
// position winning ties. The returned shares always sum exactly to amount.
//
// amount must be non-negative. Empty weights or a non-positive weight sum
// yields all-zero shares.
func Allocate(amount int64, weights []int64) []int64 {
	shares := make([]int64, len(weights))
	if amount <= 0 || len(weights) == 0 {
		return shares
	}

	var sum int64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return shares
	}

	type remainder struct {
		idx int
		rem int64
	}
	remainders := make([]remainder, len(weights))

	var allocated int64
	for i, w := range weights {
		shares[i] = amount * w / sum
		remainders[i] = remainder{idx: i, rem: amount * w % sum}
		allocated += shares[i]
	}

	// Hand out the cents lost to flooring, largest remainder first.
	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].rem > remainders[j].rem
	})
	for i := int64(0); i < amount-allocated; i++ {
		shares[remainders[i].idx]++
	}

	return shares
}

// allocateEqually splits amount into n near-equal shares that sum exactly to
// amount, with earlier positions receiving the extra cents.
func allocateEqually(amount int64, n int) []int64 {
	weights := make([]int64, n)
	for i := range weights {
		weights[i] = 1
	}
	return Allocate(amount, weights)
}
