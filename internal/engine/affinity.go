package engine

import "strconv"

// AffinityFunc maps a seller identifier to the numeric key the seed-based
// strategies mix into their bucket and group-order formulas. The mapping is
// injectable so fairness quality is not coupled to one identifier naming
// scheme; any function that spreads sellers over distinct values works.
type AffinityFunc func(sellerID string) int64

const (
	affinityFallback = 1
	affinityMinIDLen = 8
)

// NumericSuffixAffinity extracts the trailing digit run of sellerID as its
// affinity key ("seller_42" → 42). Identifiers shorter than 8 characters,
// or without a trailing digit run, map to the fallback key 1. Sellers
// sharing the fallback collide into the same bucket; that degrades
// interleaving quality, not correctness.
func NumericSuffixAffinity(sellerID string) int64 {
	if len(sellerID) < affinityMinIDLen {
		return affinityFallback
	}

	end := len(sellerID)
	start := end
	for start > 0 && sellerID[start-1] >= '0' && sellerID[start-1] <= '9' {
		start--
	}
	if start == end {
		return affinityFallback
	}

	v, err := strconv.ParseInt(sellerID[start:], 10, 64)
	if err != nil {
		// Digit run longer than an int64.
		return affinityFallback
	}
	return v
}
