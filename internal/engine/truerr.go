package engine

import (
	"context"
	"sort"

	"github.com/marketfair/catalog/internal/domain"
)

const trueRRKeySpace = 1000

// TrueRoundRobin interleaves seller groups round by round: round 0 takes
// every seller's best listing, round 1 every seller's second best, and so
// on. This is the only strategy with an exact fairness guarantee: one
// seller's Nth-best listing is never separated from the other sellers'
// Nth-best by more than a full seller cycle. The price is materializing
// the entire category, so cost grows with category size rather than page
// size; callers gate it behind a category-size ceiling.
type TrueRoundRobin struct {
	affinity AffinityFunc
}

// NewTrueRoundRobin creates the strategy. A nil affinity falls back to
// NumericSuffixAffinity.
func NewTrueRoundRobin(affinity AffinityFunc) *TrueRoundRobin {
	if affinity == nil {
		affinity = NumericSuffixAffinity
	}
	return &TrueRoundRobin{affinity: affinity}
}

func (t *TrueRoundRobin) Name() string { return StrategyTrueRoundRobin }

func (t *TrueRoundRobin) Seeded() bool { return true }

func (t *TrueRoundRobin) FullScan() bool { return true }

func (t *TrueRoundRobin) Description() string {
	return "exact per-seller interleave; materializes the whole category"
}

// groupKey computes the seed-derived order key for one seller group,
// normalized to [0, trueRRKeySpace). Intentionally a different formula
// than the hash strategy's bucket; the two are independent algorithms.
func (t *TrueRoundRobin) groupKey(sellerID string, seed int64) int64 {
	k := (t.affinity(sellerID) + seed) % trueRRKeySpace
	if k < 0 {
		k += trueRRKeySpace
	}
	return k
}

// Distribute materializes all seller groups, orders listings inside each
// group by (rating desc, createdAt desc, ID asc), orders the groups by
// their seed-derived key, interleaves round by round, then slices the
// requested page out of the full sequence.
//
// Groups shorter than the current round contribute nothing to it, so with
// more sellers than pageSize a small seller disappears from the sequence
// after its exhaustion round.
func (t *TrueRoundRobin) Distribute(ctx context.Context, src Source, req Request, seed int64) (*Result, error) {
	groups, err := src.GroupBySeller(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	// Step 1: Sort inside each group. Group slices are copied before
	// sorting so shared store state is never reordered in place.
	sorted := make([]domain.SellerGroup, len(groups))
	for i, g := range groups {
		listings := make([]*domain.Listing, len(g.Listings))
		copy(listings, g.Listings)
		sortByQuality(listings)
		sorted[i] = domain.SellerGroup{SellerID: g.SellerID, Listings: listings}
	}

	// Step 2: Order the groups by seed-derived key, seller ID as the
	// deterministic tie-break for colliding keys.
	sort.SliceStable(sorted, func(i, j int) bool {
		ki := t.groupKey(sorted[i].SellerID, seed)
		kj := t.groupKey(sorted[j].SellerID, seed)
		if ki != kj {
			return ki < kj
		}
		return sorted[i].SellerID < sorted[j].SellerID
	})

	// Step 3: Interleave round by round.
	total := 0
	maxGroup := 0
	for _, g := range sorted {
		total += len(g.Listings)
		if len(g.Listings) > maxGroup {
			maxGroup = len(g.Listings)
		}
	}

	sequence := make([]*domain.Listing, 0, total)
	for round := 0; round < maxGroup; round++ {
		for _, g := range sorted {
			if round < len(g.Listings) {
				sequence = append(sequence, g.Listings[round])
			}
		}
	}

	// Step 4: Slice. The full sequence is the category, so its length is
	// the total count.
	page, pagination := Paginate(sequence, req.Page, req.PageSize, len(sequence))
	return &Result{
		Listings:   page,
		Pagination: pagination,
		Seed:       &seed,
		Strategy:   t.Name(),
	}, nil
}

// sortByQuality orders listings by (rating desc, createdAt desc, ID asc)
// in place. This is the shared within-group ordering of the grouping
// strategies.
func sortByQuality(listings []*domain.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
