package engine

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/marketfair/catalog/internal/domain"
)

// WeightedRandom scores every candidate with fresh per-call randomness
// plus an additive boost that shrinks with the seller's offer count, so
// under-represented sellers surface more often on average while the
// ordering still varies draw to draw.
//
// By contract this strategy is neither deterministic nor pagination-stable:
// two calls with identical parameters may return different orderings, and
// page 2 is not guaranteed to continue page 1's draw. Result.Seed is nil
// to signal this to callers.
type WeightedRandom struct {
	draw func() float64 // uniform in [0, 1)
}

// NewWeightedRandom creates the strategy. A nil draw falls back to the
// shared non-seeded source; tests inject a scripted draw for fixed scores.
func NewWeightedRandom(draw func() float64) *WeightedRandom {
	if draw == nil {
		draw = rand.Float64
	}
	return &WeightedRandom{draw: draw}
}

func (w *WeightedRandom) Name() string { return StrategyWeightedRandom }

func (w *WeightedRandom) Seeded() bool { return false }

func (w *WeightedRandom) FullScan() bool { return false }

func (w *WeightedRandom) Description() string {
	return "random order biased toward sellers with fewer offers; reorders every call"
}

// Distribute scores each candidate as draw()*100 + 100/(offerCount+1),
// offerCount being the seller's listing count within the category, and
// sorts by score descending.
func (w *WeightedRandom) Distribute(ctx context.Context, src Source, req Request, _ int64) (*Result, error) {
	candidates, err := src.FindByCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	totalCount, err := src.CountByCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	offerCount := make(map[string]int, len(candidates))
	for _, l := range candidates {
		offerCount[l.SellerID]++
	}

	type scored struct {
		listing *domain.Listing
		score   float64
	}
	ordered := make([]scored, len(candidates))
	for i, l := range candidates {
		boost := 100.0 / float64(offerCount[l.SellerID]+1)
		ordered[i] = scored{listing: l, score: w.draw()*100 + boost}
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].score != ordered[j].score {
			return ordered[i].score > ordered[j].score
		}
		return ordered[i].listing.ID < ordered[j].listing.ID
	})

	sequence := make([]*domain.Listing, len(ordered))
	for i, s := range ordered {
		sequence[i] = s.listing
	}

	page, pagination := Paginate(sequence, req.Page, req.PageSize, totalCount)
	return &Result{
		Listings:   page,
		Pagination: pagination,
		Seed:       nil,
		Strategy:   w.Name(),
	}, nil
}
