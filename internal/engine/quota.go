package engine

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/marketfair/catalog/internal/domain"
)

// QuotaBased hard-caps every seller's share of the pre-pagination
// sequence: each seller group is truncated to its best maxPerSeller
// listings, the capped groups are shuffled into a random order, and the
// result is concatenated rather than interleaved — the cap alone already
// bounds any one seller's run length.
//
// Group order is drawn fresh per call, so like WeightedRandom this
// strategy is not pagination-stable and Result.Seed is nil. A seller can
// be entirely absent from a given page when its capped listings fall
// outside the requested slice; the guarantee binds the flattened sequence,
// not each page.
type QuotaBased struct {
	draw func() float64 // uniform in [0, 1)
}

// NewQuotaBased creates the strategy. A nil draw falls back to the shared
// non-seeded source; tests inject a scripted draw to pin group order.
func NewQuotaBased(draw func() float64) *QuotaBased {
	if draw == nil {
		draw = rand.Float64
	}
	return &QuotaBased{draw: draw}
}

func (q *QuotaBased) Name() string { return StrategyQuotaBased }

func (q *QuotaBased) Seeded() bool { return false }

func (q *QuotaBased) FullScan() bool { return false }

func (q *QuotaBased) Description() string {
	return "caps each seller's share of the sequence at a per-request quota"
}

// Distribute truncates each seller group to req.MaxPerSeller, shuffles
// group order, concatenates, and slices the requested page. The caller
// resolves MaxPerSeller (default and cap) before dispatch; a missing value
// is a request-building bug and is rejected.
func (q *QuotaBased) Distribute(ctx context.Context, src Source, req Request, _ int64) (*Result, error) {
	if req.MaxPerSeller == nil || *req.MaxPerSeller < 1 {
		return nil, &domain.ValidationError{Message: "max_per_seller must be resolved to a positive value before dispatch"}
	}
	quota := *req.MaxPerSeller

	groups, err := src.GroupBySeller(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	totalCount, err := src.CountByCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	// Truncate each group to its best quota listings.
	type keyedGroup struct {
		listings []*domain.Listing
		key      float64
	}
	capped := make([]keyedGroup, 0, len(groups))
	for _, g := range groups {
		listings := make([]*domain.Listing, len(g.Listings))
		copy(listings, g.Listings)
		sortByQuality(listings)
		if len(listings) > quota {
			listings = listings[:quota]
		}
		capped = append(capped, keyedGroup{listings: listings, key: q.draw()})
	}

	// Shuffle group order via the independent random keys, then flatten.
	sort.SliceStable(capped, func(i, j int) bool { return capped[i].key < capped[j].key })

	sequence := make([]*domain.Listing, 0, len(capped)*quota)
	for _, g := range capped {
		sequence = append(sequence, g.listings...)
	}

	page, pagination := Paginate(sequence, req.Page, req.PageSize, totalCount)
	return &Result{
		Listings:   page,
		Pagination: pagination,
		Seed:       nil,
		Strategy:   q.Name(),
	}, nil
}
