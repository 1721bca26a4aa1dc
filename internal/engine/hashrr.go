package engine

import (
	"context"
	"sort"

	"github.com/marketfair/catalog/internal/domain"
)

const (
	hashBucketSpace = 10000
	hashScramble    = 37
)

// HashRoundRobin orders candidates by a seed-derived per-seller bucket.
// Listings of the same seller land in the same bucket, so sorting by
// bucket coarsely interleaves sellers; rating and recency break ties
// inside a bucket. Multiplying by seed+37 scrambles bucket assignments as
// the seed rotates so that adjacent sellers do not stay adjacent in bucket
// space forever. This is a fairness approximation, not a true interleave:
// two sellers can still collide into one bucket and appear back to back.
type HashRoundRobin struct {
	affinity AffinityFunc
}

// NewHashRoundRobin creates the strategy. A nil affinity falls back to
// NumericSuffixAffinity.
func NewHashRoundRobin(affinity AffinityFunc) *HashRoundRobin {
	if affinity == nil {
		affinity = NumericSuffixAffinity
	}
	return &HashRoundRobin{affinity: affinity}
}

func (h *HashRoundRobin) Name() string { return StrategyHashRoundRobin }

func (h *HashRoundRobin) Seeded() bool { return true }

func (h *HashRoundRobin) FullScan() bool { return false }

func (h *HashRoundRobin) Description() string {
	return "seed-stable bucket hashing that approximates seller interleaving at sort cost"
}

// bucket computes the seed-derived bucket for one seller, normalized to
// [0, hashBucketSpace).
func (h *HashRoundRobin) bucket(sellerID string, seed int64) int64 {
	b := (h.affinity(sellerID) + seed) * (seed + hashScramble) % hashBucketSpace
	if b < 0 {
		b += hashBucketSpace
	}
	return b
}

// Distribute sorts the category's candidates by (bucket asc, rating desc,
// createdAt desc, ID asc) and slices the requested page. The ordering is a
// pure function of (candidates, seed), so equal requests within one seed
// window return identical pages.
func (h *HashRoundRobin) Distribute(ctx context.Context, src Source, req Request, seed int64) (*Result, error) {
	candidates, err := src.FindByCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	totalCount, err := src.CountByCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	type bucketed struct {
		listing *domain.Listing
		bucket  int64
	}
	ordered := make([]bucketed, len(candidates))
	for i, l := range candidates {
		ordered[i] = bucketed{listing: l, bucket: h.bucket(l.SellerID, seed)}
	}

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.bucket != b.bucket {
			return a.bucket < b.bucket
		}
		if a.listing.Rating != b.listing.Rating {
			return a.listing.Rating > b.listing.Rating
		}
		if !a.listing.CreatedAt.Equal(b.listing.CreatedAt) {
			return a.listing.CreatedAt.After(b.listing.CreatedAt)
		}
		return a.listing.ID < b.listing.ID
	})

	sequence := make([]*domain.Listing, len(ordered))
	for i, b := range ordered {
		sequence[i] = b.listing
	}

	page, pagination := Paginate(sequence, req.Page, req.PageSize, totalCount)
	return &Result{
		Listings:   page,
		Pagination: pagination,
		Seed:       &seed,
		Strategy:   h.Name(),
	}, nil
}
