// Package engine implements the fair distribution engine: the seed clock,
// the four interchangeable distribution strategies, and the pager. A
// strategy consumes an unsorted candidate set for one category and
// produces a fairly ordered page; fairness here means bounding how much
// any single seller's listings dominate a page.
package engine

import (
	"context"

	"github.com/marketfair/catalog/internal/domain"
)

// Strategy names as selected by callers.
const (
	StrategyHashRoundRobin = "hash-round-robin"
	StrategyTrueRoundRobin = "true-round-robin"
	StrategyWeightedRandom = "weighted-random"
	StrategyQuotaBased     = "quota-based"
)

// Source is the narrow document-store capability the strategies consume.
// Implementations may push filtering and grouping down to the store as long
// as observable results keep these semantics.
type Source interface {
	// FindByCategory returns the category's listings with no ordering
	// guarantee. Empty slice for an unknown category, not an error.
	FindByCategory(ctx context.Context, category string) ([]*domain.Listing, error)

	// CountByCategory returns the full category count. Pagination metadata
	// is always built from this independent count, never from the length
	// of a fetched candidate window.
	CountByCategory(ctx context.Context, category string) (int, error)

	// GroupBySeller returns the category's listings grouped by seller,
	// groups ordered by seller ID ascending.
	GroupBySeller(ctx context.Context, category string) ([]domain.SellerGroup, error)
}

// Request carries the parameters of one distribution pass. The service
// layer validates ranges and resolves MaxPerSeller before dispatching, so
// strategies may assume Page ≥ 1 and PageSize ≥ 1.
type Request struct {
	Category     string
	Page         int
	PageSize     int
	Strategy     string
	Seed         *int64 // explicit seed; nil means derive from the seed clock
	MaxPerSeller *int   // quota strategy only; resolved by the service layer
}

// Result is one ordered page plus its pagination metadata. Seed is set only
// by seed-stable strategies; for the others it stays nil to signal that
// repeated calls may legitimately reorder.
type Result struct {
	Listings   []*domain.Listing
	Pagination Pagination
	Seed       *int64
	Strategy   string
}

// Strategy is one interchangeable fair-distribution algorithm.
type Strategy interface {
	// Name is the stable identifier callers select the strategy by.
	Name() string

	// Seeded reports whether the ordering is a pure function of
	// (candidates, seed). Seeded strategies are pagination-stable within
	// a seed window; unseeded ones reorder run to run by contract.
	Seeded() bool

	// FullScan reports whether the strategy materializes the entire
	// category instead of working over a bounded candidate window. Cost
	// of a full-scan strategy grows with category size, so callers gate
	// it behind a category-size ceiling.
	FullScan() bool

	// Description is a one-line caller-facing summary of the trade-off.
	Description() string

	// Distribute produces the ordered page for req using src. seed is
	// ignored by unseeded strategies.
	Distribute(ctx context.Context, src Source, req Request, seed int64) (*Result, error)
}

// Registry resolves strategies by name and preserves registration order
// for listings of the available strategies.
type Registry struct {
	byName map[string]Strategy
	names  []string
}

// NewRegistry creates a Registry over the given strategies. A duplicate
// name keeps the first registration.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{byName: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		if _, ok := r.byName[s.Name()]; ok {
			continue
		}
		r.byName[s.Name()] = s
		r.names = append(r.names, s.Name())
	}
	return r
}

// Get returns the strategy registered under name. Returns
// domain.ErrStrategyNotFound for unknown names.
func (r *Registry) Get(name string) (Strategy, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, domain.ErrStrategyNotFound
	}
	return s, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns the registered strategies in registration order.
func (r *Registry) All() []Strategy {
	out := make([]Strategy, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}
