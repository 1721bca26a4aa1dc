package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/engine"
	"github.com/marketfair/catalog/internal/store"
)

// PriceRangeRequest selects listings by peg price. Nil bounds are open;
// Limit 0 means the configured default page size.
type PriceRangeRequest struct {
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	Limit int
}

// StrategyInfo describes one registered distribution strategy for
// callers choosing between them.
type StrategyInfo struct {
	Name        string
	SeedStable  bool
	Description string
}

// CatalogService serves the plain catalog reads: single listings,
// category counts, strategy metadata, and peg-price range browsing.
type CatalogService struct {
	listings *store.ListingStore
	registry *engine.Registry
	limits   SearchLimits
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(listings *store.ListingStore, registry *engine.Registry, limits SearchLimits) *CatalogService {
	return &CatalogService{
		listings: listings,
		registry: registry,
		limits:   limits,
	}
}

// Get returns one listing by ID.
func (s *CatalogService) Get(id string) (*domain.Listing, error) {
	return s.listings.Get(id)
}

// Categories returns every category with its listing count, sorted by
// name.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.listings.Categories(ctx)
}

// Strategies returns the registered strategies in registration order.
func (s *CatalogService) Strategies() []StrategyInfo {
	all := s.registry.All()
	infos := make([]StrategyInfo, 0, len(all))
	for _, st := range all {
		infos = append(infos, StrategyInfo{
			Name:        st.Name(),
			SeedStable:  st.Seeded(),
			Description: st.Description(),
		})
	}
	return infos
}

// PriceRange returns listings whose peg price falls in [Min, Max],
// ordered by peg price ascending. Listings whose peg price was never
// derived are not visible to range queries.
func (s *CatalogService) PriceRange(ctx context.Context, req PriceRangeRequest) ([]*domain.Listing, error) {
	if req.Min != nil && req.Min.IsNegative() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("min_price must not be negative, got %s", req.Min)}
	}
	if req.Max != nil && req.Max.IsNegative() {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("max_price must not be negative, got %s", req.Max)}
	}
	if req.Min != nil && req.Max != nil && req.Min.GreaterThan(*req.Max) {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("min_price %s must not exceed max_price %s", req.Min, req.Max),
		}
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.limits.DefaultPageSize
	}
	if limit < 1 || limit > s.limits.MaxPageSize {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("limit must be between 1 and %d, got %d", s.limits.MaxPageSize, limit),
		}
	}
	return s.listings.FindByPegPriceRange(ctx, req.Min, req.Max, limit)
}
