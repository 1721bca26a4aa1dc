package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/engine"
)

// SearchLimits carries the configured bounds a SearchService enforces on
// incoming requests.
type SearchLimits struct {
	DefaultPageSize       int
	MaxPageSize           int
	DefaultMaxPerSeller   int
	MaxPerSellerCap       int
	MaxRoundRobinCategory int
}

// SearchRequest is a catalog search as received from the caller, before
// validation. Zero PageSize means "use the configured default"; a nil
// Seed asks the seed clock for the current window value; a nil
// MaxPerSeller falls back to the configured default for the quota
// strategy.
type SearchRequest struct {
	Category     string
	Strategy     string
	Page         int
	PageSize     int
	Seed         *int64
	MaxPerSeller *int
}

// SearchService validates search requests, resolves defaults, and
// dispatches them to the selected distribution strategy.
type SearchService struct {
	source   engine.Source
	registry *engine.Registry
	clock    *engine.SeedClock
	limits   SearchLimits
}

// NewSearchService creates a SearchService.
func NewSearchService(source engine.Source, registry *engine.Registry, clock *engine.SeedClock, limits SearchLimits) *SearchService {
	return &SearchService{
		source:   source,
		registry: registry,
		clock:    clock,
		limits:   limits,
	}
}

// Search runs one distributed catalog search.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*engine.Result, error) {
	// Step 1: validate the request before touching the store.
	if strings.TrimSpace(req.Category) == "" {
		return nil, &domain.ValidationError{Message: "category is required"}
	}
	if req.Page < 1 {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("page must be >= 1, got %d", req.Page)}
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.limits.DefaultPageSize
	}
	if pageSize < 1 || pageSize > s.limits.MaxPageSize {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("page_size must be between 1 and %d, got %d", s.limits.MaxPageSize, pageSize),
		}
	}

	// Step 2: resolve the strategy.
	name := req.Strategy
	if name == "" {
		name = engine.StrategyHashRoundRobin
	}
	strategy, err := s.registry.Get(name)
	if err != nil {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("unknown strategy %q: available strategies are %s", name, strings.Join(s.registry.Names(), ", ")),
		}
	}

	// Step 3: resolve strategy-specific parameters.
	var maxPerSeller *int
	if strategy.Name() == engine.StrategyQuotaBased {
		quota := s.limits.DefaultMaxPerSeller
		if req.MaxPerSeller != nil {
			if *req.MaxPerSeller < 1 {
				return nil, &domain.ValidationError{
					Message: fmt.Sprintf("max_per_seller must be >= 1, got %d", *req.MaxPerSeller),
				}
			}
			quota = *req.MaxPerSeller
		}
		// Values above the cap are lowered to it; the cap is part of
		// the service contract, not a validation failure.
		if quota > s.limits.MaxPerSellerCap {
			quota = s.limits.MaxPerSellerCap
		}
		maxPerSeller = &quota
	}

	// Step 4: full-scan strategies are refused on oversized categories.
	if strategy.FullScan() {
		count, err := s.source.CountByCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		if count > s.limits.MaxRoundRobinCategory {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("category %q has %d listings, which exceeds the %d limit for strategy %s",
					req.Category, count, s.limits.MaxRoundRobinCategory, strategy.Name()),
			}
		}
	}

	// Step 5: resolve the seed and dispatch.
	seed := s.clock.Seed(req.Seed)
	return strategy.Distribute(ctx, s.source, engine.Request{
		Category:     req.Category,
		Page:         req.Page,
		PageSize:     pageSize,
		Strategy:     strategy.Name(),
		Seed:         req.Seed,
		MaxPerSeller: maxPerSeller,
	}, seed)
}
