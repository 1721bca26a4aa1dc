package service

import (
	"context"
	"fmt"
	"time"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/fx"
)

// RecalcRequest bounds one recalculation pass. A nil OlderThan selects
// every convertible listing regardless of age; a nil Limit processes all
// candidates.
type RecalcRequest struct {
	OlderThan *time.Time
	Limit     *int
}

// RecalcService validates recalculation requests and runs them through
// the bulk engine.
type RecalcService struct {
	recalc *fx.Recalculator
}

// NewRecalcService creates a RecalcService.
func NewRecalcService(recalc *fx.Recalculator) *RecalcService {
	return &RecalcService{recalc: recalc}
}

func validateRecalc(req RecalcRequest) error {
	if req.Limit != nil && *req.Limit < 0 {
		return &domain.ValidationError{Message: fmt.Sprintf("limit must be >= 0, got %d", *req.Limit)}
	}
	return nil
}

// Check reports what a recalculation with the same bounds would process,
// without mutating any listing.
func (s *RecalcService) Check(ctx context.Context, req RecalcRequest) (*fx.RecalcMetrics, error) {
	if err := validateRecalc(req); err != nil {
		return nil, err
	}
	return s.recalc.Check(ctx, req.OlderThan, req.Limit)
}

// Run recalculates peg prices for the selected listings.
func (s *RecalcService) Run(ctx context.Context, req RecalcRequest) (*fx.RecalcMetrics, error) {
	if err := validateRecalc(req); err != nil {
		return nil, err
	}
	return s.recalc.Recalculate(ctx, req.OlderThan, req.Limit)
}
