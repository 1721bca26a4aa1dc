package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
)

// ListingSelector is the store capability the recalculation engine
// consumes: select the listings whose peg price may be stale, and write a
// re-derived price back.
type ListingSelector interface {
	// FindForRecalc returns every listing priced in a currency other than
	// pegCurrency, optionally narrowed to those converted before
	// olderThan. No ordering guarantee.
	FindForRecalc(ctx context.Context, pegCurrency string, olderThan *time.Time) ([]*domain.Listing, error)

	// SetPegPrice replaces a listing's peg price and conversion stamp.
	SetPegPrice(ctx context.Context, id string, pegPrice decimal.Decimal, convertedAt time.Time) error
}

// RecalcMetrics reports one recalculation pass, real or previewed.
type RecalcMetrics struct {
	TotalAvailable   int     // candidates matching the selection, before the limit
	Processed        int     // candidates actually (or to be) rewritten
	ElapsedMs        int64   // wall time of the pass
	RecordsPerSecond float64 // Processed over elapsed seconds; 0 for an instant pass
}

// Recalculator re-derives peg prices for non-peg listings after a rate
// change, converting each listing's local price with the cache current at
// execution time.
//
// The read-then-write pass is not transactional: a listing updated
// concurrently by another writer may be overwritten or missed. Callers
// accept that eventual consistency; the next pass converges.
type Recalculator struct {
	selector  ListingSelector
	converter *Converter
	now       func() time.Time
	log       zerolog.Logger
	logEvery  int
}

// NewRecalculator creates a Recalculator. A nil now falls back to
// time.Now; logEvery < 1 disables progress logging between records.
func NewRecalculator(selector ListingSelector, converter *Converter, now func() time.Time, log zerolog.Logger, logEvery int) *Recalculator {
	if now == nil {
		now = time.Now
	}
	return &Recalculator{
		selector:  selector,
		converter: converter,
		now:       now,
		log:       log,
		logEvery:  logEvery,
	}
}

// selectCandidates performs the selection shared by Check and Recalculate.
// Both modes must run this identical query, or the preview could not be
// trusted as a preview.
func (r *Recalculator) selectCandidates(ctx context.Context, olderThan *time.Time) ([]*domain.Listing, error) {
	candidates, err := r.selector.FindForRecalc(ctx, domain.PegCurrency, olderThan)
	if err != nil {
		return nil, fmt.Errorf("select recalculation candidates: %w", err)
	}
	return candidates, nil
}

// capToLimit applies first-limit semantics: the first limit candidates in
// selection order, which itself carries no ordering guarantee — when
// capped, which subset runs is unspecified.
func capToLimit(candidates []*domain.Listing, limit *int) []*domain.Listing {
	if limit == nil || *limit >= len(candidates) {
		return candidates
	}
	return candidates[:*limit]
}

// Check previews a pass: the same selection and the same limit cap as
// Recalculate, with zero mutation. TotalAvailable and Processed in the
// returned metrics are exactly what an immediate Recalculate with the
// same arguments would report.
func (r *Recalculator) Check(ctx context.Context, olderThan *time.Time, limit *int) (*RecalcMetrics, error) {
	start := r.now()

	candidates, err := r.selectCandidates(ctx, olderThan)
	if err != nil {
		return nil, err
	}
	capped := capToLimit(candidates, limit)

	return r.metrics(len(candidates), len(capped), start), nil
}

// Recalculate executes a pass: selects candidates, converts each listing's
// local price to the peg with the current cache, and writes the new price
// and conversion stamp through the store. Fails fast on the first
// conversion or store error, wrapped with the listing ID.
func (r *Recalculator) Recalculate(ctx context.Context, olderThan *time.Time, limit *int) (*RecalcMetrics, error) {
	start := r.now()

	candidates, err := r.selectCandidates(ctx, olderThan)
	if err != nil {
		return nil, err
	}
	capped := capToLimit(candidates, limit)

	r.log.Debug().
		Int("total_available", len(candidates)).
		Int("to_process", len(capped)).
		Msg("starting peg price recalculation")

	for i, l := range capped {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pegPrice, err := r.converter.ToPeg(l.LocalPrice, l.Currency)
		if err != nil {
			return nil, fmt.Errorf("recalculate listing %s: %w", l.ID, err)
		}
		if err := r.selector.SetPegPrice(ctx, l.ID, pegPrice, r.now()); err != nil {
			return nil, fmt.Errorf("recalculate listing %s: %w", l.ID, err)
		}

		if r.logEvery > 0 && (i+1)%r.logEvery == 0 {
			r.log.Info().
				Int("processed", i+1).
				Int("to_process", len(capped)).
				Msg("recalculation progress")
		}
	}

	m := r.metrics(len(candidates), len(capped), start)
	r.log.Info().
		Int("total_available", m.TotalAvailable).
		Int("processed", m.Processed).
		Int64("elapsed_ms", m.ElapsedMs).
		Float64("records_per_second", m.RecordsPerSecond).
		Msg("peg price recalculation finished")
	return m, nil
}

func (r *Recalculator) metrics(totalAvailable, processed int, start time.Time) *RecalcMetrics {
	elapsed := r.now().Sub(start)
	m := &RecalcMetrics{
		TotalAvailable: totalAvailable,
		Processed:      processed,
		ElapsedMs:      elapsed.Milliseconds(),
	}
	if elapsed > 0 {
		m.RecordsPerSecond = float64(processed) / elapsed.Seconds()
	}
	return m
}
