package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/fx"
	"github.com/marketfair/catalog/internal/store"
)

// defaultDrift is the production randomness source for rate fluctuations.
func defaultDrift() float64 { return rand.Float64() }

// RateInput is one currency rate supplied to Setup.
type RateInput struct {
	Currency string
	Rate     decimal.Decimal
}

// FluctuationPolicy bounds one simulated market movement. Each selected
// rate is multiplied by a random factor in [1-MaxDriftPct/100,
// 1+MaxDriftPct/100]. An empty Currencies list selects every non-peg
// currency in the table.
type FluctuationPolicy struct {
	MaxDriftPct float64
	Currencies  []string
}

// maxDriftPctCeiling keeps a single update from moving any rate by more
// than half its value, which also guarantees updated rates stay positive.
const maxDriftPctCeiling = 50.0

// RateService owns the persisted rate table and keeps the in-memory rate
// cache in lockstep with it. Every mutation writes the store first, then
// swaps the cache, so readers never see a rate the table does not hold.
type RateService struct {
	rates *store.RateStore
	cache *fx.Cache
	now   func() time.Time
	drift func() float64
	log   zerolog.Logger
}

// NewRateService creates a RateService. now defaults to time.Now and
// drift to a uniform [0, 1) source when nil; tests inject both.
func NewRateService(rates *store.RateStore, cache *fx.Cache, now func() time.Time, drift func() float64, log zerolog.Logger) *RateService {
	if now == nil {
		now = time.Now
	}
	if drift == nil {
		drift = defaultDrift
	}
	return &RateService{
		rates: rates,
		cache: cache,
		now:   now,
		drift: drift,
		log:   log,
	}
}

// Setup replaces the whole rate table. With no inputs it installs the
// default bootstrap table; otherwise every input is validated, the peg
// currency is pinned at rate 1, and the table is persisted and loaded
// into the cache in one pass. Returns the table that is now live, sorted
// by currency.
func (s *RateService) Setup(ctx context.Context, inputs []RateInput) ([]domain.ExchangeRate, error) {
	now := s.now()

	var rates []domain.ExchangeRate
	if len(inputs) == 0 {
		rates = defaultRateTable(now)
	} else {
		seen := make(map[string]bool, len(inputs))
		for _, in := range inputs {
			code := strings.ToUpper(strings.TrimSpace(in.Currency))
			if !domain.CurrencySupported(code) {
				return nil, &domain.ValidationError{
					Message: fmt.Sprintf("unsupported currency %q: supported currencies are %s",
						in.Currency, strings.Join(domain.SupportedCurrencies(), ", ")),
				}
			}
			if seen[code] {
				return nil, &domain.ValidationError{Message: fmt.Sprintf("duplicate rate for currency %s", code)}
			}
			seen[code] = true
			if code == domain.PegCurrency {
				if !in.Rate.Equal(decimal.NewFromInt(1)) {
					return nil, &domain.ValidationError{
						Message: fmt.Sprintf("rate for peg currency %s must be exactly 1, got %s", domain.PegCurrency, in.Rate),
					}
				}
			} else if !in.Rate.IsPositive() {
				return nil, &domain.ValidationError{Message: fmt.Sprintf("rate for %s must be > 0, got %s", code, in.Rate)}
			}
			rates = append(rates, domain.ExchangeRate{
				Currency:    code,
				Rate:        in.Rate.Round(domain.RatePlaces),
				LastUpdated: now,
			})
		}
		if !seen[domain.PegCurrency] {
			rates = append(rates, domain.ExchangeRate{
				Currency:    domain.PegCurrency,
				Rate:        decimal.NewFromInt(1),
				LastUpdated: now,
			})
		}
		sort.Slice(rates, func(i, j int) bool { return rates[i].Currency < rates[j].Currency })
	}

	if err := s.rates.SaveRates(ctx, rates); err != nil {
		return nil, fmt.Errorf("save rate table: %w", err)
	}
	s.cache.Replace(rates)

	s.log.Info().Int("currencies", len(rates)).Msg("exchange rate table installed")
	return rates, nil
}

// Update applies one bounded random fluctuation to the selected rates and
// returns the full table that is now live. The peg currency never moves.
func (s *RateService) Update(ctx context.Context, policy FluctuationPolicy) ([]domain.ExchangeRate, error) {
	if policy.MaxDriftPct <= 0 || policy.MaxDriftPct > maxDriftPctCeiling {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("max_drift_pct must be greater than 0 and at most %g, got %g", maxDriftPctCeiling, policy.MaxDriftPct),
		}
	}

	selected := make(map[string]bool, len(policy.Currencies))
	for _, c := range policy.Currencies {
		code := strings.ToUpper(strings.TrimSpace(c))
		if !domain.CurrencySupported(code) {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("unsupported currency %q: supported currencies are %s",
					c, strings.Join(domain.SupportedCurrencies(), ", ")),
			}
		}
		if code == domain.PegCurrency {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("peg currency %s has a fixed rate of 1 and cannot fluctuate", domain.PegCurrency),
			}
		}
		selected[code] = true
	}

	rates, err := s.rates.LoadRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rate table: %w", err)
	}
	if len(rates) == 0 {
		return nil, &domain.ValidationError{Message: "no exchange rates to update, run rate setup first"}
	}

	now := s.now()
	moved := 0
	for i, r := range rates {
		if r.Currency == domain.PegCurrency {
			continue
		}
		if len(selected) > 0 && !selected[r.Currency] {
			continue
		}
		// Step 1: draw a factor in [1-d, 1+d] with d = MaxDriftPct/100.
		factor := 1 + (2*s.drift()-1)*policy.MaxDriftPct/100
		next := r.Rate.Mul(decimal.NewFromFloat(factor)).Round(domain.RatePlaces)
		if !next.IsPositive() {
			// Rounding a tiny rate at maximum downward drift can hit
			// zero; keep the old value rather than corrupt the table.
			next = r.Rate
		}
		s.log.Debug().
			Str("currency", r.Currency).
			Str("old_rate", r.Rate.String()).
			Str("new_rate", next.String()).
			Msg("exchange rate moved")
		rates[i].Rate = next
		rates[i].LastUpdated = now
		moved++
	}

	if err := s.rates.SaveRates(ctx, rates); err != nil {
		return nil, fmt.Errorf("save rate table: %w", err)
	}
	s.cache.Replace(rates)

	s.log.Info().
		Int("moved", moved).
		Float64("max_drift_pct", policy.MaxDriftPct).
		Msg("exchange rates updated")
	return rates, nil
}

// List returns the persisted rate table sorted by currency.
func (s *RateService) List(ctx context.Context) ([]domain.ExchangeRate, error) {
	return s.rates.LoadRates(ctx)
}

// defaultRateTable materializes the bootstrap rates as a sorted table.
func defaultRateTable(now time.Time) []domain.ExchangeRate {
	rates := make([]domain.ExchangeRate, 0, len(domain.DefaultRates))
	for currency, rate := range domain.DefaultRates {
		rates = append(rates, domain.ExchangeRate{
			Currency:    currency,
			Rate:        rate,
			LastUpdated: now,
		})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Currency < rates[j].Currency })
	return rates
}
