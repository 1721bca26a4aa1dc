package store

import (
	"context"
	"sort"
	"sync"

	"github.com/marketfair/catalog/internal/domain"
)

// RateStore is a thread-safe in-memory table of exchange rates keyed by
// currency code. It is the persistence collaborator behind the rate cache:
// the rate service persists the whole table here on every setup or
// fluctuation pass, then mirrors it into the cache.
type RateStore struct {
	mu    sync.RWMutex
	rates map[string]domain.ExchangeRate
}

// NewRateStore creates an empty RateStore.
func NewRateStore() *RateStore {
	return &RateStore{rates: make(map[string]domain.ExchangeRate)}
}

// LoadRates returns every stored rate sorted by currency code.
func (s *RateStore) LoadRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ExchangeRate, 0, len(s.rates))
	for _, r := range s.rates {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Currency < result[j].Currency })
	return result, nil
}

// SaveRates replaces the entire table with the given rates. Currencies
// absent from rates are dropped; the table always reflects exactly the
// last save.
func (s *RateStore) SaveRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]domain.ExchangeRate, len(rates))
	for _, r := range rates {
		next[r.Currency] = r
	}
	s.rates = next
	return nil
}

// Len returns the number of stored rates.
func (s *RateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rates)
}
