// Package fx implements the peg-currency consistency model: the exchange
// rate cache, the currency converter, and the bulk recalculation engine
// that re-derives peg prices after a rate change.
package fx

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
)

// RateNotFoundError reports a conversion attempted for a currency absent
// from the cache. It carries the known currencies so an operator can see
// at a glance whether the cache was never set up or the code is simply
// wrong.
type RateNotFoundError struct {
	Currency string
	Known    []string
}

func (e *RateNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("no exchange rate for %q: cache is empty, run rate setup first", e.Currency)
	}
	return fmt.Sprintf("no exchange rate for %q: known currencies are %s",
		e.Currency, strings.Join(e.Known, ", "))
}

// snapshot is one immutable generation of the cache. It is never mutated
// after construction; Replace builds a new one and swaps the pointer.
type snapshot struct {
	rates    map[string]decimal.Decimal
	known    []string // sorted codes, for error messages and diagnostics
	loadedAt time.Time
}

// Cache maps currency codes to their peg rates. It is read-mostly with a
// single writer: a refresh is a full replace, so readers observe either
// the old or the new complete set, never a partially updated one, and
// reads never take a lock.
type Cache struct {
	current atomic.Pointer[snapshot]
	now     func() time.Time
}

// NewCache creates an empty Cache. A nil now falls back to time.Now.
// Conversions against an empty cache fail with RateNotFoundError until
// the first Replace.
func NewCache(now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	c := &Cache{now: now}
	c.current.Store(&snapshot{rates: map[string]decimal.Decimal{}})
	return c
}

// Replace atomically swaps in a fresh snapshot built from rates. Rates
// absent from the new set are dropped — this is a clear-then-reload, not
// a merge.
func (c *Cache) Replace(rates []domain.ExchangeRate) {
	next := &snapshot{
		rates:    make(map[string]decimal.Decimal, len(rates)),
		loadedAt: c.now(),
	}
	for _, r := range rates {
		next.rates[r.Currency] = r.Rate
	}
	next.known = make([]string, 0, len(next.rates))
	for code := range next.rates {
		next.known = append(next.known, code)
	}
	sort.Strings(next.known)

	c.current.Store(next)
}

// Rate returns the peg rate for code, or a *RateNotFoundError naming the
// missing code and the currently known codes.
func (c *Cache) Rate(code string) (decimal.Decimal, error) {
	s := c.current.Load()
	r, ok := s.rates[code]
	if !ok {
		return decimal.Decimal{}, &RateNotFoundError{Currency: code, Known: s.known}
	}
	return r, nil
}

// Known returns the sorted currency codes of the current snapshot.
func (c *Cache) Known() []string {
	s := c.current.Load()
	out := make([]string, len(s.known))
	copy(out, s.known)
	return out
}

// LoadedAt returns when the current snapshot was installed; the zero time
// means the cache was never replaced.
func (c *Cache) LoadedAt() time.Time {
	return c.current.Load().loadedAt
}
