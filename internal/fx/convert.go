package fx

import (
	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
)

// Converter converts amounts between a local currency and the peg
// currency through the cache. Stateless: all state lives in the cache
// snapshot a call happens to observe.
//
// Both directions round to 4 fractional digits with exact decimal
// arithmetic, so repeated conversions never accumulate binary floating
// point error. A round trip FromPeg(ToPeg(a, c), c) differs from a by at
// most the two rounding steps: 0.00005/rate + 0.00005, which is within
// 0.0001 whenever the rate is at least 1.
type Converter struct {
	cache *Cache
}

// NewConverter creates a Converter over cache.
func NewConverter(cache *Cache) *Converter {
	return &Converter{cache: cache}
}

// ToPeg converts amount in currency to the peg currency. The peg itself
// passes through unchanged; other currencies multiply by their cached
// rate and round to 4 places. Fails with *RateNotFoundError when the
// currency is absent from the cache.
func (cv *Converter) ToPeg(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if currency == domain.PegCurrency {
		return amount, nil
	}
	rate, err := cv.cache.Rate(currency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return domain.RoundMoney(amount.Mul(rate)), nil
}

// FromPeg converts pegAmount back into currency. The peg passes through
// unchanged; other currencies divide by their cached rate, rounded to 4
// places. Fails with *RateNotFoundError when the currency is absent.
func (cv *Converter) FromPeg(pegAmount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if currency == domain.PegCurrency {
		return pegAmount, nil
	}
	rate, err := cv.cache.Rate(currency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return pegAmount.DivRound(rate, domain.MoneyPlaces), nil
}
