package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PegCurrency is the single currency every listing's canonical, indexed
// price is stored in. Rates are expressed as peg units per one unit of the
// local currency (so ToPeg multiplies, FromPeg divides).
const PegCurrency = "USD"

// supportedCurrencies is the fixed set of currencies listings may be
// priced in. The peg currency is always a member.
var supportedCurrencies = map[string]bool{
	"USD": true,
	"PHP": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"AUD": true,
	"SGD": true,
	"KRW": true,
}

// CurrencySupported reports whether code is in the supported set.
func CurrencySupported(code string) bool {
	return supportedCurrencies[code]
}

// SupportedCurrencies returns the supported currency codes sorted
// alphabetically.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(supportedCurrencies))
	for c := range supportedCurrencies {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// DefaultRates is the bootstrap rate table used when rate setup is invoked
// without an explicit table. Values are indicative, not live market data;
// the peg currency is pinned at exactly 1.
var DefaultRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"PHP": decimal.RequireFromString("0.0178"),
	"EUR": decimal.RequireFromString("1.09"),
	"GBP": decimal.RequireFromString("1.27"),
	"JPY": decimal.RequireFromString("0.0067"),
	"AUD": decimal.RequireFromString("0.66"),
	"SGD": decimal.RequireFromString("0.74"),
	"KRW": decimal.RequireFromString("0.00075"),
}
