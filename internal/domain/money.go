package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits every money amount is
// rounded to after arithmetic. Conversions round to this precision so that
// repeated to-peg/from-peg round trips cannot compound drift beyond the
// last digit.
const MoneyPlaces = 4

// RatePlaces is the precision exchange rates are stored at. Rates carry
// more digits than money so that converting small amounts in weak
// currencies (e.g. KRW) does not collapse to zero.
const RatePlaces = 6

// RoundMoney rounds d to MoneyPlaces fractional digits, half away from
// zero, and pins the result's exponent at -MoneyPlaces regardless of the
// input's scale. String renders the shortest form; rendering all four
// digits is StringFixed's job.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ParseMoney parses s as an exact decimal amount and validates that it is
// not negative. Binary floats never enter the money path: amounts arrive as
// strings and stay decimal from the edge inward.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a valid decimal amount: %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative: %s", d)
	}
	return d, nil
}
