package domain

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencySupported(t *testing.T) {
	for _, code := range []string{"USD", "PHP", "EUR", "GBP", "JPY", "AUD", "SGD", "KRW"} {
		if !CurrencySupported(code) {
			t.Errorf("CurrencySupported(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"", "usd", "BTC", "XYZ"} {
		if CurrencySupported(code) {
			t.Errorf("CurrencySupported(%q) = true, want false", code)
		}
	}
}

func TestSupportedCurrencies_SortedAndIncludesPeg(t *testing.T) {
	codes := SupportedCurrencies()
	if !sort.StringsAreSorted(codes) {
		t.Errorf("SupportedCurrencies() not sorted: %v", codes)
	}

	foundPeg := false
	for _, c := range codes {
		if c == PegCurrency {
			foundPeg = true
		}
	}
	if !foundPeg {
		t.Errorf("SupportedCurrencies() missing peg currency %q", PegCurrency)
	}
}

func TestDefaultRates_CoverSupportedSet(t *testing.T) {
	for _, code := range SupportedCurrencies() {
		rate, ok := DefaultRates[code]
		if !ok {
			t.Errorf("DefaultRates missing supported currency %q", code)
			continue
		}
		if !rate.IsPositive() {
			t.Errorf("DefaultRates[%q] = %s, want > 0", code, rate)
		}
	}

	if !DefaultRates[PegCurrency].Equal(decimal.NewFromInt(1)) {
		t.Errorf("peg rate = %s, want exactly 1", DefaultRates[PegCurrency])
	}
}
