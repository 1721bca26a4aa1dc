package fx

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
)

func rate(currency, value string) domain.ExchangeRate {
	return domain.ExchangeRate{
		Currency:    currency,
		Rate:        decimal.RequireFromString(value),
		LastUpdated: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCache_RateHitAndMiss(t *testing.T) {
	c := NewCache(nil)
	c.Replace([]domain.ExchangeRate{rate("PHP", "0.0178"), rate("EUR", "1.09")})

	got, err := c.Rate("PHP")
	if err != nil {
		t.Fatalf("Rate(PHP) error = %v, want nil", err)
	}
	if got.String() != "0.0178" {
		t.Errorf("Rate(PHP) = %s, want 0.0178", got)
	}

	_, err = c.Rate("XXX")
	var rnf *RateNotFoundError
	if !errors.As(err, &rnf) {
		t.Fatalf("Rate(XXX) error = %v, want *RateNotFoundError", err)
	}
	if rnf.Currency != "XXX" {
		t.Errorf("error names currency %q, want XXX", rnf.Currency)
	}
	if len(rnf.Known) != 2 || rnf.Known[0] != "EUR" || rnf.Known[1] != "PHP" {
		t.Errorf("error knows %v, want [EUR PHP]", rnf.Known)
	}
}

func TestCache_EmptyCacheError(t *testing.T) {
	c := NewCache(nil)

	_, err := c.Rate("PHP")
	var rnf *RateNotFoundError
	if !errors.As(err, &rnf) {
		t.Fatalf("Rate() on empty cache error = %v, want *RateNotFoundError", err)
	}
	if len(rnf.Known) != 0 {
		t.Errorf("empty cache error lists known currencies %v, want none", rnf.Known)
	}
}

func TestCache_ReplaceDropsAbsentCurrencies(t *testing.T) {
	c := NewCache(nil)
	c.Replace([]domain.ExchangeRate{rate("PHP", "0.0178"), rate("EUR", "1.09")})
	c.Replace([]domain.ExchangeRate{rate("JPY", "0.0067")})

	if _, err := c.Rate("PHP"); err == nil {
		t.Error("Rate(PHP) after replace succeeded, want RateNotFoundError")
	}
	if _, err := c.Rate("JPY"); err != nil {
		t.Errorf("Rate(JPY) error = %v, want nil", err)
	}
	if known := c.Known(); len(known) != 1 || known[0] != "JPY" {
		t.Errorf("Known() = %v, want [JPY]", known)
	}
}

func TestCache_LoadedAt(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(func() time.Time { return at })

	if !c.LoadedAt().IsZero() {
		t.Errorf("LoadedAt() before any replace = %v, want zero", c.LoadedAt())
	}

	c.Replace([]domain.ExchangeRate{rate("PHP", "0.0178")})
	if !c.LoadedAt().Equal(at) {
		t.Errorf("LoadedAt() = %v, want %v", c.LoadedAt(), at)
	}
}

func TestCache_KnownReturnsACopy(t *testing.T) {
	c := NewCache(nil)
	c.Replace([]domain.ExchangeRate{rate("PHP", "0.0178"), rate("EUR", "1.09")})

	known := c.Known()
	known[0] = "ZZZ"

	if again := c.Known(); again[0] != "EUR" {
		t.Errorf("mutating Known()'s result leaked into the cache: %v", again)
	}
}

func TestCache_ConcurrentReadersDuringReplace(t *testing.T) {
	c := NewCache(nil)
	old := []domain.ExchangeRate{rate("PHP", "0.01"), rate("EUR", "1")}
	new_ := []domain.ExchangeRate{rate("PHP", "0.02"), rate("EUR", "2")}
	c.Replace(old)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got, err := c.Rate("PHP")
				if err != nil {
					t.Errorf("reader saw missing PHP during replace: %v", err)
					return
				}
				s := got.String()
				if s != "0.01" && s != "0.02" {
					t.Errorf("reader saw torn rate %s", s)
					return
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			c.Replace(new_)
		} else {
			c.Replace(old)
		}
	}
	close(stop)
	wg.Wait()
}
