package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
)

func TestRateStore_SaveAndLoad(t *testing.T) {
	s := NewRateStore()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rates := []domain.ExchangeRate{
		{Currency: "PHP", Rate: decimal.RequireFromString("0.0178"), LastUpdated: now},
		{Currency: "EUR", Rate: decimal.RequireFromString("1.09"), LastUpdated: now},
		{Currency: "USD", Rate: decimal.NewFromInt(1), LastUpdated: now},
	}
	if err := s.SaveRates(context.Background(), rates); err != nil {
		t.Fatalf("SaveRates() error = %v, want nil", err)
	}

	got, err := s.LoadRates(context.Background())
	if err != nil {
		t.Fatalf("LoadRates() error = %v, want nil", err)
	}
	if len(got) != 3 {
		t.Fatalf("LoadRates() returned %d rates, want 3", len(got))
	}

	// Sorted by currency code.
	wantOrder := []string{"EUR", "PHP", "USD"}
	for i, r := range got {
		if r.Currency != wantOrder[i] {
			t.Errorf("LoadRates()[%d].Currency = %q, want %q", i, r.Currency, wantOrder[i])
		}
	}
}

func TestRateStore_SaveReplacesTable(t *testing.T) {
	s := NewRateStore()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	first := []domain.ExchangeRate{
		{Currency: "PHP", Rate: decimal.RequireFromString("0.0178"), LastUpdated: now},
		{Currency: "EUR", Rate: decimal.RequireFromString("1.09"), LastUpdated: now},
	}
	if err := s.SaveRates(context.Background(), first); err != nil {
		t.Fatalf("SaveRates() error = %v, want nil", err)
	}

	second := []domain.ExchangeRate{
		{Currency: "JPY", Rate: decimal.RequireFromString("0.0067"), LastUpdated: now},
	}
	if err := s.SaveRates(context.Background(), second); err != nil {
		t.Fatalf("SaveRates() error = %v, want nil", err)
	}

	got, err := s.LoadRates(context.Background())
	if err != nil {
		t.Fatalf("LoadRates() error = %v, want nil", err)
	}
	if len(got) != 1 || got[0].Currency != "JPY" {
		t.Errorf("LoadRates() = %+v, want only JPY", got)
	}
}

func TestRateStore_LoadEmpty(t *testing.T) {
	s := NewRateStore()

	got, err := s.LoadRates(context.Background())
	if err != nil {
		t.Fatalf("LoadRates() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadRates() returned %d rates, want 0", len(got))
	}
}

func TestRateStore_CancelledContext(t *testing.T) {
	s := NewRateStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.SaveRates(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("SaveRates() error = %v, want context.Canceled", err)
	}
	if _, err := s.LoadRates(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadRates() error = %v, want context.Canceled", err)
	}
}
