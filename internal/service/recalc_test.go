package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/fx"
	"github.com/marketfair/catalog/internal/store"
)

func newTestRecalcService(t *testing.T) (*RecalcService, *store.ListingStore) {
	t.Helper()
	listings := store.NewListingStore()
	cache := fx.NewCache(nil)
	cache.Replace([]domain.ExchangeRate{
		{Currency: "PHP", Rate: decimal.RequireFromString("0.0178"), LastUpdated: time.Now()},
	})
	recalc := fx.NewRecalculator(listings, fx.NewConverter(cache), nil, zerolog.Nop(), 1000)
	return NewRecalcService(recalc), listings
}

func TestRecalcService_NegativeLimitRejected(t *testing.T) {
	svc, _ := newTestRecalcService(t)

	limit := -1
	req := RecalcRequest{Limit: &limit}

	if _, err := svc.Run(context.Background(), req); err == nil {
		t.Error("Run accepted a negative limit")
	} else if _, ok := err.(*domain.ValidationError); !ok {
		t.Errorf("Run: expected *ValidationError, got %T: %v", err, err)
	}
	if _, err := svc.Check(context.Background(), req); err == nil {
		t.Error("Check accepted a negative limit")
	} else if _, ok := err.(*domain.ValidationError); !ok {
		t.Errorf("Check: expected *ValidationError, got %T: %v", err, err)
	}
}

func TestRecalcService_RunConvertsListings(t *testing.T) {
	svc, listings := newTestRecalcService(t)
	listings.Create(&domain.Listing{
		ID:         "php_listing",
		Category:   "RPG",
		SellerID:   "seller_1",
		LocalPrice: decimal.RequireFromString("1000"),
		Currency:   "PHP",
		CreatedAt:  time.Now(),
	})

	metrics, err := svc.Run(context.Background(), RecalcRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Processed != 1 {
		t.Fatalf("expected 1 processed, got %d", metrics.Processed)
	}

	l, err := listings.Get("php_listing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := l.PegPrice.String(); got != "17.8" {
		t.Errorf("expected peg price 17.8, got %s", got)
	}
}

func TestRecalcService_CheckLeavesListingsUntouched(t *testing.T) {
	svc, listings := newTestRecalcService(t)
	listings.Create(&domain.Listing{
		ID:         "php_listing",
		Category:   "RPG",
		SellerID:   "seller_1",
		LocalPrice: decimal.RequireFromString("1000"),
		Currency:   "PHP",
		CreatedAt:  time.Now(),
	})

	metrics, err := svc.Check(context.Background(), RecalcRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Processed != 1 {
		t.Fatalf("expected 1 candidate, got %d", metrics.Processed)
	}

	l, err := listings.Get("php_listing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !l.ConvertedAt.IsZero() {
		t.Error("check must not stamp ConvertedAt")
	}
}

func TestRecalcService_ZeroLimitIsANoOp(t *testing.T) {
	svc, listings := newTestRecalcService(t)
	listings.Create(&domain.Listing{
		ID:         "php_listing",
		Category:   "RPG",
		SellerID:   "seller_1",
		LocalPrice: decimal.RequireFromString("1000"),
		Currency:   "PHP",
		CreatedAt:  time.Now(),
	})

	limit := 0
	metrics, err := svc.Run(context.Background(), RecalcRequest{Limit: &limit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Processed != 0 {
		t.Errorf("limit 0 must process nothing, processed %d", metrics.Processed)
	}
	if metrics.TotalAvailable != 1 {
		t.Errorf("expected 1 available candidate, got %d", metrics.TotalAvailable)
	}
}
