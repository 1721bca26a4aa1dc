package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents a single marketplace offer within a category.
//
// Prices are carried twice: LocalPrice in the currency the seller priced
// the listing in, and PegPrice in the peg currency (USD), derived as
// LocalPrice × rate. PegPrice is what range queries and cross-currency
// sorts operate on. It is recomputed by the bulk recalculation pass and
// may be stale between a rate change and the next pass; ConvertedAt
// records when it was last derived so staleness is always observable.
type Listing struct {
	ID          string
	Category    string
	SellerID    string
	LocalPrice  decimal.Decimal
	Currency    string
	PegPrice    decimal.Decimal
	Rating      float64 // 0.0–5.0
	Stock       int
	CreatedAt   time.Time
	ConvertedAt time.Time // zero value: peg price never derived
}

// PegPriceKnown reports whether PegPrice holds a meaningful value: either
// a conversion pass derived it, or the listing was priced in the peg
// currency to begin with.
func (l *Listing) PegPriceKnown() bool {
	return !l.ConvertedAt.IsZero() || l.Currency == PegCurrency
}

// SellerGroup is one seller's listings within a category, as returned by
// the store's group-by-seller aggregation. The listings carry no ordering
// guarantee; strategies sort groups to their own needs.
type SellerGroup struct {
	SellerID string
	Listings []*Listing
}

// CategoryCount pairs a category name with its listing count.
type CategoryCount struct {
	Category string
	Count    int
}
