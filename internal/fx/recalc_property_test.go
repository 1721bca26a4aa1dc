package fx

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/marketfair/catalog/internal/store"
)

// Property: Check and an immediate Recalculate with the same arguments
// agree on TotalAvailable and Processed for any mix of currencies,
// conversion ages, and filters — the preview is trustworthy.
func TestProperty_CheckRecalculateSymmetry(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	currencies := []string{"USD", "PHP", "EUR", "JPY"}

	rapid.Check(t, func(t *rapid.T) {
		listings := store.NewListingStore()
		n := rapid.IntRange(0, 30).Draw(t, "numListings")
		for i := 0; i < n; i++ {
			currency := rapid.SampledFrom(currencies).Draw(t, fmt.Sprintf("currency-%d", i))
			var convertedAt time.Time
			if rapid.Bool().Draw(t, fmt.Sprintf("converted-%d", i)) {
				hours := rapid.IntRange(-48, 48).Draw(t, fmt.Sprintf("age-%d", i))
				convertedAt = base.Add(time.Duration(hours) * time.Hour)
			}
			listings.Create(seedListing(fmt.Sprintf("l%d", i), currency, "100", convertedAt))
		}

		var olderThan *time.Time
		if rapid.Bool().Draw(t, "useOlderThan") {
			hours := rapid.IntRange(-48, 48).Draw(t, "cutoffHours")
			cutoff := base.Add(time.Duration(hours) * time.Hour)
			olderThan = &cutoff
		}
		var limit *int
		if rapid.Bool().Draw(t, "useLimit") {
			l := rapid.IntRange(0, 40).Draw(t, "limit")
			limit = &l
		}

		clock := newStepClock(base, time.Millisecond)
		r := testRecalculator(listings, clock,
			rate("PHP", "0.0178"), rate("EUR", "1.09"), rate("JPY", "0.0067"))

		preview, err := r.Check(context.Background(), olderThan, limit)
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		executed, err := r.Recalculate(context.Background(), olderThan, limit)
		if err != nil {
			t.Fatalf("Recalculate() error = %v", err)
		}

		if preview.TotalAvailable != executed.TotalAvailable {
			t.Fatalf("TotalAvailable: preview %d, executed %d",
				preview.TotalAvailable, executed.TotalAvailable)
		}
		if preview.Processed != executed.Processed {
			t.Fatalf("Processed: preview %d, executed %d",
				preview.Processed, executed.Processed)
		}
		if preview.Processed > preview.TotalAvailable {
			t.Fatalf("Processed %d exceeds TotalAvailable %d",
				preview.Processed, preview.TotalAvailable)
		}
	})
}
