package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestWeightedRandom_FewOfferSellerOutranksWithEqualDraws(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	// seller_many holds nine listings (boost 100/10 = 10), seller_few one
	// (boost 100/2 = 50). With every draw pinned to 0.5 the boost alone
	// decides the order.
	for i := 0; i < 9; i++ {
		src.listings = append(src.listings,
			mkListing(fmt.Sprintf("many_%d", i), "RPG", "seller_many_001", 5.0, created))
	}
	src.listings = append(src.listings, mkListing("few_0", "RPG", "seller_few_002", 1.0, created))

	w := NewWeightedRandom(scriptedDraw(0.5))
	res, err := w.Distribute(context.Background(), src, Request{Category: "RPG", Page: 1, PageSize: 10}, 0)
	if err != nil {
		t.Fatalf("Distribute() error = %v, want nil", err)
	}

	if res.Listings[0].ID != "few_0" {
		t.Errorf("first listing = %q, want the under-represented seller's few_0", res.Listings[0].ID)
	}
}

func TestWeightedRandom_OrderFollowsDraws(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	// One seller, so every listing gets the same boost (100/4 = 25) and
	// the scripted draws alone decide the order. Draws are consumed in
	// candidate order: l1→0.1, l2→0.9, l3→0.5.
	src.listings = append(src.listings,
		mkListing("l1", "RPG", "seller_1", 4.0, created),
		mkListing("l2", "RPG", "seller_1", 4.0, created),
		mkListing("l3", "RPG", "seller_1", 4.0, created),
	)

	w := NewWeightedRandom(scriptedDraw(0.1, 0.9, 0.5))
	res, err := w.Distribute(context.Background(), src, Request{Category: "RPG", Page: 1, PageSize: 10}, 0)
	if err != nil {
		t.Fatalf("Distribute() error = %v, want nil", err)
	}

	want := []string{"l2", "l3", "l1"} // scores 115, 75, 35
	got := listingIDs(res.Listings)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWeightedRandom_RepeatedCallsMayReorder(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	for i := 0; i < 8; i++ {
		src.listings = append(src.listings,
			mkListing(fmt.Sprintf("l%d", i), "RPG", fmt.Sprintf("seller_%d", i+1), 4.0, created))
	}

	// The contract is non-determinism: distinct calls are not required to
	// agree. With the non-seeded source, 20 runs over 8 listings
	// producing a single ordering would mean the draw is not feeding the
	// scores at all.
	w := NewWeightedRandom(nil)
	req := Request{Category: "RPG", Page: 1, PageSize: 8}

	orderings := make(map[string]bool)
	for trial := 0; trial < 20; trial++ {
		res, err := w.Distribute(context.Background(), src, req, 0)
		if err != nil {
			t.Fatalf("Distribute() error = %v, want nil", err)
		}
		if len(res.Listings) != 8 {
			t.Fatalf("trial %d returned %d listings, want 8", trial, len(res.Listings))
		}
		orderings[strings.Join(listingIDs(res.Listings), ",")] = true
	}

	if len(orderings) < 2 {
		t.Errorf("20 trials produced %d distinct orderings, want at least 2", len(orderings))
	}
}

func TestWeightedRandom_SeedNilAndIndependentCount(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fullCount := 30
	src := &fakeSource{countOverride: &fullCount}
	for i := 0; i < 6; i++ {
		src.listings = append(src.listings,
			mkListing(fmt.Sprintf("l%d", i), "RPG", "seller_1", 4.0, created))
	}

	w := NewWeightedRandom(scriptedDraw(0.5))
	res, err := w.Distribute(context.Background(), src, Request{Category: "RPG", Page: 1, PageSize: 6}, 99)
	if err != nil {
		t.Fatalf("Distribute() error = %v, want nil", err)
	}

	if res.Seed != nil {
		t.Errorf("Seed = %v, want nil for an unseeded strategy", *res.Seed)
	}
	if res.Strategy != StrategyWeightedRandom {
		t.Errorf("Strategy = %q, want %q", res.Strategy, StrategyWeightedRandom)
	}
	if res.Pagination.TotalCount != 30 {
		t.Errorf("TotalCount = %d, want 30 (the independent count)", res.Pagination.TotalCount)
	}
}

func TestWeightedRandom_EmptyCategory(t *testing.T) {
	w := NewWeightedRandom(nil)
	res, err := w.Distribute(context.Background(), &fakeSource{}, Request{Category: "RPG", Page: 1, PageSize: 10}, 0)
	if err != nil {
		t.Fatalf("Distribute() error = %v, want nil", err)
	}
	if len(res.Listings) != 0 || res.Pagination.TotalCount != 0 {
		t.Errorf("got %d listings, total %d; want empty page",
			len(res.Listings), res.Pagination.TotalCount)
	}
}
