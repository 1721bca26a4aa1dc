// Package sample generates plausible listings for development seeding.
// It never runs on the serving path; cmd/catalog invokes it behind the
// -seed flag, and handler tests use it for realistic fixtures.
package sample

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/store"
)

// Categories is the fixed taxonomy generated listings are spread across.
var Categories = []string{"RPG", "FPS", "MMO", "Strategy", "Indie", "Sports"}

// sellerPoolSize bounds the seller identifiers to seller_1..seller_8 so
// that every category ends up with repeat sellers, which is what the
// fairness strategies need to show any effect. The identifiers carry a
// numeric suffix and are at least 8 characters long, so the default
// affinity function resolves them to distinct keys.
const sellerPoolSize = 8

// priceBand is a plausible storefront price range for one currency,
// expressed in minor units at the currency's customary precision.
type priceBand struct {
	min, max int64
	exp      int32 // decimal exponent; 0 for currencies quoted in whole units
}

var priceBands = map[string]priceBand{
	"USD": {499, 7999, -2},
	"EUR": {499, 7499, -2},
	"GBP": {399, 6499, -2},
	"AUD": {749, 11999, -2},
	"SGD": {699, 10999, -2},
	"PHP": {24900, 449900, -2},
	"JPY": {600, 12000, 0},
	"KRW": {6500, 130000, 0},
}

// createdAtSpreadHours is how far back generated listings are dated, so
// recency tie-breaks in the strategies operate on varied timestamps.
const createdAtSpreadHours = 30 * 24

// Generator produces random listings from a seeded source, so two
// generators built with the same seed and clock emit identical catalogs,
// listing IDs included. That keeps seeded dev environments reproducible
// across restarts.
type Generator struct {
	rng        *rand.Rand
	now        func() time.Time
	currencies []string
}

// rngReader adapts the seeded source to io.Reader so listing IDs come from
// the same deterministic stream as every other generated field.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint64())
	}
	return len(p), nil
}

// NewGenerator creates a Generator whose randomness derives entirely from
// seed. A nil now defaults to time.Now.
func NewGenerator(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		rng:        rand.New(rand.NewPCG(seed, seed)),
		now:        now,
		currencies: domain.SupportedCurrencies(),
	}
}

// Listing generates one listing in the given category: a random seller
// from the pool, a random supported currency, and a price drawn from that
// currency's band. A listing priced in the peg currency is its own peg
// price; other currencies stay unconverted until a recalculation pass runs.
func (g *Generator) Listing(category string) *domain.Listing {
	currency := g.currencies[g.rng.IntN(len(g.currencies))]
	band := priceBands[currency]
	price := decimal.New(band.min+g.rng.Int64N(band.max-band.min+1), band.exp)

	l := &domain.Listing{
		ID:         uuid.Must(uuid.NewRandomFromReader(rngReader{g.rng})).String(),
		Category:   category,
		SellerID:   fmt.Sprintf("seller_%d", 1+g.rng.IntN(sellerPoolSize)),
		LocalPrice: price,
		Currency:   currency,
		Rating:     float64(g.rng.IntN(51)) / 10,
		Stock:      g.rng.IntN(100),
		CreatedAt:  g.now().Add(-time.Duration(g.rng.IntN(createdAtSpreadHours)) * time.Hour),
	}
	if currency == domain.PegCurrency {
		l.PegPrice = price
	}
	return l
}

// Listings generates perCategory listings for every category in
// Categories, in category order.
func (g *Generator) Listings(perCategory int) []*domain.Listing {
	out := make([]*domain.Listing, 0, perCategory*len(Categories))
	for _, cat := range Categories {
		for i := 0; i < perCategory; i++ {
			out = append(out, g.Listing(cat))
		}
	}
	return out
}

// Populate generates perCategory listings per category directly into st
// and returns how many were stored.
func (g *Generator) Populate(st *store.ListingStore, perCategory int) int {
	listings := g.Listings(perCategory)
	for _, l := range listings {
		st.Create(l)
	}
	return len(listings)
}
