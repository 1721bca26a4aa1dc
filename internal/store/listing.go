package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
)

// priceEntry is one row of the peg-price index: peg price ascending, then
// listing ID ascending so equal prices still have a total order.
type priceEntry struct {
	price   decimal.Decimal
	id      string
	listing *domain.Listing
}

func priceLess(a, b priceEntry) bool {
	if cmp := a.price.Cmp(b.price); cmp != 0 {
		return cmp < 0
	}
	return a.id < b.id
}

// ListingStore is a thread-safe in-memory document store for listings with
// a primary index by ID, a secondary index by category, and a B-tree index
// over the derived peg price. The peg-price index is what keeps
// cross-currency range queries and sorts cheap: every indexed listing is
// comparable in the single peg currency regardless of how it was priced.
//
// Listings are treated as immutable once stored; every update replaces the
// stored value rather than mutating it in place, so values handed out to
// readers never change under them.
type ListingStore struct {
	mu         sync.RWMutex
	listings   map[string]*domain.Listing            // id → listing
	byCategory map[string]map[string]*domain.Listing // category → id → listing
	prices     *btree.BTreeG[priceEntry]             // peg price ascending
	priceByID  map[string]priceEntry                 // id → current index entry
}

// NewListingStore creates an empty ListingStore.
func NewListingStore() *ListingStore {
	const degree = 32
	return &ListingStore{
		listings:   make(map[string]*domain.Listing),
		byCategory: make(map[string]map[string]*domain.Listing),
		prices:     btree.NewG[priceEntry](degree, priceLess),
		priceByID:  make(map[string]priceEntry),
	}
}

// Create adds a listing to all indexes. The caller supplies a unique ID;
// an existing listing with the same ID is replaced. The stored value must
// not be mutated by the caller afterwards.
func (s *ListingStore) Create(l *domain.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.listings[l.ID]; ok {
		s.removeLocked(old)
	}
	s.insertLocked(l)
}

// insertLocked adds l to every index. Caller holds the write lock.
func (s *ListingStore) insertLocked(l *domain.Listing) {
	s.listings[l.ID] = l

	cat := s.byCategory[l.Category]
	if cat == nil {
		cat = make(map[string]*domain.Listing)
		s.byCategory[l.Category] = cat
	}
	cat[l.ID] = l

	// Listings without a meaningful peg price stay out of the price index.
	if l.PegPriceKnown() {
		entry := priceEntry{price: l.PegPrice, id: l.ID, listing: l}
		s.prices.ReplaceOrInsert(entry)
		s.priceByID[l.ID] = entry
	}
}

// removeLocked deletes l from every index. Caller holds the write lock.
func (s *ListingStore) removeLocked(l *domain.Listing) {
	delete(s.listings, l.ID)
	if cat, ok := s.byCategory[l.Category]; ok {
		delete(cat, l.ID)
		if len(cat) == 0 {
			delete(s.byCategory, l.Category)
		}
	}
	if entry, ok := s.priceByID[l.ID]; ok {
		s.prices.Delete(entry)
		delete(s.priceByID, l.ID)
	}
}

// Get retrieves a listing by ID. Returns domain.ErrListingNotFound if the
// listing does not exist.
func (s *ListingStore) Get(id string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return l, nil
}

// Len returns the total number of stored listings.
func (s *ListingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

// FindByCategory returns all listings in a category with no ordering
// guarantee. Returns an empty slice for an unknown category.
func (s *ListingStore) FindByCategory(ctx context.Context, category string) ([]*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cat := s.byCategory[category]
	result := make([]*domain.Listing, 0, len(cat))
	for _, l := range cat {
		result = append(result, l)
	}
	return result, nil
}

// CountByCategory returns the number of listings in a category. This is
// the independent full count pagination metadata is built from.
func (s *ListingStore) CountByCategory(ctx context.Context, category string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCategory[category]), nil
}

// GroupBySeller returns the category's listings grouped by seller, groups
// ordered by seller ID ascending. Listings within a group carry no
// ordering guarantee.
func (s *ListingStore) GroupBySeller(ctx context.Context, category string) ([]domain.SellerGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	grouped := make(map[string][]*domain.Listing)
	for _, l := range s.byCategory[category] {
		grouped[l.SellerID] = append(grouped[l.SellerID], l)
	}

	sellers := make([]string, 0, len(grouped))
	for id := range grouped {
		sellers = append(sellers, id)
	}
	sort.Strings(sellers)

	groups := make([]domain.SellerGroup, 0, len(sellers))
	for _, id := range sellers {
		groups = append(groups, domain.SellerGroup{SellerID: id, Listings: grouped[id]})
	}
	return groups, nil
}

// Categories returns every category with its listing count, sorted by
// category name.
func (s *ListingStore) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make([]domain.CategoryCount, 0, len(s.byCategory))
	for name, cat := range s.byCategory {
		counts = append(counts, domain.CategoryCount{Category: name, Count: len(cat)})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Category < counts[j].Category })
	return counts, nil
}

// FindForRecalc selects every listing priced in a currency other than
// pegCurrency, optionally narrowed to those whose peg price was derived
// before olderThan. A zero ConvertedAt always qualifies — a listing that
// was never converted is maximally stale. No ordering guarantee.
func (s *ListingStore) FindForRecalc(ctx context.Context, pegCurrency string, olderThan *time.Time) ([]*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Listing
	for _, l := range s.listings {
		if l.Currency == pegCurrency {
			continue
		}
		if olderThan != nil && !l.ConvertedAt.Before(*olderThan) {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

// SetPegPrice replaces a listing's peg price and conversion timestamp,
// refreshing the price index. The stored listing value is replaced, not
// mutated, so concurrent readers keep a consistent (possibly stale) view.
func (s *ListingStore) SetPegPrice(ctx context.Context, id string, pegPrice decimal.Decimal, convertedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}

	updated := *old
	updated.PegPrice = pegPrice
	updated.ConvertedAt = convertedAt

	s.removeLocked(old)
	s.insertLocked(&updated)
	return nil
}

// FindByPegPriceRange walks the peg-price index ascending and returns
// listings with min ≤ pegPrice ≤ max. Nil bounds are open; limit ≤ 0
// means no cap. Listings without a derived peg price are not in the index
// and never appear.
func (s *ListingStore) FindByPegPriceRange(ctx context.Context, min, max *decimal.Decimal, limit int) ([]*domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Listing
	walk := func(entry priceEntry) bool {
		if max != nil && entry.price.GreaterThan(*max) {
			return false
		}
		result = append(result, entry.listing)
		return limit <= 0 || len(result) < limit
	}

	if min != nil {
		s.prices.AscendGreaterOrEqual(priceEntry{price: *min}, walk)
	} else {
		s.prices.Ascend(walk)
	}
	return result, nil
}
