package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/service"
)

// CatalogHandler handles HTTP requests for the plain catalog reads.
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// listingResponse is the JSON shape of one listing. peg_price and
// converted_at are null until a recalculation pass has derived them;
// listings priced in the peg currency carry peg_price from creation.
type listingResponse struct {
	ListingID   string  `json:"listing_id"`
	Category    string  `json:"category"`
	SellerID    string  `json:"seller_id"`
	LocalPrice  string  `json:"local_price"`
	Currency    string  `json:"currency"`
	PegPrice    *string `json:"peg_price"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
	CreatedAt   string  `json:"created_at"`
	ConvertedAt *string `json:"converted_at"`
}

// listingListResponse is the JSON response for GET /listings.
type listingListResponse struct {
	Listings []listingResponse `json:"listings"`
	Count    int               `json:"count"`
}

// categoryResponse is one category with its listing count.
type categoryResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// categoryListResponse is the JSON response for GET /categories.
type categoryListResponse struct {
	Categories []categoryResponse `json:"categories"`
}

// strategyResponse describes one distribution strategy.
type strategyResponse struct {
	Name        string `json:"name"`
	SeedStable  bool   `json:"seed_stable"`
	Description string `json:"description"`
}

// strategyListResponse is the JSON response for GET /strategies.
type strategyListResponse struct {
	Strategies []strategyResponse `json:"strategies"`
}

func buildListingResponse(l *domain.Listing) listingResponse {
	resp := listingResponse{
		ListingID:  l.ID,
		Category:   l.Category,
		SellerID:   l.SellerID,
		LocalPrice: l.LocalPrice.String(),
		Currency:   l.Currency,
		Rating:     l.Rating,
		Stock:      l.Stock,
		CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.PegPriceKnown() {
		// local_price echoes what the seller submitted; peg_price is
		// derived, so it renders at the full money scale (17.8000).
		p := l.PegPrice.StringFixed(domain.MoneyPlaces)
		resp.PegPrice = &p
	}
	if !l.ConvertedAt.IsZero() {
		c := l.ConvertedAt.UTC().Format(time.RFC3339)
		resp.ConvertedAt = &c
	}
	return resp
}

func buildListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, len(listings))
	for i, l := range listings {
		out[i] = buildListingResponse(l)
	}
	return out
}

// GetListing handles GET /listings/{listing_id}.
func (h *CatalogHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listing_id")

	l, err := h.catalogSvc.Get(listingID)
	if err != nil {
		mapCatalogError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildListingResponse(l))
}

// ListByPriceRange handles GET /listings.
func (h *CatalogHandler) ListByPriceRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var req service.PriceRangeRequest
	if v := q.Get("min_price"); v != "" {
		d, err := domain.ParseMoney(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "min_price must be a valid non-negative decimal number")
			return
		}
		req.Min = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := domain.ParseMoney(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "max_price must be a valid non-negative decimal number")
			return
		}
		req.Max = &d
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
		if limit == 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be >= 1, got 0")
			return
		}
		req.Limit = limit
	}

	listings, err := h.catalogSvc.PriceRange(r.Context(), req)
	if err != nil {
		mapCatalogError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, listingListResponse{
		Listings: buildListingResponses(listings),
		Count:    len(listings),
	})
}

// Categories handles GET /categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.catalogSvc.Categories(r.Context())
	if err != nil {
		mapCatalogError(w, err)
		return
	}

	out := make([]categoryResponse, len(counts))
	for i, c := range counts {
		out[i] = categoryResponse{Category: c.Category, Count: c.Count}
	}
	WriteJSON(w, http.StatusOK, categoryListResponse{Categories: out})
}

// Strategies handles GET /strategies.
func (h *CatalogHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	infos := h.catalogSvc.Strategies()

	out := make([]strategyResponse, len(infos))
	for i, info := range infos {
		out[i] = strategyResponse{
			Name:        info.Name,
			SeedStable:  info.SeedStable,
			Description: info.Description,
		}
	}
	WriteJSON(w, http.StatusOK, strategyListResponse{Strategies: out})
}

// mapCatalogError maps service errors to HTTP responses for catalog
// endpoints.
func mapCatalogError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		WriteError(w, http.StatusNotFound, "listing_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
