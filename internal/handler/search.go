package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/service"
)

// SearchHandler handles HTTP requests for the distributed catalog search.
type SearchHandler struct {
	searchSvc *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchSvc *service.SearchService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc}
}

// searchResponse is the JSON response for GET /listings/search. seed is
// null for strategies whose ordering is not reproducible.
type searchResponse struct {
	Listings   []listingResponse  `json:"listings"`
	Pagination paginationResponse `json:"pagination"`
	Strategy   string             `json:"strategy"`
	Seed       *int64             `json:"seed"`
}

// paginationResponse mirrors the engine's pagination metadata.
type paginationResponse struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Search handles GET /listings/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := service.SearchRequest{
		Category: q.Get("category"),
		Strategy: q.Get("strategy"),
		Page:     1,
	}

	if p := q.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a valid integer")
			return
		}
		req.Page = page
	}
	if ps := q.Get("page_size"); ps != "" {
		pageSize, err := strconv.Atoi(ps)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page_size must be a valid integer")
			return
		}
		// An explicit zero is not "use the default"; reject it here
		// because the service cannot tell it apart from an absent value.
		if pageSize == 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "page_size must be >= 1, got 0")
			return
		}
		req.PageSize = pageSize
	}
	if s := q.Get("seed"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "seed must be a valid integer")
			return
		}
		req.Seed = &seed
	}
	if m := q.Get("max_per_seller"); m != "" {
		maxPerSeller, err := strconv.Atoi(m)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "max_per_seller must be a valid integer")
			return
		}
		req.MaxPerSeller = &maxPerSeller
	}

	res, err := h.searchSvc.Search(r.Context(), req)
	if err != nil {
		mapSearchError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, searchResponse{
		Listings: buildListingResponses(res.Listings),
		Pagination: paginationResponse{
			Page:       res.Pagination.Page,
			PageSize:   res.Pagination.PageSize,
			TotalCount: res.Pagination.TotalCount,
			TotalPages: res.Pagination.TotalPages,
			HasNext:    res.Pagination.HasNext,
			HasPrev:    res.Pagination.HasPrev,
		},
		Strategy: res.Strategy,
		Seed:     res.Seed,
	})
}

// mapSearchError maps service errors to HTTP responses for search
// endpoints.
func mapSearchError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
