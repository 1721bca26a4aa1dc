package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/marketfair/catalog/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware.
func NewRouter(
	catalogSvc *service.CatalogService,
	searchSvc *service.SearchService,
	rateSvc *service.RateService,
	recalcSvc *service.RecalcService,
	logger zerolog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	catalogH := NewCatalogHandler(catalogSvc)
	searchH := NewSearchHandler(searchSvc)
	ratesH := NewRatesHandler(rateSvc)
	recalcH := NewRecalcHandler(recalcSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Listing routes. The static /listings/search segment must be
	// registered alongside the {listing_id} wildcard; chi matches static
	// segments first.
	r.Get("/listings", catalogH.ListByPriceRange)
	r.Get("/listings/search", searchH.Search)
	r.Get("/listings/{listing_id}", catalogH.GetListing)

	// Catalog metadata routes.
	r.Get("/categories", catalogH.Categories)
	r.Get("/strategies", catalogH.Strategies)

	// Exchange rate routes.
	r.Get("/rates", ratesH.List)
	r.Post("/rates/setup", ratesH.Setup)
	r.Post("/rates/update", ratesH.Update)

	// Recalculation routes.
	r.Post("/recalc", recalcH.Run)
	r.Post("/recalc/check", recalcH.Check)

	return r
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration.
func requestLogging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON validates Content-Type for POST, PUT, and PATCH
// requests before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
