package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/service"
)

// RatesHandler handles HTTP requests for exchange rate endpoints.
type RatesHandler struct {
	rateSvc *service.RateService
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rateSvc *service.RateService) *RatesHandler {
	return &RatesHandler{rateSvc: rateSvc}
}

// rateInput is one rate row in the setup request body. Rate accepts a
// JSON string or number; strings keep the value exact.
type rateInput struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

// setupRatesRequest is the JSON request body for POST /rates/setup. An
// empty or absent rates array installs the default bootstrap table.
type setupRatesRequest struct {
	Rates []rateInput `json:"rates"`
}

// updateRatesRequest is the JSON request body for POST /rates/update.
type updateRatesRequest struct {
	MaxDriftPct float64  `json:"max_drift_pct"`
	Currencies  []string `json:"currencies"`
}

// rateResponse is one rate row in responses.
type rateResponse struct {
	Currency    string `json:"currency"`
	Rate        string `json:"rate"`
	LastUpdated string `json:"last_updated"`
}

// rateListResponse is the JSON response for every rate endpoint.
type rateListResponse struct {
	Rates []rateResponse `json:"rates"`
}

func buildRateResponses(rates []domain.ExchangeRate) rateListResponse {
	out := make([]rateResponse, len(rates))
	for i, r := range rates {
		out[i] = rateResponse{
			Currency:    r.Currency,
			Rate:        r.Rate.String(),
			LastUpdated: r.LastUpdated.UTC().Format(time.RFC3339),
		}
	}
	return rateListResponse{Rates: out}
}

// List handles GET /rates.
func (h *RatesHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateSvc.List(r.Context())
	if err != nil {
		mapRateError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildRateResponses(rates))
}

// Setup handles POST /rates/setup.
func (h *RatesHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupRatesRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	inputs := make([]service.RateInput, len(req.Rates))
	for i, in := range req.Rates {
		inputs[i] = service.RateInput{Currency: in.Currency, Rate: in.Rate}
	}

	rates, err := h.rateSvc.Setup(r.Context(), inputs)
	if err != nil {
		mapRateError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildRateResponses(rates))
}

// Update handles POST /rates/update.
func (h *RatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRatesRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rates, err := h.rateSvc.Update(r.Context(), service.FluctuationPolicy{
		MaxDriftPct: req.MaxDriftPct,
		Currencies:  req.Currencies,
	})
	if err != nil {
		mapRateError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildRateResponses(rates))
}

// mapRateError maps service errors to HTTP responses for rate endpoints.
// Unsupported currencies are request-validation failures; the service
// rejects them before touching the store.
func mapRateError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
