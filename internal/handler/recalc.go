package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/marketfair/catalog/internal/domain"
	"github.com/marketfair/catalog/internal/fx"
	"github.com/marketfair/catalog/internal/service"
)

// RecalcHandler handles HTTP requests for peg price recalculation.
type RecalcHandler struct {
	recalcSvc *service.RecalcService
}

// NewRecalcHandler creates a new RecalcHandler.
func NewRecalcHandler(recalcSvc *service.RecalcService) *RecalcHandler {
	return &RecalcHandler{recalcSvc: recalcSvc}
}

// recalcRequest is the JSON request body for POST /recalc and POST
// /recalc/check. Both fields are optional; an empty object selects every
// convertible listing.
type recalcRequest struct {
	OlderThan *string `json:"older_than"`
	Limit     *int    `json:"limit"`
}

// recalcResponse reports what one pass did (or, for check, would do).
type recalcResponse struct {
	TotalAvailable   int     `json:"total_available"`
	Processed        int     `json:"processed"`
	ElapsedMs        int64   `json:"elapsed_ms"`
	RecordsPerSecond float64 `json:"records_per_second"`
}

// parseRecalcRequest decodes and validates the request body, writing the
// error response itself when the body is unusable.
func parseRecalcRequest(w http.ResponseWriter, r *http.Request) (service.RecalcRequest, bool) {
	var body recalcRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return service.RecalcRequest{}, false
	}

	req := service.RecalcRequest{Limit: body.Limit}
	if body.OlderThan != nil {
		t, err := time.Parse(time.RFC3339, *body.OlderThan)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "older_than must be a valid RFC 3339 timestamp")
			return service.RecalcRequest{}, false
		}
		req.OlderThan = &t
	}
	return req, true
}

// Run handles POST /recalc.
func (h *RecalcHandler) Run(w http.ResponseWriter, r *http.Request) {
	req, ok := parseRecalcRequest(w, r)
	if !ok {
		return
	}

	metrics, err := h.recalcSvc.Run(r.Context(), req)
	if err != nil {
		mapRecalcError(w, err)
		return
	}

	writeRecalcMetrics(w, metrics)
}

// Check handles POST /recalc/check.
func (h *RecalcHandler) Check(w http.ResponseWriter, r *http.Request) {
	req, ok := parseRecalcRequest(w, r)
	if !ok {
		return
	}

	metrics, err := h.recalcSvc.Check(r.Context(), req)
	if err != nil {
		mapRecalcError(w, err)
		return
	}

	writeRecalcMetrics(w, metrics)
}

func writeRecalcMetrics(w http.ResponseWriter, m *fx.RecalcMetrics) {
	WriteJSON(w, http.StatusOK, recalcResponse{
		TotalAvailable:   m.TotalAvailable,
		Processed:        m.Processed,
		ElapsedMs:        m.ElapsedMs,
		RecordsPerSecond: m.RecordsPerSecond,
	})
}

// mapRecalcError maps service errors to HTTP responses for
// recalculation endpoints. A missing exchange rate is a conflict with
// the system's rate state rather than a defect in the request.
func mapRecalcError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	var rateErr *fx.RateNotFoundError
	if errors.As(err, &rateErr) {
		WriteError(w, http.StatusConflict, "rate_not_found", rateErr.Error())
		return
	}

	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
