// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/contact"
	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/ephemeris"
	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/timezone"
	"github.com/sophie623/birth-chart-generator/internal/domain/assemble"
	"github.com/sophie623/birth-chart-generator/internal/domain/geocode"
	"github.com/sophie623/birth-chart-generator/internal/domain/model"
)

// ChartHandler handles placement computation requests.
type ChartHandler struct {
	deps Dependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// chartRequest mirrors the POST /v1/chart body.
type chartRequest struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	Birthplace string `json:"birthplace"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
}

// HandleComputeChart handles POST /v1/chart requests.
func (h *ChartHandler) HandleComputeChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.compute_chart"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	birth := model.BirthEvent{
		Year:        req.Year,
		Month:       req.Month,
		Day:         req.Day,
		Hour:        req.Hour,
		Minute:      req.Minute,
		Place:       req.Birthplace,
		Email:       req.Email,
		DisplayName: req.Name,
	}

	result, err := h.deps.ComputePlacements(r.Context(), birth)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps pipeline error kinds to HTTP status codes and wire codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, geocode.ErrPlaceNotFound):
		return http.StatusNotFound, "place_not_found"
	case errors.Is(err, timezone.ErrUnresolved):
		return http.StatusBadGateway, "timezone_unresolved"
	case errors.Is(err, ephemeris.ErrProvider):
		return http.StatusBadGateway, "ephemeris_provider_error"
	case errors.Is(err, assemble.ErrIncompleteEphemeris):
		return http.StatusBadGateway, "incomplete_ephemeris_data"
	case errors.Is(err, assemble.ErrIncompletePlacements):
		return http.StatusBadGateway, "incomplete_placements"
	case errors.Is(err, contact.ErrService):
		return http.StatusBadGateway, "notification_service_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
