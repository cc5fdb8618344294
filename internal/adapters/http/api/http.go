// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sophie623/birth-chart-generator/internal/domain/model"
	"github.com/sophie623/birth-chart-generator/pkg/metrics"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the pipeline implementation.
type Dependencies interface {
	ComputePlacements(ctx context.Context, birth model.BirthEvent) (model.PlacementResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	chartHandler  *ChartHandler
	healthHandler *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		chartHandler:  NewChartHandler(deps),
		healthHandler: NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/v1/chart", RequestIDMiddleware(MetricsMiddleware(s.chartHandler.HandleComputeChart, "chart")))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
