// Package http exposes the dashboard pages, the statistics and prediction
// JSON API, and the operational endpoints.
package http

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/denguelab/dengue-dashboard/internal/dataset"
	"github.com/denguelab/dengue-dashboard/internal/domain"
	"github.com/denguelab/dengue-dashboard/internal/model"
	"github.com/denguelab/dengue-dashboard/internal/observability"
	"github.com/denguelab/dengue-dashboard/internal/predict"
)

// Predictor scores symptom inputs and reports model metadata.
type Predictor interface {
	Predict(ctx context.Context, in domain.SymptomInput) (predict.Result, error)
	ModelInfo() (model.Info, error)
	Available() bool
}

// Server serves the dashboard pages and the JSON API. The dataset and
// predictor may be degraded (empty dataset, nil model); affected routes
// answer 500 and everything else keeps working.
type Server struct {
	httpServer *http.Server
	data       *dataset.Dataset
	predictor  Predictor
	logger     *slog.Logger
	metrics    *observability.Metrics
	templates  *template.Template
}

// NewServer wires all routes onto a fresh mux.
func NewServer(addr string, data *dataset.Dataset, predictor Predictor, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:      data,
		predictor: predictor,
		logger:    logger,
		metrics:   metrics,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.page("index.html"))
	mux.HandleFunc("GET /dashboard", s.page("dashboard.html"))
	mux.HandleFunc("GET /analise", s.page("analise.html"))
	mux.HandleFunc("GET /modelo", s.page("modelo.html"))
	mux.HandleFunc("GET /teste", s.page("teste.html"))

	mux.HandleFunc("GET /api/data/summary", s.instrument("/api/data/summary", s.handleSummary))
	mux.HandleFunc("GET /api/data/casos_por_ano", s.instrument("/api/data/casos_por_ano", s.handleCasesByYear))
	mux.HandleFunc("GET /api/data/casos_por_mes", s.instrument("/api/data/casos_por_mes", s.handleCasesByMonth))
	mux.HandleFunc("GET /api/data/distribuicao_sexo", s.instrument("/api/data/distribuicao_sexo", s.handleSexDistribution))
	mux.HandleFunc("GET /api/data/distribuicao_raca", s.instrument("/api/data/distribuicao_raca", s.handleRaceDistribution))
	mux.HandleFunc("GET /api/data/fenomeno_climatico", s.instrument("/api/data/fenomeno_climatico", s.handlePhenomenonDistribution))
	mux.HandleFunc("GET /api/data/hospitalizacao_por_idade", s.instrument("/api/data/hospitalizacao_por_idade", s.handleAgeHospitalization))
	mux.HandleFunc("POST /api/data/filtered", s.instrument("/api/data/filtered", s.handleFiltered))
	mux.HandleFunc("POST /api/predict", s.instrument("/api/predict", s.handlePredict))
	mux.HandleFunc("GET /api/model/info", s.instrument("/api/model/info", s.handleModelInfo))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the case dataset is in memory. A missing
// model degrades only the prediction routes, so it does not fail readiness;
// the body still flags it for operators.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.data.Size() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "case dataset not loaded",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"model":  strconv.FormatBool(s.predictor.Available()),
	})
}

func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.templates.ExecuteTemplate(w, name, nil); err != nil {
			s.logger.Error("render page", "template", name, "error", err)
		}
	}
}

// instrument counts requests per route and response status.
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
