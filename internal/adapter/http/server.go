package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/njstats/internal/domain"
	"github.com/couchcryptid/njstats/internal/observability"
	"github.com/couchcryptid/njstats/internal/report"
)

// Reports answers the reporting routes.
type Reports interface {
	Counties(ctx context.Context) ([][]string, error)
	StateIncome(ctx context.Context) ([]domain.IncomeRecord, error)
	CountyIncome(ctx context.Context, county string) ([]domain.IncomeRecord, error)
	CountySchools(ctx context.Context, county string) ([]report.SchoolCountyReport, error)
	StateSchools(ctx context.Context) ([]domain.CountySATTotal, error)
	CountyHospitals(ctx context.Context, county string) (report.HospitalCountyReport, error)
	StateHospitals(ctx context.Context) ([]domain.CountyRatingAverage, error)
}

// Assets are static documents served as-is. A nil Index disables "/".
type Assets struct {
	CountyLocations []byte
	Index           []byte
}

// Server exposes the reporting API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	reports    Reports
	assets     Assets
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the reporting routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, reports Reports, assets Assets, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		assets:  assets,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.route(mux, "GET /counties", s.handleCounties)
	s.route(mux, "GET /counties/location", s.handleCountyLocations)
	s.route(mux, "GET /income/state", s.handleStateIncome)
	s.route(mux, "GET /income/counties/{county}", s.handleCountyIncome)
	s.route(mux, "GET /school/state", s.handleStateSchools)
	s.route(mux, "GET /school/counties/{county}", s.handleCountySchools)
	s.route(mux, "GET /hospital/state", s.handleStateHospitals)
	s.route(mux, "GET /hospital/counties/{county}", s.handleCountyHospitals)
	s.route(mux, "GET /{$}", s.handleIndex)

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

// route registers h under pattern and records its latency and status.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.metrics.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	v, err := s.reports.Counties(r.Context())
	s.respond(w, r, v, err)
}

func (s *Server) handleStateIncome(w http.ResponseWriter, r *http.Request) {
	v, err := s.reports.StateIncome(r.Context())
	s.respond(w, r, v, err)
}

func (s *Server) handleCountyIncome(w http.ResponseWriter, r *http.Request) {
	v, err := s.reports.CountyIncome(r.Context(), r.PathValue("county"))
	s.respond(w, r, v, err)
}

func (s *Server) handleStateSchools(w http.ResponseWriter, r *http.Request) {
	v, err := s.reports.StateSchools(r.Context())
	s.respond(w, r, v, err)
}

func (s *Server) handleCountySchools(w http.ResponseWriter, r *http.Request) {
	v, err := s.reports.CountySchools(r.Context(), r.PathValue("county"))
	s.respond(w, r, v, err)
}

func (s *Server) handleStateHospitals(w http.ResponseWriter, r *http.Request) {
	v, err := s.reports.StateHospitals(r.Context())
	s.respond(w, r, v, err)
}

func (s *Server) handleCountyHospitals(w http.ResponseWriter, r *http.Request) {
	v, err := s.reports.CountyHospitals(r.Context(), r.PathValue("county"))
	s.respond(w, r, v, err)
}

func (s *Server) handleCountyLocations(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.assets.CountyLocations)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.assets.Index == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.assets.Index)
}

// respond writes v as JSON, or a 500 carrying err's message.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.logger.Error("report failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
