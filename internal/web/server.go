// Package web serves the bill tracker's HTML pages.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/middleware"
	"github.com/mmynk/billtracker/internal/service"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires handlers to the service, session and rendering layers.
type Server struct {
	bills    *service.BillService
	sessions *auth.SessionManager
	db       Pinger
	views    *renderer
	static   fs.FS
	logger   *slog.Logger
	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
}

// New creates a Server. db backs /healthz. HTTP metrics are registered with
// registry and exposed at /metrics.
func New(bills *service.BillService, sessions *auth.SessionManager, db Pinger, logger *slog.Logger, registry *prometheus.Registry) (*Server, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &Server{
		bills:    bills,
		sessions: sessions,
		db:       db,
		views:    views,
		static:   static,
		logger:   logger,
		metrics:  middleware.NewMetrics(registry),
		gatherer: registry,
	}, nil
}

// Handler returns the root handler with every route registered and request
// logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /{$}", s.requireUser(s.index))
	s.handle(mux, "GET /setup", http.HandlerFunc(s.setupForm))
	s.handle(mux, "POST /setup", http.HandlerFunc(s.setupSubmit))
	s.handle(mux, "GET /add_bill", s.requireUser(s.addBillForm))
	s.handle(mux, "POST /add_bill", s.requireUser(s.addBillSubmit))
	s.handle(mux, "GET /edit_bill/{bill_id}", s.requireUser(s.editBillForm))
	s.handle(mux, "POST /edit_bill/{bill_id}", s.requireUser(s.editBillSubmit))
	s.handle(mux, "GET /mark_paid/{bill_id}", s.requireUser(s.setPaid(true)))
	s.handle(mux, "GET /mark_unpaid/{bill_id}", s.requireUser(s.setPaid(false)))
	s.handle(mux, "GET /delete_bill/{bill_id}", s.requireUser(s.deleteBill))
	s.handle(mux, "GET /logout", http.HandlerFunc(s.logout))

	s.handle(mux, "GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))
	s.handle(mux, "GET /healthz", http.HandlerFunc(s.healthz))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return middleware.Logging(s.logger)(mux)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, s.metrics.Instrument(pattern, h))
}

// healthz reports ok while the database answers a ping, 503 otherwise.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status, body := http.StatusOK, "ok"
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("Health check failed", "error", err)
		status, body = http.StatusServiceUnavailable, "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": body}); err != nil {
		s.logger.Error("Failed to write health response", "error", err)
	}
}
