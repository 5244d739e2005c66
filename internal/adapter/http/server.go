// Package http exposes the service's operational endpoints and a synchronous
// evaluation endpoint for ad-hoc GMPE weight queries.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quakemetrics/gmpe-select/internal/domain"
	"github.com/quakemetrics/gmpe-select/internal/selection"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Evaluator computes the weighted GMPE set for one origin.
type Evaluator interface {
	Select(ctx context.Context, origin domain.Origin) (domain.WeightedSet, domain.Provenance, error)
}

// Server exposes health, readiness, metrics, and evaluation HTTP endpoints.
type Server struct {
	httpServer *http.Server
	evaluator  Evaluator
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /evaluate routes.
func NewServer(addr string, ready ReadinessChecker, evaluator Evaluator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		evaluator: evaluator,
		logger:    logger,
	}

	mux.Handle("/healthz", requireMethod(http.MethodGet, http.HandlerFunc(s.handleHealth)))
	mux.Handle("/readyz", requireMethod(http.MethodGet, handleReady(ready)))
	mux.Handle("/metrics", requireMethod(http.MethodGet, promhttp.Handler()))
	mux.Handle("/evaluate", requireMethod(http.MethodPost, http.HandlerFunc(s.handleEvaluate)))

	return s
}

// requireMethod rejects requests whose method does not match, mirroring the
// method-pattern routing of Go 1.22's ServeMux on the Go 1.21 toolchain.
func requireMethod(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
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

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleEvaluate runs one synchronous evaluation. Evaluation errors (no
// matching region, zero layer weight) are the caller's problem and map to
// 422; infrastructure failures map to 502.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var origin domain.Origin
	if err := json.NewDecoder(r.Body).Decode(&origin); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := origin.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	set, prov, err := s.evaluator.Select(r.Context(), origin)
	if err != nil {
		if selection.IsEvaluationError(err) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("evaluation failed", "event_id", origin.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "evaluation failed"})
		return
	}

	writeJSON(w, http.StatusOK, domain.Assignment{
		EventID:    origin.ID,
		GMPEs:      set,
		Provenance: prov,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
