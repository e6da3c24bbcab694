package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsbot/internal/observability/tracing"
)

// HealthResponse represents a simple health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// DependencyHealthResponse represents the circuit breaker state of every
// outbound collaborator.
type DependencyHealthResponse struct {
	Healthy      bool               `json:"healthy"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// DependencyStatus is the state of a single collaborator.
type DependencyStatus struct {
	Name               string `json:"name"`
	CircuitState       string `json:"circuit_state"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

// newMetricsHandler builds the routes served beside the console session:
//   - GET /metrics - Prometheus metrics
//   - GET /health - liveness probe (always 200)
//   - GET /health/dependencies - 503 when any circuit breaker is open
func newMetricsHandler(deps []dependency) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /health/dependencies", dependencyHealthHandler(deps))
	return tracing.Middleware(mux)
}

// runMetricsServer serves the metrics handler on addr until ctx is canceled,
// then shuts down gracefully within 5 seconds.
func runMetricsServer(ctx context.Context, addr string, deps []dependency, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serveMetrics(ctx, ln, deps, logger)
}

func serveMetrics(ctx context.Context, ln net.Listener, deps []dependency, logger *slog.Logger) error {
	server := &http.Server{
		Handler:      newMetricsHandler(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server starting", slog.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("metrics server shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", slog.Any("error", err))
		return err
	}
	logger.Info("metrics server stopped")
	return nil
}

// healthHandler handles GET /health requests (liveness probe).
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// dependencyHealthHandler handles GET /health/dependencies (readiness probe).
func dependencyHealthHandler(deps []dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := DependencyHealthResponse{
			Healthy:      true,
			Dependencies: make([]DependencyStatus, 0, len(deps)),
		}
		for _, d := range deps {
			state := d.State()
			open := state == "open"
			if open {
				resp.Healthy = false
			}
			resp.Dependencies = append(resp.Dependencies, DependencyStatus{
				Name:               d.Name,
				CircuitState:       state,
				CircuitBreakerOpen: open,
			})
		}

		status := http.StatusOK
		if !resp.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
