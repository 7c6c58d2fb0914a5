package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dataspace/internal/platform/middleware"
)

// HealthCheck reports readiness of a backing dependency. A nil check means
// the dependency is not configured and is skipped.
type HealthCheck func(ctx context.Context) error

// NewRouter wires all public endpoints behind the shared middleware chain.
// Handlers stay thin; business logic lives in the services they delegate to.
func NewRouter(transfers *TransferHandler, compliance *ComplianceHandler, logger *slog.Logger, health HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req.Context()); err != nil {
				logger.ErrorContext(req.Context(), "health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		transfers.Register(r)
		compliance.Register(r)
	})

	return r
}
