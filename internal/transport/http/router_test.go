package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRouterWithHealth(health HealthCheck) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	return NewRouter(
		NewTransferHandler(&stubOrchestrator{}, logger),
		NewComplianceHandler(&stubReports{}, logger),
		logger,
		health,
	)
}

func TestHealthz(t *testing.T) {
	t.Run("ok without a configured check", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouterWithHealth(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("ok when the store responds", func(t *testing.T) {
		health := func(context.Context) error { return nil }

		rec := httptest.NewRecorder()
		newRouterWithHealth(health).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unavailable when the store does not respond", func(t *testing.T) {
		health := func(context.Context) error { return errors.New("connection refused") }

		rec := httptest.NewRecorder()
		newRouterWithHealth(health).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unavailable", rec.Body.String())
	})
}
