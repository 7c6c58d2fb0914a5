package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataspace/internal/audit"
)

type stubReports struct {
	report  audit.ComplianceReport
	gotFrom time.Time
	gotTo   time.Time
}

func (s *stubReports) Report(_ context.Context, from, to time.Time) (audit.ComplianceReport, error) {
	s.gotFrom, s.gotTo = from, to
	return s.report, nil
}

func newComplianceRouter(stub *stubReports) http.Handler {
	r := chi.NewRouter()
	NewComplianceHandler(stub, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func TestHandleReport(t *testing.T) {
	t.Run("returns report for valid window", func(t *testing.T) {
		stub := &stubReports{report: audit.ComplianceReport{
			TotalTransfers:      5,
			SuccessfulTransfers: 3,
			FailedTransfers:     2,
		}}
		router := newComplianceRouter(stub)

		rec := httptest.NewRecorder()
		target := "/compliance/report?from=2025-06-01T00:00:00Z&to=2025-06-02T00:00:00Z"
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp audit.ComplianceReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.TotalTransfers)
		assert.Equal(t, int64(3), resp.SuccessfulTransfers)
		assert.Equal(t, int64(2), resp.FailedTransfers)

		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), stub.gotFrom.UTC())
		assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), stub.gotTo.UTC())
	})

	t.Run("rejects missing or malformed bounds", func(t *testing.T) {
		router := newComplianceRouter(&stubReports{})

		for _, target := range []string{
			"/compliance/report",
			"/compliance/report?from=2025-06-01T00:00:00Z",
			"/compliance/report?from=yesterday&to=2025-06-02T00:00:00Z",
		} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		router := newComplianceRouter(&stubReports{})

		rec := httptest.NewRecorder()
		target := "/compliance/report?from=2025-06-02T00:00:00Z&to=2025-06-01T00:00:00Z"
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
