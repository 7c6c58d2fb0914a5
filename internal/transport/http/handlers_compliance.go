package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dataspace/internal/audit"
	dErrors "dataspace/pkg/domain-errors"
	"dataspace/pkg/platform/httputil"
)

// ReportService produces compliance reports over a time window.
type ReportService interface {
	Report(ctx context.Context, from, to time.Time) (audit.ComplianceReport, error)
}

// ComplianceHandler exposes the compliance reporting endpoint.
type ComplianceHandler struct {
	reports ReportService
	logger  *slog.Logger
}

func NewComplianceHandler(reports ReportService, logger *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{reports: reports, logger: logger}
}

// Register mounts the compliance endpoints on the router.
func (h *ComplianceHandler) Register(r chi.Router) {
	r.Get("/compliance/report", h.HandleReport)
}

// HandleReport handles GET /compliance/report?from=&to= with RFC 3339 bounds.
func (h *ComplianceHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	from, err := parseRFC3339(r.URL.Query().Get("from"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := parseRFC3339(r.URL.Query().Get("to"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if to.Before(from) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "report window end precedes start"))
		return
	}

	report, err := h.reports.Report(r.Context(), from, to)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "compliance report failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func parseRFC3339(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "from and to are required RFC 3339 timestamps")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "invalid RFC 3339 timestamp "+raw)
	}
	return t, nil
}
