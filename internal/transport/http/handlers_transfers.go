package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"dataspace/internal/audit"
	"dataspace/internal/transfer"
	id "dataspace/pkg/domain"
	dErrors "dataspace/pkg/domain-errors"
	"dataspace/pkg/platform/httputil"
	"dataspace/pkg/requestcontext"
)

// OrchestratorService is the slice of the orchestrator the transport needs.
type OrchestratorService interface {
	Initiate(ctx context.Context, req transfer.Request) (transfer.Transfer, error)
	Status(ctx context.Context, transferID id.TransferID) (transfer.Status, error)
	Cancel(ctx context.Context, transferID id.TransferID) error
	AuditLog(ctx context.Context, transferID id.TransferID) ([]audit.Event, error)
	List(ctx context.Context, q transfer.ListQuery) (transfer.Page, error)
	Analytics(ctx context.Context) (transfer.Analytics, error)
}

// TransferHandler wires the transfer endpoints to the orchestrator. It is the
// thin HTTP layer: decode, delegate, shape the response.
type TransferHandler struct {
	orchestrator OrchestratorService
	logger       *slog.Logger
}

func NewTransferHandler(orchestrator OrchestratorService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{orchestrator: orchestrator, logger: logger}
}

// Register mounts the transfer endpoints on the router.
func (h *TransferHandler) Register(r chi.Router) {
	r.Post("/transfers", h.HandleInitiate)
	r.Get("/transfers", h.HandleList)
	r.Get("/transfers/analytics", h.HandleAnalytics)
	r.Get("/transfers/{id}", h.HandleStatus)
	r.Delete("/transfers/{id}", h.HandleCancel)
	r.Get("/transfers/{id}/audit", h.HandleAuditLog)
}

// HandleInitiate handles POST /transfers.
func (h *TransferHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req InitiateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	t, err := h.orchestrator.Initiate(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "transfer initiation failed",
			"request_id", requestcontext.RequestID(ctx),
			"consumer_id", req.ConsumerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, InitiateResponse{
		TransferID: t.ID.String(),
		State:      string(t.State),
	})
}

// HandleStatus handles GET /transfers/{id}.
func (h *TransferHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	transferID, err := id.ParseTransferID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := h.orchestrator.Status(r.Context(), transferID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromStatus(status))
}

// HandleCancel handles DELETE /transfers/{id}.
func (h *TransferHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	transferID, err := id.ParseTransferID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.orchestrator.Cancel(ctx, transferID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "transfer cancelled",
		"request_id", requestcontext.RequestID(ctx),
		"transfer_id", transferID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleAuditLog handles GET /transfers/{id}/audit.
func (h *TransferHandler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	transferID, err := id.ParseTransferID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.orchestrator.AuditLog(r.Context(), transferID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromEvents(events))
}

// HandleList handles GET /transfers with page, size, and sort query
// parameters. Sort takes the form "field,asc|desc"; direction defaults to
// descending.
func (h *TransferHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := transfer.ListQuery{Page: 0, Size: 20, SortField: "created_at", Desc: true}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid page"))
			return
		}
		q.Page = page
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 || size > 200 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid size"))
			return
		}
		q.Size = size
	}
	if raw := r.URL.Query().Get("sort"); raw != "" {
		field, direction, _ := strings.Cut(raw, ",")
		q.SortField = field
		q.Desc = !strings.EqualFold(direction, "asc")
	}

	page, err := h.orchestrator.List(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPage(page))
}

// HandleAnalytics handles GET /transfers/analytics.
func (h *TransferHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.orchestrator.Analytics(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AnalyticsResponse{
		Total:      analytics.Total,
		ByState:    analytics.ByState,
		ByDataType: analytics.ByDataType,
	})
}
