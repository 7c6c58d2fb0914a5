package httptransport

import (
	"time"

	"dataspace/internal/audit"
	"dataspace/internal/transfer"
)

// InitiateResponse reports the created transfer and the state it landed in.
type InitiateResponse struct {
	TransferID string `json:"transfer_id"`
	State      string `json:"state"`
}

// StatusResponse is the wire shape for GET /api/v1/transfers/{id}.
type StatusResponse struct {
	TransferID  string    `json:"transfer_id"`
	State       string    `json:"state"`
	LastUpdated time.Time `json:"last_updated"`
}

func fromStatus(s transfer.Status) StatusResponse {
	return StatusResponse{
		TransferID:  s.TransferID.String(),
		State:       string(s.State),
		LastUpdated: s.LastUpdated,
	}
}

// AuditEventResponse is one entry of a transfer's audit trail.
type AuditEventResponse struct {
	ID         string    `json:"id"`
	TransferID string    `json:"transfer_id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	Metadata   string    `json:"metadata"`
	Timestamp  time.Time `json:"timestamp"`
}

func fromEvents(events []audit.Event) []AuditEventResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AuditEventResponse{
			ID:         e.ID.String(),
			TransferID: e.TransferID.String(),
			Action:     string(e.Action),
			Actor:      e.Actor,
			Metadata:   e.Metadata,
			Timestamp:  e.Timestamp,
		})
	}
	return out
}

// SummaryResponse is one row of the paginated listing.
type SummaryResponse struct {
	ID         string    `json:"id"`
	ConsumerID string    `json:"consumer_id"`
	ProviderID string    `json:"provider_id"`
	DataType   string    `json:"data_type"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

// PageResponse wraps a listing page with its paging metadata.
type PageResponse struct {
	Items []SummaryResponse `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Total int64             `json:"total"`
}

func fromPage(p transfer.Page) PageResponse {
	items := make([]SummaryResponse, 0, len(p.Items))
	for _, s := range p.Items {
		items = append(items, SummaryResponse{
			ID:         s.ID.String(),
			ConsumerID: s.ConsumerID,
			ProviderID: s.ProviderID,
			DataType:   s.DataType,
			State:      string(s.State),
			CreatedAt:  s.CreatedAt,
		})
	}
	return PageResponse{Items: items, Page: p.Page, Size: p.Size, Total: p.Total}
}

// AnalyticsResponse aggregates transfer counts.
type AnalyticsResponse struct {
	Total      int64            `json:"total"`
	ByState    map[string]int64 `json:"by_state"`
	ByDataType map[string]int64 `json:"by_data_type"`
}
