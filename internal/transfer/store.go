package transfer

import (
	"context"

	id "dataspace/pkg/domain"
	dErrors "dataspace/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across the in-memory and
// postgres implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "transfer not found")

// Sortable listing fields. Stores reject anything else so user input can
// never reach an ORDER BY clause unchecked.
var sortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"state":       true,
	"data_type":   true,
	"consumer_id": true,
}

// ValidSortField reports whether a listing may sort by the given field.
func ValidSortField(field string) bool {
	return sortFields[field]
}

// Store persists transfers. The orchestrator is the single writer per row;
// concurrent writer consistency is the store's concern (row-level locking in
// postgres, a mutex in memory).
type Store interface {
	Create(ctx context.Context, t Transfer) error
	// FindByID fails with ErrNotFound when the id is unknown.
	FindByID(ctx context.Context, transferID id.TransferID) (Transfer, error)
	Update(ctx context.Context, t Transfer) error
	List(ctx context.Context, q ListQuery) (Page, error)
	CountByState(ctx context.Context) (map[string]int64, error)
	CountByDataType(ctx context.Context) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
}
