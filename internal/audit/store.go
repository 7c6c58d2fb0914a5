package audit

import (
	"context"
	"time"

	id "dataspace/pkg/domain"
)

// Store persists audit events. Append-only by contract: implementations never
// update or delete. Swap in-memory and postgres implementations without
// touching business code.
type Store interface {
	Append(ctx context.Context, event Event) error
	// ListByTransfer returns the trail for one transfer ordered by timestamp
	// ascending. An unknown transfer yields an empty slice, not an error.
	ListByTransfer(ctx context.Context, transferID id.TransferID) ([]Event, error)
	// ListByTimeRange returns all events with timestamp in [from, to].
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]Event, error)
}
