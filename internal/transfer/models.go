// Package transfer owns the transfer aggregate and the orchestration state
// machine that drives it from request through policy evaluation, contract
// negotiation, and data movement to a terminal state.
package transfer

import (
	"time"

	id "dataspace/pkg/domain"
)

// State is one lifecycle state of a transfer.
type State string

const (
	StateRequested           State = "REQUESTED"
	StatePolicyEvaluation    State = "POLICY_EVALUATION"
	StateApproved            State = "APPROVED"
	StateDenied              State = "DENIED"
	StateContractNegotiation State = "CONTRACT_NEGOTIATION"
	StateNegotiated          State = "NEGOTIATED"
	StateTransferInProgress  State = "TRANSFER_IN_PROGRESS"
	StateCompleted           State = "COMPLETED"
	StateFailed              State = "FAILED"
	StateCancelled           State = "CANCELLED"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s State) Terminal() bool {
	switch s {
	case StateDenied, StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// Transfer is the mutable aggregate for one transfer request. Its state is
// mutated exclusively by the Orchestrator; it is never deleted, only
// transitioned to a terminal state.
type Transfer struct {
	ID         id.TransferID
	ConsumerID string
	ProviderID string
	DataType   string
	State      State
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Request carries the caller-supplied facts for one initiation. Region,
// certifications, purpose, and endpoints are optional; the orchestrator fills
// them from configured defaults.
type Request struct {
	ConsumerID          string
	ProviderID          string
	DataType            string
	ConsumerRegion      string
	Certifications      []string
	UsagePurpose        string
	SourceEndpoint      string
	DestinationEndpoint string
}

// Status is the queryable (id, state, lastUpdated) tuple.
type Status struct {
	TransferID  id.TransferID
	State       State
	LastUpdated time.Time
}

// Summary is one row of a paginated transfer listing.
type Summary struct {
	ID         id.TransferID
	ConsumerID string
	ProviderID string
	DataType   string
	State      State
	CreatedAt  time.Time
}

// ListQuery selects a page of transfers. Page is zero-based.
type ListQuery struct {
	Page      int
	Size      int
	SortField string
	Desc      bool
}

// Page is one page of transfer summaries plus the total row count.
type Page struct {
	Items []Summary
	Page  int
	Size  int
	Total int64
}

// Analytics aggregates transfer counts for the dashboard surface.
type Analytics struct {
	Total      int64
	ByState    map[string]int64
	ByDataType map[string]int64
}
