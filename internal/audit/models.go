// Package audit maintains the append-only trail of everything that happens to
// a transfer: request intake, policy decisions, state transitions, and
// terminal outcomes. Events are immutable once written and the trail for a
// transfer is totally ordered by timestamp.
package audit

import (
	"time"

	id "dataspace/pkg/domain"
)

// Action classifies what an audit event records.
type Action string

const (
	ActionTransferRequested Action = "TRANSFER_REQUESTED"
	ActionPolicyEvaluated   Action = "POLICY_EVALUATED"
	ActionStateTransition   Action = "STATE_TRANSITION"
	ActionTransferCompleted Action = "TRANSFER_COMPLETED"
	ActionTransferFailed    Action = "TRANSFER_FAILED"
	ActionTransferCancelled Action = "TRANSFER_CANCELLED"
)

// Actor labels for the subsystems that produce events.
const (
	ActorAPI          = "API"
	ActorPolicyEngine = "POLICY_ENGINE"
	ActorOrchestrator = "ORCHESTRATOR"
)

// Event is one immutable record in a transfer's history. Metadata is a
// free-text payload whose shape depends on the action: "Consumer=<id>" for
// requests, "APPROVED" / "DENIED: <reason>" for policy evaluations,
// "<from> -> <to>" for state transitions, and the collaborator message for
// terminal outcomes.
type Event struct {
	ID         id.EventID    `json:"id"`
	TransferID id.TransferID `json:"transfer_id"`
	Action     Action        `json:"action"`
	Actor      string        `json:"actor"`
	Metadata   string        `json:"metadata"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ComplianceReport aggregates event counts over a time window. Totals are
// derived from terminal outcomes: total = completed + failed.
type ComplianceReport struct {
	From                time.Time        `json:"from"`
	To                  time.Time        `json:"to"`
	TotalTransfers      int64            `json:"total_transfers"`
	SuccessfulTransfers int64            `json:"successful_transfers"`
	FailedTransfers     int64            `json:"failed_transfers"`
	ActionCounts        map[Action]int64 `json:"action_counts"`
}
