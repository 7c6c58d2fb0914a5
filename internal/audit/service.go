package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dataspace/internal/policy"
	id "dataspace/pkg/domain"
)

// Sink receives a copy of every recorded event, e.g. for fan-out to a
// compliance topic. Sinks are best-effort: a sink failure is logged but never
// fails the recording, since the store write is the source of truth.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder writes audit events with fail-closed semantics: the caller blocks
// until the store append succeeds, and a failed append must fail the calling
// operation. No event is ever fabricated for a step that did not execute.
type Recorder struct {
	store  Store
	logger *slog.Logger
	sinks  []Sink
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithSink adds a fan-out sink.
func WithSink(sink Sink) Option {
	return func(r *Recorder) {
		if sink != nil {
			r.sinks = append(r.sinks, sink)
		}
	}
}

func NewRecorder(store Store, logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{store: store, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordTransferRequest logs intake of a new transfer request.
func (r *Recorder) RecordTransferRequest(ctx context.Context, transferID id.TransferID, consumerID string) error {
	return r.record(ctx, transferID, ActionTransferRequested, ActorAPI, "Consumer="+consumerID)
}

// RecordPolicyEvaluation logs the outcome of a policy evaluation, approved or
// denied with the violation reason.
func (r *Recorder) RecordPolicyEvaluation(ctx context.Context, transferID id.TransferID, result policy.Result) error {
	metadata := "APPROVED"
	if !result.Allowed {
		metadata = "DENIED: " + result.ViolationReason
	}
	return r.record(ctx, transferID, ActionPolicyEvaluated, ActorPolicyEngine, metadata)
}

// RecordStateTransition logs one lifecycle transition as "<from> -> <to>".
func (r *Recorder) RecordStateTransition(ctx context.Context, transferID id.TransferID, from, to string) error {
	return r.record(ctx, transferID, ActionStateTransition, ActorOrchestrator, from+" -> "+to)
}

// RecordCompletion logs the terminal data-movement outcome with the
// collaborator's message.
func (r *Recorder) RecordCompletion(ctx context.Context, transferID id.TransferID, success bool, message string) error {
	action := ActionTransferCompleted
	if !success {
		action = ActionTransferFailed
	}
	return r.record(ctx, transferID, action, ActorOrchestrator, message)
}

// RecordCancellation logs an explicit cancel.
func (r *Recorder) RecordCancellation(ctx context.Context, transferID id.TransferID) error {
	return r.record(ctx, transferID, ActionTransferCancelled, ActorOrchestrator, "Cancelled by caller")
}

func (r *Recorder) record(ctx context.Context, transferID id.TransferID, action Action, actor, metadata string) error {
	event := Event{
		ID:         id.NewEventID(),
		TransferID: transferID,
		Action:     action,
		Actor:      actor,
		Metadata:   metadata,
		// time.Now rather than the request-scoped clock: events written
		// during one request must remain totally ordered by timestamp.
		Timestamp: time.Now(),
	}
	if err := r.store.Append(ctx, event); err != nil {
		return fmt.Errorf("audit persistence failed: %w", err)
	}
	for _, sink := range r.sinks {
		if err := sink.Publish(ctx, event); err != nil && r.logger != nil {
			r.logger.ErrorContext(ctx, "audit sink publish failed",
				"transfer_id", transferID,
				"action", action,
				"error", err,
			)
		}
	}
	return nil
}

// Trail returns the full ordered trail for a transfer. An existing transfer
// with no events yields an empty slice, never an error.
func (r *Recorder) Trail(ctx context.Context, transferID id.TransferID) ([]Event, error) {
	return r.store.ListByTransfer(ctx, transferID)
}

// Report scans events in [from, to], counts occurrences per action, and
// derives transfer totals from the terminal outcome counts. An empty window
// yields all-zero counts and an empty mapping.
func (r *Recorder) Report(ctx context.Context, from, to time.Time) (ComplianceReport, error) {
	events, err := r.store.ListByTimeRange(ctx, from, to)
	if err != nil {
		return ComplianceReport{}, fmt.Errorf("compliance report scan: %w", err)
	}

	counts := make(map[Action]int64, len(events))
	for _, e := range events {
		counts[e.Action]++
	}

	completed := counts[ActionTransferCompleted]
	failed := counts[ActionTransferFailed]
	return ComplianceReport{
		From:                from,
		To:                  to,
		TotalTransfers:      completed + failed,
		SuccessfulTransfers: completed,
		FailedTransfers:     failed,
		ActionCounts:        counts,
	}, nil
}
