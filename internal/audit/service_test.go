package audit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataspace/internal/policy"
	id "dataspace/pkg/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRecorder_EventShapes(t *testing.T) {
	store := NewInMemoryStore()
	recorder := NewRecorder(store, discardLogger())
	transferID := id.NewTransferID()
	ctx := context.Background()

	require.NoError(t, recorder.RecordTransferRequest(ctx, transferID, "consumer-1"))
	require.NoError(t, recorder.RecordPolicyEvaluation(ctx, transferID, policy.Allow()))
	require.NoError(t, recorder.RecordPolicyEvaluation(ctx, transferID, policy.Deny("outside region")))
	require.NoError(t, recorder.RecordStateTransition(ctx, transferID, "APPROVED", "CONTRACT_NEGOTIATION"))
	require.NoError(t, recorder.RecordCompletion(ctx, transferID, true, "done"))
	require.NoError(t, recorder.RecordCompletion(ctx, transferID, false, "connector refused"))
	require.NoError(t, recorder.RecordCancellation(ctx, transferID))

	trail, err := recorder.Trail(ctx, transferID)
	require.NoError(t, err)
	require.Len(t, trail, 7)

	assert.Equal(t, ActionTransferRequested, trail[0].Action)
	assert.Equal(t, ActorAPI, trail[0].Actor)
	assert.Equal(t, "Consumer=consumer-1", trail[0].Metadata)

	assert.Equal(t, ActionPolicyEvaluated, trail[1].Action)
	assert.Equal(t, ActorPolicyEngine, trail[1].Actor)
	assert.Equal(t, "APPROVED", trail[1].Metadata)
	assert.Equal(t, "DENIED: outside region", trail[2].Metadata)

	assert.Equal(t, ActionStateTransition, trail[3].Action)
	assert.Equal(t, ActorOrchestrator, trail[3].Actor)
	assert.Equal(t, "APPROVED -> CONTRACT_NEGOTIATION", trail[3].Metadata)

	assert.Equal(t, ActionTransferCompleted, trail[4].Action)
	assert.Equal(t, ActionTransferFailed, trail[5].Action)
	assert.Equal(t, "connector refused", trail[5].Metadata)
	assert.Equal(t, ActionTransferCancelled, trail[6].Action)

	for _, e := range trail {
		assert.False(t, e.Timestamp.IsZero())
		assert.Equal(t, transferID, e.TransferID)
	}
}

func TestRecorder_TrailIsPerTransfer(t *testing.T) {
	store := NewInMemoryStore()
	recorder := NewRecorder(store, discardLogger())
	ctx := context.Background()

	first := id.NewTransferID()
	second := id.NewTransferID()
	require.NoError(t, recorder.RecordTransferRequest(ctx, first, "a"))
	require.NoError(t, recorder.RecordTransferRequest(ctx, second, "b"))

	trail, err := recorder.Trail(ctx, first)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "Consumer=a", trail[0].Metadata)

	// Unknown transfer yields an empty trail, never an error.
	trail, err = recorder.Trail(ctx, id.NewTransferID())
	require.NoError(t, err)
	assert.Empty(t, trail)
}

type failingSink struct{ calls int }

func (s *failingSink) Publish(context.Context, Event) error {
	s.calls++
	return assert.AnError
}

func TestRecorder_SinkFailureDoesNotFailRecording(t *testing.T) {
	store := NewInMemoryStore()
	sink := &failingSink{}
	recorder := NewRecorder(store, discardLogger(), WithSink(sink))

	err := recorder.RecordTransferRequest(context.Background(), id.NewTransferID(), "c")
	require.NoError(t, err)
	assert.Equal(t, 1, sink.calls)
}

func seedEvent(t *testing.T, store Store, action Action, ts time.Time) {
	t.Helper()
	require.NoError(t, store.Append(context.Background(), Event{
		ID:         id.NewEventID(),
		TransferID: id.NewTransferID(),
		Action:     action,
		Actor:      ActorOrchestrator,
		Metadata:   "seed",
		Timestamp:  ts,
	}))
}

func TestRecorder_ComplianceReportCounts(t *testing.T) {
	store := NewInMemoryStore()
	recorder := NewRecorder(store, discardLogger())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedEvent(t, store, ActionTransferCompleted, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 2; i++ {
		seedEvent(t, store, ActionTransferFailed, base.Add(time.Duration(10+i)*time.Minute))
	}
	seedEvent(t, store, ActionStateTransition, base.Add(5*time.Minute))
	// Outside the window, must not count.
	seedEvent(t, store, ActionTransferCompleted, base.Add(2*time.Hour))

	report, err := recorder.Report(context.Background(), base, base.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(5), report.TotalTransfers)
	assert.Equal(t, int64(3), report.SuccessfulTransfers)
	assert.Equal(t, int64(2), report.FailedTransfers)
	assert.Equal(t, int64(3), report.ActionCounts[ActionTransferCompleted])
	assert.Equal(t, int64(2), report.ActionCounts[ActionTransferFailed])
	assert.Equal(t, int64(1), report.ActionCounts[ActionStateTransition])
}

func TestRecorder_ComplianceReportEmptyWindow(t *testing.T) {
	recorder := NewRecorder(NewInMemoryStore(), discardLogger())

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	report, err := recorder.Report(context.Background(), from, from.Add(time.Hour))
	require.NoError(t, err)

	assert.Zero(t, report.TotalTransfers)
	assert.Zero(t, report.SuccessfulTransfers)
	assert.Zero(t, report.FailedTransfers)
	assert.Empty(t, report.ActionCounts)
}

func TestInMemoryStore_OrdersByTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	transferID := id.NewTransferID()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Append out of order; reads must come back timestamp ascending.
	for _, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		require.NoError(t, store.Append(context.Background(), Event{
			ID:         id.NewEventID(),
			TransferID: transferID,
			Action:     ActionStateTransition,
			Actor:      ActorOrchestrator,
			Timestamp:  base.Add(offset),
		}))
	}

	trail, err := store.ListByTransfer(context.Background(), transferID)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.True(t, trail[0].Timestamp.Before(trail[1].Timestamp))
	assert.True(t, trail[1].Timestamp.Before(trail[2].Timestamp))
}
