package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dataspace/internal/audit"
	"dataspace/internal/connector"
	"dataspace/internal/policy"
	"dataspace/internal/ratelimit"
	"dataspace/internal/transfer/metrics"
	id "dataspace/pkg/domain"
	dErrors "dataspace/pkg/domain-errors"
	pStrings "dataspace/pkg/platform/strings"
	"dataspace/pkg/requestcontext"
)

// Defaults fill in the policy facts a request may omit.
type Defaults struct {
	Region         string
	Certifications []string
	Purpose        string
	Zone           *time.Location
}

// Orchestrator drives each transfer through the fixed lifecycle: policy
// check, contract negotiation, data movement, terminal state. Each Initiate
// call runs its full sequence synchronously, single attempt, no retries; it
// may block on the connector and on the stores. Every decision and transition
// is recorded in the audit trail before the next step runs.
type Orchestrator struct {
	store     Store
	evaluator *policy.Evaluator
	tree      policy.Policy
	recorder  *audit.Recorder
	connector connector.Client
	counter   ratelimit.Counter
	defaults  Defaults
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewOrchestrator(
	store Store,
	evaluator *policy.Evaluator,
	tree policy.Policy,
	recorder *audit.Recorder,
	conn connector.Client,
	counter ratelimit.Counter,
	defaults Defaults,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Orchestrator {
	if defaults.Zone == nil {
		defaults.Zone = time.UTC
	}
	return &Orchestrator{
		store:     store,
		evaluator: evaluator,
		tree:      tree,
		recorder:  recorder,
		connector: conn,
		counter:   counter,
		defaults:  defaults,
		logger:    logger,
		metrics:   m,
	}
}

// Initiate runs the full lifecycle for one transfer request and returns the
// transfer in its terminal (or denied) state. A collaborator failure is not
// an error to the caller: the transfer was accepted and lands in FAILED with
// the failure recorded in the audit trail. An error return means the transfer
// could not be durably recorded at all.
func (o *Orchestrator) Initiate(ctx context.Context, req Request) (Transfer, error) {
	if req.ConsumerID == "" || req.ProviderID == "" || req.DataType == "" {
		return Transfer{}, dErrors.New(dErrors.CodeInvalidInput, "consumer id, provider id, and data type are required")
	}

	start := time.Now()
	defer func() {
		o.metrics.ObserveInitiateLatency(time.Since(start))
	}()

	now := requestcontext.Now(ctx)
	t := Transfer{
		ID:         id.NewTransferID(),
		ConsumerID: req.ConsumerID,
		ProviderID: req.ProviderID,
		DataType:   req.DataType,
		State:      StateRequested,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := o.store.Create(ctx, t); err != nil {
		return Transfer{}, dErrors.Wrap(dErrors.CodeInternal, "create transfer", err)
	}
	if err := o.recorder.RecordTransferRequest(ctx, t.ID, t.ConsumerID); err != nil {
		return Transfer{}, dErrors.Wrap(dErrors.CodeInternal, "record transfer request", err)
	}

	if err := o.setState(ctx, &t, StatePolicyEvaluation); err != nil {
		return Transfer{}, err
	}

	result := o.evaluator.Evaluate(o.tree, o.buildContext(ctx, req, now))
	o.metrics.IncrementPolicyOutcome(result.Allowed)
	if err := o.recorder.RecordPolicyEvaluation(ctx, t.ID, result); err != nil {
		return Transfer{}, dErrors.Wrap(dErrors.CodeInternal, "record policy evaluation", err)
	}

	if !result.Allowed {
		if err := o.setState(ctx, &t, StateDenied); err != nil {
			return Transfer{}, err
		}
		o.metrics.IncrementOutcome(string(StateDenied))
		o.logger.InfoContext(ctx, "transfer denied by policy",
			"request_id", requestcontext.RequestID(ctx),
			"transfer_id", t.ID,
			"reason", result.ViolationReason,
		)
		return t, nil
	}

	if err := o.setState(ctx, &t, StateApproved); err != nil {
		return Transfer{}, err
	}

	return o.runApproved(ctx, t, req)
}

// runApproved executes the collaborator steps for an approved transfer. From
// here on every transition writes a STATE_TRANSITION event before the state
// changes, so a crash mid-flight leaves a trail explaining how far we got.
func (o *Orchestrator) runApproved(ctx context.Context, t Transfer, req Request) (Transfer, error) {
	if err := o.transition(ctx, &t, StateContractNegotiation); err != nil {
		return Transfer{}, err
	}

	negStart := time.Now()
	negotiation, negErr := o.connector.Negotiate(ctx, t.ConsumerID, t.ProviderID, t.DataType)
	o.metrics.ObserveConnectorLatency("negotiate", time.Since(negStart))
	if negErr != nil || !negotiation.Success {
		message := negotiation.ErrorMessage
		if negErr != nil {
			message = negErr.Error()
		}
		return o.fail(ctx, t, "contract negotiation failed: "+message)
	}

	if err := o.transition(ctx, &t, StateNegotiated); err != nil {
		return Transfer{}, err
	}
	if err := o.transition(ctx, &t, StateTransferInProgress); err != nil {
		return Transfer{}, err
	}

	source := req.SourceEndpoint
	if source == "" {
		source = uuid.NewString()
	}
	destination := req.DestinationEndpoint
	if destination == "" {
		destination = uuid.NewString()
	}

	moveStart := time.Now()
	movement, moveErr := o.connector.Transfer(ctx, negotiation.ContractAgreementID, source, destination)
	o.metrics.ObserveConnectorLatency("transfer", time.Since(moveStart))
	if moveErr != nil || !movement.Success {
		message := movement.ErrorMessage
		if moveErr != nil {
			message = moveErr.Error()
		}
		return o.fail(ctx, t, "data transfer failed: "+message)
	}

	if err := o.transition(ctx, &t, StateCompleted); err != nil {
		return Transfer{}, err
	}
	if err := o.recorder.RecordCompletion(ctx, t.ID, true, "Transfer completed, process="+movement.TransferProcessID); err != nil {
		return Transfer{}, dErrors.Wrap(dErrors.CodeInternal, "record completion", err)
	}
	o.metrics.IncrementOutcome(string(StateCompleted))
	o.logger.InfoContext(ctx, "transfer completed",
		"request_id", requestcontext.RequestID(ctx),
		"transfer_id", t.ID,
		"process_id", movement.TransferProcessID,
	)
	return t, nil
}

// fail terminates a transfer in FAILED with the point of failure recorded. A
// transfer is never parked in a non-terminal state without a recorded reason.
func (o *Orchestrator) fail(ctx context.Context, t Transfer, message string) (Transfer, error) {
	if err := o.transition(ctx, &t, StateFailed); err != nil {
		return Transfer{}, err
	}
	if err := o.recorder.RecordCompletion(ctx, t.ID, false, message); err != nil {
		return Transfer{}, dErrors.Wrap(dErrors.CodeInternal, "record failure", err)
	}
	o.metrics.IncrementOutcome(string(StateFailed))
	o.logger.WarnContext(ctx, "transfer failed",
		"request_id", requestcontext.RequestID(ctx),
		"transfer_id", t.ID,
		"reason", message,
	)
	return t, nil
}

// Cancel moves a non-terminal transfer to CANCELLED. Cancelling a transfer
// already in a terminal state is rejected with a conflict rather than
// silently overwriting history.
func (o *Orchestrator) Cancel(ctx context.Context, transferID id.TransferID) error {
	t, err := o.store.FindByID(ctx, transferID)
	if err != nil {
		return err
	}
	if t.State.Terminal() {
		return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("transfer already in terminal state %s", t.State))
	}

	if err := o.transition(ctx, &t, StateCancelled); err != nil {
		return err
	}
	if err := o.recorder.RecordCancellation(ctx, t.ID); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "record cancellation", err)
	}
	o.metrics.IncrementOutcome(string(StateCancelled))
	return nil
}

// Status returns the current (id, state, lastUpdated) tuple.
func (o *Orchestrator) Status(ctx context.Context, transferID id.TransferID) (Status, error) {
	t, err := o.store.FindByID(ctx, transferID)
	if err != nil {
		return Status{}, err
	}
	return Status{TransferID: t.ID, State: t.State, LastUpdated: t.UpdatedAt}, nil
}

// AuditLog returns the full ordered trail for an existing transfer.
func (o *Orchestrator) AuditLog(ctx context.Context, transferID id.TransferID) ([]audit.Event, error) {
	if _, err := o.store.FindByID(ctx, transferID); err != nil {
		return nil, err
	}
	return o.recorder.Trail(ctx, transferID)
}

// List returns a page of transfer summaries.
func (o *Orchestrator) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.Size <= 0 {
		q.Size = 20
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.SortField == "" {
		q.SortField = "created_at"
	}
	if !ValidSortField(q.SortField) {
		return Page{}, dErrors.New(dErrors.CodeInvalidInput, "invalid sort field "+q.SortField)
	}
	return o.store.List(ctx, q)
}

// Analytics returns aggregate transfer counts.
func (o *Orchestrator) Analytics(ctx context.Context) (Analytics, error) {
	total, err := o.store.Count(ctx)
	if err != nil {
		return Analytics{}, dErrors.Wrap(dErrors.CodeInternal, "count transfers", err)
	}
	byState, err := o.store.CountByState(ctx)
	if err != nil {
		return Analytics{}, dErrors.Wrap(dErrors.CodeInternal, "count transfers by state", err)
	}
	byDataType, err := o.store.CountByDataType(ctx)
	if err != nil {
		return Analytics{}, dErrors.Wrap(dErrors.CodeInternal, "count transfers by data type", err)
	}
	return Analytics{Total: total, ByState: byState, ByDataType: byDataType}, nil
}

// buildContext assembles the policy context for one request, filling omitted
// facts from configured defaults. The rate counter failing is logged and the
// fact defaults to zero: evaluation itself must never error.
func (o *Orchestrator) buildContext(ctx context.Context, req Request, now time.Time) policy.Context {
	region := req.ConsumerRegion
	if region == "" {
		region = o.defaults.Region
	}
	certifications := pStrings.DedupeAndTrim(req.Certifications)
	if len(certifications) == 0 {
		certifications = o.defaults.Certifications
	}
	purpose := req.UsagePurpose
	if purpose == "" {
		purpose = o.defaults.Purpose
	}

	var requestsInLastHour int64
	if o.counter != nil {
		count, err := o.counter.Observe(ctx, req.ConsumerID, now)
		if err != nil {
			o.logger.ErrorContext(ctx, "rate counter unavailable, assuming zero",
				"consumer_id", req.ConsumerID,
				"error", err,
			)
		} else {
			requestsInLastHour = count
		}
	}

	return policy.NewContext(
		req.ConsumerID,
		req.ProviderID,
		req.DataType,
		region,
		certifications,
		purpose,
		now,
		o.defaults.Zone,
		requestsInLastHour,
	)
}

// transition records the STATE_TRANSITION audit event and then applies the
// state change. Recording first keeps the invariant that no applied
// transition is missing from the trail; the event is only written for a step
// that is about to actually execute.
func (o *Orchestrator) transition(ctx context.Context, t *Transfer, to State) error {
	if err := o.recorder.RecordStateTransition(ctx, t.ID, string(t.State), string(to)); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "record state transition", err)
	}
	return o.setState(ctx, t, to)
}

// setState applies a state change without an audit event. Used for the early
// bookkeeping transitions (POLICY_EVALUATION, APPROVED, DENIED) whose outcome
// is already captured by the TRANSFER_REQUESTED and POLICY_EVALUATED events.
func (o *Orchestrator) setState(ctx context.Context, t *Transfer, to State) error {
	t.State = to
	t.UpdatedAt = time.Now()
	if err := o.store.Update(ctx, *t); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "update transfer state", err)
	}
	return nil
}
