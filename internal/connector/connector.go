// Package connector wraps the external dataspace connector that performs
// contract negotiation and data movement. The orchestrator depends on the
// Client interface only; wire the HTTP client against a real connector's
// management API or the deterministic mock for local runs and tests.
package connector

import "context"

// NegotiationResult reports the outcome of one contract negotiation attempt.
type NegotiationResult struct {
	Success             bool
	ContractAgreementID string
	ErrorMessage        string
}

// TransferResult reports the outcome of one data-movement attempt.
type TransferResult struct {
	Success           bool
	TransferProcessID string
	ErrorMessage      string
}

// Client is the collaborator contract consumed by the orchestrator. A
// non-success result is a normal business outcome (the transfer fails); an
// error return means the collaborator itself could not be reached.
type Client interface {
	Negotiate(ctx context.Context, consumerID, providerID, dataType string) (NegotiationResult, error)
	Transfer(ctx context.Context, contractAgreementID, sourceEndpoint, destinationEndpoint string) (TransferResult, error)
	// GetState and Terminate serve out-of-band status checks and cancels;
	// the main orchestration path does not call them.
	GetState(ctx context.Context, transferProcessID string) (string, error)
	Terminate(ctx context.Context, transferProcessID string) error
}
