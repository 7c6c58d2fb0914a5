package connector

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MockClient is a deterministic in-process connector. Negotiations and
// transfers always succeed with fresh agreement/process ids; a configurable
// latency mimics real-world calls.
type MockClient struct {
	Latency time.Duration
}

func (c *MockClient) Negotiate(_ context.Context, _, _, _ string) (NegotiationResult, error) {
	time.Sleep(c.Latency)
	return NegotiationResult{
		Success:             true,
		ContractAgreementID: uuid.NewString(),
	}, nil
}

func (c *MockClient) Transfer(_ context.Context, _, _, _ string) (TransferResult, error) {
	time.Sleep(c.Latency)
	return TransferResult{
		Success:           true,
		TransferProcessID: uuid.NewString(),
	}, nil
}

func (c *MockClient) GetState(_ context.Context, _ string) (string, error) {
	return "TRANSFER_IN_PROGRESS", nil
}

func (c *MockClient) Terminate(_ context.Context, _ string) error {
	return nil
}
