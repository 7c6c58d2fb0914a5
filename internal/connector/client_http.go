package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient talks to a connector's management API over JSON. A non-2xx
// response on the negotiation or transfer endpoints is returned as an error;
// business-level failure travels in the response body's success flag.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type negotiationRequest struct {
	ConsumerID string `json:"consumer_id"`
	ProviderID string `json:"provider_id"`
	DataType   string `json:"data_type"`
}

type negotiationResponse struct {
	Success             bool   `json:"success"`
	ContractAgreementID string `json:"contract_agreement_id"`
	ErrorMessage        string `json:"error_message"`
}

func (c *HTTPClient) Negotiate(ctx context.Context, consumerID, providerID, dataType string) (NegotiationResult, error) {
	var resp negotiationResponse
	err := c.post(ctx, "/management/negotiations", negotiationRequest{
		ConsumerID: consumerID,
		ProviderID: providerID,
		DataType:   dataType,
	}, &resp)
	if err != nil {
		return NegotiationResult{}, err
	}
	return NegotiationResult{
		Success:             resp.Success,
		ContractAgreementID: resp.ContractAgreementID,
		ErrorMessage:        resp.ErrorMessage,
	}, nil
}

type transferRequest struct {
	ContractAgreementID string `json:"contract_agreement_id"`
	SourceEndpoint      string `json:"source_endpoint"`
	DestinationEndpoint string `json:"destination_endpoint"`
}

type transferResponse struct {
	Success           bool   `json:"success"`
	TransferProcessID string `json:"transfer_process_id"`
	ErrorMessage      string `json:"error_message"`
}

func (c *HTTPClient) Transfer(ctx context.Context, contractAgreementID, sourceEndpoint, destinationEndpoint string) (TransferResult, error) {
	var resp transferResponse
	err := c.post(ctx, "/management/transferprocesses", transferRequest{
		ContractAgreementID: contractAgreementID,
		SourceEndpoint:      sourceEndpoint,
		DestinationEndpoint: destinationEndpoint,
	}, &resp)
	if err != nil {
		return TransferResult{}, err
	}
	return TransferResult{
		Success:           resp.Success,
		TransferProcessID: resp.TransferProcessID,
		ErrorMessage:      resp.ErrorMessage,
	}, nil
}

func (c *HTTPClient) GetState(ctx context.Context, transferProcessID string) (string, error) {
	endpoint := c.baseURL + "/management/transferprocesses/" + url.PathEscape(transferProcessID) + "/state"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build state request: %w", err)
	}
	httpResp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get transfer state: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get transfer state: unexpected status %d", httpResp.StatusCode)
	}
	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode transfer state: %w", err)
	}
	return body.State, nil
}

func (c *HTTPClient) Terminate(ctx context.Context, transferProcessID string) error {
	endpoint := "/management/transferprocesses/" + url.PathEscape(transferProcessID) + "/terminate"
	return c.post(ctx, endpoint, struct{}{}, &struct{}{})
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal connector request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build connector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("connector call %s: %w", path, err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return fmt.Errorf("connector call %s: unexpected status %d", path, httpResp.StatusCode)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode connector response: %w", err)
	}
	return nil
}
