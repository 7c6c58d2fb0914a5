package httptransport

import "dataspace/internal/transfer"

// InitiateRequest is the wire shape for POST /api/v1/transfers. Region,
// certifications, purpose, and endpoints are optional; the orchestrator fills
// them from configured defaults.
type InitiateRequest struct {
	ConsumerID          string   `json:"consumer_id"`
	ProviderID          string   `json:"provider_id"`
	DataType            string   `json:"data_type"`
	ConsumerRegion      string   `json:"consumer_region,omitempty"`
	Certifications      []string `json:"certifications,omitempty"`
	UsagePurpose        string   `json:"usage_purpose,omitempty"`
	SourceEndpoint      string   `json:"source_endpoint,omitempty"`
	DestinationEndpoint string   `json:"destination_endpoint,omitempty"`
}

// ToDomain maps the wire shape to the orchestrator's request type.
func (r InitiateRequest) ToDomain() transfer.Request {
	return transfer.Request{
		ConsumerID:          r.ConsumerID,
		ProviderID:          r.ProviderID,
		DataType:            r.DataType,
		ConsumerRegion:      r.ConsumerRegion,
		Certifications:      r.Certifications,
		UsagePurpose:        r.UsagePurpose,
		SourceEndpoint:      r.SourceEndpoint,
		DestinationEndpoint: r.DestinationEndpoint,
	}
}
