// Package metrics provides observability for the transfer orchestration
// module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the orchestrator.
type Metrics struct {
	// Terminal states reached by initiations
	TransferOutcome *prometheus.CounterVec

	// Policy evaluation outcomes
	PolicyOutcome *prometheus.CounterVec

	// Collaborator step latencies
	ConnectorLatency *prometheus.HistogramVec

	// Full initiation latency including collaborator calls
	InitiateLatency prometheus.Histogram
}

// New creates a Metrics instance with all orchestrator metrics registered.
func New() *Metrics {
	return &Metrics{
		TransferOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dataspace_transfer_outcomes_total",
			Help: "Terminal states reached by transfer initiations",
		}, []string{"state"}),

		PolicyOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dataspace_policy_outcomes_total",
			Help: "Policy evaluation outcomes",
		}, []string{"outcome"}), // outcome: "approved", "denied"

		ConnectorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataspace_connector_step_duration_seconds",
			Help:    "Duration of connector collaborator calls by step",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"step"}), // step: "negotiate", "transfer"

		InitiateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataspace_transfer_initiate_duration_seconds",
			Help:    "Duration of full transfer initiation including collaborator calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementOutcome records the terminal state of one initiation.
func (m *Metrics) IncrementOutcome(state string) {
	if m != nil {
		m.TransferOutcome.WithLabelValues(state).Inc()
	}
}

// IncrementPolicyOutcome records one policy evaluation outcome.
func (m *Metrics) IncrementPolicyOutcome(allowed bool) {
	if m != nil {
		outcome := "approved"
		if !allowed {
			outcome = "denied"
		}
		m.PolicyOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveConnectorLatency records the duration of one collaborator call.
func (m *Metrics) ObserveConnectorLatency(step string, d time.Duration) {
	if m != nil {
		m.ConnectorLatency.WithLabelValues(step).Observe(d.Seconds())
	}
}

// ObserveInitiateLatency records the total initiation duration.
func (m *Metrics) ObserveInitiateLatency(d time.Duration) {
	if m != nil {
		m.InitiateLatency.Observe(d.Seconds())
	}
}
