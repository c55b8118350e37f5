package metric

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNetwork  = "network_error"
	OutcomeInvalid  = "invalid"
)

// Defines the quantile rank estimates with their respective absolute error.
var defaultLatencyObjectives = map[float64]float64{
	0.5:  0.05,
	0.9:  0.01,
	0.99: 0.001,
}

// SubmissionMetrics counts outbound requests by endpoint and outcome.
type SubmissionMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.SummaryVec

	registry *prometheus.Registry
}

// NewSubmissionMetrics creates the collectors on a private registry.
func NewSubmissionMetrics() *SubmissionMetrics {
	m := &SubmissionMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "register_client",
				Name:      "requests_total",
				Help:      "Requests issued by the register client, by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		Latency: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  "register_client",
				Name:       "latency_seconds",
				Help:       "Latency distributions.",
				Objectives: defaultLatencyObjectives,
			},
			[]string{"endpoint"},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.Requests, m.Latency)
	return m
}

// Observe records one finished request. A nil receiver is a no-op.
func (m *SubmissionMetrics) Observe(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, outcome).Inc()
	m.Latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Invalid records a form rejected before any request was made.
func (m *SubmissionMetrics) Invalid(endpoint string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, OutcomeInvalid).Inc()
}

// Registry returns the registry holding the collectors.
func (m *SubmissionMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *SubmissionMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("error writing metrics to %s: %w", path, err)
	}
	return nil
}
