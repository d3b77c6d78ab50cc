package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels recorded for questionnaire operations
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNegative = "negative"
	OutcomeError    = "error"
)

// Metrics provides observability for the questionnaire lifecycle.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Operation outcomes by operation and outcome
	OperationOutcome *prometheus.CounterVec

	// Form provider call latencies by call
	GatewayLatency *prometheus.HistogramVec

	// Tracking records created by origin
	RecordsCreated *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
// A nil reg registers on the default prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		OperationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crp_questionnaire_operations_total",
			Help: "Total questionnaire operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		GatewayLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crp_questionnaire_form_provider_duration_seconds",
			Help:    "Duration of form provider calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"call"}), // call: "ready", "save", "submit", "reset", "retake", "error"

		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crp_questionnaire_tracking_records_created_total",
			Help: "Total tracking records created by origin",
		}, []string{"origin"}), // origin: "get_form", "retake"
	}
}

// IncrementOutcome records the outcome of an operation.
func (m *Metrics) IncrementOutcome(operation, outcome string) {
	if m != nil {
		m.OperationOutcome.WithLabelValues(operation, outcome).Inc()
	}
}

// ObserveGatewayLatency records the duration of a form provider call.
func (m *Metrics) ObserveGatewayLatency(call string, d time.Duration) {
	if m != nil {
		m.GatewayLatency.WithLabelValues(call).Observe(d.Seconds())
	}
}

// IncrementRecordsCreated records a newly created tracking record.
func (m *Metrics) IncrementRecordsCreated(origin string) {
	if m != nil {
		m.RecordsCreated.WithLabelValues(origin).Inc()
	}
}
