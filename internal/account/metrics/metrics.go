package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks provisioning outcomes, including the enrichment steps
// whose failures are swallowed.
type Metrics struct {
	Provisioned    *prometheus.CounterVec
	StepFailures   *prometheus.CounterVec
	ProvisionTimer prometheus.Histogram
}

// New registers the account metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Provisioned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studytrail_account_provisioned_total",
			Help: "Provisioning calls by outcome (success, failure)",
		}, []string{"outcome"}),
		StepFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studytrail_account_step_failures_total",
			Help: "Non-fatal provisioning step failures by step (profile, preferences, audit)",
		}, []string{"step"}),
		ProvisionTimer: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "studytrail_account_provision_duration_seconds",
			Help:    "End-to-end provisioning latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementProvisioned(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.Provisioned.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementStepFailure(step string) {
	m.StepFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) ObserveProvision(seconds float64) {
	m.ProvisionTimer.Observe(seconds)
}
