package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the activity module.
// Tracks record outcomes per action and mirror delivery.
type Metrics struct {
	Recorded          *prometheus.CounterVec
	RecordDuration    prometheus.Histogram
	FacadeSuppressed  *prometheus.CounterVec
	MirrorPublished   prometheus.Counter
	MirrorFailed      prometheus.Counter
	MirrorCircuitOpen prometheus.Gauge
}

// New registers the activity metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Recorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studytrail_activity_recorded_total",
			Help: "Audit events by action and outcome (success, failure)",
		}, []string{"action", "outcome"}),
		RecordDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "studytrail_activity_record_duration_seconds",
			Help:    "Duration of a single audit event insert",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		FacadeSuppressed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studytrail_activity_facade_suppressed_total",
			Help: "Facade calls whose failure was swallowed",
		}, []string{"action"}),
		MirrorPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "studytrail_activity_mirror_published_total",
			Help: "Audit events delivered to the mirror topic",
		}),
		MirrorFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "studytrail_activity_mirror_failed_total",
			Help: "Audit events the mirror failed or skipped to deliver",
		}),
		MirrorCircuitOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "studytrail_activity_mirror_circuit_open",
			Help: "1 while the mirror circuit breaker is open",
		}),
	}
}

// IncrementRecorded counts one record attempt. action should already be a bounded label.
func (m *Metrics) IncrementRecorded(action string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.Recorded.WithLabelValues(action, outcome).Inc()
}

// ObserveRecord records the duration of an insert.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRecord(start time.Time) {
	m.RecordDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementFacadeSuppressed(action string) {
	m.FacadeSuppressed.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementMirrorPublished() { m.MirrorPublished.Inc() }

func (m *Metrics) IncrementMirrorFailed() { m.MirrorFailed.Inc() }

func (m *Metrics) SetMirrorCircuitOpen(open bool) {
	if open {
		m.MirrorCircuitOpen.Set(1)
		return
	}
	m.MirrorCircuitOpen.Set(0)
}
