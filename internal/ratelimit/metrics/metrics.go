package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checks        *prometheus.CounterVec
	LimiterErrors prometheus.Counter
	Degraded      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Checks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studytrail_ratelimit_checks_total",
			Help: "Rate limit decisions by endpoint class and outcome (allowed, denied, failed_open)",
		}, []string{"class", "outcome"}),
		LimiterErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "studytrail_ratelimit_limiter_errors_total",
			Help: "Errors returned by the primary bucket store",
		}),
		Degraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "studytrail_ratelimit_degraded",
			Help: "1 while rate limiting runs on the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementCheck(class, outcome string) {
	m.Checks.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) IncrementLimiterErrors() {
	m.LimiterErrors.Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
