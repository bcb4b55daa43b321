package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for presentation verification.
type Metrics struct {
	Verified       *prometheus.CounterVec
	Rejected       *prometheus.CounterVec
	VerifyDuration prometheus.Histogram
	InsightErrors  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_presentations_verified_total",
			Help: "Total number of presentations verified, labeled by scope",
		}, []string{"scope"}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_presentations_rejected_total",
			Help: "Total number of presentations rejected, labeled by error code",
		}, []string{"code"}),
		VerifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "medssi_presentation_verify_duration_seconds",
			Help:    "Time spent running presentation checks",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		InsightErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "medssi_presentation_insight_errors_total",
			Help: "Total number of failed insight evaluations",
		}),
	}
}

func (m *Metrics) IncrementVerified(scope string) {
	m.Verified.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementRejected(code string) {
	m.Rejected.WithLabelValues(code).Inc()
}

func (m *Metrics) ObserveVerifyDuration(start time.Time) {
	m.VerifyDuration.Observe(time.Since(start).Seconds())
}
