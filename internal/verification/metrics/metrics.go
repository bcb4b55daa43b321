package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for verifier sessions.
type Metrics struct {
	SessionsCreated *prometheus.CounterVec
	SessionsPurged  prometheus.Counter
	Polls           *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_verification_sessions_created_total",
			Help: "Total number of verification sessions created, labeled by scope",
		}, []string{"scope"}),
		SessionsPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "medssi_verification_sessions_purged_total",
			Help: "Total number of verification sessions purged by verifiers",
		}),
		Polls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_verification_polls_total",
			Help: "Total number of result polls, labeled by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementSessionsCreated(scope string) {
	m.SessionsCreated.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementPoll(outcome string) {
	m.Polls.WithLabelValues(outcome).Inc()
}
