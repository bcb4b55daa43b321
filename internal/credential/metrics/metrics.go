package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for credential lifecycle operations.
type Metrics struct {
	OffersCreated      *prometheus.CounterVec
	ActionsApplied     *prometheus.CounterVec
	ActionsRejected    *prometheus.CounterVec
	CredentialsDeleted prometheus.Counter
	HoldersForgotten   prometheus.Counter
}

// New registers and returns credential metrics collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OffersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_credential_offers_created_total",
			Help: "Total number of credential offers created, labeled by scope and mode",
		}, []string{"scope", "mode"}),
		ActionsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_credential_actions_applied_total",
			Help: "Total number of credential lifecycle actions applied, labeled by action",
		}, []string{"action"}),
		ActionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_credential_actions_rejected_total",
			Help: "Total number of rejected credential actions, labeled by action and error code",
		}, []string{"action", "code"}),
		CredentialsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "medssi_credentials_deleted_total",
			Help: "Total number of credentials deleted by issuers",
		}),
		HoldersForgotten: factory.NewCounter(prometheus.CounterOpts{
			Name: "medssi_holders_forgotten_total",
			Help: "Total number of holder erasure requests served",
		}),
	}
}

func (m *Metrics) IncrementOffersCreated(scope, mode string) {
	m.OffersCreated.WithLabelValues(scope, mode).Inc()
}

func (m *Metrics) IncrementActionApplied(action string) {
	m.ActionsApplied.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementActionRejected(action, code string) {
	m.ActionsRejected.WithLabelValues(action, code).Inc()
}
