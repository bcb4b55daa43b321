package request

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	Responses       *prometheus.CounterVec
}

// NewMetrics registers HTTP collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medssi_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Responses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_http_responses_total",
			Help: "HTTP responses by route pattern and status code",
		}, []string{"endpoint", "status"}),
	}
}

func (m *Metrics) Observe(endpoint string, status int, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
	m.Responses.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// routePattern keeps label cardinality bounded by using chi's matched
// pattern instead of the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
