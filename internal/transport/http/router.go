package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	credhandler "medssi/internal/credential/handler"
	"medssi/internal/platform/health"
	preshandler "medssi/internal/presentation/handler"
	"medssi/internal/sandbox"
	verifhandler "medssi/internal/verification/handler"
	"medssi/pkg/platform/middleware/auth"
	"medssi/pkg/platform/middleware/metadata"
	request "medssi/pkg/platform/middleware/request"
	"medssi/pkg/platform/middleware/requesttime"
	"medssi/pkg/validation"
)

// Handlers groups the per-context HTTP handlers mounted by the router.
type Handlers struct {
	Credential   *credhandler.Handler
	Verification *verifhandler.Handler
	Presentation *preshandler.Handler
	Sandbox      *sandbox.Handler
	Health       *health.Handler
}

// Config carries the cross-cutting collaborators of the router. A nil Sweep
// disables request-time sweeps; a nil Clock uses the wall clock.
type Config struct {
	Logger         *slog.Logger
	Auth           *auth.Authenticator
	AllowedOrigins []string
	TrustedProxies []netip.Prefix
	RequestTimeout time.Duration
	Sweep          func(http.Handler) http.Handler
	Metrics        *request.Metrics
	Gatherer       prometheus.Gatherer
	Clock          requesttime.Clock
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(h Handlers, cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(newCORS(cfg.AllowedOrigins).Handler)
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(cfg.TrustedProxies).Handler)
	r.Use(request.Logger(logger))
	if cfg.Metrics != nil {
		r.Use(request.LatencyMiddleware(cfg.Metrics))
	}
	r.Use(request.Timeout(timeout))

	if h.Health != nil {
		h.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(api chi.Router) {
		api.Use(request.ContentTypeJSON)
		api.Use(request.BodyLimit(validation.MaxBodySize))
		if cfg.Clock != nil {
			api.Use(requesttime.WithClock(cfg.Clock))
		} else {
			api.Use(requesttime.Middleware)
		}
		if cfg.Sweep != nil {
			api.Use(cfg.Sweep)
		}

		api.Group(func(issuer chi.Router) {
			issuer.Use(cfg.Auth.Require(auth.RoleIssuer))
			h.Credential.RegisterIssuer(issuer)
			h.Credential.RegisterCompatIssuer(issuer)
		})
		api.Group(func(wallet chi.Router) {
			wallet.Use(cfg.Auth.Require(auth.RoleWallet))
			h.Credential.RegisterWallet(wallet)
			h.Credential.RegisterCompatWallet(wallet)
		})
		api.Group(func(verifier chi.Router) {
			verifier.Use(cfg.Auth.Require(auth.RoleVerifier))
			h.Verification.RegisterVerifier(verifier)
			h.Verification.RegisterCompatVerifier(verifier)
			h.Presentation.RegisterVerifier(verifier)
		})
		api.Group(func(shared chi.Router) {
			shared.Use(cfg.Auth.RequireAny())
			h.Sandbox.Register(shared)
		})
	})

	return r
}

// newCORS answers browser preflights before authentication runs. A single
// "*" origin allows every origin.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         600,
	})
}
