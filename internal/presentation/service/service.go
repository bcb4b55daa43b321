package service

import (
	"context"
	"errors"
	"log/slog"

	"medssi/internal/audit"
	credmodels "medssi/internal/credential/models"
	"medssi/internal/platform/tracer"
	"medssi/internal/presentation/metrics"
	"medssi/internal/presentation/models"
	vmodels "medssi/internal/verification/models"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

// Store defines the persistence interface used during verification.
// Find* return sentinel.ErrNotFound when nothing matches; SaveResult returns
// sentinel.ErrNotFound when the session was purged concurrently.
type Store interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
	FindSession(ctx context.Context, sessionID id.SessionID) (*vmodels.Session, error)
	FindCredential(ctx context.Context, credentialID id.CredentialID) (*credmodels.Offer, error)
	SaveResult(ctx context.Context, result *models.Result) error
}

// InsightEvaluator decorates a verified presentation with a risk insight.
type InsightEvaluator interface {
	Evaluate(ctx context.Context, presentation *models.Presentation) (*models.Insight, error)
}

type Service struct {
	store   Store
	insight InsightEvaluator
	tracer  tracer.Tracer
	logger  *slog.Logger
	emitter audit.Emitter
	auditor *audit.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(emitter audit.Emitter) Option {
	return func(s *Service) {
		s.emitter = emitter
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithInsightEvaluator attaches the risk collaborator. Without one, verified
// presentations are returned without an insight.
func WithInsightEvaluator(e InsightEvaluator) Option {
	return func(s *Service) {
		s.insight = e
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(store Store, opts ...Option) *Service {
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	svc.auditor = audit.NewLogger(svc.logger, svc.emitter)
	return svc
}

func errorCode(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	return string(dErrors.CodeInternal)
}
