package service

import (
	"context"
	"errors"
	"log/slog"

	"medssi/internal/audit"
	"medssi/internal/presentation/models"
	"medssi/internal/sentinel"
	"medssi/internal/store"
	"medssi/internal/verification/metrics"
	vmodels "medssi/internal/verification/models"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

// Store defines the persistence interface for verification sessions.
// Error Contract:
// - Find*, UpdateSession and LatestResult return sentinel.ErrNotFound when nothing matches
// - CreateSession returns sentinel.ErrAlreadyUsed when the transaction ID is taken
// - PurgeSession never fails for an unknown session
type Store interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
	CreateSession(ctx context.Context, session *vmodels.Session) error
	UpdateSession(ctx context.Context, session *vmodels.Session) error
	FindSession(ctx context.Context, sessionID id.SessionID) (*vmodels.Session, error)
	FindSessionByTransaction(ctx context.Context, txID id.TransactionID) (*vmodels.Session, error)
	PurgeSession(ctx context.Context, sessionID id.SessionID) (store.PurgeSummary, error)
	LatestResult(ctx context.Context, sessionID id.SessionID) (*models.Result, error)
}

// Validity bounds for a verification session.
const (
	MinValidMinutes = 1
	MaxValidMinutes = 10
)

// Poll outcomes recorded on the poll counter.
const (
	pollOutcomeReady   = "ready"
	pollOutcomePending = "pending"
	pollOutcomeExpired = "expired"
	pollOutcomeUnknown = "unknown"
)

type Service struct {
	store   Store
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

func New(store Store, opts ...Option) *Service {
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	svc.auditor = audit.NewLogger(svc.logger, svc.emitter)
	return svc
}

func (s *Service) findSession(ctx context.Context, sessionID id.SessionID) (*vmodels.Session, error) {
	session, err := s.store.FindSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeSessionNotFound, "session "+sessionID.String()+" does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return session, nil
}
