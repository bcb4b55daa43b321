package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"medssi/internal/audit"
	"medssi/internal/credential/metrics"
	"medssi/internal/credential/models"
	jwttoken "medssi/internal/jwt_token"
	"medssi/internal/sentinel"
	"medssi/internal/store"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

// Store defines the persistence interface for credential offers.
// Error Contract:
// - Find* and Update/Delete return sentinel.ErrNotFound when the credential doesn't exist
// - CreateCredential returns sentinel.ErrAlreadyUsed when the transaction ID is taken
type Store interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
	CreateCredential(ctx context.Context, offer *models.Offer) error
	UpdateCredential(ctx context.Context, offer *models.Offer) error
	FindCredential(ctx context.Context, credentialID id.CredentialID) (*models.Offer, error)
	FindCredentialByTransaction(ctx context.Context, txID id.TransactionID) (*models.Offer, error)
	ListCredentialsByHolder(ctx context.Context, holderDID string) ([]*models.Offer, error)
	DeleteCredential(ctx context.Context, credentialID id.CredentialID) error
	ForgetHolder(ctx context.Context, holderDID string) (store.ForgetSummary, error)
}

// TokenIssuer signs the mock credential token returned by transaction lookups.
type TokenIssuer interface {
	GenerateCredentialToken(in jwttoken.CredentialTokenInput, now time.Time) (string, error)
}

// Validity bounds for a credential offer's QR window.
const (
	MinValidMinutes = 1
	MaxValidMinutes = 10
)

type Service struct {
	store   Store
	tokens  TokenIssuer
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

func WithTokenIssuer(tokens TokenIssuer) Option {
	return func(s *Service) {
		s.tokens = tokens
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

// findCredential loads a credential, translating store errors exactly once.
func (s *Service) findCredential(ctx context.Context, credentialID id.CredentialID) (*models.Offer, error) {
	offer, err := s.store.FindCredential(ctx, credentialID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeCredentialNotFound, "credential "+credentialID.String()+" does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	return offer, nil
}

func errorCode(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	return string(dErrors.CodeInternal)
}
