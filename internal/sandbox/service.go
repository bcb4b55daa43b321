// Package sandbox owns whole-store operations that cut across credentials
// and verification sessions.
package sandbox

import (
	"context"
	"log/slog"
	"time"

	"medssi/internal/audit"
	"medssi/internal/store"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

// Store is the slice of the shared store that a reset needs.
type Store interface {
	Reset(ctx context.Context) error
	Stats(ctx context.Context) store.Stats
}

type Service struct {
	store   Store
	logger  *slog.Logger
	emitter audit.Emitter
	auditor *audit.Logger
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

func New(st Store, opts ...Option) *Service {
	svc := &Service{store: st}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	svc.auditor = audit.NewLogger(svc.logger, svc.emitter)
	return svc
}

// Reset wipes every credential, session, presentation and result, and
// returns the instant the reset took effect.
func (s *Service) Reset(ctx context.Context) (time.Time, error) {
	before := s.store.Stats(ctx)
	if err := s.store.Reset(ctx); err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset sandbox store")
	}
	s.auditor.Log(ctx, audit.EventSandboxReset, "sandbox",
		"credentials", before.Credentials,
		"sessions", before.Sessions,
		"presentations", before.Presentations,
		"results", before.Results,
	)
	return requesttime.Now(ctx), nil
}

// Stats reports how many records the store currently holds.
func (s *Service) Stats(ctx context.Context) store.Stats {
	return s.store.Stats(ctx)
}
