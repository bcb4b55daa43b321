package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	dErrors "medssi/pkg/domain-errors"
)

// Publisher appends audit events to a Store, either inline or through a
// bounded queue drained by one goroutine.
type Publisher struct {
	store  Store
	logger *slog.Logger
	events *prometheus.CounterVec

	queue     chan Event
	drained   sync.WaitGroup
	closeOnce sync.Once
	closed    atomic.Bool
	dropped   atomic.Uint64
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues up to size events. A full queue drops the event
// and Emit reports it.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan Event, size)
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPublisherMetrics counts events by outcome (stored, dropped, failed).
func WithPublisherMetrics(reg prometheus.Registerer) PublisherOption {
	return func(p *Publisher) {
		p.events = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_audit_events_total",
			Help: "Audit events by outcome",
		}, []string{"outcome"})
		if reg != nil {
			reg.MustRegister(p.events)
		}
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.drained.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.drained.Done()
	for event := range p.queue {
		p.persist(context.Background(), event)
	}
}

func (p *Publisher) persist(ctx context.Context, event Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		p.count("failed")
		p.logger.ErrorContext(ctx, "failed to persist audit event",
			"error", err,
			"action", event.Action,
			"subject", event.Subject,
		)
		return err
	}
	p.count("stored")
	return nil
}

func (p *Publisher) count(outcome string) {
	if p.events != nil {
		p.events.WithLabelValues(outcome).Inc()
	}
}

// Close stops accepting queued events and waits until the queue is drained.
// Events emitted afterwards are written inline.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if p.queue != nil {
			close(p.queue)
			p.drained.Wait()
		}
	})
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if p.queue == nil || p.closed.Load() {
		return p.persist(ctx, event)
	}

	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		p.count("dropped")
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action,
			"subject", event.Subject,
		)
		return dErrors.New(dErrors.CodeInternal, "audit buffer full")
	}
}

// Dropped reports how many events were lost to a full queue.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Check fails while the queue is saturated. Used as a readiness probe.
func (p *Publisher) Check(_ context.Context) error {
	if p.queue == nil {
		return nil
	}
	if n := len(p.queue); n >= cap(p.queue) {
		return fmt.Errorf("audit queue saturated (%d events pending)", n)
	}
	return nil
}

func (p *Publisher) ListBySubject(ctx context.Context, subject string) ([]Event, error) {
	return p.store.ListBySubject(ctx, subject)
}
