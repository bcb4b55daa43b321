package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"medssi/internal/store"
	"medssi/pkg/platform/middleware/requesttime"
)

// ExpiryStore exposes removal of credentials and sessions whose lifecycle
// has ended. Implementations must be idempotent and succeed on an empty store.
type ExpiryStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (store.SweepResult, error)
}

// Metrics counts records removed by the sweeper.
type Metrics struct {
	Removed *prometheus.CounterVec
	Runs    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Removed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medssi_sweep_removed_total",
			Help: "Total number of records removed by the expiry sweep, labeled by kind",
		}, []string{"kind"}),
		Runs: factory.NewCounter(prometheus.CounterOpts{
			Name: "medssi_sweep_runs_total",
			Help: "Total number of expiry sweeps run",
		}),
	}
}

func (m *Metrics) record(res store.SweepResult) {
	m.Runs.Inc()
	m.Removed.WithLabelValues("credential").Add(float64(res.Credentials))
	m.Removed.WithLabelValues("session").Add(float64(res.Sessions))
	m.Removed.WithLabelValues("presentation").Add(float64(res.Presentations))
	m.Removed.WithLabelValues("result").Add(float64(res.Results))
}

// Sweeper removes expired sandbox state, either on a ticker or in front of
// every request.
type Sweeper struct {
	store    ExpiryStore
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	metrics  *Metrics

	// lastTick is the unix-nano time of the latest background sweep.
	lastTick atomic.Int64
}

type Option func(*Sweeper)

// WithInterval overrides the ticker interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the wall clock used by background sweeps.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

func New(expiryStore ExpiryStore, opts ...Option) (*Sweeper, error) {
	if expiryStore == nil {
		return nil, fmt.Errorf("expiry store is required")
	}
	s := &Sweeper{
		store:    expiryStore,
		interval: time.Minute,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Start sweeps periodically until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.lastTick.Store(s.now().UnixNano())

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "expiry sweep failed", "error", err)
				continue
			}
			s.lastTick.Store(s.now().UnixNano())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Check fails when the background loop has not completed a sweep for three
// intervals. A sweeper that was never started passes.
func (s *Sweeper) Check(_ context.Context) error {
	last := s.lastTick.Load()
	if last == 0 {
		return nil
	}
	if behind := s.now().Sub(time.Unix(0, last)); behind > 3*s.interval {
		return fmt.Errorf("last sweep %s ago", behind.Truncate(time.Second))
	}
	return nil
}

// RunOnce sweeps at the sweeper's clock.
func (s *Sweeper) RunOnce(ctx context.Context) (store.SweepResult, error) {
	return s.SweepAt(ctx, s.now())
}

// SweepAt removes everything whose lifecycle predicate is false at now.
func (s *Sweeper) SweepAt(ctx context.Context, now time.Time) (store.SweepResult, error) {
	res, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		return store.SweepResult{}, fmt.Errorf("delete expired records: %w", err)
	}
	if s.metrics != nil {
		s.metrics.record(res)
	}
	if res.Total() > 0 {
		s.logger.InfoContext(ctx, "expired records removed",
			"credentials", res.Credentials,
			"sessions", res.Sessions,
			"presentations", res.Presentations,
			"results", res.Results,
		)
	}
	return res, nil
}

// Middleware sweeps at the request time before handing the request on.
// A failed sweep is logged and never blocks the request.
func (s *Sweeper) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, err := s.SweepAt(ctx, requesttime.Now(ctx)); err != nil {
			s.logger.WarnContext(ctx, "pre-request sweep failed", "error", err)
		}
		next.ServeHTTP(w, r)
	})
}
