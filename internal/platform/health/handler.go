// Package health serves the sandbox probes: /healthz for tooling, plus
// liveness, readiness and status endpoints for orchestrators.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"medssi/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// checkTimeout bounds a single readiness check.
const checkTimeout = 2 * time.Second

// Check reports whether a component (sweeper, audit queue) can serve.
type Check func(ctx context.Context) error

type namedCheck struct {
	name  string
	check Check
}

type Handler struct {
	startTime   time.Time
	environment string
	now         func() time.Time

	mu     sync.RWMutex
	checks []namedCheck
}

func New(environment string) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		now:         time.Now,
	}
}

// RegisterCheck adds a readiness check. Registering a name twice replaces
// the earlier check.
func (h *Handler) RegisterCheck(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.checks {
		if h.checks[i].name == name {
			h.checks[i].check = check
			return
		}
	}
	h.checks = append(h.checks, namedCheck{name: name, check: check})
	sort.Slice(h.checks, func(i, j int) bool { return h.checks[i].name < h.checks[j].name })
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealthz)
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

type HealthzResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthzResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every registered check concurrently and answers 503
// when any of them fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := append([]namedCheck(nil), h.checks...)
	h.mu.RUnlock()

	results := make([]string, len(checks))
	g, ctx := errgroup.WithContext(r.Context())
	for i, c := range checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			if err := c.check(checkCtx); err != nil {
				results[i] = "down: " + err.Error()
				return nil
			}
			results[i] = "up"
			return nil
		})
	}
	_ = g.Wait()

	response := ReadinessResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
	status := http.StatusOK
	for i, c := range checks {
		response.Checks[c.name] = results[i]
		if results[i] != "up" {
			response.Status = "not_ready"
			status = http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, status, response)
}

type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(now.Sub(h.startTime).Seconds()),
		Timestamp:     now.UTC().Format(time.RFC3339),
	})
}
