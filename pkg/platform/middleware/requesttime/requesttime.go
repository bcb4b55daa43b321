// Package requesttime pins one "now" per request so every expiry comparison
// made while serving it agrees.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type contextKeyRequestTime struct{}

// Clock returns the current time.
type Clock func() time.Time

// Middleware stamps each request with the wall-clock time.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock stamps each request with the time reported by clock.
// Handler tests use it to freeze or advance the sandbox clock.
func WithClock(clock Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() outside a request (workers, CLI).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}
