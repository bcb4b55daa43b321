package request

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medssi/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	capture := func(captured *string) http.Handler {
		return RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*captured = requestcontext.RequestID(r.Context())
		}))
	}

	t.Run("generates UUID when no header provided", func(t *testing.T) {
		var id string
		w := httptest.NewRecorder()
		capture(&id).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/api/credential/nonce", nil))

		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Header().Get("X-Request-ID"))
	})

	t.Run("accepts valid client-provided ID", func(t *testing.T) {
		var id string
		req := httptest.NewRequest(http.MethodGet, "/v2/api/credential/nonce", nil)
		req.Header.Set("X-Request-ID", "wallet.trace_42")
		capture(&id).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "wallet.trace_42", id)
	})

	t.Run("replaces unsafe IDs", func(t *testing.T) {
		for _, bad := range []string{"has space", "has\nnewline", strings.Repeat("x", MaxRequestIDLength+1)} {
			var id string
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", bad)
			capture(&id).ServeHTTP(httptest.NewRecorder(), req)
			assert.NotEqual(t, bad, id)
			assert.Len(t, id, 36)
		}
	})
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v2/api/did/vp/result", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}

func TestContentTypeJSON(t *testing.T) {
	ok := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v2/api/qrcode/data", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	ok.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	for _, ct := range []string{"application/json; charset=utf-8", "application/merge-patch+json", ""} {
		req = httptest.NewRequest(http.MethodPost, "/v2/api/qrcode/data", strings.NewReader("{}"))
		req.Header.Set("Content-Type", ct)
		w = httptest.NewRecorder()
		ok.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code, ct)
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var deadline bool
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, deadline)

	expired := Timeout(time.Nanosecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		assert.ErrorIs(t, r.Context().Err(), context.DeadlineExceeded)
	}))
	expired.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	respond := func(status int) http.Handler {
		return Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{}`))
		}))
	}

	respond(http.StatusNotFound).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v2/api/credential/nonce", nil))
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"bytes":2`)

	buf.Reset()
	respond(http.StatusOK).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, buf.String())

	respond(http.StatusInternalServerError).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	handler := BodyLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100))))
	require.NoError(t, readErr)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 200))))
	require.Error(t, readErr)
	assert.Contains(t, readErr.Error(), "request body too large")
}

func TestLatencyMiddlewareUsesRoutePattern(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(LatencyMiddleware(m))
	r.Get("/v2/api/wallet/{holderDID}/credentials", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v2/api/wallet/did:example:alice/credentials", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Responses.WithLabelValues("/v2/api/wallet/{holderDID}/credentials", "200")))
}
