package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medssi/pkg/domain-errors"
)

type sessionRequest struct {
	VerifierID   string `json:"verifierId"`
	ValidMinutes int    `json:"validMinutes"`
}

type preparedRequest struct {
	VerifierID string `json:"verifierId"`
	normalized bool
}

func (r *preparedRequest) Normalize() {
	r.normalized = true
	r.VerifierID = strings.TrimSpace(r.VerifierID)
}

func (r *preparedRequest) Validate() error {
	if r.VerifierID == "" {
		return errors.New("verifierId is required")
	}
	return nil
}

type domainValidatedRequest struct {
	SessionID string `json:"session_id"`
}

func (r *domainValidatedRequest) Validate() error {
	if r.SessionID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "session_id is required")
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		description string
	}{
		{"empty body", "", "request body is empty"},
		{"truncated body", `{"verifierId":"v1"`, "request body is truncated"},
		{"syntax error", `{"verifierId":}`, "malformed JSON at offset"},
		{"wrong field type", `{"validMinutes":"five"}`, "validMinutes must be of type int"},
		{"two values", `{"verifierId":"a"} {"verifierId":"b"}`, "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/oidvp/qrcode", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			result, ok := DecodeJSON[sessionRequest](w, req, quietLogger(), context.Background(), "req-1")

			assert.False(t, ok)
			assert.Nil(t, result)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, "bad_request", resp.Error)
			assert.Contains(t, resp.ErrorDescription, tt.description)
		})
	}

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/oidvp/qrcode", strings.NewReader(`{"verifierId":"v1","validMinutes":5}`))

		result, ok := DecodeJSON[sessionRequest](httptest.NewRecorder(), req, quietLogger(), context.Background(), "req-1")

		require.True(t, ok)
		assert.Equal(t, sessionRequest{VerifierID: "v1", ValidMinutes: 5}, *result)
	})

	t.Run("body too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"verifierId":"`+strings.Repeat("x", 64)+`"}`))
		w := httptest.NewRecorder()
		req.Body = http.MaxBytesReader(w, req.Body, 16)

		_, ok := DecodeJSON[sessionRequest](w, req, quietLogger(), context.Background(), "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "request body exceeds 16 bytes", decodeError(t, w).ErrorDescription)
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("normalizes before validating", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"verifierId":"  v1  "}`))

		result, ok := DecodeAndPrepare[preparedRequest](httptest.NewRecorder(), req, quietLogger(), context.Background(), "req-1")

		require.True(t, ok)
		assert.True(t, result.normalized)
		assert.Equal(t, "v1", result.VerifierID)
	})

	t.Run("plain validation error becomes validation_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"verifierId":"   "}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[preparedRequest](w, req, quietLogger(), context.Background(), "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Equal(t, "verifierId is required", resp.ErrorDescription)
	})

	t.Run("domain error code is preserved", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[domainValidatedRequest](w, req, quietLogger(), context.Background(), "req-1")

		assert.False(t, ok)
		assert.Equal(t, "bad_request", decodeError(t, w).Error)
	})
}

func TestPrepareRequest(t *testing.T) {
	assert.NoError(t, PrepareRequest(&sessionRequest{}))
	assert.EqualError(t, PrepareRequest(&preparedRequest{}), "verifierId is required")
	assert.NoError(t, PrepareRequest(&preparedRequest{VerifierID: "v1"}))
}
