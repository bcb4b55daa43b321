package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medssi/internal/store"
	vmodels "medssi/internal/verification/models"
	"medssi/internal/verification/service"
	"medssi/pkg/platform/httputil"
	"medssi/pkg/requestcontext"
)

// Service defines the interface for verification session operations.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*vmodels.Session, error)
	Get(ctx context.Context, rawSessionID string) (*vmodels.Session, vmodels.Status, error)
	Purge(ctx context.Context, rawSessionID string) (store.PurgeSummary, error)
	Poll(ctx context.Context, rawTransactionID string) (*service.PollResult, error)
}

// Handler handles verifier session endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new verification Handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterVerifier registers the /v2 verifier routes.
func (h *Handler) RegisterVerifier(r chi.Router) {
	r.Get("/v2/api/did/vp/code", h.HandleCreateCode)
	r.Get("/v2/api/did/vp/session/{session_id}", h.HandleGetSession)
	r.Delete("/v2/api/did/vp/session/{session_id}", h.HandlePurgeSession)
}

// RegisterCompatVerifier registers the MODA-compatible OIDVP routes.
func (h *Handler) RegisterCompatVerifier(r chi.Router) {
	r.Post("/api/oidvp/qrcode", h.HandleOIDVPQRCode)
	r.Post("/api/oidvp/result", h.HandleOIDVPResult)
}

// HandleCreateCode opens a session from query parameters.
func (h *Handler) HandleCreateCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req := codeRequestFromQuery(r.URL.Query())
	if err := httputil.PrepareRequest(req); err != nil {
		h.logger.WarnContext(ctx, "invalid verification code request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Create(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create verification session",
			"request_id", requestID,
			"verifier_id", cmd.VerifierID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCodeResponse(session))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")

	session, status, err := h.service.Get(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "session lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SessionStatusResponse{
		Session: toSessionResponse(session),
		Status:  status,
	})
}

// HandlePurgeSession removes a session with its presentations and results.
func (h *Handler) HandlePurgeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sessionID := chi.URLParam(r, "session_id")

	summary, err := h.service.Purge(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to purge session",
			"request_id", requestID,
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPurgeResponse(sessionID, summary))
}

// HandleOIDVPQRCode opens a session from the MODA-style body. Missing fields
// fall back to the scope's default policy.
func (h *Handler) HandleOIDVPQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[OIDVPSessionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Create(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create oidvp session",
			"request_id", requestID,
			"verifier_id", cmd.VerifierID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toOIDVPQRCodeResponse(session))
}

// HandleOIDVPResult polls the latest result for a transaction.
func (h *Handler) HandleOIDVPResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[OIDVPResultRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	poll, err := h.service.Poll(ctx, req.TransactionID)
	if err != nil {
		h.logger.InfoContext(ctx, "oidvp poll returned no result",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOIDVPResultResponse(poll.Session.TransactionID.String(), poll.Result))
}
