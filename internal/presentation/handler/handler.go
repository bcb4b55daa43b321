package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medssi/internal/presentation/models"
	"medssi/pkg/platform/httputil"
	"medssi/pkg/requestcontext"
)

// Service defines the interface for presentation verification.
type Service interface {
	Submit(ctx context.Context, sub models.Submission) (*models.Outcome, error)
}

// Handler handles presentation submission.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new presentation Handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterVerifier registers the presentation route.
func (h *Handler) RegisterVerifier(r chi.Router) {
	r.Post("/v2/api/did/vp/result", h.HandleSubmit)
}

// HandleSubmit verifies a presentation against its session.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sub, err := req.ToSubmission()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	outcome, err := h.service.Submit(ctx, sub)
	if err != nil {
		h.logger.WarnContext(ctx, "presentation rejected",
			"request_id", requestID,
			"session_id", req.SessionID,
			"credential_id", req.CredentialID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "presentation verified",
		"request_id", requestID,
		"presentation_id", outcome.Presentation.ID.String(),
		"fields", len(outcome.Presentation.Disclosed),
	)
	httputil.WriteJSON(w, http.StatusOK, toSubmitResponse(outcome))
}
