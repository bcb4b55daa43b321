package sandbox

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medssi/pkg/platform/httputil"
	"medssi/pkg/requestcontext"
)

const resetMessage = "MedSSI in-memory store reset"

// Handler serves the sandbox maintenance endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register registers the maintenance routes. Any configured role may call them.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v2/api/system/reset", h.HandleReset)
	r.Get("/v2/api/system/stats", h.HandleStats)
}

type ResetResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	at, err := h.service.Reset(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sandbox reset failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sandbox store reset",
		"request_id", requestID,
		"role", requestcontext.Role(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, ResetResponse{Message: resetMessage, Timestamp: at})
}

// HandleStats returns record counts for the shared store.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Stats(r.Context()))
}
