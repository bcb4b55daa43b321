package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"medssi/internal/credential/models"
	"medssi/internal/credential/service"
	"medssi/internal/store"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/httputil"
	"medssi/pkg/requestcontext"
)

// Service defines the interface for credential lifecycle operations.
type Service interface {
	Issue(ctx context.Context, cmd service.IssueCommand) (*models.Offer, error)
	Nonce(ctx context.Context, rawTransactionID string) (*models.Offer, error)
	LookupTransaction(ctx context.Context, rawTransactionID string) (*service.TransactionLookup, error)
	Act(ctx context.Context, rawCredentialID string, cmd service.ActionCommand) (*models.Offer, error)
	Revoke(ctx context.Context, rawCredentialID string) (*models.Offer, error)
	Delete(ctx context.Context, rawCredentialID string) error
	ListForHolder(ctx context.Context, holderDID string) ([]*models.Offer, error)
	Forget(ctx context.Context, holderDID string) (store.ForgetSummary, error)
}

// Handler handles credential issuance and wallet endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new credential Handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterIssuer registers the /v2 issuer routes. Callers wrap r with the
// issuer token check.
func (h *Handler) RegisterIssuer(r chi.Router) {
	r.Post("/v2/api/qrcode/data", h.HandleIssueWithData)
	r.Post("/v2/api/qrcode/nodata", h.HandleIssueWithoutData)
	r.Post("/v2/api/credentials/{credential_id}/revoke", h.HandleRevoke)
	r.Delete("/v2/api/credentials/{credential_id}", h.HandleDelete)
}

// RegisterWallet registers the /v2 wallet routes.
func (h *Handler) RegisterWallet(r chi.Router) {
	r.Get("/v2/api/credential/nonce", h.HandleNonce)
	r.Put("/v2/api/credential/{credential_id}/action", h.HandleAction)
	r.Get("/v2/api/wallet/{holder_did}/credentials", h.HandleListHolderCredentials)
	r.Delete("/v2/api/wallet/{holder_did}/forget", h.HandleForgetHolder)
}

// HandleIssueWithData creates a WITH_DATA offer.
func (h *Handler) HandleIssueWithData(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.issue(w, r, models.ModeWithData)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIssueResponse(offer))
}

// HandleIssueWithoutData creates a WITHOUT_DATA offer.
func (h *Handler) HandleIssueWithoutData(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.issue(w, r, models.ModeWithoutData)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIssueResponse(offer))
}

// issue decodes an IssueRequest and runs it; on failure the error response
// has already been written.
func (h *Handler) issue(w http.ResponseWriter, r *http.Request, mode models.Mode) (*models.Offer, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return nil, false
	}
	cmd, err := req.ToCommand(mode)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}

	offer, err := h.service.Issue(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to issue credential offer",
			"request_id", requestID,
			"mode", string(mode),
			"error", err,
		)
		httputil.WriteError(w, err)
		return nil, false
	}
	return offer, true
}

// HandleNonce is the strict wallet transaction lookup.
func (h *Handler) HandleNonce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	transactionID := r.URL.Query().Get("transactionId")
	if transactionID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "transactionId is required"))
		return
	}

	offer, err := h.service.Nonce(ctx, transactionID)
	if err != nil {
		h.logger.WarnContext(ctx, "nonce lookup failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNonceResponse(offer))
}

// HandleAction applies ACCEPT, DECLINE, REVOKE or UPDATE from the wallet.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID := chi.URLParam(r, "credential_id")

	req, ok := httputil.DecodeAndPrepare[ActionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	offer, err := h.service.Act(ctx, credentialID, req.ToCommand())
	if err != nil {
		h.logger.WarnContext(ctx, "credential action rejected",
			"request_id", requestID,
			"credential_id", credentialID,
			"action", req.Action,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOfferResponse(offer))
}

// HandleRevoke is the issuer-side revocation.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID := chi.URLParam(r, "credential_id")

	offer, err := h.service.Revoke(ctx, credentialID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to revoke credential",
			"request_id", requestID,
			"credential_id", credentialID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOfferResponse(offer))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID := chi.URLParam(r, "credential_id")

	if err := h.service.Delete(ctx, credentialID); err != nil {
		h.logger.WarnContext(ctx, "failed to delete credential",
			"request_id", requestID,
			"credential_id", credentialID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DeleteResponse{
		CredentialID: credentialID,
		Status:       "DELETED",
	})
}

func (h *Handler) HandleListHolderCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	holderDID, err := holderParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	offers, err := h.service.ListForHolder(ctx, holderDID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list holder credentials",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOfferResponses(offers))
}

// HandleForgetHolder erases every credential bound to the holder.
func (h *Handler) HandleForgetHolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	holderDID, err := holderParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summary, err := h.service.Forget(ctx, holderDID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to forget holder",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toForgetResponse(summary))
}

// holderParam reads the holder DID path segment. DIDs contain colons that
// clients may percent-encode.
func holderParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "holder_did")
	holderDID, err := url.PathUnescape(raw)
	if err != nil || holderDID == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid holder DID")
	}
	return holderDID, nil
}
