package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"medssi/internal/credential/models"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/httputil"
	"medssi/pkg/requestcontext"
)

// compatRevocation is the only action the MODA sandbox accepts on
// PUT /api/credential/{id}/{action}.
const compatRevocation = "revocation"

// RegisterCompatIssuer registers the MODA-compatible issuer routes.
func (h *Handler) RegisterCompatIssuer(r chi.Router) {
	r.Post("/api/qrcode/data", h.HandleGovIssueWithData)
	r.Post("/api/medical/card/issue", h.HandleGovIssueWithData)
	r.Post("/api/qrcode/nodata", h.HandleGovIssueWithoutData)
	r.Put("/api/credential/{credential_id}/{action}", h.HandleGovCredentialAction)
}

// RegisterCompatWallet registers the MODA-compatible wallet routes.
func (h *Handler) RegisterCompatWallet(r chi.Router) {
	r.Get("/api/credential/nonce/{transaction_id}", h.HandleGovNonce)
	r.Get("/api/credential/nonce", h.HandleGovNonce)
}

func (h *Handler) HandleGovIssueWithData(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.issue(w, r, models.ModeWithData)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toGovIssueResponse(offer))
}

func (h *Handler) HandleGovIssueWithoutData(w http.ResponseWriter, r *http.Request) {
	offer, ok := h.issue(w, r, models.ModeWithoutData)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toGovIssueResponse(offer))
}

// HandleGovNonce is the lenient transaction lookup. The transaction id comes
// from the path or, on the query form, from ?transactionId=.
func (h *Handler) HandleGovNonce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	transactionID := chi.URLParam(r, "transaction_id")
	if transactionID == "" {
		transactionID = r.URL.Query().Get("transactionId")
	}

	lookup, err := h.service.LookupTransaction(ctx, transactionID)
	if err != nil {
		h.logger.WarnContext(ctx, "transaction lookup failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toGovNonceResponse(lookup))
}

// HandleGovCredentialAction supports revocation only. The action is checked
// before the credential is looked up.
func (h *Handler) HandleGovCredentialAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	credentialID := chi.URLParam(r, "credential_id")
	action := chi.URLParam(r, "action")

	if !strings.EqualFold(action, compatRevocation) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnsupportedAction, "action "+action+" is not supported"))
		return
	}

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
	httputil.WriteJSON(w, http.StatusOK, GovRevokeResponse{
		CredentialStatus: offer.Status,
		CredentialID:     offer.ID.String(),
	})
}
