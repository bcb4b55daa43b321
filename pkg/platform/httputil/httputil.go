package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "medssi/pkg/domain-errors"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description,omitempty"`
	Fields           []string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := ErrorResponse{
			Error:  DomainCodeToHTTPCode(domainErr.Code),
			Fields: domainErr.Fields,
		}
		// Internal details never leave the process.
		if !isServerFault(domainErr.Code) {
			response.ErrorDescription = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

func isServerFault(code dErrors.Code) bool {
	return code == dErrors.CodeInternal || code == dErrors.CodeInvariantViolation
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeCredentialNotFound, dErrors.CodeSessionNotFound, dErrors.CodeTransactionNotFound:
		return http.StatusNotFound
	case dErrors.CodeOfferExpired, dErrors.CodeSessionExpired:
		return http.StatusGone
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeAssuranceInsufficient, dErrors.CodeHolderMismatch:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeInternal, dErrors.CodeInvariantViolation:
		return http.StatusInternalServerError
	case dErrors.CodeBadRequest, dErrors.CodeValidation,
		dErrors.CodePolicyEmpty, dErrors.CodePolicyDuplicateScope, dErrors.CodePolicyFieldsEmpty,
		dErrors.CodeHolderRequired, dErrors.CodePayloadRequired, dErrors.CodeDisclosureInvalid,
		dErrors.CodeNotIssued, dErrors.CodeUnsupportedAction,
		dErrors.CodeCredentialNotIssued, dErrors.CodeCredentialRevoked, dErrors.CodeCredentialDeclined,
		dErrors.CodeResultPending,
		dErrors.CodeFieldsNotAuthorized, dErrors.CodeFieldsNotConsented, dErrors.CodeValueMismatch,
		dErrors.CodeFieldsRequired, dErrors.CodeTransactionIDInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to HTTP error codes (for JSON response).
// Taxonomy codes are already wire-safe and pass through unchanged.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeInvariantViolation, dErrors.CodeInternal, "":
		return "internal_error"
	case dErrors.CodeTimeout:
		return "timeout"
	default:
		return string(code)
	}
}
