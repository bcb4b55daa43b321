package domainerrors

import (
	"errors"
	"slices"
)

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_failed"
	CodeInternal           Code = "internal_error"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"

	// Disclosure policy set is malformed.
	CodePolicyEmpty          Code = "policy_empty"
	CodePolicyDuplicateScope Code = "policy_duplicate_scope"
	CodePolicyFieldsEmpty    Code = "policy_fields_empty"

	// Acceptance / update preconditions.
	CodeHolderRequired    Code = "holder_required"
	CodePayloadRequired   Code = "payload_required"
	CodeDisclosureInvalid Code = "disclosure_invalid"
	CodeNotIssued         Code = "not_issued"
	CodeUnsupportedAction Code = "unsupported_action"

	// Unknown identifiers.
	CodeCredentialNotFound  Code = "credential_not_found"
	CodeSessionNotFound     Code = "session_not_found"
	CodeTransactionNotFound Code = "transaction_not_found"

	// Lapsed time windows.
	CodeOfferExpired   Code = "offer_expired"
	CodeSessionExpired Code = "session_expired"

	// Wrong lifecycle state.
	CodeCredentialNotIssued Code = "credential_not_issued"
	CodeCredentialRevoked   Code = "credential_revoked"
	CodeCredentialDeclined  Code = "credential_declined"
	CodeResultPending       Code = "result_pending"

	// Presentation integrity.
	CodeAssuranceInsufficient Code = "assurance_insufficient"
	CodeHolderMismatch        Code = "holder_mismatch"
	CodeFieldsNotAuthorized   Code = "fields_not_authorized"
	CodeFieldsNotConsented    Code = "fields_not_consented"
	CodeValueMismatch         Code = "value_mismatch"

	// Malformed request content.
	CodeFieldsRequired       Code = "fields_required"
	CodeTransactionIDInvalid Code = "transaction_id_invalid"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
// Fields names the offending field paths when the failure concerns specific fields.
type Error struct {
	Code    Code
	Message string
	Fields  []string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// WithFields creates a domain error that names the offending fields.
// The field list is copied so callers may reuse their slice.
func WithFields(code Code, msg string, fields []string) error {
	return &Error{Code: code, Message: msg, Fields: slices.Clone(fields)}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Fields: existing.Fields, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// FieldsOf returns the offending fields carried by a domain error, if any.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
