package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	dErrors "medssi/pkg/domain-errors"
)

// DecodeJSON reads exactly one JSON value from the request body into a T.
// On failure it writes the error response itself and returns nil, false.
//
//	req, ok := httputil.DecodeJSON[SubmitRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)
	if err == nil && dec.More() {
		err = errTrailingData
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:            "request_too_large",
				ErrorDescription: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return nil, false
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, describeDecodeError(err)))
		return nil, false
	}
	return &req, true
}

var errTrailingData = errors.New("trailing data after JSON body")

// describeDecodeError turns a decoder failure into a message safe to echo
// back to the caller.
func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "request body is truncated"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)
	case errors.Is(err, errTrailingData):
		return "request body must hold a single JSON value"
	default:
		return "invalid request body"
	}
}

// Validatable is implemented by request types that check their own fields.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that trim or default fields
// before validation.
type Normalizable interface {
	Normalize()
}

// PrepareRequest normalizes then validates req.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare is DecodeJSON followed by PrepareRequest. Validation
// errors that are not domain errors are reported as validation failures.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}

	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		var domainErr *dErrors.Error
		if !errors.As(err, &domainErr) {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
