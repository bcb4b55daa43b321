package handler

import (
	"strings"

	"medssi/internal/payload"
	"medssi/internal/presentation/models"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/validation"
)

// SubmitRequest is a holder presentation relayed by the verifier.
type SubmitRequest struct {
	SessionID       string                  `json:"session_id" validate:"required,notblank,max=128"`
	CredentialID    string                  `json:"credential_id" validate:"required,notblank,max=128"`
	HolderDID       string                  `json:"holder_did" validate:"required,notblank,max=512"`
	DisclosedFields map[string]payload.Node `json:"disclosed_fields"`
}

// Normalize applies business defaults and sanitizes inputs.
func (r *SubmitRequest) Normalize() {
	if r == nil {
		return
	}
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.CredentialID = strings.TrimSpace(r.CredentialID)
	r.HolderDID = strings.TrimSpace(r.HolderDID)
	if len(r.DisclosedFields) == 0 {
		return
	}
	trimmed := make(map[string]payload.Node, len(r.DisclosedFields))
	for field, value := range r.DisclosedFields {
		trimmed[strings.TrimSpace(field)] = value
	}
	r.DisclosedFields = trimmed
}

// Validate checks that the request is well-formed.
func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckSliceCount("disclosed_fields", len(r.DisclosedFields), validation.MaxFields); err != nil {
		return err
	}
	for field := range r.DisclosedFields {
		if field == "" {
			return dErrors.New(dErrors.CodeValidation, "disclosed field names must not be blank")
		}
		if len(field) > validation.MaxFieldPathLength {
			return dErrors.New(dErrors.CodeValidation, "disclosed field exceeds max length")
		}
	}
	if _, rejected := payload.ScalarStrings(r.DisclosedFields); len(rejected) > 0 {
		return dErrors.WithFields(dErrors.CodeValidation, "disclosed values must be scalars", rejected)
	}
	return validation.Validate(r)
}

// ToSubmission converts the request to the domain submission.
func (r *SubmitRequest) ToSubmission() (models.Submission, error) {
	sessionID, err := id.ParseSessionID(r.SessionID)
	if err != nil {
		return models.Submission{}, err
	}
	credentialID, err := id.ParseCredentialID(r.CredentialID)
	if err != nil {
		return models.Submission{}, err
	}
	disclosed, _ := payload.ScalarStrings(r.DisclosedFields)
	return models.Submission{
		SessionID:    sessionID,
		CredentialID: credentialID,
		HolderDID:    r.HolderDID,
		Disclosed:    disclosed,
	}, nil
}
