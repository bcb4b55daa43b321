package handler

import (
	"net/url"
	"strconv"
	"strings"

	"medssi/internal/disclosure"
	"medssi/internal/verification/service"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	strutil "medssi/pkg/platform/strings"
	"medssi/pkg/validation"
)

const (
	defaultValidMinutes = 5
	// defaultCodePurpose is what the /v2 code route records when the verifier
	// gives no purpose. The compatibility route falls back to the session default.
	defaultCodePurpose = "Clinical research"
)

// CodeRequest is the /v2 verification code request, read from the query string.
type CodeRequest struct {
	VerifierID   string   `json:"verifierId" validate:"required,notblank,max=128"`
	VerifierName string   `json:"verifierName" validate:"required,notblank,max=256"`
	Purpose      string   `json:"purpose" validate:"max=512"`
	IALMin       string   `json:"ial_min"`
	Scope        string   `json:"scope"`
	Fields       []string `json:"fields"`
	ValidMinutes string   `json:"validMinutes"`

	validMinutes int
}

// codeRequestFromQuery maps query parameters onto a CodeRequest. fields may
// repeat or arrive comma-joined.
func codeRequestFromQuery(q url.Values) *CodeRequest {
	return &CodeRequest{
		VerifierID:   q.Get("verifierId"),
		VerifierName: q.Get("verifierName"),
		Purpose:      q.Get("purpose"),
		IALMin:       q.Get("ial_min"),
		Scope:        q.Get("scope"),
		Fields:       q["fields"],
		ValidMinutes: q.Get("validMinutes"),
	}
}

// Normalize applies business defaults and sanitizes inputs.
func (r *CodeRequest) Normalize() {
	if r == nil {
		return
	}
	r.VerifierID = strings.TrimSpace(r.VerifierID)
	r.VerifierName = strings.TrimSpace(r.VerifierName)
	r.Purpose = strings.TrimSpace(r.Purpose)
	if r.Purpose == "" {
		r.Purpose = defaultCodePurpose
	}
	r.IALMin = strings.TrimSpace(r.IALMin)
	if r.IALMin == "" {
		r.IALMin = id.IAL2.String()
	}
	r.Scope = strings.TrimSpace(r.Scope)
	if r.Scope == "" {
		r.Scope = disclosure.ScopeMedicalRecord.String()
	}
	r.Fields = strutil.SplitFields(r.Fields)
	r.ValidMinutes = strings.TrimSpace(r.ValidMinutes)
}

// Validate checks that the request is well-formed.
func (r *CodeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckSliceCount("fields", len(r.Fields), validation.MaxFields); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("field", r.Fields, validation.MaxFieldPathLength); err != nil {
		return err
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	r.validMinutes = defaultValidMinutes
	if r.ValidMinutes != "" {
		minutes, err := strconv.Atoi(r.ValidMinutes)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "validMinutes must be an integer")
		}
		r.validMinutes = minutes
	}
	if _, err := id.ParseAssuranceLevel(r.IALMin); err != nil {
		return err
	}
	if _, err := disclosure.ParseScope(r.Scope); err != nil {
		return err
	}
	return nil
}

// ToCommand converts the request to a service command. The /v2 route never
// falls back to default fields.
func (r *CodeRequest) ToCommand() (service.CreateCommand, error) {
	ial, err := id.ParseAssuranceLevel(r.IALMin)
	if err != nil {
		return service.CreateCommand{}, err
	}
	scope, err := disclosure.ParseScope(r.Scope)
	if err != nil {
		return service.CreateCommand{}, err
	}
	return service.CreateCommand{
		VerifierID:   r.VerifierID,
		VerifierName: r.VerifierName,
		Purpose:      r.Purpose,
		Scope:        scope,
		IAL:          ial,
		Fields:       r.Fields,
		ValidMinutes: r.validMinutes,
	}, nil
}

// OIDVPSessionRequest is the MODA-compatible session request body.
type OIDVPSessionRequest struct {
	VerifierID    string   `json:"verifierId" validate:"required,notblank,max=128"`
	VerifierName  string   `json:"verifierName" validate:"required,notblank,max=256"`
	Purpose       string   `json:"purpose" validate:"max=512"`
	Scope         string   `json:"scope"`
	IAL           string   `json:"ial"`
	Fields        []string `json:"fields"`
	ValidMinutes  *int     `json:"validMinutes"`
	TransactionID string   `json:"transactionId" validate:"max=64"`
	Ref           string   `json:"ref" validate:"max=256"`
}

// Normalize applies business defaults and sanitizes inputs.
func (r *OIDVPSessionRequest) Normalize() {
	if r == nil {
		return
	}
	r.VerifierID = strings.TrimSpace(r.VerifierID)
	r.VerifierName = strings.TrimSpace(r.VerifierName)
	r.Purpose = strings.TrimSpace(r.Purpose)
	r.Scope = strings.TrimSpace(r.Scope)
	if r.Scope == "" {
		r.Scope = disclosure.ScopeMedicalRecord.String()
	}
	r.IAL = strings.TrimSpace(r.IAL)
	if r.IAL == "" {
		r.IAL = id.IAL2.String()
	}
	r.Fields = strutil.SplitFields(r.Fields)
	if r.ValidMinutes == nil {
		minutes := defaultValidMinutes
		r.ValidMinutes = &minutes
	}
	r.TransactionID = strings.TrimSpace(r.TransactionID)
	r.Ref = strings.TrimSpace(r.Ref)
}

// Validate checks that the request is well-formed.
func (r *OIDVPSessionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckSliceCount("fields", len(r.Fields), validation.MaxFields); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("field", r.Fields, validation.MaxFieldPathLength); err != nil {
		return err
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	if _, err := id.ParseAssuranceLevel(r.IAL); err != nil {
		return err
	}
	if _, err := disclosure.ParseScope(r.Scope); err != nil {
		return err
	}
	return nil
}

// ToCommand converts the request to a service command. Empty fields fall
// back to the scope's default policy.
func (r *OIDVPSessionRequest) ToCommand() (service.CreateCommand, error) {
	ial, err := id.ParseAssuranceLevel(r.IAL)
	if err != nil {
		return service.CreateCommand{}, err
	}
	scope, err := disclosure.ParseScope(r.Scope)
	if err != nil {
		return service.CreateCommand{}, err
	}
	return service.CreateCommand{
		VerifierID:         r.VerifierID,
		VerifierName:       r.VerifierName,
		Purpose:            r.Purpose,
		Scope:              scope,
		IAL:                ial,
		Fields:             r.Fields,
		ValidMinutes:       *r.ValidMinutes,
		TransactionID:      r.TransactionID,
		TemplateRef:        r.Ref,
		FallbackToDefaults: true,
	}, nil
}

// OIDVPResultRequest polls for the result behind a transaction id.
type OIDVPResultRequest struct {
	TransactionID string `json:"transactionId" validate:"required,notblank,max=64"`
}

// Normalize applies business defaults and sanitizes inputs.
func (r *OIDVPResultRequest) Normalize() {
	if r == nil {
		return
	}
	r.TransactionID = strings.TrimSpace(r.TransactionID)
}

// Validate checks that the request is well-formed.
func (r *OIDVPResultRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}
