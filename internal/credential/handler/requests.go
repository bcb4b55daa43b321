package handler

import (
	"strings"

	"medssi/internal/credential/models"
	"medssi/internal/credential/service"
	"medssi/internal/disclosure"
	"medssi/internal/payload"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	strutil "medssi/pkg/platform/strings"
	"medssi/pkg/validation"
)

// HTTP Request DTOs - contain JSON tags for API serialization.
// These are converted to service commands before processing.

const defaultValidMinutes = 5

// IssueRequest is accepted by both the /v2 and the compatibility issuance
// routes. Field names follow the MODA sandbox camelCase contract.
type IssueRequest struct {
	IssuerID           string              `json:"issuerId" validate:"required,notblank,max=128"`
	HolderDID          string              `json:"holderDid" validate:"max=256"`
	HolderHint         string              `json:"holderHint" validate:"max=256"`
	IAL                string              `json:"ial"`
	PrimaryScope       string              `json:"primaryScope"`
	Payload            payload.Node        `json:"payload"`
	PayloadTemplate    payload.Node        `json:"payloadTemplate"`
	DisclosurePolicies []disclosure.Policy `json:"disclosurePolicies"`
	ValidMinutes       *int                `json:"validMinutes"`
	TransactionID      string              `json:"transactionId" validate:"max=64"`
}

// Normalize applies business defaults and sanitizes inputs.
func (r *IssueRequest) Normalize() {
	if r == nil {
		return
	}
	r.IssuerID = strings.TrimSpace(r.IssuerID)
	r.HolderDID = strings.TrimSpace(r.HolderDID)
	r.HolderHint = strings.TrimSpace(r.HolderHint)
	r.TransactionID = strings.TrimSpace(r.TransactionID)
	r.IAL = strings.TrimSpace(r.IAL)
	if r.IAL == "" {
		r.IAL = id.IAL2.String()
	}
	r.PrimaryScope = strings.TrimSpace(r.PrimaryScope)
	if r.PrimaryScope == "" {
		r.PrimaryScope = disclosure.ScopeMedicalRecord.String()
	}
	if r.ValidMinutes == nil {
		minutes := defaultValidMinutes
		r.ValidMinutes = &minutes
	}
	for i := range r.DisclosurePolicies {
		p := &r.DisclosurePolicies[i]
		p.Scope = disclosure.Scope(strings.ToUpper(strings.TrimSpace(string(p.Scope))))
		p.Fields = strutil.DedupeAndTrim(p.Fields)
		p.Description = strings.TrimSpace(p.Description)
	}
}

// Validate checks that the request is well-formed. Policy set invariants are
// enforced by the domain so the error codes stay stable across transports.
func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckSliceCount("disclosure policies", len(r.DisclosurePolicies), validation.MaxPolicies); err != nil {
		return err
	}
	for _, p := range r.DisclosurePolicies {
		if err := validation.CheckSliceCount("policy fields", len(p.Fields), validation.MaxFields); err != nil {
			return err
		}
		if err := validation.CheckEachStringLength("policy field", p.Fields, validation.MaxFieldPathLength); err != nil {
			return err
		}
		if !p.Scope.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown disclosure scope: "+string(p.Scope))
		}
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	if _, err := id.ParseAssuranceLevel(r.IAL); err != nil {
		return err
	}
	if _, err := disclosure.ParseScope(r.PrimaryScope); err != nil {
		return err
	}
	return nil
}

// ToCommand converts the HTTP request to a service command for mode.
// WITHOUT_DATA offers ignore any inline payload.
func (r *IssueRequest) ToCommand(mode models.Mode) (service.IssueCommand, error) {
	ial, err := id.ParseAssuranceLevel(r.IAL)
	if err != nil {
		return service.IssueCommand{}, err
	}
	scope, err := disclosure.ParseScope(r.PrimaryScope)
	if err != nil {
		return service.IssueCommand{}, err
	}
	cmd := service.IssueCommand{
		IssuerID:      r.IssuerID,
		Scope:         scope,
		IAL:           ial,
		Mode:          mode,
		Policies:      r.DisclosurePolicies,
		ValidMinutes:  *r.ValidMinutes,
		HolderDID:     r.HolderDID,
		HolderHint:    r.HolderHint,
		TransactionID: r.TransactionID,
	}
	switch mode {
	case models.ModeWithData:
		cmd.Payload = r.Payload
	case models.ModeWithoutData:
		cmd.PayloadTemplate = r.PayloadTemplate
	}
	return cmd, nil
}

// ActionRequest is a wallet action against an offer.
type ActionRequest struct {
	Action      string                  `json:"action" validate:"required,notblank"`
	HolderDID   string                  `json:"holder_did" validate:"max=256"`
	Payload     payload.Node            `json:"payload"`
	Disclosures map[string]payload.Node `json:"disclosures"`
}

// Normalize applies business defaults and sanitizes inputs.
func (r *ActionRequest) Normalize() {
	if r == nil {
		return
	}
	r.Action = strings.ToUpper(strings.TrimSpace(r.Action))
	r.HolderDID = strings.TrimSpace(r.HolderDID)
}

// Validate checks that the request is well-formed. Unknown actions are
// reported by the service as unsupported_action.
func (r *ActionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckSliceCount("disclosures", len(r.Disclosures), validation.MaxFields); err != nil {
		return err
	}
	for field := range r.Disclosures {
		if len(field) > validation.MaxFieldPathLength {
			return dErrors.New(dErrors.CodeValidation, "disclosure field exceeds max length")
		}
	}
	if _, rejected := payload.ScalarStrings(r.Disclosures); len(rejected) > 0 {
		return dErrors.WithFields(dErrors.CodeValidation, "disclosure values must be scalars", rejected)
	}
	return validation.Validate(r)
}

// ToCommand converts the HTTP request to a service command.
func (r *ActionRequest) ToCommand() service.ActionCommand {
	disclosures, _ := payload.ScalarStrings(r.Disclosures)
	return service.ActionCommand{
		Action:      models.Action(r.Action),
		HolderDID:   r.HolderDID,
		Payload:     r.Payload,
		Disclosures: disclosures,
	}
}
