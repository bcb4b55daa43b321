package handler

import (
	"time"

	"medssi/internal/presentation/models"
)

// PresentationResponse is the /v2 view of a verified presentation.
type PresentationResponse struct {
	PresentationID  string            `json:"presentation_id"`
	SessionID       string            `json:"session_id"`
	CredentialID    string            `json:"credential_id"`
	HolderDID       string            `json:"holder_did"`
	VerifierID      string            `json:"verifier_id"`
	Scope           string            `json:"scope"`
	DisclosedFields map[string]string `json:"disclosed_fields"`
	IssuedAt        time.Time         `json:"issued_at"`
	Nonce           string            `json:"nonce"`
}

// SubmitResponse carries the presentation and, when available, its insight.
type SubmitResponse struct {
	Presentation *PresentationResponse `json:"presentation"`
	Insight      *models.Insight       `json:"insight"`
}

func toSubmitResponse(o *models.Outcome) *SubmitResponse {
	p := o.Presentation
	return &SubmitResponse{
		Presentation: &PresentationResponse{
			PresentationID:  p.ID.String(),
			SessionID:       p.SessionID.String(),
			CredentialID:    p.CredentialID.String(),
			HolderDID:       p.HolderDID,
			VerifierID:      p.VerifierID,
			Scope:           p.Scope.String(),
			DisclosedFields: p.Disclosed,
			IssuedAt:        p.IssuedAt,
			Nonce:           p.Nonce,
		},
		Insight: o.Insight,
	}
}
