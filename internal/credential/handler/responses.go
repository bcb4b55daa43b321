package handler

import (
	"time"

	"medssi/internal/credential/models"
	"medssi/internal/credential/service"
	"medssi/internal/disclosure"
	"medssi/internal/payload"
	"medssi/internal/qrlink"
	"medssi/internal/store"
)

// OfferResponse is the /v2 view of a credential offer.
type OfferResponse struct {
	CredentialID        string              `json:"credential_id"`
	TransactionID       string              `json:"transaction_id"`
	IssuerID            string              `json:"issuer_id"`
	IAL                 string              `json:"ial"`
	IALDescription      string              `json:"ial_description"`
	PrimaryScope        string              `json:"primary_scope"`
	Mode                models.Mode         `json:"mode"`
	Nonce               string              `json:"nonce"`
	QRToken             string              `json:"qr_token"`
	Status              models.Status       `json:"status"`
	CreatedAt           time.Time           `json:"created_at"`
	ExpiresAt           time.Time           `json:"expires_at"`
	LastActionAt        time.Time           `json:"last_action_at"`
	IssuedAt            *time.Time          `json:"issued_at,omitempty"`
	RetentionExpiresAt  *time.Time          `json:"retention_expires_at,omitempty"`
	DisclosurePolicies  []disclosure.Policy `json:"disclosure_policies"`
	HolderDID           string              `json:"holder_did,omitempty"`
	HolderHint          string              `json:"holder_hint,omitempty"`
	Payload             *payload.Node       `json:"payload,omitempty"`
	PayloadTemplate     *payload.Node       `json:"payload_template,omitempty"`
	SelectedDisclosures map[string]string   `json:"selected_disclosures"`
}

// IssueResponse is returned by the /v2 issuance routes.
type IssueResponse struct {
	Credential *OfferResponse `json:"credential"`
	QRPayload  string         `json:"qr_payload"`
}

// NonceResponse is the strict wallet lookup body.
type NonceResponse struct {
	TransactionID      string              `json:"transaction_id"`
	CredentialID       string              `json:"credential_id"`
	Nonce              string              `json:"nonce"`
	IAL                string              `json:"ial"`
	Status             models.Status       `json:"status"`
	ExpiresAt          time.Time           `json:"expires_at"`
	Mode               models.Mode         `json:"mode"`
	DisclosurePolicies []disclosure.Policy `json:"disclosure_policies"`
	PayloadAvailable   bool                `json:"payload_available"`
	PayloadTemplate    *payload.Node       `json:"payload_template,omitempty"`
}

type DeleteResponse struct {
	CredentialID string `json:"credential_id"`
	Status       string `json:"status"`
}

// GovIssueResponse mirrors the MODA sandbox issuance body.
type GovIssueResponse struct {
	TransactionID  string    `json:"transactionId"`
	QRCode         string    `json:"qrCode"`
	QRPayload      string    `json:"qrPayload"`
	DeepLink       string    `json:"deepLink"`
	CredentialID   string    `json:"credentialId"`
	ExpiresAt      time.Time `json:"expiresAt"`
	IAL            string    `json:"ial"`
	IALDescription string    `json:"ialDescription"`
	Scope          string    `json:"scope"`
}

// GovNonceResponse mirrors the MODA sandbox transaction lookup body.
type GovNonceResponse struct {
	TransactionID      string              `json:"transactionId"`
	CredentialID       string              `json:"credentialId"`
	CredentialStatus   models.Status       `json:"credentialStatus"`
	Nonce              string              `json:"nonce"`
	IAL                string              `json:"ial"`
	IALDescription     string              `json:"ialDescription"`
	Mode               models.Mode         `json:"mode"`
	ExpiresAt          time.Time           `json:"expiresAt"`
	PayloadAvailable   bool                `json:"payloadAvailable"`
	DisclosurePolicies []disclosure.Policy `json:"disclosurePolicies"`
	PayloadTemplate    *payload.Node       `json:"payloadTemplate"`
	Payload            *payload.Node       `json:"payload"`
	Credential         string              `json:"credential"`
}

// ForgetResponse counts what a holder erasure removed.
type ForgetResponse struct {
	HolderDID     string `json:"holder_did"`
	Credentials   int    `json:"credentials"`
	Presentations int    `json:"presentations"`
	Results       int    `json:"results"`
}

type GovRevokeResponse struct {
	CredentialStatus models.Status `json:"credentialStatus"`
	CredentialID     string        `json:"credentialId"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toOfferResponse(o *models.Offer) *OfferResponse {
	return &OfferResponse{
		CredentialID:        o.ID.String(),
		TransactionID:       o.TransactionID.String(),
		IssuerID:            o.IssuerID,
		IAL:                 o.IAL.String(),
		IALDescription:      o.IAL.Description(),
		PrimaryScope:        o.Scope.String(),
		Mode:                o.Mode,
		Nonce:               o.Nonce,
		QRToken:             o.QRToken,
		Status:              o.Status,
		CreatedAt:           o.CreatedAt,
		ExpiresAt:           o.ExpiresAt,
		LastActionAt:        o.LastActionAt,
		IssuedAt:            o.IssuedAt,
		RetentionExpiresAt:  o.RetentionExpiresAt,
		DisclosurePolicies:  o.Policies,
		HolderDID:           o.HolderDID,
		HolderHint:          o.HolderHint,
		Payload:             nodeOrNil(o.Payload),
		PayloadTemplate:     nodeOrNil(o.PayloadTemplate),
		SelectedDisclosures: o.SelectedDisclosures,
	}
}

func toOfferResponses(offers []*models.Offer) []*OfferResponse {
	out := make([]*OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferResponse(o))
	}
	return out
}

func toIssueResponse(o *models.Offer) *IssueResponse {
	return &IssueResponse{
		Credential: toOfferResponse(o),
		QRPayload:  qrlink.Payload(qrlink.KindCredential, o.QRToken),
	}
}

func toNonceResponse(o *models.Offer) *NonceResponse {
	return &NonceResponse{
		TransactionID:      o.TransactionID.String(),
		CredentialID:       o.ID.String(),
		Nonce:              o.Nonce,
		IAL:                o.IAL.String(),
		Status:             o.Status,
		ExpiresAt:          o.ExpiresAt,
		Mode:               o.Mode,
		DisclosurePolicies: o.Policies,
		PayloadAvailable:   !o.Payload.IsAbsent(),
		PayloadTemplate:    nodeOrNil(o.PayloadTemplate),
	}
}

func toGovIssueResponse(o *models.Offer) *GovIssueResponse {
	qrPayload := qrlink.Payload(qrlink.KindCredential, o.QRToken)
	return &GovIssueResponse{
		TransactionID:  o.TransactionID.String(),
		QRCode:         qrlink.DataURI(qrPayload),
		QRPayload:      qrPayload,
		DeepLink:       qrlink.CredentialOfferLink(o.QRToken),
		CredentialID:   o.ID.String(),
		ExpiresAt:      o.ExpiresAt,
		IAL:            o.IAL.String(),
		IALDescription: o.IAL.Description(),
		Scope:          o.Scope.String(),
	}
}

func toGovNonceResponse(lookup *service.TransactionLookup) *GovNonceResponse {
	o := lookup.Offer
	return &GovNonceResponse{
		TransactionID:      o.TransactionID.String(),
		CredentialID:       o.ID.String(),
		CredentialStatus:   o.Status,
		Nonce:              o.Nonce,
		IAL:                o.IAL.String(),
		IALDescription:     o.IAL.Description(),
		Mode:               o.Mode,
		ExpiresAt:          o.ExpiresAt,
		PayloadAvailable:   !o.Payload.IsAbsent(),
		DisclosurePolicies: o.Policies,
		PayloadTemplate:    nodeOrNil(o.PayloadTemplate),
		Payload:            nodeOrNil(o.Payload),
		Credential:         lookup.CredentialToken,
	}
}

func toForgetResponse(summary store.ForgetSummary) *ForgetResponse {
	return &ForgetResponse{
		HolderDID:     summary.HolderDID,
		Credentials:   summary.Credentials,
		Presentations: summary.Presentations,
		Results:       summary.Results,
	}
}

func nodeOrNil(n payload.Node) *payload.Node {
	if n.IsAbsent() {
		return nil
	}
	return &n
}
