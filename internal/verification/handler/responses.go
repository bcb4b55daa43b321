package handler

import (
	"sort"
	"time"

	pmodels "medssi/internal/presentation/models"
	"medssi/internal/qrlink"
	"medssi/internal/store"
	vmodels "medssi/internal/verification/models"
)

const (
	oidvpCredentialType = "MedSSI.VerifiableCredential"
	resultSuccess       = "success"
	resultFailed        = "failed"
)

// SessionResponse is the /v2 view of a verification session.
type SessionResponse struct {
	SessionID     string    `json:"session_id"`
	TransactionID string    `json:"transaction_id"`
	VerifierID    string    `json:"verifier_id"`
	VerifierName  string    `json:"verifier_name"`
	Purpose       string    `json:"purpose"`
	IALMin        string    `json:"ial_min"`
	Scope         string    `json:"scope"`
	AllowedFields []string  `json:"allowed_fields"`
	QRToken       string    `json:"qr_token"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	LastPolledAt  time.Time `json:"last_polled_at"`
	TemplateRef   string    `json:"template_ref,omitempty"`
}

// CodeResponse is returned by GET /v2/api/did/vp/code.
type CodeResponse struct {
	Session   *SessionResponse `json:"session"`
	QRPayload string           `json:"qr_payload"`
}

// SessionStatusResponse reports a session together with its derived status.
type SessionStatusResponse struct {
	Session *SessionResponse `json:"session"`
	Status  vmodels.Status   `json:"status"`
}

type PurgeResponse struct {
	SessionID     string `json:"session_id"`
	Status        string `json:"status"`
	Presentations int    `json:"presentations"`
	Results       int    `json:"results"`
}

// OIDVPQRCodeResponse mirrors the MODA sandbox verifier QR body.
type OIDVPQRCodeResponse struct {
	TransactionID string    `json:"transactionId"`
	QRCodeImage   string    `json:"qrcodeImage"`
	AuthURI       string    `json:"authUri"`
	QRPayload     string    `json:"qrPayload"`
	Scope         string    `json:"scope"`
	IAL           string    `json:"ial"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// OIDVPResultResponse mirrors the MODA sandbox verification result body.
type OIDVPResultResponse struct {
	VerifyResult      bool              `json:"verifyResult"`
	ResultDescription string            `json:"resultDescription"`
	TransactionID     string            `json:"transactionId"`
	Data              []OIDVPCredential `json:"data"`
}

type OIDVPCredential struct {
	CredentialType string       `json:"credentialType"`
	Claims         []OIDVPClaim `json:"claims"`
}

// OIDVPClaim is one disclosed field. The sandbox has no localized labels, so
// cname repeats the field path.
type OIDVPClaim struct {
	EName string `json:"ename"`
	CName string `json:"cname"`
	Value string `json:"value"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toSessionResponse(s *vmodels.Session) *SessionResponse {
	fields := make([]string, len(s.AllowedFields))
	copy(fields, s.AllowedFields)
	return &SessionResponse{
		SessionID:     s.ID.String(),
		TransactionID: s.TransactionID.String(),
		VerifierID:    s.VerifierID,
		VerifierName:  s.VerifierName,
		Purpose:       s.Purpose,
		IALMin:        s.RequiredIAL.String(),
		Scope:         s.Scope.String(),
		AllowedFields: fields,
		QRToken:       s.QRToken,
		CreatedAt:     s.CreatedAt,
		ExpiresAt:     s.ExpiresAt,
		LastPolledAt:  s.LastPolledAt,
		TemplateRef:   s.TemplateRef,
	}
}

func toCodeResponse(s *vmodels.Session) *CodeResponse {
	return &CodeResponse{
		Session:   toSessionResponse(s),
		QRPayload: qrlink.Payload(qrlink.KindVPSession, s.QRToken),
	}
}

func toPurgeResponse(sessionID string, summary store.PurgeSummary) *PurgeResponse {
	return &PurgeResponse{
		SessionID:     sessionID,
		Status:        "PURGED",
		Presentations: summary.Presentations,
		Results:       summary.Results,
	}
}

func toOIDVPQRCodeResponse(s *vmodels.Session) *OIDVPQRCodeResponse {
	qrPayload := qrlink.Payload(qrlink.KindVPSession, s.QRToken)
	return &OIDVPQRCodeResponse{
		TransactionID: s.TransactionID.String(),
		QRCodeImage:   qrlink.DataURI(qrPayload),
		AuthURI:       qrlink.AuthorizeLink(s.QRToken, s.TransactionID.String()),
		QRPayload:     qrPayload,
		Scope:         s.Scope.String(),
		IAL:           s.RequiredIAL.String(),
		ExpiresAt:     s.ExpiresAt,
	}
}

func toOIDVPResultResponse(transactionID string, result *pmodels.Result) *OIDVPResultResponse {
	description := resultFailed
	if result.Verified {
		description = resultSuccess
	}

	var disclosed map[string]string
	if result.Presentation != nil {
		disclosed = result.Presentation.Disclosed
	}
	keys := make([]string, 0, len(disclosed))
	for k := range disclosed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	claims := make([]OIDVPClaim, 0, len(keys))
	for _, k := range keys {
		claims = append(claims, OIDVPClaim{EName: k, CName: k, Value: disclosed[k]})
	}

	return &OIDVPResultResponse{
		VerifyResult:      result.Verified,
		ResultDescription: description,
		TransactionID:     transactionID,
		Data: []OIDVPCredential{{
			CredentialType: oidvpCredentialType,
			Claims:         claims,
		}},
	}
}
