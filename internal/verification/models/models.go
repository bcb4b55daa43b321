package models

import (
	"slices"
	"time"

	"medssi/internal/disclosure"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

// Status is derived from the session clock and the result cache; it is never stored.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusExpired  Status = "EXPIRED"
	StatusConsumed Status = "CONSUMED"
)

// DefaultPurpose is used when a verifier omits one.
const DefaultPurpose = "Credential verification"

// Audit event actions describe what operation occurred.
const (
	AuditActionSessionCreated = "session_created"
	AuditActionSessionPurged  = "session_purged"
)

// Session is a verifier's disclosure request.
type Session struct {
	ID            id.SessionID
	TransactionID id.TransactionID
	VerifierID    string
	VerifierName  string
	Purpose       string
	RequiredIAL   id.AssuranceLevel
	Scope         disclosure.Scope
	AllowedFields []string
	QRToken       string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	LastPolledAt  time.Time
	TemplateRef   string
}

// SessionParams carries the normalized inputs of a new session.
type SessionParams struct {
	ID            id.SessionID
	TransactionID id.TransactionID
	VerifierID    string
	VerifierName  string
	Purpose       string
	RequiredIAL   id.AssuranceLevel
	Scope         disclosure.Scope
	AllowedFields []string
	QRToken       string
	TemplateRef   string
	CreatedAt     time.Time
	ValidFor      time.Duration
}

// NewSession creates a Session with domain invariant checks.
func NewSession(p SessionParams) (*Session, error) {
	if p.ID.IsNil() || p.TransactionID.IsNil() || p.QRToken == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session requires id, transaction id and qr token")
	}
	if p.VerifierID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "verifier ID required")
	}
	if !p.RequiredIAL.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid assurance level")
	}
	if !p.Scope.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid disclosure scope")
	}
	if len(p.AllowedFields) == 0 {
		return nil, dErrors.New(dErrors.CodeFieldsRequired, "at least one field is required")
	}
	if p.CreatedAt.IsZero() || p.ValidFor <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session requires creation time and positive validity")
	}
	purpose := p.Purpose
	if purpose == "" {
		purpose = DefaultPurpose
	}
	return &Session{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		VerifierID:    p.VerifierID,
		VerifierName:  p.VerifierName,
		Purpose:       purpose,
		RequiredIAL:   p.RequiredIAL,
		Scope:         p.Scope,
		AllowedFields: slices.Clone(p.AllowedFields),
		QRToken:       p.QRToken,
		CreatedAt:     p.CreatedAt,
		ExpiresAt:     p.CreatedAt.Add(p.ValidFor),
		LastPolledAt:  p.CreatedAt,
		TemplateRef:   p.TemplateRef,
	}, nil
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.AllowedFields = slices.Clone(s.AllowedFields)
	return &c
}

// IsActive returns true while now is at or before the expiry instant.
func (s *Session) IsActive(now time.Time) bool {
	return !now.After(s.ExpiresAt)
}

// Allows reports whether field is in the session's allowed set.
func (s *Session) Allows(field string) bool {
	return slices.Contains(s.AllowedFields, field)
}

// ComputeStatus reports the session lifecycle state at the provided time.
func (s *Session) ComputeStatus(now time.Time, hasResult bool) Status {
	if !s.IsActive(now) {
		return StatusExpired
	}
	if hasResult {
		return StatusConsumed
	}
	return StatusActive
}
