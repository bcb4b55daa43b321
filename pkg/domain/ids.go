// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	dErrors "medssi/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a CredentialID where a SessionID is expected.
// Credential, session and presentation IDs are opaque prefixed tokens; transaction IDs
// are external lookup keys and must stay representable as standard UUID strings.
type (
	CredentialID   string
	SessionID      string
	PresentationID string
	TransactionID  string
)

const (
	credentialPrefix   = "cred-"
	sessionPrefix      = "sess-"
	presentationPrefix = "vp-"
)

// Constructors - every ID is derived from a random v4 UUID.

func NewCredentialID() CredentialID     { return CredentialID(credentialPrefix + randomHex()) }
func NewSessionID() SessionID           { return SessionID(sessionPrefix + randomHex()) }
func NewPresentationID() PresentationID { return PresentationID(presentationPrefix + randomHex()) }
func NewTransactionID() TransactionID   { return TransactionID(uuid.NewString()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseCredentialID(s string) (CredentialID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "credential ID cannot be empty")
	}
	return CredentialID(s), nil
}

func ParseSessionID(s string) (SessionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "session ID cannot be empty")
	}
	return SessionID(s), nil
}

// ParseTransactionID enforces the UUID wire format. The canonical lower-case
// form is returned so lookups are insensitive to caller casing.
func ParseTransactionID(s string) (TransactionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeTransactionIDInvalid, "transaction ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", dErrors.New(dErrors.CodeTransactionIDInvalid, "transaction ID must be a UUID")
	}
	return TransactionID(id.String()), nil
}

// String methods - for logging and debugging.

func (id CredentialID) String() string   { return string(id) }
func (id SessionID) String() string      { return string(id) }
func (id PresentationID) String() string { return string(id) }
func (id TransactionID) String() string  { return string(id) }

// IsNil checks - used for service-layer validation.

func (id CredentialID) IsNil() bool   { return id == "" }
func (id SessionID) IsNil() bool      { return id == "" }
func (id PresentationID) IsNil() bool { return id == "" }
func (id TransactionID) IsNil() bool  { return id == "" }

func randomHex() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
