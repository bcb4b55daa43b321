package models

import (
	"time"

	"medssi/internal/disclosure"
)

// Status is the credential lifecycle state.
type Status string

const (
	StatusOffered  Status = "OFFERED"
	StatusIssued   Status = "ISSUED"
	StatusDeclined Status = "DECLINED"
	StatusRevoked  Status = "REVOKED"
)

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	switch s {
	case StatusOffered, StatusIssued, StatusDeclined, StatusRevoked:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition (other than REVOKE) is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusRevoked
}

// Mode says whether the issuer supplied clinical data up front.
type Mode string

const (
	ModeWithData    Mode = "WITH_DATA"
	ModeWithoutData Mode = "WITHOUT_DATA"
)

// IsValid checks if the mode is one of the supported enum values.
func (m Mode) IsValid() bool {
	return m == ModeWithData || m == ModeWithoutData
}

// Action is a holder or issuer request against an offer.
type Action string

const (
	ActionAccept  Action = "ACCEPT"
	ActionDecline Action = "DECLINE"
	ActionRevoke  Action = "REVOKE"
	ActionUpdate  Action = "UPDATE"
)

// IsValid checks if the action is one of the supported enum values.
func (a Action) IsValid() bool {
	switch a {
	case ActionAccept, ActionDecline, ActionRevoke, ActionUpdate:
		return true
	}
	return false
}

// Retention windows applied once a credential is issued.
const (
	RetentionMedicationPickup = 3 * 24 * time.Hour
	RetentionMedicalRecord    = 7 * 24 * time.Hour
	RetentionDefault          = 30 * 24 * time.Hour
)

// RetentionFor returns how long an issued credential of scope is kept.
func RetentionFor(scope disclosure.Scope) time.Duration {
	switch scope {
	case disclosure.ScopeMedicationPickup:
		return RetentionMedicationPickup
	case disclosure.ScopeMedicalRecord:
		return RetentionMedicalRecord
	case disclosure.ScopeResearchAnalytics:
		return RetentionDefault
	}
	return RetentionDefault
}

// DefaultHolderDID is bound to WITH_DATA offers issued without a holder.
const DefaultHolderDID = "did:example:patient-demo"
