package models

import (
	"maps"
	"time"

	"medssi/internal/disclosure"
	id "medssi/pkg/domain"
)

// Audit event actions describe what operation occurred.
const (
	AuditActionPresentationVerified = "presentation_verified"
	AuditActionPresentationRejected = "presentation_rejected"
)

// Presentation is the validated disclosure a holder made to a verifier.
type Presentation struct {
	ID           id.PresentationID
	SessionID    id.SessionID
	CredentialID id.CredentialID
	HolderDID    string
	VerifierID   string
	Scope        disclosure.Scope
	Disclosed    map[string]string
	IssuedAt     time.Time
	Nonce        string
}

// Clone returns a deep copy.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	c := *p
	c.Disclosed = maps.Clone(p.Disclosed)
	return &c
}

// Result caches the outcome of a presentation against a session.
type Result struct {
	SessionID    id.SessionID
	VerifierID   string
	Verified     bool
	Presentation *Presentation
}

// Clone returns a deep copy.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.Presentation = r.Presentation.Clone()
	return &c
}

// ResultKey is the composite cache key of a Result.
type ResultKey struct {
	SessionID      id.SessionID
	PresentationID id.PresentationID
}

// Key returns the composite cache key.
func (r *Result) Key() ResultKey {
	return ResultKey{SessionID: r.SessionID, PresentationID: r.Presentation.ID}
}

// Submission is a holder's claimed disclosure for a session.
type Submission struct {
	SessionID    id.SessionID
	CredentialID id.CredentialID
	HolderDID    string
	Disclosed    map[string]string
}

// Insight is the risk-scoring decoration attached to a verified presentation.
type Insight struct {
	Scope           disclosure.Scope   `json:"scope"`
	RiskScore       float64            `json:"risk_score"`
	Factors         map[string]float64 `json:"factors"`
	TrendWindowDays int                `json:"trend_window_days"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// Outcome is what a successful submission returns.
type Outcome struct {
	Presentation *Presentation
	Result       *Result
	Insight      *Insight
}
