package models

import (
	"maps"
	"slices"
	"time"

	"medssi/internal/disclosure"
	"medssi/internal/payload"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

// Offer is a time-boxed credential offer and, once accepted, the issued credential.
//
// Invariants:
//   - Policies is never empty and has at most one policy per scope.
//   - Payload is present iff Mode is WITH_DATA or the offer has been accepted.
//   - IssuedAt and RetentionExpiresAt are set together on acceptance.
type Offer struct {
	ID                  id.CredentialID
	TransactionID       id.TransactionID
	IssuerID            string
	IAL                 id.AssuranceLevel
	Scope               disclosure.Scope
	Mode                Mode
	Nonce               string
	QRToken             string
	Status              Status
	CreatedAt           time.Time
	ExpiresAt           time.Time
	LastActionAt        time.Time
	IssuedAt            *time.Time
	RetentionExpiresAt  *time.Time
	Policies            []disclosure.Policy
	HolderDID           string
	HolderHint          string
	Payload             payload.Node
	PayloadTemplate     payload.Node
	SelectedDisclosures map[string]string
}

// OfferParams carries the validated inputs of a new offer.
type OfferParams struct {
	ID              id.CredentialID
	TransactionID   id.TransactionID
	IssuerID        string
	IAL             id.AssuranceLevel
	Scope           disclosure.Scope
	Mode            Mode
	Nonce           string
	QRToken         string
	Policies        []disclosure.Policy
	HolderDID       string
	HolderHint      string
	Payload         payload.Node
	PayloadTemplate payload.Node
	CreatedAt       time.Time
	ValidFor        time.Duration
}

// NewOffer creates an OFFERED credential with domain invariant checks.
func NewOffer(p OfferParams) (*Offer, error) {
	if p.ID.IsNil() || p.TransactionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "credential and transaction IDs required")
	}
	if p.Nonce == "" || p.QRToken == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "nonce and qr token required")
	}
	if p.IssuerID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "issuer ID required")
	}
	if !p.IAL.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid assurance level")
	}
	if !p.Scope.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid disclosure scope")
	}
	if !p.Mode.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid issuance mode")
	}
	if err := disclosure.Validate(p.Policies); err != nil {
		return nil, err
	}
	if p.Mode == ModeWithData && p.Payload.IsAbsent() {
		return nil, dErrors.New(dErrors.CodePayloadRequired, "payload required for WITH_DATA issuance")
	}
	if p.Mode == ModeWithoutData && !p.Payload.IsAbsent() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "WITHOUT_DATA offers carry no payload until accepted")
	}
	if p.CreatedAt.IsZero() || p.ValidFor <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "offer requires creation time and positive validity")
	}
	return &Offer{
		ID:                  p.ID,
		TransactionID:       p.TransactionID,
		IssuerID:            p.IssuerID,
		IAL:                 p.IAL,
		Scope:               p.Scope,
		Mode:                p.Mode,
		Nonce:               p.Nonce,
		QRToken:             p.QRToken,
		Status:              StatusOffered,
		CreatedAt:           p.CreatedAt,
		ExpiresAt:           p.CreatedAt.Add(p.ValidFor),
		LastActionAt:        p.CreatedAt,
		Policies:            disclosure.Clone(p.Policies),
		HolderDID:           p.HolderDID,
		HolderHint:          p.HolderHint,
		Payload:             p.Payload,
		PayloadTemplate:     p.PayloadTemplate,
		SelectedDisclosures: map[string]string{},
	}, nil
}

// Clone returns a deep copy. Payload nodes are immutable and shared.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	c := *o
	c.Policies = disclosure.Clone(o.Policies)
	c.SelectedDisclosures = maps.Clone(o.SelectedDisclosures)
	if o.IssuedAt != nil {
		t := *o.IssuedAt
		c.IssuedAt = &t
	}
	if o.RetentionExpiresAt != nil {
		t := *o.RetentionExpiresAt
		c.RetentionExpiresAt = &t
	}
	return &c
}

// AllowedFields is the union of the offer's policy fields.
func (o *Offer) AllowedFields() []string {
	return disclosure.AllowedFields(o.Policies)
}

// DisclosedFields returns the consented field paths in sorted order.
func (o *Offer) DisclosedFields() []string {
	return slices.Sorted(maps.Keys(o.SelectedDisclosures))
}

// IsActive reports whether the offer is still live: OFFERED before its QR
// window closes, or ISSUED before its retention lapses.
func (o *Offer) IsActive(now time.Time) bool {
	switch o.Status {
	case StatusOffered:
		return now.Before(o.ExpiresAt)
	case StatusIssued:
		return o.RetentionExpiresAt != nil && now.Before(*o.RetentionExpiresAt)
	case StatusDeclined, StatusRevoked:
		return false
	}
	return false
}

// SatisfiesAssurance reports whether the credential meets the required level.
func (o *Offer) SatisfiesAssurance(required id.AssuranceLevel) bool {
	return o.IAL.Satisfies(required)
}

// AcceptInput is what a holder supplies when accepting an offer.
type AcceptInput struct {
	HolderDID   string
	Payload     payload.Node
	Disclosures map[string]string
}

// Accept binds holder, payload and consent and moves the offer to ISSUED.
// An ISSUED credential may be accepted again to rebind; retention restarts.
func (o *Offer) Accept(now time.Time, in AcceptInput) error {
	switch o.Status {
	case StatusRevoked:
		return dErrors.New(dErrors.CodeCredentialRevoked, "revoked credentials cannot be accepted")
	case StatusDeclined:
		return dErrors.New(dErrors.CodeCredentialDeclined, "declined credentials cannot be accepted")
	case StatusOffered:
		if !now.Before(o.ExpiresAt) {
			return dErrors.New(dErrors.CodeOfferExpired, "credential offer has expired")
		}
	case StatusIssued:
	}

	holder := in.HolderDID
	if holder == "" {
		holder = o.HolderDID
	}
	if holder == "" {
		return dErrors.New(dErrors.CodeHolderRequired, "holder DID required to accept credential")
	}
	if o.Mode == ModeWithoutData && in.Payload.IsAbsent() {
		return dErrors.New(dErrors.CodePayloadRequired, "payload required to accept a WITHOUT_DATA credential")
	}
	if err := disclosure.CheckSubset(slices.Collect(maps.Keys(in.Disclosures)), o.AllowedFields()); err != nil {
		return err
	}

	if !in.Payload.IsAbsent() {
		o.Payload = o.bindPayload(in.Payload)
	}
	o.HolderDID = holder
	o.SelectedDisclosures = maps.Clone(in.Disclosures)
	if o.SelectedDisclosures == nil {
		o.SelectedDisclosures = map[string]string{}
	}
	o.Status = StatusIssued
	issuedAt := now
	retention := now.Add(RetentionFor(o.Scope))
	o.IssuedAt = &issuedAt
	o.RetentionExpiresAt = &retention
	o.LastActionAt = now
	return nil
}

// UpdateInput replaces payload and/or consent on an issued credential.
type UpdateInput struct {
	Payload     payload.Node
	Disclosures map[string]string
}

// Update replaces payload and/or selection on an ISSUED credential.
// Retention stays anchored to the original issuance.
func (o *Offer) Update(now time.Time, in UpdateInput) error {
	if o.Status != StatusIssued {
		return dErrors.New(dErrors.CodeNotIssued, "only issued credentials can be updated")
	}
	if len(in.Disclosures) > 0 {
		if err := disclosure.CheckSubset(slices.Collect(maps.Keys(in.Disclosures)), o.AllowedFields()); err != nil {
			return err
		}
		o.SelectedDisclosures = maps.Clone(in.Disclosures)
	}
	if !in.Payload.IsAbsent() {
		o.Payload = o.bindPayload(in.Payload)
	}
	o.LastActionAt = now
	return nil
}

// Decline moves a non-terminal offer to DECLINED.
func (o *Offer) Decline(now time.Time) error {
	switch o.Status {
	case StatusRevoked:
		return dErrors.New(dErrors.CodeCredentialRevoked, "credential already revoked")
	case StatusDeclined:
		return dErrors.New(dErrors.CodeCredentialDeclined, "credential already declined")
	case StatusOffered, StatusIssued:
	}
	o.Status = StatusDeclined
	o.LastActionAt = now
	return nil
}

// Revoke is legal from any state and makes the credential immediately
// eligible for the expiry sweep. Revoking twice keeps the first revocation time.
func (o *Offer) Revoke(now time.Time) {
	if o.Status == StatusRevoked {
		return
	}
	o.Status = StatusRevoked
	revokedAt := now
	o.RetentionExpiresAt = &revokedAt
	o.LastActionAt = now
}

func (o *Offer) bindPayload(supplied payload.Node) payload.Node {
	if !o.PayloadTemplate.IsAbsent() {
		return payload.Merge(o.PayloadTemplate, supplied)
	}
	return supplied
}
