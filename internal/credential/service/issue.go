package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medssi/internal/credential/models"
	"medssi/internal/disclosure"
	"medssi/internal/payload"
	"medssi/internal/sentinel"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
	"medssi/pkg/secrets"
)

// IssueCommand describes a new credential offer.
// A nil Policies slice selects the default policy table; a non-nil slice is
// used verbatim and must be valid on its own.
type IssueCommand struct {
	IssuerID        string
	Scope           disclosure.Scope
	IAL             id.AssuranceLevel
	Mode            models.Mode
	Policies        []disclosure.Policy
	ValidMinutes    int
	HolderDID       string
	HolderHint      string
	Payload         payload.Node
	PayloadTemplate payload.Node
	TransactionID   string
}

// Issue creates an OFFERED credential. WITH_DATA offers carry the sample
// record overlaid with the supplied payload; WITHOUT_DATA offers carry only
// an optional template.
func (s *Service) Issue(ctx context.Context, cmd IssueCommand) (*models.Offer, error) {
	now := requesttime.Now(ctx)

	if cmd.ValidMinutes < MinValidMinutes || cmd.ValidMinutes > MaxValidMinutes {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("valid minutes must be between %d and %d", MinValidMinutes, MaxValidMinutes))
	}

	txID := id.NewTransactionID()
	if raw := strings.TrimSpace(cmd.TransactionID); raw != "" {
		parsed, err := id.ParseTransactionID(raw)
		if err != nil {
			return nil, err
		}
		txID = parsed
	}

	policies := cmd.Policies
	if policies == nil {
		policies = disclosure.DefaultPolicies()
	}

	nonce, err := secrets.NewNonce()
	if err != nil {
		return nil, err
	}
	qrToken, err := secrets.NewQRToken()
	if err != nil {
		return nil, err
	}

	params := models.OfferParams{
		ID:            id.NewCredentialID(),
		TransactionID: txID,
		IssuerID:      strings.TrimSpace(cmd.IssuerID),
		IAL:           cmd.IAL,
		Scope:         cmd.Scope,
		Mode:          cmd.Mode,
		Nonce:         nonce,
		QRToken:       qrToken,
		Policies:      policies,
		HolderDID:     strings.TrimSpace(cmd.HolderDID),
		HolderHint:    strings.TrimSpace(cmd.HolderHint),
		CreatedAt:     now,
		ValidFor:      time.Duration(cmd.ValidMinutes) * time.Minute,
	}
	switch cmd.Mode {
	case models.ModeWithData:
		params.Payload = payload.Merge(models.SamplePayload(now), cmd.Payload)
		if params.HolderDID == "" {
			params.HolderDID = models.DefaultHolderDID
		}
	case models.ModeWithoutData:
		if !cmd.PayloadTemplate.IsAbsent() {
			params.PayloadTemplate = payload.Merge(models.SamplePayload(now), cmd.PayloadTemplate)
		}
	}

	offer, err := models.NewOffer(params)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateCredential(ctx, offer); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "transaction id already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist credential offer")
	}

	s.auditor.Log(ctx, models.AuditActionCredentialOffered, offer.ID.String(),
		"transaction_id", offer.TransactionID.String(),
		"issuer_id", offer.IssuerID,
		"scope", offer.Scope.String(),
		"mode", string(offer.Mode),
	)
	if s.metrics != nil {
		s.metrics.IncrementOffersCreated(offer.Scope.String(), string(offer.Mode))
	}
	return offer, nil
}
