package service

import (
	"context"
	"errors"
	"time"

	"medssi/internal/audit"
	"medssi/internal/credential/models"
	"medssi/internal/payload"
	"medssi/internal/platform/privacy"
	"medssi/internal/sentinel"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

// ActionCommand is a holder-initiated lifecycle action.
type ActionCommand struct {
	Action      models.Action
	HolderDID   string
	Payload     payload.Node
	Disclosures map[string]string
}

// Act applies a wallet action to a credential. The read-modify-write runs
// under the credential's entity lock.
func (s *Service) Act(ctx context.Context, rawCredentialID string, cmd ActionCommand) (*models.Offer, error) {
	credentialID, err := id.ParseCredentialID(rawCredentialID)
	if err != nil {
		return nil, err
	}

	var auditAction string
	apply := func(offer *models.Offer, now time.Time) error {
		switch cmd.Action {
		case models.ActionAccept:
			auditAction = models.AuditActionCredentialAccepted
			return offer.Accept(now, models.AcceptInput{
				HolderDID:   cmd.HolderDID,
				Payload:     cmd.Payload,
				Disclosures: cmd.Disclosures,
			})
		case models.ActionUpdate:
			auditAction = models.AuditActionCredentialUpdated
			return offer.Update(now, models.UpdateInput{
				Payload:     cmd.Payload,
				Disclosures: cmd.Disclosures,
			})
		case models.ActionDecline:
			auditAction = models.AuditActionCredentialDeclined
			return offer.Decline(now)
		case models.ActionRevoke:
			auditAction = models.AuditActionCredentialRevoked
			offer.Revoke(now)
			return nil
		default:
			return dErrors.New(dErrors.CodeUnsupportedAction, "action "+string(cmd.Action)+" is not supported")
		}
	}

	offer, err := s.mutate(ctx, credentialID, apply)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementActionRejected(string(cmd.Action), errorCode(err))
		}
		return nil, err
	}

	s.auditor.Log(ctx, auditAction, offer.ID.String(),
		"decision", audit.DecisionGranted,
		"reason", models.AuditReasonHolderInitiated,
		"holder_did", privacy.MaskDID(offer.HolderDID),
		"status", string(offer.Status),
	)
	if s.metrics != nil {
		s.metrics.IncrementActionApplied(string(cmd.Action))
	}
	return offer, nil
}

// Revoke is the issuer-side revocation. It is legal from any state.
func (s *Service) Revoke(ctx context.Context, rawCredentialID string) (*models.Offer, error) {
	credentialID, err := id.ParseCredentialID(rawCredentialID)
	if err != nil {
		return nil, err
	}
	offer, err := s.mutate(ctx, credentialID, func(offer *models.Offer, now time.Time) error {
		offer.Revoke(now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, models.AuditActionCredentialRevoked, offer.ID.String(),
		"decision", audit.DecisionGranted,
		"reason", models.AuditReasonIssuerInitiated,
	)
	if s.metrics != nil {
		s.metrics.IncrementActionApplied(string(models.ActionRevoke))
	}
	return offer, nil
}

// Delete removes a credential record outright.
func (s *Service) Delete(ctx context.Context, rawCredentialID string) error {
	credentialID, err := id.ParseCredentialID(rawCredentialID)
	if err != nil {
		return err
	}
	err = s.store.RunInTx(ctx, credentialID.String(), func(ctx context.Context) error {
		return s.store.DeleteCredential(ctx, credentialID)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeCredentialNotFound, "credential "+credentialID.String()+" does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete credential")
	}

	s.auditor.Log(ctx, models.AuditActionCredentialDeleted, credentialID.String(),
		"reason", models.AuditReasonIssuerInitiated,
	)
	if s.metrics != nil {
		s.metrics.CredentialsDeleted.Inc()
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, credentialID id.CredentialID, apply func(*models.Offer, time.Time) error) (*models.Offer, error) {
	var out *models.Offer
	err := s.store.RunInTx(ctx, credentialID.String(), func(ctx context.Context) error {
		offer, err := s.findCredential(ctx, credentialID)
		if err != nil {
			return err
		}
		if err := apply(offer, requesttime.Now(ctx)); err != nil {
			return err
		}
		if err := s.store.UpdateCredential(ctx, offer); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeCredentialNotFound, "credential "+credentialID.String()+" was removed")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist credential")
		}
		out = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
