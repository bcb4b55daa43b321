package service

import (
	"context"
	"errors"
	"strings"

	"medssi/internal/credential/models"
	jwttoken "medssi/internal/jwt_token"
	"medssi/internal/sentinel"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

// Nonce is the strict wallet lookup: the transaction ID must be a UUID and
// the offer must still be live.
func (s *Service) Nonce(ctx context.Context, rawTransactionID string) (*models.Offer, error) {
	txID, err := id.ParseTransactionID(rawTransactionID)
	if err != nil {
		return nil, err
	}
	offer, err := s.findByTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !offer.IsActive(requesttime.Now(ctx)) {
		return nil, dErrors.New(dErrors.CodeOfferExpired, "the QR code has expired or the credential was revoked")
	}
	return offer, nil
}

// TransactionLookup is the compatibility lookup result.
type TransactionLookup struct {
	Offer           *models.Offer
	CredentialToken string
}

// LookupTransaction is the lenient lookup used by the compatibility API:
// no UUID or liveness checks, and a mock credential token is attached.
func (s *Service) LookupTransaction(ctx context.Context, rawTransactionID string) (*TransactionLookup, error) {
	raw := strings.TrimSpace(rawTransactionID)
	if raw == "" {
		return nil, dErrors.New(dErrors.CodeTransactionNotFound, "transaction not found")
	}
	offer, err := s.findByTransaction(ctx, id.TransactionID(raw))
	if err != nil {
		return nil, err
	}

	lookup := &TransactionLookup{Offer: offer}
	if s.tokens != nil {
		holder := offer.HolderDID
		if holder == "" {
			holder = models.DefaultHolderDID
		}
		token, err := s.tokens.GenerateCredentialToken(jwttoken.CredentialTokenInput{
			CredentialID:  offer.ID,
			TransactionID: offer.TransactionID,
			IssuerID:      offer.IssuerID,
			HolderDID:     holder,
			Scope:         offer.Scope.String(),
			Nonce:         offer.Nonce,
			IAL:           offer.IAL,
		}, requesttime.Now(ctx))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build credential token")
		}
		lookup.CredentialToken = token
	}
	return lookup, nil
}

func (s *Service) findByTransaction(ctx context.Context, txID id.TransactionID) (*models.Offer, error) {
	offer, err := s.store.FindCredentialByTransaction(ctx, txID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeTransactionNotFound, "no credential offer found for this transaction id")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential offer")
	}
	return offer, nil
}
