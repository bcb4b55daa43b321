package service

import (
	"context"
	"strings"

	"medssi/internal/credential/models"
	"medssi/internal/platform/privacy"
	"medssi/internal/store"
	dErrors "medssi/pkg/domain-errors"
)

// ListForHolder returns every credential bound to holderDID, oldest first.
func (s *Service) ListForHolder(ctx context.Context, holderDID string) ([]*models.Offer, error) {
	holderDID = strings.TrimSpace(holderDID)
	if holderDID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "holder DID required")
	}
	offers, err := s.store.ListCredentialsByHolder(ctx, holderDID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	if offers == nil {
		offers = []*models.Offer{}
	}
	return offers, nil
}

// Forget erases a holder's credentials together with every presentation and
// result derived from them.
func (s *Service) Forget(ctx context.Context, holderDID string) (store.ForgetSummary, error) {
	holderDID = strings.TrimSpace(holderDID)
	if holderDID == "" {
		return store.ForgetSummary{}, dErrors.New(dErrors.CodeBadRequest, "holder DID required")
	}
	summary, err := s.store.ForgetHolder(ctx, holderDID)
	if err != nil {
		return store.ForgetSummary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to forget holder")
	}

	// The trail outlives the erasure, so only the masked DID is recorded.
	s.auditor.Log(ctx, models.AuditActionHolderForgotten, privacy.MaskDID(holderDID),
		"reason", models.AuditReasonErasureRequest,
		"credentials", summary.Credentials,
		"presentations", summary.Presentations,
		"results", summary.Results,
	)
	if s.metrics != nil {
		s.metrics.HoldersForgotten.Inc()
	}
	return summary, nil
}
