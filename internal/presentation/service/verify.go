package service

import (
	"context"
	"errors"
	"time"

	"medssi/internal/audit"
	credmodels "medssi/internal/credential/models"
	"medssi/internal/disclosure"
	"medssi/internal/payload"
	"medssi/internal/platform/tracer"
	"medssi/internal/presentation/models"
	"medssi/internal/sentinel"
	vmodels "medssi/internal/verification/models"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

// Submit verifies a holder's presentation against a session and, on success,
// stores the presentation with a verified result. Checks run in a fixed
// order and stop at the first failure.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (outcome *models.Outcome, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanPresentationVerify,
		tracer.String(tracer.AttrSessionID, sub.SessionID.String()),
		tracer.String(tracer.AttrCredentialID, sub.CredentialID.String()),
		tracer.String(tracer.AttrHolder, tracer.HashHolderDID(sub.HolderDID)),
		tracer.Int(tracer.AttrFieldCount, len(sub.Disclosed)),
	)
	defer func() {
		if err != nil {
			span.SetAttributes(tracer.String(tracer.AttrErrorCode, errorCode(err)))
		}
		span.End(err)
	}()

	var (
		presentation *models.Presentation
		result       *models.Result
	)
	err = s.store.RunInTx(ctx, sub.SessionID.String(), func(ctx context.Context) error {
		session, offer, err := s.load(ctx, sub)
		if err != nil {
			return err
		}
		resolved, err := check(session, offer, sub)
		if err != nil {
			return err
		}

		presentation = &models.Presentation{
			ID:           id.NewPresentationID(),
			SessionID:    session.ID,
			CredentialID: offer.ID,
			HolderDID:    sub.HolderDID,
			VerifierID:   session.VerifierID,
			Scope:        session.Scope,
			Disclosed:    resolved,
			IssuedAt:     requesttime.Now(ctx),
			Nonce:        offer.Nonce,
		}
		result = &models.Result{
			SessionID:    session.ID,
			VerifierID:   session.VerifierID,
			Verified:     true,
			Presentation: presentation,
		}
		if err := s.store.SaveResult(ctx, result); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeSessionExpired, "verification session expired")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store verification result")
		}
		return nil
	})
	if s.metrics != nil {
		s.metrics.ObserveVerifyDuration(start)
	}
	if err != nil {
		s.auditor.Log(ctx, models.AuditActionPresentationRejected, sub.SessionID.String(),
			"decision", audit.DecisionDenied,
			"reason", errorCode(err),
			"credential_id", sub.CredentialID.String(),
		)
		if s.metrics != nil {
			s.metrics.IncrementRejected(errorCode(err))
		}
		return nil, err
	}

	span.AddEvent(tracer.EventResultStored, tracer.String(tracer.AttrScope, presentation.Scope.String()))
	s.auditor.Log(ctx, models.AuditActionPresentationVerified, sub.SessionID.String(),
		"decision", audit.DecisionGranted,
		"credential_id", presentation.CredentialID.String(),
		"presentation_id", presentation.ID.String(),
		"fields", len(presentation.Disclosed),
	)
	if s.metrics != nil {
		s.metrics.IncrementVerified(presentation.Scope.String())
	}

	return &models.Outcome{
		Presentation: presentation,
		Result:       result,
		Insight:      s.evaluate(ctx, presentation),
	}, nil
}

func (s *Service) load(ctx context.Context, sub models.Submission) (*vmodels.Session, *credmodels.Offer, error) {
	now := requesttime.Now(ctx)
	session, err := s.store.FindSession(ctx, sub.SessionID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	if session == nil || !session.IsActive(now) {
		return nil, nil, dErrors.New(dErrors.CodeSessionExpired, "verification session expired; create a new QR code")
	}

	offer, err := s.store.FindCredential(ctx, sub.CredentialID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeCredentialNotFound, "holder credential not located")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	return session, offer, nil
}

// check runs the credential and disclosure checks in order and returns the
// disclosed values restricted to the session's allowed fields.
func check(session *vmodels.Session, offer *credmodels.Offer, sub models.Submission) (map[string]string, error) {
	if offer.Status != credmodels.StatusIssued {
		return nil, dErrors.New(dErrors.CodeCredentialNotIssued, "only issued credentials may be presented")
	}
	if !offer.SatisfiesAssurance(session.RequiredIAL) {
		return nil, dErrors.New(dErrors.CodeAssuranceInsufficient, "credential assurance level below verifier minimum")
	}
	if offer.HolderDID != sub.HolderDID {
		return nil, dErrors.New(dErrors.CodeHolderMismatch, "presentation holder does not match credential owner")
	}

	submitted := make([]string, 0, len(sub.Disclosed))
	for field := range sub.Disclosed {
		submitted = append(submitted, field)
	}
	if outside := disclosure.Outside(submitted, session.AllowedFields); len(outside) > 0 {
		return nil, dErrors.WithFields(dErrors.CodeFieldsNotAuthorized,
			"presentation includes fields outside session scope", outside)
	}
	consented := offer.DisclosedFields()
	if len(consented) == 0 {
		consented = session.AllowedFields
	}
	if outside := disclosure.Outside(submitted, consented); len(outside) > 0 {
		return nil, dErrors.WithFields(dErrors.CodeFieldsNotConsented,
			"presentation discloses fields the holder did not consent to", outside)
	}

	if offer.Nonce == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "issued credential has no nonce")
	}

	resolved := make(map[string]string, len(sub.Disclosed))
	for _, field := range session.AllowedFields {
		presented, ok := sub.Disclosed[field]
		if !ok {
			continue
		}
		if actual, found := payload.Resolve(offer.Payload, field); found && actual != presented {
			return nil, dErrors.WithFields(dErrors.CodeValueMismatch,
				"field "+field+" does not match credential contents", []string{field})
		}
		resolved[field] = presented
	}
	return resolved, nil
}

// evaluate runs the insight collaborator. Failures are logged and the
// insight is omitted.
func (s *Service) evaluate(ctx context.Context, presentation *models.Presentation) *models.Insight {
	if s.insight == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanInsightEvaluate,
		tracer.String(tracer.AttrScope, presentation.Scope.String()),
	)
	insight, err := s.insight.Evaluate(ctx, presentation)
	if err == nil {
		span.SetAttributes(tracer.Float64(tracer.AttrRiskScore, insight.RiskScore))
	}
	span.End(err)
	if err != nil {
		s.logger.WarnContext(ctx, "insight evaluation failed",
			"error", err,
			"presentation_id", presentation.ID.String(),
		)
		if s.metrics != nil {
			s.metrics.InsightErrors.Inc()
		}
		return nil
	}
	return insight
}
