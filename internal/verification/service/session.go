package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medssi/internal/disclosure"
	"medssi/internal/sentinel"
	"medssi/internal/store"
	vmodels "medssi/internal/verification/models"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
	platformstrings "medssi/pkg/platform/strings"
	"medssi/pkg/secrets"
)

// CreateCommand describes a verifier's disclosure request.
// Fields may be a list or a single comma-joined entry. When it normalizes to
// nothing and FallbackToDefaults is set, the scope's default policy fields
// are used instead.
type CreateCommand struct {
	VerifierID         string
	VerifierName       string
	Purpose            string
	Scope              disclosure.Scope
	IAL                id.AssuranceLevel
	Fields             []string
	ValidMinutes       int
	TransactionID      string
	TemplateRef        string
	FallbackToDefaults bool
}

// Create opens a new ACTIVE session.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*vmodels.Session, error) {
	now := requesttime.Now(ctx)

	if cmd.ValidMinutes < MinValidMinutes || cmd.ValidMinutes > MaxValidMinutes {
		return nil, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("valid minutes must be between %d and %d", MinValidMinutes, MaxValidMinutes))
	}

	fields := platformstrings.SplitFields(cmd.Fields)
	if len(fields) == 0 && cmd.FallbackToDefaults {
		fields = disclosure.DefaultFields(cmd.Scope)
	}
	if len(fields) == 0 {
		return nil, dErrors.New(dErrors.CodeFieldsRequired, "at least one field is required")
	}

	txID := id.NewTransactionID()
	if raw := strings.TrimSpace(cmd.TransactionID); raw != "" {
		parsed, err := id.ParseTransactionID(raw)
		if err != nil {
			return nil, err
		}
		txID = parsed
	}

	qrToken, err := secrets.NewQRToken()
	if err != nil {
		return nil, err
	}

	session, err := vmodels.NewSession(vmodels.SessionParams{
		ID:            id.NewSessionID(),
		TransactionID: txID,
		VerifierID:    strings.TrimSpace(cmd.VerifierID),
		VerifierName:  strings.TrimSpace(cmd.VerifierName),
		Purpose:       strings.TrimSpace(cmd.Purpose),
		RequiredIAL:   cmd.IAL,
		Scope:         cmd.Scope,
		AllowedFields: fields,
		QRToken:       qrToken,
		TemplateRef:   strings.TrimSpace(cmd.TemplateRef),
		CreatedAt:     now,
		ValidFor:      time.Duration(cmd.ValidMinutes) * time.Minute,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "transaction id already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session")
	}

	s.auditor.Log(ctx, vmodels.AuditActionSessionCreated, session.ID.String(),
		"verifier_id", session.VerifierID,
		"scope", session.Scope.String(),
		"required_ial", session.RequiredIAL.String(),
		"fields", len(session.AllowedFields),
	)
	if s.metrics != nil {
		s.metrics.IncrementSessionsCreated(session.Scope.String())
	}
	return session, nil
}

// Get returns a session together with its derived status.
func (s *Service) Get(ctx context.Context, rawSessionID string) (*vmodels.Session, vmodels.Status, error) {
	sessionID, err := id.ParseSessionID(rawSessionID)
	if err != nil {
		return nil, "", err
	}
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	_, err = s.store.LatestResult(ctx, sessionID)
	hasResult := err == nil
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session result")
	}
	return session, session.ComputeStatus(requesttime.Now(ctx), hasResult), nil
}

// Purge removes a session and everything derived from it. Purging an
// unknown session succeeds.
func (s *Service) Purge(ctx context.Context, rawSessionID string) (store.PurgeSummary, error) {
	sessionID, err := id.ParseSessionID(rawSessionID)
	if err != nil {
		return store.PurgeSummary{}, err
	}
	var summary store.PurgeSummary
	err = s.store.RunInTx(ctx, sessionID.String(), func(ctx context.Context) error {
		var purgeErr error
		summary, purgeErr = s.store.PurgeSession(ctx, sessionID)
		return purgeErr
	})
	if err != nil {
		return store.PurgeSummary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge session")
	}

	s.auditor.Log(ctx, vmodels.AuditActionSessionPurged, sessionID.String(),
		"sessions", summary.Sessions,
		"presentations", summary.Presentations,
		"results", summary.Results,
	)
	if s.metrics != nil {
		s.metrics.SessionsPurged.Inc()
	}
	return summary, nil
}
