package service

import (
	"context"
	"errors"
	"strings"

	"medssi/internal/presentation/models"
	"medssi/internal/sentinel"
	vmodels "medssi/internal/verification/models"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

// PollResult is what a verifier gets back from a successful poll.
type PollResult struct {
	Session *vmodels.Session
	Result  *models.Result
}

// Poll fetches the latest verification result for the session behind a
// transaction id. A successful poll stamps last_polled_at; the session stays
// open for further polls and submissions.
func (s *Service) Poll(ctx context.Context, rawTransactionID string) (*PollResult, error) {
	raw := strings.TrimSpace(rawTransactionID)
	if raw == "" {
		s.recordPoll(pollOutcomeUnknown)
		return nil, dErrors.New(dErrors.CodeTransactionNotFound, "transaction not found")
	}
	txID := id.TransactionID(raw)
	if parsed, err := id.ParseTransactionID(raw); err == nil {
		txID = parsed
	}

	session, err := s.store.FindSessionByTransaction(ctx, txID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordPoll(pollOutcomeUnknown)
			return nil, dErrors.New(dErrors.CodeTransactionNotFound, "no verification session found for this transaction id")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}

	var out *PollResult
	err = s.store.RunInTx(ctx, session.ID.String(), func(ctx context.Context) error {
		current, err := s.findSession(ctx, session.ID)
		if err != nil {
			return err
		}
		now := requesttime.Now(ctx)
		if !current.IsActive(now) {
			return dErrors.New(dErrors.CodeSessionExpired, "verification session has expired")
		}
		result, err := s.store.LatestResult(ctx, current.ID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeResultPending, "no presentation has been submitted yet")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session result")
		}
		current.LastPolledAt = now
		if err := s.store.UpdateSession(ctx, current); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session")
		}
		out = &PollResult{Session: current, Result: result}
		return nil
	})
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeSessionExpired):
			s.recordPoll(pollOutcomeExpired)
		case dErrors.HasCode(err, dErrors.CodeResultPending):
			s.recordPoll(pollOutcomePending)
		}
		return nil, err
	}
	s.recordPoll(pollOutcomeReady)
	return out, nil
}

func (s *Service) recordPoll(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementPoll(outcome)
	}
}
