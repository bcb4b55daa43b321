package sandbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medssi/internal/audit"
	credmodels "medssi/internal/credential/models"
	"medssi/internal/disclosure"
	"medssi/internal/store"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

type failingStore struct{}

func (failingStore) Reset(context.Context) error {
	return errors.New("disk on fire")
}

func (failingStore) Stats(context.Context) store.Stats {
	return store.Stats{}
}

func seedOffer(t *testing.T, st *store.InMemoryStore, now time.Time) {
	t.Helper()
	offer, err := credmodels.NewOffer(credmodels.OfferParams{
		ID:            id.NewCredentialID(),
		TransactionID: id.NewTransactionID(),
		IssuerID:      "hospital-a",
		IAL:           id.IAL2,
		Scope:         disclosure.ScopeMedicalRecord,
		Mode:          credmodels.ModeWithData,
		Nonce:         "nonce",
		QRToken:       "qr-token",
		Policies:      disclosure.DefaultPolicies(),
		HolderDID:     credmodels.DefaultHolderDID,
		Payload:       credmodels.SamplePayload(now),
		CreatedAt:     now,
		ValidFor:      5 * time.Minute,
	})
	require.NoError(t, err)
	require.NoError(t, st.CreateCredential(context.Background(), offer))
}

func TestReset(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requesttime.WithTime(context.Background(), now)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("clears the store and records an audit event", func(t *testing.T) {
		st := store.New()
		seedOffer(t, st, now)
		seedOffer(t, st, now)
		auditStore := audit.NewInMemoryStore()
		svc := New(st, WithLogger(logger), WithAuditPublisher(audit.NewPublisher(auditStore)))

		at, err := svc.Reset(ctx)
		require.NoError(t, err)
		assert.Equal(t, now, at)
		assert.Equal(t, store.Stats{}, st.Stats(ctx))

		events, err := auditStore.ListBySubject(ctx, "sandbox")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.EventSandboxReset, events[0].Action)
	})

	t.Run("reset of an empty store succeeds", func(t *testing.T) {
		svc := New(store.New())
		_, err := svc.Reset(ctx)
		assert.NoError(t, err)
	})

	t.Run("store failure surfaces as internal error", func(t *testing.T) {
		svc := New(failingStore{}, WithLogger(logger))
		_, err := svc.Reset(ctx)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
