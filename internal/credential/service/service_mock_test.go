package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,TokenIssuer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"medssi/internal/credential/models"
	"medssi/internal/credential/service/mocks"
	"medssi/internal/disclosure"
	jwttoken "medssi/internal/jwt_token"
	"medssi/internal/sentinel"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

type ServiceMockSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *mocks.MockStore
	mockToken *mocks.MockTokenIssuer
	service   *Service
	ctx       context.Context
	now       time.Time
}

func TestServiceMockSuite(t *testing.T) {
	suite.Run(t, new(ServiceMockSuite))
}

func (s *ServiceMockSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockToken = mocks.NewMockTokenIssuer(s.ctrl)
	s.service = New(s.mockStore,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithTokenIssuer(s.mockToken),
	)
	s.now = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	s.ctx = requesttime.WithTime(context.Background(), s.now)
}

func (s *ServiceMockSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceMockSuite) passthroughTx() {
	s.mockStore.EXPECT().RunInTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func (s *ServiceMockSuite) offer() *models.Offer {
	offer, err := models.NewOffer(models.OfferParams{
		ID:            id.CredentialID("cred-1"),
		TransactionID: id.NewTransactionID(),
		IssuerID:      "hospital-a",
		IAL:           id.IAL2,
		Scope:         disclosure.ScopeMedicalRecord,
		Mode:          models.ModeWithData,
		Nonce:         "nonce-1",
		QRToken:       "qr-1",
		Policies:      disclosure.DefaultPolicies(),
		HolderDID:     models.DefaultHolderDID,
		Payload:       models.SamplePayload(s.now),
		CreatedAt:     s.now,
		ValidFor:      5 * time.Minute,
	})
	s.Require().NoError(err)
	return offer
}

func (s *ServiceMockSuite) TestIssueStoreFailure() {
	s.mockStore.EXPECT().CreateCredential(gomock.Any(), gomock.Any()).Return(errors.New("disk on fire"))

	_, err := s.service.Issue(s.ctx, IssueCommand{
		IssuerID: "hospital-a", Scope: disclosure.ScopeMedicalRecord, IAL: id.IAL2,
		Mode: models.ModeWithData, ValidMinutes: 5,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceMockSuite) TestLookupTransaction() {
	s.Run("token issuer receives offer data", func() {
		offer := s.offer()
		s.mockStore.EXPECT().FindCredentialByTransaction(gomock.Any(), offer.TransactionID).Return(offer, nil)
		s.mockToken.EXPECT().GenerateCredentialToken(gomock.Any(), s.now).
			DoAndReturn(func(in jwttoken.CredentialTokenInput, _ time.Time) (string, error) {
				s.Equal(offer.ID, in.CredentialID)
				s.Equal("nonce-1", in.Nonce)
				s.Equal(models.DefaultHolderDID, in.HolderDID)
				return "signed", nil
			})

		lookup, err := s.service.LookupTransaction(s.ctx, offer.TransactionID.String())
		s.Require().NoError(err)
		s.Equal("signed", lookup.CredentialToken)
	})

	s.Run("signing failure is internal", func() {
		offer := s.offer()
		s.mockStore.EXPECT().FindCredentialByTransaction(gomock.Any(), gomock.Any()).Return(offer, nil)
		s.mockToken.EXPECT().GenerateCredentialToken(gomock.Any(), gomock.Any()).Return("", errors.New("no key"))

		_, err := s.service.LookupTransaction(s.ctx, offer.TransactionID.String())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceMockSuite) TestActStoreErrors() {
	s.Run("missing credential maps to credential_not_found", func() {
		s.passthroughTx()
		s.mockStore.EXPECT().FindCredential(gomock.Any(), id.CredentialID("cred-1")).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Act(s.ctx, "cred-1", ActionCommand{Action: models.ActionDecline})
		s.True(dErrors.HasCode(err, dErrors.CodeCredentialNotFound))
	})

	s.Run("persist failure is internal", func() {
		s.passthroughTx()
		s.mockStore.EXPECT().FindCredential(gomock.Any(), gomock.Any()).Return(s.offer(), nil)
		s.mockStore.EXPECT().UpdateCredential(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))

		_, err := s.service.Act(s.ctx, "cred-1", ActionCommand{Action: models.ActionDecline})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("record removed before persist maps to credential_not_found", func() {
		for _, cmd := range []ActionCommand{
			{Action: models.ActionDecline},
			{Action: models.ActionAccept, HolderDID: "did:example:alice"},
		} {
			s.passthroughTx()
			s.mockStore.EXPECT().FindCredential(gomock.Any(), id.CredentialID("cred-1")).Return(s.offer(), nil)
			s.mockStore.EXPECT().UpdateCredential(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)

			_, err := s.service.Act(s.ctx, "cred-1", cmd)
			s.True(dErrors.HasCode(err, dErrors.CodeCredentialNotFound), string(cmd.Action))
		}
	})

	s.Run("revoke of a removed record maps to credential_not_found", func() {
		s.passthroughTx()
		s.mockStore.EXPECT().FindCredential(gomock.Any(), id.CredentialID("cred-1")).Return(s.offer(), nil)
		s.mockStore.EXPECT().UpdateCredential(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)

		_, err := s.service.Revoke(s.ctx, "cred-1")
		s.True(dErrors.HasCode(err, dErrors.CodeCredentialNotFound))
	})

	s.Run("lock timeout keeps its code", func() {
		s.mockStore.EXPECT().RunInTx(gomock.Any(), "cred-1", gomock.Any()).
			Return(dErrors.New(dErrors.CodeTimeout, "lock wait exceeded"))

		_, err := s.service.Act(s.ctx, "cred-1", ActionCommand{Action: models.ActionDecline})
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func (s *ServiceMockSuite) TestDeleteNotFound() {
	s.passthroughTx()
	s.mockStore.EXPECT().DeleteCredential(gomock.Any(), id.CredentialID("cred-1")).Return(sentinel.ErrNotFound)

	err := s.service.Delete(s.ctx, "cred-1")
	s.True(dErrors.HasCode(err, dErrors.CodeCredentialNotFound))
}
