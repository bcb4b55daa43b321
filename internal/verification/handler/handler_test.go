package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"medssi/internal/disclosure"
	pmodels "medssi/internal/presentation/models"
	"medssi/internal/store"
	"medssi/internal/verification/handler/mocks"
	vmodels "medssi/internal/verification/models"
	"medssi/internal/verification/service"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type VerificationHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
	now     time.Time
}

func TestVerificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(VerificationHandlerSuite))
}

func (s *VerificationHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.RegisterVerifier(r)
	h.RegisterCompatVerifier(r)
	s.router = r
}

func (s *VerificationHandlerSuite) session(fields ...string) *vmodels.Session {
	session, err := vmodels.NewSession(vmodels.SessionParams{
		ID:            id.NewSessionID(),
		TransactionID: id.NewTransactionID(),
		VerifierID:    "clinic-1",
		VerifierName:  "Clinic One",
		Purpose:       "Clinical research",
		RequiredIAL:   id.IAL2,
		Scope:         disclosure.ScopeMedicalRecord,
		AllowedFields: fields,
		QRToken:       "vp-token-1",
		CreatedAt:     s.now,
		ValidFor:      5 * time.Minute,
	})
	s.Require().NoError(err)
	return session
}

func (s *VerificationHandlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *VerificationHandlerSuite) decode(rec *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), into))
}

func (s *VerificationHandlerSuite) assertError(rec *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, rec.Code)
	var body map[string]any
	s.decode(rec, &body)
	s.Equal(code, body["error"])
}

func (s *VerificationHandlerSuite) TestCreateCode() {
	s.Run("applies query defaults and splits fields", func() {
		session := s.session("condition.code", "encounter.date")
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd service.CreateCommand) (*vmodels.Session, error) {
				s.Equal("clinic-1", cmd.VerifierID)
				s.Equal("Clinic One", cmd.VerifierName)
				s.Equal("Clinical research", cmd.Purpose)
				s.Equal(id.IAL2, cmd.IAL)
				s.Equal(disclosure.ScopeMedicalRecord, cmd.Scope)
				s.Equal([]string{"condition.code", "encounter.date"}, cmd.Fields)
				s.Equal(5, cmd.ValidMinutes)
				s.False(cmd.FallbackToDefaults)
				return session, nil
			})

		rec := s.do(http.MethodGet,
			"/v2/api/did/vp/code?verifierId=clinic-1&verifierName=Clinic%20One&fields=condition.code,encounter.date", "")

		s.Require().Equal(http.StatusOK, rec.Code)
		var body CodeResponse
		s.decode(rec, &body)
		s.Equal(session.ID.String(), body.Session.SessionID)
		s.Equal("IAL2", body.Session.IALMin)
		s.Equal("medssi://vp-session?token=vp-token-1", body.QRPayload)
	})

	s.Run("repeated fields and explicit options", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd service.CreateCommand) (*vmodels.Session, error) {
				s.Equal(id.IAL3, cmd.IAL)
				s.Equal(disclosure.ScopeMedicationPickup, cmd.Scope)
				s.Equal([]string{"medication_dispense[0].days"}, cmd.Fields)
				s.Equal(10, cmd.ValidMinutes)
				return s.session("medication_dispense[0].days"), nil
			})

		rec := s.do(http.MethodGet,
			"/v2/api/did/vp/code?verifierId=pharm&verifierName=Pharm&ial_min=IAL3&scope=MEDICATION_PICKUP"+
				"&fields=medication_dispense[0].days&fields=medication_dispense[0].days&validMinutes=10", "")

		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("missing verifier is a validation error", func() {
		rec := s.do(http.MethodGet, "/v2/api/did/vp/code?verifierName=Clinic&fields=a", "")
		s.assertError(rec, http.StatusBadRequest, "validation_error")
	})

	s.Run("non-numeric validMinutes is rejected", func() {
		rec := s.do(http.MethodGet, "/v2/api/did/vp/code?verifierId=a&verifierName=b&fields=x&validMinutes=soon", "")
		s.assertError(rec, http.StatusBadRequest, "validation_error")
	})

	s.Run("unknown scope is rejected", func() {
		rec := s.do(http.MethodGet, "/v2/api/did/vp/code?verifierId=a&verifierName=b&fields=x&scope=BILLING", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("service errors pass through", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeFieldsRequired, "at least one field is required"))

		rec := s.do(http.MethodGet, "/v2/api/did/vp/code?verifierId=a&verifierName=b", "")
		s.assertError(rec, http.StatusBadRequest, "fields_required")
	})
}

func (s *VerificationHandlerSuite) TestSessionStatusAndPurge() {
	s.Run("reports derived status", func() {
		session := s.session("condition.code")
		s.service.EXPECT().Get(gomock.Any(), session.ID.String()).
			Return(session, vmodels.StatusActive, nil)

		rec := s.do(http.MethodGet, "/v2/api/did/vp/session/"+session.ID.String(), "")

		s.Require().Equal(http.StatusOK, rec.Code)
		var body SessionStatusResponse
		s.decode(rec, &body)
		s.Equal(vmodels.StatusActive, body.Status)
		s.Equal([]string{"condition.code"}, body.Session.AllowedFields)
	})

	s.Run("unknown session is not found", func() {
		s.service.EXPECT().Get(gomock.Any(), "sess_missing").
			Return(nil, vmodels.Status(""), dErrors.New(dErrors.CodeSessionNotFound, "session not found"))

		rec := s.do(http.MethodGet, "/v2/api/did/vp/session/sess_missing", "")
		s.assertError(rec, http.StatusNotFound, "session_not_found")
	})

	s.Run("purge reports counts", func() {
		s.service.EXPECT().Purge(gomock.Any(), "sess_1").
			Return(store.PurgeSummary{Sessions: 1, Presentations: 2, Results: 2}, nil)

		rec := s.do(http.MethodDelete, "/v2/api/did/vp/session/sess_1", "")

		s.Require().Equal(http.StatusOK, rec.Code)
		var body PurgeResponse
		s.decode(rec, &body)
		s.Equal("sess_1", body.SessionID)
		s.Equal("PURGED", body.Status)
		s.Equal(2, body.Presentations)
	})

	s.Run("purge of unknown session still succeeds", func() {
		s.service.EXPECT().Purge(gomock.Any(), "sess_gone").Return(store.PurgeSummary{}, nil)

		rec := s.do(http.MethodDelete, "/v2/api/did/vp/session/sess_gone", "")
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *VerificationHandlerSuite) TestOIDVPQRCode() {
	s.Run("falls back to default fields", func() {
		session := s.session(disclosure.DefaultFields(disclosure.ScopeMedicalRecord)...)
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd service.CreateCommand) (*vmodels.Session, error) {
				s.True(cmd.FallbackToDefaults)
				s.Empty(cmd.Fields)
				s.Empty(cmd.Purpose)
				s.Equal("tx-42", cmd.TransactionID)
				s.Equal("template-7", cmd.TemplateRef)
				s.Equal(5, cmd.ValidMinutes)
				return session, nil
			})

		rec := s.do(http.MethodPost, "/api/oidvp/qrcode",
			`{"verifierId":"clinic-1","verifierName":"Clinic One","transactionId":"tx-42","ref":"template-7"}`)

		s.Require().Equal(http.StatusCreated, rec.Code)
		var body OIDVPQRCodeResponse
		s.decode(rec, &body)
		s.Equal(session.TransactionID.String(), body.TransactionID)
		s.Equal("medssi://vp-session?token=vp-token-1", body.QRPayload)
		s.Equal("modadigitalwallet://authorize?token=vp-token-1&transactionId="+session.TransactionID.String(), body.AuthURI)
		s.True(strings.HasPrefix(body.QRCodeImage, "data:text/plain;base64,"))
		s.Equal("MEDICAL_RECORD", body.Scope)
	})

	s.Run("malformed body", func() {
		rec := s.do(http.MethodPost, "/api/oidvp/qrcode", `{"verifierId":`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *VerificationHandlerSuite) TestOIDVPResult() {
	s.Run("maps disclosed fields to sorted claims", func() {
		session := s.session("condition.code", "condition.display")
		s.service.EXPECT().Poll(gomock.Any(), session.TransactionID.String()).
			Return(&service.PollResult{
				Session: session,
				Result: &pmodels.Result{
					SessionID:  session.ID,
					VerifierID: session.VerifierID,
					Verified:   true,
					Presentation: &pmodels.Presentation{
						ID:        id.NewPresentationID(),
						SessionID: session.ID,
						Disclosed: map[string]string{
							"condition.display": "Hypertension",
							"condition.code":    "I10",
						},
					},
				},
			}, nil)

		rec := s.do(http.MethodPost, "/api/oidvp/result",
			`{"transactionId":"`+session.TransactionID.String()+`"}`)

		s.Require().Equal(http.StatusOK, rec.Code)
		var body OIDVPResultResponse
		s.decode(rec, &body)
		s.True(body.VerifyResult)
		s.Equal("success", body.ResultDescription)
		s.Require().Len(body.Data, 1)
		s.Equal("MedSSI.VerifiableCredential", body.Data[0].CredentialType)
		s.Equal([]OIDVPClaim{
			{EName: "condition.code", CName: "condition.code", Value: "I10"},
			{EName: "condition.display", CName: "condition.display", Value: "Hypertension"},
		}, body.Data[0].Claims)
	})

	s.Run("pending result", func() {
		s.service.EXPECT().Poll(gomock.Any(), "tx-1").
			Return(nil, dErrors.New(dErrors.CodeResultPending, "no presentation yet"))

		rec := s.do(http.MethodPost, "/api/oidvp/result", `{"transactionId":"tx-1"}`)
		s.assertError(rec, http.StatusBadRequest, "result_pending")
	})

	s.Run("unknown transaction", func() {
		s.service.EXPECT().Poll(gomock.Any(), "tx-2").
			Return(nil, dErrors.New(dErrors.CodeTransactionNotFound, "transaction not found"))

		rec := s.do(http.MethodPost, "/api/oidvp/result", `{"transactionId":"tx-2"}`)
		s.assertError(rec, http.StatusNotFound, "transaction_not_found")
	})

	s.Run("transaction id is required", func() {
		rec := s.do(http.MethodPost, "/api/oidvp/result", `{}`)
		s.assertError(rec, http.StatusBadRequest, "validation_error")
	})
}
