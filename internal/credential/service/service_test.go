package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"medssi/internal/audit"
	"medssi/internal/credential/metrics"
	"medssi/internal/credential/models"
	"medssi/internal/disclosure"
	jwttoken "medssi/internal/jwt_token"
	"medssi/internal/payload"
	"medssi/internal/store"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/platform/middleware/requesttime"
)

type ServiceSuite struct {
	suite.Suite
	store      *store.InMemoryStore
	auditStore *audit.InMemoryStore
	metrics    *metrics.Metrics
	jwt        *jwttoken.JWTService
	service    *Service
	now        time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.New()
	s.auditStore = audit.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.jwt = jwttoken.NewJWTService("test-signing-key", "https://medssi.test", 10*time.Minute)
	s.now = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	s.service = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.auditStore)),
		WithMetrics(s.metrics),
		WithTokenIssuer(s.jwt),
	)
}

func (s *ServiceSuite) ctxAt(t time.Time) context.Context {
	return requesttime.WithTime(context.Background(), t)
}

func (s *ServiceSuite) ctx() context.Context {
	return s.ctxAt(s.now)
}

func (s *ServiceSuite) issueWithData() *models.Offer {
	offer, err := s.service.Issue(s.ctx(), IssueCommand{
		IssuerID:     "hospital-a",
		Scope:        disclosure.ScopeMedicalRecord,
		IAL:          id.IAL2,
		Mode:         models.ModeWithData,
		ValidMinutes: 5,
	})
	s.Require().NoError(err)
	return offer
}

func (s *ServiceSuite) issueWithoutData(template payload.Node) *models.Offer {
	offer, err := s.service.Issue(s.ctx(), IssueCommand{
		IssuerID:        "hospital-a",
		Scope:           disclosure.ScopeMedicationPickup,
		IAL:             id.IAL2,
		Mode:            models.ModeWithoutData,
		ValidMinutes:    5,
		PayloadTemplate: template,
	})
	s.Require().NoError(err)
	return offer
}

func (s *ServiceSuite) TestIssue() {
	s.Run("with data uses sample payload, default holder and default policies", func() {
		offer := s.issueWithData()

		s.Equal(models.StatusOffered, offer.Status)
		s.Equal(models.DefaultHolderDID, offer.HolderDID)
		s.Equal(disclosure.DefaultPolicies(), offer.Policies)
		s.Equal(s.now.Add(5*time.Minute), offer.ExpiresAt)
		s.NotEmpty(offer.Nonce)
		s.NotEmpty(offer.QRToken)
		value, ok := payload.Resolve(offer.Payload, "condition.code.coding[0].code")
		s.True(ok)
		s.Equal("K29.7", value)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.OffersCreated.WithLabelValues("MEDICAL_RECORD", "WITH_DATA")))
	})

	s.Run("supplied payload is merged over the sample", func() {
		offer, err := s.service.Issue(s.ctx(), IssueCommand{
			IssuerID:     "hospital-a",
			Scope:        disclosure.ScopeMedicalRecord,
			IAL:          id.IAL2,
			Mode:         models.ModeWithData,
			ValidMinutes: 5,
			Payload: payload.Map(map[string]payload.Node{
				"managing_organization": payload.Map(map[string]payload.Node{"value": payload.String("org:clinic-b")}),
			}),
		})
		s.Require().NoError(err)

		org, _ := payload.Resolve(offer.Payload, "managing_organization.value")
		system, _ := payload.Resolve(offer.Payload, "managing_organization.system")
		s.Equal("org:clinic-b", org)
		s.Equal("urn:medssi:org", system)
	})

	s.Run("without data keeps no payload and merges template", func() {
		offer := s.issueWithoutData(payload.Map(map[string]payload.Node{
			"encounter_summary_hash": payload.String("urn:sha256:template"),
		}))

		s.True(offer.Payload.IsAbsent())
		s.Empty(offer.HolderDID)
		hash, _ := payload.Resolve(offer.PayloadTemplate, "encounter_summary_hash")
		s.Equal("urn:sha256:template", hash)
	})

	s.Run("without data and without template has no template", func() {
		offer := s.issueWithoutData(payload.Absent())
		s.True(offer.PayloadTemplate.IsAbsent())
	})

	s.Run("explicit empty policies are rejected", func() {
		_, err := s.service.Issue(s.ctx(), IssueCommand{
			IssuerID: "hospital-a", Scope: disclosure.ScopeMedicalRecord, IAL: id.IAL2,
			Mode: models.ModeWithData, ValidMinutes: 5, Policies: []disclosure.Policy{},
		})
		s.True(dErrors.HasCode(err, dErrors.CodePolicyEmpty))
	})

	s.Run("duplicate policy scope is rejected", func() {
		p := disclosure.Policy{Scope: disclosure.ScopeMedicalRecord, Fields: []string{"condition.recordedDate"}}
		_, err := s.service.Issue(s.ctx(), IssueCommand{
			IssuerID: "hospital-a", Scope: disclosure.ScopeMedicalRecord, IAL: id.IAL2,
			Mode: models.ModeWithData, ValidMinutes: 5, Policies: []disclosure.Policy{p, p},
		})
		s.True(dErrors.HasCode(err, dErrors.CodePolicyDuplicateScope))
	})

	s.Run("validity window is bounded", func() {
		for _, minutes := range []int{0, 11} {
			_, err := s.service.Issue(s.ctx(), IssueCommand{
				IssuerID: "hospital-a", Scope: disclosure.ScopeMedicalRecord, IAL: id.IAL2,
				Mode: models.ModeWithData, ValidMinutes: minutes,
			})
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), minutes)
		}
	})

	s.Run("caller supplied transaction id must be a uuid and unused", func() {
		cmd := IssueCommand{
			IssuerID: "hospital-a", Scope: disclosure.ScopeMedicalRecord, IAL: id.IAL2,
			Mode: models.ModeWithData, ValidMinutes: 5,
			TransactionID: "0B8E0F6A-3C55-4C3B-9C53-8F0D6A1E2B44",
		}
		offer, err := s.service.Issue(s.ctx(), cmd)
		s.Require().NoError(err)
		s.Equal("0b8e0f6a-3c55-4c3b-9c53-8f0d6a1e2b44", offer.TransactionID.String())

		_, err = s.service.Issue(s.ctx(), cmd)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		cmd.TransactionID = "not-a-uuid"
		_, err = s.service.Issue(s.ctx(), cmd)
		s.True(dErrors.HasCode(err, dErrors.CodeTransactionIDInvalid))
	})
}

func (s *ServiceSuite) TestNonce() {
	offer := s.issueWithData()

	s.Run("live offer is returned", func() {
		got, err := s.service.Nonce(s.ctx(), offer.TransactionID.String())
		s.Require().NoError(err)
		s.Equal(offer.Nonce, got.Nonce)
	})

	s.Run("malformed transaction id", func() {
		_, err := s.service.Nonce(s.ctx(), "abc")
		s.True(dErrors.HasCode(err, dErrors.CodeTransactionIDInvalid))
	})

	s.Run("unknown transaction", func() {
		_, err := s.service.Nonce(s.ctx(), id.NewTransactionID().String())
		s.True(dErrors.HasCode(err, dErrors.CodeTransactionNotFound))
	})

	s.Run("expired offer", func() {
		_, err := s.service.Nonce(s.ctxAt(s.now.Add(6*time.Minute)), offer.TransactionID.String())
		s.True(dErrors.HasCode(err, dErrors.CodeOfferExpired))
	})
}

func (s *ServiceSuite) TestLookupTransaction() {
	offer := s.issueWithData()

	s.Run("expired offers are still returned with a token", func() {
		later := s.now.Add(time.Hour)
		lookup, err := s.service.LookupTransaction(s.ctxAt(later), offer.TransactionID.String())
		s.Require().NoError(err)
		s.Equal(offer.ID, lookup.Offer.ID)

		claims, err := s.jwt.ValidateCredentialToken(lookup.CredentialToken, later)
		s.Require().NoError(err)
		s.Equal(offer.Nonce, claims.Nonce)
		s.Equal(offer.ID.String(), claims.ID)
		s.Equal("IAL2", claims.IAL)
	})

	s.Run("unknown transaction", func() {
		_, err := s.service.LookupTransaction(s.ctx(), "whatever")
		s.True(dErrors.HasCode(err, dErrors.CodeTransactionNotFound))
	})
}

func (s *ServiceSuite) TestAccept() {
	s.Run("binds holder, selection and retention", func() {
		offer := s.issueWithData()
		acceptedAt := s.now.Add(time.Minute)

		got, err := s.service.Act(s.ctxAt(acceptedAt), offer.ID.String(), ActionCommand{
			Action:      models.ActionAccept,
			HolderDID:   "did:example:alice",
			Disclosures: map[string]string{"condition.code.coding[0].code": "K29.7"},
		})
		s.Require().NoError(err)
		s.Equal(models.StatusIssued, got.Status)
		s.Equal("did:example:alice", got.HolderDID)
		s.Equal(acceptedAt, *got.IssuedAt)
		s.Equal(acceptedAt.Add(7*24*time.Hour), *got.RetentionExpiresAt)

		stored, err := s.store.FindCredential(s.ctx(), offer.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusIssued, stored.Status)

		events, err := s.auditStore.ListBySubject(s.ctx(), offer.ID.String())
		s.Require().NoError(err)
		s.Len(events, 2)
		s.Equal(models.AuditActionCredentialAccepted, events[1].Action)
	})

	s.Run("disclosures outside policy are listed", func() {
		offer := s.issueWithData()
		_, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{
			Action:      models.ActionAccept,
			Disclosures: map[string]string{"ssn": "x", "condition.recordedDate": "2026-02-10"},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeDisclosureInvalid))
		s.Equal([]string{"ssn"}, dErrors.FieldsOf(err))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.ActionsRejected.WithLabelValues("ACCEPT", "disclosure_invalid")))
	})

	s.Run("without data requires payload then merges over template", func() {
		offer := s.issueWithoutData(payload.Map(map[string]payload.Node{
			"managing_organization": payload.Map(map[string]payload.Node{"value": payload.String("org:template")}),
		}))

		_, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{Action: models.ActionAccept, HolderDID: "did:example:bob"})
		s.True(dErrors.HasCode(err, dErrors.CodePayloadRequired))

		got, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{
			Action:    models.ActionAccept,
			HolderDID: "did:example:bob",
			Payload:   payload.Map(map[string]payload.Node{"encounter_summary_hash": payload.String("urn:sha256:bob")}),
		})
		s.Require().NoError(err)
		org, _ := payload.Resolve(got.Payload, "managing_organization.value")
		hash, _ := payload.Resolve(got.Payload, "encounter_summary_hash")
		s.Equal("org:template", org)
		s.Equal("urn:sha256:bob", hash)
		s.Equal(s.now.Add(3*24*time.Hour), *got.RetentionExpiresAt)
	})

	s.Run("without data requires a holder", func() {
		offer := s.issueWithoutData(payload.Absent())
		_, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{
			Action:  models.ActionAccept,
			Payload: payload.Map(map[string]payload.Node{"a": payload.String("b")}),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeHolderRequired))
	})

	s.Run("expired offer cannot be accepted", func() {
		offer := s.issueWithData()
		_, err := s.service.Act(s.ctxAt(s.now.Add(5*time.Minute)), offer.ID.String(), ActionCommand{Action: models.ActionAccept})
		s.True(dErrors.HasCode(err, dErrors.CodeOfferExpired))
	})

	s.Run("unknown credential", func() {
		_, err := s.service.Act(s.ctx(), "cred-missing", ActionCommand{Action: models.ActionAccept})
		s.True(dErrors.HasCode(err, dErrors.CodeCredentialNotFound))
	})
}

func (s *ServiceSuite) TestLifecycleTransitions() {
	s.Run("update requires issued and keeps retention", func() {
		offer := s.issueWithData()
		_, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{Action: models.ActionUpdate})
		s.True(dErrors.HasCode(err, dErrors.CodeNotIssued))

		accepted, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{Action: models.ActionAccept})
		s.Require().NoError(err)

		later := s.now.Add(48 * time.Hour)
		updated, err := s.service.Act(s.ctxAt(later), offer.ID.String(), ActionCommand{
			Action:      models.ActionUpdate,
			Disclosures: map[string]string{"condition.recordedDate": "2026-02-10"},
		})
		s.Require().NoError(err)
		s.Equal(*accepted.RetentionExpiresAt, *updated.RetentionExpiresAt)
		s.Equal(later, updated.LastActionAt)
		s.Equal([]string{"condition.recordedDate"}, updated.DisclosedFields())
	})

	s.Run("decline then accept fails", func() {
		offer := s.issueWithData()
		_, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{Action: models.ActionDecline})
		s.Require().NoError(err)

		_, err = s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{Action: models.ActionAccept})
		s.True(dErrors.HasCode(err, dErrors.CodeCredentialDeclined))
	})

	s.Run("issuer revoke blocks accept and collapses retention", func() {
		offer := s.issueWithData()
		revokedAt := s.now.Add(time.Minute)
		got, err := s.service.Revoke(s.ctxAt(revokedAt), offer.ID.String())
		s.Require().NoError(err)
		s.Equal(models.StatusRevoked, got.Status)
		s.Equal(revokedAt, *got.RetentionExpiresAt)

		_, err = s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{Action: models.ActionAccept})
		s.True(dErrors.HasCode(err, dErrors.CodeCredentialRevoked))
	})

	s.Run("unsupported action", func() {
		offer := s.issueWithData()
		_, err := s.service.Act(s.ctx(), offer.ID.String(), ActionCommand{Action: models.Action("ARCHIVE")})
		s.True(dErrors.HasCode(err, dErrors.CodeUnsupportedAction))
	})
}

func (s *ServiceSuite) TestDelete() {
	offer := s.issueWithData()

	s.Require().NoError(s.service.Delete(s.ctx(), offer.ID.String()))
	_, err := s.store.FindCredential(s.ctx(), offer.ID)
	s.Error(err)

	err = s.service.Delete(s.ctx(), offer.ID.String())
	s.True(dErrors.HasCode(err, dErrors.CodeCredentialNotFound))
}

func (s *ServiceSuite) TestWallet() {
	first := s.issueWithData()
	second := s.issueWithData()
	s.issueWithoutData(payload.Absent())

	offers, err := s.service.ListForHolder(s.ctx(), models.DefaultHolderDID)
	s.Require().NoError(err)
	s.Require().Len(offers, 2)
	s.ElementsMatch([]id.CredentialID{first.ID, second.ID}, []id.CredentialID{offers[0].ID, offers[1].ID})

	empty, err := s.service.ListForHolder(s.ctx(), "did:example:nobody")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	summary, err := s.service.Forget(s.ctx(), models.DefaultHolderDID)
	s.Require().NoError(err)
	s.Equal(2, summary.Credentials)

	offers, err = s.service.ListForHolder(s.ctx(), models.DefaultHolderDID)
	s.Require().NoError(err)
	s.Empty(offers)

	raw, err := s.auditStore.ListBySubject(s.ctx(), models.DefaultHolderDID)
	s.Require().NoError(err)
	s.Empty(raw)
	masked, err := s.auditStore.ListBySubject(s.ctx(), "did:example:***demo")
	s.Require().NoError(err)
	s.Require().Len(masked, 1)
	s.Equal(models.AuditActionHolderForgotten, masked[0].Action)

	_, err = s.service.Forget(s.ctx(), " ")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}
