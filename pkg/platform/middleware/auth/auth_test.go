package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"medssi/pkg/requestcontext"
)

// mockHandler is a test handler that captures if it was called and the context
type mockHandler struct {
	called  bool
	context context.Context
}

func (m *mockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.called = true
	m.context = r.Context()
	w.WriteHeader(http.StatusOK)
}

type AuthMiddlewareTestSuite struct {
	suite.Suite
	auth        *Authenticator
	nextHandler *mockHandler
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	auth, err := NewAuthenticator(Tokens{
		RoleIssuer:   "issuer-sandbox-token",
		RoleVerifier: "verifier-sandbox-token",
		RoleWallet:   "wallet-sandbox-token",
	}, slog.Default())
	s.Require().NoError(err)
	s.auth = auth
	s.nextHandler = &mockHandler{}
}

func (s *AuthMiddlewareTestSuite) serve(mw func(http.Handler) http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v2/api/qrcode/data", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	mw(s.nextHandler).ServeHTTP(w, req)
	return w
}

func (s *AuthMiddlewareTestSuite) TestRequire() {
	s.Run("matching role token passes and sets role", func() {
		w := s.serve(s.auth.Require(RoleIssuer), "Bearer issuer-sandbox-token")
		s.Equal(http.StatusOK, w.Code)
		s.True(s.nextHandler.called)
		s.Equal("issuer", requestcontext.Role(s.nextHandler.context))
	})

	s.Run("scheme is case insensitive", func() {
		w := s.serve(s.auth.Require(RoleWallet), "bearer wallet-sandbox-token")
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("missing header is unauthorized", func() {
		s.nextHandler.called = false
		w := s.serve(s.auth.Require(RoleIssuer), "")
		s.Equal(http.StatusUnauthorized, w.Code)
		s.False(s.nextHandler.called)
	})

	s.Run("wrong scheme is unauthorized", func() {
		w := s.serve(s.auth.Require(RoleIssuer), "Basic issuer-sandbox-token")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("another role's token is forbidden", func() {
		s.nextHandler.called = false
		w := s.serve(s.auth.Require(RoleIssuer), "Bearer wallet-sandbox-token")
		s.Equal(http.StatusForbidden, w.Code)
		s.Contains(w.Body.String(), "issuer operations")
		s.False(s.nextHandler.called)
	})
}

func (s *AuthMiddlewareTestSuite) TestRequireAny() {
	s.Run("accepts each role", func() {
		for _, token := range []string{"issuer-sandbox-token", "verifier-sandbox-token", "wallet-sandbox-token"} {
			w := s.serve(s.auth.RequireAny(), "Bearer "+token)
			s.Equal(http.StatusOK, w.Code, token)
		}
		s.Equal("wallet", requestcontext.Role(s.nextHandler.context))
	})

	s.Run("unknown token is forbidden", func() {
		w := s.serve(s.auth.RequireAny(), "Bearer nope")
		s.Equal(http.StatusForbidden, w.Code)
	})
}

func (s *AuthMiddlewareTestSuite) TestUnconfiguredRole() {
	auth, err := NewAuthenticator(Tokens{RoleIssuer: "issuer-sandbox-token"}, nil)
	s.Require().NoError(err)

	w := s.serve(auth.Require(RoleVerifier), "Bearer issuer-sandbox-token")
	s.Equal(http.StatusForbidden, w.Code)
}
