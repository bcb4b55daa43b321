package jwttoken

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

// CredentialClaims represents the claims of the mock credential token handed
// to wallets. The token is signed with a sandbox key and carries no real
// issuer cryptography.
type CredentialClaims struct {
	Scope         string `json:"scope"`
	Nonce         string `json:"nonce"`
	IAL           string `json:"ial"`
	TransactionID string `json:"transaction_id,omitempty"`
	jwt.RegisteredClaims
}

// CredentialTokenInput is the credential data embedded in a token.
type CredentialTokenInput struct {
	CredentialID  id.CredentialID
	TransactionID id.TransactionID
	IssuerID      string
	HolderDID     string
	Scope         string
	Nonce         string
	IAL           id.AssuranceLevel
}

// JWTService handles credential token creation and validation
type JWTService struct {
	signingKey    []byte
	issuerBaseURL string
	tokenTTL      time.Duration
}

func NewJWTService(signingKey string, issuerBaseURL string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey:    []byte(signingKey),
		issuerBaseURL: issuerBaseURL,
		tokenTTL:      tokenTTL,
	}
}

// BuildIssuer constructs a per-issuer URL. Format: {baseURL}/issuers/{issuerID}
func (s *JWTService) BuildIssuer(issuerID string) string {
	if issuerID == "" {
		return s.issuerBaseURL
	}
	return s.issuerBaseURL + "/issuers/" + issuerID
}

// GenerateCredentialToken signs a credential token issued at now.
func (s *JWTService) GenerateCredentialToken(in CredentialTokenInput, now time.Time) (string, error) {
	if in.CredentialID.IsNil() || in.Nonce == "" {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "credential token requires id and nonce")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, CredentialClaims{
		Scope:         in.Scope,
		Nonce:         in.Nonce,
		IAL:           in.IAL.String(),
		TransactionID: in.TransactionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        in.CredentialID.String(),
			Subject:   in.HolderDID,
			Issuer:    s.BuildIssuer(in.IssuerID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign credential token")
	}
	return signed, nil
}

// ValidateCredentialToken parses and verifies a credential token.
func (s *JWTService) ValidateCredentialToken(tokenString string, now time.Time) (*CredentialClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &CredentialClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid token")
	}

	claims, ok := parsed.Claims.(*CredentialClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid token claims")
	}

	// Explicit issuer validation: token issuer must match our configured base URL
	if !strings.HasPrefix(claims.Issuer, s.issuerBaseURL) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid token issuer")
	}

	return claims, nil
}
