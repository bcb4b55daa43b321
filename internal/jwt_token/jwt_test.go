package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
)

var (
	issuedAt  = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	expiresIn = 10 * time.Minute
)

var jwtService = NewJWTService("test-signing-key", "https://medssi.test", expiresIn)

func credentialInput() CredentialTokenInput {
	return CredentialTokenInput{
		CredentialID:  id.CredentialID("cred-0123"),
		TransactionID: id.TransactionID("7c1f3b2e-9d0a-4c8e-8f5e-2b1f6a4d9e01"),
		IssuerID:      "hospital-a",
		HolderDID:     "did:example:patient-demo",
		Scope:         "MEDICAL_RECORD",
		Nonce:         "nonce-123",
		IAL:           id.IAL2,
	}
}

func Test_GenerateCredentialToken(t *testing.T) {
	token, err := jwtService.GenerateCredentialToken(credentialInput(), issuedAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateCredentialToken(token, issuedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "cred-0123", claims.ID)
	assert.Equal(t, "did:example:patient-demo", claims.Subject)
	assert.Equal(t, "https://medssi.test/issuers/hospital-a", claims.Issuer)
	assert.Equal(t, "MEDICAL_RECORD", claims.Scope)
	assert.Equal(t, "nonce-123", claims.Nonce)
	assert.Equal(t, "IAL2", claims.IAL)
	assert.Equal(t, issuedAt.Add(expiresIn), claims.ExpiresAt.Time.UTC())
}

func Test_GenerateCredentialToken_RequiresNonce(t *testing.T) {
	in := credentialInput()
	in.Nonce = ""
	_, err := jwtService.GenerateCredentialToken(in, issuedAt)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func Test_ValidateCredentialToken_Expired(t *testing.T) {
	token, err := jwtService.GenerateCredentialToken(credentialInput(), issuedAt)
	require.NoError(t, err)

	_, err = jwtService.ValidateCredentialToken(token, issuedAt.Add(expiresIn+time.Minute))
	require.ErrorContains(t, err, "token expired")
}

func Test_ValidateCredentialToken_Invalid(t *testing.T) {
	_, err := jwtService.ValidateCredentialToken("invalid-token-string", issuedAt)
	require.ErrorContains(t, err, "invalid token")
}

func Test_ValidateCredentialToken_WrongKey(t *testing.T) {
	other := NewJWTService("other-key", "https://medssi.test", expiresIn)
	token, err := other.GenerateCredentialToken(credentialInput(), issuedAt)
	require.NoError(t, err)

	_, err = jwtService.ValidateCredentialToken(token, issuedAt)
	require.ErrorContains(t, err, "invalid token")
}

func Test_ValidateCredentialToken_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, CredentialClaims{Nonce: "n"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.ValidateCredentialToken(token, issuedAt)
	require.Error(t, err)
}

func Test_ExtractBearerToken(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		token, err := ExtractBearerToken("Bearer issuer-token")
		require.NoError(t, err)
		assert.Equal(t, "issuer-token", token)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		token, err := ExtractBearerToken("bearer wallet-token")
		require.NoError(t, err)
		assert.Equal(t, "wallet-token", token)
	})

	for _, header := range []string{"", "Bearer ", "Basic abc", "Token"} {
		t.Run("rejects "+header, func(t *testing.T) {
			_, err := ExtractBearerToken(header)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}
