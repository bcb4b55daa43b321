// Package secrets mints the opaque values handed to wallets (offer nonces,
// QR tokens) and keeps configured role tokens hashed at rest.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "medssi/pkg/domain-errors"
)

const (
	nonceBytes   = 16
	qrTokenBytes = 24
)

// NewNonce returns a fresh offer nonce.
func NewNonce() (string, error) {
	return random(nonceBytes)
}

// NewQRToken returns the opaque token embedded in offer and session QR links.
func NewQRToken() (string, error) {
	return random(qrTokenBytes)
}

func random(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken bcrypt-hashes a configured bearer token. Role tokens are
// high-entropy and checked on every request, so callers pass a low cost.
func HashToken(token string, cost int) (string, error) {
	if token == "" {
		return "", dErrors.New(dErrors.CodeValidation, "token cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", dErrors.New(dErrors.CodeValidation, "token is longer than 72 bytes")
	case err != nil:
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash token")
	}
	return string(hashed), nil
}

// VerifyToken reports CodeForbidden when token does not match hash.
func VerifyToken(token, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return dErrors.New(dErrors.CodeForbidden, "token rejected")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not verify token")
	}
}
