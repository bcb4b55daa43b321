package jwttoken

import (
	"strings"

	dErrors "medssi/pkg/domain-errors"
)

const bearerPrefix = "Bearer "

// ExtractBearerToken returns the token from an Authorization header.
// A missing header or a header without the Bearer scheme is unauthorized.
func ExtractBearerToken(authHeader string) (string, error) {
	if len(authHeader) <= len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", dErrors.New(dErrors.CodeUnauthorized, "missing or malformed authorization header")
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "missing bearer token")
	}
	return token, nil
}
