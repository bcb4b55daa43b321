package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	jwttoken "medssi/internal/jwt_token"
	dErrors "medssi/pkg/domain-errors"
	"medssi/pkg/requestcontext"
	"medssi/pkg/secrets"
)

// Role is a sandbox caller role. Each role has exactly one shared bearer token.
type Role string

const (
	RoleIssuer   Role = "issuer"
	RoleVerifier Role = "verifier"
	RoleWallet   Role = "wallet"
)

// Roles lists every role in precedence order for RequireAny.
var Roles = []Role{RoleIssuer, RoleVerifier, RoleWallet}

// Tokens maps each role to its configured plaintext bearer token.
type Tokens map[Role]string

// Authenticator checks bearer tokens against bcrypt hashes of the configured
// role tokens so plaintext tokens are not retained after startup.
type Authenticator struct {
	hashes map[Role]string
	logger *slog.Logger
}

// NewAuthenticator hashes each configured token. A role without a token
// can never be satisfied.
func NewAuthenticator(tokens Tokens, logger *slog.Logger) (*Authenticator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	hashes := make(map[Role]string, len(tokens))
	for role, token := range tokens {
		if token == "" {
			continue
		}
		hash, err := secrets.HashToken(token, bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash %s token: %w", role, err)
		}
		hashes[role] = hash
	}
	return &Authenticator{hashes: hashes, logger: logger}, nil
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// Require returns middleware admitting only callers presenting the token of role.
func (a *Authenticator) Require(role Role) func(http.Handler) http.Handler {
	return a.require([]Role{role})
}

// RequireAny admits a caller presenting any sandbox role token.
func (a *Authenticator) RequireAny() func(http.Handler) http.Handler {
	return a.require(Roles)
}

func (a *Authenticator) require(roles []Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, err := jwttoken.ExtractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				a.logger.WarnContext(ctx, "unauthorized access - missing token",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authorization header must be formatted as 'Bearer <token>'")
				return
			}

			role, err := a.match(token, roles)
			if err != nil {
				a.logger.WarnContext(ctx, "forbidden - token rejected",
					"path", r.URL.Path,
					"required_roles", roles,
					"request_id", requestcontext.RequestID(ctx),
				)
				if dErrors.HasCode(err, dErrors.CodeForbidden) {
					writeJSONError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("The supplied token is not valid for %s operations", describe(roles)))
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to validate token")
				return
			}

			ctx = requestcontext.WithRole(ctx, string(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Authenticator) match(token string, roles []Role) (Role, error) {
	for _, role := range roles {
		hash, ok := a.hashes[role]
		if !ok {
			continue
		}
		err := secrets.VerifyToken(token, hash)
		if err == nil {
			return role, nil
		}
		if !dErrors.HasCode(err, dErrors.CodeForbidden) {
			return "", err
		}
	}
	return "", dErrors.New(dErrors.CodeForbidden, "token rejected")
}

func describe(roles []Role) string {
	if len(roles) == 1 {
		return string(roles[0])
	}
	return "sandbox"
}
