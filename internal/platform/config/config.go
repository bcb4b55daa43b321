package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       slog.Level
	AllowedOrigins []string
	RequestTimeout time.Duration
	SweepInterval  time.Duration
	TrustedProxies []string

	IssuerToken   string
	VerifierToken string
	WalletToken   string

	// Mock credential token settings for the compatibility transaction lookup.
	CredentialSigningKey string
	IssuerBaseURL        string
	CredentialTokenTTL   time.Duration
}

var (
	DefaultAllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173"}
	DefaultSweepInterval  = time.Minute
	DefaultRequestTimeout = 30 * time.Second
	CredentialTokenTTL    = 10 * time.Minute
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:                 envOr("MEDSSI_ADDR", ":8000"),
		Environment:          envOr("MEDSSI_ENVIRONMENT", "sandbox"),
		LogLevel:             parseLevel(os.Getenv("MEDSSI_LOG_LEVEL")),
		AllowedOrigins:       parseOrigins(os.Getenv("MEDSSI_ALLOWED_ORIGINS")),
		RequestTimeout:       durationOr("MEDSSI_REQUEST_TIMEOUT", DefaultRequestTimeout),
		SweepInterval:        durationOr("MEDSSI_SWEEP_INTERVAL", DefaultSweepInterval),
		TrustedProxies:       splitList(os.Getenv("MEDSSI_TRUSTED_PROXIES")),
		IssuerToken:          envOr("MEDSSI_ISSUER_TOKEN", "issuer-sandbox-token"),
		VerifierToken:        envOr("MEDSSI_VERIFIER_TOKEN", "verifier-sandbox-token"),
		WalletToken:          envOr("MEDSSI_WALLET_TOKEN", "wallet-sandbox-token"),
		CredentialSigningKey: envOr("MEDSSI_CREDENTIAL_SIGNING_KEY", "medssi-sandbox-signing-key"),
		IssuerBaseURL:        envOr("MEDSSI_ISSUER_BASE_URL", "https://medssi.dev"),
		CredentialTokenTTL:   durationOr("MEDSSI_CREDENTIAL_TOKEN_TTL", CredentialTokenTTL),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// durationOr ignores unparsable or non-positive values.
func durationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// parseOrigins splits a comma separated origin list. An explicitly empty
// list (e.g. ",") allows every origin.
func parseOrigins(raw string) []string {
	if raw == "" {
		return DefaultAllowedOrigins
	}
	if origins := splitList(raw); len(origins) > 0 {
		return origins
	}
	return []string{"*"}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
