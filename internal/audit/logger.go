package audit

import (
	"context"
	"log/slog"

	"medssi/internal/platform/privacy"
	"medssi/pkg/platform/middleware/requesttime"
	"medssi/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger writes an audit line to the structured log and, when an emitter is
// configured, appends the event to the audit trail. Emission failures are
// logged and never returned.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	if textLogger == nil {
		textLogger = slog.Default()
	}
	return &Logger{textLogger: textLogger, emitter: emitter}
}

// Log records action against subject. Recognised attributes ("decision",
// "reason") are lifted into the event; all attributes go to the text log.
//
//	auditor.Log(ctx, models.AuditActionCredentialRevoked, offer.ID.String(), "reason", models.AuditReasonIssuerInitiated)
func (l *Logger) Log(ctx context.Context, action, subject string, attributes ...any) {
	if l == nil {
		return
	}
	event := Event{
		Timestamp:    requesttime.Now(ctx),
		Subject:      subject,
		Action:       action,
		Decision:     extractString(attributes, "decision"),
		Reason:       extractString(attributes, "reason"),
		Role:         requestcontext.Role(ctx),
		WalletClient: requestcontext.WalletClient(ctx),
		RequestID:    requestcontext.RequestID(ctx),
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		event.ClientIP = privacy.AnonymizeIP(ip)
	}

	args := append(attributes,
		"event", action,
		"subject", subject,
		"log_type", "audit",
	)
	if event.RequestID != "" {
		args = append(args, "request_id", event.RequestID)
	}
	if event.WalletClient != "" {
		args = append(args, "wallet_client", event.WalletClient)
	}
	if event.ClientIP != "" {
		args = append(args, "client_ip", event.ClientIP)
	}
	l.textLogger.InfoContext(ctx, action, args...)

	if l.emitter == nil {
		return
	}
	if err := l.emitter.Emit(ctx, event); err != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", action,
		)
	}
}

// extractString finds the string value following key in a slog-style attribute list.
func extractString(attributes []any, key string) string {
	for i := 0; i+1 < len(attributes); i += 2 {
		if k, ok := attributes[i].(string); ok && k == key {
			if v, ok := attributes[i+1].(string); ok {
				return v
			}
		}
	}
	return ""
}
