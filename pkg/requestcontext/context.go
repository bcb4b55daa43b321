// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values set by middleware and read by services.
//
//	requestID := requestcontext.RequestID(ctx)
//	client := requestcontext.WalletClient(ctx)
package requestcontext

import "context"

type (
	clientIPKey     struct{}
	userAgentKey    struct{}
	walletClientKey struct{}
	requestIDKey    struct{}
	roleKey         struct{}
)

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the raw User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// WalletClient retrieves the human-readable client label (e.g. "Chrome on Android").
func WalletClient(ctx context.Context) string {
	if label, ok := ctx.Value(walletClientKey{}).(string); ok {
		return label
	}
	return ""
}

// WithWalletClient injects a client label into a context.
func WithWalletClient(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, walletClientKey{}, label)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a request ID into a context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Role retrieves the sandbox role (issuer, verifier, wallet) the caller authenticated as.
func Role(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey{}).(string); ok {
		return role
	}
	return ""
}

// WithRole injects the authenticated role into a context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}
