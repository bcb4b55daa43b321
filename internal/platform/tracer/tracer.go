// Package tracer is a small tracing abstraction over OpenTelemetry.
//
// Services depend on the Tracer interface so that tests run against the
// no-op implementation and production wires the OTel adapter.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
//	ctx, span := t.Start(ctx, tracer.SpanPresentationVerify,
//	    tracer.String(tracer.AttrSessionID, session.ID.String()),
//	)
//	defer func() { span.End(err) }()
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashHolderDID returns a short SHA-256 digest of a holder DID so traces can
// be correlated without carrying the identifier itself.
func HashHolderDID(did string) string {
	if did == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(did))
	return hex.EncodeToString(sum[:8])
}

// Span names.
const (
	SpanPresentationVerify = "presentation.verify"
	SpanInsightEvaluate    = "presentation.insight"
)

// Attribute keys.
const (
	AttrSessionID    = "session.id"
	AttrCredentialID = "credential.id"
	AttrHolder       = "holder.hash"
	AttrScope        = "disclosure.scope"
	AttrFieldCount   = "disclosure.field_count"
	AttrVerified     = "verified"
	AttrErrorCode    = "error.code"
	AttrRiskScore    = "insight.risk_score"
)

// Event names.
const (
	EventResultStored = "result.stored"
)
