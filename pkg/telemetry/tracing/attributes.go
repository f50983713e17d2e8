package tracing

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanRequest = "aihub.request"
	SpanAttempt = "aihub.attempt"
)

// Attribute keys use the "aihub.*" namespace.
const (
	AttrOperation  = "aihub.operation"
	AttrRequestID  = "aihub.request_id"
	AttrProvider   = "aihub.provider"
	AttrRank       = "aihub.rank"
	AttrOutcome    = "aihub.outcome"
	AttrStatusCode = "aihub.status_code"
	AttrLatencyMs  = "aihub.latency_ms"
	AttrAttempts   = "aihub.attempts"
	AttrRegistry   = "aihub.registry_size"
	AttrResult     = "aihub.result"
)

// SetRequestAttributes annotates a request span.
func SetRequestAttributes(span trace.Span, operation, requestID string, registrySize int) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrOperation, operation),
		attribute.Int(AttrRegistry, registrySize),
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)
}

// SetAttemptAttributes annotates an attempt span with its provider and outcome.
// statusCode is only recorded when non-zero.
func SetAttemptAttributes(span trace.Span, provider string, rank int, outcome string, statusCode int, latency time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrProvider, provider),
		attribute.Int(AttrRank, rank),
		attribute.String(AttrOutcome, outcome),
		attribute.Int64(AttrLatencyMs, latency.Milliseconds()),
	}
	if statusCode != 0 {
		attrs = append(attrs, attribute.Int(AttrStatusCode, statusCode))
	}
	span.SetAttributes(attrs...)
}

// SetResultAttributes annotates a request span once failover settles.
func SetResultAttributes(span trace.Span, result, provider string, attempts int) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrResult, result),
		attribute.Int(AttrAttempts, attempts),
	}
	if provider != "" {
		attrs = append(attrs, attribute.String(AttrProvider, provider))
	}
	span.SetAttributes(attrs...)
}
