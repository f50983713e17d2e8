// Package logging provides structured logging with secret redaction.
//
// The package wraps log/slog and adds:
//   - JSON, text and console output formats
//   - Masking of bearer tokens and API keys (sk-or-v1-..., sk-...)
//   - Context fields: request_id, operation, provider, trace_id
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	ctx = logging.WithOperation(ctx, "chat")
//	logger.InfoContext(ctx, "gateway request started", "providers", 12)
//
// Redaction happens in the slog handler, so loggers derived with With and
// the *slog.Logger returned by Slog are covered as well.
package logging
