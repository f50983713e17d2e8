// Package telemetry wires logging, metrics, tracing and health checks for the
// AI hub.
//
//   - logging: slog-based structured logging with credential redaction
//   - metrics: Prometheus counters and histograms for attempts and requests
//   - tracing: OpenTelemetry spans for requests and provider attempts
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, os.Stderr)
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger().Info("gateway ready", "providers", registry.Len())
//	tel.Metrics().RecordAttempt(provider, "success", latency)
//
// API keys and bearer tokens are redacted from log output by default.
package telemetry
