// Package metrics provides Prometheus metrics for the AI hub.
//
// # Metrics
//
// With the default namespace "atomic_explorer" and subsystem "aihub":
//
//   - atomic_explorer_aihub_provider_attempts_total{provider,outcome}
//   - atomic_explorer_aihub_provider_attempt_latency_seconds{provider}
//   - atomic_explorer_aihub_registry_providers
//   - atomic_explorer_aihub_requests_total{operation,result}
//   - atomic_explorer_aihub_request_duration_seconds{operation}
//   - atomic_explorer_aihub_request_attempts{operation}
//   - atomic_explorer_aihub_repair_failures_total{operation}
//   - atomic_explorer_aihub_deduplicated_total{operation}
//   - atomic_explorer_aihub_http_requests_total{route,method,status}
//   - atomic_explorer_aihub_http_request_duration_seconds{route,method}
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordAttempt("google/gemma-2-9b-it:free", "rejected", 120*time.Millisecond)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Provider labels are capped; values past the cap are reported as "other".
package metrics
