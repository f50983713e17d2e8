// Package server exposes the AI hub gateway over HTTP.
//
// # Routes
//
//   - POST /v1/chat: free-form chat. Body {"message": "...", "history": [...]}.
//     Provider failures still answer 200 with the fallback reply and
//     "degraded": true.
//   - POST /v1/analysis: reaction analysis. Body {"subject_a": "...", "subject_b": "..."}.
//     Always answers 200 with an analysis record.
//   - GET /v1/elements/{element}/insight: element fun fact and uses.
//   - GET /v1/providers: the active provider registry in rank order.
//   - GET /v1/stats: attempt and request counters since start or last reload.
//   - Health endpoints (default /healthz, /readyz, /version) and the
//     Prometheus endpoint (default /metrics) at their configured paths.
//
// Malformed request bodies answer 400 with an error envelope:
//
//	{"error": {"message": "message is required", "type": "invalid_request_error", "param": "message", "code": "missing_field"}}
//
// # Middleware Chain
//
// Outermost first: Recovery, RequestID, trace context extraction, CORS,
// body size limit, Logging. The chat, analysis and insight routes are also
// wrapped individually by an in-flight cap (server.max_in_flight) that answers
// 503 with code "overloaded" once saturated.
//
// # TLS
//
// With server.tls.enabled the listener serves HTTPS using the configured
// certificate pair. The files are polled every server.tls.reload_interval and
// renewed certificates are served without a restart.
//
// # Hot Reload
//
// The server reads the active gateway from a gateway.Holder for every
// request. Swapping the holder's gateway changes the provider list and
// credential for new requests while in-flight requests finish on the old one.
package server
