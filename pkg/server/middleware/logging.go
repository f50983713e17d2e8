package middleware

import (
	"net/http"
	"time"

	"atomic-explorer/aihub/pkg/telemetry/logging"
	"atomic-explorer/aihub/pkg/telemetry/metrics"
)

// unmatchedRoute labels requests that no route pattern handled.
const unmatchedRoute = "unmatched"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logging logs each request and records HTTP metrics. It must wrap the
// ServeMux directly: the route label is the pattern the mux matched, which
// the mux stores on the request value it receives.
//
//	{
//	  "time": "2026-10-16T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "POST",
//	  "route": "POST /v1/chat",
//	  "status": 200,
//	  "latency_ms": 1250,
//	  "request_id": "0f8d2c1e-..."
//	}
func Logging(logger *logging.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			req := r.WithContext(r.Context())

			logger.DebugContext(req.Context(), "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			next.ServeHTTP(rw, req)

			route := req.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			elapsed := time.Since(start)
			collector.RecordHTTPRequest(route, r.Method, rw.statusCode, elapsed)

			args := []any{
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", elapsed.Milliseconds(),
				"user_agent", r.UserAgent(),
			}
			switch {
			case rw.statusCode >= 500:
				logger.ErrorContext(req.Context(), "request completed", args...)
			case rw.statusCode >= 400:
				logger.WarnContext(req.Context(), "request completed", args...)
			default:
				logger.InfoContext(req.Context(), "request completed", args...)
			}
		})
	}
}
