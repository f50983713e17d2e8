package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"atomic-explorer/aihub/pkg/telemetry/logging"
)

// PanicResponse is the body written when a handler panics. It matches the
// server's error envelope.
var PanicResponse = map[string]any{
	"error": map[string]string{
		"message": "An internal error occurred. Please try again later.",
		"type":    "server_error",
	},
}

// Recovery converts handler panics into a 500 response and logs the stack.
// Internal details are never sent to the client.
func Recovery(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "panic in handler",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(PanicResponse)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
