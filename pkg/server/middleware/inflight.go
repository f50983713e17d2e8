package middleware

import (
	"encoding/json"
	"net/http"

	"golang.org/x/sync/semaphore"
)

// OverloadedResponse is the body sent when the in-flight cap is reached.
var OverloadedResponse = map[string]any{
	"error": map[string]any{
		"message": "Too many requests in flight. Please try again shortly.",
		"type":    "server_error",
		"code":    "overloaded",
	},
}

// InFlight caps the number of requests being served at once. Requests over
// the cap are answered immediately with 503 and a Retry-After hint rather
// than queued. A limit of zero or less disables the cap.
//
// The returned middleware shares one semaphore across every handler it wraps.
func InFlight(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	sem := semaphore.NewWeighted(int64(limit))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sem.TryAcquire(1) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(OverloadedResponse)
				return
			}
			defer sem.Release(1)
			next.ServeHTTP(w, r)
		})
	}
}
