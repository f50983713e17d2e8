// Package middleware provides the HTTP middleware chain used by the API server:
// request IDs, access logging with metrics, panic recovery, CORS, body
// size limits and an in-flight request cap.
//
// Middleware are plain func(http.Handler) http.Handler values and compose in
// the usual way:
//
//	var h http.Handler = mux
//	h = middleware.Logging(logger, collector)(h)
//	h = middleware.CORS(cfg.AllowedOrigins)(h)
//	h = middleware.RequestID(h)
//	h = middleware.Recovery(logger)(h)
package middleware
