// Package routing implements ranked failover across chat-completion providers.
//
// An Executor walks a providers.Registry in rank order. Each attempt is one
// Transport call bounded by the attempt timeout; the first outcome accepted by
// Accept ends the run. Rejections, unreachable providers and empty responses
// are logged and escalate to the next rank. When the ranks run out the caller
// gets an *ExhaustedError.
//
//	exec := &routing.Executor{
//		Registry:       registry,
//		Transport:      transport,
//		APIKey:         apiKey,
//		AttemptTimeout: 30 * time.Second,
//		Instrumentation: routing.Instrumentation{
//			Logger:  logger,
//			Metrics: collector,
//			Tracer:  tracer,
//			Stats:   stats,
//		},
//	}
//	res, err := exec.Execute(ctx, envelope)
//
// A blank credential or an empty registry is reported as a
// *providers.ConfigurationError before any network I/O. Cancelling ctx stops
// escalation and yields a *CanceledError.
package routing
