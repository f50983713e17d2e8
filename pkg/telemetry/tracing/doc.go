// Package tracing provides OpenTelemetry tracing for the AI hub.
//
// Each gateway request gets an "aihub.request" span and every provider attempt
// a child "aihub.attempt" span carrying the provider, rank and outcome. Spans
// are exported over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// When tracing is disabled a noop tracer is used; a nil *Tracer is also safe.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanRequest)
//	defer span.End()
package tracing
