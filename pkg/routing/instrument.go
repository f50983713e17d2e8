package routing

import (
	"context"
	"errors"
	"time"

	"atomic-explorer/aihub/pkg/providers"
	"atomic-explorer/aihub/pkg/telemetry/logging"
	"atomic-explorer/aihub/pkg/telemetry/metrics"
	"atomic-explorer/aihub/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// defaultOperation labels requests whose context carries no operation.
const defaultOperation = "request"

// Instrumentation is the executor's side channel. Every field is optional;
// a zero Instrumentation observes nothing. Instrumentation never changes
// control flow.
type Instrumentation struct {
	Logger  *logging.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Stats   *Stats
}

func (in *Instrumentation) logger() *logging.Logger {
	if in.Logger == nil {
		return logging.Nop()
	}
	return in.Logger
}

func operationOf(ctx context.Context) string {
	if op := logging.GetOperation(ctx); op != "" {
		return op
	}
	return defaultOperation
}

func (in *Instrumentation) requestStart(ctx context.Context, registrySize int) (context.Context, trace.Span) {
	ctx, span := in.Tracer.Start(ctx, tracing.SpanRequest)
	tracing.SetRequestAttributes(span, operationOf(ctx), logging.GetRequestID(ctx), registrySize)
	if id := tracing.TraceID(ctx); id != "" {
		ctx = logging.WithTraceID(ctx, id)
	}
	return ctx, span
}

func (in *Instrumentation) attemptStart(ctx context.Context, p providers.Provider) (context.Context, trace.Span) {
	ctx, span := in.Tracer.Start(ctx, tracing.SpanAttempt)

	log := in.logger()
	if p.Rank == 0 {
		log.InfoContext(ctx, "attempting provider", "provider", p.ID, "rank", p.Rank)
	} else {
		log.InfoContext(ctx, "failover attempt", "attempt", p.Rank+1, "provider", p.ID, "rank", p.Rank)
	}
	return ctx, span
}

func (in *Instrumentation) attemptEnd(ctx context.Context, span trace.Span, p providers.Provider, outcome providers.Outcome, elapsed time.Duration) {
	defer span.End()

	kind := outcome.Kind.String()
	latency := elapsed
	if outcome.Kind == providers.OutcomeSuccess && outcome.Latency > 0 {
		latency = outcome.Latency
	}

	tracing.SetAttemptAttributes(span, p.ID, p.Rank, kind, outcome.StatusCode, latency)
	in.Metrics.RecordAttempt(p.ID, kind, latency)
	if in.Stats != nil {
		in.Stats.RecordAttempt(p.ID, outcome.Kind)
	}

	log := in.logger()
	switch outcome.Kind {
	case providers.OutcomeSuccess:
		tracing.SetStatus(span, nil)
		log.InfoContext(ctx, "provider succeeded", "provider", p.ID, "latency_ms", latency.Milliseconds())
	case providers.OutcomeRejected:
		tracing.SetError(span, outcome.Err(p.ID))
		log.WarnContext(ctx, "provider rejected request",
			"provider", p.ID, "status", outcome.StatusCode, "reason", outcome.Reason)
	case providers.OutcomeUnreachable:
		tracing.SetError(span, outcome.Err(p.ID))
		log.WarnContext(ctx, "provider unreachable", "provider", p.ID, "reason", outcome.Reason)
	default:
		tracing.SetError(span, outcome.Err(p.ID))
		log.WarnContext(ctx, "provider returned empty response", "provider", p.ID)
	}
}

func (in *Instrumentation) requestEnd(ctx context.Context, span trace.Span, result string, res *Result, attempts int, duration time.Duration, err error) {
	defer span.End()

	provider := ""
	if res != nil {
		provider = res.Provider
	}

	tracing.SetResultAttributes(span, result, provider, attempts)
	tracing.SetStatus(span, err)
	in.Metrics.RecordRequest(operationOf(ctx), result, attempts, duration)
	if in.Stats != nil {
		in.Stats.RecordResult(result)
	}

	log := in.logger()
	switch result {
	case ResultSuccess:
		log.DebugContext(ctx, "request completed",
			"provider", provider, "attempts", attempts, "duration_ms", duration.Milliseconds())
	case ResultExhausted:
		var exhausted *ExhaustedError
		args := []any{"attempts", attempts, "error", err}
		if errors.As(err, &exhausted) {
			args = append(args, "providers", exhausted.Providers, "last_error", exhausted.LastErr)
		}
		log.ErrorContext(ctx, "all providers failed", args...)
	case ResultCanceled:
		log.WarnContext(ctx, "request canceled", "attempts", attempts, "error", err)
	case ResultConfigError:
		log.ErrorContext(ctx, "gateway misconfigured", "error", err)
	}
}

// resultOf maps an executor error to its result label.
func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, ErrCanceled):
		return ResultCanceled
	case errors.Is(err, providers.ErrConfiguration):
		return ResultConfigError
	default:
		return ResultExhausted
	}
}
