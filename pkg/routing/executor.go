package routing

import (
	"context"
	"strings"
	"time"

	"atomic-explorer/aihub/pkg/providers"
)

// DefaultAttemptTimeout bounds a single provider attempt.
const DefaultAttemptTimeout = 30 * time.Second

// Result is the outcome of a successful failover run.
type Result struct {
	// Content is the accepted response text
	Content string

	// Provider is the identifier of the provider that answered
	Provider string

	// Attempts is the number of providers tried, including the successful one
	Attempts int

	// Latency is the successful attempt's latency
	Latency time.Duration

	// Duration is the wall time of the whole run
	Duration time.Duration
}

// Executor walks the registry in rank order until one provider returns an
// accepted response. Providers are tried strictly sequentially, each at most
// once per Execute call. An Executor holds no per-request state and may be
// shared by concurrent callers.
type Executor struct {
	// Registry is the ranked provider list
	Registry *providers.Registry

	// Transport performs each attempt
	Transport providers.Transport

	// APIKey is the credential; it must be non-blank
	APIKey string

	// AttemptTimeout bounds each attempt; zero or negative disables the bound
	AttemptTimeout time.Duration

	// Instrumentation observes attempts and results
	Instrumentation Instrumentation
}

// phase is the state machine's position.
type phase int

const (
	phaseAttempting phase = iota
	phaseDone
	phaseExhausted
	phaseCanceled
)

// state is Attempting(rank), Done, Exhausted or Canceled.
type state struct {
	phase phase
	rank  int
}

// next moves past a failed attempt at s.rank.
func (s state) next(registryLen int) state {
	if s.rank+1 < registryLen {
		return state{phase: phaseAttempting, rank: s.rank + 1}
	}
	return state{phase: phaseExhausted, rank: s.rank}
}

// Execute runs the failover chain for env.
//
// It returns a *providers.ConfigurationError without any I/O when the
// credential is blank or the registry is empty, a *CanceledError when ctx ends
// before a provider succeeds, and an *ExhaustedError when every provider
// failed.
func (e *Executor) Execute(ctx context.Context, env *providers.Envelope) (*Result, error) {
	start := time.Now()
	ctx, span := e.Instrumentation.requestStart(ctx, e.Registry.Len())

	res, attempts, err := e.run(ctx, env, start)

	e.Instrumentation.requestEnd(ctx, span, resultOf(err), res, attempts, time.Since(start), err)
	return res, err
}

func (e *Executor) run(ctx context.Context, env *providers.Envelope, start time.Time) (*Result, int, error) {
	if err := e.precheck(env); err != nil {
		return nil, 0, err
	}

	n := e.Registry.Len()
	tried := make([]string, 0, n)
	var lastErr error

	st := state{phase: phaseAttempting, rank: 0}
	for st.phase == phaseAttempting {
		if ctx.Err() != nil {
			st.phase = phaseCanceled
			break
		}

		p, _ := e.Registry.At(st.rank)
		tried = append(tried, p.ID)

		outcome := e.attempt(ctx, p, env)
		if Accept(outcome) {
			return &Result{
				Content:  outcome.Content,
				Provider: p.ID,
				Attempts: len(tried),
				Latency:  outcome.Latency,
				Duration: time.Since(start),
			}, len(tried), nil
		}

		lastErr = outcome.Err(p.ID)
		if ctx.Err() != nil {
			st.phase = phaseCanceled
			break
		}
		st = st.next(n)
	}

	if st.phase == phaseCanceled {
		return nil, len(tried), &CanceledError{
			Attempts:  len(tried),
			Providers: tried,
			Err:       ctx.Err(),
		}
	}

	return nil, len(tried), &ExhaustedError{
		Attempts:  len(tried),
		Providers: tried,
		LastErr:   lastErr,
	}
}

// precheck rejects configurations that cannot succeed before any I/O.
func (e *Executor) precheck(env *providers.Envelope) error {
	if strings.TrimSpace(e.APIKey) == "" {
		return &providers.ConfigurationError{
			Field:   "gateway.api_key",
			Message: "no API key configured (set AIHUB_API_KEY or OPENROUTER_API_KEY)",
		}
	}
	if e.Registry.Len() == 0 {
		return &providers.ConfigurationError{
			Field:   "gateway.models",
			Message: "provider registry is empty",
		}
	}
	if e.Transport == nil {
		return &providers.ConfigurationError{
			Field:   "transport",
			Message: "no transport configured",
		}
	}
	if env == nil || len(env.Messages) == 0 {
		return &providers.ConfigurationError{
			Field:   "envelope",
			Message: "request has no messages",
		}
	}
	return nil
}

// attempt performs one bounded call against p.
func (e *Executor) attempt(ctx context.Context, p providers.Provider, env *providers.Envelope) providers.Outcome {
	ctx, span := e.Instrumentation.attemptStart(ctx, p)

	attemptCtx := ctx
	if e.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, e.AttemptTimeout)
		defer cancel()
	}

	began := time.Now()
	outcome := normalize(e.Transport.Call(attemptCtx, p.ID, env))

	e.Instrumentation.attemptEnd(ctx, span, p, outcome, time.Since(began))
	return outcome
}
