// Package providers holds the ranked provider registry and the single-attempt
// transport used to talk to an OpenAI-compatible aggregator.
//
// # Registry
//
// A Registry is an immutable list of model identifiers. Rank is list position
// and rank 0 is tried first. Registries are safe to share between goroutines.
//
//	reg, err := providers.NewRegistry(
//	    "meta-llama/llama-3.2-3b-instruct:free",
//	    "google/gemma-2-9b-it:free",
//	)
//
// # Transport
//
// A Transport performs exactly one request and returns a tagged Outcome:
//
//   - OutcomeSuccess: 2xx with non-empty choices[0].message.content
//   - OutcomeRejected: any non-2xx status, with a reason from the error body
//   - OutcomeUnreachable: DNS, socket, timeout or cancellation failures
//   - OutcomeEmptyResponse: 2xx without usable content
//
// Transports never retry. Escalation to the next provider is the job of the
// routing package.
//
//	t := providers.NewHTTPTransport(providers.TransportConfig{APIKey: key})
//	env := providers.NewEnvelope(msgs, 0.7)
//	out := t.Call(ctx, reg.IDs()[0], env)
//	if err := out.Err("model"); err != nil {
//	    // classify with errors.Is(err, providers.ErrRejected) etc.
//	}
//
// # Errors
//
// Failed outcomes convert to RejectedError, UnreachableError or
// EmptyResponseError. ConfigurationError reports setup problems detected
// before any network I/O.
package providers
