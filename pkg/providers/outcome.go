package providers

import (
	"fmt"
	"time"
)

// OutcomeKind tags the result of a single transport attempt.
type OutcomeKind int

const (
	// OutcomeSuccess means the provider returned usable content.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeRejected means the provider answered with a non-2xx status.
	OutcomeRejected

	// OutcomeUnreachable means no HTTP response was obtained (DNS, socket, timeout).
	OutcomeUnreachable

	// OutcomeEmptyResponse means a 2xx response carried no usable content.
	OutcomeEmptyResponse
)

// String returns the label used in logs and metrics.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeEmptyResponse:
		return "empty_response"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Outcome is the tagged result of one Transport call. Only the fields relevant
// to Kind are populated.
type Outcome struct {
	Kind OutcomeKind

	// Content and Latency are set for OutcomeSuccess
	Content string
	Latency time.Duration

	// StatusCode is set for OutcomeRejected
	StatusCode int

	// Reason describes a rejection or an unreachable provider
	Reason string
}

// Success builds a successful outcome.
func Success(content string, latency time.Duration) Outcome {
	return Outcome{Kind: OutcomeSuccess, Content: content, Latency: latency}
}

// Rejected builds an outcome for a non-2xx response.
func Rejected(statusCode int, reason string) Outcome {
	return Outcome{Kind: OutcomeRejected, StatusCode: statusCode, Reason: reason}
}

// Unreachable builds an outcome for a network-level failure.
func Unreachable(reason string) Outcome {
	return Outcome{Kind: OutcomeUnreachable, Reason: reason}
}

// EmptyResponse builds an outcome for a 2xx response without content.
func EmptyResponse() Outcome {
	return Outcome{Kind: OutcomeEmptyResponse}
}

// IsSuccess reports whether the outcome carries content.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// Err converts a failed outcome into its typed error for provider. It returns
// nil for OutcomeSuccess.
func (o Outcome) Err(provider string) error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeRejected:
		return &RejectedError{Provider: provider, StatusCode: o.StatusCode, Reason: o.Reason}
	case OutcomeUnreachable:
		return &UnreachableError{Provider: provider, Reason: o.Reason}
	case OutcomeEmptyResponse:
		return &EmptyResponseError{Provider: provider}
	default:
		return fmt.Errorf("provider %q: unknown outcome %s", provider, o.Kind)
	}
}
