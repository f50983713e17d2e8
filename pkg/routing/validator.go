package routing

import (
	"strings"

	"atomic-explorer/aihub/pkg/providers"
)

// Accept reports whether an attempt outcome ends failover. Only a success
// carrying non-blank content is accepted; everything else escalates.
func Accept(outcome providers.Outcome) bool {
	return outcome.Kind == providers.OutcomeSuccess && strings.TrimSpace(outcome.Content) != ""
}

// normalize turns a success with blank content into an empty response so it
// is reported and counted like one.
func normalize(outcome providers.Outcome) providers.Outcome {
	if outcome.Kind == providers.OutcomeSuccess && !Accept(outcome) {
		return providers.EmptyResponse()
	}
	return outcome
}
