package routing

import (
	"context"
	"sync"

	"atomic-explorer/aihub/pkg/providers"
)

// MockTransport is a scripted providers.Transport for tests. Each provider
// answers with its configured outcome; unknown providers are unreachable.
type MockTransport struct {
	mu       sync.Mutex
	outcomes map[string]providers.Outcome
	hooks    map[string]func(ctx context.Context) providers.Outcome
	calls    []string
	envs     []*providers.Envelope
}

// NewMockTransport creates a mock transport with no configured providers.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		outcomes: make(map[string]providers.Outcome),
		hooks:    make(map[string]func(ctx context.Context) providers.Outcome),
	}
}

// Set configures the outcome returned for providerID.
func (m *MockTransport) Set(providerID string, outcome providers.Outcome) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[providerID] = outcome
	return m
}

// SetFunc configures a callback that computes the outcome for providerID.
// It takes precedence over Set.
func (m *MockTransport) SetFunc(providerID string, fn func(ctx context.Context) providers.Outcome) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[providerID] = fn
	return m
}

// Call implements providers.Transport.
func (m *MockTransport) Call(ctx context.Context, providerID string, env *providers.Envelope) providers.Outcome {
	m.mu.Lock()
	m.calls = append(m.calls, providerID)
	m.envs = append(m.envs, env)
	hook := m.hooks[providerID]
	outcome, ok := m.outcomes[providerID]
	m.mu.Unlock()

	if hook != nil {
		return hook(ctx)
	}
	if !ok {
		return providers.Unreachable("no route to " + providerID)
	}
	return outcome
}

// Calls returns the provider IDs attempted, in order.
func (m *MockTransport) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Envelopes returns the envelopes passed to each call, in order.
func (m *MockTransport) Envelopes() []*providers.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*providers.Envelope, len(m.envs))
	copy(out, m.envs)
	return out
}

// CallCount returns the number of attempts made.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
