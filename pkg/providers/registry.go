package providers

import (
	"fmt"
	"strings"
)

// Provider is one backend model endpoint in the ranked failover list.
type Provider struct {
	// ID is the opaque model identifier sent as the "model" field
	ID string

	// Rank is the provider's position in the registry (0 is preferred)
	Rank int
}

// Registry is an immutable, ordered list of providers. A provider's rank is its
// index. The registry is built once and never mutated, so it can be shared by
// any number of concurrent requests without locking.
type Registry struct {
	providers []Provider
}

// NewRegistry builds a registry from provider identifiers in rank order.
// Blank and duplicate identifiers are rejected. An empty registry is allowed
// here; the failover executor reports it as a configuration error at call time.
func NewRegistry(ids ...string) (*Registry, error) {
	seen := make(map[string]int, len(ids))
	list := make([]Provider, 0, len(ids))

	for i, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, &ConfigurationError{
				Field:   fmt.Sprintf("models[%d]", i),
				Message: "provider identifier is blank",
			}
		}
		if prev, dup := seen[id]; dup {
			return nil, &ConfigurationError{
				Field:   fmt.Sprintf("models[%d]", i),
				Message: fmt.Sprintf("provider %q duplicates rank %d", id, prev),
			}
		}
		seen[id] = len(list)
		list = append(list, Provider{ID: id, Rank: len(list)})
	}

	return &Registry{providers: list}, nil
}

// MustRegistry is like NewRegistry but panics on invalid input.
// Intended for tests and static tables.
func MustRegistry(ids ...string) *Registry {
	r, err := NewRegistry(ids...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.providers)
}

// At returns the provider at rank. The second value is false when rank is out of range.
func (r *Registry) At(rank int) (Provider, bool) {
	if r == nil || rank < 0 || rank >= len(r.providers) {
		return Provider{}, false
	}
	return r.providers[rank], true
}

// Providers returns a copy of the providers in rank order.
func (r *Registry) Providers() []Provider {
	if r == nil {
		return nil
	}
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// IDs returns the provider identifiers in rank order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, len(r.providers))
	for i, p := range r.providers {
		ids[i] = p.ID
	}
	return ids
}
