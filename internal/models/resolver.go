// internal/models/resolver.go
package models

import (
	"fmt"
	"net/url"
	"strings"
)

// ConfigurationError reports a model that has no usable endpoint.
// It signals a programming or setup mistake, never a user-facing failure.
type ConfigurationError struct {
	ID     ModelID
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no endpoint configured for %s", e.ID)
	}
	return fmt.Sprintf("endpoint for %s: %s", e.ID, e.Reason)
}

// DefaultEndpoints returns the local development addresses of the backend services.
func DefaultEndpoints() map[ModelID]string {
	return map[ModelID]string{
		Gemini:  "http://localhost:8000/gemini/",
		Mistral: "http://localhost:8000/mistral/",
		Llama:   "http://localhost:8000/llama/",
	}
}

// Resolver maps each model onto exactly one endpoint address.
type Resolver struct {
	endpoints map[ModelID]string
	order     []ModelID // Preserve order for consistent display
}

// NewResolver validates that endpoints covers the whole closed set with
// non-empty, absolute and distinct addresses.
func NewResolver(endpoints map[ModelID]string) (*Resolver, error) {
	r := &Resolver{
		endpoints: make(map[ModelID]string, len(endpoints)),
		order:     []ModelID{},
	}

	seen := make(map[string]ModelID)
	for _, id := range All() {
		addr := strings.TrimSpace(endpoints[id])
		if addr == "" {
			return nil, &ConfigurationError{ID: id}
		}
		u, err := url.Parse(addr)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, &ConfigurationError{ID: id, Reason: fmt.Sprintf("invalid address %q", addr)}
		}
		if other, dup := seen[addr]; dup {
			return nil, &ConfigurationError{ID: id, Reason: fmt.Sprintf("address %q already used by %s", addr, other)}
		}
		seen[addr] = id
		r.endpoints[id] = addr
		r.order = append(r.order, id)
	}

	for id := range endpoints {
		if !id.Valid() {
			return nil, &ConfigurationError{ID: id, Reason: "unknown model"}
		}
	}

	return r, nil
}

// Resolve returns the endpoint for id.
func (r *Resolver) Resolve(id ModelID) (string, error) {
	addr, ok := r.endpoints[id]
	if !ok {
		return "", &ConfigurationError{ID: id}
	}
	return addr, nil
}

// Models returns the resolvable models in selector order.
func (r *Resolver) Models() []ModelID {
	return append([]ModelID(nil), r.order...)
}
