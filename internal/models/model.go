// internal/models/model.go
package models

import (
	"context"
)

// Generator is the interface all backend transports must implement
type Generator interface {
	// Generate posts prompt to endpoint and returns the parsed reply
	Generate(ctx context.Context, endpoint, prompt string) (Reply, error)
}

// EndpointResolver maps a model onto its backend address
type EndpointResolver interface {
	Resolve(id ModelID) (string, error)
}

var (
	_ Generator        = (*Client)(nil)
	_ EndpointResolver = (*Resolver)(nil)
)
