package llm

import (
	"context"
	"fmt"
)

// Backend is the one capability the hub needs from a model integration:
// turn an ordered conversation context into a reply.
type Backend interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Constructor builds a backend from an instance's configuration.
type Constructor func(cfg *Config) Backend

// BackendError wraps any external failure raised by Generate (network
// trouble, non-2xx status, malformed payload) so callers can tell backend
// failures apart from their own input errors.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
