// Package transport sends completion requests to the service over one of
// two interchangeable strategies: single-shot HTTP or a persistent
// msgpack stream. Both resolve each Send independently and exactly once;
// neither retries. Staleness of results is the caller's concern.
package transport

import (
	"context"
	"fmt"

	"github.com/dsiddharth/autocomplete-demo/internal/types"
)

// Transport is the client side of the completion service.
type Transport interface {
	// Send issues one completion request and blocks until the service
	// answers or the channel fails.
	Send(ctx context.Context, req types.CompletionRequest) (*types.CompletionResult, error)
	// Ping measures round-trip time to the service in milliseconds
	// without invoking the model.
	Ping(ctx context.Context) (float64, error)
	Close() error
}

// New selects a strategy by name: "http" (single-shot requests against
// serviceURL) or "stream" (persistent duplex connection to streamAddr).
func New(strategy, serviceURL, streamAddr string) (Transport, error) {
	switch strategy {
	case "", "http":
		return NewHTTP(serviceURL), nil
	case "stream":
		return NewStream(streamAddr), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want \"http\" or \"stream\")", strategy)
	}
}

// ConnError wraps any failure to reach the service or complete an
// exchange. The editor surfaces it as a visible error state.
type ConnError struct {
	Op  string
	Err error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

func connErr(op string, err error) *ConnError {
	return &ConnError{Op: op, Err: err}
}
