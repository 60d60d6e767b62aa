// Package input provides input adapters that supply new notes.
package input

import (
	"context"
)

// InputAdapter fetches notes from a source.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "stdin").
	Name() string

	// Import fetches notes from the source, in order.
	Import(ctx context.Context) ([]string, error)
}

// NewAdapter creates an InputAdapter for the specified source.
func NewAdapter(source string) (InputAdapter, error) {
	switch source {
	case "stdin", "-":
		return NewStdinAdapter(), nil
	default:
		return nil, &AdapterError{
			Source:  source,
			Message: "unknown or unavailable adapter",
		}
	}
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
