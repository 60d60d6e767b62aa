// Package apperr defines the error kinds that terminate a wallmemo invocation.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Every stage failure wraps exactly one of these.
var (
	ErrConfig = errors.New("configuration error")
	ErrIO     = errors.New("i/o error")
	ErrRender = errors.New("render error")
)

// Error ties a failing stage to its kind and underlying cause.
// errors.Is matches both the kind and anything in the cause chain.
type Error struct {
	Kind  error
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

// Unwrap exposes the kind and the cause.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Config wraps err as a configuration failure of stage.
func Config(stage string, err error) error {
	return wrap(ErrConfig, stage, err)
}

// IO wraps err as a file read/write failure of stage.
func IO(stage string, err error) error {
	return wrap(ErrIO, stage, err)
}

// Render wraps err as a rasterization failure of stage.
func Render(stage string, err error) error {
	return wrap(ErrRender, stage, err)
}

func wrap(kind error, stage string, err error) error {
	if err == nil {
		return nil
	}
	// Keep the innermost stage; callers higher up rewrap freely.
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// KindOf returns the kind of err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrConfig, ErrIO, ErrRender} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
