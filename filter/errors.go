package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedNumber indicates an integer parameter that is not a base-10 integer
	ErrMalformedNumber = errors.New("not a base-10 integer")

	// ErrNegativeLimit indicates a limit below zero
	ErrNegativeLimit = errors.New("must not be negative")

	// ErrUnknownParam indicates a preset names a parameter that does not exist
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrPresetNotFound is returned for lookups of unregistered presets
	ErrPresetNotFound = errors.New("preset not found")
)

// Error types for filter operations
type (
	// ParseError indicates a query parameter could not be turned into a directive
	ParseError struct {
		Param Param
		Value string
		Err   error
	}

	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}
)

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value '%s' for parameter '%s': %v", e.Value, e.Param, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// IsCallerError reports whether err was caused by bad query input rather than by
// the system.
func IsCallerError(err error) bool {
	var parseErr *ParseError
	var compErr *CompilationError
	return errors.As(err, &parseErr) || errors.As(err, &compErr)
}
