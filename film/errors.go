package film

import (
	"errors"
	"fmt"
)

var (
	// ErrContainerNotFound indicates the configured container path does not exist in the store.
	ErrContainerNotFound = errors.New("container node not found")

	// ErrNotAnObject indicates a node that must be a JSON object is something else.
	ErrNotAnObject = errors.New("node is not an object")
)

// LoadError describes a content store node that could not be turned into records.
type LoadError struct {
	Path  string
	Field string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("load error at '%s' field '%s': %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("load error at '%s': %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
