package filter

import (
	"context"

	"github.com/s0up4200/filmquery/film"
)

// Filter defines the basic interface for record filters
type Filter interface {
	// Evaluate checks if a record matches the filter criteria
	Evaluate(record film.Record) bool
}

// CompiledFilter represents a pre-compiled expression filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator applies a filter to a collection. Implementations return a new slice
// holding the matches in collection order and never modify the input.
type Evaluator interface {
	Evaluate(ctx context.Context, filter Filter, records []film.Record) ([]film.Record, error)
}

// WorkerPool defines the interface for concurrent work execution
type WorkerPool interface {
	// Submit submits work to the pool, blocking until a worker can take it or ctx ends
	Submit(ctx context.Context, work func()) error

	// Stop gracefully stops the worker pool
	Stop(ctx context.Context) error
}
