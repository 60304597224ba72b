package filter

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmquery/film"
)

// EngineOption configures an engine
type EngineOption func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator Evaluator) EngineOption {
	return func(e *Engine) {
		e.evaluator = evaluator
	}
}

// Engine answers queries over a film collection. It keeps no per-query state and
// is safe for concurrent use as long as callers do not modify the collections
// they pass in while a query runs.
type Engine struct {
	evaluator Evaluator
	logger    zerolog.Logger
}

// NewEngine creates a new query engine
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.evaluator == nil {
		e.evaluator = NewConcurrentEvaluator()
	}

	return e
}

// Run parses params and runs the resulting query. Parse failures are returned
// before any filtering happens.
func (e *Engine) Run(ctx context.Context, records []film.Record, params map[string]string, extra ...Filter) ([]film.Record, error) {
	d, err := ParseCriteria(params)
	if err != nil {
		return nil, err
	}
	return e.Query(ctx, records, d, extra...)
}

// Query filters records with every present directive and any extra filters,
// orders the matches stably by the sort key and applies the limit. The result is
// never nil and never shares its backing array with records.
func (e *Engine) Query(ctx context.Context, records []film.Record, d *Directives, extra ...Filter) ([]film.Record, error) {
	if d == nil {
		d = &Directives{SortBy: SortByTitle}
	}

	predicates := []Predicate{d.Predicate()}
	for _, f := range extra {
		if f != nil {
			predicates = append(predicates, f.Evaluate)
		}
	}

	matches, err := e.evaluator.Evaluate(ctx, And(predicates...), records)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(matches, d.SortBy.Compare)

	if d.Limit != nil && *d.Limit < len(matches) {
		matches = matches[:*d.Limit]
	}

	if event := e.logger.Debug(); event.Enabled() {
		event.
			Int("records", len(records)).
			Int("matches", len(matches)).
			Str("sort_by", string(d.SortBy)).
			Interface("filters", d.Filters()).
			Msg("Query evaluated")
	}

	return matches, nil
}

// Close stops the evaluator if it owns background workers
func (e *Engine) Close(ctx context.Context) error {
	if stopper, ok := e.evaluator.(interface{ Stop(context.Context) error }); ok {
		return stopper.Stop(ctx)
	}
	return nil
}
