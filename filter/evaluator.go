package filter

import (
	"context"
	"runtime"
	"sync"

	"github.com/s0up4200/filmquery/film"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator filters collections in chunks on a worker pool. Collections
// smaller than the batch size are filtered inline.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Evaluate returns the records matching filter, in collection order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter Filter, records []film.Record) ([]film.Record, error) {
	if len(records) == 0 {
		return []film.Record{}, nil
	}

	if len(records) < e.batchSize {
		return evaluateSequential(filter, records), nil
	}

	return e.evaluateConcurrent(ctx, filter, records)
}

// evaluateSequential evaluates a filter against all records in a single pass
func evaluateSequential(filter Filter, records []film.Record) []film.Record {
	matches := make([]film.Record, 0, len(records))
	for _, record := range records {
		if filter.Evaluate(record) {
			matches = append(matches, record)
		}
	}
	return matches
}

// evaluateConcurrent splits the collection into chunks and stitches the chunk
// results back together in chunk order
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter Filter, records []film.Record) ([]film.Record, error) {
	chunkSize := max(len(records)/e.workerCount, e.batchSize)
	chunkCount := (len(records) + chunkSize - 1) / chunkSize

	results := make([][]film.Record, chunkCount)
	var wg sync.WaitGroup

	for index := 0; index < chunkCount; index++ {
		start := index * chunkSize
		chunk := records[start:min(start+chunkSize, len(records))]

		wg.Add(1)
		err := e.pool.Submit(ctx, func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}
			// Each goroutine owns its own slot
			results[index] = evaluateSequential(filter, chunk)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, matches := range results {
		total += len(matches)
	}

	all := make([]film.Record, 0, total)
	for _, matches := range results {
		all = append(all, matches...)
	}

	return all, nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}
