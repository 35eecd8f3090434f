package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// Evaluator applies a filter to a slice, chunking large inputs across workers
type Evaluator struct {
	workerCount int
	batchSize   int
}

// NewEvaluator creates a new evaluator
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Select returns the items whose record matches filter, in input order.
// The first evaluation error aborts the run.
func Select[T any](ctx context.Context, e *Evaluator, filter Filter, items []T, record func(T) Record) ([]T, error) {
	if len(items) == 0 {
		return []T{}, nil
	}

	// For small lists, don't bother with concurrency
	if len(items) < e.batchSize {
		return selectChunk(ctx, filter, items, record)
	}

	chunkSize := max(len(items)/e.workerCount, e.batchSize)
	chunks := make([][]T, (len(items)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(items))
		g.Go(func() error {
			matches, err := selectChunk(ctx, filter, items[start:end], record)
			if err != nil {
				return err
			}
			chunks[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []T
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	if matches == nil {
		matches = []T{}
	}
	return matches, nil
}

func selectChunk[T any](ctx context.Context, filter Filter, items []T, record func(T) Record) ([]T, error) {
	matches := make([]T, 0, len(items)/4)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := filter.Evaluate(record(item))
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, item)
		}
	}
	return matches, nil
}
