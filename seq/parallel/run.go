package parallel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RunFailure reports the first chunk task that failed. Remaining tasks are
// cancelled and every partial result of the run is discarded.
type RunFailure struct {
	Chunk int
	Err   error
}

func (f *RunFailure) Error() string {
	return fmt.Sprintf("parallel: chunk %d failed: %v", f.Chunk, f.Err)
}

func (f *RunFailure) Unwrap() error { return f.Err }

// Task evaluates a single chunk. The context is cancelled as soon as any
// other task of the same run fails.
type Task[R any] func(ctx context.Context, chunk int) (R, error)

// Run executes task once for each of the given number of chunks and returns
// the results indexed by chunk. At most e.Workers() tasks run at a time.
// The calling goroutine blocks until every task finished or one failed.
func Run[R any](ctx context.Context, e *Executor, chunks int, task Task[R]) ([]R, error) {
	results := make([]R, chunks)
	err := dispatch(ctx, e, chunks, task, func(chunk int, value R) {
		results[chunk] = value
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Fold executes task for each chunk and merges the partial results with
// combine. Partials are merged in completion order on the calling goroutine,
// so combine must be associative and commutative for the result to be
// deterministic. ok is false when there were no chunks.
func Fold[R any](ctx context.Context, e *Executor, chunks int, task Task[R], combine func(R, R) R) (acc R, ok bool, err error) {
	err = dispatch(ctx, e, chunks, task, func(_ int, value R) {
		if !ok {
			acc, ok = value, true
			return
		}
		acc = combine(acc, value)
	})
	if err != nil {
		var zero R
		return zero, false, err
	}
	return acc, ok, nil
}

// dispatch runs the tasks on an errgroup and hands every result to sink on
// the calling goroutine, in completion order.
func dispatch[R any](ctx context.Context, e *Executor, chunks int, task Task[R], sink func(int, R)) error {
	if chunks == 0 {
		return ctx.Err()
	}

	log := zerolog.Ctx(ctx).With().
		Str("run_id", uuid.NewString()).
		Int("chunks", chunks).
		Int("workers", e.Workers()).
		Logger()
	log.Debug().Msg("parallel run started")

	type done struct {
		chunk int
		value R
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers())
	out := make(chan done, chunks)

	var runErr error
	go func() {
		defer close(out)
		for i := range chunks {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				v, err := safeTask(gctx, i, task)
				if err != nil {
					log.Warn().Err(err).Int("chunk", i).Msg("chunk task failed")
					return &RunFailure{Chunk: i, Err: err}
				}
				out <- done{chunk: i, value: v}
				return nil
			})
		}
		runErr = g.Wait()
	}()

	for d := range out {
		sink(d.chunk, d.value)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	log.Debug().Msg("parallel run finished")
	return nil
}

// safeTask runs task converting a panic into ErrPanic.
func safeTask[R any](ctx context.Context, chunk int, task Task[R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r)
		}
	}()
	return task(ctx, chunk)
}
