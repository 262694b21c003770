package parallel_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lguimbarda/min-seq/seq/parallel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunResultsInChunkOrder(t *testing.T) {
	e := parallel.NewExecutor(parallel.WithWorkers(4))

	got, err := parallel.Run(context.Background(), e, 8, func(_ context.Context, chunk int) (int, error) {
		// Later chunks finish first.
		time.Sleep(time.Duration(8-chunk) * time.Millisecond)
		return chunk * 10, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70}, got)
}

func TestRunOnZeroExecutor(t *testing.T) {
	done := make(chan struct{})
	var got []int
	var err error
	go func() {
		defer close(done)
		got, err = parallel.Run(context.Background(), &parallel.Executor{}, 3, func(_ context.Context, chunk int) (int, error) {
			return chunk + 1, nil
		})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run on a zero executor did not finish")
	}
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestRunNoChunks(t *testing.T) {
	e := parallel.NewExecutor()
	got, err := parallel.Run(context.Background(), e, 0, func(context.Context, int) (int, error) {
		t.Fatal("task must not run")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	e := parallel.NewExecutor(parallel.WithWorkers(2))

	var running, peak atomic.Int64
	_, err := parallel.Run(context.Background(), e, 10, func(context.Context, int) (struct{}, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestRunFailureCancelsRemainingChunks(t *testing.T) {
	e := parallel.NewExecutor(parallel.WithWorkers(1))
	boom := errors.New("boom")

	var started atomic.Int64
	_, err := parallel.Run(context.Background(), e, 50, func(_ context.Context, chunk int) (int, error) {
		started.Add(1)
		if chunk == 2 {
			return 0, boom
		}
		return chunk, nil
	})

	var failure *parallel.RunFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 2, failure.Chunk)
	assert.ErrorIs(t, err, boom)
	// With one worker, chunks are started strictly one after another, so at
	// most the chunk already queued behind the failure may begin.
	assert.Less(t, started.Load(), int64(50))
}

func TestRunRecoversPanics(t *testing.T) {
	e := parallel.NewExecutor(parallel.WithWorkers(2))

	_, err := parallel.Run(context.Background(), e, 4, func(_ context.Context, chunk int) (int, error) {
		if chunk == 1 {
			panic("kaboom")
		}
		return chunk, nil
	})

	var failure *parallel.RunFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 1, failure.Chunk)

	var p parallel.ErrPanic
	require.ErrorAs(t, err, &p)
	assert.Equal(t, "kaboom", p.Value)
	assert.Contains(t, p.Error(), "panic: kaboom")

	first, _, _ := strings.Cut(p.Stack, "\n")
	assert.Contains(t, first, "parallel_test.TestRunRecoversPanics")
	assert.NotContains(t, p.Stack, "parallel.safeTask")
}

func TestRunParentCancellation(t *testing.T) {
	e := parallel.NewExecutor(parallel.WithWorkers(2))
	ctx, cancel := context.WithCancel(context.Background())

	_, err := parallel.Run(ctx, e, 4, func(ctx context.Context, chunk int) (int, error) {
		if chunk == 0 {
			cancel()
		}
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)

	var failure *parallel.RunFailure
	assert.False(t, errors.As(err, &failure))
}

func TestFold(t *testing.T) {
	e := parallel.NewExecutor(parallel.WithWorkers(3))

	sum, ok, err := parallel.Fold(context.Background(), e, 10,
		func(_ context.Context, chunk int) (int, error) { return chunk, nil },
		func(a, b int) int { return a + b },
	)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 45, sum)

	_, ok, err = parallel.Fold(context.Background(), e, 0,
		func(context.Context, int) (int, error) { return 1, nil },
		func(a, b int) int { return a + b },
	)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())
	e := parallel.NewExecutor(parallel.WithWorkers(1))

	_, err := parallel.Run(ctx, e, 3, func(_ context.Context, chunk int) (int, error) {
		if chunk == 0 {
			return 0, errors.New("bad chunk")
		}
		return chunk, nil
	})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"parallel run started"`)
	assert.Contains(t, out, `"message":"chunk task failed"`)
	assert.Contains(t, out, `"run_id":`)
	assert.Contains(t, out, `"error":"bad chunk"`)
}
