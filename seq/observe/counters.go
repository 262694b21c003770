package observe

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lguimbarda/min-seq/seq/core"
)

// LiveCounters holds evaluation counters that can be read concurrently
// while evaluations are running.
type LiveCounters struct {
	evaluations atomic.Int64
	running     atomic.Int64
	elements    atomic.Int64
	failures    atomic.Int64
	busy        atomic.Int64 // nanoseconds
}

// Evaluations returns the number of evaluations started.
func (c *LiveCounters) Evaluations() int64 { return c.evaluations.Load() }

// Running returns the number of evaluations in progress.
func (c *LiveCounters) Running() int64 { return c.running.Load() }

// Elements returns the number of elements that reached a terminal
// operation so far, including those of running evaluations.
func (c *LiveCounters) Elements() int64 { return c.elements.Load() }

// Failures returns the number of evaluations that ended with an error.
func (c *LiveCounters) Failures() int64 { return c.failures.Load() }

// Busy returns the summed duration of completed evaluations.
func (c *LiveCounters) Busy() time.Duration { return time.Duration(c.busy.Load()) }

// WithCounters attaches counting hooks for sequences of T and returns the
// counters for querying.
func WithCounters[T any](ctx context.Context) (context.Context, *LiveCounters) {
	c := &LiveCounters{}
	ctx = core.WithHooks(ctx, core.Hooks[T]{
		OnStart: func(core.Evaluation) {
			c.evaluations.Add(1)
			c.running.Add(1)
		},
		OnValue: func(T) { c.elements.Add(1) },
		OnComplete: func(e core.Evaluation, err error) {
			c.running.Add(-1)
			c.busy.Add(int64(e.Duration))
			if err != nil {
				c.failures.Add(1)
			}
		},
	})
	return ctx, c
}
