// Package observe provides ready-made evaluation hooks: live counters,
// structured logging and OpenTelemetry metrics.
//
// Hooks are type-parameterized, so observers must be registered with the
// element type of the sequences they watch:
//
//	ctx, counters := observe.WithCounters[int](ctx)
//	total, err := seq.Sum(ctx, seq.Range(0, 100))
//	fmt.Println(counters.Elements())
package observe

import (
	"context"
	"sync"

	"github.com/lguimbarda/min-seq/seq/core"
)

// WithStartHook attaches a hook fired when a terminal evaluation of a
// sequence of T starts.
func WithStartHook[T any](ctx context.Context, callback func(core.Evaluation)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnStart: callback,
	})
}

// WithValueHook attaches a hook fired for every element reaching a
// terminal operation.
func WithValueHook[T any](ctx context.Context, callback func(T)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnValue: callback,
	})
}

// WithCompleteHook attaches a hook fired when a terminal evaluation ends,
// with its error if it failed.
func WithCompleteHook[T any](ctx context.Context, callback func(core.Evaluation, error)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnComplete: callback,
	})
}

// ErrorCollector collects the errors of failed evaluations.
type ErrorCollector struct {
	mu     sync.Mutex
	errors []error
}

// Errors returns a copy of all collected errors.
func (c *ErrorCollector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]error, len(c.errors))
	copy(result, c.errors)
	return result
}

// Count returns the number of collected errors.
func (c *ErrorCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

// WithErrorCollector attaches a hook collecting evaluation errors for
// sequences of T and returns the collector.
func WithErrorCollector[T any](ctx context.Context) (context.Context, *ErrorCollector) {
	collector := &ErrorCollector{}
	ctx = WithCompleteHook[T](ctx, func(_ core.Evaluation, err error) {
		if err == nil {
			return
		}
		collector.mu.Lock()
		collector.errors = append(collector.errors, err)
		collector.mu.Unlock()
	})
	return ctx, collector
}
