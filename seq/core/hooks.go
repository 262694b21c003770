package core

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Evaluation describes a single terminal run of a sequence.
type Evaluation struct {
	ID       string
	Terminal string
	Parallel bool
	Chunks   int // zero for sequential runs
	Elements int64
	Started  time.Time
	Duration time.Duration
}

// Hooks holds typed observation callbacks for terminal evaluations of
// sequences of T. All fields are optional.
//
// OnValue fires for every element that reaches the terminal operation. In
// parallel mode it is called concurrently from the worker goroutines.
type Hooks[T any] struct {
	OnStart    func(Evaluation)
	OnValue    func(T)
	OnComplete func(Evaluation, error)
}

// hooksKey is unexported to prevent collisions with user context keys.
type hooksKey[T any] struct{}

// WithHooks attaches typed hooks to the context.
// Multiple calls compose in FIFO order.
//
// Example:
//
//	ctx := core.WithHooks(ctx, core.Hooks[int]{
//	    OnValue: func(v int) { log.Printf("value: %d", v) },
//	})
func WithHooks[T any](ctx context.Context, hooks Hooks[T]) context.Context {
	if ctx == nil {
		panic("nil context")
	}
	existing, _ := ctx.Value(hooksKey[T]{}).([]*Hooks[T])
	sets := make([]*Hooks[T], len(existing), len(existing)+1)
	copy(sets, existing)
	sets = append(sets, &hooks)
	return context.WithValue(ctx, hooksKey[T]{}, sets)
}

// tracker follows one terminal evaluation and fans events out to hooks.
type tracker[T any] struct {
	eval     Evaluation
	sets     []*Hooks[T]
	hasValue bool
	elements atomic.Int64
}

func newTracker[T any](ctx context.Context, terminal string, parallel bool) *tracker[T] {
	sets, _ := ctx.Value(hooksKey[T]{}).([]*Hooks[T])
	t := &tracker[T]{sets: sets}
	for _, h := range sets {
		if h.OnValue != nil {
			t.hasValue = true
		}
	}
	t.eval = Evaluation{
		Terminal: terminal,
		Parallel: parallel,
		Started:  time.Now(),
	}
	if len(sets) > 0 {
		t.eval.ID = uuid.NewString()
	}
	return t
}

func (t *tracker[T]) start(chunks int) {
	t.eval.Chunks = chunks
	for _, h := range t.sets {
		if h.OnStart != nil {
			h.OnStart(t.eval)
		}
	}
}

func (t *tracker[T]) observe(v T) {
	t.elements.Add(1)
	if !t.hasValue {
		return
	}
	for _, h := range t.sets {
		if h.OnValue != nil {
			h.OnValue(v)
		}
	}
}

func (t *tracker[T]) complete(err error) {
	t.eval.Elements = t.elements.Load()
	t.eval.Duration = time.Since(t.eval.Started)
	for _, h := range t.sets {
		if h.OnComplete != nil {
			h.OnComplete(t.eval, err)
		}
	}
}
