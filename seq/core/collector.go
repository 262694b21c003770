package core

import "context"

// Collector is a reusable fold strategy: Supplier creates an empty
// accumulation, Accumulator folds one element into it, Combiner merges two
// accumulations built from independent chunks, and Finisher turns the
// final accumulation into the result.
//
// Combiner is required even for sequential use; it only runs when the
// evaluation is split across workers. Partials are combined in an
// unspecified order, so only collectors whose result does not depend on
// element order give stable results in parallel mode. Whether Combiner is
// actually associative is not checked.
type Collector[T, A, R any] struct {
	Supplier    func() A
	Accumulator func(A, T) A
	Combiner    func(A, A) A
	// Finisher may be nil when A and R are the same type.
	Finisher func(A) R
}

// Finish applies the finisher to an accumulation.
func (c Collector[T, A, R]) Finish(acc A) R {
	if c.Finisher == nil {
		return any(acc).(R)
	}
	return c.Finisher(acc)
}

// Collect drains the sequence through the collector. Every evaluation
// starts from a fresh Supplier result, and the returned container belongs
// to the caller.
func Collect[T, A, R any](ctx context.Context, s *Sequence[T], c Collector[T, A, R]) (R, error) {
	acc, err := evaluate(ctx, s, fold[T, A]{
		name:    "Collect",
		drains:  true,
		init:    c.Supplier,
		step:    func(a A, v T) (A, bool) { return c.Accumulator(a, v), true },
		combine: c.Combiner,
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return c.Finish(acc), nil
}
