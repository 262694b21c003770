// Package seq provides lazy, pull-based sequences with sequential and
// parallel evaluation.
//
// This package is the primary user-facing API. Most users only need this
// package and seq/collect. The seq/core subpackage holds the underlying
// abstractions and is rarely needed directly.
//
// A pipeline is built from a source, any number of stages and exactly one
// terminal operation:
//
//	total, err := seq.Sum(ctx, seq.Map(seq.Range(1, 4), func(n int) int { return n * n }))
//
// Nothing runs until the terminal operation is called, and a pipeline can be
// evaluated only once.
package seq

import (
	"cmp"
	"context"
	"iter"

	"github.com/lguimbarda/min-seq/seq/core"
	"github.com/lguimbarda/min-seq/seq/parallel"
)

// Type aliases for the core abstractions.
// These allow users to work with sequences without importing core directly.
type (
	// Sequence is a lazy, single-use producer of elements.
	Sequence[T any] = core.Sequence[T]

	// Pull drives a sequence by calling yield for each element.
	Pull[T any] = core.Pull[T]

	// Collector is a reusable fold strategy for Collect.
	Collector[T, A, R any] = core.Collector[T, A, R]

	// Optional is the possibly-absent result of Reduce, Min, Max and First.
	Optional[T any] = core.Optional[T]

	// Hooks holds observation callbacks for terminal evaluations.
	Hooks[T any] = core.Hooks[T]

	// Evaluation describes a single terminal run.
	Evaluation = core.Evaluation

	// Number is the constraint of the numeric terminals.
	Number = core.Number

	// Executor runs parallel evaluations.
	Executor = parallel.Executor

	// RunFailure reports the chunk whose failure aborted a parallel run.
	RunFailure = parallel.RunFailure

	// ErrPanic is the error a panic inside a parallel chunk is turned into.
	ErrPanic = parallel.ErrPanic
)

var (
	// ErrUnboundedEvaluation is returned when an infinite sequence would
	// have to be fully evaluated.
	ErrUnboundedEvaluation = core.ErrUnboundedEvaluation

	// ErrReuse is returned by a second terminal operation on a chain.
	ErrReuse = core.ErrReuse
)

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return core.Some(v)
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return core.None[T]()
}

// NewExecutor creates an executor for parallel evaluation.
func NewExecutor(opts ...parallel.Option) *Executor {
	return parallel.NewExecutor(opts...)
}

// WithExecutor returns a context carrying ex as the executor of parallel
// evaluations that don't pin one with ParallelOn.
func WithExecutor(ctx context.Context, ex *Executor) context.Context {
	return core.WithExecutor(ctx, ex)
}

// WithHooks attaches typed evaluation hooks to the context.
func WithHooks[T any](ctx context.Context, hooks Hooks[T]) context.Context {
	return core.WithHooks(ctx, hooks)
}

// Stages.

// Map transforms every element with f.
func Map[T, R any](s *Sequence[T], f func(T) R) *Sequence[R] {
	return core.Map(s, f)
}

// FlatMap expands every element into the sub-sequence returned by f.
func FlatMap[T, R any](s *Sequence[T], f func(T) iter.Seq[R]) *Sequence[R] {
	return core.FlatMap(s, f)
}

// FlatMapSlice expands every element into the slice returned by f.
func FlatMapSlice[T, R any](s *Sequence[T], f func(T) []R) *Sequence[R] {
	return core.FlatMapSlice(s, f)
}

// Sorted orders the sequence by natural order.
func Sorted[T cmp.Ordered](s *Sequence[T]) *Sequence[T] {
	return core.Sorted(s)
}

// Distinct drops repeated elements, keeping first occurrences.
func Distinct[T comparable](s *Sequence[T]) *Sequence[T] {
	return core.Distinct(s)
}

// DistinctBy drops elements whose key has already been seen.
func DistinctBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[T] {
	return core.DistinctBy(s, key)
}

// Batch groups consecutive elements into slices of size n.
func Batch[T any](s *Sequence[T], n int) *Sequence[[]T] {
	return core.Batch(s, n)
}

// Terminal operations.

// Collect drains the sequence through the collector.
func Collect[T, A, R any](ctx context.Context, s *Sequence[T], c Collector[T, A, R]) (R, error) {
	return core.Collect(ctx, s, c)
}

// ReduceWith reduces the elements into an accumulator of another type.
func ReduceWith[T, U any](ctx context.Context, s *Sequence[T], identity U, accumulator func(U, T) U, combiner func(U, U) U) (U, error) {
	return core.ReduceWith(ctx, s, identity, accumulator, combiner)
}

// Sum adds up the elements.
func Sum[T Number](ctx context.Context, s *Sequence[T]) (T, error) {
	return core.Sum(ctx, s)
}

// Average returns the arithmetic mean of the elements.
func Average[T Number](ctx context.Context, s *Sequence[T]) (Optional[float64], error) {
	return core.Average(ctx, s)
}

// MinOf returns the smallest element in natural order.
func MinOf[T cmp.Ordered](ctx context.Context, s *Sequence[T]) (Optional[T], error) {
	return core.MinOf(ctx, s)
}

// MaxOf returns the largest element in natural order.
func MaxOf[T cmp.Ordered](ctx context.Context, s *Sequence[T]) (Optional[T], error) {
	return core.MaxOf(ctx, s)
}
