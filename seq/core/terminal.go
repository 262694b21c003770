package core

import (
	"cmp"
	"context"
	"iter"
	"sync/atomic"

	"github.com/lguimbarda/min-seq/seq/parallel"
)

// Terminal operations consume the chain and force evaluation. Each of them
// fails with ErrReuse on an already consumed chain and, when it has to
// drain its input, with ErrUnboundedEvaluation on an infinite sequence.

// fold describes a terminal operation as a chunk-local fold plus a merge.
type fold[T, A any] struct {
	name string
	// drains is false for short-circuiting terminals, which may run on
	// unbounded sequences.
	drains bool
	// ordered merges chunk partials in chunk order instead of completion
	// order.
	ordered bool
	init    func() A
	// step returns false to stop the evaluation, across all chunks.
	step func(A, T) (A, bool)
	// parStep replaces step inside parallel chunks when set.
	parStep func(A, T) (A, bool)
	combine func(A, A) A
}

func evaluate[T, A any](ctx context.Context, s *Sequence[T], f fold[T, A]) (acc A, err error) {
	if err := s.chain.claim(); err != nil {
		return acc, err
	}
	if s.err != nil {
		return acc, s.err
	}
	if f.drains && !s.bounded {
		return acc, ErrUnboundedEvaluation
	}

	// Unbounded input cannot be split; short-circuiting terminals run
	// sequentially on it even in parallel mode.
	inParallel := s.parallel && s.bounded
	t := newTracker[T](ctx, f.name, inParallel)

	if !inParallel {
		t.start(0)
		defer func() { t.complete(err) }()

		acc = f.init()
		s.pull(ctx, func(v T) bool {
			t.observe(v)
			var more bool
			acc, more = f.step(acc, v)
			return more
		})
		if err := ctx.Err(); err != nil {
			return acc, err
		}
		if err := s.chain.failure(); err != nil {
			return acc, err
		}
		return acc, nil
	}

	ex := s.resolveExecutor(ctx)
	parts, err := s.partitions(ctx, ex)
	if err != nil {
		return acc, err
	}
	t.start(len(parts))
	defer func() { t.complete(err) }()

	step := f.step
	if f.parStep != nil {
		step = f.parStep
	}

	var stop atomic.Bool
	task := func(ctx context.Context, i int) (A, error) {
		a := f.init()
		parts[i](ctx, func(v T) bool {
			if stop.Load() {
				return false
			}
			t.observe(v)
			var more bool
			a, more = step(a, v)
			if !more {
				stop.Store(true)
			}
			return more
		})
		return a, ctx.Err()
	}

	if f.ordered {
		partials, err := parallel.Run(ctx, ex, len(parts), task)
		if err != nil {
			return acc, err
		}
		acc = f.init()
		for i, p := range partials {
			if i == 0 {
				acc = p
				continue
			}
			acc = f.combine(acc, p)
		}
		return acc, nil
	}

	acc, ok, err := parallel.Fold(ctx, ex, len(parts), task, f.combine)
	if err != nil {
		return acc, err
	}
	if !ok {
		acc = f.init()
	}
	return acc, nil
}

// ToList materializes the sequence. In parallel mode chunks are
// concatenated in chunk order.
func (s *Sequence[T]) ToList(ctx context.Context) ([]T, error) {
	return evaluate(ctx, s, fold[T, []T]{
		name:    "ToList",
		drains:  true,
		ordered: true,
		init:    func() []T { return []T{} },
		step:    func(acc []T, v T) ([]T, bool) { return append(acc, v), true },
		combine: func(a, b []T) []T { return append(a, b...) },
	})
}

// ForEach calls f for every element. In parallel mode f runs concurrently.
func (s *Sequence[T]) ForEach(ctx context.Context, f func(T)) error {
	_, err := evaluate(ctx, s, fold[T, struct{}]{
		name:    "ForEach",
		drains:  true,
		init:    func() struct{} { return struct{}{} },
		step: func(acc struct{}, v T) (struct{}, bool) {
			f(v)
			return acc, true
		},
		combine: func(a, _ struct{}) struct{} { return a },
	})
	return err
}

// Count returns the number of elements.
func (s *Sequence[T]) Count(ctx context.Context) (int64, error) {
	return evaluate(ctx, s, fold[T, int64]{
		name:    "Count",
		drains:  true,
		init:    func() int64 { return 0 },
		step:    func(acc int64, _ T) (int64, bool) { return acc + 1, true },
		combine: func(a, b int64) int64 { return a + b },
	})
}

// Reduce combines the elements with op. An empty sequence yields an empty
// Optional, not an error.
func (s *Sequence[T]) Reduce(ctx context.Context, op func(T, T) T) (Optional[T], error) {
	return evaluate(ctx, s, fold[T, Optional[T]]{
		name:   "Reduce",
		drains: true,
		init:   None[T],
		step: func(acc Optional[T], v T) (Optional[T], bool) {
			if !acc.ok {
				return Some(v), true
			}
			return Some(op(acc.value, v)), true
		},
		combine: mergeOptional(op),
	})
}

// Fold reduces the elements starting from identity. An empty sequence
// yields identity. In parallel mode every element is seeded with identity
// before partials are merged with op, so op must be associative and
// commutative and op(identity, x) must equal x for the result to match a
// sequential run.
func (s *Sequence[T]) Fold(ctx context.Context, identity T, op func(T, T) T) (T, error) {
	return ReduceWith(ctx, s, identity, op, op)
}

// ReduceWith reduces the elements into an accumulator of a different type.
// Sequentially it is a left fold of accumulator starting from identity. In
// parallel mode each element is folded into its own identity and the
// results are merged with combiner, so the outcome does not depend on how
// the input was chunked. The caller guarantees combiner is associative and
// that combiner(identity, x) == x; only then do both modes agree.
func ReduceWith[T, U any](ctx context.Context, s *Sequence[T], identity U, accumulator func(U, T) U, combiner func(U, U) U) (U, error) {
	r, err := evaluate(ctx, s, fold[T, Optional[U]]{
		name:   "ReduceWith",
		drains: true,
		init:   None[U],
		step: func(acc Optional[U], v T) (Optional[U], bool) {
			return Some(accumulator(acc.OrElse(identity), v)), true
		},
		parStep: func(acc Optional[U], v T) (Optional[U], bool) {
			seeded := accumulator(identity, v)
			if !acc.ok {
				return Some(seeded), true
			}
			return Some(combiner(acc.value, seeded)), true
		},
		combine: mergeOptional(combiner),
	})
	if err != nil {
		var zero U
		return zero, err
	}
	return r.OrElse(identity), nil
}

// Min returns the smallest element according to compare.
func (s *Sequence[T]) Min(ctx context.Context, compare func(a, b T) int) (Optional[T], error) {
	return s.Reduce(ctx, func(a, b T) T {
		if compare(b, a) < 0 {
			return b
		}
		return a
	})
}

// Max returns the largest element according to compare.
func (s *Sequence[T]) Max(ctx context.Context, compare func(a, b T) int) (Optional[T], error) {
	return s.Reduce(ctx, func(a, b T) T {
		if compare(b, a) > 0 {
			return b
		}
		return a
	})
}

// MinOf returns the smallest element in natural order.
func MinOf[T cmp.Ordered](ctx context.Context, s *Sequence[T]) (Optional[T], error) {
	return s.Min(ctx, cmp.Compare[T])
}

// MaxOf returns the largest element in natural order.
func MaxOf[T cmp.Ordered](ctx context.Context, s *Sequence[T]) (Optional[T], error) {
	return s.Max(ctx, cmp.Compare[T])
}

// First returns the first element in encounter order. It always evaluates
// sequentially and stops pulling after one element, so it is safe on
// unbounded sequences.
func (s *Sequence[T]) First(ctx context.Context) (Optional[T], error) {
	return evaluate(ctx, s.Sequential(), fold[T, Optional[T]]{
		name:    "First",
		init:    None[T],
		step:    func(_ Optional[T], v T) (Optional[T], bool) { return Some(v), false },
		combine: func(a, _ Optional[T]) Optional[T] { return a },
	})
}

// AnyMatch reports whether pred holds for some element. Evaluation stops
// at the first match.
func (s *Sequence[T]) AnyMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	return evaluate(ctx, s, fold[T, bool]{
		name: "AnyMatch",
		init: func() bool { return false },
		step: func(_ bool, v T) (bool, bool) {
			if pred(v) {
				return true, false
			}
			return false, true
		},
		combine: func(a, b bool) bool { return a || b },
	})
}

// AllMatch reports whether pred holds for every element; true for an empty
// sequence. Evaluation stops at the first mismatch.
func (s *Sequence[T]) AllMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	return evaluate(ctx, s, fold[T, bool]{
		name: "AllMatch",
		init: func() bool { return true },
		step: func(_ bool, v T) (bool, bool) {
			if !pred(v) {
				return false, false
			}
			return true, true
		},
		combine: func(a, b bool) bool { return a && b },
	})
}

// NoneMatch reports whether pred holds for no element. Evaluation stops at
// the first match.
func (s *Sequence[T]) NoneMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	found, err := s.AnyMatch(ctx, pred)
	return !found, err
}

// All returns an iterator over the elements, evaluated sequentially. The
// final pair carries a non-nil error if the chain was already consumed,
// the context was cancelled, or a source failed.
func (s *Sequence[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if err := s.chain.claim(); err != nil {
			yield(zero, err)
			return
		}
		if s.err != nil {
			yield(zero, s.err)
			return
		}
		stopped := false
		s.pull(ctx, func(v T) bool {
			if !yield(v, nil) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
		if err := ctx.Err(); err != nil {
			yield(zero, err)
			return
		}
		if err := s.chain.failure(); err != nil {
			yield(zero, err)
		}
	}
}

// Number is the constraint of the numeric terminals and collectors.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Sum adds up the elements; zero for an empty sequence.
func Sum[T Number](ctx context.Context, s *Sequence[T]) (T, error) {
	return s.Fold(ctx, 0, func(a, b T) T { return a + b })
}

// Average returns the arithmetic mean, or an empty Optional for an empty
// sequence.
func Average[T Number](ctx context.Context, s *Sequence[T]) (Optional[float64], error) {
	type acc struct {
		sum   float64
		count int64
	}
	r, err := ReduceWith(ctx, s, acc{},
		func(a acc, v T) acc { return acc{sum: a.sum + float64(v), count: a.count + 1} },
		func(a, b acc) acc { return acc{sum: a.sum + b.sum, count: a.count + b.count} },
	)
	if err != nil || r.count == 0 {
		return None[float64](), err
	}
	return Some(r.sum / float64(r.count)), nil
}

func mergeOptional[T any](op func(T, T) T) func(a, b Optional[T]) Optional[T] {
	return func(a, b Optional[T]) Optional[T] {
		switch {
		case !a.ok:
			return b
		case !b.ok:
			return a
		default:
			return Some(op(a.value, b.value))
		}
	}
}
