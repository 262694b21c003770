package core

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/lguimbarda/min-seq/seq/parallel"
	"github.com/samber/lo"
)

// derive builds a downstream sequence that inherits the chain, mode and
// boundedness of s.
func derive[T, R any](s *Sequence[T], pull Pull[R], parts partitioner[R]) *Sequence[R] {
	return &Sequence[R]{
		chain:    s.chain,
		pull:     pull,
		parts:    parts,
		bounded:  s.bounded,
		err:      s.err,
		parallel: s.parallel,
		executor: s.executor,
	}
}

// perChunk lifts a stateless pull transformation to every chunk.
func perChunk[T, R any](s *Sequence[T], lift func(Pull[T]) Pull[R]) partitioner[R] {
	return func(ctx context.Context, ex *parallel.Executor) ([]Pull[R], error) {
		up, err := s.partitions(ctx, ex)
		if err != nil {
			return nil, err
		}
		out := make([]Pull[R], len(up))
		for i, p := range up {
			out[i] = lift(p)
		}
		return out, nil
	}
}

// barrier gathers every chunk of s in chunk order, applies op to the full
// buffer and re-splits the result.
func barrier[T any](s *Sequence[T], op func([]T) []T) partitioner[T] {
	return func(ctx context.Context, ex *parallel.Executor) ([]Pull[T], error) {
		buf, err := gather(ctx, ex, s)
		if err != nil {
			return nil, err
		}
		return splitPulls(ex, op(buf)), nil
	}
}

// gather evaluates the chunks of s concurrently and concatenates them in
// chunk order.
func gather[T any](ctx context.Context, ex *parallel.Executor, s *Sequence[T]) ([]T, error) {
	parts, err := s.partitions(ctx, ex)
	if err != nil {
		return nil, err
	}
	chunks, err := parallel.Run(ctx, ex, len(parts), func(ctx context.Context, i int) ([]T, error) {
		var out []T
		parts[i](ctx, func(v T) bool {
			out = append(out, v)
			return true
		})
		return out, ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return slices.Concat(chunks...), nil
}

// Map transforms every element with f.
func Map[T, R any](s *Sequence[T], f func(T) R) *Sequence[R] {
	lift := func(up Pull[T]) Pull[R] {
		return func(ctx context.Context, yield func(R) bool) {
			up(ctx, func(v T) bool { return yield(f(v)) })
		}
	}
	return derive(s, lift(s.pull), perChunk(s, lift))
}

// FlatMap expands every element into the sub-sequence returned by f and
// yields the sub-sequences one after another.
func FlatMap[T, R any](s *Sequence[T], f func(T) iter.Seq[R]) *Sequence[R] {
	lift := func(up Pull[T]) Pull[R] {
		return func(ctx context.Context, yield func(R) bool) {
			up(ctx, func(v T) bool {
				for r := range f(v) {
					if !yield(r) {
						return false
					}
				}
				return true
			})
		}
	}
	return derive(s, lift(s.pull), perChunk(s, lift))
}

// FlatMapSlice is FlatMap for functions returning slices.
func FlatMapSlice[T, R any](s *Sequence[T], f func(T) []R) *Sequence[R] {
	return FlatMap(s, func(v T) iter.Seq[R] { return slices.Values(f(v)) })
}

// Filter keeps the elements for which pred holds.
func (s *Sequence[T]) Filter(pred func(T) bool) *Sequence[T] {
	lift := func(up Pull[T]) Pull[T] {
		return func(ctx context.Context, yield func(T) bool) {
			up(ctx, func(v T) bool {
				if !pred(v) {
					return true
				}
				return yield(v)
			})
		}
	}
	return derive(s, lift(s.pull), perChunk(s, lift))
}

// Peek calls f for every element as it flows downstream. In parallel mode
// f runs concurrently on the worker goroutines; synchronising any shared
// state it touches is up to the caller.
func (s *Sequence[T]) Peek(f func(T)) *Sequence[T] {
	lift := func(up Pull[T]) Pull[T] {
		return func(ctx context.Context, yield func(T) bool) {
			up(ctx, func(v T) bool {
				f(v)
				return yield(v)
			})
		}
	}
	return derive(s, lift(s.pull), perChunk(s, lift))
}

// Limit truncates the sequence to at most n elements. Upstream stops being
// pulled as soon as the n-th element has been yielded, so Limit bounds
// infinite sources.
func (s *Sequence[T]) Limit(n int) *Sequence[T] {
	pull := func(ctx context.Context, yield func(T) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		s.pull(ctx, func(v T) bool {
			taken++
			if !yield(v) {
				return false
			}
			return taken < n
		})
	}

	var parts partitioner[T]
	if s.bounded {
		parts = barrier(s, func(buf []T) []T { return buf[:min(max(n, 0), len(buf))] })
	}
	out := derive(s, pull, parts)
	out.bounded = true
	return out
}

// Skip drops the first n elements.
func (s *Sequence[T]) Skip(n int) *Sequence[T] {
	pull := func(ctx context.Context, yield func(T) bool) {
		skipped := 0
		s.pull(ctx, func(v T) bool {
			if skipped < n {
				skipped++
				return true
			}
			return yield(v)
		})
	}

	var parts partitioner[T]
	if s.bounded {
		parts = barrier(s, func(buf []T) []T { return buf[min(max(n, 0), len(buf)):] })
	}
	return derive(s, pull, parts)
}

// SortedFunc buffers the sequence and yields it ordered by compare. The
// sort is stable, so elements compare reports as equal keep their
// encounter order. Sorting an unbounded sequence is reported by the
// terminal operation as ErrUnboundedEvaluation.
func (s *Sequence[T]) SortedFunc(compare func(a, b T) int) *Sequence[T] {
	sortBuf := func(buf []T) []T {
		slices.SortStableFunc(buf, compare)
		return buf
	}
	pull := func(ctx context.Context, yield func(T) bool) {
		var buf []T
		s.pull(ctx, func(v T) bool {
			buf = append(buf, v)
			return true
		})
		if ctx.Err() != nil {
			return
		}
		for _, v := range sortBuf(buf) {
			if !yield(v) {
				return
			}
		}
	}

	var parts partitioner[T]
	if s.bounded {
		parts = barrier(s, sortBuf)
	}
	out := derive(s, pull, parts)
	if !s.bounded && out.err == nil {
		out.err = fmt.Errorf("sorted: %w", ErrUnboundedEvaluation)
	}
	return out
}

// Sorted orders the sequence by the natural order of its elements.
func Sorted[T cmp.Ordered](s *Sequence[T]) *Sequence[T] {
	return s.SortedFunc(cmp.Compare[T])
}

// Distinct drops elements equal to one already seen, keeping first
// occurrences in encounter order.
func Distinct[T comparable](s *Sequence[T]) *Sequence[T] {
	return DistinctBy(s, func(v T) T { return v })
}

// DistinctBy drops elements whose key has already been seen.
func DistinctBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[T] {
	pull := func(ctx context.Context, yield func(T) bool) {
		seen := make(map[K]struct{})
		s.pull(ctx, func(v T) bool {
			k := key(v)
			if _, dup := seen[k]; dup {
				return true
			}
			seen[k] = struct{}{}
			return yield(v)
		})
	}

	var parts partitioner[T]
	if s.bounded {
		parts = barrier(s, func(buf []T) []T { return lo.UniqBy(buf, key) })
	}
	return derive(s, pull, parts)
}
