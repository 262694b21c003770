package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/lguimbarda/min-seq/seq/parallel"
	"github.com/samber/lo"
)

// Batch groups consecutive elements into slices of size n. The last batch
// holds the remainder and may be shorter. Batch boundaries follow encounter
// order in both modes. n must be positive.
func Batch[T any](s *Sequence[T], n int) *Sequence[[]T] {
	pull := func(ctx context.Context, yield func([]T) bool) {
		batch := make([]T, 0, n)
		stopped := false
		s.pull(ctx, func(v T) bool {
			batch = append(batch, v)
			if len(batch) < n {
				return true
			}
			if !yield(batch) {
				stopped = true
				return false
			}
			batch = make([]T, 0, n)
			return true
		})
		if !stopped && len(batch) > 0 && ctx.Err() == nil {
			yield(batch)
		}
	}

	var parts partitioner[[]T]
	if s.bounded {
		parts = func(ctx context.Context, ex *parallel.Executor) ([]Pull[[]T], error) {
			buf, err := gather(ctx, ex, s)
			if err != nil {
				return nil, err
			}
			return splitPulls(ex, lo.Chunk(buf, n)), nil
		}
	}
	out := derive(s, pull, parts)
	if n <= 0 && out.err == nil {
		out.err = fmt.Errorf("batch: invalid size %d", n)
	}
	return out
}

// TakeWhile yields elements while pred holds and stops at the first element
// for which it doesn't. Upstream stops being pulled at that point, so like
// Limit it bounds an infinite source. On an infinite source where pred
// never fails, draining the result does not return.
func (s *Sequence[T]) TakeWhile(pred func(T) bool) *Sequence[T] {
	pull := func(ctx context.Context, yield func(T) bool) {
		s.pull(ctx, func(v T) bool {
			return pred(v) && yield(v)
		})
	}

	var parts partitioner[T]
	if s.bounded {
		parts = barrier(s, func(buf []T) []T {
			if i := slices.IndexFunc(buf, func(v T) bool { return !pred(v) }); i >= 0 {
				return buf[:i]
			}
			return buf
		})
	}
	out := derive(s, pull, parts)
	out.bounded = true
	return out
}

// DropWhile drops elements while pred holds and yields everything from the
// first element for which it doesn't.
func (s *Sequence[T]) DropWhile(pred func(T) bool) *Sequence[T] {
	pull := func(ctx context.Context, yield func(T) bool) {
		dropping := true
		s.pull(ctx, func(v T) bool {
			if dropping && pred(v) {
				return true
			}
			dropping = false
			return yield(v)
		})
	}

	var parts partitioner[T]
	if s.bounded {
		parts = barrier(s, func(buf []T) []T {
			if i := slices.IndexFunc(buf, func(v T) bool { return !pred(v) }); i >= 0 {
				return buf[i:]
			}
			return buf[:0]
		})
	}
	return derive(s, pull, parts)
}
