// Package core defines the lazy sequence abstraction: a single-use chain of
// pull-based stages evaluated by terminal operations, either sequentially
// on the calling goroutine or in parallel on a parallel.Executor.
//
// NOTE: apart from the executor and run bookkeeping, this package should
// stay free of dependencies on other seq packages.
package core

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/lguimbarda/min-seq/seq/parallel"
)

// Pull drives a sequence: it calls yield for each element, in order, until
// yield returns false or the input is exhausted. A Pull must stop promptly
// once ctx is done.
type Pull[T any] func(ctx context.Context, yield func(T) bool)

// partitioner produces one Pull per contiguous chunk of the backing data.
type partitioner[T any] func(ctx context.Context, ex *parallel.Executor) ([]Pull[T], error)

// Sequence is a lazy, single-use producer of elements of type T.
//
// A Sequence is immutable: every stage returns a new Sequence and leaves its
// upstream untouched. All sequences derived from the same source share one
// chain, and the chain can be consumed by exactly one terminal operation.
type Sequence[T any] struct {
	chain *chain
	pull  Pull[T]
	// parts is nil when the data cannot be split without first draining
	// pull; partitions falls back to buffering in that case.
	parts    partitioner[T]
	bounded  bool
	err      error
	parallel bool
	executor *parallel.Executor
}

// chain is the single-use token shared by every stage of a pipeline.
// Sources that can fail record their error here for the terminal to report.
type chain struct {
	used    atomic.Bool
	parents []*chain

	mu    sync.Mutex
	fault error
}

func newChain(parents ...*chain) *chain {
	return &chain{parents: parents}
}

func (c *chain) claim() error {
	if !c.used.CompareAndSwap(false, true) {
		return ErrReuse
	}
	for _, p := range c.parents {
		if err := p.claim(); err != nil {
			return err
		}
	}
	return nil
}

func (c *chain) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault == nil {
		c.fault = err
	}
}

func (c *chain) failure() error {
	c.mu.Lock()
	err := c.fault
	c.mu.Unlock()
	if err != nil {
		return err
	}
	for _, p := range c.parents {
		if err := p.failure(); err != nil {
			return err
		}
	}
	return nil
}

// Of creates a bounded sequence backed by items. The slice is not copied;
// it must not be modified until the sequence has been evaluated. In
// parallel mode the slice is split directly into chunks.
func Of[T any](items []T) *Sequence[T] {
	return &Sequence[T]{
		chain:   newChain(),
		pull:    slicePull(items),
		parts:   sliceParts(items),
		bounded: true,
	}
}

// Indexed creates a bounded sequence of n elements where the i-th element
// is at(i). In parallel mode the index range is split without
// materializing the elements, so at must be safe for concurrent use.
func Indexed[T any](n int, at func(i int) T) *Sequence[T] {
	n = max(n, 0)
	return &Sequence[T]{
		chain: newChain(),
		pull:  indexPull(0, n, at),
		parts: func(_ context.Context, ex *parallel.Executor) ([]Pull[T], error) {
			if n == 0 {
				return nil, nil
			}
			size := ex.ChunkSize(n)
			pulls := make([]Pull[T], 0, (n+size-1)/size)
			for from := 0; from < n; from += size {
				pulls = append(pulls, indexPull(from, min(from+size, n), at))
			}
			return pulls, nil
		},
		bounded: true,
	}
}

// FromIter creates a bounded sequence from a finite iterator. In parallel
// mode the iterator is drained on the calling goroutine before splitting.
func FromIter[T any](seq iter.Seq[T]) *Sequence[T] {
	return &Sequence[T]{
		chain: newChain(),
		pull: func(ctx context.Context, yield func(T) bool) {
			for v := range seq {
				if ctx.Err() != nil || !yield(v) {
					return
				}
			}
		},
		bounded: true,
	}
}

// FromFallible creates a bounded sequence from an iterator that may fail.
// Iteration stops at the first non-nil error, which the terminal operation
// then returns.
func FromFallible[T any](seq iter.Seq2[T, error]) *Sequence[T] {
	c := newChain()
	return &Sequence[T]{
		chain: c,
		pull: func(ctx context.Context, yield func(T) bool) {
			for v, err := range seq {
				if err != nil {
					c.fail(err)
					return
				}
				if ctx.Err() != nil || !yield(v) {
					return
				}
			}
		},
		bounded: true,
	}
}

// FromFunc creates a bounded sequence from a pull function that can fail,
// such as a file or query reader. A non-nil error returned by pull is
// returned by the terminal operation.
func FromFunc[T any](pull func(ctx context.Context, yield func(T) bool) error) *Sequence[T] {
	c := newChain()
	return &Sequence[T]{
		chain: c,
		pull: func(ctx context.Context, yield func(T) bool) {
			if err := pull(ctx, yield); err != nil {
				c.fail(err)
			}
		},
		bounded: true,
	}
}

// Unbounded creates an infinite sequence. Terminal operations that must
// drain their input fail with ErrUnboundedEvaluation unless a Limit is
// applied first.
func Unbounded[T any](pull Pull[T]) *Sequence[T] {
	return &Sequence[T]{
		chain: newChain(),
		pull:  pull,
	}
}

// Empty creates a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return Of[T](nil)
}

// Concat creates a sequence yielding the elements of each input in turn.
// Consuming the result consumes every input chain. The result is parallel
// if any input is.
func Concat[T any](seqs ...*Sequence[T]) *Sequence[T] {
	chains := make([]*chain, len(seqs))
	bounded, par := true, false
	var err error
	for i, s := range seqs {
		chains[i] = s.chain
		bounded = bounded && s.bounded
		par = par || s.parallel
		if err == nil {
			err = s.err
		}
	}

	out := &Sequence[T]{
		chain: newChain(chains...),
		pull: func(ctx context.Context, yield func(T) bool) {
			for _, s := range seqs {
				stopped := false
				s.pull(ctx, func(v T) bool {
					if !yield(v) {
						stopped = true
						return false
					}
					return true
				})
				if stopped || ctx.Err() != nil {
					return
				}
			}
		},
		bounded:  bounded,
		err:      err,
		parallel: par,
	}
	if bounded {
		out.parts = func(ctx context.Context, ex *parallel.Executor) ([]Pull[T], error) {
			var all []Pull[T]
			for _, s := range seqs {
				p, err := s.partitions(ctx, ex)
				if err != nil {
					return nil, err
				}
				all = append(all, p...)
			}
			return all, nil
		}
	}
	return out
}

// Parallel returns the sequence switched to parallel evaluation. The mode
// is a per-chain flag: the last Parallel or Sequential call before the
// terminal operation wins.
func (s *Sequence[T]) Parallel() *Sequence[T] {
	out := *s
	out.parallel = true
	return &out
}

// ParallelOn is like Parallel but pins the executor used for evaluation.
func (s *Sequence[T]) ParallelOn(ex *parallel.Executor) *Sequence[T] {
	out := *s
	out.parallel = true
	out.executor = ex
	return &out
}

// Sequential returns the sequence switched back to sequential evaluation.
func (s *Sequence[T]) Sequential() *Sequence[T] {
	out := *s
	out.parallel = false
	return &out
}

// IsParallel reports whether a terminal operation would evaluate the
// sequence in parallel.
func (s *Sequence[T]) IsParallel() bool { return s.parallel }

// IsBounded reports whether the sequence is known to be finite.
func (s *Sequence[T]) IsBounded() bool { return s.bounded }

// partitions returns per-chunk pulls for parallel evaluation. Sequences
// without a native split are drained sequentially and the buffer is split.
func (s *Sequence[T]) partitions(ctx context.Context, ex *parallel.Executor) ([]Pull[T], error) {
	if s.parts != nil {
		return s.parts(ctx, ex)
	}
	var buf []T
	s.pull(ctx, func(v T) bool {
		buf = append(buf, v)
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.chain.failure(); err != nil {
		return nil, err
	}
	return splitPulls(ex, buf), nil
}

func (s *Sequence[T]) resolveExecutor(ctx context.Context) *parallel.Executor {
	if s.executor != nil {
		return s.executor
	}
	if ex, ok := ExecutorFrom(ctx); ok {
		return ex
	}
	return parallel.NewExecutor()
}

func slicePull[T any](items []T) Pull[T] {
	return func(ctx context.Context, yield func(T) bool) {
		for _, v := range items {
			if ctx.Err() != nil || !yield(v) {
				return
			}
		}
	}
}

func indexPull[T any](from, to int, at func(int) T) Pull[T] {
	return func(ctx context.Context, yield func(T) bool) {
		for i := from; i < to; i++ {
			if ctx.Err() != nil || !yield(at(i)) {
				return
			}
		}
	}
}

func sliceParts[T any](items []T) partitioner[T] {
	return func(_ context.Context, ex *parallel.Executor) ([]Pull[T], error) {
		return splitPulls(ex, items), nil
	}
}

func splitPulls[T any](ex *parallel.Executor, items []T) []Pull[T] {
	chunks := parallel.Split(ex, items)
	pulls := make([]Pull[T], len(chunks))
	for i, c := range chunks {
		pulls[i] = slicePull(c)
	}
	return pulls
}
