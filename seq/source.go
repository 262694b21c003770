package seq

import (
	"context"
	"iter"
	"math/rand/v2"

	"github.com/lguimbarda/min-seq/seq/core"
	"github.com/lguimbarda/min-seq/seq/text"
)

// Integer is the constraint of Range and RangeClosed.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Values creates a sequence of the given values.
func Values[T any](values ...T) *Sequence[T] {
	return core.Of(values)
}

// FromSlice creates a sequence backed by items. The slice is not copied
// and must not be modified until the sequence has been evaluated.
func FromSlice[T any](items []T) *Sequence[T] {
	return core.Of(items)
}

// SliceRange creates a sequence of items[from:to]. Like slicing, it panics
// if the bounds are out of range.
func SliceRange[T any](items []T, from, to int) *Sequence[T] {
	return core.Of(items[from:to])
}

// FromIterable creates a sequence from a finite iterator. Iterators
// cannot be split, so parallel evaluation drains it first.
func FromIterable[T any](seq iter.Seq[T]) *Sequence[T] {
	return core.FromIter(seq)
}

// FromFallible creates a sequence from an iterator that may fail. The first
// error ends the sequence and is returned by the terminal operation.
func FromFallible[T any](seq iter.Seq2[T, error]) *Sequence[T] {
	return core.FromFallible(seq)
}

// Generate creates an infinite sequence of values returned by supplier.
// The supplier is called once per element pulled, so Limit(n) calls it
// exactly n times.
func Generate[T any](supplier func() T) *Sequence[T] {
	return core.Unbounded(func(ctx context.Context, yield func(T) bool) {
		for ctx.Err() == nil {
			if !yield(supplier()) {
				return
			}
		}
	})
}

// Iterate creates the infinite sequence seed, next(seed), next(next(seed))...
func Iterate[T any](seed T, next func(T) T) *Sequence[T] {
	return core.Unbounded(func(ctx context.Context, yield func(T) bool) {
		for v := seed; ctx.Err() == nil; v = next(v) {
			if !yield(v) {
				return
			}
		}
	})
}

// Repeat creates a sequence of n copies of v. If n is negative the
// sequence is infinite.
func Repeat[T any](v T, n int) *Sequence[T] {
	if n < 0 {
		return Generate(func() T { return v })
	}
	return core.Indexed(n, func(int) T { return v })
}

// Empty creates a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return core.Empty[T]()
}

// Concat creates a sequence of the elements of each input in turn.
// Evaluating the result consumes every input.
func Concat[T any](seqs ...*Sequence[T]) *Sequence[T] {
	return core.Concat(seqs...)
}

// Range creates the sequence start, start+1, ..., end-1. It is empty when
// end <= start.
func Range[T Integer](start, end T) *Sequence[T] {
	if end <= start {
		return Empty[T]()
	}
	return core.Indexed(span(start, end), func(i int) T { return start + T(i) })
}

// RangeClosed creates the sequence start, start+1, ..., end.
func RangeClosed[T Integer](start, end T) *Sequence[T] {
	if end < start {
		return Empty[T]()
	}
	return core.Indexed(span(start, end)+1, func(i int) T { return start + T(i) })
}

// span is end-start computed in 64-bit two's complement, so it does not
// overflow for narrow signed types such as int8(-100)..int8(100).
func span[T Integer](start, end T) int {
	return int(uint64(end) - uint64(start))
}

// Chars creates a sequence of the runes of s.
func Chars(s string) *Sequence[rune] {
	return text.Chars(s)
}

// Random creates a sequence of n pseudo-random numbers in [0.0, 1.0).
func Random(n int) *Sequence[float64] {
	return core.Indexed(n, func(int) float64 { return rand.Float64() })
}

// Builder accumulates values for a sequence.
//
//	s := seq.NewBuilder[string]().Add("one").Add("two").Build()
type Builder[T any] struct {
	items []T
}

// NewBuilder creates an empty builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{}
}

// Add appends v and returns the builder for chaining.
func (b *Builder[T]) Add(v T) *Builder[T] {
	b.items = append(b.items, v)
	return b
}

// Build creates a sequence of the values added so far. Later Adds don't
// affect it.
func (b *Builder[T]) Build() *Sequence[T] {
	items := make([]T, len(b.items))
	copy(items, b.items)
	return core.Of(items)
}
