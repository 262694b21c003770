// Package collect provides the standard collectors for core.Collect:
// containers (ToList, ToSet), string joining, numeric aggregates, grouping
// and partitioning, plus constructors for custom collectors.
//
// Every collector here has an associative combiner. Collectors that
// preserve encounter order (ToList, Joining, GroupingBy) only do so in
// sequential mode; in parallel mode chunk partials are merged in an
// unspecified order.
package collect

import (
	"strings"

	"github.com/lguimbarda/min-seq/seq/core"
	"github.com/samber/lo"
)

// Collector is re-exported from core for convenience.
type Collector[T, A, R any] = core.Collector[T, A, R]

// Of creates a collector whose accumulation is its result.
func Of[T, A any](supplier func() A, accumulator func(A, T) A, combiner func(A, A) A) Collector[T, A, A] {
	return Collector[T, A, A]{
		Supplier:    supplier,
		Accumulator: accumulator,
		Combiner:    combiner,
		Finisher:    func(a A) A { return a },
	}
}

// New creates a collector with an explicit finisher.
func New[T, A, R any](supplier func() A, accumulator func(A, T) A, combiner func(A, A) A, finisher func(A) R) Collector[T, A, R] {
	return Collector[T, A, R]{
		Supplier:    supplier,
		Accumulator: accumulator,
		Combiner:    combiner,
		Finisher:    finisher,
	}
}

// ToList collects elements into a slice in encounter order.
func ToList[T any]() Collector[T, []T, []T] {
	return Of(
		func() []T { return []T{} },
		func(acc []T, v T) []T { return append(acc, v) },
		func(a, b []T) []T { return append(a, b...) },
	)
}

// ToSet collects elements into a set.
func ToSet[T comparable]() Collector[T, map[T]struct{}, map[T]struct{}] {
	return Of(
		func() map[T]struct{} { return make(map[T]struct{}) },
		func(acc map[T]struct{}, v T) map[T]struct{} {
			acc[v] = struct{}{}
			return acc
		},
		func(a, b map[T]struct{}) map[T]struct{} {
			for k := range b {
				a[k] = struct{}{}
			}
			return a
		},
	)
}

// Joining concatenates strings with no delimiter.
func Joining() Collector[string, []string, string] {
	return JoiningWith("", "", "")
}

// JoiningWith concatenates strings separated by delimiter and wrapped in
// prefix and suffix. An empty input yields prefix+suffix.
func JoiningWith(delimiter, prefix, suffix string) Collector[string, []string, string] {
	return New(
		func() []string { return []string{} },
		func(acc []string, s string) []string { return append(acc, s) },
		func(a, b []string) []string { return append(a, b...) },
		func(parts []string) string { return prefix + strings.Join(parts, delimiter) + suffix },
	)
}

// Counting counts the elements.
func Counting[T any]() Collector[T, int64, int64] {
	return Of(
		func() int64 { return 0 },
		func(n int64, _ T) int64 { return n + 1 },
		func(a, b int64) int64 { return a + b },
	)
}

// Mapping adapts downstream to accept T by mapping each element first.
// Mostly useful as the downstream of GroupingByWith.
func Mapping[T, U, A, R any](mapper func(T) U, downstream Collector[U, A, R]) Collector[T, A, R] {
	return Collector[T, A, R]{
		Supplier:    downstream.Supplier,
		Accumulator: func(a A, v T) A { return downstream.Accumulator(a, mapper(v)) },
		Combiner:    downstream.Combiner,
		Finisher:    downstream.Finish,
	}
}

// CollectingAndThen applies finisher to the result of c.
func CollectingAndThen[T, A, R, RR any](c Collector[T, A, R], finisher func(R) RR) Collector[T, A, RR] {
	return Collector[T, A, RR]{
		Supplier:    c.Supplier,
		Accumulator: c.Accumulator,
		Combiner:    c.Combiner,
		Finisher:    func(a A) RR { return finisher(c.Finish(a)) },
	}
}

// GroupingBy groups elements by key. Within a group, elements keep their
// encounter order.
func GroupingBy[T any, K comparable](key func(T) K) Collector[T, map[K][]T, map[K][]T] {
	return Of(
		func() map[K][]T { return make(map[K][]T) },
		func(groups map[K][]T, v T) map[K][]T {
			k := key(v)
			groups[k] = append(groups[k], v)
			return groups
		},
		func(a, b map[K][]T) map[K][]T {
			for k, vs := range b {
				a[k] = append(a[k], vs...)
			}
			return a
		},
	)
}

// GroupingByWith groups elements by key and folds each group with
// downstream.
func GroupingByWith[T any, K comparable, A, R any](key func(T) K, downstream Collector[T, A, R]) Collector[T, map[K]A, map[K]R] {
	return New(
		func() map[K]A { return make(map[K]A) },
		func(groups map[K]A, v T) map[K]A {
			k := key(v)
			acc, ok := groups[k]
			if !ok {
				acc = downstream.Supplier()
			}
			groups[k] = downstream.Accumulator(acc, v)
			return groups
		},
		func(a, b map[K]A) map[K]A {
			for k, right := range b {
				if left, ok := a[k]; ok {
					a[k] = downstream.Combiner(left, right)
				} else {
					a[k] = right
				}
			}
			return a
		},
		func(groups map[K]A) map[K]R {
			return lo.MapValues(groups, func(acc A, _ K) R { return downstream.Finish(acc) })
		},
	)
}

// PartitioningBy splits elements on pred. The result always holds both
// the true and the false key, possibly with empty slices.
func PartitioningBy[T any](pred func(T) bool) Collector[T, map[bool][]T, map[bool][]T] {
	return Of(
		func() map[bool][]T { return map[bool][]T{true: {}, false: {}} },
		func(parts map[bool][]T, v T) map[bool][]T {
			k := pred(v)
			parts[k] = append(parts[k], v)
			return parts
		},
		func(a, b map[bool][]T) map[bool][]T {
			a[true] = append(a[true], b[true]...)
			a[false] = append(a[false], b[false]...)
			return a
		},
	)
}
