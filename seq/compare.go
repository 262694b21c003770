package seq

import "cmp"

// NaturalOrder compares elements in ascending natural order.
func NaturalOrder[T cmp.Ordered]() func(a, b T) int {
	return cmp.Compare[T]
}

// ReverseOrder compares elements in descending natural order.
func ReverseOrder[T cmp.Ordered]() func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(b, a) }
}

// Reversed inverts compare.
func Reversed[T any](compare func(a, b T) int) func(a, b T) int {
	return func(a, b T) int { return compare(b, a) }
}

// Comparing orders elements by the natural order of a key.
//
//	seq.FromSlice(langs).SortedFunc(seq.Comparing(func(s string) int { return len(s) }))
func Comparing[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ThenComparing orders by first, breaking ties with next.
func ThenComparing[T any](first, next func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		if c := first(a, b); c != 0 {
			return c
		}
		return next(a, b)
	}
}
