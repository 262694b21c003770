package collect

import "github.com/lguimbarda/min-seq/seq/core"

// Statistics summarizes a numeric sequence. Min and Max are zero when
// Count is zero.
type Statistics[N core.Number] struct {
	Count int64
	Sum   N
	Min   N
	Max   N
}

// Average returns Sum / Count, or 0 for an empty summary.
func (s Statistics[N]) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// Accept adds one value to the summary.
func (s Statistics[N]) Accept(v N) Statistics[N] {
	if s.Count == 0 {
		s.Min, s.Max = v, v
	} else {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Count++
	s.Sum += v
	return s
}

// Combine merges two summaries of disjoint inputs.
func (s Statistics[N]) Combine(o Statistics[N]) Statistics[N] {
	switch {
	case o.Count == 0:
		return s
	case s.Count == 0:
		return o
	}
	return Statistics[N]{
		Count: s.Count + o.Count,
		Sum:   s.Sum + o.Sum,
		Min:   min(s.Min, o.Min),
		Max:   max(s.Max, o.Max),
	}
}

// Mean is the running accumulation of Averaging.
type Mean struct {
	Sum   float64
	Count int64
}

// Summing adds up the values extracted from each element.
func Summing[T any, N core.Number](extract func(T) N) Collector[T, N, N] {
	return Of(
		func() N { return 0 },
		func(sum N, v T) N { return sum + extract(v) },
		func(a, b N) N { return a + b },
	)
}

// Averaging computes the arithmetic mean of the values extracted from each
// element; 0 for an empty input.
func Averaging[T any, N core.Number](extract func(T) N) Collector[T, Mean, float64] {
	return New(
		func() Mean { return Mean{} },
		func(m Mean, v T) Mean {
			return Mean{Sum: m.Sum + float64(extract(v)), Count: m.Count + 1}
		},
		func(a, b Mean) Mean { return Mean{Sum: a.Sum + b.Sum, Count: a.Count + b.Count} },
		func(m Mean) float64 {
			if m.Count == 0 {
				return 0
			}
			return m.Sum / float64(m.Count)
		},
	)
}

// Summarizing computes count, sum, min, max and average in one pass.
func Summarizing[T any, N core.Number](extract func(T) N) Collector[T, Statistics[N], Statistics[N]] {
	return Of(
		func() Statistics[N] { return Statistics[N]{} },
		func(s Statistics[N], v T) Statistics[N] { return s.Accept(extract(v)) },
		Statistics[N].Combine,
	)
}
