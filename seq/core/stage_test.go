package core_test

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"strings"
	"testing"

	"github.com/lguimbarda/min-seq/seq/core"
	"github.com/lguimbarda/min-seq/seq/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modes runs a test body once sequentially and once in parallel on a
// small pool that splits every input into several chunks.
var modes = []struct {
	name string
	mode func(*core.Sequence[int]) *core.Sequence[int]
}{
	{"sequential", func(s *core.Sequence[int]) *core.Sequence[int] { return s }},
	{"parallel", func(s *core.Sequence[int]) *core.Sequence[int] {
		return s.ParallelOn(parallel.NewExecutor(parallel.WithWorkers(3), parallel.WithSplitFactor(2)))
	}},
}

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestStages(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		build func(*core.Sequence[int]) *core.Sequence[int]
		want  []int
	}{
		{
			name:  "filter",
			input: ints(10),
			build: func(s *core.Sequence[int]) *core.Sequence[int] {
				return s.Filter(func(n int) bool { return n%2 == 0 })
			},
			want: []int{2, 4, 6, 8, 10},
		},
		{
			name:  "map",
			input: []int{1, 2, 3},
			build: func(s *core.Sequence[int]) *core.Sequence[int] {
				return core.Map(s, func(n int) int { return n * n })
			},
			want: []int{1, 4, 9},
		},
		{
			name:  "flat map",
			input: []int{1, 2, 3},
			build: func(s *core.Sequence[int]) *core.Sequence[int] {
				return core.FlatMapSlice(s, func(n int) []int { return slices.Repeat([]int{n}, n) })
			},
			want: []int{1, 2, 2, 3, 3, 3},
		},
		{
			name:  "limit",
			input: ints(10),
			build: func(s *core.Sequence[int]) *core.Sequence[int] { return s.Limit(3) },
			want:  []int{1, 2, 3},
		},
		{
			name:  "limit beyond length",
			input: ints(3),
			build: func(s *core.Sequence[int]) *core.Sequence[int] { return s.Limit(30) },
			want:  []int{1, 2, 3},
		},
		{
			name:  "limit zero",
			input: ints(3),
			build: func(s *core.Sequence[int]) *core.Sequence[int] { return s.Limit(0) },
			want:  []int{},
		},
		{
			name:  "skip",
			input: ints(5),
			build: func(s *core.Sequence[int]) *core.Sequence[int] { return s.Skip(2) },
			want:  []int{3, 4, 5},
		},
		{
			name:  "skip everything",
			input: ints(5),
			build: func(s *core.Sequence[int]) *core.Sequence[int] { return s.Skip(9) },
			want:  []int{},
		},
		{
			name:  "sorted",
			input: []int{14, 11, 20, 39, 23},
			build: core.Sorted[int],
			want:  []int{11, 14, 20, 23, 39},
		},
		{
			name:  "sorted descending",
			input: []int{14, 11, 20, 39, 23},
			build: func(s *core.Sequence[int]) *core.Sequence[int] {
				return s.SortedFunc(func(a, b int) int { return cmp.Compare(b, a) })
			},
			want: []int{39, 23, 20, 14, 11},
		},
		{
			name:  "distinct keeps first occurrence",
			input: []int{3, 1, 3, 2, 1, 3},
			build: core.Distinct[int],
			want:  []int{3, 1, 2},
		},
		{
			name:  "distinct by key",
			input: []int{10, 21, 30, 41, 52},
			build: func(s *core.Sequence[int]) *core.Sequence[int] {
				return core.DistinctBy(s, func(n int) int { return n % 2 })
			},
			want: []int{10, 21},
		},
		{
			name:  "skip then limit",
			input: ints(10),
			build: func(s *core.Sequence[int]) *core.Sequence[int] { return s.Skip(3).Limit(4) },
			want:  []int{4, 5, 6, 7},
		},
	}

	for _, m := range modes {
		for _, tt := range tests {
			t.Run(m.name+"/"+tt.name, func(t *testing.T) {
				got, err := tt.build(m.mode(core.Of(tt.input))).ToList(context.Background())
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestSortedFuncIsStable(t *testing.T) {
	langs := []string{"Java", "Scala", "Groovy", "Python", "Go", "Swift"}
	byLen := func(a, b string) int { return cmp.Compare(len(a), len(b)) }

	got, err := core.Of(langs).SortedFunc(byLen).ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Java", "Scala", "Swift", "Groovy", "Python"}, got)

	got, err = core.Of(langs).
		SortedFunc(func(a, b string) int { return byLen(b, a) }).
		ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Groovy", "Python", "Scala", "Swift", "Java", "Go"}, got)
}

func TestFlatMapIterators(t *testing.T) {
	nested := [][]string{{"one", "two"}, {"three", "four"}}
	got, err := core.FlatMap(core.Of(nested), func(xs []string) iter.Seq[string] {
		return slices.Values(xs)
	}).ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four"}, got)
}

func TestPeekObservesWithoutChanging(t *testing.T) {
	var seen []int
	got, err := core.Of([]int{1, 3, 5}).
		Peek(func(n int) { seen = append(seen, n) }).
		ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, got)
	assert.Equal(t, got, seen)
}

func TestLimitStopsGenerating(t *testing.T) {
	calls := 0
	gen := core.Unbounded(func(ctx context.Context, yield func(string) bool) {
		for {
			calls++
			if !yield("gen") {
				return
			}
		}
	})

	got, err := gen.Limit(5).ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gen", "gen", "gen", "gen", "gen"}, got)
	assert.Equal(t, 5, calls)
}

func TestLimitZeroPullsNothing(t *testing.T) {
	pulled := false
	gen := core.Unbounded(func(ctx context.Context, yield func(int) bool) {
		pulled = true
		yield(1)
	})
	n, err := gen.Limit(0).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, pulled)
}

func TestLimitMakesUnboundedParallelizable(t *testing.T) {
	next := 0
	counter := core.Unbounded(func(ctx context.Context, yield func(int) bool) {
		for {
			next++
			if !yield(next) {
				return
			}
		}
	})

	got, err := core.Map(counter.Limit(20).Parallel(), func(n int) int { return n * 2 }).
		ToList(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.Equal(t, 2, got[0])
	assert.Equal(t, 40, got[19])
}

func TestSortingUnboundedFails(t *testing.T) {
	gen := core.Unbounded(func(ctx context.Context, yield func(int) bool) {
		for i := 0; yield(i); i++ {
		}
	})

	_, err := core.Sorted(gen).Limit(3).ToList(context.Background())
	assert.ErrorIs(t, err, core.ErrUnboundedEvaluation)
}

func TestStagesDoNotMutateUpstream(t *testing.T) {
	base := core.Of([]int{1, 2, 3})
	par := base.Parallel()

	assert.False(t, base.IsParallel())
	assert.True(t, par.IsParallel())
	assert.False(t, par.Sequential().IsParallel())
	assert.True(t, par.Filter(func(int) bool { return true }).IsParallel())
}

func TestLaws(t *testing.T) {
	ctx := context.Background()
	input := []int{5, 3, 9, 1, 3, 7, 2}
	even := func(n int) bool { return n%2 == 0 }
	small := func(n int) bool { return n < 6 }
	double := func(n int) int { return n * 2 }
	inc := func(n int) int { return n + 1 }

	t.Run("filter fusion", func(t *testing.T) {
		a, err := core.Of(input).Filter(small).Filter(even).ToList(ctx)
		require.NoError(t, err)
		b, err := core.Of(input).Filter(func(n int) bool { return small(n) && even(n) }).ToList(ctx)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("map fusion", func(t *testing.T) {
		a, err := core.Map(core.Map(core.Of(input), double), inc).ToList(ctx)
		require.NoError(t, err)
		b, err := core.Map(core.Of(input), func(n int) int { return inc(double(n)) }).ToList(ctx)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("sorted is idempotent", func(t *testing.T) {
		a, err := core.Sorted(core.Sorted(core.Of(slices.Clone(input)))).ToList(ctx)
		require.NoError(t, err)
		b, err := core.Sorted(core.Of(slices.Clone(input))).ToList(ctx)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("concat length", func(t *testing.T) {
		n, err := core.Concat(core.Of(input), core.Of(input[:3])).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(len(input)+3), n)
	})

	t.Run("distinct has no duplicates", func(t *testing.T) {
		got, err := core.Distinct(core.Of(input)).ToList(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 3, 9, 1, 7, 2}, got)
	})
}

func TestConcat(t *testing.T) {
	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			a := core.Of([]int{1, 2, 3})
			b := core.Of([]int{4, 5, 6})
			got, err := m.mode(core.Concat(a, b)).ToList(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
		})
	}

	words := core.Concat(core.Of([]string{"one", "two", "three"}), core.Of([]string{"four", "five", "six"}))
	got, err := core.Map(words.Filter(func(s string) bool { return strings.Contains(s, "e") }), strings.ToUpper).
		ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ONE", "THREE", "FIVE"}, got)
}

func TestIndexed(t *testing.T) {
	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			got, err := m.mode(core.Indexed(7, func(i int) int { return i * i })).ToList(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36}, got)
		})
	}

	n, err := core.Indexed(-2, func(i int) int { return i }).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
