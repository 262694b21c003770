package core_test

import (
	"context"
	"testing"

	"github.com/lguimbarda/min-seq/seq/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		size  int
		want  [][]int
	}{
		{"exact", ints(6), 3, [][]int{{1, 2, 3}, {4, 5, 6}}},
		{"remainder", ints(7), 3, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}},
		{"larger than input", ints(2), 5, [][]int{{1, 2}}},
		{"empty", nil, 2, [][]int{}},
	}

	for _, m := range modes {
		for _, tt := range tests {
			t.Run(m.name+"/"+tt.name, func(t *testing.T) {
				got, err := core.Batch(m.mode(core.Of(tt.input)), tt.size).ToList(context.Background())
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestBatchInvalidSize(t *testing.T) {
	_, err := core.Batch(core.Of(ints(3)), 0).ToList(context.Background())
	assert.ErrorContains(t, err, "batch: invalid size 0")
}

func TestBatchOnUnboundedWithLimit(t *testing.T) {
	n := 0
	naturals := core.Unbounded(func(ctx context.Context, yield func(int) bool) {
		for ctx.Err() == nil {
			n++
			if !yield(n) {
				return
			}
		}
	})

	got, err := core.Batch(naturals, 2).Limit(2).ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, got)
	assert.Equal(t, 4, n)
}

func TestTakeWhileDropWhile(t *testing.T) {
	small := func(n int) bool { return n < 4 }

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			ctx := context.Background()
			input := []int{1, 2, 3, 4, 1, 2}

			taken, err := m.mode(core.Of(input)).TakeWhile(small).ToList(ctx)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3}, taken)

			dropped, err := m.mode(core.Of(input)).DropWhile(small).ToList(ctx)
			require.NoError(t, err)
			assert.Equal(t, []int{4, 1, 2}, dropped)

			all, err := m.mode(core.Of(input)).DropWhile(func(int) bool { return true }).ToList(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestTakeWhileStopsPulling(t *testing.T) {
	pulled := 0
	s := core.Map(core.Of(ints(100)), func(n int) int {
		pulled++
		return n
	})

	got, err := s.TakeWhile(func(n int) bool { return n < 3 }).ToList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 3, pulled)
}

func TestTakeWhileBoundsInfiniteSource(t *testing.T) {
	naturals := func() *core.Sequence[int] {
		n := -1
		return core.Unbounded(func(ctx context.Context, yield func(int) bool) {
			for ctx.Err() == nil {
				n++
				if !yield(n) {
					return
				}
			}
		})
	}
	lt10 := func(n int) bool { return n < 10 }

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			got, err := m.mode(naturals()).TakeWhile(lt10).ToList(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
		})
	}
}
