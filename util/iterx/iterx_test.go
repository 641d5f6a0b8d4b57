package iterx_test

import (
	"persist/util/iterx"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumerate(t *testing.T) {
	in := slices.Values([]string{"a", "b", "c"})

	var (
		idx  []int
		vals []string
	)
	for i, v := range iterx.Enumerate(in) {
		idx = append(idx, i)
		vals = append(vals, v)
	}

	require.Equal(t, []int{0, 1, 2}, idx)
	require.Equal(t, []string{"a", "b", "c"}, vals)
}

func TestLimit(t *testing.T) {
	in := slices.Values([]int{1, 2, 3, 4, 5})

	got := slices.Collect(iterx.Limit(in, 3))
	require.Equal(t, []int{1, 2, 3}, got)

	require.Empty(t, slices.Collect(iterx.Limit(in, 0)))
}
