package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermutation(t *testing.T) {
	p := Permutation{{0, 2}, {1, 1}, {1, 2}}
	require.Equal(t, -1, Permutation{{0, 2}}.Sign())
	require.Equal(t, 1, p.Sign(), "trivial swaps do not count")
	require.Equal(t, []int{2, 0, 1}, p.Order(3))

	m := NewDenseFromUint64(gf101, [][]uint64{{0}, {1}, {2}})
	m.PermuteRows(p)
	require.True(t, m.Equal(NewDenseFromUint64(gf101, [][]uint64{{2}, {0}, {1}})))

	require.True(t, p.Equal(Permutation{{0, 2}, {1, 1}, {1, 2}}))
	require.False(t, p.Equal(Permutation{{0, 2}}))
	require.Equal(t, "[(0 2) (1 1) (1 2)]", p.String())
}
