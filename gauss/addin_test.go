package gauss

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
)

// randomColumns returns n distinct sorted columns from [lo, hi).
func randomColumns(rng *rand.Rand, n, lo, hi int) []int {
	set := map[int]bool{}
	for len(set) < n && len(set) < hi-lo {
		set[lo+rng.Intn(hi-lo)] = true
	}
	cols := make([]int, 0, len(set))
	for c := range set {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

func randomSparse(rng *rand.Rand, f field.Field, cols []int) matrix.SparseVector {
	v := matrix.SparseVector{Index: cols}
	for range cols {
		v.Value = append(v.Value, f.FromUint64(uint64(rng.Intn(100)+1)))
	}
	return v
}

func TestAddScaledMatchesFullAdd(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	e := newEliminator(t, gf101)

	for trial := 0; trial < 300; trial++ {
		v := randomSparse(rng, gf101, randomColumns(rng, rng.Intn(20)+1, 0, 100))
		idx := rng.Intn(v.Len())
		w := randomSparse(rng, gf101, randomColumns(rng, rng.Intn(20), v.Index[idx], 100))
		if trial%3 == 0 && w.Len() > 0 {
			// force cancellation at the offset
			w.Index[0] = v.Index[idx]
			w.Value[0] = v.Value[idx]
		}
		a := gf101.FromUint64(uint64(rng.Intn(101)))
		if trial%3 == 0 {
			a = gf101.One().Neg()
		}

		want := v.Axpy(a, &w)
		got := v.Clone()
		e.addScaled(&got, a, &w, idx)
		require.True(t, want.Equal(&got), "trial %d", trial)
		require.NoError(t, got.Validate(100))
	}
}

func TestAddBitsMatchesFullAdd(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := newEliminator(t, gf2)

	for trial := 0; trial < 300; trial++ {
		v := matrix.SparseBitVector(randomColumns(rng, rng.Intn(20)+1, 0, 100))
		idx := rng.Intn(len(v))
		w := matrix.SparseBitVector(randomColumns(rng, rng.Intn(20), v[idx], 100))

		want := v.Add(w)
		got := append(matrix.SparseBitVector(nil), v...)
		e.addBits(&got, w, idx)
		require.Equal(t, want, got, "trial %d", trial)
	}
}

func randomHybrid(rng *rand.Rand, lo, hi int) matrix.HybridVector {
	var v matrix.HybridVector
	for _, b := range randomColumns(rng, rng.Intn(hi-lo+1), lo, hi) {
		if x := rng.Uint64() & rng.Uint64(); x != 0 {
			v = append(v, matrix.HybridBlock{Index: b, Word: x})
		}
	}
	return v
}

func TestAddHybridMatchesFullAdd(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	e := newEliminator(t, gf2)

	for trial := 0; trial < 300; trial++ {
		v := randomHybrid(rng, 0, 12)
		if len(v) == 0 {
			continue
		}
		idx := rng.Intn(len(v))
		w := randomHybrid(rng, v[idx].Index, 12)
		if trial%4 == 0 {
			w = append(matrix.HybridVector{v[idx]}, w...)
			if len(w) > 1 && w[1].Index == v[idx].Index {
				w = append(w[:1], w[2:]...)
			}
		}

		want := v.Add(w)
		got := append(matrix.HybridVector(nil), v...)
		e.addHybrid(&got, w, idx)
		require.Equal(t, want, got, "trial %d", trial)
		require.NoError(t, got.Validate(12*matrix.WordBits))
	}
}

func TestAddHybridKnownVector(t *testing.T) {
	e := newEliminator(t, gf2)
	v := matrix.HybridVector{{Index: 0, Word: 0xffff0000ffff0000}, {Index: 1, Word: 0xffff0000ffff0000}}
	w := matrix.HybridVector{{Index: 1, Word: 0x00ffff0000ffff00}}
	e.addHybrid(&v, w, 1)
	require.Equal(t, matrix.HybridVector{{Index: 0, Word: 0xffff0000ffff0000}, {Index: 1, Word: 0xff00ff00ff00ff00}}, v)
}

func TestAddLeavesNeighbourRows(t *testing.T) {
	e := newEliminator(t, gf2)

	buf := []int{0, 1, 1, 2, 3}
	v, next := matrix.SparseBitVector(buf[0:2]), buf[2:5]
	e.addBits(&v, matrix.SparseBitVector{1, 4, 5}, 1)
	require.Equal(t, matrix.SparseBitVector{0, 4, 5}, v)
	require.Equal(t, []int{1, 2, 3}, next)

	blocks := matrix.HybridVector{{Index: 0, Word: 1}, {Index: 1, Word: 1}, {Index: 2, Word: 1}}
	h, hnext := blocks[0:1], blocks[1:3]
	e.addHybrid(&h, matrix.HybridVector{{Index: 0, Word: 2}, {Index: 3, Word: 1}}, 0)
	require.Equal(t, matrix.HybridVector{{Index: 0, Word: 3}, {Index: 3, Word: 1}}, h)
	require.Equal(t, matrix.HybridVector{{Index: 1, Word: 1}, {Index: 2, Word: 1}}, hnext)

	g := newEliminator(t, gf101)
	idx := []int{0, 3, 1, 2}
	vals := []field.Element{gf101.One(), gf101.One(), gf101.One(), gf101.One()}
	s := matrix.SparseVector{Index: idx[0:1], Value: vals[0:1]}
	w := matrix.SparseVector{Index: []int{0, 5}, Value: []field.Element{gf101.One(), gf101.One()}}
	g.addScaled(&s, gf101.One(), &w, 0)
	require.Equal(t, []int{0, 5}, s.Index)
	require.Equal(t, []int{3, 1, 2}, idx[1:])
	for _, x := range vals[1:] {
		require.True(t, x.IsOne())
	}
}
