package gauss

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
)

var (
	gf2   = field.NewGF2()
	gf7   = field.NewPrimeFieldUint64(7)
	gf101 = field.NewPrimeFieldUint64(101)
)

func newEliminator(t testing.TB, f field.Field, opts ...Option) *Eliminator {
	t.Helper()
	e, err := NewEliminator(f, opts...)
	require.NoError(t, err)
	return e
}

// randomDense fills a rows x cols matrix with roughly density nonzeros.
func randomDense(rng *rand.Rand, f field.Field, rows, cols int, density float64) *matrix.Dense {
	q := f.Order().Uint64()
	m := matrix.NewDense(f, rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if rng.Float64() < density {
				m.Set(i, j, f.FromUint64(uint64(rng.Int63n(int64(q-1)))+1))
			}
		}
	}
	return m
}

// lowRank returns a random rows x cols matrix of rank at most r.
func lowRank(rng *rand.Rand, f field.Field, rows, cols, r int) *matrix.Dense {
	a := randomDense(rng, f, rows, r, 0.8)
	b := randomDense(rng, f, r, cols, 0.8)
	m := matrix.NewDense(f, rows, cols)
	m.Mul(a, b)
	return m
}

func randomBits(rng *rand.Rand, rows, cols int, density float64) *matrix.BitMatrix {
	m := matrix.NewBitMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.SetBit(i, j, rng.Float64() < density)
		}
	}
	return m
}

// generalForms returns the same matrix in every general storage format.
func generalForms(d *matrix.Dense) map[string]matrix.Matrix {
	return map[string]matrix.Matrix{
		"dense":  d.Clone(),
		"sparse": matrix.SparseFromDense(d),
	}
}

// binaryForms returns the same matrix in every binary storage format.
func binaryForms(b *matrix.BitMatrix) map[string]matrix.Matrix {
	return map[string]matrix.Matrix{
		"dense-gf2":  matrix.DenseFromBitMatrix(gf2, b),
		"bits":       b.Clone(),
		"sparsebits": matrix.SparseBitsFromBitMatrix(b),
		"hybrid":     matrix.HybridFromBitMatrix(b),
	}
}

// newTransformFor allocates a zero elimination matrix suited to A.
func newTransformFor(f field.Field, A matrix.Matrix, start int) matrix.Matrix {
	n := A.Rows()
	switch A.(type) {
	case *matrix.BitMatrix, *matrix.SparseBitMatrix, *matrix.HybridMatrix:
		return matrix.NewBitMatrix(n, n-start)
	}
	return matrix.NewDense(f, n, n-start)
}

// rrefRef is a textbook Gauss-Jordan elimination.
func rrefRef(a *matrix.Dense) (*matrix.Dense, int) {
	m := a.Clone()
	rank := 0
	for col := 0; col < m.Cols() && rank < m.Rows(); col++ {
		pivot := -1
		for i := rank; i < m.Rows(); i++ {
			if !m.At(i, col).IsZero() {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		m.SwapRows(rank, pivot)
		m.ScaleRow(rank, m.At(rank, col).Inv())
		for i := 0; i < m.Rows(); i++ {
			if i != rank && !m.At(i, col).IsZero() {
				m.AxpyRow(i, m.At(i, col).Neg(), rank)
			}
		}
		rank++
	}
	return m, rank
}

// spanRank counts the span of up to 64-column GF(2) rows by brute force.
func spanRank(b *matrix.BitMatrix) int {
	seen := map[uint64]bool{}
	n := b.Rows()
	for mask := 0; mask < 1<<n; mask++ {
		var x uint64
		for i := 0; i < n; i++ {
			if mask>>i&1 == 1 {
				x ^= b.Word(i, 0)
			}
		}
		seen[x] = true
	}
	rank := 0
	for 1<<rank < len(seen) {
		rank++
	}
	return rank
}

// cofactorDet expands along the first row.
func cofactorDet(f field.Field, a *matrix.Dense) field.Element {
	n := a.Rows()
	if n == 0 {
		return f.One()
	}
	det := f.Zero()
	for j := 0; j < n; j++ {
		if a.At(0, j).IsZero() {
			continue
		}
		minor := matrix.NewDense(f, n-1, n-1)
		for i := 1; i < n; i++ {
			c := 0
			for k := 0; k < n; k++ {
				if k != j {
					minor.Set(i-1, c, a.At(i, k))
					c++
				}
			}
		}
		term := a.At(0, j).Mul(cofactorDet(f, minor))
		if j%2 == 1 {
			term = term.Neg()
		}
		det = det.Add(term)
	}
	return det
}

// requireTransform checks A_out = F * P * A_in where F is L placed at column
// start of an n x n matrix with ones on the diagonal above start.
func requireTransform(t *testing.T, f field.Field, in *matrix.Dense, out, L matrix.Matrix, p matrix.Permutation, start int) {
	t.Helper()
	n := in.Rows()
	full := matrix.NewDense(f, n, n)
	for i := 0; i < start; i++ {
		full.Set(i, i, f.One())
	}
	full.View(0, start, n, n-start).CopyFrom(matrix.ToDense(f, L))

	pa := in.Clone()
	pa.PermuteRows(p)
	got := matrix.NewDense(f, n, in.Cols())
	got.Mul(full, pa)
	require.True(t, got.Equal(matrix.ToDense(f, out)), "L*P*A differs\nwant\n%sgot\n%s", matrix.ToDense(f, out), got)
}
