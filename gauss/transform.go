package gauss

import (
	"fmt"
	"time"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
)

// block is a dense format the recursive transform can split into views.
type block[M any] interface {
	matrix.Matrix
	matrix.RowSwapper
	View(i, j, r, c int) M
	IsZero() bool
	CopyFrom(src M)
	AddIn(o M)
	Mul(a, b M)
}

// recursion carries what stays fixed across one DenseRowEchelonForm call:
// the scratch blocks T (rows x cols) and Up (rows x rows), allocated once and
// handed down as views, and the base case eliminator.
type recursion[M block[M]] struct {
	cutoff int
	T, Up  M
	st     *stats

	// base runs the sequential eliminator on R with elimination matrix L
	// from row start, fully reduced.
	base func(R, L M, p *matrix.Permutation, start int) (int, field.Element)
}

// DenseRowEchelonForm computes the reduced row-echelon form R of A together
// with U and P such that R = U * P * A. A and R must have the same shape and
// may be the same matrix; U must be rows x rows and share no storage with
// either. Supported are (*matrix.Dense)x3 and (*matrix.BitMatrix)x3.
//
// It returns the rank and the product of the pivots. The result does not
// depend on the cutoff.
func (e *Eliminator) DenseRowEchelonForm(R, U matrix.Matrix, P *matrix.Permutation, A matrix.Matrix) (int, field.Element, error) {
	if P == nil {
		return 0, nil, ErrNilPermutation
	}
	n, m := A.Rows(), A.Cols()
	if R.Rows() != n || R.Cols() != m {
		return 0, nil, fmt.Errorf("result is %dx%d, input %dx%d: %w", R.Rows(), R.Cols(), n, m, ErrDimensionMismatch)
	}
	if U.Rows() != n || U.Cols() != n {
		return 0, nil, fmt.Errorf("transform is %dx%d, want %dx%d: %w", U.Rows(), U.Cols(), n, n, ErrDimensionMismatch)
	}

	*P = (*P)[:0]
	st := e.newStats("dense")
	defer st.report()

	switch a := A.(type) {
	case *matrix.Dense:
		r, ok1 := R.(*matrix.Dense)
		u, ok2 := U.(*matrix.Dense)
		if !ok1 || !ok2 {
			return 0, nil, fmt.Errorf("%T, %T for %T: %w", R, U, A, ErrUnsupportedMatrix)
		}
		if !e.sameField(a.Field()) || !e.sameField(r.Field()) || !e.sameField(u.Field()) {
			return 0, nil, ErrFieldMismatch
		}
		g := &recursion[*matrix.Dense]{
			cutoff: e.cutoff,
			T:      matrix.NewDense(e.f, n, m),
			Up:     matrix.NewDense(e.f, n, n),
			st:     st,
			base: func(R, L *matrix.Dense, p *matrix.Permutation, start int) (int, field.Element) {
				return e.standard(denseForm{R}, L, p, true, start, st)
			},
		}
		u.SetIdentity(0)
		rank, _, det := g.transform(a, 0, e.f.One(), u, P, r)
		return rank, det, nil

	case *matrix.BitMatrix:
		r, ok1 := R.(*matrix.BitMatrix)
		u, ok2 := U.(*matrix.BitMatrix)
		if !ok1 || !ok2 {
			return 0, nil, fmt.Errorf("%T, %T for %T: %w", R, U, A, ErrUnsupportedMatrix)
		}
		if !e.gf2 {
			return 0, nil, ErrFieldMismatch
		}
		g := &recursion[*matrix.BitMatrix]{
			cutoff: e.cutoff,
			T:      matrix.NewBitMatrix(n, m),
			Up:     matrix.NewBitMatrix(n, n),
			st:     st,
			base: func(R, L *matrix.BitMatrix, p *matrix.Permutation, start int) (int, field.Element) {
				return e.standard(bitForm{R}, bitTransform{L}, p, true, start, st)
			},
		}
		u.SetIdentity(0)
		rank, _, det := g.transform(a, 0, e.f.One(), u, P, r)
		return rank, det, nil
	}

	return 0, nil, fmt.Errorf("%T: %w", A, ErrUnsupportedMatrix)
}

func roundUp(n, m int) int {
	return m * ((n + m - 1) / m)
}

// transform eliminates rows k.. of A into R, accumulating into U and P.
// P is empty on entry. It returns the rank found below k, the lowest row
// index h touched by a swap (rows-k when A is zero from k), and d0 times
// the pivots found.
func (g *recursion[M]) transform(A M, k int, d0 field.Element, U M, P *matrix.Permutation, R M) (int, int, field.Element) {
	n, m := A.Rows(), A.Cols()

	if A.View(k, 0, n-k, m).IsZero() {
		R.CopyFrom(A)
		return 0, n - k, d0
	}

	if m <= g.cutoff {
		R.CopyFrom(A)
		var p matrix.Permutation
		r, det := g.base(R, U.View(0, k, n, n-k), &p, k)
		h := k
		for i, t := range p {
			if i == 0 || t.J < h {
				h = t.J
			}
		}
		*P = append(*P, p...)
		return r, h, d0.Mul(det)
	}

	m1 := roundUp(m/2, g.cutoff)
	m2 := m - m1

	// Left half.
	r1, h1, d1 := g.transform(A.View(0, 0, n, m1), k, d0, U, P, R.View(0, 0, n, m1))

	// Bring the right half up to date with the left half's row operations:
	// R2 = U2 * P1*A2, plus the rows of P1*A2 outside the new pivot block.
	u2 := U.View(0, k, n, r1)
	pa := g.T.View(0, 0, n, m2)
	pa.CopyFrom(A.View(0, m1, n, m2))
	P.Apply(pa)

	r2v := R.View(0, m1, n, m2)
	t := time.Now()
	r2v.Mul(u2, g.T.View(k, 0, r1, m2))
	g.st.since(phaseMultiply, t)
	R.View(0, m1, k, m2).AddIn(g.T.View(0, 0, k, m2))
	R.View(k+r1, m1, n-k-r1, m2).AddIn(g.T.View(k+r1, 0, n-k-r1, m2))

	// Right half, below the pivots already found.
	var p2 matrix.Permutation
	r2, h2, d := g.transform(r2v, k+r1, d1, U, &p2, r2v)

	// Fold the right half's operations into the left half's columns of U:
	// U2 = U3 * P2*U2[k+r1 : k+r1+r2] + the rows of P2*U2 outside that block.
	low := k + r1 + r2
	p2.Apply(u2)
	x := g.Up.View(0, 0, n, r1)
	t = time.Now()
	x.Mul(U.View(0, k+r1, n, r2), U.View(k+r1, k, r2, r1))
	g.st.since(phaseMultiply, t)
	x.View(0, 0, k+r1, r1).AddIn(U.View(0, k, k+r1, r1))
	x.View(low, 0, n-low, r1).AddIn(U.View(low, k, n-low, r1))
	u2.CopyFrom(x)

	*P = append(*P, p2...)
	return r1 + r2, min(h1, h2), d
}
