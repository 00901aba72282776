package gauss

import (
	"fmt"
	"time"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
)

// StandardRowEchelonForm brings A into row-echelon form in place, one pivot
// at a time, starting at startRow. Rows above startRow are never pivots.
//
// P is cleared and receives the row swaps performed. If L is not nil it is
// reset on rows startRow.. and kept so that A_out = L * P * A_in on those
// rows; L must be rows x (rows-startRow), a *matrix.Dense for general
// formats and a *matrix.BitMatrix for binary ones. When reduced is set the
// result is the reduced row-echelon form.
//
// It returns the rank found from startRow and the product of the pivots in
// the order they were fixed. Binary formats always report one. A zero
// matrix is not an error: rank 0, determinant one, empty permutation.
func (e *Eliminator) StandardRowEchelonForm(A, L matrix.Matrix, P *matrix.Permutation, reduced bool, startRow int) (int, field.Element, error) {
	if P == nil {
		return 0, nil, ErrNilPermutation
	}
	if startRow < 0 || startRow > A.Rows() {
		return 0, nil, fmt.Errorf("start row %d of %d: %w", startRow, A.Rows(), ErrInvalidStartRow)
	}
	form, err := e.formFor(A)
	if err != nil {
		return 0, nil, err
	}
	l, err := e.transformFor(A, L, startRow)
	if err != nil {
		return 0, nil, err
	}

	*P = (*P)[:0]
	st := e.newStats("standard")
	rank, det := e.standard(form, l, P, reduced, startRow, st)
	st.report()
	log.Debugf("standard: %dx%d from row %d, rank %d", A.Rows(), A.Cols(), startRow, rank)
	return rank, det, nil
}

// standard is the forward elimination loop shared by every format.
func (e *Eliminator) standard(a rowForm, l transform, p *matrix.Permutation, reduced bool, start int, st *stats) (int, field.Element) {
	l.SetIdentity(start)
	det := e.f.One()
	rank, col := 0, 0

	for k := start; k < a.Rows(); k++ {
		t := time.Now()
		piv, c := a.pivot(k, col)
		st.since(phasePivot, t)
		if piv < 0 {
			break
		}
		col = c

		if piv != k {
			t = time.Now()
			*p = append(*p, matrix.Transposition{I: k, J: piv})
			a.SwapRows(k, piv)
			l.SwapRowPrefix(k, piv, k-start)
			st.since(phasePermute, t)
		}

		var negInv field.Element
		if x := a.value(k, col); x != nil {
			det = det.Mul(x)
			negInv = x.Inv().Neg()
		}

		t = time.Now()
		a.eliminateBelow(k, col, negInv, l)
		st.since(phaseEliminate, t)

		rank++
		st.row()
	}

	if reduced {
		t := time.Now()
		a.reduce(l, start+rank, start)
		st.since(phaseReduce, t)
	}
	return rank, det
}

// Elimination below a pivot. Only rows whose leading column equals the
// pivot column are touched. In dense formats every row at or below k is
// zero left of col, so the test is a single entry.

func (d denseForm) eliminateBelow(k, col int, negInv field.Element, l transform) {
	for j := k + 1; j < d.Rows(); j++ {
		y := d.At(j, col)
		if y.IsZero() {
			continue
		}
		c := negInv.Mul(y)
		d.AxpyRow(j, c, k)
		l.AxpyRow(j, c, k)
	}
}

func (b bitForm) eliminateBelow(k, col int, _ field.Element, l transform) {
	for j := k + 1; j < b.Rows(); j++ {
		if b.Bit(j, col) {
			b.XorRow(j, k)
			l.AxpyRow(j, nil, k)
		}
	}
}

func (s sparseForm) eliminateBelow(k, col int, negInv field.Element, l transform) {
	pivot := s.Row(k)
	for j := k + 1; j < s.Rows(); j++ {
		row := s.Row(j)
		if row.Leading() != col {
			continue
		}
		c := negInv.Mul(row.Value[0])
		s.e.addScaled(row, c, pivot, 0)
		l.AxpyRow(j, c, k)
	}
}

func (s sparseBitForm) eliminateBelow(k, col int, _ field.Element, l transform) {
	pivot := *s.Row(k)
	for j := k + 1; j < s.Rows(); j++ {
		row := s.Row(j)
		if row.Leading() != col {
			continue
		}
		s.e.addBits(row, pivot, 0)
		l.AxpyRow(j, nil, k)
	}
}

func (h hybridForm) eliminateBelow(k, col int, _ field.Element, l transform) {
	pivot := *h.Row(k)
	for j := k + 1; j < h.Rows(); j++ {
		row := h.Row(j)
		if row.Leading() != col {
			continue
		}
		h.e.addHybrid(row, pivot, 0)
		l.AxpyRow(j, nil, k)
	}
}
