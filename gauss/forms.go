package gauss

import (
	"fmt"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
)

// rowForm is one storage format as seen by the sequential eliminator.
// Every format supplies its own pivot choice, elimination below a pivot and
// back-substitution; the forward loop in standard.go is shared.
type rowForm interface {
	matrix.Matrix
	matrix.RowSwapper

	// leading returns the first nonzero column of row i, or -1.
	leading(i int) int

	// pivot picks a pivot row at or below k and returns it with its column,
	// or -1 when rows k.. are all zero. col is the previous pivot column.
	pivot(k, col int) (int, int)

	// value returns entry (i, col), or nil for binary formats.
	value(i, col int) field.Element

	// eliminateBelow clears column col in every row below k that leads
	// with col, mirroring each row operation on l.
	eliminateBelow(k, col int, negInv field.Element, l transform)

	// reduce back-substitutes the pivot rows [start, end) into every row
	// above them and normalizes the pivot rows.
	reduce(l transform, end, start int)
}

// transform is the elimination matrix kept congruent with the row
// operations. Its column 0 corresponds to the start row.
type transform interface {
	SetIdentity(start int)
	SwapRowPrefix(i, j, n int)
	AxpyRow(dst int, a field.Element, src int)
	ScaleRow(i int, a field.Element)
}

// bitTransform adapts a BitMatrix, where every multiplier is one.
type bitTransform struct {
	*matrix.BitMatrix
}

func (b bitTransform) AxpyRow(dst int, _ field.Element, src int) { b.XorRow(dst, src) }
func (bitTransform) ScaleRow(int, field.Element) {}

// noTransform is used when the caller does not want L.
type noTransform struct{}

func (noTransform) SetIdentity(int) {}
func (noTransform) SwapRowPrefix(int, int, int) {}
func (noTransform) AxpyRow(int, field.Element, int) {}
func (noTransform) ScaleRow(int, field.Element) {}

type denseForm struct {
	*matrix.Dense
}

type bitForm struct {
	*matrix.BitMatrix
}

type sparseForm struct {
	*matrix.SparseMatrix
	e *Eliminator
}

type sparseBitForm struct {
	*matrix.SparseBitMatrix
	e *Eliminator
}

type hybridForm struct {
	*matrix.HybridMatrix
	e *Eliminator
}

func isBinary(A matrix.Matrix) bool {
	switch A.(type) {
	case *matrix.BitMatrix, *matrix.SparseBitMatrix, *matrix.HybridMatrix:
		return true
	}
	return false
}

func (e *Eliminator) sameField(f field.Field) bool {
	return f.Order().Cmp(e.f.Order()) == 0 && f.Characteristic().Cmp(e.f.Characteristic()) == 0
}

// formFor selects the implementation for A's storage format.
func (e *Eliminator) formFor(A matrix.Matrix) (rowForm, error) {
	if isBinary(A) && !e.gf2 {
		return nil, fmt.Errorf("%T needs GF(2), eliminator field has order %s: %w", A, e.f.Order(), ErrFieldMismatch)
	}
	switch a := A.(type) {
	case *matrix.Dense:
		if !e.sameField(a.Field()) {
			return nil, ErrFieldMismatch
		}
		return denseForm{a}, nil
	case *matrix.SparseMatrix:
		if !e.sameField(a.Field()) {
			return nil, ErrFieldMismatch
		}
		return sparseForm{a, e}, nil
	case *matrix.BitMatrix:
		return bitForm{a}, nil
	case *matrix.SparseBitMatrix:
		return sparseBitForm{a, e}, nil
	case *matrix.HybridMatrix:
		return hybridForm{a, e}, nil
	}
	return nil, fmt.Errorf("%T: %w", A, ErrUnsupportedMatrix)
}

// transformFor checks L against A and adapts it. A nil L disables tracking.
func (e *Eliminator) transformFor(A, L matrix.Matrix, start int) (transform, error) {
	if L == nil {
		return noTransform{}, nil
	}
	if L.Rows() != A.Rows() || L.Cols() != A.Rows()-start {
		return nil, fmt.Errorf("elimination matrix is %dx%d, want %dx%d: %w",
			L.Rows(), L.Cols(), A.Rows(), A.Rows()-start, ErrDimensionMismatch)
	}
	switch l := L.(type) {
	case *matrix.Dense:
		if isBinary(A) {
			return nil, fmt.Errorf("dense elimination matrix for %T: %w", A, ErrUnsupportedMatrix)
		}
		if !e.sameField(l.Field()) {
			return nil, ErrFieldMismatch
		}
		return l, nil
	case *matrix.BitMatrix:
		if !isBinary(A) {
			return nil, fmt.Errorf("bit elimination matrix for %T: %w", A, ErrUnsupportedMatrix)
		}
		return bitTransform{l}, nil
	}
	return nil, fmt.Errorf("elimination matrix %T: %w", L, ErrUnsupportedMatrix)
}

func (d denseForm) leading(i int) int { return d.LeadingEntry(i) }
func (b bitForm) leading(i int) int { return b.LeadingEntry(i) }
func (s sparseForm) leading(i int) int { return s.Row(i).Leading() }
func (s sparseBitForm) leading(i int) int { return s.Row(i).Leading() }
func (h hybridForm) leading(i int) int { return h.Row(i).Leading() }

func (d denseForm) value(i, col int) field.Element { return d.At(i, col) }
func (s sparseForm) value(i, _ int) field.Element { return s.Row(i).Value[0] }
func (bitForm) value(int, int) field.Element { return nil }
func (sparseBitForm) value(int, int) field.Element { return nil }
func (hybridForm) value(int, int) field.Element { return nil }
