package matrix

import (
	"fmt"
	"slices"

	"github.com/ethp2p/echelon/field"
)

// SparseVector is a sparse row over an arbitrary field: strictly increasing
// column indices and their nonzero values, held in parallel slices.
type SparseVector struct {
	Index []int
	Value []field.Element
}

// Len is the number of stored entries.
func (v *SparseVector) Len() int { return len(v.Index) }

// Leading returns the first stored column, or -1 for the zero vector.
func (v *SparseVector) Leading() int {
	if len(v.Index) == 0 {
		return -1
	}
	return v.Index[0]
}

// Validate checks ordering and that no zero is stored.
func (v *SparseVector) Validate(cols int) error {
	if len(v.Index) != len(v.Value) {
		return fmt.Errorf("%d indices, %d values: %w", len(v.Index), len(v.Value), ErrBadShape)
	}
	for t, c := range v.Index {
		if c < 0 || c >= cols {
			return fmt.Errorf("column %d of %d: %w", c, cols, ErrOutOfRange)
		}
		if t > 0 && c <= v.Index[t-1] {
			return fmt.Errorf("column %d after %d: %w", c, v.Index[t-1], ErrBadShape)
		}
		if v.Value[t] == nil || v.Value[t].IsZero() {
			return fmt.Errorf("zero stored at column %d: %w", c, ErrBadShape)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (v *SparseVector) Clone() SparseVector {
	return SparseVector{
		Index: append([]int(nil), v.Index...),
		Value: append([]field.Element(nil), v.Value...),
	}
}

// Axpy returns v + a*w computed by a full merge. It does not modify v.
func (v *SparseVector) Axpy(a field.Element, w *SparseVector) SparseVector {
	var out SparseVector
	i, j := 0, 0
	for i < len(v.Index) || j < len(w.Index) {
		switch {
		case j == len(w.Index) || (i < len(v.Index) && v.Index[i] < w.Index[j]):
			out.Index = append(out.Index, v.Index[i])
			out.Value = append(out.Value, v.Value[i])
			i++
		case i == len(v.Index) || w.Index[j] < v.Index[i]:
			if x := a.Mul(w.Value[j]); !x.IsZero() {
				out.Index = append(out.Index, w.Index[j])
				out.Value = append(out.Value, x)
			}
			j++
		default:
			if x := v.Value[i].Add(a.Mul(w.Value[j])); !x.IsZero() {
				out.Index = append(out.Index, v.Index[i])
				out.Value = append(out.Value, x)
			}
			i++
			j++
		}
	}
	return out
}

// Equal compares stored entries.
func (v *SparseVector) Equal(w *SparseVector) bool {
	if len(v.Index) != len(w.Index) {
		return false
	}
	for t := range v.Index {
		if v.Index[t] != w.Index[t] || !v.Value[t].Equal(w.Value[t]) {
			return false
		}
	}
	return true
}

// SparseMatrix is a list of sparse-general rows over a fixed column domain.
type SparseMatrix struct {
	f    field.Field
	cols int
	rows []SparseVector
}

// NewSparseMatrix allocates rows zero rows.
func NewSparseMatrix(f field.Field, rows, cols int) *SparseMatrix {
	return &SparseMatrix{f: f, cols: cols, rows: make([]SparseVector, rows)}
}

func (m *SparseMatrix) Rows() int          { return len(m.rows) }
func (m *SparseMatrix) Cols() int          { return m.cols }
func (m *SparseMatrix) Field() field.Field { return m.f }

// Row returns row i for in-place use.
func (m *SparseMatrix) Row(i int) *SparseVector {
	return &m.rows[i]
}

// SetRow validates v and stores it as row i.
func (m *SparseMatrix) SetRow(i int, v SparseVector) error {
	if i < 0 || i >= len(m.rows) {
		return fmt.Errorf("row %d of %d: %w", i, len(m.rows), ErrOutOfRange)
	}
	if err := v.Validate(m.cols); err != nil {
		return fmt.Errorf("row %d: %w", i, err)
	}
	v.Index, v.Value = slices.Clip(v.Index), slices.Clip(v.Value)
	m.rows[i] = v
	return nil
}

// SwapRows exchanges rows i and j.
func (m *SparseMatrix) SwapRows(i, j int) {
	m.rows[i], m.rows[j] = m.rows[j], m.rows[i]
}

// Clone returns a deep copy.
func (m *SparseMatrix) Clone() *SparseMatrix {
	c := NewSparseMatrix(m.f, len(m.rows), m.cols)
	for i := range m.rows {
		c.rows[i] = m.rows[i].Clone()
	}
	return c
}

// NonZeros is the total number of stored entries.
func (m *SparseMatrix) NonZeros() int {
	n := 0
	for i := range m.rows {
		n += len(m.rows[i].Index)
	}
	return n
}
