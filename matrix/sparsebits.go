package matrix

import (
	"fmt"
	"slices"
)

// SparseBitVector is a sparse row over GF(2): the strictly increasing
// columns holding a one.
type SparseBitVector []int

// Leading returns the first set column, or -1.
func (v SparseBitVector) Leading() int {
	if len(v) == 0 {
		return -1
	}
	return v[0]
}

// Validate checks ordering and range.
func (v SparseBitVector) Validate(cols int) error {
	for t, c := range v {
		if c < 0 || c >= cols {
			return fmt.Errorf("column %d of %d: %w", c, cols, ErrOutOfRange)
		}
		if t > 0 && c <= v[t-1] {
			return fmt.Errorf("column %d after %d: %w", c, v[t-1], ErrBadShape)
		}
	}
	return nil
}

// Add returns the symmetric difference of v and w. It does not modify v.
func (v SparseBitVector) Add(w SparseBitVector) SparseBitVector {
	out := make(SparseBitVector, 0, len(v)+len(w))
	i, j := 0, 0
	for i < len(v) || j < len(w) {
		switch {
		case j == len(w) || (i < len(v) && v[i] < w[j]):
			out = append(out, v[i])
			i++
		case i == len(v) || w[j] < v[i]:
			out = append(out, w[j])
			j++
		default:
			i++
			j++
		}
	}
	return out
}

// Equal compares stored columns.
func (v SparseBitVector) Equal(w SparseBitVector) bool {
	if len(v) != len(w) {
		return false
	}
	for t := range v {
		if v[t] != w[t] {
			return false
		}
	}
	return true
}

// SparseBitMatrix is a list of sparse-binary rows.
type SparseBitMatrix struct {
	cols int
	rows []SparseBitVector
}

// NewSparseBitMatrix allocates rows zero rows.
func NewSparseBitMatrix(rows, cols int) *SparseBitMatrix {
	return &SparseBitMatrix{cols: cols, rows: make([]SparseBitVector, rows)}
}

func (m *SparseBitMatrix) Rows() int { return len(m.rows) }
func (m *SparseBitMatrix) Cols() int { return m.cols }

// Row returns row i for in-place use.
func (m *SparseBitMatrix) Row(i int) *SparseBitVector {
	return &m.rows[i]
}

// SetRow validates v and stores it as row i.
func (m *SparseBitMatrix) SetRow(i int, v SparseBitVector) error {
	if i < 0 || i >= len(m.rows) {
		return fmt.Errorf("row %d of %d: %w", i, len(m.rows), ErrOutOfRange)
	}
	if err := v.Validate(m.cols); err != nil {
		return fmt.Errorf("row %d: %w", i, err)
	}
	m.rows[i] = slices.Clip(v)
	return nil
}

// SwapRows exchanges rows i and j.
func (m *SparseBitMatrix) SwapRows(i, j int) {
	m.rows[i], m.rows[j] = m.rows[j], m.rows[i]
}

// Clone returns a deep copy.
func (m *SparseBitMatrix) Clone() *SparseBitMatrix {
	c := NewSparseBitMatrix(len(m.rows), m.cols)
	for i, r := range m.rows {
		c.rows[i] = append(SparseBitVector(nil), r...)
	}
	return c
}
