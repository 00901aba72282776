package matrix

import (
	"fmt"
	"math/bits"
	"slices"
)

// HybridBlock is one word of a hybrid row: columns [64*Index, 64*Index+64),
// column c at bit c%64.
type HybridBlock struct {
	Index int
	Word  uint64
}

// HybridVector is a sparse row over GF(2) stored as sorted, non-empty
// word-sized blocks.
type HybridVector []HybridBlock

// Leading returns the first set column, or -1.
func (v HybridVector) Leading() int {
	if len(v) == 0 {
		return -1
	}
	return v[0].Index*WordBits + bits.TrailingZeros64(v[0].Word)
}

// Has reports whether column c is set.
func (v HybridVector) Has(c int) bool {
	b := c / WordBits
	lo, hi := 0, len(v)
	for lo < hi {
		mid := (lo + hi) / 2
		if v[mid].Index < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(v) && v[lo].Index == b && v[lo].Word>>(uint(c)%WordBits)&1 == 1
}

// Weight is the number of set columns.
func (v HybridVector) Weight() int {
	n := 0
	for _, b := range v {
		n += bits.OnesCount64(b.Word)
	}
	return n
}

// Validate checks block ordering, that no word is empty, and range.
func (v HybridVector) Validate(cols int) error {
	for t, b := range v {
		if b.Word == 0 {
			return fmt.Errorf("empty block %d: %w", b.Index, ErrBadShape)
		}
		if t > 0 && b.Index <= v[t-1].Index {
			return fmt.Errorf("block %d after %d: %w", b.Index, v[t-1].Index, ErrBadShape)
		}
		last := b.Index*WordBits + WordBits - 1 - bits.LeadingZeros64(b.Word)
		if b.Index < 0 || last >= cols {
			return fmt.Errorf("column %d of %d: %w", last, cols, ErrOutOfRange)
		}
	}
	return nil
}

// Add returns v + w. It does not modify v.
func (v HybridVector) Add(w HybridVector) HybridVector {
	out := make(HybridVector, 0, len(v)+len(w))
	i, j := 0, 0
	for i < len(v) || j < len(w) {
		switch {
		case j == len(w) || (i < len(v) && v[i].Index < w[j].Index):
			out = append(out, v[i])
			i++
		case i == len(v) || w[j].Index < v[i].Index:
			out = append(out, w[j])
			j++
		default:
			if x := v[i].Word ^ w[j].Word; x != 0 {
				out = append(out, HybridBlock{Index: v[i].Index, Word: x})
			}
			i++
			j++
		}
	}
	return out
}

// Equal compares stored blocks.
func (v HybridVector) Equal(w HybridVector) bool {
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

// HybridMatrix is a list of hybrid-binary rows.
type HybridMatrix struct {
	cols int
	rows []HybridVector
}

// NewHybridMatrix allocates rows zero rows.
func NewHybridMatrix(rows, cols int) *HybridMatrix {
	return &HybridMatrix{cols: cols, rows: make([]HybridVector, rows)}
}

func (m *HybridMatrix) Rows() int { return len(m.rows) }
func (m *HybridMatrix) Cols() int { return m.cols }

// Row returns row i for in-place use.
func (m *HybridMatrix) Row(i int) *HybridVector {
	return &m.rows[i]
}

// SetRow validates v and stores it as row i.
func (m *HybridMatrix) SetRow(i int, v HybridVector) error {
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
func (m *HybridMatrix) SwapRows(i, j int) {
	m.rows[i], m.rows[j] = m.rows[j], m.rows[i]
}

// Clone returns a deep copy.
func (m *HybridMatrix) Clone() *HybridMatrix {
	c := NewHybridMatrix(len(m.rows), m.cols)
	for i, r := range m.rows {
		c.rows[i] = append(HybridVector(nil), r...)
	}
	return c
}
