package matrix

import (
	"math/bits"

	"github.com/ethp2p/echelon/field"
)

// Conversions between storage formats. Binary formats convert to Dense over
// the field passed in, whose One marks a set bit; any nonzero converts to a
// set bit in the other direction.

// Dense expands m.
func (m *SparseMatrix) Dense() *Dense {
	d := NewDense(m.f, len(m.rows), m.cols)
	for i := range m.rows {
		for t, c := range m.rows[i].Index {
			d.Set(i, c, m.rows[i].Value[t])
		}
	}
	return d
}

// SparseFromDense compresses d.
func SparseFromDense(d *Dense) *SparseMatrix {
	m := NewSparseMatrix(d.f, d.rows, d.cols)
	for i := 0; i < d.rows; i++ {
		row := &m.rows[i]
		for j := 0; j < d.cols; j++ {
			if e := d.At(i, j); !e.IsZero() {
				row.Index = append(row.Index, j)
				row.Value = append(row.Value, e)
			}
		}
	}
	return m
}

// BitMatrix expands m.
func (m *SparseBitMatrix) BitMatrix() *BitMatrix {
	b := NewBitMatrix(len(m.rows), m.cols)
	for i, row := range m.rows {
		for _, c := range row {
			b.SetBit(i, c, true)
		}
	}
	return b
}

// SparseBitsFromBitMatrix compresses b.
func SparseBitsFromBitMatrix(b *BitMatrix) *SparseBitMatrix {
	m := NewSparseBitMatrix(b.rows, b.cols)
	for i := 0; i < b.rows; i++ {
		for w := 0; w < b.WordsPerRow(); w++ {
			for x := b.Word(i, w); x != 0; x &= x - 1 {
				m.rows[i] = append(m.rows[i], w*WordBits+bits.TrailingZeros64(x))
			}
		}
	}
	return m
}

// BitMatrix expands m.
func (m *HybridMatrix) BitMatrix() *BitMatrix {
	b := NewBitMatrix(len(m.rows), m.cols)
	for i, row := range m.rows {
		for _, blk := range row {
			b.SetWord(i, blk.Index, blk.Word)
		}
	}
	return b
}

// HybridFromBitMatrix compresses b, dropping empty words.
func HybridFromBitMatrix(b *BitMatrix) *HybridMatrix {
	m := NewHybridMatrix(b.rows, b.cols)
	for i := 0; i < b.rows; i++ {
		for w := 0; w < b.WordsPerRow(); w++ {
			if x := b.Word(i, w); x != 0 {
				m.rows[i] = append(m.rows[i], HybridBlock{Index: w, Word: x})
			}
		}
	}
	return m
}

// BitMatrixFromDense maps nonzero entries of d to set bits.
func BitMatrixFromDense(d *Dense) *BitMatrix {
	b := NewBitMatrix(d.rows, d.cols)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			if !d.At(i, j).IsZero() {
				b.SetBit(i, j, true)
			}
		}
	}
	return b
}

// DenseFromBitMatrix lifts b into f.
func DenseFromBitMatrix(f field.Field, b *BitMatrix) *Dense {
	d := NewDense(f, b.rows, b.cols)
	one := f.One()
	for i := 0; i < b.rows; i++ {
		for j := 0; j < b.cols; j++ {
			if b.Bit(i, j) {
				d.Set(i, j, one)
			}
		}
	}
	return d
}

// ToDense expands any storage format over f. Binary formats use f.One for
// set bits; general formats keep their own field.
func ToDense(f field.Field, m Matrix) *Dense {
	switch m := m.(type) {
	case *Dense:
		return m.Clone()
	case *SparseMatrix:
		return m.Dense()
	case *BitMatrix:
		return DenseFromBitMatrix(f, m)
	case *SparseBitMatrix:
		return DenseFromBitMatrix(f, m.BitMatrix())
	case *HybridMatrix:
		return DenseFromBitMatrix(f, m.BitMatrix())
	}
	return nil
}
