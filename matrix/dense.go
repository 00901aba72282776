package matrix

import (
	"fmt"
	"strings"

	"github.com/ethp2p/echelon/field"
)

// Dense is a row-major matrix over an arbitrary field. A Dense may be a
// view into another Dense's storage; views share elements and never copy.
type Dense struct {
	f      field.Field
	data   []field.Element
	off    int // index of element (0, 0)
	stride int // distance between rows
	rows   int
	cols   int
}

// NewDense allocates a zero rows x cols matrix.
func NewDense(f field.Field, rows, cols int) *Dense {
	data := make([]field.Element, rows*cols)
	zero := f.Zero()
	for i := range data {
		data[i] = zero
	}
	return &Dense{f: f, data: data, stride: cols, rows: rows, cols: cols}
}

// NewIdentity allocates the n x n identity.
func NewIdentity(f field.Field, n int) *Dense {
	m := NewDense(f, n, n)
	m.SetIdentity(0)
	return m
}

// NewDenseFromElements copies a jagged-free [][]Element into a new matrix.
func NewDenseFromElements(f field.Field, rows [][]field.Element) (*Dense, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := NewDense(f, len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), cols, ErrDimensionMismatch)
		}
		for j, e := range row {
			m.Set(i, j, e)
		}
	}
	return m, nil
}

// NewDenseFromUint64 maps small integers into f. Handy for fixtures.
func NewDenseFromUint64(f field.Field, rows [][]uint64) *Dense {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := NewDense(f, len(rows), cols)
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, f.FromUint64(v))
		}
	}
	return m
}

func (m *Dense) Rows() int          { return m.rows }
func (m *Dense) Cols() int          { return m.cols }
func (m *Dense) Field() field.Field { return m.f }

func (m *Dense) at(i, j int) int { return m.off + i*m.stride + j }

// At returns entry (i, j).
func (m *Dense) At(i, j int) field.Element {
	return m.data[m.at(i, j)]
}

// Set stores e at (i, j). Elements are immutable, so e is not cloned.
func (m *Dense) Set(i, j int, e field.Element) {
	m.data[m.at(i, j)] = e
}

// View returns the r x c block with top-left corner (i, j), sharing storage.
func (m *Dense) View(i, j, r, c int) *Dense {
	if i < 0 || j < 0 || r < 0 || c < 0 || i+r > m.rows || j+c > m.cols {
		panic(fmt.Sprintf("view [%d:%d, %d:%d] of %dx%d: %v", i, i+r, j, j+c, m.rows, m.cols, ErrOutOfRange))
	}
	return &Dense{f: m.f, data: m.data, off: m.at(i, j), stride: m.stride, rows: r, cols: c}
}

// Row returns a view of row i.
func (m *Dense) Row(i int) *Dense {
	return m.View(i, 0, 1, m.cols)
}

// IsZero reports whether every entry is zero.
func (m *Dense) IsZero() bool {
	for i := 0; i < m.rows; i++ {
		base := m.at(i, 0)
		for _, e := range m.data[base : base+m.cols] {
			if !e.IsZero() {
				return false
			}
		}
	}
	return true
}

// IsRowZero reports whether row i is zero.
func (m *Dense) IsRowZero(i int) bool {
	return m.LeadingEntry(i) < 0
}

// LeadingEntry returns the column of the first nonzero entry of row i, or -1.
func (m *Dense) LeadingEntry(i int) int {
	base := m.at(i, 0)
	for j, e := range m.data[base : base+m.cols] {
		if !e.IsZero() {
			return j
		}
	}
	return -1
}

func (m *Dense) mustMatch(o *Dense, op string) {
	if m.rows != o.rows || m.cols != o.cols {
		panic(fmt.Sprintf("%s: %dx%d vs %dx%d: %v", op, m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch))
	}
}

// CopyFrom overwrites m with src. Identical views are allowed.
func (m *Dense) CopyFrom(src *Dense) {
	m.mustMatch(src, "copy")
	for i := 0; i < m.rows; i++ {
		copy(m.data[m.at(i, 0):m.at(i, m.cols)], src.data[src.at(i, 0):src.at(i, src.cols)])
	}
}

// Clone returns a compact copy with its own storage.
func (m *Dense) Clone() *Dense {
	c := NewDense(m.f, m.rows, m.cols)
	c.CopyFrom(m)
	return c
}

// SwapRows exchanges rows i and j.
func (m *Dense) SwapRows(i, j int) {
	m.SwapRowPrefix(i, j, m.cols)
}

// SwapRowPrefix exchanges the first n entries of rows i and j.
func (m *Dense) SwapRowPrefix(i, j, n int) {
	if i == j || n == 0 {
		return
	}
	a, b := m.at(i, 0), m.at(j, 0)
	for t := 0; t < n; t++ {
		m.data[a+t], m.data[b+t] = m.data[b+t], m.data[a+t]
	}
}

// PermuteRows applies p to the rows of m.
func (m *Dense) PermuteRows(p Permutation) {
	p.Apply(m)
}

// AddIn sets m = m + o.
func (m *Dense) AddIn(o *Dense) {
	m.mustMatch(o, "add")
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if y := o.At(i, j); !y.IsZero() {
				m.Set(i, j, m.At(i, j).Add(y))
			}
		}
	}
}

// Mul sets m = a * b. m must not share storage with a or b.
func (m *Dense) Mul(a, b *Dense) {
	if a.cols != b.rows || m.rows != a.rows || m.cols != b.cols {
		panic(fmt.Sprintf("mul: %dx%d = %dx%d * %dx%d: %v", m.rows, m.cols, a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch))
	}
	zero := m.f.Zero()
	for i := 0; i < m.rows; i++ {
		row := m.data[m.at(i, 0):m.at(i, m.cols)]
		for j := range row {
			row[j] = zero
		}
		for k := 0; k < a.cols; k++ {
			x := a.At(i, k)
			if x.IsZero() {
				continue
			}
			for j := range row {
				if y := b.At(k, j); !y.IsZero() {
					row[j] = row[j].Add(x.Mul(y))
				}
			}
		}
	}
}

// AxpyRow sets row dst = row dst + a * row src.
func (m *Dense) AxpyRow(dst int, a field.Element, src int) {
	d, s := m.at(dst, 0), m.at(src, 0)
	for t := 0; t < m.cols; t++ {
		if y := m.data[s+t]; !y.IsZero() {
			m.data[d+t] = m.data[d+t].Add(a.Mul(y))
		}
	}
}

// ScaleRow multiplies row i by a.
func (m *Dense) ScaleRow(i int, a field.Element) {
	base := m.at(i, 0)
	for t := 0; t < m.cols; t++ {
		if e := m.data[base+t]; !e.IsZero() {
			m.data[base+t] = e.Mul(a)
		}
	}
}

// SetIdentity makes rows start.. the leading unit vectors: row start+i
// becomes e_i. Rows above start are left alone.
func (m *Dense) SetIdentity(start int) {
	zero, one := m.f.Zero(), m.f.One()
	for i := start; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if j == i-start {
				m.Set(i, j, one)
			} else {
				m.Set(i, j, zero)
			}
		}
	}
}

// Equal reports element-wise equality.
func (m *Dense) Equal(o *Dense) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if !m.At(i, j).Equal(o.At(i, j)) {
				return false
			}
		}
	}
	return true
}

func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(m.At(i, j).String())
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
