package matrix

import (
	"fmt"
	"math/bits"
	"strings"
)

// WordBits is the number of columns packed into one storage word.
const WordBits = 64

// BitMatrix is a dense matrix over GF(2), one bit per column, packed into
// 64-bit words with column c of a row at bit c%64 of word c/64. Views may
// start at any bit column; words are loaded and stored across boundaries.
type BitMatrix struct {
	words  []uint64
	stride int // words per row of the backing store
	r0     int // first row of the view
	c0     int // first bit column of the view
	rows   int
	cols   int
}

// NewBitMatrix allocates a zero rows x cols matrix.
func NewBitMatrix(rows, cols int) *BitMatrix {
	stride := (cols + WordBits - 1) / WordBits
	return &BitMatrix{
		words:  make([]uint64, rows*stride),
		stride: stride,
		rows:   rows,
		cols:   cols,
	}
}

// NewBitIdentity allocates the n x n identity.
func NewBitIdentity(n int) *BitMatrix {
	m := NewBitMatrix(n, n)
	m.SetIdentity(0)
	return m
}

// NewBitMatrixFromRows builds a matrix from 0/1 rows.
func NewBitMatrixFromRows(rows [][]uint8) *BitMatrix {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := NewBitMatrix(len(rows), cols)
	for i, row := range rows {
		for j, v := range row {
			m.SetBit(i, j, v&1 == 1)
		}
	}
	return m
}

func (m *BitMatrix) Rows() int { return m.rows }
func (m *BitMatrix) Cols() int { return m.cols }

func (m *BitMatrix) rowBase(i int) int { return (m.r0 + i) * m.stride }

// Bit returns entry (i, j).
func (m *BitMatrix) Bit(i, j int) bool {
	c := m.c0 + j
	return m.words[m.rowBase(i)+c/WordBits]>>(uint(c)%WordBits)&1 == 1
}

// SetBit sets entry (i, j).
func (m *BitMatrix) SetBit(i, j int, v bool) {
	c := m.c0 + j
	idx := m.rowBase(i) + c/WordBits
	mask := uint64(1) << (uint(c) % WordBits)
	if v {
		m.words[idx] |= mask
	} else {
		m.words[idx] &^= mask
	}
}

// Word returns columns [64b, 64b+64) of row i; columns past Cols read as zero.
func (m *BitMatrix) Word(i, b int) uint64 {
	return m.load(i, b*WordBits)
}

// SetWord overwrites columns [64b, 64b+64) of row i, ignoring bits past Cols.
func (m *BitMatrix) SetWord(i, b int, x uint64) {
	j := b * WordBits
	m.store(i, j, x, min(WordBits, m.cols-j))
}

// WordsPerRow is the number of words Word can address.
func (m *BitMatrix) WordsPerRow() int {
	return (m.cols + WordBits - 1) / WordBits
}

// load returns the bits of row i starting at view column j.
func (m *BitMatrix) load(i, j int) uint64 {
	c := m.c0 + j
	w := c / WordBits
	base := m.rowBase(i) + w
	s := uint(c) % WordBits
	x := m.words[base] >> s
	if s != 0 && w+1 < m.stride {
		x |= m.words[base+1] << (WordBits - s)
	}
	if n := m.cols - j; n < WordBits {
		x &= 1<<uint(n) - 1
	}
	return x
}

// store writes the low n bits of x to row i starting at view column j.
func (m *BitMatrix) store(i, j int, x uint64, n int) {
	c := m.c0 + j
	base := m.rowBase(i) + c/WordBits
	s := uint(c) % WordBits
	mask := ^uint64(0)
	if n < WordBits {
		mask = 1<<uint(n) - 1
	}
	x &= mask
	m.words[base] = m.words[base]&^(mask<<s) | x<<s
	if s != 0 && int(s)+n > WordBits {
		hi := mask >> (WordBits - s)
		m.words[base+1] = m.words[base+1]&^hi | x>>(WordBits-s)
	}
}

func (m *BitMatrix) aligned() bool {
	return m.c0%WordBits == 0
}

// View returns the r x c block with top-left corner (i, j), sharing storage.
func (m *BitMatrix) View(i, j, r, c int) *BitMatrix {
	if i < 0 || j < 0 || r < 0 || c < 0 || i+r > m.rows || j+c > m.cols {
		panic(fmt.Sprintf("view [%d:%d, %d:%d] of %dx%d: %v", i, i+r, j, j+c, m.rows, m.cols, ErrOutOfRange))
	}
	return &BitMatrix{
		words:  m.words,
		stride: m.stride,
		r0:     m.r0 + i,
		c0:     m.c0 + j,
		rows:   r,
		cols:   c,
	}
}

// IsZero reports whether every entry is zero.
func (m *BitMatrix) IsZero() bool {
	for i := 0; i < m.rows; i++ {
		if m.LeadingEntry(i) >= 0 {
			return false
		}
	}
	return true
}

// LeadingEntry returns the column of the first set bit of row i, or -1.
func (m *BitMatrix) LeadingEntry(i int) int {
	for j := 0; j < m.cols; j += WordBits {
		if x := m.load(i, j); x != 0 {
			return j + bits.TrailingZeros64(x)
		}
	}
	return -1
}

func (m *BitMatrix) mustMatch(o *BitMatrix, op string) {
	if m.rows != o.rows || m.cols != o.cols {
		panic(fmt.Sprintf("%s: %dx%d vs %dx%d: %v", op, m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch))
	}
}

// XorRowFrom sets row dst of m to row dst xor row src of o.
func (m *BitMatrix) XorRowFrom(dst int, o *BitMatrix, src int) {
	if m.aligned() && o.aligned() {
		d := m.rowBase(dst) + m.c0/WordBits
		s := o.rowBase(src) + o.c0/WordBits
		full := m.cols / WordBits
		for t := 0; t < full; t++ {
			m.words[d+t] ^= o.words[s+t]
		}
		if j := full * WordBits; j < m.cols {
			m.store(dst, j, m.load(dst, j)^o.load(src, j), m.cols-j)
		}
		return
	}
	for j := 0; j < m.cols; j += WordBits {
		m.store(dst, j, m.load(dst, j)^o.load(src, j), min(WordBits, m.cols-j))
	}
}

// XorRow adds row src into row dst.
func (m *BitMatrix) XorRow(dst, src int) {
	m.XorRowFrom(dst, m, src)
}

// ClearRow zeroes row i.
func (m *BitMatrix) ClearRow(i int) {
	for j := 0; j < m.cols; j += WordBits {
		m.store(i, j, 0, min(WordBits, m.cols-j))
	}
}

// CopyFrom overwrites m with src. Identical views are allowed.
func (m *BitMatrix) CopyFrom(src *BitMatrix) {
	m.mustMatch(src, "copy")
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j += WordBits {
			m.store(i, j, src.load(i, j), min(WordBits, m.cols-j))
		}
	}
}

// Clone returns a compact copy with its own storage.
func (m *BitMatrix) Clone() *BitMatrix {
	c := NewBitMatrix(m.rows, m.cols)
	c.CopyFrom(m)
	return c
}

// SwapRows exchanges rows i and j.
func (m *BitMatrix) SwapRows(i, j int) {
	m.SwapRowPrefix(i, j, m.cols)
}

// SwapRowPrefix exchanges the first n columns of rows i and j.
func (m *BitMatrix) SwapRowPrefix(i, j, n int) {
	if i == j {
		return
	}
	for t := 0; t < n; t += WordBits {
		k := min(WordBits, n-t)
		a, b := m.load(i, t), m.load(j, t)
		m.store(i, t, b, k)
		m.store(j, t, a, k)
	}
}

// PermuteRows applies p to the rows of m.
func (m *BitMatrix) PermuteRows(p Permutation) {
	p.Apply(m)
}

// AddIn sets m = m + o.
func (m *BitMatrix) AddIn(o *BitMatrix) {
	m.mustMatch(o, "add")
	for i := 0; i < m.rows; i++ {
		m.XorRowFrom(i, o, i)
	}
}

// Mul sets m = a * b over GF(2). m must not share storage with a or b.
func (m *BitMatrix) Mul(a, b *BitMatrix) {
	if a.cols != b.rows || m.rows != a.rows || m.cols != b.cols {
		panic(fmt.Sprintf("mul: %dx%d = %dx%d * %dx%d: %v", m.rows, m.cols, a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch))
	}
	for i := 0; i < m.rows; i++ {
		m.ClearRow(i)
		for k := 0; k < a.cols; k += WordBits {
			for x := a.load(i, k); x != 0; x &= x - 1 {
				m.XorRowFrom(i, b, k+bits.TrailingZeros64(x))
			}
		}
	}
}

// SetIdentity makes row start+i the unit vector e_i for every row from
// start on. Rows above start are left alone.
func (m *BitMatrix) SetIdentity(start int) {
	for i := start; i < m.rows; i++ {
		m.ClearRow(i)
		if i-start < m.cols {
			m.SetBit(i, i-start, true)
		}
	}
}

// Equal reports bit-wise equality.
func (m *BitMatrix) Equal(o *BitMatrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j += WordBits {
			if m.load(i, j) != o.load(i, j) {
				return false
			}
		}
	}
	return true
}

func (m *BitMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if m.Bit(i, j) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
