package matrix

import (
	"fmt"
	"strings"
)

// Transposition swaps rows I and J at the time it is applied.
type Transposition struct {
	I, J int
}

// Permutation is an ordered list of transpositions applied left to right.
// Sub-results are concatenated, never merged, so apply order is preserved.
type Permutation []Transposition

// Apply performs every swap on m in order.
func (p Permutation) Apply(m RowSwapper) {
	for _, t := range p {
		m.SwapRows(t.I, t.J)
	}
}

// Sign returns +1 or -1 according to the parity of the non-trivial swaps.
func (p Permutation) Sign() int {
	sign := 1
	for _, t := range p {
		if t.I != t.J {
			sign = -sign
		}
	}
	return sign
}

// Order returns the row order produced by applying p to 0..n-1: row i of
// the permuted matrix is row Order()[i] of the original.
func (p Permutation) Order(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for _, t := range p {
		order[t.I], order[t.J] = order[t.J], order[t.I]
	}
	return order
}

// Equal reports whether p and q list the same transpositions.
func (p Permutation) Equal(q Permutation) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func (p Permutation) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = fmt.Sprintf("(%d %d)", t.I, t.J)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
