// Package matrix holds the row storage formats the elimination engine works
// on: dense matrices over any field, bit-packed dense matrices over GF(2),
// and three sparse row formats (general, binary index-only, and hybrid
// word-blocked). Column indices never change meaning; only rows move.
package matrix

// Matrix is implemented by every storage format.
type Matrix interface {
	Rows() int
	Cols() int
}

// RowSwapper is anything a Permutation can be applied to.
type RowSwapper interface {
	SwapRows(i, j int)
}
