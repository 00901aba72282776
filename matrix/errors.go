package matrix

import "errors"

var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrOutOfRange is returned for row or column indices outside the matrix.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrBadShape is returned for malformed rows: unsorted or duplicated
	// indices, explicit zeros, or empty hybrid words.
	ErrBadShape = errors.New("matrix: malformed row")
)
