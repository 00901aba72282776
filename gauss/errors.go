package gauss

import (
	"errors"
	"fmt"

	"github.com/ethp2p/echelon/matrix"
)

var (
	// ErrDimensionMismatch is returned when the shapes of A, R, U, or L do
	// not fit together. It matches matrix.ErrDimensionMismatch as well.
	ErrDimensionMismatch = fmt.Errorf("gauss: %w", matrix.ErrDimensionMismatch)

	// ErrUnsupportedMatrix is returned for a storage format an entry point
	// does not handle, or an elimination matrix of the wrong format.
	ErrUnsupportedMatrix = errors.New("gauss: unsupported matrix type")

	// ErrFieldMismatch is returned when a matrix is not over the
	// Eliminator's field. Binary formats require GF(2).
	ErrFieldMismatch = errors.New("gauss: matrix is not over the eliminator field")

	// ErrInvalidStartRow is returned for a start row outside [0, rows].
	ErrInvalidStartRow = errors.New("gauss: start row out of range")

	// ErrInvalidRank is returned when the rows named by start row and rank
	// are not the nonzero rows of an echelon form.
	ErrInvalidRank = errors.New("gauss: rank does not describe an echelon form")

	// ErrNilPermutation is returned when no permutation output is given.
	ErrNilPermutation = errors.New("gauss: nil permutation")
)
