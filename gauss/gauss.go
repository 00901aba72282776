// Package gauss computes row-echelon and reduced row-echelon forms over
// finite fields without ever permuting columns.
//
// Two entry points are provided. DenseRowEchelonForm is a recursive block
// algorithm for dense matrices that trades row-by-row elimination for block
// products. StandardRowEchelonForm is a sequential eliminator for every
// storage format, with a pivot choice that limits fill-in on sparse rows.
// ReduceRowEchelon turns a known echelon form into the reduced form.
//
// Both entry points can record the row operations they perform: the row
// permutation as a list of transpositions and an elimination matrix U (or L)
// with R = U*P*A.
package gauss

import (
	"fmt"
	"math"

	logging "github.com/ipfs/go-log/v2"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
)

var log = logging.Logger("gauss")

const (
	// DefaultProgressStep is how many rows pass between progress reports.
	DefaultProgressStep = 1024

	// NoCutoff disables recursion in DenseRowEchelonForm.
	NoCutoff = math.MaxInt
)

// Eliminator runs eliminations over one field. It owns scratch buffers and
// is not safe for concurrent use; create one per goroutine.
type Eliminator struct {
	f            field.Field
	gf2          bool
	cutoff       int
	progressStep int
	observer     Observer

	// scratch for the offset-add merges
	idx    []int
	vals   []field.Element
	blocks matrix.HybridVector
}

// Option configures an Eliminator
type Option func(*Eliminator) error

// WithCutoff sets the column count at or below which DenseRowEchelonForm
// stops recursing and eliminates directly. Use NoCutoff to never recurse.
func WithCutoff(n int) Option {
	return func(e *Eliminator) error {
		if n < 1 {
			return fmt.Errorf("cutoff must be positive, got %d", n)
		}
		e.cutoff = n
		return nil
	}
}

// WithProgressStep sets the progress reporting interval in rows. Zero
// disables progress reports.
func WithProgressStep(n int) Option {
	return func(e *Eliminator) error {
		if n < 0 {
			return fmt.Errorf("progress step must not be negative, got %d", n)
		}
		e.progressStep = n
		return nil
	}
}

// WithObserver replaces the default debug-log observer.
func WithObserver(o Observer) Option {
	return func(e *Eliminator) error {
		if o == nil {
			return fmt.Errorf("observer must not be nil")
		}
		e.observer = o
		return nil
	}
}

// NewEliminator creates an Eliminator over f. The default cutoff is one
// word of columns for GF(2) and a single column otherwise.
func NewEliminator(f field.Field, opts ...Option) (*Eliminator, error) {
	e := &Eliminator{
		f:            f,
		gf2:          field.IsGF2(f),
		cutoff:       1,
		progressStep: DefaultProgressStep,
		observer:     logObserver{},
	}
	if e.gf2 {
		e.cutoff = matrix.WordBits
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Field returns the field the Eliminator works over.
func (e *Eliminator) Field() field.Field {
	return e.f
}

// Cutoff returns the recursion cutoff in columns.
func (e *Eliminator) Cutoff() int {
	return e.cutoff
}
