package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/gauss"
	"github.com/ethp2p/echelon/matrix"
	"github.com/ethp2p/echelon/pb"
	"github.com/ethp2p/echelon/wire"
)

// ErrTooLarge is returned for requests above the engine's bounds.
var ErrTooLarge = errors.New("service: matrix exceeds server bounds")

// Engine answers elimination requests. The zero value is unbounded and
// uses the engine defaults.
type Engine struct {
	// MaxRows and MaxCols bound accepted matrices when positive.
	MaxRows int
	MaxCols int

	// Cutoff replaces the default recursion cutoff when positive and the
	// request does not name one.
	Cutoff int

	// ProgressStep is passed to the eliminator when positive.
	ProgressStep int

	// Observer receives the eliminator's reports; nil keeps the default.
	Observer func() gauss.Observer
}

// EngineFromSettings builds the engine a server runs.
func EngineFromSettings(s *Settings) *Engine {
	return &Engine{
		MaxRows:      s.Echelon.MaxRows,
		MaxCols:      s.Echelon.MaxCols,
		Cutoff:       s.Echelon.Cutoff,
		ProgressStep: s.Echelon.ProgressStep,
		Observer:     func() gauss.Observer { return newMetricsObserver() },
	}
}

// CheckBounds rejects requests whose declared shape is above the bounds.
func (g *Engine) CheckBounds(req *pb.EchelonRequest) error {
	if req.Matrix == nil {
		return fmt.Errorf("missing matrix: %w", wire.ErrMalformed)
	}
	rows, cols := int(req.Matrix.Rows), int(req.Matrix.Cols)
	if (g.MaxRows > 0 && rows > g.MaxRows) || (g.MaxCols > 0 && cols > g.MaxCols) {
		return fmt.Errorf("%dx%d above %dx%d: %w", rows, cols, g.MaxRows, g.MaxCols, ErrTooLarge)
	}
	return nil
}

func (g *Engine) eliminator(f field.Field, req *pb.EchelonRequest) (*gauss.Eliminator, error) {
	var opts []gauss.Option
	switch {
	case req.Cutoff > 0:
		opts = append(opts, gauss.WithCutoff(int(req.Cutoff)))
	case g.Cutoff > 0:
		opts = append(opts, gauss.WithCutoff(g.Cutoff))
	}
	if g.ProgressStep > 0 {
		opts = append(opts, gauss.WithProgressStep(g.ProgressStep))
	}
	if g.Observer != nil {
		opts = append(opts, gauss.WithObserver(g.Observer()))
	}
	return gauss.NewEliminator(f, opts...)
}

// Run decodes req, runs the requested elimination and encodes the result.
// Failures are returned as errors; the response Id always matches.
func (g *Engine) Run(req *pb.EchelonRequest) (*pb.EchelonResponse, error) {
	start := time.Now()
	if err := g.CheckBounds(req); err != nil {
		return nil, err
	}

	f, err := wire.DecodeField(req.Field)
	if err != nil {
		return nil, err
	}
	if wire.IsBinaryFormat(req.Matrix) && !field.IsGF2(f) {
		return nil, fmt.Errorf("%s matrix over a field of order %s: %w", req.Matrix.Format, f.Order(), gauss.ErrFieldMismatch)
	}
	A, err := wire.DecodeMatrix(f, req.Matrix)
	if err != nil {
		return nil, err
	}
	e, err := g.eliminator(f, req)
	if err != nil {
		return nil, err
	}

	rows, startRow := A.Rows(), int(req.StartRow)
	if startRow > rows {
		return nil, fmt.Errorf("start row %d of %d: %w", startRow, rows, gauss.ErrInvalidStartRow)
	}

	resp := &pb.EchelonResponse{Id: req.Id}
	var (
		P    matrix.Permutation
		T    matrix.Matrix
		R    = A
		rank int
		det  field.Element
	)
	switch req.Method {
	case pb.EchelonRequest_DENSE:
		if startRow != 0 {
			return nil, fmt.Errorf("start row %d with the dense method: %w", startRow, gauss.ErrInvalidStartRow)
		}
		T = newTransform(f, A, 0)
		rank, det, err = e.DenseRowEchelonForm(R, T, &P, A)

	case pb.EchelonRequest_STANDARD:
		if req.Transform {
			T = newTransform(f, A, startRow)
		}
		rank, det, err = e.StandardRowEchelonForm(A, T, &P, req.Reduced, startRow)

	case pb.EchelonRequest_REDUCE:
		if req.Transform {
			T = newTransform(f, A, startRow)
			setIdentity(T, startRow)
		}
		rank = int(req.Rank)
		err = e.ReduceRowEchelon(A, T, rank, startRow)

	default:
		return nil, fmt.Errorf("method %d: %w", req.Method, wire.ErrMalformed)
	}
	if err != nil {
		return nil, err
	}

	if resp.Echelon, err = wire.EncodeMatrix(R); err != nil {
		return nil, err
	}
	if req.Transform && T != nil {
		if resp.Transform, err = wire.EncodeMatrix(T); err != nil {
			return nil, err
		}
	}
	resp.Permutation = wire.EncodePermutation(P)
	resp.Rank = uint32(rank)
	resp.Determinant = wire.EncodeElement(det)

	log.Debugf("request %d: %s %dx%d rank %d in %s", req.Id, req.Method, rows, A.Cols(), rank, time.Since(start))
	return resp, nil
}

// newTransform allocates an elimination matrix for A from row start: a
// bit matrix for the binary formats, dense over f otherwise.
func newTransform(f field.Field, A matrix.Matrix, start int) matrix.Matrix {
	n := A.Rows()
	switch A.(type) {
	case *matrix.BitMatrix, *matrix.SparseBitMatrix, *matrix.HybridMatrix:
		return matrix.NewBitMatrix(n, n-start)
	}
	return matrix.NewDense(f, n, n-start)
}

func setIdentity(T matrix.Matrix, start int) {
	switch t := T.(type) {
	case *matrix.Dense:
		t.SetIdentity(start)
	case *matrix.BitMatrix:
		t.SetIdentity(start)
	}
}
