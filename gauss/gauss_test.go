package gauss

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethp2p/echelon/matrix"
)

func TestNewEliminatorDefaults(t *testing.T) {
	require.Equal(t, matrix.WordBits, newEliminator(t, gf2).Cutoff())
	require.Equal(t, 1, newEliminator(t, gf101).Cutoff())
	require.Equal(t, 7, newEliminator(t, gf101, WithCutoff(7)).Cutoff())

	_, err := NewEliminator(gf101, WithCutoff(0))
	require.Error(t, err)
	_, err = NewEliminator(gf101, WithProgressStep(-1))
	require.Error(t, err)
	_, err = NewEliminator(gf101, WithObserver(nil))
	require.Error(t, err)
}

type recordingObserver struct {
	mu       sync.Mutex
	progress []int
	phases   map[string]time.Duration
}

func (r *recordingObserver) Progress(op string, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, rows)
}

func (r *recordingObserver) PhaseTime(op, phase string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phases == nil {
		r.phases = map[string]time.Duration{}
	}
	r.phases[op+"/"+phase] += d
}

func TestObserverReports(t *testing.T) {
	obs := &recordingObserver{}
	e := newEliminator(t, gf101, WithObserver(obs), WithProgressStep(2))

	A := matrix.NewIdentity(gf101, 5)
	A.SwapRows(0, 4)
	var P matrix.Permutation
	rank, _, err := e.StandardRowEchelonForm(A, nil, &P, true, 0)
	require.NoError(t, err)
	require.Equal(t, 5, rank)
	require.Equal(t, []int{2, 4}, obs.progress)
	require.Contains(t, obs.phases, "standard/pivot")
	require.Contains(t, obs.phases, "standard/eliminate")
}

func TestEntryPointErrors(t *testing.T) {
	e := newEliminator(t, gf101)
	bits := newEliminator(t, gf2)
	A := matrix.NewDense(gf101, 3, 4)
	var P matrix.Permutation

	_, _, err := e.StandardRowEchelonForm(A, matrix.NewDense(gf101, 3, 2), &P, false, 0)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, _, err = e.StandardRowEchelonForm(A, nil, nil, false, 0)
	require.ErrorIs(t, err, ErrNilPermutation)

	_, _, err = e.StandardRowEchelonForm(A, nil, &P, false, 4)
	require.ErrorIs(t, err, ErrInvalidStartRow)

	_, _, err = e.StandardRowEchelonForm(A, matrix.NewBitMatrix(3, 3), &P, false, 0)
	require.ErrorIs(t, err, ErrUnsupportedMatrix)

	_, _, err = e.StandardRowEchelonForm(matrix.NewHybridMatrix(2, 2), nil, &P, false, 0)
	require.ErrorIs(t, err, ErrFieldMismatch)

	_, _, err = bits.StandardRowEchelonForm(A, nil, &P, false, 0)
	require.ErrorIs(t, err, ErrFieldMismatch)

	_, _, err = bits.StandardRowEchelonForm(matrix.NewSparseBitMatrix(2, 2), matrix.NewDense(gf2, 2, 2), &P, false, 0)
	require.ErrorIs(t, err, ErrUnsupportedMatrix)

	_, _, err = e.DenseRowEchelonForm(matrix.NewDense(gf101, 3, 3), matrix.NewDense(gf101, 3, 3), &P, A)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = e.DenseRowEchelonForm(matrix.NewDense(gf101, 3, 4), matrix.NewDense(gf101, 4, 4), &P, A)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = e.DenseRowEchelonForm(matrix.NewDense(gf101, 3, 4), matrix.NewBitMatrix(3, 3), &P, A)
	require.ErrorIs(t, err, ErrUnsupportedMatrix)

	sparse := matrix.NewSparseMatrix(gf101, 3, 4)
	_, _, err = e.DenseRowEchelonForm(sparse, matrix.NewDense(gf101, 3, 3), &P, sparse)
	require.ErrorIs(t, err, ErrUnsupportedMatrix)

	b := matrix.NewBitMatrix(3, 4)
	_, _, err = e.DenseRowEchelonForm(b, matrix.NewBitMatrix(3, 3), &P, b)
	require.ErrorIs(t, err, ErrFieldMismatch)

	require.ErrorIs(t, e.ReduceRowEchelon(A, matrix.NewDense(gf101, 2, 3), 0, 0), ErrDimensionMismatch)
}
