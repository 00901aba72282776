package wire

import (
	"fmt"

	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
	"github.com/ethp2p/echelon/pb"
)

// EncodeMatrix encodes any of the five storage formats. General entries are
// packed at the field's element width.
func EncodeMatrix(m matrix.Matrix) (*pb.Matrix, error) {
	out := &pb.Matrix{
		Rows: uint32(m.Rows()),
		Cols: uint32(m.Cols()),
		Row:  make([]*pb.Row, m.Rows()),
	}
	switch m := m.(type) {
	case *matrix.Dense:
		out.Format = pb.Matrix_DENSE
		k := m.Field().BitsPerElement()
		row := make([]field.Element, m.Cols())
		for i := range out.Row {
			for j := range row {
				row[j] = m.At(i, j)
			}
			out.Row[i] = &pb.Row{Values: field.PackElements(row, k)}
		}
	case *matrix.BitMatrix:
		out.Format = pb.Matrix_BITS
		for i := range out.Row {
			words := make([]uint64, m.WordsPerRow())
			for b := range words {
				words[b] = m.Word(i, b)
			}
			out.Row[i] = &pb.Row{Words: words}
		}
	case *matrix.SparseMatrix:
		out.Format = pb.Matrix_SPARSE
		k := m.Field().BitsPerElement()
		for i := range out.Row {
			v := m.Row(i)
			out.Row[i] = &pb.Row{
				Index:  indices(v.Index),
				Values: field.PackElements(v.Value, k),
			}
		}
	case *matrix.SparseBitMatrix:
		out.Format = pb.Matrix_SPARSE_BITS
		for i := range out.Row {
			out.Row[i] = &pb.Row{Index: indices(*m.Row(i))}
		}
	case *matrix.HybridMatrix:
		out.Format = pb.Matrix_HYBRID
		for i := range out.Row {
			v := *m.Row(i)
			r := &pb.Row{
				Index: make([]uint32, len(v)),
				Words: make([]uint64, len(v)),
			}
			for t, blk := range v {
				r.Index[t] = uint32(blk.Index)
				r.Words[t] = blk.Word
			}
			out.Row[i] = r
		}
	default:
		return nil, fmt.Errorf("matrix %T: %w", m, ErrUnsupported)
	}
	return out, nil
}

// DecodeMatrix rebuilds a matrix over f. Binary formats ignore f. Every row
// is validated; callers bound Rows and Cols before decoding.
func DecodeMatrix(f field.Field, msg *pb.Matrix) (matrix.Matrix, error) {
	if msg == nil {
		return nil, fmt.Errorf("missing matrix: %w", ErrMalformed)
	}
	rows, cols := int(msg.Rows), int(msg.Cols)
	if len(msg.Row) != rows {
		return nil, fmt.Errorf("%d rows declared, %d sent: %w", rows, len(msg.Row), ErrMalformed)
	}
	log.Debugf("decoding %s matrix %dx%d", msg.Format, rows, cols)

	switch msg.Format {
	case pb.Matrix_DENSE:
		k := f.BitsPerElement()
		size := (cols*k + 7) / 8
		m := matrix.NewDense(f, rows, cols)
		for i, r := range msg.Row {
			if r == nil || len(r.Values) != size {
				return nil, rowError(i, "dense row of %d bytes", size)
			}
			for j, e := range field.UnpackElements(r.Values, cols, k, f) {
				m.Set(i, j, e)
			}
		}
		return m, nil

	case pb.Matrix_BITS:
		m := matrix.NewBitMatrix(rows, cols)
		for i, r := range msg.Row {
			if r == nil || len(r.Words) != m.WordsPerRow() {
				return nil, rowError(i, "bit row of %d words", m.WordsPerRow())
			}
			for b, w := range r.Words {
				if b == len(r.Words)-1 && cols%matrix.WordBits != 0 && w>>(uint(cols)%matrix.WordBits) != 0 {
					return nil, rowError(i, "bit row with columns past %d", cols)
				}
				m.SetWord(i, b, w)
			}
		}
		return m, nil

	case pb.Matrix_SPARSE:
		k := f.BitsPerElement()
		m := matrix.NewSparseMatrix(f, rows, cols)
		for i, r := range msg.Row {
			if r == nil || len(r.Values) != (len(r.Index)*k+7)/8 {
				return nil, rowError(i, "sparse row with one value per index")
			}
			v := matrix.SparseVector{
				Index: columns(r.Index),
				Value: field.UnpackElements(r.Values, len(r.Index), k, f),
			}
			if err := m.SetRow(i, v); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
		}
		return m, nil

	case pb.Matrix_SPARSE_BITS:
		m := matrix.NewSparseBitMatrix(rows, cols)
		for i, r := range msg.Row {
			if r == nil {
				return nil, rowError(i, "sparse bit row")
			}
			if err := m.SetRow(i, columns(r.Index)); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
		}
		return m, nil

	case pb.Matrix_HYBRID:
		m := matrix.NewHybridMatrix(rows, cols)
		for i, r := range msg.Row {
			if r == nil || len(r.Index) != len(r.Words) {
				return nil, rowError(i, "hybrid row with one word per block")
			}
			v := make(matrix.HybridVector, len(r.Index))
			for t := range v {
				v[t] = matrix.HybridBlock{Index: int(r.Index[t]), Word: r.Words[t]}
			}
			if err := m.SetRow(i, v); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
		}
		return m, nil
	}
	return nil, fmt.Errorf("matrix format %d: %w", msg.Format, ErrMalformed)
}

// IsBinaryFormat reports whether msg holds one of the GF(2) formats.
func IsBinaryFormat(msg *pb.Matrix) bool {
	if msg == nil {
		return false
	}
	switch msg.Format {
	case pb.Matrix_BITS, pb.Matrix_SPARSE_BITS, pb.Matrix_HYBRID:
		return true
	}
	return false
}

func rowError(i int, format string, args ...any) error {
	return fmt.Errorf("row %d: expected "+format+": %w", append(append([]any{i}, args...), ErrMalformed)...)
}

func indices(cols []int) []uint32 {
	out := make([]uint32, len(cols))
	for t, c := range cols {
		out[t] = uint32(c)
	}
	return out
}

func columns(idx []uint32) []int {
	out := make([]int, len(idx))
	for t, c := range idx {
		out[t] = int(c)
	}
	return out
}
