package gauss

import (
	"fmt"
	"time"

	"github.com/ethp2p/echelon/matrix"
)

// ReduceRowEchelon turns A, already in row-echelon form with its rank pivot
// rows at [startRow, startRow+rank), into reduced row-echelon form: each
// pivot column is cleared in every row above its pivot row, including rows
// above startRow, and every pivot becomes one. Rows above startRow are not
// pivots and are not normalized. If L is not nil the same row operations
// are applied to it; its shape rules are those of StandardRowEchelonForm.
func (e *Eliminator) ReduceRowEchelon(A, L matrix.Matrix, rank, startRow int) error {
	if startRow < 0 || startRow > A.Rows() {
		return fmt.Errorf("start row %d of %d: %w", startRow, A.Rows(), ErrInvalidStartRow)
	}
	if rank < 0 || startRow+rank > A.Rows() {
		return fmt.Errorf("rank %d from row %d of %d: %w", rank, startRow, A.Rows(), ErrInvalidRank)
	}
	form, err := e.formFor(A)
	if err != nil {
		return err
	}
	l, err := e.transformFor(A, L, startRow)
	if err != nil {
		return err
	}

	prev := -1
	for j := startRow; j < startRow+rank; j++ {
		c := form.leading(j)
		if c <= prev {
			return fmt.Errorf("row %d leads at column %d after %d: %w", j, c, prev, ErrInvalidRank)
		}
		prev = c
	}

	st := e.newStats("reduce")
	t := time.Now()
	form.reduce(l, startRow+rank, startRow)
	st.since(phaseReduce, t)
	st.report()
	return nil
}

// pivotColumns records the leading column of every pivot row. Leading
// columns of pivot rows do not move during back-substitution.
func pivotColumns(a rowForm, end, start int) []int {
	cols := make([]int, end)
	for j := start; j < end; j++ {
		cols[j] = a.leading(j)
	}
	return cols
}

// Every reducer walks the pivot rows bottom-up. Row i is cleared against
// the already normalized pivot rows j > max(i, start-1), then normalized if
// it is itself a pivot row.

func (d denseForm) reduce(l transform, end, start int) {
	piv := pivotColumns(d, end, start)
	for i := end - 1; i >= 0; i-- {
		for j := end - 1; j > max(i, start-1); j-- {
			v := d.At(i, piv[j])
			if v.IsZero() {
				continue
			}
			nv := v.Neg()
			d.AxpyRow(i, nv, j)
			l.AxpyRow(i, nv, j)
		}
		if i >= start {
			if x := d.At(i, piv[i]); !x.IsOne() {
				xi := x.Inv()
				d.ScaleRow(i, xi)
				l.ScaleRow(i, xi)
			}
		}
	}
}

func (b bitForm) reduce(l transform, end, start int) {
	piv := pivotColumns(b, end, start)
	for i := end - 1; i >= 0; i-- {
		for j := end - 1; j > max(i, start-1); j-- {
			if b.Bit(i, piv[j]) {
				b.XorRow(i, j)
				l.AxpyRow(i, nil, j)
			}
		}
	}
}

// The sparse reducers keep a reverse cursor into row i: cur is the number
// of stored entries at or left of the current pivot column. Pivot columns
// only decrease as j does, and an offset-add at cur-1 never disturbs the
// entries before it, so the cursor only moves left.

func (s sparseForm) reduce(l transform, end, start int) {
	piv := pivotColumns(s, end, start)
	for i := end - 1; i >= 0; i-- {
		row := s.Row(i)
		cur := row.Len()
		for j := end - 1; j > max(i, start-1); j-- {
			pc := piv[j]
			cur = min(cur, row.Len())
			for cur > 0 && row.Index[cur-1] > pc {
				cur--
			}
			if cur == 0 {
				break
			}
			if row.Index[cur-1] == pc {
				nv := row.Value[cur-1].Neg()
				s.e.addScaled(row, nv, s.Row(j), cur-1)
				l.AxpyRow(i, nv, j)
			}
		}
		if i >= start {
			if x := row.Value[0]; !x.IsOne() {
				xi := x.Inv()
				for t := range row.Value {
					row.Value[t] = row.Value[t].Mul(xi)
				}
				l.ScaleRow(i, xi)
			}
		}
	}
}

func (s sparseBitForm) reduce(l transform, end, start int) {
	piv := pivotColumns(s, end, start)
	for i := end - 1; i >= 0; i-- {
		row := s.Row(i)
		cur := len(*row)
		for j := end - 1; j > max(i, start-1); j-- {
			pc := piv[j]
			cur = min(cur, len(*row))
			for cur > 0 && (*row)[cur-1] > pc {
				cur--
			}
			if cur == 0 {
				break
			}
			if (*row)[cur-1] == pc {
				s.e.addBits(row, *s.Row(j), cur-1)
				l.AxpyRow(i, nil, j)
			}
		}
	}
}

// The hybrid reducer walks a block cursor p instead. When the block under
// the cursor lies left of row j's pivot block, every pivot row whose pivot
// block is past it can be skipped at once; pivot blocks are sorted, so a
// binary search finds the next row worth testing.
func (h hybridForm) reduce(l transform, end, start int) {
	piv := pivotColumns(h, end, start)
	for i := end - 1; i >= 0; i-- {
		row := h.Row(i)
		lo := max(i, start-1)
		p := len(*row) - 1
		for j := end - 1; j > lo; {
			p = min(p, len(*row)-1)
			pc := piv[j]
			pb := pc / matrix.WordBits
			for p >= 0 && (*row)[p].Index > pb {
				p--
			}
			if p < 0 {
				break
			}

			blk := (*row)[p]
			if blk.Index == pb {
				if blk.Word>>(uint(pc)%matrix.WordBits)&1 == 1 {
					h.e.addHybrid(row, *h.Row(j), p)
					l.AxpyRow(i, nil, j)
				}
				j--
				continue
			}

			a, b := lo+1, j
			for a < b {
				mid := (a + b) / 2
				if piv[mid]/matrix.WordBits <= blk.Index {
					a = mid + 1
				} else {
					b = mid
				}
			}
			j = a - 1
		}
	}
}
