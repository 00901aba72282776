package gauss

import "github.com/ethp2p/echelon/matrix"

// Pivot selection. Sparse formats take the row with the leftmost leading
// column and, among those, the fewest stored entries (first found wins a
// tie), which keeps fill-in low. Dense formats have no size signal and fall
// back to scanning columns left to right from the previous pivot column.

func (d denseForm) pivot(k, col int) (int, int) {
	for ; col < d.Cols(); col++ {
		for i := k; i < d.Rows(); i++ {
			if !d.At(i, col).IsZero() {
				return i, col
			}
		}
	}
	return -1, col
}

func (b bitForm) pivot(k, col int) (int, int) {
	for ; col < b.Cols(); col++ {
		for i := k; i < b.Rows(); i++ {
			if b.Bit(i, col) {
				return i, col
			}
		}
	}
	return -1, col
}

func (s sparseForm) pivot(k, _ int) (int, int) {
	best, col, size := -1, s.Cols(), 0
	for i := k; i < s.Rows(); i++ {
		row := s.Row(i)
		if row.Len() == 0 {
			continue
		}
		lead := row.Index[0]
		if lead < col || (lead == col && row.Len() < size) {
			best, col, size = i, lead, row.Len()
		}
	}
	return best, col
}

func (s sparseBitForm) pivot(k, _ int) (int, int) {
	best, col, size := -1, s.Cols(), 0
	for i := k; i < s.Rows(); i++ {
		row := *s.Row(i)
		if len(row) == 0 {
			continue
		}
		lead := row[0]
		if lead < col || (lead == col && len(row) < size) {
			best, col, size = i, lead, len(row)
		}
	}
	return best, col
}

// Hybrid rows are measured in blocks, and a row whose first block starts
// past the best column so far is skipped without decoding its word.
func (h hybridForm) pivot(k, _ int) (int, int) {
	best, col, size := -1, h.Cols(), 0
	for i := k; i < h.Rows(); i++ {
		row := *h.Row(i)
		if len(row) == 0 || row[0].Index*matrix.WordBits > col {
			continue
		}
		lead := row.Leading()
		if lead < col || (lead == col && len(row) < size) {
			best, col, size = i, lead, len(row)
		}
	}
	return best, col
}
