package gauss

import (
	"github.com/ethp2p/echelon/field"
	"github.com/ethp2p/echelon/matrix"
)

// Fast offset-add. Each helper adds w into v but only merges the stored
// entries of v from position start on; the caller guarantees that every
// entry of w lies at or after the column (or block) stored at v[start], so
// the untouched prefix is exactly what a full addition would produce.
// The merged suffix is built in the Eliminator's scratch and copied back.
// Rows never grow into spare capacity, which may belong to another row.

// addScaled sets v = v + a*w.
func (e *Eliminator) addScaled(v *matrix.SparseVector, a field.Element, w *matrix.SparseVector, start int) {
	idx, vals := e.idx[:0], e.vals[:0]
	i, j := start, 0
	for i < len(v.Index) || j < len(w.Index) {
		switch {
		case j == len(w.Index) || (i < len(v.Index) && v.Index[i] < w.Index[j]):
			idx = append(idx, v.Index[i])
			vals = append(vals, v.Value[i])
			i++
		case i == len(v.Index) || w.Index[j] < v.Index[i]:
			if x := a.Mul(w.Value[j]); !x.IsZero() {
				idx = append(idx, w.Index[j])
				vals = append(vals, x)
			}
			j++
		default:
			if x := v.Value[i].Add(a.Mul(w.Value[j])); !x.IsZero() {
				idx = append(idx, v.Index[i])
				vals = append(vals, x)
			}
			i++
			j++
		}
	}
	v.Index = append(v.Index[:start:len(v.Index)], idx...)
	v.Value = append(v.Value[:start:len(v.Value)], vals...)
	e.idx, e.vals = idx, vals
}

// addBits sets v = v + w over GF(2).
func (e *Eliminator) addBits(v *matrix.SparseBitVector, w matrix.SparseBitVector, start int) {
	out := e.idx[:0]
	row := *v
	i, j := start, 0
	for i < len(row) || j < len(w) {
		switch {
		case j == len(w) || (i < len(row) && row[i] < w[j]):
			out = append(out, row[i])
			i++
		case i == len(row) || w[j] < row[i]:
			out = append(out, w[j])
			j++
		default:
			i++
			j++
		}
	}
	*v = append(row[:start:len(row)], out...)
	e.idx = out
}

// addHybrid sets v = v + w over GF(2), dropping blocks that cancel.
func (e *Eliminator) addHybrid(v *matrix.HybridVector, w matrix.HybridVector, start int) {
	out := e.blocks[:0]
	row := *v
	i, j := start, 0
	for i < len(row) || j < len(w) {
		switch {
		case j == len(w) || (i < len(row) && row[i].Index < w[j].Index):
			out = append(out, row[i])
			i++
		case i == len(row) || w[j].Index < row[i].Index:
			out = append(out, w[j])
			j++
		default:
			if x := row[i].Word ^ w[j].Word; x != 0 {
				out = append(out, matrix.HybridBlock{Index: row[i].Index, Word: x})
			}
			i++
			j++
		}
	}
	*v = append(row[:start:len(row)], out...)
	e.blocks = out
}
