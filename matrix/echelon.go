package matrix

// IsRowEchelonForm checks that each nonzero row starts strictly to the right
// of the row above it and that zero rows come last.
func (m *Dense) IsRowEchelonForm() bool {
	prev := -1
	seenZero := false
	for i := 0; i < m.rows; i++ {
		lead := m.LeadingEntry(i)
		if lead < 0 {
			seenZero = true
			continue
		}
		if seenZero || lead <= prev {
			return false
		}
		prev = lead
	}
	return true
}

// IsReducedRowEchelonForm additionally requires every pivot to be one and
// to be the only nonzero entry of its column.
func (m *Dense) IsReducedRowEchelonForm() bool {
	if !m.IsRowEchelonForm() {
		return false
	}
	for i := 0; i < m.rows; i++ {
		lead := m.LeadingEntry(i)
		if lead < 0 {
			break
		}
		if !m.At(i, lead).IsOne() {
			return false
		}
		for k := 0; k < m.rows; k++ {
			if k != i && !m.At(k, lead).IsZero() {
				return false
			}
		}
	}
	return true
}

// PivotColumns returns the leading column of every nonzero row in order.
func (m *Dense) PivotColumns() []int {
	var cols []int
	for i := 0; i < m.rows; i++ {
		if lead := m.LeadingEntry(i); lead >= 0 {
			cols = append(cols, lead)
		}
	}
	return cols
}
