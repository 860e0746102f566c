package tui

// ScrollState tracks the selected row and the first drawn row of a list
// whose viewport height can change between frames.
//
// After every operation Offset <= Selected <= Offset+visibleRows-1 holds,
// and both are 0 for an empty list.
type ScrollState struct {
	Selected int
	Offset   int

	rowCount    int
	visibleRows int
}

// NewScrollState creates a scroll state for rowCount rows.
func NewScrollState(rowCount int) *ScrollState {
	s := &ScrollState{visibleRows: 1}
	s.SetRowCount(rowCount)
	return s
}

// RowCount returns the number of rows the state is clamped against.
func (s *ScrollState) RowCount() int {
	return s.rowCount
}

// VisibleRows returns the viewport height in rows.
func (s *ScrollState) VisibleRows() int {
	return s.visibleRows
}

// MoveSelection moves the selection by delta rows. Moves leaving the list
// are ignored. Passing a viewport edge scrolls by exactly one row.
func (s *ScrollState) MoveSelection(delta int) bool {
	next := s.Selected + delta
	if delta == 0 || next < 0 || next >= s.rowCount {
		return false
	}
	s.Selected = next

	switch {
	case s.Selected == s.Offset-1:
		s.Offset--
	case s.Selected == s.Offset+s.visibleRows:
		s.Offset++
	}
	s.clamp()
	return true
}

// OnGeometryChange sets the viewport height. Heights below one row count as
// one row.
func (s *ScrollState) OnGeometryChange(visibleRows int) {
	if visibleRows < 1 {
		visibleRows = 1
	}
	s.visibleRows = visibleRows
	s.clamp()
}

// SetRowCount updates the number of rows, e.g. after a category toggle.
func (s *ScrollState) SetRowCount(n int) {
	if n < 0 {
		n = 0
	}
	s.rowCount = n
	s.clamp()
}

// Reanchor moves selection and offset to new indices, typically the indices
// the previous rows moved to after a toggle.
func (s *ScrollState) Reanchor(selected, offset int) {
	s.Selected = selected
	s.Offset = offset
	s.clamp()
}

// Reveal selects index and scrolls as many rows as needed to show it.
func (s *ScrollState) Reveal(index int) {
	s.Selected = index
	s.clamp()
}

// Reset puts the selection back on the first row.
func (s *ScrollState) Reset() {
	s.Selected = 0
	s.Offset = 0
	s.clamp()
}

// clamp restores the invariants. The offset is pulled back when rows under
// the viewport disappeared, then scrolled as far as needed to reveal the
// selection.
func (s *ScrollState) clamp() {
	if s.rowCount == 0 {
		s.Selected, s.Offset = 0, 0
		return
	}
	s.Selected = clampInt(s.Selected, 0, s.rowCount-1)
	s.Offset = clampInt(s.Offset, 0, s.rowCount-1)

	if last := s.rowCount - s.visibleRows; s.Offset > last {
		s.Offset = max(last, 0)
	}
	if s.Selected < s.Offset {
		s.Offset = s.Selected
	}
	if s.Selected > s.Offset+s.visibleRows-1 {
		s.Offset = s.Selected - s.visibleRows + 1
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
