package tui

import (
	"math/rand"
	"testing"
)

func checkScrollInvariant(t *testing.T, s *ScrollState, context string) {
	t.Helper()

	if s.RowCount() == 0 {
		if s.Selected != 0 || s.Offset != 0 {
			t.Fatalf("%s: empty list has Selected=%d Offset=%d", context, s.Selected, s.Offset)
		}
		return
	}
	if s.Selected < 0 || s.Selected >= s.RowCount() {
		t.Fatalf("%s: Selected=%d outside [0,%d)", context, s.Selected, s.RowCount())
	}
	if s.Offset < 0 || s.Offset >= s.RowCount() {
		t.Fatalf("%s: Offset=%d outside [0,%d)", context, s.Offset, s.RowCount())
	}
	if s.Selected < s.Offset || s.Selected > s.Offset+s.VisibleRows()-1 {
		t.Fatalf("%s: Selected=%d not visible in [%d,%d]", context, s.Selected, s.Offset, s.Offset+s.VisibleRows()-1)
	}
}

func TestScrollStateMoveSelection(t *testing.T) {
	s := NewScrollState(10)
	s.OnGeometryChange(3)

	if s.MoveSelection(-1) {
		t.Error("moving above the first row should be ignored")
	}

	for i := 1; i <= 3; i++ {
		if !s.MoveSelection(1) {
			t.Fatalf("move %d failed", i)
		}
	}
	if s.Selected != 3 || s.Offset != 1 {
		t.Errorf("after 3 moves: Selected=%d Offset=%d, want 3/1", s.Selected, s.Offset)
	}

	for s.MoveSelection(1) {
	}
	if s.Selected != 9 || s.Offset != 7 {
		t.Errorf("at bottom: Selected=%d Offset=%d, want 9/7", s.Selected, s.Offset)
	}
	if s.MoveSelection(1) {
		t.Error("moving past the last row should be ignored")
	}

	s.MoveSelection(-1)
	s.MoveSelection(-1)
	s.MoveSelection(-1)
	if s.Selected != 6 || s.Offset != 6 {
		t.Errorf("scrolling up: Selected=%d Offset=%d, want 6/6", s.Selected, s.Offset)
	}
}

func TestScrollStateEmpty(t *testing.T) {
	s := NewScrollState(0)
	s.OnGeometryChange(5)

	if s.MoveSelection(1) || s.MoveSelection(-1) {
		t.Error("moves on an empty list should be ignored")
	}
	checkScrollInvariant(t, s, "empty")

	s.SetRowCount(3)
	checkScrollInvariant(t, s, "grown")
	s.SetRowCount(0)
	checkScrollInvariant(t, s, "shrunk")
}

func TestScrollStateGeometryChange(t *testing.T) {
	tests := []struct {
		name           string
		rows           int
		visible        int
		selected       int
		newVisible     int
		expectedOffset int
	}{
		{"shrink keeps selection visible", 20, 10, 9, 4, 6},
		{"zero height counts as one", 20, 10, 5, 0, 5},
		{"grow pulls offset back to fill", 20, 5, 19, 10, 10},
		{"grow past row count", 5, 2, 4, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScrollState(tt.rows)
			s.OnGeometryChange(tt.visible)
			s.Reveal(tt.selected)

			s.OnGeometryChange(tt.newVisible)
			if s.Selected != tt.selected {
				t.Errorf("Selected = %d, want %d", s.Selected, tt.selected)
			}
			if s.Offset != tt.expectedOffset {
				t.Errorf("Offset = %d, want %d", s.Offset, tt.expectedOffset)
			}
			checkScrollInvariant(t, s, tt.name)
		})
	}
}

func TestScrollStateSetRowCountClamps(t *testing.T) {
	s := NewScrollState(30)
	s.OnGeometryChange(10)
	s.Reveal(25)

	s.SetRowCount(12)
	if s.Selected != 11 {
		t.Errorf("Selected = %d, want 11", s.Selected)
	}
	if s.Offset != 2 {
		t.Errorf("Offset = %d, want 2", s.Offset)
	}
}

func TestScrollStateReanchor(t *testing.T) {
	s := NewScrollState(20)
	s.OnGeometryChange(5)

	s.Reanchor(12, 10)
	if s.Selected != 12 || s.Offset != 10 {
		t.Errorf("Reanchor kept Selected=%d Offset=%d, want 12/10", s.Selected, s.Offset)
	}

	s.Reanchor(2, 10)
	if s.Offset != 2 {
		t.Errorf("selection above viewport: Offset = %d, want 2", s.Offset)
	}

	s.Reset()
	if s.Selected != 0 || s.Offset != 0 {
		t.Errorf("Reset: Selected=%d Offset=%d", s.Selected, s.Offset)
	}
}

func TestScrollStateInvariantUnderInterleavings(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewScrollState(0)

	for step := 0; step < 5000; step++ {
		switch rng.Intn(5) {
		case 0, 1:
			s.MoveSelection(rng.Intn(3) - 1)
		case 2:
			s.SetRowCount(rng.Intn(40))
		case 3:
			s.OnGeometryChange(rng.Intn(15) - 2)
		case 4:
			s.Reanchor(rng.Intn(50)-5, rng.Intn(50)-5)
		}
		checkScrollInvariant(t, s, "random step")
	}
}
