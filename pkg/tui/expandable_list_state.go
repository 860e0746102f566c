package tui

import (
	"sort"

	"github.com/metoxid/metoxid-cli/pkg/metadata"
)

// RowKind tells category header rows from field rows.
type RowKind int

const (
	RowHeader RowKind = iota
	RowField
)

// RowRef addresses a logical row by tree coordinates instead of by flat index.
type RowRef struct {
	Kind     RowKind
	Category int
	Field    string // empty for header rows
}

// ExpandableList is the flat row projection of a category tree: every
// category header, followed by the fields of the expanded ones.
type ExpandableList struct {
	categories []*metadata.Category

	// starts[i] is the flat index of category i's header; the last entry is
	// the row count.
	starts []int
}

// NewExpandableList creates the projection over categories. The slice is
// shared, expansion flags live on the categories themselves.
func NewExpandableList(categories []*metadata.Category) *ExpandableList {
	l := &ExpandableList{categories: categories}
	l.rebuild()
	return l
}

func (l *ExpandableList) rebuild() {
	l.starts = make([]int, len(l.categories)+1)
	for i, c := range l.categories {
		span := 1
		if c.Expanded {
			span += c.Len()
		}
		l.starts[i+1] = l.starts[i] + span
	}
}

// RowCount returns headers plus fields of expanded categories.
func (l *ExpandableList) RowCount() int {
	return l.starts[len(l.categories)]
}

// CategoryCount returns the number of categories.
func (l *ExpandableList) CategoryCount() int {
	return len(l.categories)
}

// Category returns category i, or nil.
func (l *ExpandableList) Category(i int) *metadata.Category {
	if i < 0 || i >= len(l.categories) {
		return nil
	}
	return l.categories[i]
}

// ToggleExpand flips the expansion of category i and returns the change in
// row count.
func (l *ExpandableList) ToggleExpand(i int) int {
	c := l.Category(i)
	if c == nil {
		return 0
	}
	return l.SetExpanded(i, !c.Expanded)
}

// SetExpanded sets the expansion of category i and returns the change in row
// count.
func (l *ExpandableList) SetExpanded(i int, expanded bool) int {
	c := l.Category(i)
	if c == nil || c.Expanded == expanded {
		return 0
	}
	before := l.RowCount()
	c.Expanded = expanded
	l.rebuild()
	return l.RowCount() - before
}

// ExpandAll sets every category to the same expansion state.
func (l *ExpandableList) ExpandAll(expanded bool) {
	for _, c := range l.categories {
		c.Expanded = expanded
	}
	l.rebuild()
}

// ResolveRow maps a flat index to its header or field. It walks category
// boundaries, so a field row whose header is scrolled away still resolves
// to its owning category.
func (l *ExpandableList) ResolveRow(index int) (RowRef, bool) {
	if index < 0 || index >= l.RowCount() {
		return RowRef{}, false
	}
	cat := sort.Search(len(l.categories), func(i int) bool {
		return l.starts[i+1] > index
	})
	within := index - l.starts[cat]
	if within == 0 {
		return RowRef{Kind: RowHeader, Category: cat}, true
	}
	f := l.categories[cat].FieldAt(within - 1)
	return RowRef{Kind: RowField, Category: cat, Field: f.Name}, true
}

// IndexOf is the inverse of ResolveRow. A field of a collapsed category
// maps to its header; unknown references return -1.
func (l *ExpandableList) IndexOf(ref RowRef) int {
	c := l.Category(ref.Category)
	if c == nil {
		return -1
	}
	header := l.starts[ref.Category]
	if ref.Kind == RowHeader || !c.Expanded {
		return header
	}
	j := c.Index(ref.Field)
	if j < 0 {
		return header
	}
	return header + 1 + j
}

// HeaderIndex returns the flat index of category i's header.
func (l *ExpandableList) HeaderIndex(i int) int {
	if i < 0 || i >= len(l.categories) {
		return -1
	}
	return l.starts[i]
}

// Field returns the field a row points at, or nil for headers.
func (l *ExpandableList) Field(ref RowRef) *metadata.Field {
	if ref.Kind != RowField {
		return nil
	}
	c := l.Category(ref.Category)
	if c == nil {
		return nil
	}
	return c.Field(ref.Field)
}
