package tui

import "unicode"

// CursorMove is a cursor motion inside the field editor.
type CursorMove int

const (
	CursorLeft CursorMove = iota
	CursorRight
	CursorLineUp
	CursorLineDown
)

// FieldEditorState edits one field value in place. The cursor is stored as
// the distance from the end of the buffer, and every change is written
// through to the field immediately.
type FieldEditorState struct {
	buffer        []rune
	cursorFromEnd int
	width         int

	attached bool
	category int
	field    string
	write    func(string) error
}

// NewFieldEditorState creates a detached editor.
func NewFieldEditorState() *FieldEditorState {
	return &FieldEditorState{width: 1}
}

// Attach starts editing value. write receives the full buffer after each
// change.
func (e *FieldEditorState) Attach(category int, field, value string, write func(string) error) {
	e.attached = true
	e.category = category
	e.field = field
	e.buffer = []rune(value)
	e.cursorFromEnd = 0
	e.write = write
}

// Detach stops editing and drops the buffer. The field already holds the
// latest value.
func (e *FieldEditorState) Detach() {
	e.attached = false
	e.category = 0
	e.field = ""
	e.buffer = nil
	e.cursorFromEnd = 0
	e.write = nil
}

// IsAttached reports whether a field is being edited.
func (e *FieldEditorState) IsAttached() bool {
	return e.attached
}

// Target returns the category index and field name being edited.
func (e *FieldEditorState) Target() (int, string) {
	return e.category, e.field
}

// IsEditing reports whether the editor is attached to the given field.
func (e *FieldEditorState) IsEditing(category int, field string) bool {
	return e.attached && e.category == category && e.field == field
}

// Value returns the buffer contents.
func (e *FieldEditorState) Value() string {
	return string(e.buffer)
}

// CursorFromEnd returns the number of runes after the cursor.
func (e *FieldEditorState) CursorFromEnd() int {
	return e.cursorFromEnd
}

// CursorPos returns the cursor as a rune index from the start.
func (e *FieldEditorState) CursorPos() int {
	return len(e.buffer) - e.cursorFromEnd
}

// SetWidth sets the column width used for line moves.
func (e *FieldEditorState) SetWidth(width int) {
	if width < 1 {
		width = 1
	}
	e.width = width
}

// Width returns the column width used for line moves.
func (e *FieldEditorState) Width() int {
	return e.width
}

// MoveCursor moves the cursor and reports whether it moved.
func (e *FieldEditorState) MoveCursor(move CursorMove) bool {
	before := e.cursorFromEnd
	switch move {
	case CursorLeft:
		e.cursorFromEnd++
	case CursorRight:
		e.cursorFromEnd--
	case CursorLineUp:
		e.cursorFromEnd += e.width
	case CursorLineDown:
		e.cursorFromEnd -= e.width
	}
	e.cursorFromEnd = clampInt(e.cursorFromEnd, 0, len(e.buffer))
	return e.cursorFromEnd != before
}

// Insert adds r before the cursor. Control characters are rejected.
func (e *FieldEditorState) Insert(r rune) (bool, error) {
	if !e.attached || !insertable(r) {
		return false, nil
	}
	pos := e.CursorPos()
	e.buffer = append(e.buffer, 0)
	copy(e.buffer[pos+1:], e.buffer[pos:])
	e.buffer[pos] = r
	return true, e.commit()
}

// Delete removes the rune before the cursor.
func (e *FieldEditorState) Delete() (bool, error) {
	if !e.attached || len(e.buffer) == 0 || e.cursorFromEnd == len(e.buffer) {
		return false, nil
	}
	pos := e.CursorPos()
	e.buffer = append(e.buffer[:pos-1], e.buffer[pos:]...)
	return true, e.commit()
}

func (e *FieldEditorState) commit() error {
	if e.write == nil {
		return nil
	}
	return e.write(string(e.buffer))
}

// insertable accepts printable runes. A plain space is the only whitespace.
func insertable(r rune) bool {
	if r == ' ' {
		return true
	}
	if unicode.IsControl(r) || unicode.IsSpace(r) {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) ||
		unicode.IsSymbol(r) || unicode.IsMark(r)
}
