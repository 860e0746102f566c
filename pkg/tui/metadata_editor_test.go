package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metoxid/metoxid-cli/pkg/metadata"
	"github.com/metoxid/metoxid-cli/pkg/tui/testhelpers"
)

func newTestEditor(t *testing.T, b *testhelpers.ImageBuilder, width, height int) (*MetadataEditorModel, string) {
	t.Helper()
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteImage("photo.jpg", b)

	store, err := metadata.Load(path, zerolog.Nop())
	require.NoError(t, err)

	m := NewMetadataEditorModel(store, DefaultKeyMap(), zerolog.Nop(), false)
	m.SetSize(width, height)
	return m, path
}

func press(m *MetadataEditorModel, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func selectField(t *testing.T, m *MetadataEditorModel, category int, field string) {
	t.Helper()
	m.list.SetExpanded(category, true)
	m.scroll.SetRowCount(m.list.RowCount())
	idx := m.list.IndexOf(RowRef{Kind: RowField, Category: category, Field: field})
	require.GreaterOrEqual(t, idx, 0)
	m.scroll.Reveal(idx)
	m.syncGeometry()
}

func selectedRef(m *MetadataEditorModel) RowRef {
	ref, _ := m.list.ResolveRow(m.scroll.Selected)
	return ref
}

func TestMetadataEditorEditCommentAndSave(t *testing.T) {
	m, path := newTestEditor(t, testhelpers.NewJPEG().
		WithComment("old").
		WithExifASCII(testhelpers.TagMake, "Acme"), 80, 20)

	require.Equal(t, 2, m.list.RowCount())

	// Expanding Comment adds exactly one row
	press(m, keyEnter)
	assert.Equal(t, 3, m.list.RowCount())
	assert.True(t, m.list.Category(0).Expanded)

	press(m, keyDown)
	assert.Equal(t, RowRef{Kind: RowField, Category: 0, Field: metadata.FieldComment}, selectedRef(m))

	cmd := press(m, keyEnter)
	require.True(t, m.editor.IsEditing(0, metadata.FieldComment))
	assert.Equal(t, StatusMsg{Text: "Editing Comment"}, cmd())

	press(m, keyBack, keyBack, keyBack, runeKey("hello"))
	assert.Equal(t, "hello", m.editor.Value())
	assert.Equal(t, "hello", m.store.Comment(), "edits write through immediately")

	press(m, keyEnter)
	assert.False(t, m.editor.IsAttached())

	cmd = press(m, runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, EditorClosedMsg{Path: path}, cmd())

	reloaded, err := metadata.Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "hello", reloaded.Comment())
	assert.Equal(t, "Acme", reloaded.Category(1).Field("Exif.Image.Make").String())
}

func TestMetadataEditorToggleReanchorsSelection(t *testing.T) {
	m, _ := newTestEditor(t, testhelpers.NewJPEG().
		WithComment("c").
		WithExifASCII(testhelpers.TagMake, "Acme").
		WithExifASCII(testhelpers.TagArtist, "Ann"), 80, 20)

	// Expand Exif, then expand Comment above it while Exif's header is selected
	press(m, keyDown, keyEnter)
	require.Equal(t, RowRef{Kind: RowHeader, Category: 1}, selectedRef(m))

	m.setExpanded(0, true)
	assert.Equal(t, 2, m.scroll.Selected, "selection follows the Exif header")
	assert.Equal(t, RowRef{Kind: RowHeader, Category: 1}, selectedRef(m))

	// Left on a field collapses its category and selects the header
	press(m, keyDown)
	require.Equal(t, RowField, selectedRef(m).Kind)
	press(m, keyLeft)
	assert.False(t, m.list.Category(1).Expanded)
	assert.Equal(t, RowRef{Kind: RowHeader, Category: 1}, selectedRef(m))

	press(m, keyRight)
	assert.True(t, m.list.Category(1).Expanded)
}

func TestMetadataEditorCopy(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })

	m, _ := newTestEditor(t, testhelpers.NewJPEG().WithComment("copy me"), 80, 20)

	// Headers have nothing to copy
	assert.Nil(t, press(m, runeKey("y")))

	press(m, keyEnter, keyDown)
	cmd := press(m, runeKey("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, "copy me", copied)
	assert.Equal(t, StatusMsg{Text: "Copied Comment"}, cmd())

	copyToClipboard = func(string) error { return errors.New("no clipboard") }
	cmd = press(m, runeKey("y"))
	status := cmd().(StatusMsg)
	assert.True(t, status.IsError)
	assert.Contains(t, status.Text, "no clipboard")
}

func TestMetadataEditorInvalidValueAsksBeforeSaving(t *testing.T) {
	m, path := newTestEditor(t, testhelpers.NewJPEG().
		WithComment("c").
		WithExifShort(testhelpers.TagOrientation, 1), 80, 20)

	exif := m.store.CategoryIndex(metadata.CategoryExif)
	selectField(t, m, exif, "Exif.Image.Orientation")

	press(m, keyEnter, keyBack)
	cmd := press(m, runeKey("x"))
	require.NotNil(t, cmd)
	status := cmd().(StatusMsg)
	assert.True(t, status.IsError)

	press(m, keyEnter)
	assert.Contains(t, m.View(), "(invalid)")

	assert.Nil(t, press(m, runeKey("q")))
	require.True(t, m.confirm.Active())
	assert.Contains(t, m.View(), "Save anyway?")

	// Declining keeps the editor open
	assert.Nil(t, press(m, runeKey("n")))
	assert.False(t, m.confirm.Active())

	press(m, keyEsc)
	require.True(t, m.confirm.Active())
	cmd = press(m, runeKey("y"))
	require.NotNil(t, cmd)

	closed := cmd().(EditorClosedMsg)
	assert.Equal(t, path, closed.Path)
	var saveErr *metadata.SaveError
	require.ErrorAs(t, closed.Err, &saveErr)
	assert.Equal(t, []string{metadata.CategoryExif}, saveErr.Sections())
}

func TestMetadataEditorView(t *testing.T) {
	m, path := newTestEditor(t, testhelpers.NewJPEG().
		WithComment("first line\nsecond line").
		WithExifASCII(testhelpers.TagMake, "Acme"), 160, 20)

	view := m.View()
	assert.Contains(t, view, "JPEG")
	assert.Contains(t, view, path)
	assert.Contains(t, view, "> Comment (1)")
	assert.Contains(t, view, "> Exif (1)")
	assert.Equal(t, 20, strings.Count(view, "\n")+1)

	press(m, keyDown, keyEnter)
	view = m.View()
	assert.Contains(t, view, "v Exif (1)")
	assert.Contains(t, view, "Exif.Image.Make: Acme")

	press(m, keyUp, keyEnter, keyDown)
	view = m.View()
	assert.Contains(t, view, "> Comment:")
	assert.Contains(t, view, "first line")
	assert.Contains(t, view, "second line")
}

func TestMetadataEditorTallValueFitsViewport(t *testing.T) {
	long := strings.Repeat("0123456789", 20)
	m, _ := newTestEditor(t, testhelpers.NewJPEG().
		WithComment(long).
		WithExifASCII(testhelpers.TagMake, "Acme"), 40, 8)

	press(m, keyEnter, keyDown)
	require.Equal(t, RowField, selectedRef(m).Kind)

	// The selected value needs more lines than the list has, so only its row
	// is scrolled into view
	assert.Equal(t, 1, m.scroll.VisibleRows())
	assert.Equal(t, m.scroll.Selected, m.scroll.Offset)

	view := m.View()
	assert.Equal(t, 8, strings.Count(view, "\n")+1)
	assert.Contains(t, view, "> Comment:")
	assert.NotContains(t, view, "Exif (1)")

	// Editing keeps the cursor line on screen
	press(m, keyEnter)
	require.True(t, m.editor.IsAttached())
	assert.Contains(t, m.View(), "6789")

	press(m, keyEnter, keyUp)
	assert.Equal(t, RowHeader, selectedRef(m).Kind)
	assert.Greater(t, m.scroll.VisibleRows(), 1)
}

func TestMetadataEditorExpandOnOpen(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteImage("photo.jpg", testhelpers.NewJPEG().
		WithComment("c").
		WithExifASCII(testhelpers.TagMake, "Acme").
		WithExifASCII(testhelpers.TagArtist, "Ann"))

	store, err := metadata.Load(path, zerolog.Nop())
	require.NoError(t, err)

	m := NewMetadataEditorModel(store, DefaultKeyMap(), zerolog.Nop(), true)
	assert.Equal(t, 5, m.list.RowCount())
}

func TestRenderFieldRowFit(t *testing.T) {
	f := metadata.NewField("Comment", "abcdef")

	// "  Comment: " is 11 cells, the value 6
	assert.Equal(t, "  Comment: abcdef", stripANSI(renderFieldRow(f, 17)))
	assert.Equal(t, "  Comment: abcd…", stripANSI(renderFieldRow(f, 16)))
	assert.Equal(t, "  Comm…", stripANSI(renderFieldRow(f, 7)))
}

func TestMetadataEditorNarrowFooterKeepsLayout(t *testing.T) {
	const width, height = 40, 12
	m, _ := newTestEditor(t, testhelpers.NewJPEG().WithComment("hi"), width, height)

	selectField(t, m, m.store.CategoryIndex(metadata.CategoryComment), metadata.FieldComment)
	press(m, keyEnter)
	require.True(t, m.editor.IsAttached())

	for _, help := range []bool{false, true} {
		m.help.ShowAll = help
		m.syncGeometry()

		lines := strings.Split(m.View(), "\n")
		assert.Len(t, lines, height, "full help %v", help)
		for i, l := range lines {
			assert.LessOrEqual(t, lipgloss.Width(l), width, "line %d %q", i, stripANSI(l))
		}
	}
}
