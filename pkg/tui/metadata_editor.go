package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/metoxid/metoxid-cli/pkg/metadata"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// EditorClosedMsg is sent once the editor saved its file and wants to hand
// control back to the browser. Err holds the save failure, if any.
type EditorClosedMsg struct {
	Path string
	Err  error
}

// MetadataEditorModel shows the categories of one file as an expandable list
// and edits field values inline.
type MetadataEditorModel struct {
	store   *metadata.Store
	list    *ExpandableList
	scroll  *ScrollState
	editor  *FieldEditorState
	confirm *ConfirmationModel
	keys    KeyMap
	help    help.Model
	log     zerolog.Logger

	width  int
	height int
}

// NewMetadataEditorModel creates an editor over store.
func NewMetadataEditorModel(store *metadata.Store, keys KeyMap, log zerolog.Logger, expandOnOpen bool) *MetadataEditorModel {
	list := NewExpandableList(store.Categories())
	if expandOnOpen {
		list.ExpandAll(true)
	}
	m := &MetadataEditorModel{
		store:   store,
		list:    list,
		scroll:  NewScrollState(list.RowCount()),
		editor:  NewFieldEditorState(),
		confirm: NewConfirmation(),
		keys:    keys,
		help:    help.New(),
		log:     log,
	}
	m.syncGeometry()
	return m
}

// Store returns the edited store.
func (m *MetadataEditorModel) Store() *metadata.Store {
	return m.store
}

// SetSize updates the model's dimensions
func (m *MetadataEditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = m.contentWidth()
	m.syncGeometry()
}

func (m *MetadataEditorModel) contentWidth() int {
	return max(m.width-2, 1)
}

// valueWidth is the wrap width of an expanded value and the line length the
// editor moves by.
func (m *MetadataEditorModel) valueWidth() int {
	return max(m.contentWidth()-4, 1)
}

func (m *MetadataEditorModel) footer() string {
	if m.confirm.Active() {
		return renderFooter(m.confirm.ViewWithWidth(m.contentWidth()), m.contentWidth())
	}
	return renderFooter(m.help.View(m.keys.EditorHelp(m.editor.IsAttached())), m.contentWidth())
}

func (m *MetadataEditorModel) listHeight() int {
	return max(m.height-headerHeight-lipgloss.Height(m.footer()), 1)
}

// selectedValueLines returns the wrapped value lines of the selected row, or
// nil when a header is selected.
func (m *MetadataEditorModel) selectedValueLines() []string {
	ref, ok := m.list.ResolveRow(m.scroll.Selected)
	if !ok || ref.Kind != RowField {
		return nil
	}
	r := NewInputRenderer(m.valueWidth())
	if m.editor.IsEditing(ref.Category, ref.Field) {
		return r.RenderValue(m.editor.Value(), m.editor.CursorPos(), true)
	}
	f := m.list.Field(ref)
	if f == nil {
		return nil
	}
	return r.RenderValue(f.String(), 0, false)
}

// syncGeometry gives the scroller the number of rows that fit once the
// selected field has been unfolded over several lines.
func (m *MetadataEditorModel) syncGeometry() {
	m.editor.SetWidth(m.valueWidth())
	rows := m.listHeight() - len(m.selectedValueLines())
	m.scroll.OnGeometryChange(rows)
}

func (m *MetadataEditorModel) Init() tea.Cmd {
	return nil
}

func (m *MetadataEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirm.Active() {
		cmd := m.confirm.Update(keyMsg)
		m.syncGeometry()
		return m, cmd
	}

	if m.editor.IsAttached() {
		return m, m.handleEditing(keyMsg)
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.scroll.MoveSelection(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.scroll.MoveSelection(1)
	case key.Matches(keyMsg, m.keys.Enter):
		cmd = m.activate()
	case key.Matches(keyMsg, m.keys.Left):
		if ref, ok := m.list.ResolveRow(m.scroll.Selected); ok {
			m.setExpanded(ref.Category, false)
		}
	case key.Matches(keyMsg, m.keys.Right):
		if ref, ok := m.list.ResolveRow(m.scroll.Selected); ok && ref.Kind == RowHeader {
			m.setExpanded(ref.Category, true)
		}
	case key.Matches(keyMsg, m.keys.Copy):
		cmd = m.copySelected()
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Quit), key.Matches(keyMsg, m.keys.Back):
		cmd = m.requestClose()
	}
	m.syncGeometry()
	return m, cmd
}

func (m *MetadataEditorModel) handleEditing(msg tea.KeyMsg) tea.Cmd {
	category, field := m.editor.Target()
	res := HandleFieldEditorInput(m.editor, m.keys, msg)
	if res.Detach {
		m.editor.Detach()
	}
	m.syncGeometry()

	if res.Err != nil {
		m.log.Debug().Err(res.Err).Str("field", field).Msg("Invalid field value")
		return errorStatus(fmt.Errorf("%s: %w", field, res.Err))
	}
	if res.Detach {
		c := m.list.Category(category)
		if c != nil {
			if f := c.Field(field); f != nil && f.Err() != nil {
				return errorStatus(fmt.Errorf("%s: %w", field, f.Err()))
			}
		}
		return clearStatus()
	}
	if res.Changed {
		return clearStatus()
	}
	return nil
}

// activate toggles a header or attaches the editor to a field.
func (m *MetadataEditorModel) activate() tea.Cmd {
	ref, ok := m.list.ResolveRow(m.scroll.Selected)
	if !ok {
		return nil
	}
	if ref.Kind == RowHeader {
		m.toggle(ref.Category)
		return nil
	}

	f := m.list.Field(ref)
	if f == nil {
		return nil
	}
	if !f.Editable() {
		return errorStatus(fmt.Errorf("%s: %w", f.Name, metadata.ErrReadOnly))
	}

	category, name := ref.Category, ref.Field
	m.editor.Attach(category, name, f.String(), func(text string) error {
		return m.store.SetFieldValue(category, name, text)
	})
	return infoStatus("Editing " + name)
}

func (m *MetadataEditorModel) toggle(category int) {
	c := m.list.Category(category)
	if c == nil {
		return
	}
	m.setExpanded(category, !c.Expanded)
}

// setExpanded changes one category and keeps selection and offset on the
// rows they pointed at.
func (m *MetadataEditorModel) setExpanded(category int, expanded bool) {
	selRef, selOK := m.list.ResolveRow(m.scroll.Selected)
	offRef, offOK := m.list.ResolveRow(m.scroll.Offset)

	if m.list.SetExpanded(category, expanded) == 0 {
		return
	}
	m.scroll.SetRowCount(m.list.RowCount())

	sel, off := m.scroll.Selected, m.scroll.Offset
	if selOK {
		sel = m.list.IndexOf(selRef)
	}
	if offOK {
		off = m.list.IndexOf(offRef)
	}
	m.scroll.Reanchor(sel, off)
}

func (m *MetadataEditorModel) copySelected() tea.Cmd {
	ref, ok := m.list.ResolveRow(m.scroll.Selected)
	if !ok {
		return nil
	}
	f := m.list.Field(ref)
	if f == nil {
		return nil
	}
	if err := copyToClipboard(f.String()); err != nil {
		return errorStatus(fmt.Errorf("failed to copy to clipboard: %w", err))
	}
	return infoStatus("Copied " + f.Name)
}

// requestClose saves and leaves, asking first when some values would be
// rejected by the save.
func (m *MetadataEditorModel) requestClose() tea.Cmd {
	invalid := m.store.InvalidFields()
	if len(invalid) == 0 {
		return m.save()
	}
	m.confirm.Show(Prompt{
		Message: fmt.Sprintf("%d invalid value(s) will not be saved. Save anyway?", len(invalid)),
		Details: invalid,
	}, m.save, nil)
	return nil
}

func (m *MetadataEditorModel) save() tea.Cmd {
	path := m.store.Path()
	err := m.store.Save()
	return func() tea.Msg {
		return EditorClosedMsg{Path: path, Err: err}
	}
}
