package tui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/metoxid/metoxid-cli/pkg/files"
	"github.com/metoxid/metoxid-cli/pkg/models"
)

// OpenFileMsg asks the app to open a file in the metadata editor.
type OpenFileMsg struct {
	Path string
}

// DirectoryBrowserModel lists one directory and lets the user walk the tree.
type DirectoryBrowserModel struct {
	dir     string
	entries []models.Entry
	lister  *files.Lister
	scroll  *ScrollState
	keys    KeyMap
	help    help.Model
	log     zerolog.Logger

	width  int
	height int
}

// NewDirectoryBrowserModel creates a browser with nothing loaded yet.
func NewDirectoryBrowserModel(lister *files.Lister, keys KeyMap, log zerolog.Logger) *DirectoryBrowserModel {
	return &DirectoryBrowserModel{
		lister: lister,
		scroll: NewScrollState(0),
		keys:   keys,
		help:   help.New(),
		log:    log,
	}
}

// Load lists dir and selects its first entry. On failure the previous
// listing stays on screen.
func (m *DirectoryBrowserModel) Load(dir string) error {
	entries, err := m.lister.List(dir)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	m.dir = abs
	m.entries = entries
	m.scroll.SetRowCount(len(entries))
	m.scroll.Reset()
	m.syncGeometry()

	m.log.Debug().Str("dir", abs).Int("entries", len(entries)).Msg("Listed directory")
	return nil
}

// Dir returns the directory being shown.
func (m *DirectoryBrowserModel) Dir() string {
	return m.dir
}

// Entries returns the current listing.
func (m *DirectoryBrowserModel) Entries() []models.Entry {
	return m.entries
}

// Selected returns the entry under the selection.
func (m *DirectoryBrowserModel) Selected() (models.Entry, bool) {
	if len(m.entries) == 0 {
		return models.Entry{}, false
	}
	return m.entries[m.scroll.Selected], true
}

// SelectName moves the selection to the entry called name.
func (m *DirectoryBrowserModel) SelectName(name string) bool {
	for i, e := range m.entries {
		if e.Name == name && !e.IsParent {
			m.scroll.Reveal(i)
			return true
		}
	}
	return false
}

// SetSize updates the model's dimensions
func (m *DirectoryBrowserModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = m.contentWidth()
	m.syncGeometry()
}

func (m *DirectoryBrowserModel) contentWidth() int {
	return max(m.width-2, 1)
}

func (m *DirectoryBrowserModel) footer() string {
	return renderFooter(m.help.View(m.keys.BrowserHelp()), m.contentWidth())
}

func (m *DirectoryBrowserModel) listHeight() int {
	h := m.height - headerHeight - lipgloss.Height(m.footer())
	return max(h, 1)
}

func (m *DirectoryBrowserModel) syncGeometry() {
	m.scroll.OnGeometryChange(m.listHeight())
}

func (m *DirectoryBrowserModel) Init() tea.Cmd {
	return nil
}

func (m *DirectoryBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.scroll.MoveSelection(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.scroll.MoveSelection(1)
	case key.Matches(keyMsg, m.keys.Enter):
		return m, m.open()
	case key.Matches(keyMsg, m.keys.Parent):
		return m, m.parent()
	case key.Matches(keyMsg, m.keys.ToggleHidden):
		return m, m.toggleHidden()
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.syncGeometry()
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *DirectoryBrowserModel) open() tea.Cmd {
	entry, ok := m.Selected()
	if !ok {
		return nil
	}
	if !entry.IsDir {
		path := entry.Path
		return func() tea.Msg { return OpenFileMsg{Path: path} }
	}
	if entry.IsParent {
		return m.parent()
	}
	if err := m.Load(entry.Path); err != nil {
		return errorStatus(err)
	}
	return nil
}

func (m *DirectoryBrowserModel) parent() tea.Cmd {
	parent := filepath.Dir(m.dir)
	if parent == m.dir {
		return nil
	}
	from := filepath.Base(m.dir)
	if err := m.Load(parent); err != nil {
		return errorStatus(err)
	}
	m.SelectName(from)
	return nil
}

func (m *DirectoryBrowserModel) toggleHidden() tea.Cmd {
	var selected string
	if entry, ok := m.Selected(); ok {
		selected = entry.Name
	}

	m.lister.ShowHidden = !m.lister.ShowHidden
	if err := m.Load(m.dir); err != nil {
		m.lister.ShowHidden = !m.lister.ShowHidden
		return errorStatus(err)
	}
	m.SelectName(selected)

	if m.lister.ShowHidden {
		return infoStatus("Showing hidden files")
	}
	return infoStatus("Hiding hidden files")
}
