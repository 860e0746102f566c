package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metoxid/metoxid-cli/pkg/files"
	"github.com/metoxid/metoxid-cli/pkg/models"
	"github.com/metoxid/metoxid-cli/pkg/tui/testhelpers"
)

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestBrowser(t *testing.T, settings models.BrowserSettings) *DirectoryBrowserModel {
	t.Helper()
	lister, err := files.NewLister(settings)
	require.NoError(t, err)
	b := NewDirectoryBrowserModel(lister, DefaultKeyMap(), zerolog.Nop())
	b.SetSize(80, 20)
	return b
}

func selectedName(b *DirectoryBrowserModel) string {
	e, _ := b.Selected()
	return e.Name
}

func TestBrowserNavigation(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.Mkdir("photos")
	env.WriteImage("photos/a.jpg", testhelpers.NewJPEG())
	env.WriteFile("notes.txt", []byte("x"))

	b := newTestBrowser(t, models.BrowserSettings{DirsFirst: true})
	require.NoError(t, b.Load(env.TempDir))

	assert.Equal(t, env.TempDir, b.Dir())
	assert.Equal(t, "..", selectedName(b))

	b.Update(keyDown)
	assert.Equal(t, "photos", selectedName(b))

	_, cmd := b.Update(keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, env.Path("photos"), b.Dir())
	assert.Equal(t, "..", selectedName(b), "entering a directory selects its first entry")

	// Parent key returns and reselects the directory we came from
	b.Update(keyBack)
	assert.Equal(t, env.TempDir, b.Dir())
	assert.Equal(t, "photos", selectedName(b))

	// ".." behaves like the parent key
	b.Update(keyEnter)
	assert.Equal(t, env.Path("photos"), b.Dir())
	b.Update(keyEnter)
	assert.Equal(t, env.TempDir, b.Dir())
	assert.Equal(t, "photos", selectedName(b))
}

func TestBrowserOpenFile(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteImage("a.jpg", testhelpers.NewJPEG())

	b := newTestBrowser(t, models.BrowserSettings{})
	require.NoError(t, b.Load(env.TempDir))
	require.True(t, b.SelectName("a.jpg"))

	_, cmd := b.Update(keyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, OpenFileMsg{Path: path}, cmd())
}

func TestBrowserToggleHidden(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.WriteFile(".secret.jpg", []byte("x"))
	env.WriteFile("visible.jpg", []byte("x"))

	b := newTestBrowser(t, models.BrowserSettings{})
	require.NoError(t, b.Load(env.TempDir))
	b.SelectName("visible.jpg")
	assert.Len(t, b.Entries(), 2)

	_, cmd := b.Update(runeKey("."))
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg{Text: "Showing hidden files"}, cmd())
	assert.Len(t, b.Entries(), 3)
	assert.Equal(t, "visible.jpg", selectedName(b), "selection follows the entry")

	b.Update(runeKey("."))
	assert.Len(t, b.Entries(), 2)
}

func TestBrowserScrollsLongListing(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		env.WriteFile(name+".jpg", []byte("x"))
	}

	b := newTestBrowser(t, models.BrowserSettings{})
	b.SetSize(80, 8)
	require.NoError(t, b.Load(env.TempDir))

	for i := 0; i < 12; i++ {
		b.Update(keyDown)
	}
	assert.Equal(t, "l.jpg", selectedName(b))
	assert.Contains(t, b.View(), "l.jpg")
	assert.NotContains(t, b.View(), "a.jpg")

	b.Update(keyDown)
	assert.Equal(t, "l.jpg", selectedName(b), "moving past the end is ignored")
}

func TestBrowserLoadErrorKeepsListing(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.WriteFile("a.jpg", []byte("x"))

	b := newTestBrowser(t, models.BrowserSettings{})
	require.NoError(t, b.Load(env.TempDir))

	err := b.Load(filepath.Join(env.TempDir, "missing"))
	assert.Error(t, err)
	assert.Equal(t, env.TempDir, b.Dir())
	assert.Len(t, b.Entries(), 2)
}

func TestBrowserView(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.Mkdir("sub")
	env.WriteFile("a.jpg", []byte("xyz"))

	b := newTestBrowser(t, models.BrowserSettings{DirsFirst: true})
	require.NoError(t, b.Load(env.TempDir))

	view := b.View()
	assert.Contains(t, view, "metoxid")
	assert.Contains(t, view, "sub/")
	assert.Contains(t, view, "a.jpg")
	assert.Contains(t, view, "3 B")
	assert.Contains(t, view, "> ..")
}

func TestBrowserQuit(t *testing.T) {
	b := newTestBrowser(t, models.BrowserSettings{})
	require.NoError(t, b.Load(t.TempDir()))

	_, cmd := b.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBrowserNarrowFooter(t *testing.T) {
	b := newTestBrowser(t, models.BrowserSettings{})
	require.NoError(t, b.Load(t.TempDir()))
	b.SetSize(30, 10)

	lines := strings.Split(b.View(), "\n")
	assert.Len(t, lines, 10)
	for i, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 30, "line %d %q", i, stripANSI(l))
	}
}
