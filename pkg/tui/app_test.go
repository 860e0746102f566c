package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metoxid/metoxid-cli/pkg/metadata"
	"github.com/metoxid/metoxid-cli/pkg/models"
	"github.com/metoxid/metoxid-cli/pkg/tui/testhelpers"
)

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	opts.Logger = zerolog.Nop()
	a, err := NewApp(opts)
	require.NoError(t, err)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	return a
}

func TestAppOpenFileDirectly(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteImage("photo.jpg", testhelpers.NewJPEG().WithComment("c"))

	a := newTestApp(t, Options{OpenFile: path})
	assert.Equal(t, editorView, a.state)
	assert.Equal(t, env.TempDir, a.browser.Dir())
	assert.Equal(t, "photo.jpg", selectedName(a.browser))
}

func TestAppOpenCorruptFileFails(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteFile("broken.jpg", []byte("not an image"))

	_, err := NewApp(Options{OpenFile: path, Logger: zerolog.Nop()})
	var loadErr *metadata.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
}

func TestAppOpenFileMsgFailureIsFatal(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteFile("broken.jpg", []byte("not an image"))

	a := newTestApp(t, Options{Dir: env.TempDir})
	_, cmd := a.Update(OpenFileMsg{Path: path})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	var loadErr *metadata.LoadError
	assert.ErrorAs(t, a.Err(), &loadErr)
	assert.False(t, a.Interrupted())
}

func TestAppBrowseEditAndReturn(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteImage("photo.jpg", testhelpers.NewJPEG().WithComment("old"))
	env.WriteFile("other.txt", []byte("x"))

	a := newTestApp(t, Options{Dir: env.TempDir})
	require.Equal(t, browserView, a.state)

	require.True(t, a.browser.SelectName("photo.jpg"))
	_, cmd := a.Update(keyEnter)
	require.NotNil(t, cmd)
	a.Update(cmd())
	require.Equal(t, editorView, a.state)

	// Expand, attach, append and detach
	for _, msg := range []tea.KeyMsg{keyEnter, keyDown, keyEnter, runeKey("!"), keyEnter} {
		a.Update(msg)
	}
	assert.Equal(t, "old!", a.editor.Store().Comment())

	_, cmd = a.Update(runeKey("q"))
	require.NotNil(t, cmd)
	a.Update(cmd())

	assert.Equal(t, browserView, a.state)
	assert.Nil(t, a.editor)
	assert.Equal(t, "photo.jpg", selectedName(a.browser))
	assert.Equal(t, StatusMsg{Text: "Saved photo.jpg"}, a.statusMsg)
	assert.Contains(t, a.View(), "Saved photo.jpg")

	store, err := metadata.Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "old!", store.Comment())
}

func TestAppSaveErrorShownInBrowser(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteImage("photo.jpg", testhelpers.NewJPEG())

	a := newTestApp(t, Options{Dir: env.TempDir})
	saveErr := &metadata.SaveError{Path: path, Err: &metadata.SectionError{Section: "Exif", Err: assert.AnError}}
	a.Update(EditorClosedMsg{Path: path, Err: saveErr})

	assert.True(t, a.statusMsg.IsError)
	assert.Contains(t, a.View(), "failed to save metadata")
}

func TestAppInterrupt(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	path := env.WriteImage("photo.jpg", testhelpers.NewJPEG().WithComment("old"))

	a := newTestApp(t, Options{OpenFile: path})
	a.Update(keyEnter)
	a.Update(keyDown)
	a.Update(keyEnter)
	a.Update(runeKey("new"))

	_, cmd := a.Update(keyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, a.Interrupted())

	// Nothing was saved
	store, err := metadata.Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "old", store.Comment())
}

func TestAppStatusMessages(t *testing.T) {
	a := newTestApp(t, Options{Dir: t.TempDir()})

	a.Update(StatusMsg{Text: "hello"})
	assert.Contains(t, a.View(), "hello")

	a.Update(StatusMsg{})
	assert.NotContains(t, a.View(), "hello")
}

func TestAppInvalidFilterSetting(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Browser.Filter = "[broken"

	_, err := NewApp(Options{Dir: t.TempDir(), Settings: settings, Logger: zerolog.Nop()})
	assert.Error(t, err)
}
