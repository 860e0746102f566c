package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/metoxid/metoxid-cli/pkg/files"
	"github.com/metoxid/metoxid-cli/pkg/metadata"
	"github.com/metoxid/metoxid-cli/pkg/models"
)

type sessionState int

const (
	browserView sessionState = iota
	editorView
)

// Options configures a new App.
type Options struct {
	// Dir is browsed on start. Defaults to the working directory.
	Dir string
	// OpenFile, when set, is opened in the editor right away and Dir
	// defaults to its parent.
	OpenFile string
	Settings *models.Settings
	Logger   zerolog.Logger
}

type App struct {
	state    sessionState
	browser  *DirectoryBrowserModel
	editor   *MetadataEditorModel
	settings *models.Settings
	keys     KeyMap
	log      zerolog.Logger

	width     int
	height    int
	statusMsg StatusMsg

	err         error
	interrupted bool
}

// NewApp builds the app. A file that cannot be opened is returned as a
// *metadata.LoadError.
func NewApp(opts Options) (*App, error) {
	settings := opts.Settings
	if settings == nil {
		settings = models.DefaultSettings()
	}

	lister, err := files.NewLister(settings.Browser)
	if err != nil {
		return nil, err
	}

	a := &App{
		state:    browserView,
		settings: settings,
		keys:     DefaultKeyMap(),
		log:      opts.Logger,
	}
	a.browser = NewDirectoryBrowserModel(lister, a.keys, a.log)

	dir := opts.Dir
	if dir == "" && opts.OpenFile != "" {
		dir = filepath.Dir(opts.OpenFile)
	}
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	if err := a.browser.Load(dir); err != nil {
		return nil, err
	}

	if opts.OpenFile != "" {
		a.browser.SelectName(filepath.Base(opts.OpenFile))
		if err := a.openEditor(opts.OpenFile); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) openEditor(path string) error {
	store, err := metadata.Load(path, a.log)
	if err != nil {
		return err
	}
	a.editor = NewMetadataEditorModel(store, a.keys, a.log, a.settings.Editor.ExpandOnOpen)
	a.editor.SetSize(a.width, a.contentHeight())
	a.state = editorView
	a.statusMsg = StatusMsg{}
	return nil
}

// Err returns the fatal error that ended the program, if any.
func (a *App) Err() error {
	return a.err
}

// Interrupted reports whether the user aborted with ctrl+c.
func (a *App) Interrupted() bool {
	return a.interrupted
}

// contentHeight leaves one line for the status bar.
func (a *App) contentHeight() int {
	return max(a.height-1, 0)
}

func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Pass window size to all sub-models
		a.browser.SetSize(a.width, a.contentHeight())
		if a.editor != nil {
			a.editor.SetSize(a.width, a.contentHeight())
		}
		return a, nil

	case tea.KeyMsg:
		// Global keybindings
		if key.Matches(msg, a.keys.Interrupt) {
			a.interrupted = true
			a.log.Warn().Msg("Interrupted, discarding unsaved edits")
			return a, tea.Quit
		}

	case StatusMsg:
		a.statusMsg = msg
		return a, nil

	case OpenFileMsg:
		if err := a.openEditor(msg.Path); err != nil {
			a.log.Error().Err(err).Str("path", msg.Path).Msg("Failed to open file")
			a.err = err
			return a, tea.Quit
		}
		return a, nil

	case EditorClosedMsg:
		return a, a.closeEditor(msg)
	}

	// Route updates to the active view
	var cmd tea.Cmd
	switch a.state {
	case browserView:
		var m tea.Model
		m, cmd = a.browser.Update(msg)
		if b, ok := m.(*DirectoryBrowserModel); ok {
			a.browser = b
		}
	case editorView:
		var m tea.Model
		m, cmd = a.editor.Update(msg)
		if e, ok := m.(*MetadataEditorModel); ok {
			a.editor = e
		}
	}

	return a, cmd
}

// closeEditor returns to the browser at the file's directory with the file
// selected.
func (a *App) closeEditor(msg EditorClosedMsg) tea.Cmd {
	a.editor = nil
	a.state = browserView

	if err := a.browser.Load(filepath.Dir(msg.Path)); err != nil {
		a.log.Error().Err(err).Msg("Failed to reload directory")
	}
	a.browser.SelectName(filepath.Base(msg.Path))

	if msg.Err != nil {
		var saveErr *metadata.SaveError
		if errors.As(msg.Err, &saveErr) {
			a.log.Error().Strs("sections", saveErr.Sections()).Msg("Save incomplete")
		}
		a.statusMsg = StatusMsg{Text: msg.Err.Error(), IsError: true}
		return nil
	}
	a.statusMsg = StatusMsg{Text: "Saved " + filepath.Base(msg.Path)}
	return nil
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var content string
	switch a.state {
	case browserView:
		content = a.browser.View()
	case editorView:
		content = a.editor.View()
	default:
		content = "Unknown view"
	}

	return content + "\n" + a.renderStatus()
}

func (a *App) renderStatus() string {
	if a.statusMsg.Text == "" {
		return ""
	}
	text := a.statusMsg.Text
	if a.statusMsg.IsError {
		return ContentPaddingStyle.Render(GetStatusStyle(true).Render("✗ " + text))
	}
	return StatusBarStyle.Render(text)
}

// StatusMsg sets the status bar. An empty text clears it.
type StatusMsg struct {
	Text    string
	IsError bool
}

func infoStatus(text string) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func errorStatus(err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: err.Error(), IsError: true} }
}

func clearStatus() tea.Cmd {
	return func() tea.Msg { return StatusMsg{} }
}
