package models

// Settings represents the application configuration
type Settings struct {
	Browser BrowserSettings `yaml:"browser"`
	Editor  EditorSettings  `yaml:"editor"`
	Log     LogSettings     `yaml:"log"`
}

// BrowserSettings controls the directory listing
type BrowserSettings struct {
	ShowHidden bool   `yaml:"show_hidden"`
	DirsFirst  bool   `yaml:"dirs_first"`
	Filter     string `yaml:"filter"` // glob applied to file names, e.g. "*.{jpg,jpeg,png}"
}

// EditorSettings controls the metadata editor
type EditorSettings struct {
	ExpandOnOpen bool `yaml:"expand_on_open"`
}

// LogSettings controls where diagnostics go while the TUI owns the terminal
type LogSettings struct {
	File   string `yaml:"file"`
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Browser: BrowserSettings{
			ShowHidden: false,
			DirsFirst:  true,
			Filter:     "",
		},
		Editor: EditorSettings{
			ExpandOnOpen: false,
		},
		Log: LogSettings{
			File:  "",
			Level: "info",
		},
	}
}
