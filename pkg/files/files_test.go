package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/metoxid/metoxid-cli/pkg/models"
)

func TestReadSettingsMissingFile(t *testing.T) {
	settings, err := ReadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("ReadSettings failed: %v", err)
	}

	want := models.DefaultSettings()
	if *settings != *want {
		t.Errorf("Expected defaults %+v, got %+v", want, settings)
	}
}

func TestReadWriteSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", SettingsFile)

	settings := models.DefaultSettings()
	settings.Browser.ShowHidden = true
	settings.Browser.Filter = "*.jpg"
	settings.Editor.ExpandOnOpen = true
	settings.Log.File = "/tmp/metoxid.log"

	if err := WriteSettings(path, settings); err != nil {
		t.Fatalf("WriteSettings failed: %v", err)
	}

	got, err := ReadSettings(path)
	if err != nil {
		t.Fatalf("ReadSettings failed: %v", err)
	}
	if *got != *settings {
		t.Errorf("Expected %+v, got %+v", settings, got)
	}
}

func TestReadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	if err := os.WriteFile(path, []byte("browser:\n  show_hidden: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := ReadSettings(path)
	if err != nil {
		t.Fatalf("ReadSettings failed: %v", err)
	}
	if !settings.Browser.ShowHidden {
		t.Error("Expected show_hidden from file")
	}
	if !settings.Browser.DirsFirst {
		t.Error("Expected dirs_first to keep its default")
	}
	if settings.Log.Level != "info" {
		t.Errorf("Expected default log level, got %q", settings.Log.Level)
	}
}

func TestReadSettingsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFile)
	if err := os.WriteFile(path, []byte("browser: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadSettings(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
