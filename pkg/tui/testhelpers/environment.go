package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnvironment provides a scratch directory tree for browser and
// metadata tests
type TestEnvironment struct {
	t       *testing.T
	TempDir string
}

// NewTestEnvironment creates a new test environment with a temporary directory
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	// Resolve symlinks so paths compare equal to canonicalized ones (macOS /var)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	return &TestEnvironment{t: t, TempDir: dir}
}

// Path joins elements onto the environment root
func (e *TestEnvironment) Path(elem ...string) string {
	return filepath.Join(append([]string{e.TempDir}, elem...)...)
}

// WriteFile writes data to a path relative to the root, creating parents
func (e *TestEnvironment) WriteFile(rel string, data []byte) string {
	e.t.Helper()

	full := e.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		e.t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		e.t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return full
}

// WriteImage renders a fixture and writes it under the root
func (e *TestEnvironment) WriteImage(rel string, b *ImageBuilder) string {
	e.t.Helper()
	return e.WriteFile(rel, b.Bytes(e.t))
}

// Mkdir creates a directory relative to the root
func (e *TestEnvironment) Mkdir(rel string) string {
	e.t.Helper()

	full := e.Path(rel)
	if err := os.MkdirAll(full, 0755); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", rel, err)
	}
	return full
}

// ReadFile reads a file relative to the root
func (e *TestEnvironment) ReadFile(rel string) []byte {
	e.t.Helper()

	data, err := os.ReadFile(e.Path(rel))
	if err != nil {
		e.t.Fatalf("Failed to read %s: %v", rel, err)
	}
	return data
}
