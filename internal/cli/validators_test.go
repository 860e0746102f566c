package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	t.Run("no arguments browses the working directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		target, err := ResolveTarget(nil)
		require.NoError(t, err)
		assert.Equal(t, Target{Path: wd, IsDir: true}, target)
	})

	t.Run("directory", func(t *testing.T) {
		target, err := ResolveTarget([]string{dir})
		require.NoError(t, err)
		assert.Equal(t, Target{Path: dir, IsDir: true}, target)
	})

	t.Run("file", func(t *testing.T) {
		target, err := ResolveTarget([]string{file})
		require.NoError(t, err)
		assert.Equal(t, Target{Path: file}, target)
	})

	tests := []struct {
		name   string
		args   []string
		reason string
	}{
		{"too many arguments", []string{dir, file}, "you can pass only one path argument at a time"},
		{"missing path", []string{filepath.Join(dir, "missing")}, "path doesn't exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTarget(tt.args)
			var pathErr *PathError
			require.True(t, errors.As(err, &pathErr), "expected *PathError, got %v", err)
			assert.Equal(t, tt.reason, pathErr.Reason)
		})
	}
}

func TestPathErrorMessage(t *testing.T) {
	err := &PathError{Path: "a.jpg", Reason: "path doesn't exist"}
	assert.Equal(t, "a.jpg path doesn't exist", err.Error())

	err = &PathError{Reason: "you can pass only one path argument at a time"}
	assert.Equal(t, "you can pass only one path argument at a time", err.Error())
}

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.NoError(t, ValidateFilePath(file))
	assert.Error(t, ValidateFilePath(dir))
	assert.Error(t, ValidateFilePath(filepath.Join(dir, "nope.png")))
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		assert.NoError(t, ValidateOutputFormat(f))
	}
	assert.Error(t, ValidateOutputFormat("xml"))
}
