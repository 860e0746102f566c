package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Target says what the command line asked to open.
type Target struct {
	Path  string
	IsDir bool
}

// PathError reports an unusable command line path.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Path, e.Reason)
}

// ResolveTarget turns positional arguments into a file or directory to
// open. No argument means the working directory.
func ResolveTarget(args []string) (Target, error) {
	switch len(args) {
	case 0:
		wd, err := os.Getwd()
		if err != nil {
			return Target{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		return Target{Path: wd, IsDir: true}, nil
	case 1:
	default:
		return Target{}, &PathError{Reason: "you can pass only one path argument at a time"}
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return Target{}, fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Target{}, &PathError{Path: args[0], Reason: "path doesn't exist"}
		}
		return Target{}, fmt.Errorf("error accessing path: %w", err)
	}

	switch {
	case info.IsDir():
		return Target{Path: path, IsDir: true}, nil
	case info.Mode().IsRegular():
		return Target{Path: path}, nil
	default:
		return Target{}, &PathError{Path: args[0], Reason: "is not a file or a directory"}
	}
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	target, err := ResolveTarget([]string{path})
	if err != nil {
		return err
	}
	if target.IsDir {
		return &PathError{Path: path, Reason: "is a directory, expected a file"}
	}
	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}
