package metadata

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrNotRegular is returned by Load for directories and device files.
	ErrNotRegular = errors.New("not a regular file")

	// ErrNoSuchField is returned when a category or field lookup fails.
	ErrNoSuchField = errors.New("no such field")

	// ErrReadOnly is returned when editing a value that has no text form.
	ErrReadOnly = errors.New("value is read-only")
)

// LoadError reports a file that could not be opened or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load metadata from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SectionError is a failure to write back one metadata section.
type SectionError struct {
	Section string
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// SaveError aggregates the section failures of a single Save call.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save metadata to %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() []error {
	return multierr.Errors(e.Err)
}

// Sections lists the names of the sections that failed.
func (e *SaveError) Sections() []string {
	var names []string
	for _, err := range multierr.Errors(e.Err) {
		var se *SectionError
		if errors.As(err, &se) {
			names = append(names, se.Section)
		}
	}
	return names
}
