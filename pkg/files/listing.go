package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/metoxid/metoxid-cli/pkg/models"
)

// ParentName is the name of the entry leading to the parent directory.
const ParentName = ".."

// Lister reads directories into ordered entries.
type Lister struct {
	ShowHidden bool
	DirsFirst  bool

	pattern string
	filter  glob.Glob
}

// NewLister creates a lister from browser settings. An invalid filter
// pattern is an error.
func NewLister(settings models.BrowserSettings) (*Lister, error) {
	l := &Lister{
		ShowHidden: settings.ShowHidden,
		DirsFirst:  settings.DirsFirst,
	}
	if err := l.SetFilter(settings.Filter); err != nil {
		return nil, err
	}
	return l, nil
}

// SetFilter compiles a glob matched against file names. Directories are
// never filtered. An empty pattern shows every file.
func (l *Lister) SetFilter(pattern string) error {
	if pattern == "" {
		l.pattern, l.filter = "", nil
		return nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	l.pattern, l.filter = pattern, g
	return nil
}

// Filter returns the current filter pattern.
func (l *Lister) Filter() string {
	return l.pattern
}

// List returns the entries of dir. The parent entry comes first when dir is
// not the filesystem root, then directories (if DirsFirst) and files, each
// sorted by name ignoring case.
func (l *Lister) List(dir string) ([]models.Entry, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	entries := make([]models.Entry, 0, len(dirEntries)+1)
	for _, de := range dirEntries {
		name := de.Name()
		if !l.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)
		// Stat follows symlinks so a link to a directory browses like one.
		info, err := os.Stat(path)
		if err != nil {
			info, err = de.Info()
			if err != nil {
				continue
			}
		}

		entry := models.Entry{
			Name:     name,
			Path:     path,
			IsDir:    info.IsDir(),
			Size:     info.Size(),
			Mode:     info.Mode(),
			Modified: info.ModTime(),
		}
		if !entry.IsDir && !l.matches(name) {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if l.DirsFirst && a.IsDir != b.IsDir {
			return a.IsDir
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})

	if parent := filepath.Dir(dir); parent != dir {
		entries = append([]models.Entry{{
			Name:     ParentName,
			Path:     parent,
			IsDir:    true,
			IsParent: true,
		}}, entries...)
	}

	return entries, nil
}

func (l *Lister) matches(name string) bool {
	if l.filter == nil {
		return true
	}
	return l.filter.Match(name) || l.filter.Match(strings.ToLower(name))
}
