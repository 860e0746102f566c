// Package metadata exposes the metadata of an image file as an ordered tree
// of categories and fields, and writes edited values back to the file.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/metoxid/metoxid-cli/pkg/container"
)

// Store owns the categories loaded from one file.
type Store struct {
	path string
	mode os.FileMode
	log  zerolog.Logger

	file       container.Container
	categories []*Category

	comment       string
	loadedComment string
	packet        string
	loadedPacket  string

	exif *exifSection
	iptc *iptcSection
	xmp  *xmpSection
}

// Load reads path and builds one category per non-empty metadata section.
// On failure no store is returned.
func Load(path string, log zerolog.Logger) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{Path: path, Err: ErrNotRegular}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	file, err := container.Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	s := &Store{
		path: path,
		mode: info.Mode().Perm(),
		log:  log.With().Str("path", path).Logger(),
		file: file,
	}
	if err := s.build(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	s.log.Debug().
		Str("format", file.Format()).
		Int("categories", len(s.categories)).
		Msg("Loaded metadata")
	return s, nil
}

func (s *Store) build() error {
	s.comment = s.file.Comment()
	s.loadedComment = s.comment
	if s.comment != "" {
		s.categories = append(s.categories, NewCategory(CategoryComment, NewField(FieldComment, s.comment)))
	}

	if raw := s.file.Exif(); len(raw) > 0 {
		section, err := decodeExif(raw)
		if err != nil {
			return err
		}
		s.exif = section
		if len(section.fields) > 0 {
			s.categories = append(s.categories, NewCategory(CategoryExif, section.fields...))
		}
	}

	if raw := s.file.Iptc(); len(raw) > 0 {
		section, err := decodeIptc(raw)
		if err != nil {
			return err
		}
		s.iptc = section
		if len(section.fields) > 0 {
			s.categories = append(s.categories, NewCategory(CategoryIptc, section.fields...))
		}
	}

	if raw := s.file.Xmp(); len(raw) > 0 {
		section, err := decodeXmp(raw)
		if err != nil {
			return err
		}
		s.xmp = section
		if len(section.fields) > 0 {
			s.categories = append(s.categories, NewCategory(CategoryXmpData, section.fields...))
		}
		s.packet = string(raw)
		s.loadedPacket = s.packet
		s.categories = append(s.categories, NewCategory(CategoryXmpPacket, NewField(FieldXmpPacket, s.packet)))
	}
	return nil
}

// Path returns the file the store was loaded from.
func (s *Store) Path() string {
	return s.path
}

// Format returns the container format name.
func (s *Store) Format() string {
	return s.file.Format()
}

// Categories returns the categories in load order.
func (s *Store) Categories() []*Category {
	return s.categories
}

// Len returns the number of categories.
func (s *Store) Len() int {
	return len(s.categories)
}

// Category returns the i-th category, or nil when out of range.
func (s *Store) Category(i int) *Category {
	if i < 0 || i >= len(s.categories) {
		return nil
	}
	return s.categories[i]
}

// CategoryIndex returns the position of the named category, or -1.
func (s *Store) CategoryIndex(name string) int {
	for i, c := range s.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Comment returns the current file comment.
func (s *Store) Comment() string {
	return s.comment
}

// XmpPacket returns the current raw XMP packet.
func (s *Store) XmpPacket() string {
	return s.packet
}

// SetFieldValue writes text into a field. The Comment and XMP Packet fields
// also update the store's comment and packet slots.
func (s *Store) SetFieldValue(category int, name, text string) error {
	c := s.Category(category)
	if c == nil {
		return fmt.Errorf("%w: category %d", ErrNoSuchField, category)
	}
	f := c.Field(name)
	if f == nil {
		return fmt.Errorf("%w: %s/%s", ErrNoSuchField, c.Name, name)
	}
	if !f.Editable() {
		return fmt.Errorf("%w: %s/%s", ErrReadOnly, c.Name, name)
	}

	err := f.Set(text)
	switch {
	case c.Name == CategoryComment && name == FieldComment:
		s.comment = text
	case c.Name == CategoryXmpPacket && name == FieldXmpPacket:
		s.packet = text
	}
	return err
}

// Save writes every section back into the container and persists the file.
// A failing section does not stop the others; all failures are returned
// together as a *SaveError.
func (s *Store) Save() error {
	var errs error
	changed := false

	apply := func(section string, fn func() (bool, error)) {
		ok, err := fn()
		if err != nil {
			s.log.Error().Err(err).Str("section", section).Msg("Failed to save section")
			errs = multierr.Append(errs, &SectionError{Section: section, Err: err})
			return
		}
		changed = changed || ok
	}

	apply(CategoryComment, s.saveComment)
	apply(CategoryExif, s.saveExif)
	apply(CategoryIptc, s.saveIptc)
	apply(CategoryXmpData, s.saveXmpData)
	apply(CategoryXmpPacket, s.saveXmpPacket)

	if changed {
		if err := s.writeFile(); err != nil {
			s.log.Error().Err(err).Msg("Failed to write file")
			errs = multierr.Append(errs, &SectionError{Section: "file", Err: err})
		} else {
			s.log.Info().Msg("Saved metadata")
		}
	}

	if errs != nil {
		return &SaveError{Path: s.path, Err: errs}
	}
	return nil
}

func (s *Store) saveComment() (bool, error) {
	if s.comment == s.loadedComment {
		return false, nil
	}
	if err := s.file.SetComment(s.comment); err != nil {
		return false, err
	}
	s.loadedComment = s.comment
	return true, nil
}

func (s *Store) saveExif() (bool, error) {
	if s.exif == nil || !s.exif.dirty() {
		return false, nil
	}
	raw, err := s.exif.encode()
	if err != nil {
		return false, err
	}
	if err := s.file.SetExif(raw); err != nil {
		return false, err
	}
	s.exif.markSaved(raw)
	return true, nil
}

func (s *Store) saveIptc() (bool, error) {
	if s.iptc == nil || !s.iptc.dirty() {
		return false, nil
	}
	raw, err := s.iptc.encode()
	if err != nil {
		return false, err
	}
	if err := s.file.SetIptc(raw); err != nil {
		return false, err
	}
	s.iptc.markSaved(raw)
	return true, nil
}

// saveXmpData regenerates the packet from edited properties, unless the
// packet itself was edited.
func (s *Store) saveXmpData() (bool, error) {
	if s.xmp == nil || !s.xmp.dirty || s.packet != s.loadedPacket {
		return false, nil
	}
	packet, err := s.xmp.encode()
	if err != nil {
		return false, err
	}
	if err := s.file.SetXmp(packet); err != nil {
		return false, err
	}
	s.xmp.dirty = false
	s.setPacket(string(packet))
	return true, nil
}

func (s *Store) saveXmpPacket() (bool, error) {
	if s.packet == s.loadedPacket {
		return false, nil
	}
	if s.packet != "" {
		if _, err := decodeXmp([]byte(s.packet)); err != nil {
			return false, err
		}
	}
	if err := s.file.SetXmp([]byte(s.packet)); err != nil {
		return false, err
	}
	if s.xmp != nil {
		s.xmp.dirty = false
	}
	s.loadedPacket = s.packet
	return true, nil
}

func (s *Store) setPacket(packet string) {
	s.packet = packet
	s.loadedPacket = packet
	if i := s.CategoryIndex(CategoryXmpPacket); i >= 0 {
		_ = s.categories[i].Field(FieldXmpPacket).Set(packet)
	}
}

// writeFile replaces the file through a temporary file in the same
// directory.
func (s *Store) writeFile() error {
	data, err := container.Bytes(s.file)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, s.mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// InvalidFields lists "category/field" for every value holding text that
// failed to parse.
func (s *Store) InvalidFields() []string {
	var out []string
	for _, c := range s.categories {
		for _, f := range c.fields {
			if f.Err() != nil {
				out = append(out, c.Name+"/"+f.Name)
			}
		}
	}
	return out
}
