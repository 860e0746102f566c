package metadata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// exifGroups maps IFD paths to the group part of a field name.
var exifGroups = map[string]string{
	"IFD":          "Image",
	"IFD/Exif":     "Photo",
	"IFD/GPSInfo":  "GPSInfo",
	"IFD/Exif/Iop": "Iop",
}

// exifEntry is one tag of the EXIF section. It is the Handle behind every
// field of the Exif category.
type exifEntry struct {
	ifdPath string
	tagID   uint16
	typ     exifcommon.TagTypePrimitive

	text  string
	value interface{}
	err   error
	dirty bool
}

func (e *exifEntry) String() string {
	return e.text
}

// Set parses text according to the tag's type.
func (e *exifEntry) Set(text string) error {
	e.text = text
	e.dirty = true
	e.value, e.err = parseExifValue(e.typ, text)
	return e.err
}

// Err returns the parse error of the last edit.
func (e *exifEntry) Err() error {
	return e.err
}

// ReadOnly reports tags whose type has no text form.
func (e *exifEntry) ReadOnly() bool {
	_, err := parseExifValue(e.typ, "0")
	return errors.Is(err, ErrReadOnly)
}

type exifSection struct {
	raw     []byte
	entries []*exifEntry
	fields  []*Field
}

func decodeExif(raw []byte) (*exifSection, error) {
	if err := checkExifBounds(raw); err != nil {
		return nil, err
	}
	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EXIF: %w", err)
	}

	s := &exifSection{raw: raw}
	seen := make(map[string]bool)
	for _, tag := range tags {
		if tag.ChildIfdPath != "" {
			continue
		}
		group, ok := exifGroups[tag.IfdPath]
		if !ok {
			continue
		}
		name := tag.TagName
		if name == "" {
			name = fmt.Sprintf("0x%04x", tag.TagId)
		}
		key := "Exif." + group + "." + name
		// IFD1 shares the unindexed path of IFD0 and comes second.
		if seen[key] {
			continue
		}
		seen[key] = true

		entry := &exifEntry{
			ifdPath: tag.IfdPath,
			tagID:   tag.TagId,
			typ:     tag.TagTypeId,
			text:    formatExifValue(tag.Value),
			value:   tag.Value,
		}
		s.entries = append(s.entries, entry)
		s.fields = append(s.fields, &Field{Name: key, Value: Typed(entry)})
	}
	return s, nil
}

func (s *exifSection) dirty() bool {
	for _, e := range s.entries {
		if e.dirty {
			return true
		}
	}
	return false
}

// encode rebuilds the TIFF structure with the edited tags. Untouched
// sections are returned as loaded.
func (s *exifSection) encode() ([]byte, error) {
	if !s.dirty() {
		return s.raw, nil
	}
	for _, e := range s.entries {
		if e.dirty && e.err != nil {
			return nil, fmt.Errorf("tag 0x%04x: %w", e.tagID, e.err)
		}
	}

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("failed to load IFD mapping: %w", err)
	}
	ti := exif.NewTagIndex()
	_, index, err := exif.Collect(im, ti, s.raw)
	if err != nil {
		return nil, fmt.Errorf("failed to collect IFDs: %w", err)
	}

	rootIb := exif.NewIfdBuilderFromExistingChain(index.RootIfd)
	for _, e := range s.entries {
		if !e.dirty {
			continue
		}
		ib, err := exif.GetOrCreateIbFromRootIb(rootIb, e.ifdPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", e.ifdPath, err)
		}
		if err := ib.SetStandard(e.tagID, e.value); err != nil {
			return nil, fmt.Errorf("failed to set tag 0x%04x in %s: %w", e.tagID, e.ifdPath, err)
		}
	}

	out, err := exif.NewIfdByteEncoder().EncodeToExif(rootIb)
	if err != nil {
		return nil, fmt.Errorf("failed to encode EXIF: %w", err)
	}
	return out, nil
}

func (s *exifSection) markSaved(raw []byte) {
	s.raw = raw
	for _, e := range s.entries {
		e.dirty = false
	}
}

func formatExifValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return joinValues(t)
	case []uint16:
		return joinValues(t)
	case []uint32:
		return joinValues(t)
	case []int32:
		return joinValues(t)
	case []float32:
		return joinValues(t)
	case []float64:
		return joinValues(t)
	case []exifcommon.Rational:
		parts := make([]string, len(t))
		for i, r := range t {
			parts[i] = fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
		}
		return strings.Join(parts, " ")
	case []exifcommon.SignedRational:
		parts := make([]string, len(t))
		for i, r := range t {
			parts[i] = fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
		}
		return strings.Join(parts, " ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func joinValues[T any](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

func parseExifValue(typ exifcommon.TagTypePrimitive, text string) (interface{}, error) {
	switch typ {
	case exifcommon.TypeAscii, exifcommon.TypeAsciiNoNul:
		return text, nil
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty %s value", typ)
	}

	switch typ {
	case exifcommon.TypeByte:
		return parseEach(words, func(w string) (byte, error) {
			n, err := strconv.ParseUint(w, 0, 8)
			return byte(n), err
		})
	case exifcommon.TypeShort:
		return parseEach(words, func(w string) (uint16, error) {
			n, err := strconv.ParseUint(w, 0, 16)
			return uint16(n), err
		})
	case exifcommon.TypeLong:
		return parseEach(words, func(w string) (uint32, error) {
			n, err := strconv.ParseUint(w, 0, 32)
			return uint32(n), err
		})
	case exifcommon.TypeSignedLong:
		return parseEach(words, func(w string) (int32, error) {
			n, err := strconv.ParseInt(w, 0, 32)
			return int32(n), err
		})
	case exifcommon.TypeFloat:
		return parseEach(words, func(w string) (float32, error) {
			f, err := strconv.ParseFloat(w, 32)
			return float32(f), err
		})
	case exifcommon.TypeDouble:
		return parseEach(words, func(w string) (float64, error) {
			return strconv.ParseFloat(w, 64)
		})
	case exifcommon.TypeRational:
		return parseEach(words, func(w string) (exifcommon.Rational, error) {
			num, den, err := parseFraction(w, 32, false)
			return exifcommon.Rational{Numerator: uint32(num), Denominator: uint32(den)}, err
		})
	case exifcommon.TypeSignedRational:
		return parseEach(words, func(w string) (exifcommon.SignedRational, error) {
			num, den, err := parseFraction(w, 32, true)
			return exifcommon.SignedRational{Numerator: int32(num), Denominator: int32(den)}, err
		})
	}
	return nil, fmt.Errorf("%w: %s", ErrReadOnly, typ)
}

func parseEach[T any](words []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, len(words))
	for i, w := range words {
		v, err := parse(w)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", w, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseFraction accepts "n/d" or a bare integer.
func parseFraction(w string, bits int, signed bool) (int64, int64, error) {
	numText, denText, found := strings.Cut(w, "/")
	if !found {
		denText = "1"
	}
	parse := func(s string) (int64, error) {
		if signed {
			return strconv.ParseInt(s, 10, bits)
		}
		n, err := strconv.ParseUint(s, 10, bits)
		return int64(n), err
	}
	num, err := parse(numText)
	if err != nil {
		return 0, 0, err
	}
	den, err := parse(denText)
	if err != nil {
		return 0, 0, err
	}
	return num, den, nil
}
