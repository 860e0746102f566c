// Package container reads and rewrites the metadata-bearing parts of image
// files (comment, EXIF, IPTC and XMP payloads) while leaving every other byte
// of the file untouched.
package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnsupportedFormat is returned when the file header is not a known
	// image container.
	ErrUnsupportedFormat = errors.New("unsupported or corrupt file header")

	// ErrCorrupt is returned when the container structure is truncated or
	// otherwise malformed.
	ErrCorrupt = errors.New("corrupt container structure")

	// ErrSectionUnsupported is returned when a format has no place to store
	// the requested section.
	ErrSectionUnsupported = errors.New("section not supported by this format")

	// ErrSegmentTooLarge is returned when a payload does not fit the
	// container's length field.
	ErrSegmentTooLarge = errors.New("payload too large for a single segment")
)

// Container is an image file split into its metadata slots.
//
// Getters return nil (or "") when the slot is absent. Setters with an empty
// payload remove the slot.
type Container interface {
	Format() string

	Comment() string
	SetComment(comment string) error

	// Exif returns the raw TIFF structure, starting at the byte-order mark.
	Exif() []byte
	SetExif(tiff []byte) error

	// Iptc returns the IPTC-IIM dataset stream.
	Iptc() []byte
	SetIptc(iim []byte) error

	// Xmp returns the serialized XMP packet.
	Xmp() []byte
	SetXmp(packet []byte) error

	WriteTo(w io.Writer) (int64, error)
}

// Parse detects the container format from the header and splits the file.
func Parse(data []byte) (Container, error) {
	switch {
	case bytes.HasPrefix(data, jpegSOI):
		j, err := parseJPEG(data)
		if err != nil {
			return nil, err
		}
		return j, nil
	case bytes.HasPrefix(data, pngSignature):
		p, err := parsePNG(data)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, ErrUnsupportedFormat
}

// Bytes serializes a container into a new byte slice.
func Bytes(c Container) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", c.Format(), err)
	}
	return buf.Bytes(), nil
}

// countingWriter tracks the number of bytes written for WriteTo.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) write(p []byte) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
}
