package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	markerSOS   = 0xDA
	markerEOI   = 0xD9
	markerCOM   = 0xFE
	markerAPP0  = 0xE0
	markerAPP1  = 0xE1
	markerAPP13 = 0xED
	markerAPP15 = 0xEF

	maxSegmentPayload = 0xFFFF - 2
)

var (
	jpegSOI    = []byte{0xFF, 0xD8}
	exifHeader = []byte("Exif\x00\x00")
	xmpHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")
	psHeader   = []byte("Photoshop 3.0\x00")
)

type segment struct {
	marker  byte
	payload []byte
}

// JPEG is a parsed JPEG file: the header segments up to the start of scan,
// followed by the untouched scan data.
type JPEG struct {
	segments []segment
	tail     []byte
}

func parseJPEG(data []byte) (*JPEG, error) {
	j := &JPEG{}
	p := len(jpegSOI)

	for {
		if p >= len(data) {
			return nil, fmt.Errorf("%w: missing start of scan", ErrCorrupt)
		}
		if data[p] != 0xFF {
			return nil, fmt.Errorf("%w: expected marker at offset %d", ErrCorrupt, p)
		}
		// Fill bytes may precede a marker.
		for p < len(data) && data[p] == 0xFF {
			p++
		}
		if p >= len(data) {
			return nil, fmt.Errorf("%w: truncated marker", ErrCorrupt)
		}
		marker := data[p]
		p++

		switch {
		case marker == markerSOS || marker == markerEOI:
			j.tail = data[p-2:]
			return j, nil
		case marker >= 0xD0 && marker <= 0xD7, marker == 0x01:
			j.segments = append(j.segments, segment{marker: marker})
			continue
		}

		if p+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated segment length", ErrCorrupt)
		}
		length := int(binary.BigEndian.Uint16(data[p:]))
		if length < 2 || p+length > len(data) {
			return nil, fmt.Errorf("%w: segment 0x%02X overruns file", ErrCorrupt, marker)
		}
		j.segments = append(j.segments, segment{
			marker:  marker,
			payload: data[p+2 : p+length],
		})
		p += length
	}
}

// Format implements Container.
func (j *JPEG) Format() string { return "jpeg" }

// Comment returns the first COM segment.
func (j *JPEG) Comment() string {
	i := j.find(markerCOM, nil)
	if i < 0 {
		return ""
	}
	return string(bytes.TrimRight(j.segments[i].payload, "\x00"))
}

// SetComment replaces the COM segment(s) with a single one.
func (j *JPEG) SetComment(comment string) error {
	if comment == "" {
		j.removeAll(markerCOM, nil)
		return nil
	}
	return j.replace(markerCOM, nil, []byte(comment), j.afterAppSegments())
}

// Exif implements Container.
func (j *JPEG) Exif() []byte {
	i := j.find(markerAPP1, exifHeader)
	if i < 0 {
		return nil
	}
	return j.segments[i].payload[len(exifHeader):]
}

// SetExif implements Container.
func (j *JPEG) SetExif(tiff []byte) error {
	if len(tiff) == 0 {
		j.removeAll(markerAPP1, exifHeader)
		return nil
	}
	payload := append(append([]byte{}, exifHeader...), tiff...)
	return j.replace(markerAPP1, exifHeader, payload, j.afterJFIF())
}

// Xmp implements Container.
func (j *JPEG) Xmp() []byte {
	i := j.find(markerAPP1, xmpHeader)
	if i < 0 {
		return nil
	}
	return j.segments[i].payload[len(xmpHeader):]
}

// SetXmp implements Container.
func (j *JPEG) SetXmp(packet []byte) error {
	if len(packet) == 0 {
		j.removeAll(markerAPP1, xmpHeader)
		return nil
	}
	at := j.afterJFIF()
	if i := j.find(markerAPP1, exifHeader); i >= 0 {
		at = i + 1
	}
	payload := append(append([]byte{}, xmpHeader...), packet...)
	return j.replace(markerAPP1, xmpHeader, payload, at)
}

// Iptc returns the IIM stream stored in the Photoshop IRB of APP13.
func (j *JPEG) Iptc() []byte {
	i := j.find(markerAPP13, psHeader)
	if i < 0 {
		return nil
	}
	resources, err := parseIRB(j.segments[i].payload[len(psHeader):])
	if err != nil {
		return nil
	}
	for _, r := range resources {
		if r.id == irbIptcID {
			return r.data
		}
	}
	return nil
}

// SetIptc rewrites the IPTC resource of APP13, keeping any other Photoshop
// resources in place.
func (j *JPEG) SetIptc(iim []byte) error {
	var resources []irbResource
	i := j.find(markerAPP13, psHeader)
	if i >= 0 {
		parsed, err := parseIRB(j.segments[i].payload[len(psHeader):])
		if err != nil {
			return err
		}
		resources = parsed
	}

	replaced := false
	kept := resources[:0]
	for _, r := range resources {
		if r.id == irbIptcID {
			if replaced || len(iim) == 0 {
				continue
			}
			r.data = iim
			replaced = true
		}
		kept = append(kept, r)
	}
	if !replaced && len(iim) > 0 {
		kept = append(kept, irbResource{id: irbIptcID, data: iim})
	}

	if len(kept) == 0 {
		j.removeAll(markerAPP13, psHeader)
		return nil
	}
	payload := append(append([]byte{}, psHeader...), encodeIRB(kept)...)
	return j.replace(markerAPP13, psHeader, payload, j.afterAppSegments())
}

// WriteTo implements Container.
func (j *JPEG) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	cw.write(jpegSOI)
	for _, s := range j.segments {
		if s.payload == nil && (s.marker == 0x01 || (s.marker >= 0xD0 && s.marker <= 0xD7)) {
			cw.write([]byte{0xFF, s.marker})
			continue
		}
		var hdr [4]byte
		hdr[0], hdr[1] = 0xFF, s.marker
		binary.BigEndian.PutUint16(hdr[2:], uint16(len(s.payload)+2))
		cw.write(hdr[:])
		cw.write(s.payload)
	}
	cw.write(j.tail)
	return cw.n, cw.err
}

func (j *JPEG) find(marker byte, prefix []byte) int {
	for i, s := range j.segments {
		if s.marker == marker && bytes.HasPrefix(s.payload, prefix) {
			return i
		}
	}
	return -1
}

func (j *JPEG) removeAll(marker byte, prefix []byte) {
	kept := j.segments[:0]
	for _, s := range j.segments {
		if s.marker == marker && bytes.HasPrefix(s.payload, prefix) {
			continue
		}
		kept = append(kept, s)
	}
	j.segments = kept
}

// replace swaps the first matching segment's payload and drops duplicates;
// when no segment matches, a new one is inserted at index at.
func (j *JPEG) replace(marker byte, prefix, payload []byte, at int) error {
	if len(payload) > maxSegmentPayload {
		return fmt.Errorf("%w: %d bytes in segment 0x%02X", ErrSegmentTooLarge, len(payload), marker)
	}
	first := j.find(marker, prefix)
	if first < 0 {
		if at > len(j.segments) {
			at = len(j.segments)
		}
		j.segments = append(j.segments, segment{})
		copy(j.segments[at+1:], j.segments[at:])
		j.segments[at] = segment{marker: marker, payload: payload}
		return nil
	}

	j.segments[first].payload = payload
	kept := j.segments[:first+1]
	for _, s := range j.segments[first+1:] {
		if s.marker == marker && bytes.HasPrefix(s.payload, prefix) {
			continue
		}
		kept = append(kept, s)
	}
	j.segments = kept
	return nil
}

// afterJFIF is the index right after a leading APP0 segment.
func (j *JPEG) afterJFIF() int {
	i := 0
	for i < len(j.segments) && j.segments[i].marker == markerAPP0 {
		i++
	}
	return i
}

// afterAppSegments is the index right after the leading run of APPn segments.
func (j *JPEG) afterAppSegments() int {
	i := 0
	for i < len(j.segments) && j.segments[i].marker >= markerAPP0 && j.segments[i].marker <= markerAPP15 {
		i++
	}
	return i
}
