package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const iimTagMarker = 0x1C

var iptcRecords = map[byte]string{
	1: "Envelope",
	2: "Application2",
}

var iptcDatasets = map[[2]byte]string{
	{1, 0}:   "ModelVersion",
	{1, 5}:   "Destination",
	{1, 20}:  "FileFormat",
	{1, 22}:  "FileVersion",
	{1, 30}:  "ServiceId",
	{1, 40}:  "EnvelopePriority",
	{1, 70}:  "DateSent",
	{1, 80}:  "TimeSent",
	{1, 90}:  "CharacterSet",
	{2, 0}:   "RecordVersion",
	{2, 5}:   "ObjectName",
	{2, 7}:   "EditStatus",
	{2, 10}:  "Urgency",
	{2, 15}:  "Category",
	{2, 20}:  "SuppCategory",
	{2, 25}:  "Keywords",
	{2, 40}:  "SpecialInstructions",
	{2, 55}:  "DateCreated",
	{2, 60}:  "TimeCreated",
	{2, 80}:  "Byline",
	{2, 85}:  "BylineTitle",
	{2, 90}:  "City",
	{2, 92}:  "SubLocation",
	{2, 95}:  "ProvinceState",
	{2, 100}: "CountryCode",
	{2, 101}: "CountryName",
	{2, 103}: "TransmissionReference",
	{2, 105}: "Headline",
	{2, 110}: "Credit",
	{2, 115}: "Source",
	{2, 116}: "Copyright",
	{2, 118}: "Contact",
	{2, 120}: "Caption",
	{2, 122}: "Writer",
}

// Datasets stored as a big-endian 16-bit number rather than text.
var iptcShortDatasets = map[[2]byte]bool{
	{1, 0}:  true,
	{1, 20}: true,
	{1, 22}: true,
	{2, 0}:  true,
}

// iptcDataset is one IIM dataset; it is the Handle behind IPTC fields.
type iptcDataset struct {
	record  byte
	dataset byte
	raw     []byte

	text  string
	err   error
	dirty bool
}

func (d *iptcDataset) String() string {
	return d.text
}

// Set stores text as the dataset value.
func (d *iptcDataset) Set(text string) error {
	d.text = text
	d.dirty = true
	d.err = nil
	if iptcShortDatasets[[2]byte{d.record, d.dataset}] {
		if _, err := strconv.ParseUint(strings.TrimSpace(text), 10, 16); err != nil {
			d.err = fmt.Errorf("invalid number %q: %w", text, err)
		}
	}
	return d.err
}

// Err returns the parse error of the last edit.
func (d *iptcDataset) Err() error {
	return d.err
}

func (d *iptcDataset) encodeValue() ([]byte, error) {
	if !d.dirty {
		return d.raw, nil
	}
	if d.err != nil {
		return nil, d.err
	}
	if iptcShortDatasets[[2]byte{d.record, d.dataset}] {
		n, _ := strconv.ParseUint(strings.TrimSpace(d.text), 10, 16)
		out := make([]byte, 2)
		binary.BigEndian.PutUint16(out, uint16(n))
		return out, nil
	}
	return []byte(d.text), nil
}

func (d *iptcDataset) key() string {
	record, ok := iptcRecords[d.record]
	if !ok {
		record = fmt.Sprintf("Record%d", d.record)
	}
	name, ok := iptcDatasets[[2]byte{d.record, d.dataset}]
	if !ok {
		name = fmt.Sprintf("0x%04x", d.dataset)
	}
	return "Iptc." + record + "." + name
}

type iptcSection struct {
	raw      []byte
	datasets []*iptcDataset
	fields   []*Field
}

func decodeIptc(raw []byte) (*iptcSection, error) {
	s := &iptcSection{raw: raw}
	counts := make(map[string]int)

	p := 0
	for p < len(raw) {
		// Padding after the last dataset.
		if raw[p] == 0 {
			break
		}
		if raw[p] != iimTagMarker {
			return nil, fmt.Errorf("invalid IPTC tag marker 0x%02x at offset %d", raw[p], p)
		}
		if p+5 > len(raw) {
			return nil, fmt.Errorf("truncated IPTC dataset header at offset %d", p)
		}
		record, dataset := raw[p+1], raw[p+2]
		size := int(binary.BigEndian.Uint16(raw[p+3:]))
		p += 5

		// Extended dataset: the low bits give the width of the length field.
		if size&0x8000 != 0 {
			width := size & 0x7FFF
			if width > 4 || p+width > len(raw) {
				return nil, fmt.Errorf("invalid extended IPTC length at offset %d", p)
			}
			size = 0
			for _, b := range raw[p : p+width] {
				size = size<<8 | int(b)
			}
			p += width
		}
		if p+size > len(raw) {
			return nil, fmt.Errorf("IPTC dataset %d:%d overruns section", record, dataset)
		}

		d := &iptcDataset{record: record, dataset: dataset, raw: raw[p : p+size]}
		d.text = decodeIptcText(d)
		p += size

		key := d.key()
		counts[key]++
		if n := counts[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		s.datasets = append(s.datasets, d)
		s.fields = append(s.fields, &Field{Name: key, Value: Typed(d)})
	}
	return s, nil
}

func decodeIptcText(d *iptcDataset) string {
	if iptcShortDatasets[[2]byte{d.record, d.dataset}] && len(d.raw) == 2 {
		return strconv.Itoa(int(binary.BigEndian.Uint16(d.raw)))
	}
	if utf8.Valid(d.raw) {
		return string(d.raw)
	}
	// Latin-1 fallback
	runes := make([]rune, len(d.raw))
	for i, b := range d.raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

func (s *iptcSection) dirty() bool {
	for _, d := range s.datasets {
		if d.dirty {
			return true
		}
	}
	return false
}

func (s *iptcSection) encode() ([]byte, error) {
	if !s.dirty() {
		return s.raw, nil
	}
	var buf bytes.Buffer
	for _, d := range s.datasets {
		value, err := d.encodeValue()
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", d.key(), err)
		}
		buf.Write([]byte{iimTagMarker, d.record, d.dataset})
		if len(value) <= 0x7FFF {
			_ = binary.Write(&buf, binary.BigEndian, uint16(len(value)))
		} else {
			_ = binary.Write(&buf, binary.BigEndian, uint16(0x8004))
			_ = binary.Write(&buf, binary.BigEndian, uint32(len(value)))
		}
		buf.Write(value)
	}
	return buf.Bytes(), nil
}

func (s *iptcSection) markSaved(raw []byte) {
	s.raw = raw
	for _, d := range s.datasets {
		value, _ := d.encodeValue()
		d.raw = value
		d.dirty = false
	}
}
