package testhelpers

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
	"testing"
)

// Well-known EXIF tags used by fixtures
const (
	TagImageDescription uint16 = 0x010E
	TagMake             uint16 = 0x010F
	TagOrientation      uint16 = 0x0112
	TagArtist           uint16 = 0x013B

	tiffTypeASCII uint16 = 2
	tiffTypeShort uint16 = 3
)

// SampleXmpPacket is a small packet with an attribute property, a
// language alternative and an unordered bag.
const SampleXmpPacket = `<?xpacket begin="` + "\ufeff" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:xmp="http://ns.adobe.com/xap/1.0/"
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmp:CreatorTool="fixture">
   <dc:title>
    <rdf:Alt>
     <rdf:li xml:lang="x-default">Harbour</rdf:li>
    </rdf:Alt>
   </dc:title>
   <dc:subject>
    <rdf:Bag>
     <rdf:li>boats</rdf:li>
     <rdf:li>sea</rdf:li>
    </rdf:Bag>
   </dc:subject>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

type exifEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

type iptcDataset struct {
	record  byte
	dataset byte
	value   []byte
}

// ImageBuilder assembles small JPEG or PNG files carrying metadata sections.
type ImageBuilder struct {
	format  string
	comment string
	exif    []exifEntry
	iptc    []iptcDataset
	xmp     string
}

// NewJPEG starts a JPEG fixture.
func NewJPEG() *ImageBuilder {
	return &ImageBuilder{format: "jpeg"}
}

// NewPNG starts a PNG fixture.
func NewPNG() *ImageBuilder {
	return &ImageBuilder{format: "png"}
}

// WithComment sets the file comment.
func (b *ImageBuilder) WithComment(comment string) *ImageBuilder {
	b.comment = comment
	return b
}

// WithExifASCII adds an ASCII tag to IFD0.
func (b *ImageBuilder) WithExifASCII(tag uint16, value string) *ImageBuilder {
	data := append([]byte(value), 0)
	b.exif = append(b.exif, exifEntry{tag: tag, typ: tiffTypeASCII, count: uint32(len(data)), data: data})
	return b
}

// WithExifShort adds a single SHORT tag to IFD0.
func (b *ImageBuilder) WithExifShort(tag uint16, value uint16) *ImageBuilder {
	data := make([]byte, 2)
	binary.BigEndian.PutUint16(data, value)
	b.exif = append(b.exif, exifEntry{tag: tag, typ: tiffTypeShort, count: 1, data: data})
	return b
}

// WithIptc adds an IIM dataset.
func (b *ImageBuilder) WithIptc(record, dataset byte, value string) *ImageBuilder {
	b.iptc = append(b.iptc, iptcDataset{record: record, dataset: dataset, value: []byte(value)})
	return b
}

// WithXmp sets the XMP packet.
func (b *ImageBuilder) WithXmp(packet string) *ImageBuilder {
	b.xmp = packet
	return b
}

// Bytes renders the fixture.
func (b *ImageBuilder) Bytes(t *testing.T) []byte {
	t.Helper()
	if b.format == "png" {
		return b.pngBytes(t)
	}
	return b.jpegBytes(t)
}

func (b *ImageBuilder) jpegBytes(t *testing.T) []byte {
	t.Helper()
	var base bytes.Buffer
	if err := jpeg.Encode(&base, sampleImage(), nil); err != nil {
		t.Fatalf("Failed to encode fixture jpeg: %v", err)
	}
	raw := base.Bytes()

	var out bytes.Buffer
	out.Write(raw[:2])
	if len(b.exif) > 0 {
		writeSegment(&out, 0xE1, append([]byte("Exif\x00\x00"), buildTIFF(b.exif)...))
	}
	if b.xmp != "" {
		writeSegment(&out, 0xE1, append([]byte("http://ns.adobe.com/xap/1.0/\x00"), b.xmp...))
	}
	if len(b.iptc) > 0 {
		writeSegment(&out, 0xED, photoshopIRB(buildIIM(b.iptc)))
	}
	if b.comment != "" {
		writeSegment(&out, 0xFE, []byte(b.comment))
	}
	out.Write(raw[2:])
	return out.Bytes()
}

func (b *ImageBuilder) pngBytes(t *testing.T) []byte {
	t.Helper()
	var base bytes.Buffer
	if err := png.Encode(&base, sampleImage()); err != nil {
		t.Fatalf("Failed to encode fixture png: %v", err)
	}
	raw := base.Bytes()
	// signature (8) + IHDR chunk (12 + 13)
	const afterIHDR = 8 + 12 + 13

	var out bytes.Buffer
	out.Write(raw[:afterIHDR])
	if b.comment != "" {
		writeChunk(&out, "tEXt", append([]byte("Comment\x00"), b.comment...))
	}
	if len(b.exif) > 0 {
		writeChunk(&out, "eXIf", buildTIFF(b.exif))
	}
	if b.xmp != "" {
		data := append([]byte("XML:com.adobe.xmp"), 0, 0, 0, 0, 0)
		writeChunk(&out, "iTXt", append(data, b.xmp...))
	}
	out.Write(raw[afterIHDR:])
	return out.Bytes()
}

func sampleImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 16)
	}
	img.Set(0, 0, color.Gray{Y: 255})
	return img
}

// buildTIFF encodes a big-endian TIFF structure with a single IFD.
func buildTIFF(entries []exifEntry) []byte {
	sorted := append([]exifEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].tag < sorted[j].tag })

	ifdSize := 2 + 12*len(sorted) + 4
	dataOffset := 8 + ifdSize

	var ifd, extra bytes.Buffer
	_ = binary.Write(&ifd, binary.BigEndian, uint16(len(sorted)))
	for _, e := range sorted {
		_ = binary.Write(&ifd, binary.BigEndian, e.tag)
		_ = binary.Write(&ifd, binary.BigEndian, e.typ)
		_ = binary.Write(&ifd, binary.BigEndian, e.count)
		if len(e.data) <= 4 {
			var inline [4]byte
			copy(inline[:], e.data)
			ifd.Write(inline[:])
			continue
		}
		_ = binary.Write(&ifd, binary.BigEndian, uint32(dataOffset+extra.Len()))
		extra.Write(e.data)
		if extra.Len()%2 != 0 {
			extra.WriteByte(0)
		}
	}
	_ = binary.Write(&ifd, binary.BigEndian, uint32(0))

	var out bytes.Buffer
	out.WriteString("MM\x00\x2a")
	_ = binary.Write(&out, binary.BigEndian, uint32(8))
	out.Write(ifd.Bytes())
	out.Write(extra.Bytes())
	return out.Bytes()
}

func buildIIM(datasets []iptcDataset) []byte {
	var buf bytes.Buffer
	for _, d := range datasets {
		buf.Write([]byte{0x1C, d.record, d.dataset})
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(d.value)))
		buf.Write(d.value)
	}
	return buf.Bytes()
}

func photoshopIRB(iim []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("Photoshop 3.0\x00")
	buf.WriteString("8BIM")
	_ = binary.Write(&buf, binary.BigEndian, uint16(0x0404))
	buf.Write([]byte{0, 0})
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(iim)))
	buf.Write(iim)
	if len(iim)%2 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func writeSegment(buf *bytes.Buffer, marker byte, payload []byte) {
	buf.Write([]byte{0xFF, marker})
	_ = binary.Write(buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
}

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(typ)
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	_ = binary.Write(buf, binary.BigEndian, crc.Sum32())
}
