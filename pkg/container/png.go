package container

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

const (
	chunkText = "tEXt"
	chunkITXt = "iTXt"
	chunkExif = "eXIf"
	chunkIDAT = "IDAT"
	chunkIHDR = "IHDR"

	pngCommentKeyword = "Comment"
	pngXmpKeyword     = "XML:com.adobe.xmp"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

type chunk struct {
	typ  string
	data []byte
}

// PNG is a parsed PNG file as an ordered list of chunks.
type PNG struct {
	chunks []chunk
}

func parsePNG(data []byte) (*PNG, error) {
	p := &PNG{}
	off := len(pngSignature)
	for off < len(data) {
		if off+8 > len(data) {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrCorrupt)
		}
		length := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		if length < 0 || off+12+length > len(data) {
			return nil, fmt.Errorf("%w: chunk %q overruns file", ErrCorrupt, typ)
		}
		p.chunks = append(p.chunks, chunk{typ: typ, data: data[off+8 : off+8+length]})
		off += 12 + length
		if typ == "IEND" {
			break
		}
	}
	if len(p.chunks) == 0 || p.chunks[0].typ != chunkIHDR {
		return nil, fmt.Errorf("%w: missing IHDR", ErrCorrupt)
	}
	return p, nil
}

// Format implements Container.
func (p *PNG) Format() string { return "png" }

// Comment returns the tEXt chunk with the "Comment" keyword.
func (p *PNG) Comment() string {
	i := p.findText(chunkText, pngCommentKeyword)
	if i < 0 {
		return ""
	}
	_, text, _ := bytes.Cut(p.chunks[i].data, []byte{0})
	return string(text)
}

// SetComment implements Container.
func (p *PNG) SetComment(comment string) error {
	if comment == "" {
		p.remove(func(c chunk) bool { return isTextChunk(c, chunkText, pngCommentKeyword) })
		return nil
	}
	data := append([]byte(pngCommentKeyword+"\x00"), comment...)
	p.put(chunk{typ: chunkText, data: data}, func(c chunk) bool {
		return isTextChunk(c, chunkText, pngCommentKeyword)
	})
	return nil
}

// Exif implements Container.
func (p *PNG) Exif() []byte {
	for _, c := range p.chunks {
		if c.typ == chunkExif {
			return c.data
		}
	}
	return nil
}

// SetExif implements Container.
func (p *PNG) SetExif(tiff []byte) error {
	match := func(c chunk) bool { return c.typ == chunkExif }
	if len(tiff) == 0 {
		p.remove(match)
		return nil
	}
	p.put(chunk{typ: chunkExif, data: tiff}, match)
	return nil
}

// Iptc is not defined for PNG.
func (p *PNG) Iptc() []byte { return nil }

// SetIptc accepts only an empty stream.
func (p *PNG) SetIptc(iim []byte) error {
	if len(iim) == 0 {
		return nil
	}
	return fmt.Errorf("%w: IPTC in png", ErrSectionUnsupported)
}

// Xmp returns the packet stored in the "XML:com.adobe.xmp" iTXt chunk.
func (p *PNG) Xmp() []byte {
	i := p.findText(chunkITXt, pngXmpKeyword)
	if i < 0 {
		return nil
	}
	text, err := decodeITXt(p.chunks[i].data)
	if err != nil {
		return nil
	}
	return text
}

// SetXmp stores the packet uncompressed.
func (p *PNG) SetXmp(packet []byte) error {
	match := func(c chunk) bool { return isTextChunk(c, chunkITXt, pngXmpKeyword) }
	if len(packet) == 0 {
		p.remove(match)
		return nil
	}
	var data []byte
	data = append(data, pngXmpKeyword...)
	// keyword NUL, compression flag, method, empty language, empty translation
	data = append(data, 0, 0, 0, 0, 0)
	data = append(data, packet...)
	p.put(chunk{typ: chunkITXt, data: data}, match)
	return nil
}

// WriteTo implements Container.
func (p *PNG) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	cw.write(pngSignature)
	for _, c := range p.chunks {
		var hdr [8]byte
		binary.BigEndian.PutUint32(hdr[:4], uint32(len(c.data)))
		copy(hdr[4:], c.typ)
		cw.write(hdr[:])
		cw.write(c.data)

		crc := crc32.NewIEEE()
		crc.Write(hdr[4:])
		crc.Write(c.data)
		var sum [4]byte
		binary.BigEndian.PutUint32(sum[:], crc.Sum32())
		cw.write(sum[:])
	}
	return cw.n, cw.err
}

func (p *PNG) findText(typ, keyword string) int {
	for i, c := range p.chunks {
		if isTextChunk(c, typ, keyword) {
			return i
		}
	}
	return -1
}

func (p *PNG) remove(match func(chunk) bool) {
	kept := p.chunks[:0]
	for _, c := range p.chunks {
		if !match(c) {
			kept = append(kept, c)
		}
	}
	p.chunks = kept
}

// put replaces the first matching chunk, or inserts before the first IDAT.
func (p *PNG) put(c chunk, match func(chunk) bool) {
	for i := range p.chunks {
		if match(p.chunks[i]) {
			p.chunks[i] = c
			return
		}
	}
	at := len(p.chunks)
	for i, existing := range p.chunks {
		if existing.typ == chunkIDAT || existing.typ == "IEND" {
			at = i
			break
		}
	}
	p.chunks = append(p.chunks, chunk{})
	copy(p.chunks[at+1:], p.chunks[at:])
	p.chunks[at] = c
}

func isTextChunk(c chunk, typ, keyword string) bool {
	if c.typ != typ {
		return false
	}
	k, _, found := bytes.Cut(c.data, []byte{0})
	return found && string(k) == keyword
}

// maxInflatedText bounds a decompressed iTXt chunk.
const maxInflatedText = 16 << 20

func decodeITXt(data []byte) ([]byte, error) {
	_, rest, _ := bytes.Cut(data, []byte{0})
	if len(rest) < 2 {
		return nil, fmt.Errorf("%w: short iTXt chunk", ErrCorrupt)
	}
	compressed := rest[0] == 1
	rest = rest[2:]
	// language tag, then translated keyword
	_, rest, _ = bytes.Cut(rest, []byte{0})
	_, rest, _ = bytes.Cut(rest, []byte{0})
	if !compressed {
		return rest, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	text, err := io.ReadAll(io.LimitReader(zr, maxInflatedText+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(text) > maxInflatedText {
		return nil, fmt.Errorf("%w: compressed iTXt expands past %d bytes", ErrCorrupt, maxInflatedText)
	}
	return text, nil
}
