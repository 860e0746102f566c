package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const irbIptcID = 0x0404

var irbSignature = []byte("8BIM")

// irbResource is one Photoshop image resource block.
type irbResource struct {
	id   uint16
	name []byte
	data []byte
}

func parseIRB(b []byte) ([]irbResource, error) {
	var out []irbResource
	p := 0
	for p < len(b) {
		// Trailing padding is common.
		if len(b)-p < 12 {
			break
		}
		if !bytes.Equal(b[p:p+4], irbSignature) {
			return nil, fmt.Errorf("%w: bad image resource signature at %d", ErrCorrupt, p)
		}
		p += 4
		id := binary.BigEndian.Uint16(b[p:])
		p += 2

		nameLen := int(b[p])
		// Pascal string padded to an even total length.
		nameSize := nameLen + 1
		if nameSize%2 != 0 {
			nameSize++
		}
		if p+nameSize+4 > len(b) {
			return nil, fmt.Errorf("%w: truncated image resource name", ErrCorrupt)
		}
		name := b[p+1 : p+1+nameLen]
		p += nameSize

		size := int(binary.BigEndian.Uint32(b[p:]))
		p += 4
		if size < 0 || p+size > len(b) {
			return nil, fmt.Errorf("%w: image resource 0x%04X overruns segment", ErrCorrupt, id)
		}
		out = append(out, irbResource{id: id, name: name, data: b[p : p+size]})
		p += size
		if size%2 != 0 {
			p++
		}
	}
	return out, nil
}

func encodeIRB(resources []irbResource) []byte {
	var buf bytes.Buffer
	for _, r := range resources {
		buf.Write(irbSignature)
		_ = binary.Write(&buf, binary.BigEndian, r.id)

		buf.WriteByte(byte(len(r.name)))
		buf.Write(r.name)
		if (len(r.name)+1)%2 != 0 {
			buf.WriteByte(0)
		}

		_ = binary.Write(&buf, binary.BigEndian, uint32(len(r.data)))
		buf.Write(r.data)
		if len(r.data)%2 != 0 {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}
