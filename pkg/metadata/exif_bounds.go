package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCorruptExif is returned when an EXIF entry points outside its section.
var ErrCorruptExif = errors.New("corrupt EXIF structure")

// exifTypeSizes holds the unit size of each TIFF field type.
var exifTypeSizes = map[uint16]uint64{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1,
	7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// Tags whose value is the offset of a child IFD.
var exifPointerTags = map[uint16]bool{
	0x8769: true, // Exif
	0x8825: true, // GPSInfo
	0xA005: true, // Interoperability
}

const maxExifIfds = 32

// checkExifBounds walks every IFD of raw and rejects entries whose data or
// links fall outside the section. The EXIF decoder allocates value buffers
// from the declared counts, so it must never see an unchecked section.
func checkExifBounds(raw []byte) error {
	start := tiffHeaderIndex(raw)
	if start < 0 {
		return fmt.Errorf("%w: no TIFF header", ErrCorruptExif)
	}
	tiff := raw[start:]
	if len(tiff) < 8 {
		return fmt.Errorf("%w: short TIFF header", ErrCorruptExif)
	}

	var order binary.ByteOrder = binary.BigEndian
	if tiff[0] == 'I' {
		order = binary.LittleEndian
	}
	size := uint64(len(tiff))

	pending := []uint32{order.Uint32(tiff[4:8])}
	seen := make(map[uint32]bool)
	for len(pending) > 0 {
		offset := pending[0]
		pending = pending[1:]
		if offset == 0 || seen[offset] {
			continue
		}
		if len(seen) == maxExifIfds {
			return fmt.Errorf("%w: too many IFDs", ErrCorruptExif)
		}
		seen[offset] = true

		if uint64(offset)+2 > size {
			return fmt.Errorf("%w: IFD at %d outside section", ErrCorruptExif, offset)
		}
		count := uint64(order.Uint16(tiff[offset:]))
		end := uint64(offset) + 2 + 12*count + 4
		if end > size {
			return fmt.Errorf("%w: IFD at %d with %d entries outside section", ErrCorruptExif, offset, count)
		}

		for i := uint64(0); i < count; i++ {
			entry := tiff[uint64(offset)+2+12*i:]
			tag := order.Uint16(entry[0:])
			typ := order.Uint16(entry[2:])
			units := uint64(order.Uint32(entry[4:]))
			valueOffset := order.Uint32(entry[8:])

			unit, ok := exifTypeSizes[typ]
			if !ok {
				unit = 1
			}
			length := units * unit
			if length > size {
				return fmt.Errorf("%w: tag 0x%04x declares %d bytes", ErrCorruptExif, tag, length)
			}
			if length > 4 && uint64(valueOffset)+length > size {
				return fmt.Errorf("%w: tag 0x%04x data outside section", ErrCorruptExif, tag)
			}
			if exifPointerTags[tag] {
				pending = append(pending, valueOffset)
			}
		}
		pending = append(pending, order.Uint32(tiff[end-4:end]))
	}
	return nil
}

// tiffHeaderIndex finds the first TIFF byte-order header in raw, or -1.
func tiffHeaderIndex(raw []byte) int {
	best := -1
	for _, sig := range [][]byte{[]byte("MM\x00\x2a"), []byte("II\x2a\x00")} {
		if i := bytes.Index(raw, sig); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}
