package ot

import (
	"encoding/binary"
	"sort"
)

// Builder assembles a new sfnt binary from a set of tables, for writing
// out the result of instancing (§5's "Output"). Tables are kept as raw
// bytes so callers can mix untouched originals with freshly re-encoded
// ones without the builder needing to understand table internals.
type Builder struct {
	tables map[Tag][]byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{tables: make(map[Tag][]byte)}
}

// AddTable adds or replaces a table's bytes.
func (b *Builder) AddTable(tag Tag, data []byte) {
	b.tables[tag] = data
}

// HasTable reports whether tag has been added.
func (b *Builder) HasTable(tag Tag) bool {
	_, ok := b.tables[tag]
	return ok
}

// Build serializes the table directory and every added table into a
// complete sfnt binary, recomputing per-table checksums, the table
// directory's search-range fields, and head's checksumAdjustment.
// Instancing never produces CFF outlines (see ErrCFFOutlines), so the
// sfnt version is always the TrueType 0x00010000 tag.
func (b *Builder) Build() ([]byte, error) {
	if len(b.tables) == 0 {
		return nil, ErrNoTables
	}

	tags := make([]Tag, 0, len(b.tables))
	for tag := range b.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	numTables := len(tags)
	searchRange, entrySelector, rangeShift := calcSearchParams(numTables)

	headerSize := 12 + numTables*16
	dataSize := 0
	for _, tag := range tags {
		n := len(b.tables[tag])
		dataSize += n
		if n%4 != 0 {
			dataSize += 4 - (n % 4)
		}
	}

	out := make([]byte, headerSize+dataSize)
	binary.BigEndian.PutUint32(out[0:], 0x00010000)
	binary.BigEndian.PutUint16(out[4:], uint16(numTables))
	binary.BigEndian.PutUint16(out[6:], searchRange)
	binary.BigEndian.PutUint16(out[8:], entrySelector)
	binary.BigEndian.PutUint16(out[10:], rangeShift)

	offset := headerSize
	recordOff := 12
	for _, tag := range tags {
		data := b.tables[tag]
		binary.BigEndian.PutUint32(out[recordOff:], uint32(tag))
		binary.BigEndian.PutUint32(out[recordOff+4:], calcChecksum(data))
		binary.BigEndian.PutUint32(out[recordOff+8:], uint32(offset))
		binary.BigEndian.PutUint32(out[recordOff+12:], uint32(len(data)))
		recordOff += 16

		copy(out[offset:], data)
		offset += len(data)
		for offset%4 != 0 {
			out[offset] = 0
			offset++
		}
	}

	if headData, ok := b.tables[TagHead]; ok && len(headData) >= 12 {
		headOffset := -1
		recOff := 12
		for _, tag := range tags {
			if tag == TagHead {
				headOffset = int(binary.BigEndian.Uint32(out[recOff+8:]))
				break
			}
			recOff += 16
		}
		if headOffset >= 0 {
			binary.BigEndian.PutUint32(out[headOffset+8:], 0)
			fontChecksum := calcChecksum(out)
			binary.BigEndian.PutUint32(out[headOffset+8:], 0xB1B0AFBA-fontChecksum)
		}
	}

	return out, nil
}

func calcSearchParams(numTables int) (searchRange, entrySelector, rangeShift uint16) {
	power := 1
	for power*2 <= numTables {
		power *= 2
		entrySelector++
	}
	searchRange = uint16(power * 16)
	rangeShift = uint16(numTables*16) - searchRange
	return
}

func calcChecksum(data []byte) uint32 {
	var sum uint32
	length := len(data)
	for i := 0; i+4 <= length; i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if remaining := length % 4; remaining > 0 {
		var last uint32
		off := length - remaining
		for i := 0; i < remaining; i++ {
			last |= uint32(data[off+i]) << (24 - i*8)
		}
		sum += last
	}
	return sum
}
