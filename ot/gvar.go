package ot

import (
	"encoding/binary"
)

// Gvar represents a parsed gvar (Glyph Variations) table.
// It contains variation data for TrueType glyph outlines.
type Gvar struct {
	data                []byte
	axisCount           int
	sharedTupleCount    int
	glyphCount          int
	flags               uint16
	sharedTuplesOffset  uint32
	glyphVarDataOffset  uint32
	glyphVarDataOffsets []uint32 // Offset for each glyph's variation data
}

// ParseGvar parses a gvar table.
func ParseGvar(data []byte) (*Gvar, error) {
	if len(data) < 20 {
		return nil, ErrInvalidTable
	}

	version := binary.BigEndian.Uint16(data[0:])
	if version != 1 {
		return nil, ErrInvalidFormat
	}

	g := &Gvar{
		data:               data,
		axisCount:          int(binary.BigEndian.Uint16(data[4:])),
		sharedTupleCount:   int(binary.BigEndian.Uint16(data[6:])),
		sharedTuplesOffset: binary.BigEndian.Uint32(data[8:]),
		glyphCount:         int(binary.BigEndian.Uint16(data[12:])),
		flags:              binary.BigEndian.Uint16(data[14:]),
		glyphVarDataOffset: binary.BigEndian.Uint32(data[16:]),
	}

	// Parse glyph variation data offsets
	longOffsets := (g.flags & 1) != 0
	offsetsStart := 20

	g.glyphVarDataOffsets = make([]uint32, g.glyphCount+1)

	if longOffsets {
		// 32-bit offsets
		if len(data) < offsetsStart+(g.glyphCount+1)*4 {
			return nil, ErrInvalidOffset
		}
		for i := 0; i <= g.glyphCount; i++ {
			g.glyphVarDataOffsets[i] = binary.BigEndian.Uint32(data[offsetsStart+i*4:])
		}
	} else {
		// 16-bit offsets (multiplied by 2)
		if len(data) < offsetsStart+(g.glyphCount+1)*2 {
			return nil, ErrInvalidOffset
		}
		for i := 0; i <= g.glyphCount; i++ {
			g.glyphVarDataOffsets[i] = uint32(binary.BigEndian.Uint16(data[offsetsStart+i*2:])) * 2
		}
	}

	return g, nil
}

// HasData returns true if the gvar table has valid data.
func (g *Gvar) HasData() bool {
	return g != nil && g.glyphCount > 0
}

// AxisCount returns the number of variation axes.
func (g *Gvar) AxisCount() int {
	return g.axisCount
}

// GlyphCount returns the number of glyphs with variation data.
func (g *Gvar) GlyphCount() int {
	return g.glyphCount
}

// getSharedTuple returns the coordinates for a shared tuple.
// Coordinates are in F2DOT14 format.
func (g *Gvar) getSharedTuple(index int) []int16 {
	if index >= g.sharedTupleCount {
		return nil
	}

	tupleSize := g.axisCount * 2
	offset := int(g.sharedTuplesOffset) + index*tupleSize

	if offset+tupleSize > len(g.data) {
		return nil
	}

	coords := make([]int16, g.axisCount)
	for i := 0; i < g.axisCount; i++ {
		coords[i] = int16(binary.BigEndian.Uint16(g.data[offset+i*2:]))
	}
	return coords
}

// parsePointNumbers parses packed point numbers.
// Returns the point indices and number of bytes consumed.
func (g *Gvar) parsePointNumbers(data []byte) ([]int, int) {
	if len(data) == 0 {
		return nil, 0
	}

	count := int(data[0])
	offset := 1

	if count == 0 {
		// All points
		return nil, 1
	}

	if count&0x80 != 0 {
		// High byte present
		if len(data) < 2 {
			return nil, 1
		}
		count = ((count & 0x7F) << 8) | int(data[1])
		offset = 2
	}

	points := make([]int, 0, count)
	pointsRead := 0
	lastPoint := 0

	for pointsRead < count && offset < len(data) {
		runHeader := data[offset]
		offset++

		pointsAreWords := (runHeader & 0x80) != 0
		runCount := int(runHeader&0x7F) + 1

		for i := 0; i < runCount && pointsRead < count; i++ {
			var delta int
			if pointsAreWords {
				if offset+2 > len(data) {
					break
				}
				delta = int(binary.BigEndian.Uint16(data[offset:]))
				offset += 2
			} else {
				if offset >= len(data) {
					break
				}
				delta = int(data[offset])
				offset++
			}
			lastPoint += delta
			points = append(points, lastPoint)
			pointsRead++
		}
	}

	return points, offset
}

// parseDeltas parses packed delta values.
func (g *Gvar) parseDeltas(data []byte, numDeltas, numPoints int) (xDeltas, yDeltas []int16, consumed int) {
	if numDeltas == 0 {
		numDeltas = numPoints
	}

	xDeltas = make([]int16, numDeltas)
	yDeltas = make([]int16, numDeltas)
	offset := 0

	// Parse X deltas
	deltasRead := 0
	for deltasRead < numDeltas && offset < len(data) {
		runHeader := data[offset]
		offset++

		deltasAreZero := (runHeader & 0x80) != 0
		deltasAreWords := (runHeader & 0x40) != 0
		runCount := int(runHeader&0x3F) + 1

		for i := 0; i < runCount && deltasRead < numDeltas; i++ {
			var delta int16
			if deltasAreZero {
				delta = 0
			} else if deltasAreWords {
				if offset+2 > len(data) {
					break
				}
				delta = int16(binary.BigEndian.Uint16(data[offset:]))
				offset += 2
			} else {
				if offset >= len(data) {
					break
				}
				delta = int16(int8(data[offset]))
				offset++
			}
			xDeltas[deltasRead] = delta
			deltasRead++
		}
	}

	// Parse Y deltas
	deltasRead = 0
	for deltasRead < numDeltas && offset < len(data) {
		runHeader := data[offset]
		offset++

		deltasAreZero := (runHeader & 0x80) != 0
		deltasAreWords := (runHeader & 0x40) != 0
		runCount := int(runHeader&0x3F) + 1

		for i := 0; i < runCount && deltasRead < numDeltas; i++ {
			var delta int16
			if deltasAreZero {
				delta = 0
			} else if deltasAreWords {
				if offset+2 > len(data) {
					break
				}
				delta = int16(binary.BigEndian.Uint16(data[offset:]))
				offset += 2
			} else {
				if offset >= len(data) {
					break
				}
				delta = int16(int8(data[offset]))
				offset++
			}
			yDeltas[deltasRead] = delta
			deltasRead++
		}
	}

	return xDeltas, yDeltas, offset
}
