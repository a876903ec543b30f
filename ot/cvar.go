package ot

import "encoding/binary"

// CvarTupleVariation is one decoded tuple variation record from the cvar
// (CVT Variations) table: a tent over one or more axes plus deltas for
// some or all of the font's control-value entries.
type CvarTupleVariation struct {
	PeakCoords, StartCoords, EndCoords []int16
	// PointNumbers is nil when every cvt entry has a delta; otherwise it
	// lists the touched cvt indices, aligned with Deltas.
	PointNumbers []int
	Deltas       []int16
}

// Cvar is a parsed cvar table.
type Cvar struct {
	Tuples []CvarTupleVariation
}

// ParseCvar decodes a cvar table. axisCount and cvtCount come from fvar
// and the font's cvt table respectively.
func ParseCvar(data []byte, axisCount, cvtCount int) (*Cvar, error) {
	if len(data) < 8 {
		return nil, ErrInvalidTable
	}
	tupleVarCount := binary.BigEndian.Uint16(data[4:])
	tupleCount := int(tupleVarCount & 0x0FFF)
	dataOffset := binary.BigEndian.Uint16(data[6:])
	if tupleCount == 0 {
		return &Cvar{}, nil
	}

	out := make([]CvarTupleVariation, 0, tupleCount)
	headerOffset := 8
	serializedOffset := int(dataOffset)

	readPointNumbers := func(d []byte) ([]int, int) {
		return parsePackedPointNumbers(d)
	}
	readDeltas := func(d []byte, count int) ([]int16, int) {
		return parsePackedDeltas(d, count)
	}

	for t := 0; t < tupleCount; t++ {
		if headerOffset+4 > len(data) {
			break
		}
		variationDataSize := int(binary.BigEndian.Uint16(data[headerOffset:]))
		tupleIndex := binary.BigEndian.Uint16(data[headerOffset+2:])
		headerOffset += 4

		embeddedPeakTuple := (tupleIndex & 0x8000) != 0
		intermediateRegion := (tupleIndex & 0x4000) != 0
		privatePointNumbers := (tupleIndex & 0x2000) != 0

		var peak, start, end []int16
		if embeddedPeakTuple {
			peak = make([]int16, axisCount)
			for i := 0; i < axisCount; i++ {
				if headerOffset+2 > len(data) {
					break
				}
				peak[i] = int16(binary.BigEndian.Uint16(data[headerOffset:]))
				headerOffset += 2
			}
		}
		if intermediateRegion {
			start = make([]int16, axisCount)
			end = make([]int16, axisCount)
			for i := 0; i < axisCount; i++ {
				if headerOffset+2 > len(data) {
					break
				}
				start[i] = int16(binary.BigEndian.Uint16(data[headerOffset:]))
				headerOffset += 2
			}
			for i := 0; i < axisCount; i++ {
				if headerOffset+2 > len(data) {
					break
				}
				end[i] = int16(binary.BigEndian.Uint16(data[headerOffset:]))
				headerOffset += 2
			}
		}

		var points []int
		deltaStart := serializedOffset
		if privatePointNumbers {
			var consumed int
			if serializedOffset < len(data) {
				points, consumed = readPointNumbers(data[serializedOffset:])
			}
			deltaStart += consumed
		}

		numDeltas := len(points)
		if numDeltas == 0 {
			numDeltas = cvtCount
		}
		var deltas []int16
		if deltaStart < len(data) {
			deltas, _ = readDeltas(data[deltaStart:], numDeltas)
		}

		out = append(out, CvarTupleVariation{
			PeakCoords: peak, StartCoords: start, EndCoords: end,
			PointNumbers: points, Deltas: deltas,
		})
		serializedOffset += variationDataSize
	}

	return &Cvar{Tuples: out}, nil
}

func parsePackedPointNumbers(data []byte) ([]int, int) {
	if len(data) == 0 {
		return nil, 0
	}
	count := int(data[0])
	offset := 1
	if count == 0 {
		return nil, 1
	}
	if count&0x80 != 0 {
		if len(data) < 2 {
			return nil, 1
		}
		count = ((count & 0x7F) << 8) | int(data[1])
		offset = 2
	}
	points := make([]int, 0, count)
	read := 0
	last := 0
	for read < count && offset < len(data) {
		runHeader := data[offset]
		offset++
		words := runHeader&0x80 != 0
		runCount := int(runHeader&0x7F) + 1
		for i := 0; i < runCount && read < count; i++ {
			var delta int
			if words {
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
			last += delta
			points = append(points, last)
			read++
		}
	}
	return points, offset
}

func parsePackedDeltas(data []byte, count int) ([]int16, int) {
	out := make([]int16, count)
	offset := 0
	read := 0
	for read < count && offset < len(data) {
		runHeader := data[offset]
		offset++
		zero := runHeader&0x80 != 0
		words := runHeader&0x40 != 0
		runCount := int(runHeader&0x3F) + 1
		for i := 0; i < runCount && read < count; i++ {
			var d int16
			if zero {
				d = 0
			} else if words {
				if offset+2 > len(data) {
					break
				}
				d = int16(binary.BigEndian.Uint16(data[offset:]))
				offset += 2
			} else {
				if offset >= len(data) {
					break
				}
				d = int16(int8(data[offset]))
				offset++
			}
			out[read] = d
			read++
		}
	}
	return out, offset
}
