package ot

import "encoding/binary"

// GvarTupleVariation is one raw tuple variation record from a glyph's
// gvar entry: callers that rewrite the table (rather than just
// evaluate it at one set of coordinates) need the per-tuple axis tent
// and the untouched sparse point/delta pairs, not a pre-summed result.
type GvarTupleVariation struct {
	// PeakCoords/StartCoords/EndCoords are F2DOT14 ints, one per axis.
	// Start/EndCoords are nil when the tuple has no intermediate region
	// (the implicit default applies).
	PeakCoords, StartCoords, EndCoords []int16
	// PointNumbers is nil when the tuple carries deltas for every point
	// (including the 4 phantom points); otherwise it lists the touched
	// point indices, aligned with XDeltas/YDeltas.
	PointNumbers []int
	XDeltas      []int16
	YDeltas      []int16
}

// GlyphTupleVariations decodes every tuple variation record for a glyph,
// expanding shared tuples/points into each record's own fields. numPoints
// is the point count including the 4 phantom points.
func (g *Gvar) GlyphTupleVariations(glyphID GlyphID, numPoints int) ([]GvarTupleVariation, error) {
	if g == nil || int(glyphID) >= g.glyphCount {
		return nil, nil
	}

	startOffset := g.glyphVarDataOffset + g.glyphVarDataOffsets[glyphID]
	endOffset := g.glyphVarDataOffset + g.glyphVarDataOffsets[glyphID+1]
	if startOffset == endOffset {
		return nil, nil
	}
	if int(endOffset) > len(g.data) {
		return nil, ErrInvalidOffset
	}

	glyphData := g.data[startOffset:endOffset]
	if len(glyphData) < 4 {
		return nil, ErrInvalidTable
	}

	tupleVarCount := binary.BigEndian.Uint16(glyphData[0:])
	tupleCount := int(tupleVarCount & 0x0FFF)
	sharedPointNumbers := (tupleVarCount & 0x8000) != 0
	dataOffset := binary.BigEndian.Uint16(glyphData[2:])
	if tupleCount == 0 {
		return nil, nil
	}

	var sharedPoints []int
	serializedDataStart := int(dataOffset)
	if sharedPointNumbers {
		var consumed int
		sharedPoints, consumed = g.parsePointNumbers(glyphData[serializedDataStart:])
		serializedDataStart += consumed
	}

	out := make([]GvarTupleVariation, 0, tupleCount)
	headerOffset := 4
	serializedOffset := serializedDataStart

	for t := 0; t < tupleCount; t++ {
		if headerOffset+4 > len(glyphData) {
			break
		}
		variationDataSize := int(binary.BigEndian.Uint16(glyphData[headerOffset:]))
		tupleIndex := binary.BigEndian.Uint16(glyphData[headerOffset+2:])
		headerOffset += 4

		embeddedPeakTuple := (tupleIndex & 0x8000) != 0
		intermediateRegion := (tupleIndex & 0x4000) != 0
		privatePointNumbers := (tupleIndex & 0x2000) != 0
		tupleIdx := int(tupleIndex & 0x0FFF)

		var peakCoords []int16
		if embeddedPeakTuple {
			peakCoords = make([]int16, g.axisCount)
			for i := 0; i < g.axisCount; i++ {
				if headerOffset+2 > len(glyphData) {
					break
				}
				peakCoords[i] = int16(binary.BigEndian.Uint16(glyphData[headerOffset:]))
				headerOffset += 2
			}
		} else {
			peakCoords = g.getSharedTuple(tupleIdx)
		}

		var startCoords, endCoords []int16
		if intermediateRegion {
			startCoords = make([]int16, g.axisCount)
			endCoords = make([]int16, g.axisCount)
			for i := 0; i < g.axisCount; i++ {
				if headerOffset+2 > len(glyphData) {
					break
				}
				startCoords[i] = int16(binary.BigEndian.Uint16(glyphData[headerOffset:]))
				headerOffset += 2
			}
			for i := 0; i < g.axisCount; i++ {
				if headerOffset+2 > len(glyphData) {
					break
				}
				endCoords[i] = int16(binary.BigEndian.Uint16(glyphData[headerOffset:]))
				headerOffset += 2
			}
		}

		var pointIndices []int
		deltaDataStart := serializedOffset
		if privatePointNumbers {
			var consumed int
			pointIndices, consumed = g.parsePointNumbers(glyphData[serializedOffset:])
			deltaDataStart += consumed
		} else {
			pointIndices = sharedPoints
		}

		numDeltas := len(pointIndices)
		if numDeltas == 0 {
			numDeltas = numPoints
		}
		xDeltas, yDeltas, _ := g.parseDeltas(glyphData[deltaDataStart:], numDeltas, numPoints)

		out = append(out, GvarTupleVariation{
			PeakCoords:   peakCoords,
			StartCoords:  startCoords,
			EndCoords:    endCoords,
			PointNumbers: pointIndices,
			XDeltas:      xDeltas,
			YDeltas:      yDeltas,
		})

		serializedOffset += variationDataSize
	}

	return out, nil
}
