package ot

import "encoding/binary"

// Simple glyph point flags.
const (
	flagOnCurve      uint8 = 0x01
	flagXShort       uint8 = 0x02
	flagYShort       uint8 = 0x04
	flagRepeat       uint8 = 0x08
	flagXSame        uint8 = 0x10 // or positive X-short
	flagYSame        uint8 = 0x20 // or positive Y-short
	flagOverlapOrRes uint8 = 0x40
)

// SimpleGlyphPoint is one on-curve or off-curve outline point, in font
// units.
type SimpleGlyphPoint struct {
	X, Y    int16
	OnCurve bool
}

// SimpleGlyphOutline is a parsed simple glyph: its points (contour points
// only, phantom points are not part of the glyf encoding and are supplied
// separately by the hmtx/vmtx-derived advance) and the end-point index of
// each contour.
type SimpleGlyphOutline struct {
	Points       []SimpleGlyphPoint
	EndPoints    []int
	Instructions []byte
	// Overlap sets the OVERLAP_SIMPLE flag (bit 0x40) on the first point
	// when the outline is re-encoded, per the variable-font overlap
	// convention for fully-instanced glyphs.
	Overlap bool
}

// ParseSimpleGlyphOutline decodes a simple glyph's point data. data must
// be the full glyph record including the 10-byte header.
func ParseSimpleGlyphOutline(data []byte) (*SimpleGlyphOutline, error) {
	if len(data) < 10 {
		return nil, ErrInvalidTable
	}
	numberOfContours := int16(binary.BigEndian.Uint16(data))
	if numberOfContours < 0 {
		return nil, ErrInvalidFormat
	}

	p := NewParser(data)
	if err := p.Skip(10); err != nil {
		return nil, err
	}

	endPts := make([]int, numberOfContours)
	for i := range endPts {
		v, err := p.U16()
		if err != nil {
			return nil, err
		}
		endPts[i] = int(v)
	}

	numPoints := 0
	if numberOfContours > 0 {
		numPoints = endPts[numberOfContours-1] + 1
	}

	insLen, err := p.U16()
	if err != nil {
		return nil, err
	}
	instructions, err := p.Bytes(int(insLen))
	if err != nil {
		return nil, err
	}

	flags := make([]uint8, numPoints)
	for i := 0; i < numPoints; {
		f, err := p.U8()
		if err != nil {
			return nil, err
		}
		flags[i] = f
		i++
		if f&flagRepeat != 0 {
			repeat, err := p.U8()
			if err != nil {
				return nil, err
			}
			for r := 0; r < int(repeat) && i < numPoints; r++ {
				flags[i] = f
				i++
			}
		}
	}

	points := make([]SimpleGlyphPoint, numPoints)
	var x int16
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&flagXShort != 0:
			v, err := p.U8()
			if err != nil {
				return nil, err
			}
			if f&flagXSame != 0 {
				x += int16(v)
			} else {
				x -= int16(v)
			}
		case f&flagXSame == 0:
			v, err := p.I16()
			if err != nil {
				return nil, err
			}
			x += v
		}
		points[i].X = x
		points[i].OnCurve = f&flagOnCurve != 0
	}

	var y int16
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&flagYShort != 0:
			v, err := p.U8()
			if err != nil {
				return nil, err
			}
			if f&flagYSame != 0 {
				y += int16(v)
			} else {
				y -= int16(v)
			}
		case f&flagYSame == 0:
			v, err := p.I16()
			if err != nil {
				return nil, err
			}
			y += v
		}
		points[i].Y = y
	}

	out := make([]byte, len(instructions))
	copy(out, instructions)

	return &SimpleGlyphOutline{Points: points, EndPoints: endPts, Instructions: out}, nil
}

// EncodeSimpleGlyphOutline re-serializes a simple glyph from scratch,
// always using word-sized (16-bit) deltas for simplicity. xMin/yMin/
// xMax/yMax are recomputed from the point set.
func EncodeSimpleGlyphOutline(o *SimpleGlyphOutline) []byte {
	numContours := len(o.EndPoints)
	numPoints := len(o.Points)

	var xMin, yMin, xMax, yMax int16
	if numPoints > 0 {
		xMin, xMax = o.Points[0].X, o.Points[0].X
		yMin, yMax = o.Points[0].Y, o.Points[0].Y
		for _, pt := range o.Points {
			if pt.X < xMin {
				xMin = pt.X
			}
			if pt.X > xMax {
				xMax = pt.X
			}
			if pt.Y < yMin {
				yMin = pt.Y
			}
			if pt.Y > yMax {
				yMax = pt.Y
			}
		}
	}

	size := 10 + numContours*2 + 2 + len(o.Instructions) + numPoints*(1+4)
	buf := make([]byte, 0, size)

	var hdr [10]byte
	binary.BigEndian.PutUint16(hdr[0:], uint16(numContours))
	binary.BigEndian.PutUint16(hdr[2:], uint16(xMin))
	binary.BigEndian.PutUint16(hdr[4:], uint16(yMin))
	binary.BigEndian.PutUint16(hdr[6:], uint16(xMax))
	binary.BigEndian.PutUint16(hdr[8:], uint16(yMax))
	buf = append(buf, hdr[:]...)

	for _, e := range o.EndPoints {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(e))
		buf = append(buf, b[:]...)
	}

	var insLen [2]byte
	binary.BigEndian.PutUint16(insLen[:], uint16(len(o.Instructions)))
	buf = append(buf, insLen[:]...)
	buf = append(buf, o.Instructions...)

	for i, pt := range o.Points {
		var f uint8
		if pt.OnCurve {
			f |= flagOnCurve
		}
		if i == 0 && o.Overlap {
			f |= flagOverlapOrRes
		}
		buf = append(buf, f)
	}
	var prevX int16
	for _, pt := range o.Points {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(pt.X-prevX))
		prevX = pt.X
		buf = append(buf, b[:]...)
	}
	var prevY int16
	for _, pt := range o.Points {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(pt.Y-prevY))
		prevY = pt.Y
		buf = append(buf, b[:]...)
	}

	return buf
}

// OverlapCompoundFlag is the composite-glyph equivalent of
// SimpleGlyphOutline.Overlap: OR it into a composite's first component
// flags word to mark OVERLAP_COMPOUND.
const OverlapCompoundFlag uint16 = 0x0400
