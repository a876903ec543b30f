package ot

import "encoding/binary"

// StatAxisValue is one STAT AxisValue record, formats 1-4 folded into a
// single shape: Format 1-3 carry one axis index, Format 4 carries several
// (AxisIndices/Values, parallel slices) and requires every sub-value to
// remain valid for the whole record to survive axis instancing.
type StatAxisValue struct {
	Format       uint16
	AxisIndices  []int
	Values       []float32 // Fixed 16.16, one per AxisIndices entry
	Flags        uint16
	ValueNameID  uint16
	LinkedValue  float32 // format 3 only
	RangeMinUsed bool
	RangeMin     float32 // format 2 only
	RangeMaxUsed bool
	RangeMax     float32 // format 2 only
}

// Stat is a parsed STAT table: the design-axes array plus the
// axis-value array (elided-offset-array tables are resolved eagerly).
type Stat struct {
	DesignAxes    []AxisRecordRaw
	ElidedFallback uint16
	AxisValues    []StatAxisValue
}

// AxisRecordRaw is one STAT DesignAxisRecord.
type AxisRecordRaw struct {
	Tag       Tag
	NameID    uint16
	AxisOrder uint16
}

// ParseStat decodes a STAT table.
func ParseStat(data []byte) (*Stat, error) {
	if len(data) < 16 {
		return nil, ErrInvalidTable
	}
	p := NewParser(data)
	if err := p.Skip(4); err != nil { // majorVersion, minorVersion
		return nil, err
	}
	designAxisSize, err := p.U16()
	if err != nil {
		return nil, err
	}
	designAxisCount, err := p.U16()
	if err != nil {
		return nil, err
	}
	designAxesOffset, err := p.U32()
	if err != nil {
		return nil, err
	}
	axisValueCount, err := p.U16()
	if err != nil {
		return nil, err
	}
	axisValueOffsetsOffset, err := p.U32()
	if err != nil {
		return nil, err
	}
	elidedFallbackNameID, err := p.U16()
	if err != nil {
		return nil, err
	}

	axes := make([]AxisRecordRaw, designAxisCount)
	for i := range axes {
		off := int(designAxesOffset) + i*int(designAxisSize)
		if off+8 > len(data) {
			break
		}
		axes[i] = AxisRecordRaw{
			Tag:       Tag(binary.BigEndian.Uint32(data[off:])),
			NameID:    binary.BigEndian.Uint16(data[off+4:]),
			AxisOrder: binary.BigEndian.Uint16(data[off+6:]),
		}
	}

	values := make([]StatAxisValue, 0, axisValueCount)
	for i := 0; i < int(axisValueCount); i++ {
		offPos := int(axisValueOffsetsOffset) + i*2
		if offPos+2 > len(data) {
			break
		}
		valOff := int(axisValueOffsetsOffset) + int(binary.BigEndian.Uint16(data[offPos:]))
		v, ok := parseStatAxisValue(data, valOff)
		if ok {
			values = append(values, v)
		}
	}

	return &Stat{DesignAxes: axes, ElidedFallback: elidedFallbackNameID, AxisValues: values}, nil
}

func parseStatAxisValue(data []byte, offset int) (StatAxisValue, bool) {
	if offset+2 > len(data) {
		return StatAxisValue{}, false
	}
	format := binary.BigEndian.Uint16(data[offset:])
	switch format {
	case 1:
		if offset+8 > len(data) {
			return StatAxisValue{}, false
		}
		return StatAxisValue{
			Format:      1,
			AxisIndices: []int{int(binary.BigEndian.Uint16(data[offset+2:]))},
			Flags:       binary.BigEndian.Uint16(data[offset+4:]),
			ValueNameID: binary.BigEndian.Uint16(data[offset+6:]),
			Values:      []float32{fixed1616ToFloat(binary.BigEndian.Uint32(data[offset+8:]))},
		}, true
	case 2:
		if offset+20 > len(data) {
			return StatAxisValue{}, false
		}
		return StatAxisValue{
			Format:       2,
			AxisIndices:  []int{int(binary.BigEndian.Uint16(data[offset+2:]))},
			Flags:        binary.BigEndian.Uint16(data[offset+4:]),
			ValueNameID:  binary.BigEndian.Uint16(data[offset+6:]),
			Values:       []float32{fixed1616ToFloat(binary.BigEndian.Uint32(data[offset+8:]))},
			RangeMinUsed: true,
			RangeMin:     fixed1616ToFloat(binary.BigEndian.Uint32(data[offset+12:])),
			RangeMaxUsed: true,
			RangeMax:     fixed1616ToFloat(binary.BigEndian.Uint32(data[offset+16:])),
		}, true
	case 3:
		if offset+16 > len(data) {
			return StatAxisValue{}, false
		}
		return StatAxisValue{
			Format:      3,
			AxisIndices: []int{int(binary.BigEndian.Uint16(data[offset+2:]))},
			Flags:       binary.BigEndian.Uint16(data[offset+4:]),
			ValueNameID: binary.BigEndian.Uint16(data[offset+6:]),
			Values:      []float32{fixed1616ToFloat(binary.BigEndian.Uint32(data[offset+8:]))},
			LinkedValue: fixed1616ToFloat(binary.BigEndian.Uint32(data[offset+12:])),
		}, true
	case 4:
		if offset+8 > len(data) {
			return StatAxisValue{}, false
		}
		axisCount := int(binary.BigEndian.Uint16(data[offset+2:]))
		flags := binary.BigEndian.Uint16(data[offset+4:])
		nameID := binary.BigEndian.Uint16(data[offset+6:])
		indices := make([]int, axisCount)
		values := make([]float32, axisCount)
		p := offset + 8
		for i := 0; i < axisCount; i++ {
			if p+6 > len(data) {
				return StatAxisValue{}, false
			}
			indices[i] = int(binary.BigEndian.Uint16(data[p:]))
			values[i] = fixed1616ToFloat(binary.BigEndian.Uint32(data[p+2:]))
			p += 6
		}
		return StatAxisValue{Format: 4, AxisIndices: indices, Values: values, Flags: flags, ValueNameID: nameID}, true
	default:
		return StatAxisValue{}, false
	}
}
