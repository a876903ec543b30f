package ot

import "encoding/binary"

// FeatureVariationsRaw is an exported, fully-decoded FeatureVariations
// table (GSUB/GPOS version 1.1+): a record list pairing a condition set
// with a feature-table substitution, decoded with exported fields so
// callers can rewrite the record list (condition sets, in particular,
// need axis-index remapping and range rescaling under axis limits).
// Grounded on the read-only decoder's shape, independently decoded here
// with exported fields since that decoder does not expose one.
type FeatureVariationsRaw struct {
	Records []FeatureVariationRecordRaw
}

// FeatureVariationRecordRaw pairs a condition set with the feature
// lookups it substitutes in.
type FeatureVariationRecordRaw struct {
	Conditions  []ConditionRaw
	Substitutes []FeatureSubstitutionRaw
}

// ConditionRaw is one axis-range condition. Format is always 1
// (ConditionAxisRange) in the current OpenType spec; other formats are
// preserved with Unknown=true so callers can warn and drop the record
// rather than mis-evaluate it.
type ConditionRaw struct {
	Format         uint16
	AxisIndex      int
	FilterRangeMin float32 // F2DOT14, already divided
	FilterRangeMax float32
	Unknown        bool
}

// FeatureSubstitutionRaw maps one feature index to its alternate lookup
// list.
type FeatureSubstitutionRaw struct {
	FeatureIndex  int
	LookupIndices []uint16
}

// ParseFeatureVariationsRaw decodes a FeatureVariations table whose start
// is at offset within data (typically GSUB/GPOS's featureVariationsOffset
// relative to the table start).
func ParseFeatureVariationsRaw(data []byte, offset int) (*FeatureVariationsRaw, error) {
	if offset+8 > len(data) {
		return nil, ErrInvalidOffset
	}
	major := binary.BigEndian.Uint16(data[offset:])
	minor := binary.BigEndian.Uint16(data[offset+2:])
	if major != 1 || minor != 0 {
		return nil, ErrInvalidFormat
	}
	recordCount := int(binary.BigEndian.Uint32(data[offset+4:]))
	if offset+8+recordCount*8 > len(data) {
		return nil, ErrInvalidOffset
	}

	out := &FeatureVariationsRaw{Records: make([]FeatureVariationRecordRaw, 0, recordCount)}
	for i := 0; i < recordCount; i++ {
		recOff := offset + 8 + i*8
		condSetOff := binary.BigEndian.Uint32(data[recOff:])
		featSubstOff := binary.BigEndian.Uint32(data[recOff+4:])

		var rec FeatureVariationRecordRaw
		if condSetOff != 0 {
			conds, err := parseConditionSetRaw(data, offset+int(condSetOff))
			if err == nil {
				rec.Conditions = conds
			}
		}
		if featSubstOff != 0 {
			subs, err := parseFeatureSubstitutionRaw(data, offset+int(featSubstOff))
			if err == nil {
				rec.Substitutes = subs
			}
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func parseConditionSetRaw(data []byte, offset int) ([]ConditionRaw, error) {
	if offset+2 > len(data) {
		return nil, ErrInvalidOffset
	}
	count := int(binary.BigEndian.Uint16(data[offset:]))
	if offset+2+count*4 > len(data) {
		return nil, ErrInvalidOffset
	}
	out := make([]ConditionRaw, 0, count)
	for i := 0; i < count; i++ {
		condOff := int(binary.BigEndian.Uint32(data[offset+2+i*4:]))
		c, err := parseConditionRaw(data, offset+condOff)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func parseConditionRaw(data []byte, offset int) (ConditionRaw, error) {
	if offset+2 > len(data) {
		return ConditionRaw{}, ErrInvalidOffset
	}
	format := binary.BigEndian.Uint16(data[offset:])
	if format != 1 {
		return ConditionRaw{Format: format, Unknown: true}, nil
	}
	if offset+8 > len(data) {
		return ConditionRaw{}, ErrInvalidOffset
	}
	return ConditionRaw{
		Format:         format,
		AxisIndex:      int(binary.BigEndian.Uint16(data[offset+2:])),
		FilterRangeMin: float32(int16(binary.BigEndian.Uint16(data[offset+4:]))) / 16384,
		FilterRangeMax: float32(int16(binary.BigEndian.Uint16(data[offset+6:]))) / 16384,
	}, nil
}

func parseFeatureSubstitutionRaw(data []byte, offset int) ([]FeatureSubstitutionRaw, error) {
	if offset+6 > len(data) {
		return nil, ErrInvalidOffset
	}
	major := binary.BigEndian.Uint16(data[offset:])
	minor := binary.BigEndian.Uint16(data[offset+2:])
	if major != 1 || minor != 0 {
		return nil, ErrInvalidFormat
	}
	count := int(binary.BigEndian.Uint16(data[offset+4:]))
	if offset+6+count*6 > len(data) {
		return nil, ErrInvalidOffset
	}
	out := make([]FeatureSubstitutionRaw, count)
	for i := 0; i < count; i++ {
		recOff := offset + 6 + i*6
		out[i].FeatureIndex = int(binary.BigEndian.Uint16(data[recOff:]))
		altOff := binary.BigEndian.Uint32(data[recOff+2:])
		if altOff == 0 {
			continue
		}
		lookups, err := parseAlternateFeatureRaw(data, offset+int(altOff))
		if err == nil {
			out[i].LookupIndices = lookups
		}
	}
	return out, nil
}

func parseAlternateFeatureRaw(data []byte, offset int) ([]uint16, error) {
	if offset+4 > len(data) {
		return nil, ErrInvalidOffset
	}
	count := int(binary.BigEndian.Uint16(data[offset+2:]))
	if offset+4+count*2 > len(data) {
		return nil, ErrInvalidOffset
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(data[offset+4+i*2:])
	}
	return out, nil
}
