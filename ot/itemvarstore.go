package ot

// ItemVariationStoreRaw is an exported, fully-decoded item variation
// store: the region list plus every VarData subtable's raw region
// indices and per-item delta rows, for callers that need to rewrite the
// store itself (as an instancer does).
type ItemVariationStoreRaw struct {
	Axes     []Tag
	Regions  [][]RawRegionAxis
	VarDatas []RawVarData
}

// RawRegionAxis is one axis's (startCoord, peakCoord, endCoord) tent
// within a region record, converted from F2DOT14 to floats in [-1, 1].
type RawRegionAxis struct {
	Start, Peak, End float32
}

// RawVarData is one decoded VarData subtable.
type RawVarData struct {
	RegionIndexes []int
	// DeltaSets[item][column] is the integer delta for that item and
	// region column (column indexes into RegionIndexes, not Regions).
	DeltaSets [][]int32
}

// ParseItemVariationStoreRaw decodes an ItemVariationStore that starts at
// the beginning of data (its internal offsets are relative to that
// start), returning every region and delta row.
func ParseItemVariationStoreRaw(data []byte, fvar *Fvar) (*ItemVariationStoreRaw, error) {
	p := NewParser(data)

	if _, err := p.U16(); err != nil { // format, always 1
		return nil, err
	}
	regionListOffset, err := p.U32()
	if err != nil {
		return nil, err
	}
	itemVariationDataCount, err := p.U16()
	if err != nil {
		return nil, err
	}
	dataOffsets := make([]uint32, itemVariationDataCount)
	for i := range dataOffsets {
		v, err := p.U32()
		if err != nil {
			return nil, err
		}
		dataOffsets[i] = v
	}

	rp, err := p.SubParserFromOffset(int(regionListOffset))
	if err != nil {
		return nil, err
	}
	axisCount, err := rp.U16()
	if err != nil {
		return nil, err
	}
	regionCount, err := rp.U16()
	if err != nil {
		return nil, err
	}
	regions := make([][]RawRegionAxis, regionCount)
	for r := 0; r < int(regionCount); r++ {
		axes := make([]RawRegionAxis, axisCount)
		for a := 0; a < int(axisCount); a++ {
			start, err := rp.I16()
			if err != nil {
				return nil, err
			}
			peak, err := rp.I16()
			if err != nil {
				return nil, err
			}
			end, err := rp.I16()
			if err != nil {
				return nil, err
			}
			axes[a] = RawRegionAxis{
				Start: float32(start) / 16384,
				Peak:  float32(peak) / 16384,
				End:   float32(end) / 16384,
			}
		}
		regions[r] = axes
	}

	var axisTags []Tag
	if fvar != nil {
		for _, ai := range fvar.AxisInfos() {
			axisTags = append(axisTags, ai.Tag)
			if len(axisTags) == int(axisCount) {
				break
			}
		}
	}

	varDatas := make([]RawVarData, len(dataOffsets))
	for i, off := range dataOffsets {
		dp, err := p.SubParserFromOffset(int(off))
		if err != nil {
			return nil, err
		}
		itemCount, err := dp.U16()
		if err != nil {
			return nil, err
		}
		shortDeltaCount, err := dp.U16()
		if err != nil {
			return nil, err
		}
		regionIndexCount, err := dp.U16()
		if err != nil {
			return nil, err
		}
		regionIdx := make([]int, regionIndexCount)
		for r := range regionIdx {
			v, err := dp.U16()
			if err != nil {
				return nil, err
			}
			regionIdx[r] = int(v)
		}
		deltaSets := make([][]int32, itemCount)
		for it := 0; it < int(itemCount); it++ {
			row := make([]int32, regionIndexCount)
			col := 0
			for ; col < int(shortDeltaCount); col++ {
				v, err := dp.I16()
				if err != nil {
					return nil, err
				}
				row[col] = int32(v)
			}
			for ; col < int(regionIndexCount); col++ {
				b, err := dp.Bytes(1)
				if err != nil {
					return nil, err
				}
				row[col] = int32(int8(b[0]))
			}
			deltaSets[it] = row
		}
		varDatas[i] = RawVarData{RegionIndexes: regionIdx, DeltaSets: deltaSets}
	}

	return &ItemVariationStoreRaw{Axes: axisTags, Regions: regions, VarDatas: varDatas}, nil
}
