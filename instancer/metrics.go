package instancer

import "github.com/grishacl/varinstance/ot"

// CvtToTupleVariations expands a cvar table's tuple records into the
// package's mutable form, one dense or sparse delta vector per control
// value entry.
func CvtToTupleVariations(axisTags []ot.Tag, tuples []ot.CvarTupleVariation, cvtCount int) []*TupleVariation {
	out := make([]*TupleVariation, 0, len(tuples))
	for _, tv := range tuples {
		deltas := make([]float64, cvtCount)
		var hasDelta []bool

		if tv.PointNumbers == nil {
			for i := 0; i < cvtCount && i < len(tv.Deltas); i++ {
				deltas[i] = float64(tv.Deltas[i])
			}
		} else {
			hasDelta = make([]bool, cvtCount)
			for i, pt := range tv.PointNumbers {
				if pt >= cvtCount || i >= len(tv.Deltas) {
					continue
				}
				deltas[pt] = float64(tv.Deltas[i])
				hasDelta[pt] = true
			}
		}

		out = append(out, &TupleVariation{Axes: tentsFromCoords(axisTags, tv.PeakCoords, tv.StartCoords, tv.EndCoords), Deltas: deltas, HasDelta: hasDelta})
	}
	return out
}

// InstantiateCvt implements the cvar half of §4.G: pin/range-limit the
// control-value program's tuple store and fold the default-delta residue
// directly into the cvt array. IUP never applies to cvt entries (they are
// not points on a contour), so aux is always nil. Returns the surviving
// tuple variations (nil if the table is now empty, meaning cvar should be
// dropped) and the cvt values after folding.
func InstantiateCvt(cvt []int16, variations []*TupleVariation, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) ([]*TupleVariation, []int16) {
	remaining, residue := TransformStore(variations, pinned, ranged, len(cvt), nil)

	out := make([]int16, len(cvt))
	for i, v := range cvt {
		out[i] = int16(int32(v) + otRound(residue[i]))
	}
	return remaining, out
}

// MvarField is one font-wide metric tracked by MVAR, identified by its
// four-byte value tag (e.g. "hasc", "xhgt", "undo", "strs").
type MvarField struct {
	Tag   ot.Tag
	Value float64
}

// InstantiateMvar implements the MVAR half of §4.G: run the shared item
// variation store through component E, then for each value record add
// its row's residue to the corresponding metric. The value records
// themselves are not rewritten: none is re-pointed at the returned store
// or dropped when its row no longer varies.
func InstantiateMvar(fields []MvarField, records []ot.MvarValueRecord, store *ItemVariationStore, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) ([]MvarField, *ItemVariationStore) {
	newStore, residues := TransformItemVariationStore(store, pinned, ranged)

	byTag := make(map[ot.Tag]int, len(fields))
	for i, f := range fields {
		byTag[f.Tag] = i
	}

	for _, rec := range records {
		idx, ok := byTag[rec.ValueTag]
		if !ok {
			continue
		}
		if int(rec.DeltaSetOuter) >= len(residues) {
			continue
		}
		row := residues[rec.DeltaSetOuter]
		if int(rec.DeltaSetInner) >= len(row) {
			continue
		}
		fields[idx].Value += row[rec.DeltaSetInner]
	}

	return fields, newStore
}

// InstantiateAdvanceStore implements the HVAR/VVAR half of §4.G: when
// every variable axis is fully pinned the whole store collapses (every
// column becomes the default-delta residue and gets folded directly into
// the advance array, so the table is dropped outright); otherwise the
// store is transformed like any other component-E consumer and the
// residues are folded into the per-glyph advances while the reduced store
// is kept (together with its delta-set index map, rewritten by the
// caller if glyph-to-row assignments shifted).
func InstantiateAdvanceStore(advances []float64, glyphOuter, glyphInner []uint16, store *ItemVariationStore, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) ([]float64, *ItemVariationStore) {
	newStore, residues := TransformItemVariationStore(store, pinned, ranged)

	for gid := range advances {
		if gid >= len(glyphOuter) || gid >= len(glyphInner) {
			continue
		}
		outer := int(glyphOuter[gid])
		inner := int(glyphInner[gid])
		if outer >= len(residues) {
			continue
		}
		row := residues[outer]
		if inner >= len(row) {
			continue
		}
		advances[gid] += row[inner]
	}

	for _, vd := range newStore.VarDatas {
		if len(vd.Regions) > 0 {
			return advances, newStore
		}
	}
	return advances, nil
}
