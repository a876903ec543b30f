package instancer

import (
	"github.com/grishacl/varinstance/ot"
)

// ItemVariationStore is a mutable, decoded item-variation store: one or
// more VarData subtables, each carrying its own per-column region tents
// (there is no shared region list). It is built from ot's wire-level
// ItemVariationStoreRaw so that the component that transforms a store
// under axis limits can re-pack every subtable's rows.
type ItemVariationStore struct {
	Axes     []ot.Tag
	VarDatas []*VarData
}

// VarData is one subtable: each item (glyph, value record, ...) has one
// delta per region the subtable references.
type VarData struct {
	Regions   []*AxisTents // one per column, same length as each row
	DeltaSets [][]float64  // [item][column]
}

// ItemVariationStoreFromRaw converts a wire-decoded store into the mutable representation,
// expanding every VarData's region indices into this subtable's own
// region-tent columns and its item rows into float64 deltas.
func ItemVariationStoreFromRaw(raw *ot.ItemVariationStoreRaw) *ItemVariationStore {
	regions := make([]*AxisTents, len(raw.Regions))
	for i, axes := range raw.Regions {
		at := NewAxisTents()
		for a, ra := range axes {
			if ra.Start == 0 && ra.Peak == 0 && ra.End == 0 {
				continue
			}
			var tag ot.Tag
			if a < len(raw.Axes) {
				tag = raw.Axes[a]
			}
			at.Set(tag, Tent{float64(ra.Start), float64(ra.Peak), float64(ra.End)})
		}
		regions[i] = at
	}

	store := &ItemVariationStore{Axes: append([]ot.Tag{}, raw.Axes...)}
	for _, rvd := range raw.VarDatas {
		vd := &VarData{Regions: make([]*AxisTents, len(rvd.RegionIndexes))}
		for c, ri := range rvd.RegionIndexes {
			vd.Regions[c] = regions[ri]
		}
		vd.DeltaSets = make([][]float64, len(rvd.DeltaSets))
		for i, row := range rvd.DeltaSets {
			r := make([]float64, len(row))
			for c, d := range row {
				r[c] = float64(d)
			}
			vd.DeltaSets[i] = r
		}
		store.VarDatas = append(store.VarDatas, vd)
	}
	return store
}

// TransformVarData applies §4.D's pin/range-limit/merge/round pipeline to
// one subtable's columns (each column behaves exactly like a tuple
// variation whose "deltas" are the column's per-item values), returning
// the subtable rebuilt over its surviving columns and the per-item
// default-delta residue folded out of the dropped/pinned columns.
func TransformVarData(vd *VarData, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) (*VarData, []float64) {
	itemCount := len(vd.DeltaSets)
	columns := make([]*TupleVariation, len(vd.Regions))
	for c, region := range vd.Regions {
		deltas := make([]float64, itemCount)
		for i, row := range vd.DeltaSets {
			deltas[i] = row[c]
		}
		columns[c] = &TupleVariation{Axes: region.Clone(), Deltas: deltas}
	}

	surviving, residue := TransformStore(columns, pinned, ranged, itemCount, nil)

	out := &VarData{Regions: make([]*AxisTents, len(surviving))}
	out.DeltaSets = make([][]float64, itemCount)
	for i := range out.DeltaSets {
		out.DeltaSets[i] = make([]float64, len(surviving))
	}
	for c, v := range surviving {
		out.Regions[c] = v.Axes
		for i := range out.DeltaSets {
			out.DeltaSets[i][c] = v.Deltas[i]
		}
	}
	return out, residue
}

// TransformItemVariationStore implements component E end to end: each
// subtable's columns are transformed independently (rows never mix
// across subtables), and pinned axes are removed from the store's axis
// list. Each subtable keeps its own surviving region columns: no shared
// region list is built and no regions are pruned across subtables.
// Per-subtable residues (to be folded into whatever base values the
// caller stores, e.g. advance widths or control values) are returned
// alongside the new store.
func TransformItemVariationStore(store *ItemVariationStore, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) (*ItemVariationStore, [][]float64) {
	newAxes := make([]ot.Tag, 0, len(store.Axes))
	for _, tag := range store.Axes {
		if _, isPinned := pinned[tag]; isPinned {
			continue
		}
		newAxes = append(newAxes, tag)
	}

	newStore := &ItemVariationStore{Axes: newAxes}
	residues := make([][]float64, len(store.VarDatas))

	// The set of surviving region keys across every subtable, and a count
	// of input regions missing from it; neither feeds back into the
	// returned store, since each subtable keeps its own column list.
	seen := make(map[string]bool)
	pruned := 0

	for i, vd := range store.VarDatas {
		out, residue := TransformVarData(vd, pinned, ranged)
		residues[i] = residue
		newStore.VarDatas = append(newStore.VarDatas, out)
		for _, r := range out.Regions {
			seen[r.Key()] = true
		}
	}
	for _, vd := range store.VarDatas {
		for _, r := range vd.Regions {
			if !seen[r.Key()] {
				pruned++
			}
		}
	}

	return newStore, residues
}
