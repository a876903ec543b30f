package instancer

import (
	"sort"

	"github.com/grishacl/varinstance/ot"
)

// AxisSegmentMap is one surviving axis's avar segment map, in [-1, 1]
// floats.
type AxisSegmentMap struct {
	Tag      ot.Tag
	Segments [][2]float64
}

// RebuildAvar implements §4.I's avar rewrite: pinned axes are dropped
// outright; a ranged axis's segment map is re-anchored by rescaling every
// segment's (fromCoord, toCoord) pair into the axis's new [-1, 1] range
// and dropping points whose fromCoord falls outside [lo, hi], then
// anchoring the map with (-1, -1) and (1, 1); an untouched axis's
// segment map passes through unchanged. Order follows axisOrder, with
// pinned axes skipped.
func RebuildAvar(avar *ot.Avar, axisOrder []ot.Tag, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) []AxisSegmentMap {
	if avar == nil {
		return nil
	}
	out := make([]AxisSegmentMap, 0, len(axisOrder))
	for i, tag := range axisOrder {
		if _, isPinned := pinned[tag]; isPinned {
			continue
		}
		segs := avar.Segments(i)
		if rng, isRanged := ranged[tag]; isRanged {
			segs = rescaleSegments(segs, rng[0], rng[1])
		}
		out = append(out, AxisSegmentMap{Tag: tag, Segments: segs})
	}
	return out
}

func rescaleSegments(segs [][2]float64, lo, hi float64) [][2]float64 {
	var out [][2]float64
	for _, s := range segs {
		from, to := s[0], s[1]
		if from < lo || from > hi {
			continue
		}
		out = append(out, [2]float64{rescaleToAxisRange(from, lo, hi), quantizeF2Dot14(rescaleToAxisRange(to, lo, hi))})
	}
	if len(out) == 0 {
		return nil
	}
	if out[0][0] != -1 {
		out = append([][2]float64{{-1, -1}}, out...)
	}
	if out[len(out)-1][0] != 1 {
		out = append(out, [2]float64{1, 1})
	}
	return out
}

// FvarAxis is one surviving variable axis after instancing: every axis
// that is not pinned, with a range-limited axis's bounds rewritten (a
// pinned axis is removed from fvar entirely, per §4.I).
type FvarAxis struct {
	Tag               ot.Tag
	Min, Default, Max float32
	NameID            uint16
	Flags             ot.AxisFlags
}

// PruneFvarAxes implements the fvar half of §4.I: drop every pinned
// axis, and rescale a ranged axis's min/default/max triple to its new
// bounds.
func PruneFvarAxes(axes []ot.AxisInfo, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64, norm *Normalizer) []FvarAxis {
	out := make([]FvarAxis, 0, len(axes))
	for _, ai := range axes {
		if _, isPinned := pinned[ai.Tag]; isPinned {
			continue
		}
		fa := FvarAxis{Tag: ai.Tag, Min: ai.MinValue, Default: ai.DefaultValue, Max: ai.MaxValue, NameID: ai.NameID, Flags: ai.Flags}
		if rng, isRanged := ranged[ai.Tag]; isRanged {
			triple, ok := norm.Axis(ai.Tag)
			if ok {
				fa.Min = float32(denormalize(rng[0], triple))
				fa.Max = float32(denormalize(rng[1], triple))
				if fa.Default < fa.Min {
					fa.Default = fa.Min
				}
				if fa.Default > fa.Max {
					fa.Default = fa.Max
				}
			}
		}
		out = append(out, fa)
	}
	return out
}

// denormalize inverts AxisTriple normalization (§4.B), mapping a
// normalized value in [-1, 1] back to user-space units, for re-deriving
// an fvar axis's min/max after range-limiting.
func denormalize(v float64, t AxisTriple) float64 {
	if v < 0 {
		return t.Default + v*(t.Default-t.Min)
	}
	return t.Default + v*(t.Max-t.Default)
}

// PruneNamedInstances drops named instances whose coordinates no longer
// fit within the surviving axes' ranges, and removes the pinned axes'
// coordinates from the rest (§4.I).
func PruneNamedInstances(instances []ot.NamedInstance, axes []ot.AxisInfo, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64, norm *Normalizer) []ot.NamedInstance {
	var out []ot.NamedInstance
	for _, inst := range instances {
		keep := true
		newCoords := make([]float32, 0, len(inst.Coords))
		for i, v := range inst.Coords {
			if i >= len(axes) {
				break
			}
			tag := axes[i].Tag
			if pv, isPinned := pinned[tag]; isPinned {
				if nv, err := norm.NormalizeValue(tag, float64(v)); err != nil || nv != pv {
					keep = false
				}
				continue
			}
			if rng, isRanged := ranged[tag]; isRanged {
				if nv, err := norm.NormalizeValue(tag, float64(v)); err == nil && (nv < rng[0] || nv > rng[1]) {
					keep = false
				}
			}
			newCoords = append(newCoords, v)
		}
		if keep {
			inst.Coords = newCoords
			out = append(out, inst)
		}
	}
	return out
}

// PruneStatAxisValues implements the STAT half of §4.I: an axis-value
// record is dropped if any of its axis indices refers to a pinned axis
// whose value doesn't match (format 4's multi-axis records fail the
// whole record on any sub-entry mismatch, per §4.I), and surviving
// records have their axis indices remapped to the new, shrunk axis list.
// Entries on pinned axes are stripped from every record, so a record
// whose axis indices all refer to pinned axes is dropped too, even when
// every pinned value matches.
func PruneStatAxisValues(values []ot.StatAxisValue, axisOrder []ot.Tag, pinned map[ot.Tag]float64, newIndexOf map[ot.Tag]int, norm *Normalizer) []ot.StatAxisValue {
	var out []ot.StatAxisValue
	for _, av := range values {
		keep := true
		newIdx := make([]int, 0, len(av.AxisIndices))
		newVals := make([]float32, 0, len(av.Values))
		for i, axisIdx := range av.AxisIndices {
			if axisIdx >= len(axisOrder) {
				keep = false
				break
			}
			tag := axisOrder[axisIdx]
			if pv, isPinned := pinned[tag]; isPinned {
				if i >= len(av.Values) {
					keep = false
					break
				}
				if nv, err := norm.NormalizeValue(tag, float64(av.Values[i])); err != nil || nv != pv {
					keep = false
					break
				}
				continue
			}
			ni, ok := newIndexOf[tag]
			if !ok {
				keep = false
				break
			}
			newIdx = append(newIdx, ni)
			if i < len(av.Values) {
				newVals = append(newVals, av.Values[i])
			}
		}
		if !keep || len(newIdx) == 0 {
			continue
		}
		nav := av
		nav.AxisIndices = newIdx
		nav.Values = newVals
		out = append(out, nav)
	}
	return out
}

// NameIDUsage tracks which name table IDs are still referenced after
// axis/instance/STAT pruning, so PruneNameTable can drop the rest
// (§4.I: "name-ID pruning, snapshot-before/after").
type NameIDUsage struct {
	ids map[uint16]bool
}

// NewNameIDUsage starts tracking from a snapshot of every name ID
// referenced before pruning. Name ID 0 is never tracked.
func NewNameIDUsage(before []uint16) *NameIDUsage {
	u := &NameIDUsage{ids: make(map[uint16]bool, len(before))}
	for _, id := range before {
		if id == 0 {
			continue
		}
		u.ids[id] = true
	}
	return u
}

// Keep records that id is still referenced after pruning.
func (u *NameIDUsage) Keep(id uint16) {
	if id == 0 {
		return
	}
	delete(u.ids, id)
}

// Dropped returns, in ascending order, the name IDs present in the
// original snapshot that were neither re-marked via Keep nor listed in
// after.
func (u *NameIDUsage) Dropped(after []uint16) []uint16 {
	stillUsed := make(map[uint16]bool, len(after))
	for _, id := range after {
		stillUsed[id] = true
	}
	var dropped []uint16
	for id := range u.ids {
		if !stillUsed[id] {
			dropped = append(dropped, id)
		}
	}
	sort.Slice(dropped, func(i, j int) bool { return dropped[i] < dropped[j] })
	return dropped
}
