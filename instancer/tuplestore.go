package instancer

import (
	"sort"

	"github.com/grishacl/varinstance/ot"
)

// TupleVariation is a tent over one or more axes plus a delta payload
// (§3). Deltas are a flat, ordered vector of per-item values: one scalar
// per item for metrics/control-value stores, or interleaved (x, y) pairs
// for outline stores (so Deltas has length 2*numPoints there).
//
// HasDelta is only meaningful for outline variations: it marks points
// whose delta was explicit in the gvar encoding versus points elided for
// IUP inference (§4.D "fill in inferred deltas on points elided by the
// IUP encoding"). A nil HasDelta means every entry is explicit.
type TupleVariation struct {
	Axes     *AxisTents
	Deltas   []float64
	HasDelta []bool
}

// Clone returns a deep copy.
func (v *TupleVariation) Clone() *TupleVariation {
	deltas := make([]float64, len(v.Deltas))
	copy(deltas, v.Deltas)
	var hasDelta []bool
	if v.HasDelta != nil {
		hasDelta = make([]bool, len(v.HasDelta))
		copy(hasDelta, v.HasDelta)
	}
	return &TupleVariation{Axes: v.Axes.Clone(), Deltas: deltas, HasDelta: hasDelta}
}

func (v *TupleVariation) scale(s float64) {
	for i := range v.Deltas {
		v.Deltas[i] *= s
	}
}

// pin applies §4.C's pinning operation for a single axis to a single
// variation. Returns false if the variation's influence vanishes and it
// must be discarded. A variation that does not involve tag is kept
// unscaled.
func (v *TupleVariation) pin(tag ot.Tag, c float64) bool {
	if !v.Axes.Has(tag) {
		return true
	}
	t := v.Axes.Get(tag)
	s := supportScalar(t, c)
	if s == 0 {
		return false
	}
	v.scale(s)
	v.Axes.Delete(tag)
	return true
}

// PinVariations applies §4.C's pin operation, for every pinned axis, to
// every variation in the store (§4.D step 1).
func PinVariations(variations []*TupleVariation, pinned map[ot.Tag]float64) []*TupleVariation {
	tags := sortedTags(pinned)
	out := variations
	for _, tag := range tags {
		c := pinned[tag]
		var next []*TupleVariation
		for _, v := range out {
			if v.pin(tag, c) {
				next = append(next, v)
			}
		}
		out = next
	}
	return out
}

// RangeLimitVariations applies §4.C's range-limit operation, for every
// ranged axis (processed in rangedOrder, a deterministic ordering), to
// every variation; each variation may fan out into 0, 1, or 2 results
// (§4.D step 2).
func RangeLimitVariations(variations []*TupleVariation, ranged map[ot.Tag][2]float64, rangedOrder []ot.Tag) []*TupleVariation {
	out := variations
	for _, tag := range rangedOrder {
		bounds, ok := ranged[tag]
		if !ok {
			continue
		}
		lo, hi := bounds[0], bounds[1]
		var next []*TupleVariation
		for _, v := range out {
			tent := v.Axes.Get(tag)
			results := rangeLimitTent(tent, lo, hi)
			for _, r := range results {
				nv := v.Clone()
				nv.scale(r.Scalar)
				if r.Tent == defaultTent {
					nv.Axes.Delete(tag)
				} else {
					nv.Axes.Set(tag, r.Tent)
				}
				next = append(next, nv)
			}
		}
		out = next
	}
	return out
}

// mergeVariations sums the delta payloads of variations sharing an
// identical axis mapping, preserving the insertion order of first
// occurrence (§4.D step: "merge variations whose axis mapping is
// identical").
func mergeVariations(variations []*TupleVariation) []*TupleVariation {
	order := make([]string, 0, len(variations))
	byKey := make(map[string]*TupleVariation, len(variations))
	for _, v := range variations {
		key := v.Axes.Key()
		if existing, ok := byKey[key]; ok {
			for i := range existing.Deltas {
				existing.Deltas[i] += v.Deltas[i]
			}
			continue
		}
		byKey[key] = v
		order = append(order, key)
	}
	out := make([]*TupleVariation, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

// splitDefaultDelta extracts the variation whose axis map is empty (every
// axis pinned away) and returns its deltas as the default-delta residue,
// plus the remaining variations (§4.D step: "split out the variation
// whose axis map is empty").
func splitDefaultDelta(variations []*TupleVariation, payloadLen int) ([]*TupleVariation, []float64) {
	var remaining []*TupleVariation
	residue := make([]float64, payloadLen)
	found := false
	for _, v := range variations {
		if v.Axes.Len() == 0 {
			for i, d := range v.Deltas {
				residue[i] += d
			}
			found = true
			continue
		}
		remaining = append(remaining, v)
	}
	_ = found
	return remaining, residue
}

// roundDeltas rounds every surviving variation's deltas to integers using
// banker's rounding (§4.D step: "remaining variations have their deltas
// rounded to integers").
func roundDeltas(variations []*TupleVariation) {
	for _, v := range variations {
		for i, d := range v.Deltas {
			v.Deltas[i] = float64(otRound(d))
		}
	}
}

// TransformStore implements §4.D end to end: pin, range-limit, optional
// IUP inference (outline stores only), merge, split default-delta
// residue, round. aux is nil for non-outline stores.
func TransformStore(variations []*TupleVariation, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64, payloadLen int, aux *OutlineAux) ([]*TupleVariation, []float64) {
	out := PinVariations(variations, pinned)
	out = RangeLimitVariations(out, ranged, sortedTags(ranged))

	if aux != nil {
		for _, v := range out {
			fillInferredDeltas(v, aux)
		}
	}

	out = mergeVariations(out)
	out, residue := splitDefaultDelta(out, payloadLen)
	roundDeltas(out)
	return out, residue
}

func sortedTags[T any](m map[ot.Tag]T) []ot.Tag {
	tags := make([]ot.Tag, 0, len(m))
	for t := range m {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
