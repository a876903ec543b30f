package instancer

import "github.com/grishacl/varinstance/ot"

// gvarAxisTents converts one gvar tuple's raw F2DOT14 peak/start/end
// coordinates into an AxisTents mapping, using axisTags (fvar order) to
// name each column. A peak of 0 is dropped (no support on that axis,
// matching Tent's Peak==0 sentinel); an intermediate region absent from
// the tuple is given the implicit (0,peak,0)-derived default per the
// gvar spec ("no intermediate start/end means [0, peak] or [peak, 0]").
func gvarAxisTents(axisTags []ot.Tag, tv ot.GvarTupleVariation) *AxisTents {
	return tentsFromCoords(axisTags, tv.PeakCoords, tv.StartCoords, tv.EndCoords)
}

// tentsFromCoords builds an AxisTents mapping from a tuple variation
// header's raw F2DOT14 peak/start/end coordinate arrays, shared by the
// gvar and cvar bridges (both use the same tuple-variation-header wire
// encoding).
func tentsFromCoords(axisTags []ot.Tag, peakCoords, startCoords, endCoords []int16) *AxisTents {
	at := NewAxisTents()
	for i, peak := range peakCoords {
		if i >= len(axisTags) {
			break
		}
		p := float64(peak) / 16384
		if p == 0 {
			continue
		}
		var lo, hi float64
		if startCoords != nil && endCoords != nil {
			lo = float64(startCoords[i]) / 16384
			hi = float64(endCoords[i]) / 16384
		} else if p > 0 {
			lo, hi = 0, p
		} else {
			lo, hi = p, 0
		}
		at.Set(axisTags[i], Tent{lo, p, hi})
	}
	return at
}

// GvarToTupleVariations expands a glyph's raw gvar tuple records into the
// package's mutable TupleVariation form: deltas scattered into a dense,
// point-indexed vector with HasDelta marking which points the tuple
// actually carried (nil PointNumbers means every point is explicit).
func GvarToTupleVariations(axisTags []ot.Tag, tuples []ot.GvarTupleVariation, numPoints int) []*TupleVariation {
	out := make([]*TupleVariation, 0, len(tuples))
	for _, tv := range tuples {
		deltas := make([]float64, 2*numPoints)
		var hasDelta []bool

		if tv.PointNumbers == nil {
			for i := 0; i < numPoints && i < len(tv.XDeltas); i++ {
				deltas[2*i] = float64(tv.XDeltas[i])
				deltas[2*i+1] = float64(tv.YDeltas[i])
			}
		} else {
			hasDelta = make([]bool, numPoints)
			for i, pt := range tv.PointNumbers {
				if pt >= numPoints || i >= len(tv.XDeltas) {
					continue
				}
				deltas[2*pt] = float64(tv.XDeltas[i])
				deltas[2*pt+1] = float64(tv.YDeltas[i])
				hasDelta[pt] = true
			}
		}

		out = append(out, &TupleVariation{Axes: gvarAxisTents(axisTags, tv), Deltas: deltas, HasDelta: hasDelta})
	}
	return out
}
