package instancer

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/grishacl/varinstance/ot"
)

// Point2D is a 2-D outline point or delta, in font design units.
type Point2D struct{ X, Y float64 }

// OutlineAux supplies the auxiliary, glyph-specific inputs 4.D needs to
// fill in IUP-inferred deltas (§4.D: "fill in inferred deltas on points
// elided by the IUP encoding, using the contour-endpoint table and the
// default outline").
type OutlineAux struct {
	// OrigPoints are the glyph's default (non-instanced) points: the
	// contour points followed by the four phantom points, which lie
	// outside every contour and so never receive inferred deltas.
	OrigPoints []Point2D
	// EndPoints is the contour-endpoint vector (last point index of each
	// contour, inclusive).
	EndPoints []int
}

// fillInferredDeltas expands a variation's sparse point deltas (points
// whose HasDelta entry is false) using Interpolate-Untouched-Points: a
// gap between two explicit points is filled by linear interpolation (or,
// outside the bracket, by the nearer explicit point's delta); a contour
// with no explicit points is left untouched (all zero); a contour with
// exactly one explicit point copies that delta to the rest of the
// contour. Grounded on the per-contour gap-walking approach in
// boxesandglue-typesetting/font/variations.go's applyDeltasToPoints,
// generalized here to operate on an already-decoded tuple variation
// rather than gvar's packed point-number/delta runs.
func fillInferredDeltas(v *TupleVariation, aux *OutlineAux) {
	if v.HasDelta == nil {
		return // fully explicit already
	}
	numPoints := len(aux.OrigPoints)
	start := 0
	for _, end := range aux.EndPoints {
		if end >= numPoints {
			end = numPoints - 1
		}
		fillContour(v, aux, start, end)
		start = end + 1
	}
	v.HasDelta = nil
}

func fillContour(v *TupleVariation, aux *OutlineAux, start, end int) {
	n := end - start + 1
	if n <= 0 {
		return
	}

	touched := make([]int, 0, n)
	for i := start; i <= end; i++ {
		if v.HasDelta[i] {
			touched = append(touched, i)
		}
	}
	if len(touched) == 0 {
		return
	}
	if len(touched) == 1 {
		i := touched[0]
		dx, dy := v.Deltas[2*i], v.Deltas[2*i+1]
		for p := start; p <= end; p++ {
			if !v.HasDelta[p] {
				v.Deltas[2*p], v.Deltas[2*p+1] = dx, dy
			}
		}
		return
	}

	for ti := 0; ti < len(touched); ti++ {
		i1 := touched[ti]
		i2 := touched[(ti+1)%len(touched)]
		gapStart := i1 + 1
		gapLen := i2 - i1 - 1
		if gapLen < 0 {
			gapLen += n
		}
		for k := 0; k < gapLen; k++ {
			p := start + (gapStart-start+k+n)%n
			v.Deltas[2*p] = iupAxis(aux.OrigPoints[p].X, aux.OrigPoints[i1].X, aux.OrigPoints[i2].X, v.Deltas[2*i1], v.Deltas[2*i2])
			v.Deltas[2*p+1] = iupAxis(aux.OrigPoints[p].Y, aux.OrigPoints[i1].Y, aux.OrigPoints[i2].Y, v.Deltas[2*i1+1], v.Deltas[2*i2+1])
		}
	}
}

// iupAxis interpolates (or clamps to the nearer endpoint) a single
// coordinate's inferred delta, the one-dimensional core of IUP.
func iupAxis(coord, coord1, coord2, delta1, delta2 float64) float64 {
	if coord1 == coord2 {
		return delta1
	}
	lo, hi := coord1, coord2
	loD, hiD := delta1, delta2
	if lo > hi {
		lo, hi = hi, lo
		loD, hiD = hiD, loD
	}
	switch {
	case coord <= lo:
		return loD
	case coord >= hi:
		return hiD
	default:
		return loD + (hiD-loD)*(coord-lo)/(hi-lo)
	}
}

// IUPOptimizer is the collaborator interface for §6's "IUP optimizer":
// delta re-encoding for outline variations, i.e. deciding which points'
// deltas can be safely omitted because inference will reconstruct them.
// §1 lists this pass as an external collaborator the core only calls —
// Compact's default implementation performs no compaction (keeps every
// point explicit), which is always correct, just not minimal.
type IUPOptimizer interface {
	Compact(points []Point2D, endPoints []int, deltas []Point2D) []bool
}

// NoOptimizer is the default, no-op IUPOptimizer.
type NoOptimizer struct{}

// Compact marks every point explicit.
func (NoOptimizer) Compact(points []Point2D, endPoints []int, deltas []Point2D) []bool {
	explicit := make([]bool, len(points))
	for i := range explicit {
		explicit[i] = true
	}
	return explicit
}

// OutlineTable is the collaborator interface for §6's "Outline table":
// read/write access to a glyph's default coordinates and composite
// structure.
type OutlineTable interface {
	// GetCoordinatesAndControls returns the glyph's default contour
	// points, contour endpoints, and phantom points (left/right
	// sidebearing + advance, top/bottom origin + advance).
	GetCoordinatesAndControls(gid ot.GlyphID) (points []Point2D, endPoints []int, phantom [4]Point2D, isComposite bool, ok bool)
	// SetCoordinates writes instanced coordinates back, recomputing
	// bearings and advance from the phantom points.
	SetCoordinates(gid ot.GlyphID, points []Point2D, phantom [4]Point2D, overlap bool) error
	// Components returns the component glyph IDs of a composite glyph
	// (nil for simple glyphs), used to build the composite-depth graph.
	Components(gid ot.GlyphID) []ot.GlyphID
	GlyphName(gid ot.GlyphID) string
}

// ComputeProcessingOrder returns glyph IDs in ascending composite depth —
// a base glyph before any glyph that uses it as a component — with ties
// broken by glyph name (§4.F). The ordering is computed as a topological
// sort over the composite-reference graph (component -> composite edges)
// rather than a recursive depth memoization table (§9).
func ComputeProcessingOrder(ctx context.Context, glyphs []ot.GlyphID, outline OutlineTable) ([]ot.GlyphID, error) {
	g := core.NewGraph(core.WithDirected(true))

	nameOf := make(map[ot.GlyphID]string, len(glyphs))
	byName := make(map[string]ot.GlyphID, len(glyphs))
	for _, gid := range glyphs {
		name := outline.GlyphName(gid)
		nameOf[gid] = name
		byName[name] = gid
		if err := g.AddVertex(name); err != nil {
			return nil, fmt.Errorf("outline: building composite graph: %w", err)
		}
	}

	for _, gid := range glyphs {
		for _, comp := range outline.Components(gid) {
			compName, ok := nameOf[comp]
			if !ok {
				continue
			}
			if _, err := g.AddEdge(compName, nameOf[gid], 0); err != nil {
				return nil, fmt.Errorf("outline: building composite graph: %w", err)
			}
		}
	}

	order, err := dfs.TopologicalSort(g, dfs.WithCancelContext(ctx))
	if err != nil {
		// A cyclic composite reference is malformed input; fall back to
		// a stable name sort rather than fail the whole run, since §7
		// reserves hard failures for validation/unsupported-feature
		// classes, not structural oddities in a single glyph's closure.
		names := make([]string, len(glyphs))
		for i, gid := range glyphs {
			names[i] = nameOf[gid]
		}
		sort.Strings(names)
		order = names
	}

	out := make([]ot.GlyphID, len(order))
	for i, name := range order {
		out[i] = byName[name]
	}
	return out, nil
}

// InstantiateOutlines implements §4.F: process glyphs in composite-depth
// order, transform each glyph's tuple-variation store through §4.D,
// folding the default-delta residue into the base outline and writing
// coordinates back. gvar maps glyph ID to its tuple-variation list;
// entries that become empty are deleted from the map, mirroring gvar's
// own per-glyph table.
func InstantiateOutlines(ctx context.Context, glyphs []ot.GlyphID, outline OutlineTable, gvar map[ot.GlyphID][]*TupleVariation, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64, optimizer IUPOptimizer, setOverlap bool) error {
	if optimizer == nil {
		optimizer = NoOptimizer{}
	}

	order, err := ComputeProcessingOrder(ctx, glyphs, outline)
	if err != nil {
		return err
	}

	for _, gid := range order {
		variations, ok := gvar[gid]
		if !ok || len(variations) == 0 {
			continue
		}

		points, endPoints, phantom, _, ok := outline.GetCoordinatesAndControls(gid)
		if !ok {
			continue
		}

		aux := &OutlineAux{OrigPoints: append(append([]Point2D{}, points...), phantom[:]...), EndPoints: endPoints}
		payloadLen := 2 * len(aux.OrigPoints)

		flat := make([]*TupleVariation, len(variations))
		copy(flat, variations)

		remaining, residue := TransformStore(flat, pinned, ranged, payloadLen, aux)

		for i := range points {
			points[i].X += residue[2*i]
			points[i].Y += residue[2*i+1]
		}
		for i := range phantom {
			j := len(points) + i
			phantom[i].X += residue[2*j]
			phantom[i].Y += residue[2*j+1]
		}

		if err := outline.SetCoordinates(gid, points, phantom, setOverlap); err != nil {
			return fmt.Errorf("outline: glyph %d: %w", gid, err)
		}

		if len(remaining) == 0 {
			delete(gvar, gid)
			continue
		}

		deltaPoints := make([]Point2D, len(aux.OrigPoints))
		_ = optimizer.Compact(aux.OrigPoints, endPoints, deltaPoints)
		gvar[gid] = remaining
	}

	return nil
}
