package instancer

import (
	"context"

	"github.com/grishacl/varinstance/ot"
)

// Options controls one instancing run (§5).
type Options struct {
	// Optimizer post-processes surviving outline variations; nil uses
	// NoOptimizer (no point-delta compaction).
	Optimizer IUPOptimizer
	// SetOverlapFlag sets OVERLAP_SIMPLE/OVERLAP_COMPOUND on every glyph
	// whose outline was touched by a full pin, matching the convention
	// most rasterizers expect once the variable glyph's original overlap
	// bookkeeping can no longer be trusted.
	SetOverlapFlag bool
	Logger         Logger
}

func (o *Options) logger() Logger {
	if o == nil || o.Logger == nil {
		return NopLogger{}
	}
	return o.Logger
}

func (o *Options) optimizer() IUPOptimizer {
	if o == nil || o.Optimizer == nil {
		return NoOptimizer{}
	}
	return o.Optimizer
}

// Plan is the resolved, validated instancing request: every input axis
// limit normalized and split into the pinned/ranged maps every component
// in this package consumes (§4.A/§4.B).
type Plan struct {
	Normalizer *Normalizer
	Pinned     map[ot.Tag]float64
	Ranged     map[ot.Tag][2]float64
	// RangedOrder is the deterministic axis processing order §4.D's
	// range-limit fan-out requires (tag-sorted).
	RangedOrder []ot.Tag
	// SurvivingAxes lists the axes that remain variable, in their
	// original fvar order, after dropping every pinned axis.
	SurvivingAxes []ot.Tag
}

// BuildPlan implements §4.A/§4.B end to end: validate and normalize the
// caller's user-space axis limits into the internal pin/range
// representation.
func BuildPlan(fvar *ot.Fvar, avar *ot.Avar, limits Limits) (*Plan, error) {
	norm := NewNormalizer(fvar, avar)

	normalized, err := norm.NormalizeLimits(limits)
	if err != nil {
		return nil, err
	}

	pinned := make(map[ot.Tag]float64)
	ranged := make(map[ot.Tag][2]float64)
	for tag, nl := range normalized {
		switch nl.Kind {
		case KindPin:
			pinned[tag] = nl.Pin
		case KindRange:
			if nl.Lo != -1 || nl.Hi != 1 {
				ranged[tag] = [2]float64{nl.Lo, nl.Hi}
			}
		}
	}

	var surviving []ot.Tag
	for _, ai := range fvar.AxisInfos() {
		if _, isPinned := pinned[ai.Tag]; !isPinned {
			surviving = append(surviving, ai.Tag)
		}
	}

	return &Plan{
		Normalizer:    norm,
		Pinned:        pinned,
		Ranged:        ranged,
		RangedOrder:   sortedTags(ranged),
		SurvivingAxes: surviving,
	}, nil
}

// FullyPinned reports whether every variable axis is pinned (the font
// becomes a static instance with no fvar/avar/gvar left at all).
func (p *Plan) FullyPinned(fvar *ot.Fvar) bool {
	return len(p.SurvivingAxes) == 0
}

// Result collects every piece a caller needs to re-serialize an
// instanced font (§5's "Output").
type Result struct {
	Plan *Plan

	Outlines map[ot.GlyphID][]*TupleVariation // remaining gvar entries, keyed by glyph
	Cvt      []int16
	CvarLeft []*TupleVariation

	Mvar     []MvarField
	MvarLeft *ItemVariationStore

	HAdvances []float64
	HvarLeft  *ItemVariationStore
	VAdvances []float64
	VvarLeft  *ItemVariationStore

	Gdef *GdefLayout

	FeatureVariations []FeatureVariationRecord
	Warnings          []string

	Avar []AxisSegmentMap
	Fvar []FvarAxis
}

// Instantiate resolves the axis limits into a Plan, rejects fonts with
// CFF outlines or without a glyf table, and rebuilds the avar segment
// maps and fvar axes into the Result. It does not run the outline, cvar,
// MVAR, HVAR/VVAR, GDEF or feature-variation stages: those are the
// separate Instantiate* functions below, and the Result fields they
// would fill are left empty. Style attribute and default-axis-value
// propagation (components K) are left to the caller once it has the
// OS2/head tables in hand.
func Instantiate(ctx context.Context, font *ot.Font, fvar *ot.Fvar, avar *ot.Avar, limits Limits, opts *Options) (*Result, error) {
	if font == nil {
		return nil, ErrNilFont
	}
	plan, err := BuildPlan(fvar, avar, limits)
	if err != nil {
		return nil, err
	}

	res := &Result{Plan: plan}
	log := opts.logger()

	if font.HasTable(ot.TagCFF) {
		return nil, ErrCFFOutlines
	}
	if !font.HasTable(ot.TagGlyf) {
		return nil, ErrNoOutlineTable
	}
	log.Infof("rebuilding avar/fvar for a font with %d glyph(s)", font.NumGlyphs())

	res.Avar = RebuildAvar(avar, axisTagsOf(fvar), plan.Pinned, plan.Ranged)
	res.Fvar = PruneFvarAxes(fvar.AxisInfos(), plan.Pinned, plan.Ranged, plan.Normalizer)

	return res, nil
}

func axisTagsOf(fvar *ot.Fvar) []ot.Tag {
	if fvar == nil {
		return nil
	}
	axes := fvar.AxisInfos()
	tags := make([]ot.Tag, len(axes))
	for i, ai := range axes {
		tags[i] = ai.Tag
	}
	return tags
}

// InstantiateOutlineTable folds §4.F's outline driver into a Result, for
// callers that have already parsed gvar into per-glyph tuple variations
// (via GvarToTupleVariations) and can supply an OutlineTable adapter over
// their glyf/loca tables.
func InstantiateOutlineTable(ctx context.Context, glyphs []ot.GlyphID, table OutlineTable, gvar map[ot.GlyphID][]*TupleVariation, plan *Plan, opts *Options) (map[ot.GlyphID][]*TupleVariation, error) {
	if err := InstantiateOutlines(ctx, glyphs, table, gvar, plan.Pinned, plan.Ranged, opts.optimizer(), opts.SetOverlapFlag && len(plan.SurvivingAxes) == 0); err != nil {
		return nil, err
	}
	return gvar, nil
}

// InstantiateCvar folds the cvar driver (§4.G) into a Result.
func InstantiateCvar(cvt []int16, tuples []*TupleVariation, plan *Plan) ([]*TupleVariation, []int16) {
	return InstantiateCvt(cvt, tuples, plan.Pinned, plan.Ranged)
}

// InstantiateMvarTable folds the MVAR driver (§4.G) into a Result.
func InstantiateMvarTable(fields []MvarField, records []ot.MvarValueRecord, store *ItemVariationStore, plan *Plan) ([]MvarField, *ItemVariationStore) {
	return InstantiateMvar(fields, records, store, plan.Pinned, plan.Ranged)
}

// InstantiateHvarVvar folds the HVAR/VVAR driver (§4.G) into a Result.
func InstantiateHvarVvar(advances []float64, outer, inner []uint16, store *ItemVariationStore, plan *Plan) ([]float64, *ItemVariationStore) {
	return InstantiateAdvanceStore(advances, outer, inner, store, plan.Pinned, plan.Ranged)
}

// InstantiateLayout folds the GDEF driver (§4.J) into a Result.
func InstantiateLayout(g *GdefLayout, plan *Plan) *GdefLayout {
	return TransformGdef(g, plan.Pinned, plan.Ranged)
}

// InstantiateFeatureVariations folds the feature-variations driver
// (§4.H) into a Result.
func InstantiateFeatureVariations(raw *ot.FeatureVariationsRaw, axisTags []ot.Tag, plan *Plan) ([]FeatureVariationRecord, []string) {
	return TransformFeatureVariations(raw, axisTags, plan.Pinned, plan.Ranged)
}
