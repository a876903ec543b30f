package instancer

import (
	"fmt"

	"github.com/grishacl/varinstance/ot"
)

// AxisTriple is the (min, default, max) user-space triple §3 defines for
// each axis.
type AxisTriple struct {
	Min, Default, Max float64
}

// Normalizer maps user-space limits to normalized [-1, +1] limits,
// honoring an optional avar piecewise-linear remapping (§4.B).
type Normalizer struct {
	axes map[ot.Tag]AxisTriple
	avar *ot.Avar
	// axisIndex records each tag's fvar axis index, needed to index into
	// avar's per-axis segment maps.
	axisIndex map[ot.Tag]int
}

// NewNormalizer builds a Normalizer from a parsed fvar table and an
// optional avar table (nil if the font carries none).
func NewNormalizer(fvar *ot.Fvar, avar *ot.Avar) *Normalizer {
	n := &Normalizer{
		axes:      make(map[ot.Tag]AxisTriple),
		axisIndex: make(map[ot.Tag]int),
		avar:      avar,
	}
	for _, info := range fvar.AxisInfos() {
		n.axes[info.Tag] = AxisTriple{
			Min:     float64(info.MinValue),
			Default: float64(info.DefaultValue),
			Max:     float64(info.MaxValue),
		}
		n.axisIndex[info.Tag] = info.Index
	}
	return n
}

// Axis returns the axis triple for tag.
func (n *Normalizer) Axis(tag ot.Tag) (AxisTriple, bool) {
	t, ok := n.axes[tag]
	return t, ok
}

// NormalizeValue implements the §4.B single-value formula, applies the
// avar mapping when present, and quantizes to the 2.14 grid.
func (n *Normalizer) NormalizeValue(tag ot.Tag, v float64) (float64, error) {
	triple, ok := n.axes[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAxis, ot.Tag(tag).String())
	}

	var norm float64
	switch {
	case v == triple.Default:
		norm = 0
	case v < triple.Default:
		den := triple.Default - triple.Min
		if den == 0 {
			norm = 0
		} else {
			norm = (v - triple.Default) / den
		}
	default:
		den := triple.Max - triple.Default
		if den == 0 {
			norm = 0
		} else {
			norm = (v - triple.Default) / den
		}
	}
	norm = clamp(norm, -1, 1)

	if n.avar != nil && n.avar.HasData() {
		idx := n.axisIndex[tag]
		f2dot14 := int(norm * 16384)
		mapped := n.avar.MapValue(idx, f2dot14)
		norm = float64(mapped) / 16384
	}

	return quantizeF2Dot14(norm), nil
}

// NormalizeLimits resolves the default sentinel and normalizes every
// entry of limits, failing if any tag is unknown (§4.B).
func (n *Normalizer) NormalizeLimits(limits Limits) (map[ot.Tag]NormalizedLimit, error) {
	out := make(map[ot.Tag]NormalizedLimit, len(limits))
	for tag, lim := range limits {
		triple, ok := n.axes[tag]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAxis, tag.String())
		}

		resolved := lim
		if resolved.Kind == KindDefault {
			resolved = NewPinLimit(triple.Default)
		}

		var nl NormalizedLimit
		switch resolved.Kind {
		case KindPin:
			v, err := n.NormalizeValue(tag, resolved.Pin)
			if err != nil {
				return nil, err
			}
			nl = NormalizedLimit{Kind: KindPin, Pin: v}
		case KindRange:
			lo, err := n.NormalizeValue(tag, resolved.Lo)
			if err != nil {
				return nil, err
			}
			hi, err := n.NormalizeValue(tag, resolved.Hi)
			if err != nil {
				return nil, err
			}
			nl = NormalizedLimit{Kind: KindRange, Lo: lo, Hi: hi}
		}

		if err := nl.Validate(); err != nil {
			return nil, fmt.Errorf("axis %s: %w", tag.String(), err)
		}
		out[tag] = nl
	}
	return out, nil
}
