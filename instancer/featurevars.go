package instancer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grishacl/varinstance/ot"
)

// ConditionSet is a transformed feature-variation condition set: an
// axis-tag-keyed (not index-keyed, since pinned axes disappear and
// remaining axes renumber) set of inclusive normalized ranges that must
// all hold for the record's substitution to apply.
type ConditionSet struct {
	Conditions map[ot.Tag][2]float64
}

// Key returns a canonical, order-independent identity string, used to
// deduplicate condition sets that become identical after axis limiting
// (§4.H: "dedup by canonical condition-set key").
func (cs ConditionSet) Key() string {
	tags := make([]ot.Tag, 0, len(cs.Conditions))
	for t := range cs.Conditions {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	var sb strings.Builder
	for _, t := range tags {
		r := cs.Conditions[t]
		fmt.Fprintf(&sb, "%s:%g:%g|", t.String(), r[0], r[1])
	}
	return sb.String()
}

// FeatureVariationRecord is one transformed record: a condition set plus
// the feature-index substitutions it selects. AlwaysApplies marks a
// record whose conditions all resolved to unconditionally true (every
// referenced axis was pinned within range) — per the apply-once rule, no
// record after the first AlwaysApplies one can ever be reached.
type FeatureVariationRecord struct {
	Conditions    ConditionSet
	Substitutes   []ot.FeatureSubstitutionRaw
	AlwaysApplies bool
}

// TransformFeatureVariations implements §4.H: for every record, each
// condition is resolved against the pin/range limits (pinned axes either
// satisfy the condition unconditionally or eliminate the whole record;
// ranged axes have their filter window rescaled into the axis's new
// normalized space), then records are deduplicated by canonical
// condition-set key and cut short at the first unconditionally-true
// record. A condition with a format this decoder does not recognize is
// treated conservatively: the owning record is dropped rather than
// risk it firing when it shouldn't (or vice versa), and the caller's
// logging collaborator should be told.
func TransformFeatureVariations(raw *ot.FeatureVariationsRaw, axisTags []ot.Tag, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) ([]FeatureVariationRecord, []string) {
	var out []FeatureVariationRecord
	var warnings []string
	seen := make(map[string]bool)

	for _, rec := range raw.Records {
		cs := ConditionSet{Conditions: map[ot.Tag][2]float64{}}
		dropped := false

		for _, c := range rec.Conditions {
			if c.Unknown {
				warnings = append(warnings, fmt.Sprintf("feature variations: dropping record with unrecognized condition format %d", c.Format))
				dropped = true
				break
			}
			if c.AxisIndex >= len(axisTags) {
				dropped = true
				break
			}
			tag := axisTags[c.AxisIndex]
			lo, hi := float64(c.FilterRangeMin), float64(c.FilterRangeMax)

			if pv, isPinned := pinned[tag]; isPinned {
				if pv < lo || pv > hi {
					dropped = true
					break
				}
				continue
			}

			if rng, isRanged := ranged[tag]; isRanged {
				nlo, nhi := rng[0], rng[1]
				if hi < nlo || lo > nhi {
					dropped = true
					break
				}
				rlo := rescaleToAxisRange(clamp(lo, nlo, nhi), nlo, nhi)
				rhi := rescaleToAxisRange(clamp(hi, nlo, nhi), nlo, nhi)
				cs.Conditions[tag] = [2]float64{rlo, rhi}
				continue
			}

			cs.Conditions[tag] = [2]float64{lo, hi}
		}
		if dropped {
			continue
		}

		key := cs.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		rec := FeatureVariationRecord{Conditions: cs, Substitutes: rec.Substitutes, AlwaysApplies: len(cs.Conditions) == 0}
		out = append(out, rec)
		if rec.AlwaysApplies {
			break
		}
	}

	return out, warnings
}

// rescaleToAxisRange rebases v, known to lie in [lo, hi], into the
// normalized coordinate space the surviving axis occupies after
// range-limiting, the same way tent coordinates are rebased: the default
// stays at 0, positive values are divided by hi and negative values by
// -lo.
func rescaleToAxisRange(v, lo, hi float64) float64 {
	switch {
	case v > 0 && hi > 0:
		return clamp(v/hi, -1, 1)
	case v < 0 && lo < 0:
		return clamp(v/-lo, -1, 1)
	}
	return 0
}
