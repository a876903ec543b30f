package instancer

import (
	"encoding/binary"

	"github.com/grishacl/varinstance/ot"
)

// GdefVersionLadder is the ordered list of GDEF minor-version downgrades
// §4.J requires trying, from most to least featureful: a table keeps the
// highest version its surviving content still needs, since a consumer
// that only understands an older minor version must never be handed a
// field it can't interpret.
var GdefVersionLadder = []struct{ Major, Minor uint16 }{
	{1, 3}, // has ItemVariationStore
	{1, 2}, // has MarkGlyphSetsDef
	{1, 0}, // base table only
}

// GdefLayout holds the pieces of a GDEF table §4.J cares about: its
// declared version and, for 1.3+, the shared item variation store GPOS
// and GSUB mark/ligature-attachment values reference.
type GdefLayout struct {
	MajorVersion, MinorVersion uint16
	HasMarkGlyphSets           bool
	Store                      *ItemVariationStore
}

// ParseGdefVarStore extracts the minimal pieces of a GDEF table needed
// to fold its variation store: version and, if present, the
// ItemVariationStore. This is a narrow, concrete "layout merge visitor"
// (§6) — it does not re-derive GDEF's glyph-class or attachment-list
// subtables, which table-specific merge visitors for GPOS/GSUB lookups
// are explicitly out of scope for this component to rebuild (§1).
func ParseGdefVarStore(data []byte, fvar *ot.Fvar) (*GdefLayout, error) {
	if len(data) < 12 {
		return nil, ErrMalformedTable
	}
	major := binary.BigEndian.Uint16(data[0:])
	minor := binary.BigEndian.Uint16(data[2:])

	out := &GdefLayout{MajorVersion: major, MinorVersion: minor}
	if minor >= 2 && len(data) >= 14 {
		out.HasMarkGlyphSets = binary.BigEndian.Uint16(data[12:]) != 0
	}
	if minor >= 3 && len(data) >= 18 {
		storeOffset := binary.BigEndian.Uint32(data[14:])
		if storeOffset != 0 && int(storeOffset) < len(data) {
			raw, err := ot.ParseItemVariationStoreRaw(data[storeOffset:], fvar)
			if err == nil {
				out.Store = ItemVariationStoreFromRaw(raw)
			}
		}
	}
	return out, nil
}

// TransformGdef implements §4.J: fold the GDEF item variation store
// through component E (its residues have no home in GDEF itself — mark
// attachment/caret values that vary live in GPOS/MVAR, so a bare GDEF
// ItemVariationStore's residue is discarded once folded into whichever
// table actually owns the value; GDEF only ever carries the shared
// store), then pick the lowest surviving version on the downgrade
// ladder: 1.3 only if any axis survives unpinned and the store is
// non-empty, else 1.2 if mark glyph sets are present, else 1.0.
func TransformGdef(g *GdefLayout, pinned map[ot.Tag]float64, ranged map[ot.Tag][2]float64) *GdefLayout {
	out := &GdefLayout{MajorVersion: g.MajorVersion, MinorVersion: g.MinorVersion, HasMarkGlyphSets: g.HasMarkGlyphSets}

	if g.Store != nil {
		newStore, _ := TransformItemVariationStore(g.Store, pinned, ranged)
		nonEmpty := false
		for _, vd := range newStore.VarDatas {
			if len(vd.Regions) > 0 {
				nonEmpty = true
				break
			}
		}
		if nonEmpty {
			out.Store = newStore
		}
	}

	switch {
	case out.Store != nil:
		out.MajorVersion, out.MinorVersion = 1, 3
	case out.HasMarkGlyphSets:
		out.MajorVersion, out.MinorVersion = 1, 2
	default:
		out.MajorVersion, out.MinorVersion = 1, 0
	}
	return out
}
