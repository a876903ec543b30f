package instancer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/grishacl/varinstance/ot"
)

// axisTentEntry is one entry of an ordered AxisTents set.
type axisTentEntry struct {
	Tag  ot.Tag
	Tent Tent
}

// AxisTents is an insertion-ordered set of axis -> tent mappings. §9 calls
// out that tent-mapping and feature-variation-record deduplication rely on
// insertion order, so a plain Go map (unordered iteration) cannot serve —
// this type pairs a slice (for order) with an index (for O(1) lookup).
type AxisTents struct {
	entries []axisTentEntry
	index   map[ot.Tag]int
}

// NewAxisTents builds an empty ordered tent set.
func NewAxisTents() *AxisTents {
	return &AxisTents{index: make(map[ot.Tag]int)}
}

// Get returns the tent for tag, or the implicit defaultTent if tag is not
// present in the mapping (§3: "a missing axis entry ... is semantically
// equivalent to (-1, 0, +1)").
func (a *AxisTents) Get(tag ot.Tag) Tent {
	if i, ok := a.index[tag]; ok {
		return a.entries[i].Tent
	}
	return defaultTent
}

// Has reports whether tag has an explicit entry.
func (a *AxisTents) Has(tag ot.Tag) bool {
	_, ok := a.index[tag]
	return ok
}

// Set inserts or overwrites the tent for tag, preserving its original
// insertion position if it already existed.
func (a *AxisTents) Set(tag ot.Tag, t Tent) {
	if i, ok := a.index[tag]; ok {
		a.entries[i].Tent = t
		return
	}
	a.index[tag] = len(a.entries)
	a.entries = append(a.entries, axisTentEntry{Tag: tag, Tent: t})
}

// Delete removes tag's entry, preserving the relative order of the rest.
func (a *AxisTents) Delete(tag ot.Tag) {
	i, ok := a.index[tag]
	if !ok {
		return
	}
	a.entries = append(a.entries[:i], a.entries[i+1:]...)
	delete(a.index, tag)
	for j := i; j < len(a.entries); j++ {
		a.index[a.entries[j].Tag] = j
	}
}

// Tags returns the axis tags in insertion order.
func (a *AxisTents) Tags() []ot.Tag {
	tags := make([]ot.Tag, len(a.entries))
	for i, e := range a.entries {
		tags[i] = e.Tag
	}
	return tags
}

// Len reports the number of explicit entries.
func (a *AxisTents) Len() int { return len(a.entries) }

// Clone returns an independent deep copy.
func (a *AxisTents) Clone() *AxisTents {
	out := NewAxisTents()
	for _, e := range a.entries {
		out.Set(e.Tag, e.Tent)
	}
	return out
}

// Key returns a canonical, order-independent string identifying this
// mapping, used by §4.D's "merge variations whose axis mapping is
// identical" and §4.H's condition-set deduplication.
func (a *AxisTents) Key() string {
	pairs := make([]string, len(a.entries))
	for i, e := range a.entries {
		pairs[i] = e.Tag.String() + ":" + formatTent(e.Tent)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}

func formatTent(t Tent) string {
	return strconv.FormatFloat(t.Lower, 'g', -1, 64) + "," +
		strconv.FormatFloat(t.Peak, 'g', -1, 64) + "," +
		strconv.FormatFloat(t.Upper, 'g', -1, 64)
}
