package instancer

import (
	"encoding/binary"
	"testing"

	"github.com/grishacl/varinstance/ot"
)

// buildAvarBytes encodes a minimal one-axis avar table from (from, to)
// F2DOT14 segment pairs, for tests that need a real *ot.Avar (its fields
// are unexported, so construction must go through the wire parser).
func buildAvarBytes(t *testing.T, segments [][2]int16) []byte {
	t.Helper()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint16(buf[0:], 1) // major
	binary.BigEndian.PutUint16(buf[2:], 0) // minor
	binary.BigEndian.PutUint16(buf[6:], 1) // axisCount = 1

	seg := make([]byte, 2+len(segments)*4)
	binary.BigEndian.PutUint16(seg[0:], uint16(len(segments)))
	for i, s := range segments {
		off := 2 + i*4
		binary.BigEndian.PutUint16(seg[off:], uint16(s[0]))
		binary.BigEndian.PutUint16(seg[off+2:], uint16(s[1]))
	}
	return append(buf, seg...)
}

func TestRebuildAvar_DropsPinnedAxis(t *testing.T) {
	data := buildAvarBytes(t, [][2]int16{{-16384, -16384}, {0, 0}, {16384, 16384}})
	avar, err := ot.ParseAvar(data)
	if err != nil {
		t.Fatalf("ParseAvar: %v", err)
	}
	pinned := map[ot.Tag]float64{ot.TagAxisWeight: 0}
	out := RebuildAvar(avar, []ot.Tag{ot.TagAxisWeight}, pinned, nil)
	if len(out) != 0 {
		t.Fatalf("expected pinned axis to be dropped entirely, got %d maps", len(out))
	}
}

func TestRebuildAvar_PassesThroughUnrangedAxis(t *testing.T) {
	data := buildAvarBytes(t, [][2]int16{{-16384, -16384}, {0, 0}, {16384, 16384}})
	avar, err := ot.ParseAvar(data)
	if err != nil {
		t.Fatalf("ParseAvar: %v", err)
	}
	out := RebuildAvar(avar, []ot.Tag{ot.TagAxisWeight}, nil, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving axis map, got %d", len(out))
	}
	if len(out[0].Segments) != 3 {
		t.Errorf("expected 3 segments unchanged, got %d", len(out[0].Segments))
	}
}

func TestRebuildAvar_RescalesRangedAxis(t *testing.T) {
	// identity avar segment map, with wght range-limited to [0, 0.5].
	data := buildAvarBytes(t, [][2]int16{{-16384, -16384}, {0, 0}, {16384, 16384}})
	avar, err := ot.ParseAvar(data)
	if err != nil {
		t.Fatalf("ParseAvar: %v", err)
	}
	ranged := map[ot.Tag][2]float64{ot.TagAxisWeight: {0, 0.5}}
	out := RebuildAvar(avar, []ot.Tag{ot.TagAxisWeight}, nil, ranged)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving axis map, got %d", len(out))
	}
	segs := out[0].Segments
	if segs[0][0] != -1 || segs[len(segs)-1][0] != 1 {
		t.Errorf("rescaled map should be re-anchored at -1/1, got %v", segs)
	}
}

func TestPruneFvarAxes(t *testing.T) {
	axes := []ot.AxisInfo{
		{Tag: ot.TagAxisWeight, MinValue: 100, DefaultValue: 400, MaxValue: 900},
		{Tag: ot.TagAxisWidth, MinValue: 50, DefaultValue: 100, MaxValue: 150},
	}
	norm := newTestNormalizer()
	pinned := map[ot.Tag]float64{ot.TagAxisWeight: 0}
	out := PruneFvarAxes(axes, pinned, nil, norm)
	if len(out) != 1 || out[0].Tag != ot.TagAxisWidth {
		t.Fatalf("expected only wdth axis to survive, got %+v", out)
	}
}

func TestPruneFvarAxes_RangedRescalesMinMax(t *testing.T) {
	axes := []ot.AxisInfo{
		{Tag: ot.TagAxisWeight, MinValue: 100, DefaultValue: 400, MaxValue: 900},
	}
	norm := newTestNormalizer()
	ranged := map[ot.Tag][2]float64{ot.TagAxisWeight: {0, 0.6}}
	out := PruneFvarAxes(axes, nil, ranged, norm)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving axis, got %d", len(out))
	}
	if out[0].Min != 400 {
		t.Errorf("Min = %v, want 400 (range floor is default since lo=0)", out[0].Min)
	}
	wantMax := float32(400 + 0.6*(900-400))
	if out[0].Max != wantMax {
		t.Errorf("Max = %v, want %v", out[0].Max, wantMax)
	}
}

func TestPruneNamedInstances_DropsOutOfRangeAndPinned(t *testing.T) {
	axes := []ot.AxisInfo{
		{Tag: ot.TagAxisWeight, MinValue: 100, DefaultValue: 400, MaxValue: 900},
		{Tag: ot.TagAxisWidth, MinValue: 50, DefaultValue: 100, MaxValue: 150},
	}
	instances := []ot.NamedInstance{
		{SubfamilyNameID: 1, Coords: []float32{400, 100}}, // matches pin exactly
		{SubfamilyNameID: 2, Coords: []float32{700, 100}}, // doesn't match pin
	}
	norm := newTestNormalizer()
	pinned := map[ot.Tag]float64{ot.TagAxisWeight: 0} // normalized 0 == user 400
	out := PruneNamedInstances(instances, axes, pinned, nil, norm)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving instance, got %d", len(out))
	}
	if out[0].SubfamilyNameID != 1 {
		t.Errorf("surviving instance = %d, want 1", out[0].SubfamilyNameID)
	}
	if len(out[0].Coords) != 1 {
		t.Errorf("pinned axis coordinate should be stripped, got %d coords", len(out[0].Coords))
	}
}

func TestPruneStatAxisValues_DropsRecordOnPinnedMismatch(t *testing.T) {
	axisOrder := []ot.Tag{ot.TagAxisWeight, ot.TagAxisWidth}
	values := []ot.StatAxisValue{
		{Format: 1, AxisIndices: []int{0}, Values: []float32{400}},   // matches pin
		{Format: 1, AxisIndices: []int{0}, Values: []float32{700}},   // doesn't match pin
		{Format: 1, AxisIndices: []int{1}, Values: []float32{100}},   // unpinned axis, survives remapped
	}
	norm := newTestNormalizer()
	pinned := map[ot.Tag]float64{ot.TagAxisWeight: 0}
	newIndexOf := map[ot.Tag]int{ot.TagAxisWidth: 0}
	out := PruneStatAxisValues(values, axisOrder, pinned, newIndexOf, norm)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(out))
	}
	if out[0].AxisIndices[0] != 0 {
		t.Errorf("surviving record's axis index should be remapped to 0, got %d", out[0].AxisIndices[0])
	}
}

func TestPruneStatAxisValues_Format4DropsWholeRecordOnAnyMismatch(t *testing.T) {
	axisOrder := []ot.Tag{ot.TagAxisWeight, ot.TagAxisWidth}
	values := []ot.StatAxisValue{
		{Format: 4, AxisIndices: []int{0, 1}, Values: []float32{400, 150}}, // wght matches, wdth doesn't
	}
	norm := newTestNormalizer()
	pinned := map[ot.Tag]float64{ot.TagAxisWeight: 0, ot.TagAxisWidth: 0} // pin wdth at default (100), not 150
	out := PruneStatAxisValues(values, axisOrder, pinned, nil, norm)
	if len(out) != 0 {
		t.Fatalf("expected the whole record dropped on one sub-entry mismatch, got %d", len(out))
	}
}

func TestNameIDUsage_DropsUnreferenced(t *testing.T) {
	u := NewNameIDUsage([]uint16{256, 257, 258})
	u.Keep(256)
	dropped := u.Dropped([]uint16{256})
	if len(dropped) != 2 || dropped[0] != 257 || dropped[1] != 258 {
		t.Errorf("Dropped() = %v, want [257 258]", dropped)
	}
}

func TestNameIDUsage_ZeroIgnored(t *testing.T) {
	u := NewNameIDUsage([]uint16{0, 300})
	u.Keep(0)
	dropped := u.Dropped(nil)
	if len(dropped) != 1 || dropped[0] != 300 {
		t.Errorf("Dropped() = %v, want [300] (id 0 should never be tracked)", dropped)
	}
}
