package instancer

import (
	"testing"

	"github.com/grishacl/varinstance/ot"
)

func TestItemVariationStoreFromRaw(t *testing.T) {
	raw := &ot.ItemVariationStoreRaw{
		Axes: []ot.Tag{ot.TagAxisWeight},
		Regions: [][]ot.RawRegionAxis{
			{{Start: 0, Peak: 1, End: 1}},
			{{Start: -1, Peak: -1, End: 0}},
		},
		VarDatas: []ot.RawVarData{
			{
				RegionIndexes: []int{0, 1},
				DeltaSets:     [][]int32{{10, -5}, {20, -10}},
			},
		},
	}

	store := ItemVariationStoreFromRaw(raw)
	if len(store.VarDatas) != 1 {
		t.Fatalf("expected 1 subtable, got %d", len(store.VarDatas))
	}
	vd := store.VarDatas[0]
	if len(vd.Regions) != 2 {
		t.Fatalf("expected 2 region columns, got %d", len(vd.Regions))
	}
	if got := vd.Regions[0].Get(ot.TagAxisWeight); got != (Tent{0, 1, 1}) {
		t.Errorf("region 0 tent = %+v, want {0,1,1}", got)
	}
	if got := vd.Regions[1].Get(ot.TagAxisWeight); got != (Tent{-1, -1, 0}) {
		t.Errorf("region 1 tent = %+v, want {-1,-1,0}", got)
	}
	if len(vd.DeltaSets) != 2 || vd.DeltaSets[0][0] != 10 || vd.DeltaSets[1][1] != -10 {
		t.Errorf("DeltaSets = %+v", vd.DeltaSets)
	}
}

func buildTestVarData() *VarData {
	regionPos := NewAxisTents()
	regionPos.Set(ot.TagAxisWeight, Tent{0, 1, 1})
	regionNeg := NewAxisTents()
	regionNeg.Set(ot.TagAxisWeight, Tent{-1, -1, 0})

	return &VarData{
		Regions: []*AxisTents{regionPos, regionNeg},
		DeltaSets: [][]float64{
			{10, -5},
			{20, -10},
		},
	}
}

func TestTransformVarData_FullyPinned(t *testing.T) {
	vd := buildTestVarData()
	pinned := map[ot.Tag]float64{ot.TagAxisWeight: 1}
	out, residue := TransformVarData(vd, pinned, nil)

	if len(out.Regions) != 0 {
		t.Fatalf("expected 0 surviving regions (fully pinned), got %d", len(out.Regions))
	}
	if len(residue) != 2 {
		t.Fatalf("expected residue for both items, got %d", len(residue))
	}
	// at c=1, only the positive-peak region contributes, at full scale.
	if residue[0] != 10 || residue[1] != 20 {
		t.Errorf("residue = %v, want [10 20]", residue)
	}
}

func TestTransformItemVariationStore_PrunesPinnedAxis(t *testing.T) {
	regionA := NewAxisTents()
	regionA.Set(ot.TagAxisWeight, Tent{0, 1, 1})
	regionA.Set(ot.TagAxisWidth, Tent{0, 1, 1})

	store := &ItemVariationStore{
		Axes: []ot.Tag{ot.TagAxisWeight, ot.TagAxisWidth},
		VarDatas: []*VarData{
			{Regions: []*AxisTents{regionA}, DeltaSets: [][]float64{{40}}},
		},
	}

	pinned := map[ot.Tag]float64{ot.TagAxisWeight: 1}
	newStore, residues := TransformItemVariationStore(store, pinned, nil)

	if len(newStore.Axes) != 1 || newStore.Axes[0] != ot.TagAxisWidth {
		t.Fatalf("expected only wdth axis to survive, got %v", newStore.Axes)
	}
	if len(residues) != 1 {
		t.Fatalf("expected one subtable's residue, got %d", len(residues))
	}
	if len(newStore.VarDatas) != 1 {
		t.Fatalf("expected subtable to survive (wdth still varies), got %d", len(newStore.VarDatas))
	}
	if len(newStore.VarDatas[0].Regions) != 1 {
		t.Errorf("expected 1 surviving region column, got %d", len(newStore.VarDatas[0].Regions))
	}
}
