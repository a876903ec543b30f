package instancer

import (
	"testing"

	"github.com/grishacl/varinstance/ot"
)

func TestUpdateStyleAttributesPinnedWeightAndWidth(t *testing.T) {
	norm := &Normalizer{
		axes: map[ot.Tag]AxisTriple{
			ot.TagAxisWeight: {100, 400, 900},
			ot.TagAxisWidth:  {75, 100, 125},
		},
	}

	os2 := &ot.OS2{UsWeightClass: 400, UsWidthClass: 5}
	head := &ot.Head{MacStyle: 0}

	pinned := map[ot.Tag]float64{
		ot.TagAxisWeight: 0.6, // normalized 700
	}

	UpdateStyleAttributes(os2, head, pinned, norm)

	if os2.UsWeightClass != 700 {
		t.Errorf("UsWeightClass = %d, want 700", os2.UsWeightClass)
	}
	if os2.UsWidthClass != 5 {
		t.Errorf("UsWidthClass = %d, want unchanged 5 (width axis not pinned)", os2.UsWidthClass)
	}
	if head.MacStyle&0x0001 == 0 {
		t.Errorf("MacStyle bold bit not set for weight 700")
	}
}

func TestUpdateStyleAttributesItalicBit(t *testing.T) {
	norm := &Normalizer{
		axes: map[ot.Tag]AxisTriple{
			ot.TagAxisItalic: {0, 0, 1},
		},
	}

	head := &ot.Head{MacStyle: 0}
	pinned := map[ot.Tag]float64{ot.TagAxisItalic: 1}

	UpdateStyleAttributes(nil, head, pinned, norm)

	if head.MacStyle&0x0002 == 0 {
		t.Errorf("MacStyle italic bit not set for ital=1")
	}
}

func TestUpdateStyleAttributesLeavesUnpinnedAxesAlone(t *testing.T) {
	norm := &Normalizer{
		axes: map[ot.Tag]AxisTriple{
			ot.TagAxisWeight: {100, 400, 900},
		},
	}

	os2 := &ot.OS2{UsWeightClass: 400}
	head := &ot.Head{MacStyle: 0}

	UpdateStyleAttributes(os2, head, map[ot.Tag]float64{}, norm)

	if os2.UsWeightClass != 400 {
		t.Errorf("UsWeightClass = %d, want unchanged 400 when weight isn't pinned", os2.UsWeightClass)
	}
	if head.MacStyle != 0 {
		t.Errorf("MacStyle = %#x, want unchanged 0 when weight isn't pinned", head.MacStyle)
	}
}
