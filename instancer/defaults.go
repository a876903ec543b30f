package instancer

import "github.com/grishacl/varinstance/ot"

const (
	macStyleBold   = 0x0001
	macStyleItalic = 0x0002
)

// UpdateStyleAttributes implements §4.K: after wght/wdth/slnt are fully
// pinned (removed from the variable axis set entirely), the font's
// static style bookkeeping — OS/2.usWeightClass/usWidthClass and
// head.macStyle's bold/italic bits — must reflect the pinned values
// instead of the default master's, since nothing will ever interpolate
// them again. An axis left ranged (not fully pinned) is left alone: its
// final rendered weight/width still depends on where the remaining axis
// lands, so the static fields keep describing the default instance.
func UpdateStyleAttributes(os2 *ot.OS2, head *ot.Head, pinned map[ot.Tag]float64, norm *Normalizer) {
	if v, ok := pinned[ot.TagAxisWeight]; ok && os2 != nil {
		if triple, ok := norm.Axis(ot.TagAxisWeight); ok {
			os2.UsWeightClass = uint16(clamp(denormalize(v, triple), 1, 1000))
		}
	}
	if v, ok := pinned[ot.TagAxisWidth]; ok && os2 != nil {
		if triple, ok := norm.Axis(ot.TagAxisWidth); ok {
			os2.UsWidthClass = uint16(clamp(denormalize(v, triple), 1, 9))
		}
	}

	if head == nil {
		return
	}
	if v, ok := pinned[ot.TagAxisWeight]; ok {
		if triple, ok := norm.Axis(ot.TagAxisWeight); ok {
			weight := denormalize(v, triple)
			setMacStyleBit(head, macStyleBold, weight >= 700)
		}
	}
	if v, ok := pinned[ot.TagAxisSlant]; ok {
		setMacStyleBit(head, macStyleItalic, v != 0)
	}
	if v, ok := pinned[ot.TagAxisItalic]; ok {
		setMacStyleBit(head, macStyleItalic, v >= 1)
	}
}

func setMacStyleBit(head *ot.Head, bit uint16, on bool) {
	if on {
		head.MacStyle |= bit
	} else {
		head.MacStyle &^= bit
	}
}
