package instancer

import (
	"testing"

	"github.com/grishacl/varinstance/ot"
)

func TestAxisTents_GetMissingReturnsDefault(t *testing.T) {
	at := NewAxisTents()
	if got := at.Get(ot.TagAxisWeight); got != defaultTent {
		t.Errorf("Get on empty set = %+v, want defaultTent", got)
	}
	if at.Has(ot.TagAxisWeight) {
		t.Error("Has should be false for unset axis")
	}
}

func TestAxisTents_SetPreservesOrderOnOverwrite(t *testing.T) {
	at := NewAxisTents()
	at.Set(ot.TagAxisWeight, Tent{-1, 0.5, 1})
	at.Set(ot.TagAxisWidth, Tent{-1, 0.3, 1})
	at.Set(ot.TagAxisWeight, Tent{-1, 0.9, 1}) // overwrite, should keep position 0

	tags := at.Tags()
	if len(tags) != 2 || tags[0] != ot.TagAxisWeight || tags[1] != ot.TagAxisWidth {
		t.Fatalf("Tags() = %v, want [wght wdth]", tags)
	}
	if got := at.Get(ot.TagAxisWeight); got.Peak != 0.9 {
		t.Errorf("overwritten peak = %v, want 0.9", got.Peak)
	}
}

func TestAxisTents_DeletePreservesOrder(t *testing.T) {
	at := NewAxisTents()
	at.Set(ot.TagAxisWeight, Tent{-1, 0.5, 1})
	at.Set(ot.TagAxisWidth, Tent{-1, 0.3, 1})
	at.Set(ot.TagAxisSlant, Tent{-1, 0.2, 1})

	at.Delete(ot.TagAxisWidth)

	tags := at.Tags()
	if len(tags) != 2 || tags[0] != ot.TagAxisWeight || tags[1] != ot.TagAxisSlant {
		t.Fatalf("Tags() after delete = %v, want [wght slnt]", tags)
	}
	if at.Has(ot.TagAxisWidth) {
		t.Error("deleted axis should not be present")
	}
}

func TestAxisTents_KeyOrderIndependent(t *testing.T) {
	a := NewAxisTents()
	a.Set(ot.TagAxisWeight, Tent{-1, 0.5, 1})
	a.Set(ot.TagAxisWidth, Tent{-1, 0.3, 1})

	b := NewAxisTents()
	b.Set(ot.TagAxisWidth, Tent{-1, 0.3, 1})
	b.Set(ot.TagAxisWeight, Tent{-1, 0.5, 1})

	if a.Key() != b.Key() {
		t.Errorf("Key() should be order-independent: %q != %q", a.Key(), b.Key())
	}
}

func TestAxisTents_KeyDiffersOnContent(t *testing.T) {
	a := NewAxisTents()
	a.Set(ot.TagAxisWeight, Tent{-1, 0.5, 1})

	b := NewAxisTents()
	b.Set(ot.TagAxisWeight, Tent{-1, 0.6, 1})

	if a.Key() == b.Key() {
		t.Error("Key() should differ when tent content differs")
	}
}

func TestAxisTents_CloneIndependence(t *testing.T) {
	a := NewAxisTents()
	a.Set(ot.TagAxisWeight, Tent{-1, 0.5, 1})

	b := a.Clone()
	b.Set(ot.TagAxisWeight, Tent{-1, 0.9, 1})

	if a.Get(ot.TagAxisWeight).Peak != 0.5 {
		t.Error("mutating clone should not affect original")
	}
}
