package instancer

import (
	"testing"

	"github.com/grishacl/varinstance/ot"
)

func TestParseLimitString_Pin(t *testing.T) {
	tag, lim, err := ParseLimitString("wght=300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != ot.TagAxisWeight {
		t.Errorf("tag = %v, want wght", tag.String())
	}
	if lim.Kind != KindPin || lim.Pin != 300 {
		t.Errorf("lim = %+v, want Pin(300)", lim)
	}
}

func TestParseLimitString_Range(t *testing.T) {
	tag, lim, err := ParseLimitString("wght=400:700")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != ot.TagAxisWeight {
		t.Errorf("tag = %v, want wght", tag.String())
	}
	if lim.Kind != KindRange || lim.Lo != 400 || lim.Hi != 700 {
		t.Errorf("lim = %+v, want Range(400,700)", lim)
	}
}

func TestParseLimitString_Drop(t *testing.T) {
	tag, lim, err := ParseLimitString("wght=drop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != ot.TagAxisWeight {
		t.Errorf("tag = %v, want wght", tag.String())
	}
	if lim.Kind != KindDefault {
		t.Errorf("lim.Kind = %v, want KindDefault", lim.Kind)
	}
}

func TestParseLimitString_Malformed(t *testing.T) {
	tests := []string{
		"wght",
		"wght=",
		"=300",
		"wght=abc",
		"wght=400:abc",
	}
	for _, s := range tests {
		if _, _, err := ParseLimitString(s); err == nil {
			t.Errorf("ParseLimitString(%q) should have failed", s)
		}
	}
}

func TestParseLimitString_InvertedRange(t *testing.T) {
	if _, _, err := ParseLimitString("wght=700:400"); err == nil {
		t.Fatal("expected error for lo > hi")
	}
}

func TestNewRangeLimit_InvalidOrder(t *testing.T) {
	if _, err := NewRangeLimit(10, 5); err == nil {
		t.Fatal("expected ErrMalformedRange")
	}
}

func TestParseLimitString_ShortTag(t *testing.T) {
	// 3-letter tags like "ital"-style but shorter must be space-padded.
	tag, _, err := ParseLimitString("xyz=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ot.MakeTag('x', 'y', 'z', ' ')
	if tag != want {
		t.Errorf("tag = %v, want %v", tag.String(), want.String())
	}
}
