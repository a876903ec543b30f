package instancer

import (
	"testing"

	"github.com/grishacl/varinstance/ot"
)

func axisTriples() map[ot.Tag]AxisTriple {
	return map[ot.Tag]AxisTriple{
		ot.TagAxisWeight: {100, 400, 900},
		ot.TagAxisWidth:  {50, 100, 150},
	}
}

func newTestNormalizer() *Normalizer {
	return &Normalizer{
		axes:      axisTriples(),
		axisIndex: map[ot.Tag]int{ot.TagAxisWeight: 0, ot.TagAxisWidth: 1},
	}
}

func TestNormalizeValue(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name string
		tag  ot.Tag
		v    float64
		want float64
	}{
		{"default", ot.TagAxisWeight, 400, 0},
		{"below default", ot.TagAxisWeight, 100, -1},
		{"above default", ot.TagAxisWeight, 900, 1},
		{"midpoint below", ot.TagAxisWeight, 250, -0.5},
		{"midpoint above", ot.TagAxisWeight, 650, 0.5},
		{"width below", ot.TagAxisWidth, 75, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.NormalizeValue(tt.tag, tt.v)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("NormalizeValue(%v, %v) = %v, want %v", tt.tag.String(), tt.v, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue_UnknownAxis(t *testing.T) {
	n := newTestNormalizer()
	unknown := ot.MakeTag('x', 'x', 'x', 'x')
	if _, err := n.NormalizeValue(unknown, 1); err == nil {
		t.Fatal("expected ErrUnknownAxis, got nil")
	}
}

func TestNormalizeLimits_DefaultSentinel(t *testing.T) {
	n := newTestNormalizer()
	limits := Limits{ot.TagAxisWeight: DefaultLimit()}
	out, err := n.NormalizeLimits(limits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nl := out[ot.TagAxisWeight]
	if nl.Kind != KindPin || nl.Pin != 0 {
		t.Errorf("default sentinel should normalize to Pin(0), got %+v", nl)
	}
}

func TestNormalizeLimits_Range(t *testing.T) {
	n := newTestNormalizer()
	rl, err := NewRangeLimit(400, 700)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	limits := Limits{ot.TagAxisWeight: rl}
	out, err := n.NormalizeLimits(limits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nl := out[ot.TagAxisWeight]
	if nl.Kind != KindRange {
		t.Fatalf("expected KindRange, got %v", nl.Kind)
	}
	if nl.Lo != 0 {
		t.Errorf("Lo = %v, want 0", nl.Lo)
	}
	wantHi := quantizeF2Dot14(300.0 / 500.0)
	if !almostEqual(nl.Hi, wantHi) {
		t.Errorf("Hi = %v, want %v", nl.Hi, wantHi)
	}
}

func TestNormalizeLimits_UnknownAxisFails(t *testing.T) {
	n := newTestNormalizer()
	unknown := ot.MakeTag('z', 'z', 'z', 'z')
	limits := Limits{unknown: NewPinLimit(1)}
	if _, err := n.NormalizeLimits(limits); err == nil {
		t.Fatal("expected error for unknown axis")
	}
}

func TestNormalizedLimit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		nl      NormalizedLimit
		wantErr bool
	}{
		{"pin always valid", NormalizedLimit{Kind: KindPin, Pin: 0.5}, false},
		{"valid range", NormalizedLimit{Kind: KindRange, Lo: -0.5, Hi: 0.5}, false},
		{"lo greater than hi", NormalizedLimit{Kind: KindRange, Lo: 0.5, Hi: -0.5}, true},
		{"lo positive", NormalizedLimit{Kind: KindRange, Lo: 0.1, Hi: 0.5}, true},
		{"hi negative", NormalizedLimit{Kind: KindRange, Lo: -0.5, Hi: -0.1}, true},
		{"out of -1..1", NormalizedLimit{Kind: KindRange, Lo: -1.5, Hi: 0.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nl.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
