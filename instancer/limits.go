package instancer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/grishacl/varinstance/ot"
)

// Kind discriminates the shape of an axis limit. §3 "User limit" /
// "Normalized limit": the same three shapes recur before and after
// normalization, so both UserLimit and NormalizedLimit share this enum
// instead of being represented with dynamic dispatch (§9).
type Kind int

const (
	// KindDefault resolves to Pin(axis.Default) at entry (§3).
	KindDefault Kind = iota
	KindPin
	KindRange
)

// UserLimit is an axis constraint expressed in user (font design) units,
// before normalization (§4.A).
type UserLimit struct {
	Kind   Kind
	Pin    float64
	Lo, Hi float64
}

// NewPinLimit builds a user-space pin at v.
func NewPinLimit(v float64) UserLimit { return UserLimit{Kind: KindPin, Pin: v} }

// NewRangeLimit builds a user-space range [lo, hi]. Returns ErrMalformedRange
// if lo > hi.
func NewRangeLimit(lo, hi float64) (UserLimit, error) {
	if lo > hi {
		return UserLimit{}, ErrMalformedRange
	}
	return UserLimit{Kind: KindRange, Lo: lo, Hi: hi}, nil
}

// DefaultLimit is the default-sentinel user limit.
func DefaultLimit() UserLimit { return UserLimit{Kind: KindDefault} }

// NormalizedLimit is an axis constraint in normalized [-1, +1] space
// (§4.B). KindDefault never appears here — it is resolved to KindPin at
// normalization time.
type NormalizedLimit struct {
	Kind   Kind
	Pin    float64
	Lo, Hi float64
}

// Validate checks the invariants in §3: for Range, lo <= 0 <= hi and
// |lo|, |hi| <= 1.
func (n NormalizedLimit) Validate() error {
	if n.Kind != KindRange {
		return nil
	}
	if n.Lo > n.Hi {
		return ErrMalformedRange
	}
	if n.Lo > 0 || n.Hi < 0 {
		return ErrRangeOutOfBounds
	}
	if n.Lo < -1 || n.Hi > 1 {
		return ErrRangeOutOfBounds
	}
	return nil
}

// Limits maps an axis tag to a user-space limit, the input shape of the
// public entry point (§6).
type Limits map[ot.Tag]UserLimit

var limitSpecRE = regexp.MustCompile(`^(\w{1,4})=(?:(drop)|(?:([^:]+)(?:[:](.+))?))$`)

// ParseLimitString parses the CLI limit syntax TAG=<num> | TAG=<num>:<num> |
// TAG=drop (§6 "CLI surface"). "drop" is accepted as a synonym for the
// default sentinel, matching the original tool's vocabulary.
func ParseLimitString(s string) (ot.Tag, UserLimit, error) {
	m := limitSpecRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, UserLimit{}, fmt.Errorf("%w: %q", ErrMalformedLimit, s)
	}
	tag := tagFromString(m[1])

	if m[2] == "drop" {
		return tag, DefaultLimit(), nil
	}

	lo, err := parseQuantizedNumber(m[3])
	if err != nil {
		return 0, UserLimit{}, fmt.Errorf("%w: %q: %v", ErrMalformedLimit, s, err)
	}

	if m[4] == "" {
		return tag, NewPinLimit(lo), nil
	}

	hi, err := parseQuantizedNumber(m[4])
	if err != nil {
		return 0, UserLimit{}, fmt.Errorf("%w: %q: %v", ErrMalformedLimit, s, err)
	}

	rl, err := NewRangeLimit(lo, hi)
	if err != nil {
		return 0, UserLimit{}, fmt.Errorf("%w: %q", err, s)
	}
	return tag, rl, nil
}

// parseQuantizedNumber parses a decimal number and rounds it to the
// 16.16 fixed-point grid used by fvar axis values (§4.A).
func parseQuantizedNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return quantizeFixed16_16(v), nil
}

func tagFromString(s string) ot.Tag {
	var b [4]byte
	b[0], b[1], b[2], b[3] = ' ', ' ', ' ', ' '
	copy(b[:], s)
	return ot.MakeTag(b[0], b[1], b[2], b[3])
}
