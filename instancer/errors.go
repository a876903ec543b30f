package instancer

import "errors"

// Input validation errors (§7 "Input validation").
var (
	ErrUnknownAxis      = errors.New("instancer: unknown axis tag")
	ErrMalformedRange   = errors.New("instancer: malformed range (lo > hi)")
	ErrRangeOutOfBounds = errors.New("instancer: normalized range out of bounds")
	ErrMalformedLimit   = errors.New("instancer: malformed limit string")
)

// Unsupported-font-feature errors (§7 "Unsupported font feature").
var (
	ErrCFFOutlines    = errors.New("instancer: postscript-flavored (CFF/CFF2) outlines are not supported")
	ErrNoOutlineTable = errors.New("instancer: glyf/loca table required for outline variations but missing")
	ErrNilFont        = errors.New("instancer: nil font")
	ErrMalformedTable = errors.New("instancer: table too short to contain its declared header")
)
