package ot

import "encoding/binary"

// Head represents the font header (head) table's fields relevant to
// instancing: §4.K needs macStyle's bold/italic bits kept in sync with
// a fully-pinned weight/slant/italic axis once nothing will ever
// interpolate them again.
type Head struct {
	Version            uint32
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin               int16
	YMin               int16
	XMax               int16
	YMax               int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

// ParseHead parses the head table.
func ParseHead(data []byte) (*Head, error) {
	if len(data) < 54 {
		return nil, ErrInvalidTable
	}

	return &Head{
		Version:            binary.BigEndian.Uint32(data[0:]),
		FontRevision:       binary.BigEndian.Uint32(data[4:]),
		CheckSumAdjustment: binary.BigEndian.Uint32(data[8:]),
		MagicNumber:        binary.BigEndian.Uint32(data[12:]),
		Flags:              binary.BigEndian.Uint16(data[16:]),
		UnitsPerEm:         binary.BigEndian.Uint16(data[18:]),
		Created:            int64(binary.BigEndian.Uint64(data[20:])),
		Modified:           int64(binary.BigEndian.Uint64(data[28:])),
		XMin:               int16(binary.BigEndian.Uint16(data[36:])),
		YMin:               int16(binary.BigEndian.Uint16(data[38:])),
		XMax:               int16(binary.BigEndian.Uint16(data[40:])),
		YMax:               int16(binary.BigEndian.Uint16(data[42:])),
		MacStyle:           binary.BigEndian.Uint16(data[44:]),
		LowestRecPPEM:      binary.BigEndian.Uint16(data[46:]),
		FontDirectionHint:  int16(binary.BigEndian.Uint16(data[48:])),
		IndexToLocFormat:   int16(binary.BigEndian.Uint16(data[50:])),
		GlyphDataFormat:    int16(binary.BigEndian.Uint16(data[52:])),
	}, nil
}

// Bytes re-encodes h over a copy of its original 54-byte table data,
// for a Builder to add back to the output font after §4.K mutates
// MacStyle. CheckSumAdjustment is left as-is; Builder.Build overwrites
// it once the full font is assembled.
func (h *Head) Bytes(orig []byte) []byte {
	out := append([]byte(nil), orig...)
	if len(out) < 54 {
		out = append(out, make([]byte, 54-len(out))...)
	}
	binary.BigEndian.PutUint16(out[44:], h.MacStyle)
	return out
}

// OS2 represents the OS/2 table's fields relevant to instancing: §4.K
// needs usWeightClass/usWidthClass kept in sync with a fully-pinned
// wght/wdth axis.
type OS2 struct {
	Version             uint16
	XAvgCharWidth       int16
	UsWeightClass       uint16
	UsWidthClass        uint16
	FsType              uint16
	YSubscriptXSize     int16
	YSubscriptYSize     int16
	YSubscriptXOffset   int16
	YSubscriptYOffset   int16
	YSuperscriptXSize   int16
	YSuperscriptYSize   int16
	YSuperscriptXOffset int16
	YSuperscriptYOffset int16
	YStrikeoutSize      int16
	YStrikeoutPosition  int16
	SFamilyClass        int16
	Panose              [10]byte
	UlUnicodeRange1     uint32
	UlUnicodeRange2     uint32
	UlUnicodeRange3     uint32
	UlUnicodeRange4     uint32
	AchVendID           [4]byte
	FsSelection         uint16
	UsFirstCharIndex    uint16
	UsLastCharIndex     uint16
	STypoAscender       int16
	STypoDescender      int16
	STypoLineGap        int16
	UsWinAscent         uint16
	UsWinDescent        uint16
}

// ParseOS2 parses the OS/2 table's version 0 fields (the superset every
// later version also carries, which is all §4.K needs).
func ParseOS2(data []byte) (*OS2, error) {
	if len(data) < 78 {
		return nil, ErrInvalidTable
	}

	o := &OS2{
		Version:             binary.BigEndian.Uint16(data[0:]),
		XAvgCharWidth:       int16(binary.BigEndian.Uint16(data[2:])),
		UsWeightClass:       binary.BigEndian.Uint16(data[4:]),
		UsWidthClass:        binary.BigEndian.Uint16(data[6:]),
		FsType:              binary.BigEndian.Uint16(data[8:]),
		YSubscriptXSize:     int16(binary.BigEndian.Uint16(data[10:])),
		YSubscriptYSize:     int16(binary.BigEndian.Uint16(data[12:])),
		YSubscriptXOffset:   int16(binary.BigEndian.Uint16(data[14:])),
		YSubscriptYOffset:   int16(binary.BigEndian.Uint16(data[16:])),
		YSuperscriptXSize:   int16(binary.BigEndian.Uint16(data[18:])),
		YSuperscriptYSize:   int16(binary.BigEndian.Uint16(data[20:])),
		YSuperscriptXOffset: int16(binary.BigEndian.Uint16(data[22:])),
		YSuperscriptYOffset: int16(binary.BigEndian.Uint16(data[24:])),
		YStrikeoutSize:      int16(binary.BigEndian.Uint16(data[26:])),
		YStrikeoutPosition:  int16(binary.BigEndian.Uint16(data[28:])),
		SFamilyClass:        int16(binary.BigEndian.Uint16(data[30:])),
		FsSelection:         binary.BigEndian.Uint16(data[62:]),
		UsFirstCharIndex:    binary.BigEndian.Uint16(data[64:]),
		UsLastCharIndex:     binary.BigEndian.Uint16(data[66:]),
		STypoAscender:       int16(binary.BigEndian.Uint16(data[68:])),
		STypoDescender:      int16(binary.BigEndian.Uint16(data[70:])),
		STypoLineGap:        int16(binary.BigEndian.Uint16(data[72:])),
		UsWinAscent:         binary.BigEndian.Uint16(data[74:]),
		UsWinDescent:        binary.BigEndian.Uint16(data[76:]),
	}

	copy(o.Panose[:], data[32:42])
	o.UlUnicodeRange1 = binary.BigEndian.Uint32(data[42:])
	o.UlUnicodeRange2 = binary.BigEndian.Uint32(data[46:])
	o.UlUnicodeRange3 = binary.BigEndian.Uint32(data[50:])
	o.UlUnicodeRange4 = binary.BigEndian.Uint32(data[54:])
	copy(o.AchVendID[:], data[58:62])

	return o, nil
}

// Bytes re-encodes o's weight/width class fields over a copy of its
// original table data, for a Builder to add back to the output font
// after §4.K mutates them. Every other field, including version-gated
// tails beyond byte 78, passes through untouched.
func (o *OS2) Bytes(orig []byte) []byte {
	out := append([]byte(nil), orig...)
	if len(out) < 8 {
		return out
	}
	binary.BigEndian.PutUint16(out[4:], o.UsWeightClass)
	binary.BigEndian.PutUint16(out[6:], o.UsWidthClass)
	return out
}
