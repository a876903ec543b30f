package ot

import "encoding/binary"

// MvarValueRecord ties one MVAR-tracked font-wide metric (e.g. "hasc",
// "xhgt", "undo") to a row in the table's shared item variation store.
type MvarValueRecord struct {
	ValueTag      Tag
	DeltaSetOuter uint16
	DeltaSetInner uint16
}

// Mvar is a parsed MVAR table: a value-record index into a single shared
// ItemVariationStore.
type Mvar struct {
	ValueRecordSize uint16
	Records         []MvarValueRecord
	Store           *ItemVariationStoreRaw
}

// ParseMvar decodes an MVAR table. fvar supplies axis tags for the
// shared item variation store.
func ParseMvar(data []byte, fvar *Fvar) (*Mvar, error) {
	if len(data) < 12 {
		return nil, ErrInvalidTable
	}
	p := NewParser(data)
	if err := p.Skip(6); err != nil { // majorVersion, minorVersion, reserved
		return nil, err
	}
	valueRecordSize, err := p.U16()
	if err != nil {
		return nil, err
	}
	valueRecordCount, err := p.U16()
	if err != nil {
		return nil, err
	}
	itemVariationStoreOffset, err := p.U16()
	if err != nil {
		return nil, err
	}

	records := make([]MvarValueRecord, valueRecordCount)
	for i := range records {
		tagBytes, err := p.Bytes(4)
		if err != nil {
			return nil, err
		}
		outer, err := p.U16()
		if err != nil {
			return nil, err
		}
		inner, err := p.U16()
		if err != nil {
			return nil, err
		}
		records[i] = MvarValueRecord{
			ValueTag:      Tag(binary.BigEndian.Uint32(tagBytes)),
			DeltaSetOuter: outer,
			DeltaSetInner: inner,
		}
	}

	var store *ItemVariationStoreRaw
	if itemVariationStoreOffset != 0 {
		store, err = ParseItemVariationStoreRaw(data[itemVariationStoreOffset:], fvar)
		if err != nil {
			return nil, err
		}
	}

	return &Mvar{ValueRecordSize: valueRecordSize, Records: records, Store: store}, nil
}
