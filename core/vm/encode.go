package vm

import (
	"encoding/binary"
	"errors"
)

// ErrMultipleTypeSections is returned by Encode: the on-wire format has
// room for exactly one Type header and one Code group header, so a
// Container built (e.g. by hand, or from JSON) with more than one Type
// section cannot be serialised into a stream the Decoder could read back.
var ErrMultipleTypeSections = errors.New("cannot encode a container with more than one Type section")

// Encode serialises c into the EOF v1 wire format: magic, version, a Type
// header, a Code group header, a Data header, the terminator, and the
// section bodies in that order - regardless of the order Sections holds
// them in, since the wire format groups headers by kind.
func Encode(c *Container) ([]byte, error) {
	var types []TypeEntry
	var codes [][]byte
	var datas [][]byte
	typeSectionCount := 0

	for _, s := range c.Sections {
		switch s.Kind {
		case kindType:
			typeSectionCount++
			types = s.Types
		case kindCode:
			codes = append(codes, s.Code)
		case kindData:
			datas = append(datas, s.Data)
		}
	}
	if typeSectionCount > 1 {
		return nil, ErrMultipleTypeSections
	}

	var out []byte
	out = appendUint16(out, eofMagic)
	out = append(out, c.Version)

	// Type header
	out = append(out, kindType)
	out = appendUint16(out, uint16(len(types)*4))

	// Code group header: one header entry whose size is the *count* of
	// code sections, followed by each section's 2-byte length.
	out = append(out, kindCode)
	out = appendUint16(out, uint16(len(codes)))
	for _, code := range codes {
		out = appendUint16(out, uint16(len(code)))
	}

	// Data header. The wire format has room for only one; callers that
	// built a Container with several Data sections get their bodies
	// concatenated under a single header.
	var dataBody []byte
	for _, d := range datas {
		dataBody = append(dataBody, d...)
	}
	out = append(out, kindData)
	out = appendUint16(out, uint16(len(dataBody)))

	out = append(out, kindTerminator)

	// Bodies, in header order: Type, Code(s), Data.
	out = appendTypeBody(out, types)
	for _, code := range codes {
		out = append(out, code...)
	}
	out = append(out, dataBody...)

	return out, nil
}

func appendUint16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendTypeBody(b []byte, types []TypeEntry) []byte {
	for _, t := range types {
		b = append(b, t.Inputs, t.Outputs)
		b = appendUint16(b, t.MaxStackHeight)
	}
	return b
}
