package vm

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

const (
	eofMagic   = 0xef00
	eofVersion = 1
)

type headerEntry struct {
	kind byte
	size uint16
}

// Decode parses a raw byte buffer into a Container, or returns one of the
// decode errors in errors.go. Decode performs no semantic validation -
// call Validate on the result for that.
func Decode(b []byte) (*Container, error) {
	if len(b) < 2 {
		return nil, ErrUnexpectedEOF
	}
	if binary.BigEndian.Uint16(b[:2]) != eofMagic {
		return nil, ErrInvalidMagic
	}
	if len(b) < 3 {
		return nil, ErrUnexpectedEOF
	}
	if b[2] != eofVersion {
		return nil, ErrUnsupportedVersion
	}

	pos := 3
	var headers []headerEntry
	sawType, sawCode, sawData := false, false, false

	for {
		if pos >= len(b) {
			return nil, ErrIncompleteSections
		}
		kind := b[pos]
		pos++
		if kind == kindTerminator {
			break
		}
		if pos+2 > len(b) {
			return nil, ErrIncompleteSectionSize
		}
		size := binary.BigEndian.Uint16(b[pos : pos+2])
		pos += 2

		switch kind {
		case kindType:
			if size%4 != 0 {
				return nil, ErrInvalidTypeSectionSize
			}
			sawType = true
			headers = append(headers, headerEntry{kind: kind, size: size})
		case kindCode:
			sawCode = true
			// size is not a byte length here: it is the count of code
			// sections, each of whose 2-byte length immediately follows.
			count := size
			for i := uint16(0); i < count; i++ {
				if pos+2 > len(b) {
					return nil, ErrIncompleteSectionSize
				}
				codeLen := binary.BigEndian.Uint16(b[pos : pos+2])
				pos += 2
				headers = append(headers, headerEntry{kind: kindCode, size: codeLen})
			}
		case kindData:
			sawData = true
			headers = append(headers, headerEntry{kind: kind, size: size})
		default:
			return nil, ErrUnsupportedSectionKind
		}
	}

	contents := make([][]byte, len(headers))
	for i, h := range headers {
		if int(h.size) > len(b)-pos {
			return nil, ErrInvalidCodeSize
		}
		if h.size == 0 && h.kind != kindData {
			return nil, ErrInvalidCodeSize
		}
		contents[i] = common.CopyBytes(b[pos : pos+int(h.size)])
		pos += int(h.size)
	}

	if !sawType {
		return nil, ErrMissingTypeHeader
	}
	if !sawCode {
		return nil, ErrMissingCodeHeader
	}
	if !sawData {
		return nil, ErrMissingDataHeader
	}
	if pos != len(b) {
		return nil, ErrInvalidContainerSize
	}

	c := &Container{Version: eofVersion}
	for i, h := range headers {
		switch h.kind {
		case kindType:
			entries, err := decodeTypeSection(contents[i])
			if err != nil {
				return nil, err
			}
			c.Sections = append(c.Sections, NewTypeSection(entries))
		case kindCode:
			c.Sections = append(c.Sections, NewCodeSection(contents[i]))
		case kindData:
			c.Sections = append(c.Sections, NewDataSection(contents[i]))
		default:
			return nil, ErrUnsupportedSectionKind
		}
	}
	return c, nil
}

func decodeTypeSection(b []byte) ([]TypeEntry, error) {
	entries := make([]TypeEntry, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		entries = append(entries, TypeEntry{
			Inputs:         b[i],
			Outputs:        b[i+1],
			MaxStackHeight: binary.BigEndian.Uint16(b[i+2 : i+4]),
		})
	}
	return entries, nil
}
