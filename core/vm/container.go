package vm

// Section priority, used to enforce canonical Type < Code < Data ordering.
const (
	priorityType = 1
	priorityCode = 2
	priorityData = 3
)

// Section kind bytes, as they appear in the wire header stream.
const (
	kindTerminator byte = 0
	kindType       byte = 1
	kindCode       byte = 2
	kindData       byte = 3
)

// TypeEntry is one row of a container's Type section: the calling
// convention of a single code section.
type TypeEntry struct {
	Inputs         uint8
	Outputs        uint8
	MaxStackHeight uint16
}

// Section is a tagged union over the three section kinds EOF v1 knows.
// Exactly one of the fields is meaningful, selected by Kind.
type Section struct {
	Kind  byte
	Types []TypeEntry // valid when Kind == kindType
	Code  []byte      // valid when Kind == kindCode
	Data  []byte      // valid when Kind == kindData
}

// NewTypeSection builds a Type section from its entries.
func NewTypeSection(entries []TypeEntry) Section {
	return Section{Kind: kindType, Types: entries}
}

// NewCodeSection builds a Code section from its opcode bytes.
func NewCodeSection(code []byte) Section {
	return Section{Kind: kindCode, Code: code}
}

// NewDataSection builds a Data section from opaque bytes.
func NewDataSection(data []byte) Section {
	return Section{Kind: kindData, Data: data}
}

// Priority returns the section's position in the canonical Type < Code <
// Data ordering.
func (s Section) Priority() int {
	switch s.Kind {
	case kindType:
		return priorityType
	case kindCode:
		return priorityCode
	case kindData:
		return priorityData
	default:
		return 0
	}
}

// Equal reports whether s and other describe the same section.
func (s Section) Equal(other Section) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case kindType:
		if len(s.Types) != len(other.Types) {
			return false
		}
		for i := range s.Types {
			if s.Types[i] != other.Types[i] {
				return false
			}
		}
		return true
	case kindCode:
		return bytesEqual(s.Code, other.Code)
	case kindData:
		return bytesEqual(s.Data, other.Data)
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Container is the in-memory representation of a decoded or
// hand-constructed EOF v1 contract container: a version byte plus an
// ordered list of sections. Containers are values; once built they are
// never mutated in place by Decode, Validate, or Encode.
type Container struct {
	Version  uint8
	Sections []Section
}

// Equal reports whether c and other represent the same container, modulo
// nothing - section order is significant, matching the wire format.
func (c *Container) Equal(other *Container) bool {
	if c.Version != other.Version {
		return false
	}
	if len(c.Sections) != len(other.Sections) {
		return false
	}
	for i := range c.Sections {
		if !c.Sections[i].Equal(other.Sections[i]) {
			return false
		}
	}
	return true
}

// typeSection returns the single Type section and its index, or (nil, -1,
// false) if none is present. Callers that need to detect duplicates should
// scan Sections directly instead.
func (c *Container) typeSection() ([]TypeEntry, int, bool) {
	for i, s := range c.Sections {
		if s.Kind == kindType {
			return s.Types, i, true
		}
	}
	return nil, -1, false
}

// codeSections returns the Code sections in encounter order.
func (c *Container) codeSections() []Section {
	var out []Section
	for _, s := range c.Sections {
		if s.Kind == kindCode {
			out = append(out, s)
		}
	}
	return out
}
