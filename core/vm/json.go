package vm

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// jsonContainer mirrors the external JSON surface (§6): a version byte
// plus a list of sections, each serialised as a single-key object keyed
// by its kind name.
type jsonContainer struct {
	Version  uint8             `json:"version"`
	Sections []json.RawMessage `json:"sections"`
}

type jsonTypeEntry struct {
	Inputs         uint8  `json:"inputs"`
	Outputs        uint8  `json:"outputs"`
	MaxStackHeight uint16 `json:"max_stack_height"`
}

// MarshalJSON renders c in the plain-hex (no "0x" prefix) surface format
// documented in §6: {"version":u8,"sections":[{"Type":[...]}, {"Code":
// "hex"}, {"Data":"hex"}, ...]}.
func (c *Container) MarshalJSON() ([]byte, error) {
	out := jsonContainer{Version: c.Version}
	for _, s := range c.Sections {
		var raw json.RawMessage
		var err error
		switch s.Kind {
		case kindType:
			entries := make([]jsonTypeEntry, len(s.Types))
			for i, t := range s.Types {
				entries[i] = jsonTypeEntry{Inputs: t.Inputs, Outputs: t.Outputs, MaxStackHeight: t.MaxStackHeight}
			}
			raw, err = json.Marshal(struct {
				Type []jsonTypeEntry `json:"Type"`
			}{entries})
		case kindCode:
			raw, err = json.Marshal(struct {
				Code string `json:"Code"`
			}{hex.EncodeToString(s.Code)})
		case kindData:
			raw, err = json.Marshal(struct {
				Data string `json:"Data"`
			}{hex.EncodeToString(s.Data)})
		default:
			return nil, ErrUnsupportedSectionKind
		}
		if err != nil {
			return nil, err
		}
		out.Sections = append(out.Sections, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the surface format produced by MarshalJSON back
// into a Container.
func (c *Container) UnmarshalJSON(data []byte) error {
	var in jsonContainer
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Version = in.Version
	c.Sections = nil
	for _, raw := range in.Sections {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil {
			return err
		}
		switch {
		case probe["Type"] != nil:
			var entries []jsonTypeEntry
			if err := json.Unmarshal(probe["Type"], &entries); err != nil {
				return err
			}
			types := make([]TypeEntry, len(entries))
			for i, e := range entries {
				types[i] = TypeEntry{Inputs: e.Inputs, Outputs: e.Outputs, MaxStackHeight: e.MaxStackHeight}
			}
			c.Sections = append(c.Sections, NewTypeSection(types))
		case probe["Code"] != nil:
			var hexStr string
			if err := json.Unmarshal(probe["Code"], &hexStr); err != nil {
				return err
			}
			b, err := hex.DecodeString(hexStr)
			if err != nil {
				return fmt.Errorf("decoding Code section hex: %w", err)
			}
			c.Sections = append(c.Sections, NewCodeSection(b))
		case probe["Data"] != nil:
			var hexStr string
			if err := json.Unmarshal(probe["Data"], &hexStr); err != nil {
				return err
			}
			b, err := hex.DecodeString(hexStr)
			if err != nil {
				return fmt.Errorf("decoding Data section hex: %w", err)
			}
			c.Sections = append(c.Sections, NewDataSection(b))
		default:
			return fmt.Errorf("%w: unrecognised section object %s", ErrUnsupportedSectionKind, raw)
		}
	}
	return nil
}
