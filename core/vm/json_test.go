package vm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainerJSONRoundTrip(t *testing.T) {
	c := &Container{
		Version: 1,
		Sections: []Section{
			NewTypeSection([]TypeEntry{
				{Inputs: 0, Outputs: 0, MaxStackHeight: 0},
				{Inputs: 1, Outputs: 1, MaxStackHeight: 1},
			}),
			NewCodeSection([]byte{0xfe}),
			NewCodeSection([]byte{0xfe}),
			NewDataSection([]byte{0, 1, 2, 3, 4}),
		},
	}

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Container
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.True(t, c.Equal(&decoded), "round-tripped container does not match original")
}

func TestContainerJSONSurfaceFormat(t *testing.T) {
	c := &Container{
		Version: 1,
		Sections: []Section{
			NewCodeSection([]byte{0xfe}),
			NewDataSection([]byte{0x00, 0x01, 0x02, 0x03, 0x04}),
		},
	}

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var probe map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &probe))
	require.JSONEq(t, `1`, string(probe["version"]))

	var sections []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(probe["sections"], &sections))
	require.Len(t, sections, 2)

	// Hex fields are plain lowercase hex, never "0x"-prefixed.
	require.JSONEq(t, `"fe"`, string(sections[0]["Code"]))
	require.JSONEq(t, `"0001020304"`, string(sections[1]["Data"]))
}

func TestContainerUnmarshalJSONRejectsUnknownSectionKind(t *testing.T) {
	var c Container
	err := json.Unmarshal([]byte(`{"version":1,"sections":[{"Bogus":"fe"}]}`), &c)
	require.ErrorIs(t, err, ErrUnsupportedSectionKind)
}
