package vm

import (
	"errors"
	"testing"
)

func validContainer() *Container {
	return &Container{
		Version: 1,
		Sections: []Section{
			NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 1}}),
			NewCodeSection([]byte{byte(CALLER), byte(POP), byte(STOP)}),
			NewDataSection(nil),
		},
	}
}

func TestValidate(t *testing.T) {
	for i, test := range []struct {
		name string
		c    *Container
		err  error
	}{
		{
			name: "valid minimal container",
			c:    validContainer(),
			err:  nil,
		},
		{
			name: "unsupported version",
			c:    &Container{Version: 2, Sections: validContainer().Sections},
			err:  ErrUnsupportedVersion,
		},
		{
			name: "no sections",
			c:    &Container{Version: 1},
			err:  ErrNoSections,
		},
		{
			name: "duplicate Type section",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewCodeSection([]byte{byte(STOP)}),
					NewDataSection(nil),
				},
			},
			err: ErrDuplicateTypeSection,
		},
		{
			name: "empty Code body",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewCodeSection(nil),
					NewDataSection(nil),
				},
			},
			err: ErrInvalidCodeSize,
		},
		{
			name: "missing Type header",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewCodeSection([]byte{byte(STOP)}),
					NewDataSection(nil),
				},
			},
			err: ErrMissingTypeHeader,
		},
		{
			name: "missing Code header",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewDataSection(nil),
				},
			},
			err: ErrMissingCodeHeader,
		},
		{
			name: "missing Data header",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewCodeSection([]byte{byte(STOP)}),
				},
			},
			err: ErrMissingDataHeader,
		},
		{
			name: "section order: Data before Code",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewDataSection(nil),
					NewCodeSection([]byte{byte(STOP)}),
				},
			},
			err: ErrInvalidSectionOrder,
		},
		{
			name: "too many Code sections for Type entries",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewCodeSection([]byte{byte(STOP)}),
					NewCodeSection([]byte{byte(STOP)}),
					NewDataSection(nil),
				},
			},
			err: ErrInvalidCodeHeader,
		},
		{
			name: "section 0 must have zero inputs and outputs",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 1, Outputs: 0, MaxStackHeight: 0}}),
					NewCodeSection([]byte{byte(POP), byte(STOP)}),
					NewDataSection(nil),
				},
			},
			err: ErrInvalidSection0Type,
		},
		{
			name: "undefined instruction surfaces from the code-section pass",
			c: &Container{
				Version: 1,
				Sections: []Section{
					NewTypeSection([]TypeEntry{{Inputs: 0, Outputs: 0, MaxStackHeight: 0}}),
					NewCodeSection([]byte{0x56}), // JUMP, deprecated by EOF
					NewDataSection(nil),
				},
			},
			err: ErrUndefinedInstruction{},
		},
	} {
		err := Validate(test.c)
		if test.err == nil {
			if err != nil {
				t.Errorf("test %d (%s): Validate() unexpected error: %v", i, test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.err) {
			t.Errorf("test %d (%s): Validate() error = %v, want %v", i, test.name, err, test.err)
		}
	}
}
