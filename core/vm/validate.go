package vm

// Validate runs the full two-layer validation pipeline (§4.5) against a
// decoded or hand-built Container and reports the first predicate that
// fails. Check ordering is part of the contract: DuplicateTypeSection and
// the empty-Code-body check take priority over the other container-level
// checks, and MissingTypeHeader is reported before MissingCodeHeader
// before MissingDataHeader. InvalidSectionOrder is recorded during the
// scan but only reported once the presence checks have passed.
func Validate(c *Container) error {
	if c.Version != eofVersion {
		return ErrUnsupportedVersion
	}
	if len(c.Sections) == 0 {
		return ErrNoSections
	}

	var (
		orderErr     error
		lastPriority = 0
		codeCount    = 0
		dataFound    = false
		typeIdx      = -1
	)
	for i, s := range c.Sections {
		priority := s.Priority()
		if priority < lastPriority && orderErr == nil {
			orderErr = ErrInvalidSectionOrder
		}
		lastPriority = priority

		switch s.Kind {
		case kindType:
			if typeIdx != -1 {
				return ErrDuplicateTypeSection
			}
			typeIdx = i
		case kindCode:
			if len(s.Code) == 0 {
				return ErrInvalidCodeSize
			}
			codeCount++
		case kindData:
			dataFound = true
		}
	}

	if typeIdx == -1 {
		return ErrMissingTypeHeader
	}
	if codeCount == 0 {
		return ErrMissingCodeHeader
	}
	if !dataFound {
		return ErrMissingDataHeader
	}
	if orderErr != nil {
		return orderErr
	}

	types := c.Sections[typeIdx].Types
	if len(types) != codeCount {
		return ErrInvalidCodeHeader
	}

	for i, t := range types {
		if t.Inputs > 127 {
			return ErrTooManyInputs
		}
		if t.Outputs > 127 {
			return ErrTooManyOutputs
		}
		if t.MaxStackHeight > 1024 {
			return ErrTooLargeMaxStackHeight
		}
		if i == 0 && (t.Inputs != 0 || t.Outputs != 0) {
			return ErrInvalidSection0Type
		}
	}

	section := 0
	for _, s := range c.Sections {
		if s.Kind != kindCode {
			continue
		}
		if err := validateCode(s.Code, section, types); err != nil {
			return err
		}
		section++
	}
	return nil
}
