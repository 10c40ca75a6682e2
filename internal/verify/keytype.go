package verify

import "fmt"

// setFixHint pre-fills the fix-hint buffer from a call site; the hint
// generator keeps it instead of generating its own.
func (s *State) setFixHint(format string, args ...any) {
	s.hint.fix = fmt.Sprintf(format, args...)
	s.hint.overrideFx = true
}

func (s *State) setExplainHint(format string, args ...any) {
	s.hint.explain = fmt.Sprintf(format, args...)
	s.hint.overrideEx = true
}

// requireStr asserts a string-valued card.
func (s *State) requireStr(pc *ParsedCard) bool {
	s.hint.keyword = pc.Name
	if pc.Kind == UnknownKey && pc.Value == "" {
		s.errf(NullValue, 1, "Keyword #%d, %s has a null value; expected a string.", pc.Index, pc.Name)
		return false
	}
	if pc.Kind != StrKey {
		mes := fmt.Sprintf("Keyword #%d, %s: \"%s\" is not a string.", pc.Index, pc.Name, pc.Value)
		switch {
		case pc.Kind == IntKey || pc.Kind == FltKey:
			s.setFixHint("Add quotes around the value of '%s' in HDU %d. The current value %s should be a quoted string.",
				pc.Name, s.curHDU, pc.Value)
		case pc.Value == "":
			s.setFixHint("'%s' in HDU %d has no value. Set it to a quoted string (e.g., %s = 'value').",
				pc.Name, s.curHDU, pc.Name)
		default:
			s.setFixHint("Set '%s' in HDU %d to a properly quoted string value. The current value '%s' is not recognized as a string.",
				pc.Name, s.curHDU, pc.Value)
		}
		s.setExplainHint("'%s' is expected to be a string keyword in the FITS Standard. String values must be enclosed in single quotes in columns 11-80 of the header card.",
			pc.Name)
		s.errf(WrongType, 1, "%s", mes)
		return false
	}
	return true
}

// requireInt asserts an integer-valued card.
func (s *State) requireInt(pc *ParsedCard) bool {
	s.hint.keyword = pc.Name
	if pc.Kind == UnknownKey && pc.Value == "" {
		s.errf(NullValue, 1, "Keyword #%d, %s has a null value; expected an integer.", pc.Index, pc.Name)
		return false
	}
	if pc.Kind != IntKey {
		mes := fmt.Sprintf("Keyword #%d, %s: value = %s is not an integer.", pc.Index, pc.Name, pc.Value)
		if pc.Kind == StrKey {
			mes += " The value is entered as a string."
			s.setFixHint("Remove the quotes from '%s' in HDU %d. The value must be an integer, not a string.",
				pc.Name, s.curHDU)
			s.setExplainHint("'%s' currently has the quoted string '%s'. Remove the quotes so it is parsed as an integer.",
				pc.Name, pc.Value)
		}
		s.errf(WrongType, 1, "%s", mes)
		return false
	}
	return true
}

// requireFlt asserts a floating-point card; integers are acceptable.
func (s *State) requireFlt(pc *ParsedCard) bool {
	s.hint.keyword = pc.Name
	if pc.Kind == UnknownKey && pc.Value == "" {
		s.errf(NullValue, 1, "Keyword #%d, %s has a null value; expected a float.", pc.Index, pc.Name)
		return false
	}
	if pc.Kind != IntKey && pc.Kind != FltKey {
		mes := fmt.Sprintf("Keyword #%d, %s: value = %s is not a floating point number.", pc.Index, pc.Name, pc.Value)
		if pc.Kind == StrKey {
			mes += " The value is entered as a string."
			s.setFixHint("Remove the quotes from '%s' in HDU %d. The value must be a number, not a string.",
				pc.Name, s.curHDU)
			s.setExplainHint("'%s' currently has the quoted string '%s'. This keyword requires a numeric value. Remove the quotes and provide the actual number.",
				pc.Name, pc.Value)
		}
		s.errf(WrongType, 1, "%s", mes)
		return false
	}
	return true
}

// requireLog asserts a logical card.
func (s *State) requireLog(pc *ParsedCard) bool {
	s.hint.keyword = pc.Name
	if pc.Kind != LogKey {
		mes := fmt.Sprintf("Keyword #%d, %s: value = %s is not a logical constant.", pc.Index, pc.Name, pc.Value)
		if pc.Kind == StrKey {
			mes += " The value is entered as a string."
			s.setFixHint("Remove the quotes from '%s' in HDU %d. The value must be a logical (T or F), not a string.",
				pc.Name, s.curHDU)
			s.setExplainHint("'%s' currently has the quoted string '%s'. Logical keywords must have T or F (without quotes) in column 30 of the header card.",
				pc.Name, pc.Value)
		}
		s.errf(WrongType, 1, "%s", mes)
		return false
	}
	return true
}

// requireCmi asserts an integer complex card.
func (s *State) requireCmi(pc *ParsedCard) bool {
	s.hint.keyword = pc.Name
	if pc.Kind != CmiKey {
		mes := fmt.Sprintf("Keyword #%d, %s: value = %s is not a integer complex number.", pc.Index, pc.Name, pc.Value)
		if pc.Kind == StrKey {
			mes += " The value is entered as a string."
			s.setFixHint("Remove the quotes from '%s' in HDU %d. The value must be an integer complex number, not a string.",
				pc.Name, s.curHDU)
			s.setExplainHint("'%s' currently has the quoted string '%s'. Complex integer values are written as two integers in parentheses without quotes: (real, imag).",
				pc.Name, pc.Value)
		}
		s.errf(WrongType, 1, "%s", mes)
		return false
	}
	return true
}

// requireCmf asserts a floating-point complex card; integer complex is
// acceptable.
func (s *State) requireCmf(pc *ParsedCard) bool {
	s.hint.keyword = pc.Name
	if pc.Kind != CmiKey && pc.Kind != CmfKey {
		mes := fmt.Sprintf("Keyword #%d, %s: value = %s is not a floating point complex number.", pc.Index, pc.Name, pc.Value)
		if pc.Kind == StrKey {
			mes += " The value is entered as a string."
			s.setFixHint("Remove the quotes from '%s' in HDU %d. The value must be a complex number, not a string.",
				pc.Name, s.curHDU)
			s.setExplainHint("'%s' currently has the quoted string '%s'. Complex floating-point values are written as two numbers in parentheses without quotes: (real, imag).",
				pc.Name, pc.Value)
		}
		s.errf(WrongType, 1, "%s", mes)
		return false
	}
	return true
}
