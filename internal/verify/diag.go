package verify

import (
	"fmt"
	"strings"
)

const (
	warnPrefix = "*** Warning: "
	errPrefix  = "*** Error:   "
	hintMargin = 13
	maxMargin  = 70
)

// dispatch delivers one diagnostic to the installed sink, enriching it
// with hints when enabled. The hint context is cleared afterwards so that
// the next emission starts blank.
func (s *State) dispatch(sev Severity, code Code, text string) {
	d := Diagnostic{
		Severity: sev,
		Code:     code,
		HDU:      s.curHDU,
		Text:     text,
	}
	if (s.opt.fixHints || s.opt.explain) && code != CodeOK && sev != SevInfo {
		fix, explain := s.generateHint(code)
		if s.opt.fixHints {
			d.FixHint = fix
		}
		if s.opt.explain {
			d.Explain = explain
		}
	}
	if s.cb != nil {
		s.cb(d)
	} else if s.out != nil {
		s.printWrapped(text, hintMargin)
		if d.FixHint != "" {
			s.printWrapped("    Fix: "+d.FixHint, 9)
		}
		if d.Explain != "" {
			s.printWrapped("    Explanation: "+d.Explain, 9)
		}
	}
	s.hint.clear()
}

// info emits surface chatter. Info diagnostics are never counted and never
// carry hints.
func (s *State) info(text string) {
	if s.cb != nil {
		s.cb(Diagnostic{Severity: SevInfo, Code: CodeOK, HDU: s.curHDU, Text: text})
		return
	}
	if s.out != nil {
		s.printWrapped(text, hintMargin)
	}
}

func (s *State) infof(format string, args ...any) {
	s.info(fmt.Sprintf(format, args...))
}

// warnf records one warning. HEASARC-tagged warnings are suppressed when
// convention checking is off; every warning is suppressed in errors-only
// and severe-only reporting modes.
func (s *State) warnf(code Code, heasarc bool, format string, args ...any) int {
	if s.aborted {
		s.hint.clear()
		return 0
	}
	if s.opt.errReport >= 1 {
		s.hint.clear()
		return 0
	}
	if heasarc && !s.opt.heasarc {
		s.hint.clear()
		return 0
	}
	s.nwrns++
	text := warnPrefix + fmt.Sprintf(format, args...)
	if heasarc {
		text += " (HEASARC Convention)"
	}
	s.dispatch(SevWarning, code, text)
	return s.nwrns
}

// errf records one error at the given severity rank (1 = error,
// 2 = severe). Emissions below the ErrReport floor are suppressed and not
// counted. Exceeding the error cap emits a single terminal diagnostic and
// arms the abort flag; subsequent calls become no-ops.
func (s *State) errf(code Code, severity int, format string, args ...any) int {
	if s.aborted {
		s.hint.clear()
		s.readerClear()
		return s.nerrs
	}
	if severity < s.opt.errReport {
		s.hint.clear()
		s.readerClear()
		return 0
	}
	s.nerrs++
	sev := SevError
	if severity >= 2 {
		sev = SevSevere
	}
	s.dispatch(sev, code, errPrefix+fmt.Sprintf(format, args...))
	if errs, _ := s.fileTotals(); errs > maxErrors {
		s.dispatch(SevSevere, TooManyErrors, "??? Too many Errors! I give up...")
		s.aborted = true
	}
	s.readerClear()
	return s.nerrs
}

// readerErrf records one error and appends the oldest pending reader
// message to the text, clearing the reader status afterwards.
func (s *State) readerErrf(code Code, severity int, format string, args ...any) int {
	text := fmt.Sprintf(format, args...)
	if s.rdr != nil {
		if msg := s.rdr.ErrStackMessage(); msg != "" {
			text += msg
		}
	}
	return s.errf(code, severity, "%s", text)
}

// readerErrStackf records one error and drains the whole reader error
// stack as follow-up info lines.
func (s *State) readerErrStackf(code Code, severity int, format string, args ...any) int {
	var stack []string
	if s.rdr != nil {
		for {
			msg := s.rdr.ErrStackMessage()
			if msg == "" {
				break
			}
			stack = append(stack, msg)
		}
	}
	text := fmt.Sprintf(format, args...) + "(from reader error stack:)"
	n := s.errf(code, severity, "%s", text)
	if s.aborted || severity < s.opt.errReport {
		return n
	}
	for _, msg := range stack {
		s.info("             " + msg)
	}
	return n
}

func (s *State) readerClear() {
	if s.rdr != nil {
		s.rdr.ClearErrStack()
	}
}

// printWrapped writes text wrapped to 80 columns, indenting continuation
// lines by margin spaces. The first line is never clipped below its
// prefix.
func (s *State) printWrapped(text string, margin int) {
	for _, line := range wrapText(text, margin) {
		fmt.Fprintln(s.out, line)
	}
}

// wrapText splits text into lines of at most 80 columns. Continuation
// lines carry a left margin of at most 70 columns and break at spaces
// where possible.
func wrapText(text string, margin int) []string {
	if margin > maxMargin {
		margin = maxMargin
	}
	if margin < 0 {
		margin = 0
	}
	if len(text) <= 80 {
		return []string{text}
	}
	var lines []string
	width := 80
	rest := text
	first := true
	for len(rest) > 0 {
		if !first {
			width = 80 - margin
		}
		if len(rest) <= width {
			lines = append(lines, pad(margin, first)+rest)
			break
		}
		cut := width
		// break at a space, but never so early that the message prefix
		// would be clipped
		if i := strings.LastIndexByte(rest[:width+1], ' '); i >= width/2 {
			cut = i
		}
		lines = append(lines, pad(margin, first)+rest[:cut])
		rest = strings.TrimLeft(rest[cut:], " ")
		first = false
	}
	return lines
}

func pad(margin int, first bool) string {
	if first {
		return ""
	}
	return strings.Repeat(" ", margin)
}

// separator renders a centred title in a line of fill characters, as used
// by the report furniture.
func separator(fill byte, title string, nchar int) string {
	if len(title) > nchar {
		nchar = len(title)
	}
	if nchar <= 0 {
		return ""
	}
	left := (nchar - len(title)) / 2
	var b strings.Builder
	for i := 0; i < left; i++ {
		b.WriteByte(fill)
	}
	b.WriteString(title)
	for b.Len() < nchar {
		b.WriteByte(fill)
	}
	return b.String()
}
