package verify

import (
	"bytes"
	"strings"
	"testing"
)

func TestSeverityFilter(t *testing.T) {
	// err_report = 0: everything delivered
	s, c := newTestState()
	s.warnf(WarnDeprecated, false, "w")
	s.errf(BadNumber, 1, "e")
	s.errf(ExtraBytes, 2, "s")
	if len(c.diags) != 3 {
		t.Fatalf("delivered %d diagnostics, want 3", len(c.diags))
	}

	// err_report = 1: warnings suppressed and not counted
	s1, c1 := newTestState()
	s1.SetOption(OptErrReport, 1)
	s1.warnf(WarnDeprecated, false, "w")
	s1.errf(BadNumber, 1, "e")
	s1.errf(ExtraBytes, 2, "s")
	if len(c1.diags) != 2 {
		t.Fatalf("delivered %d diagnostics, want 2", len(c1.diags))
	}
	if s1.nwrns != 0 {
		t.Fatalf("suppressed warning was counted: %d", s1.nwrns)
	}

	// err_report = 2: only severe
	s2, c2 := newTestState()
	s2.SetOption(OptErrReport, 2)
	s2.warnf(WarnDeprecated, false, "w")
	s2.errf(BadNumber, 1, "e")
	s2.errf(ExtraBytes, 2, "s")
	if len(c2.diags) != 1 || c2.diags[0].Severity != SevSevere {
		t.Fatalf("diags = %+v", c2.diags)
	}
	if s2.nerrs != 1 {
		t.Fatalf("nerrs = %d, want 1", s2.nerrs)
	}
}

func TestHEASARCGating(t *testing.T) {
	s, c := newTestState()
	s.SetOption(OptHEASARC, 0)
	s.warnf(WarnNoColumnName, true, "tagged")
	if len(c.diags) != 0 {
		t.Fatalf("HEASARC warning delivered while disabled: %+v", c.diags)
	}
	s.warnf(WarnDeprecated, false, "untagged")
	if len(c.diags) != 1 {
		t.Fatal("untagged warning should still be delivered")
	}

	s2, c2 := newTestState()
	s2.warnf(WarnNoColumnName, true, "tagged")
	if len(c2.diags) != 1 {
		t.Fatal("HEASARC warning suppressed while enabled")
	}
	if !strings.Contains(c2.diags[0].Text, "(HEASARC Convention)") {
		t.Fatalf("text = %q", c2.diags[0].Text)
	}
}

func TestWarningPrefix(t *testing.T) {
	s, c := newTestState()
	s.warnf(WarnDeprecated, false, "something old")
	s.errf(BadNumber, 1, "something wrong")
	if !strings.HasPrefix(c.diags[0].Text, "*** Warning: ") {
		t.Fatalf("warning text = %q", c.diags[0].Text)
	}
	if !strings.HasPrefix(c.diags[1].Text, "*** Error:   ") {
		t.Fatalf("error text = %q", c.diags[1].Text)
	}
}

func TestErrorCap(t *testing.T) {
	s, c := newTestState()
	for i := 0; i < maxErrors+50; i++ {
		s.errf(BadNumber, 1, "error %d", i)
	}
	if !s.aborted {
		t.Fatal("abort flag not set")
	}
	if s.nerrs != maxErrors+1 {
		t.Fatalf("nerrs = %d, want %d", s.nerrs, maxErrors+1)
	}
	terminal := c.withCode(TooManyErrors)
	if len(terminal) != 1 {
		t.Fatalf("terminal diagnostics = %d, want 1", len(terminal))
	}
	if terminal[0].Severity != SevSevere {
		t.Fatalf("terminal severity = %v", terminal[0].Severity)
	}
	// counters frozen after abort
	s.warnf(WarnDeprecated, false, "late")
	s.errf(BadNumber, 1, "late")
	if s.nerrs != maxErrors+1 || s.nwrns != 0 {
		t.Fatalf("counters moved after abort: %d errs, %d warns", s.nerrs, s.nwrns)
	}
}

func TestHintOptionsGateDelivery(t *testing.T) {
	s, c := newTestState()
	s.hint.keyword = "BITPIX"
	s.errf(KeywordValue, 1, "bad value")
	if c.diags[0].FixHint != "" || c.diags[0].Explain != "" {
		t.Fatalf("hints delivered with options off: %+v", c.diags[0])
	}

	s2, c2 := newTestState()
	s2.SetOption(OptFixHints, 1)
	s2.hint.keyword = "BITPIX"
	s2.errf(KeywordValue, 1, "bad value")
	d := c2.diags[0]
	if d.FixHint == "" {
		t.Fatal("fix hint missing with option on")
	}
	if d.Explain != "" {
		t.Fatal("explain delivered without its option")
	}

	// hint context cleared after dispatch
	s2.errf(ExtraBytes, 2, "unrelated")
	d2 := c2.diags[1]
	if strings.Contains(d2.FixHint, "BITPIX") {
		t.Fatalf("stale hint context leaked: %q", d2.FixHint)
	}
}

func TestInfoNeverCarriesHints(t *testing.T) {
	s, c := newTestState()
	s.SetOption(OptFixHints, 1)
	s.SetOption(OptExplain, 1)
	s.hint.keyword = "BITPIX"
	s.info("just a note")
	if c.diags[0].FixHint != "" || c.diags[0].Explain != "" {
		t.Fatalf("info diagnostic carries hints: %+v", c.diags[0])
	}
	if c.diags[0].Severity != SevInfo || c.diags[0].Code != CodeOK {
		t.Fatalf("info diagnostic = %+v", c.diags[0])
	}
}

func TestWrapText(t *testing.T) {
	long := strings.Repeat("word ", 40) // 200 chars
	lines := wrapText(strings.TrimSpace(long), 13)
	if len(lines) < 2 {
		t.Fatal("long text not wrapped")
	}
	for i, line := range lines {
		if len(line) > 80 {
			t.Fatalf("line %d is %d columns", i, len(line))
		}
		if i > 0 && !strings.HasPrefix(line, strings.Repeat(" ", 13)) {
			t.Fatalf("continuation line %d missing margin: %q", i, line)
		}
	}

	// margin is capped at 70 columns
	lines = wrapText(strings.TrimSpace(long), 200)
	for i, line := range lines {
		if len(line) > 80 {
			t.Fatalf("line %d is %d columns", i, len(line))
		}
		if i > 0 && strings.HasPrefix(line, strings.Repeat(" ", 71)) {
			t.Fatalf("margin exceeds 70 columns: %q", line)
		}
	}

	short := "short"
	if got := wrapText(short, 13); len(got) != 1 || got[0] != short {
		t.Fatalf("short text mangled: %v", got)
	}
}

func TestFileOutputPrefixNotClipped(t *testing.T) {
	s := NewState()
	var out bytes.Buffer
	s.out = &out
	s.curHDU = 1
	s.errf(BadNumber, 1, "%s", strings.Repeat("x", 120))
	first := strings.SplitN(out.String(), "\n", 2)[0]
	if !strings.HasPrefix(first, "*** Error:   ") {
		t.Fatalf("prefix clipped: %q", first)
	}
	if len(first) > 80 {
		t.Fatalf("first line is %d columns", len(first))
	}
}
