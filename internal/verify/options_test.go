package verify

import "testing"

func TestOptionDefaults(t *testing.T) {
	s := NewState()
	on := []Option{OptPrintSummary, OptTestData, OptTestChecksum, OptTestFill, OptHEASARC}
	off := []Option{OptPrintHeader, OptTestHierarch, OptFixHints, OptExplain}
	for _, opt := range on {
		if s.Option(opt) != 1 {
			t.Errorf("option %d default = %d, want 1", opt, s.Option(opt))
		}
	}
	for _, opt := range off {
		if s.Option(opt) != 0 {
			t.Errorf("option %d default = %d, want 0", opt, s.Option(opt))
		}
	}
	if s.Option(OptErrReport) != 0 {
		t.Errorf("err report default = %d", s.Option(OptErrReport))
	}
}

func TestOptionRoundTrip(t *testing.T) {
	s := NewState()
	bools := []Option{
		OptPrintHeader, OptPrintSummary, OptTestData, OptTestChecksum,
		OptTestFill, OptHEASARC, OptTestHierarch, OptFixHints, OptExplain,
	}
	for _, opt := range bools {
		for _, v := range []int{0, 1} {
			if err := s.SetOption(opt, v); err != nil {
				t.Fatalf("SetOption(%d, %d): %v", opt, v, err)
			}
			if got := s.Option(opt); got != v {
				t.Fatalf("Option(%d) = %d after SetOption %d", opt, got, v)
			}
		}
	}
	for _, v := range []int{0, 1, 2} {
		if err := s.SetOption(OptErrReport, v); err != nil {
			t.Fatalf("SetOption(err report, %d): %v", v, err)
		}
		if got := s.Option(OptErrReport); got != v {
			t.Fatalf("err report = %d, want %d", got, v)
		}
	}
	if err := s.SetOption(OptErrReport, 3); err == nil {
		t.Fatal("err report 3 accepted")
	}
	if err := s.SetOption(Option(99), 1); err == nil {
		t.Fatal("unknown option accepted")
	}
	if got := s.Option(Option(99)); got != -1 {
		t.Fatalf("unknown option = %d, want -1", got)
	}
}
