package verify

import (
	"io"

	"example.com/fitsgate/internal/fits"
)

// maxErrors caps the per-file error count. One terminal diagnostic is
// emitted when the cap is exceeded and the abort flag is set; further
// emissions become no-ops and the HDU loop stops at its next boundary.
const maxErrors = 200

// HduRecord tracks one HDU of the file being verified.
type HduRecord struct {
	Type      fits.HDUType
	Index     int // 1-based
	ExtName   string
	ExtVer    int
	ErrCount  int
	WarnCount int
}

// hintContext carries the call-site annotations consumed by the hint
// generator. It is cleared after every dispatch.
type hintContext struct {
	keyword    string
	colnum     int
	overrideFx bool // call site pre-filled fix
	overrideEx bool // call site pre-filled explain
	fix        string
	explain    string
}

func (h *hintContext) clear() {
	*h = hintContext{}
}

// State is one reentrant verification session. A State carries no shared
// mutable data: distinct States may run on distinct goroutines as long as
// each owns its reader.
type State struct {
	opt options

	// session accumulators, across files
	totalErr  int64
	totalWarn int64

	// per-HDU counters, snapshotted into hduRecs at each HDU boundary
	nerrs int
	nwrns int

	// per-file totals
	fileErr  int
	fileWarn int

	totalHDU int
	hduRecs  []HduRecord
	curHDU   int // 1-based; 0 = file-level
	curType  fits.HDUType

	hint hintContext

	out     io.Writer
	cb      OutputFunc
	rdr     *fits.File
	aborted bool
}

// NewState returns a verification state with default options: summary,
// data, checksum, fill and HEASARC checks on; everything else off.
func NewState() *State {
	return &State{opt: defaultOptions()}
}

// SetOutput installs a callback sink. Passing nil restores the default
// FILE-writer behaviour.
func (s *State) SetOutput(fn OutputFunc) {
	if s == nil {
		return
	}
	s.cb = fn
}

// Totals reports the errors and warnings accumulated across every
// verification run on this state.
func (s *State) Totals() (errs, warns int64) {
	if s == nil {
		return 0, 0
	}
	return s.totalErr, s.totalWarn
}

// Result summarizes one verification.
type Result struct {
	NumErrors   int
	NumWarnings int
	NumHDUs     int
	Aborted     bool
}

// ---- HDU directory ------------------------------------------------------

func (s *State) initHDUDirectory(n int) {
	s.totalHDU = n
	s.hduRecs = make([]HduRecord, n)
	for i := range s.hduRecs {
		s.hduRecs[i] = HduRecord{Index: i + 1, Type: fits.UnknownHDU}
	}
	s.nerrs = 0
	s.nwrns = 0
}

func (s *State) setHDUName(hdu int, typ fits.HDUType, extname string, extver int) {
	if hdu < 1 || hdu > len(s.hduRecs) {
		return
	}
	rec := &s.hduRecs[hdu-1]
	rec.Type = typ
	rec.ExtName = extname
	rec.ExtVer = extver
}

// snapshotHDUCounters moves the per-HDU counters into the directory entry
// and resets them for the next HDU.
func (s *State) snapshotHDUCounters(hdu int) {
	if hdu >= 1 && hdu <= len(s.hduRecs) {
		s.hduRecs[hdu-1].ErrCount = s.nerrs
		s.hduRecs[hdu-1].WarnCount = s.nwrns
	}
	s.nerrs = 0
	s.nwrns = 0
}

// sameExtension reports whether two directory entries collide on
// (EXTNAME, type, EXTVER).
func sameExtension(a, b *HduRecord) bool {
	if a.ExtName == "" || b.ExtName == "" {
		return false
	}
	return a.ExtName == b.ExtName && a.Type == b.Type && a.ExtVer == b.ExtVer
}

// fileTotals sums the directory counters plus the trailing file-level
// counters.
func (s *State) fileTotals() (errs, warns int) {
	for i := range s.hduRecs {
		errs += s.hduRecs[i].ErrCount
		warns += s.hduRecs[i].WarnCount
	}
	errs += s.nerrs
	warns += s.nwrns
	return errs, warns
}

// closeDirectory releases the HDU directory. Runs on every return path,
// including abort.
func (s *State) closeDirectory() {
	s.hduRecs = nil
}
