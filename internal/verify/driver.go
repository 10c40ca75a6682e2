package verify

import (
	"errors"
	"fmt"
	"io"

	"example.com/fitsgate/internal/fits"
)

// Version is the engine version reported in banners and reports.
const Version = "1.0.0"

// ErrOpenFailed is returned when the reader could not open the input at
// all. It is the only condition under which VerifyFile / VerifyMemory
// return a non-nil error; files full of standards violations still return
// nil with the findings in the Result.
var ErrOpenFailed = errors.New("could not open input for verification")

func (s *State) resetFile(out io.Writer) {
	s.out = out
	s.fileErr = 0
	s.fileWarn = 0
	s.nerrs = 0
	s.nwrns = 0
	s.curHDU = 0
	s.totalHDU = 0
	s.aborted = false
	s.hint.clear()
}

// VerifyFile verifies one FITS file on disk. Diagnostics go to the
// callback installed with SetOutput, or are written to out (out may be
// nil for quiet operation).
func (s *State) VerifyFile(path string, out io.Writer) (Result, error) {
	s.resetFile(out)
	s.info(" ")
	s.infof("File: %s", path)
	f, err := fits.Open(path)
	if err != nil {
		s.errf(ReaderError, 2, "Unable to open the FITS file: %v", err)
		return Result{NumErrors: 1, Aborted: true}, fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}
	defer f.Close()
	return s.run(f), nil
}

// VerifyMemory verifies a FITS stream held in memory. The buffer is
// borrowed for the duration of the call.
func (s *State) VerifyMemory(buf []byte, label string, out io.Writer) (Result, error) {
	s.resetFile(out)
	if label == "" {
		label = "<memory>"
	}
	s.info(" ")
	s.infof("File: %s", label)
	f, err := fits.OpenMem(buf, label)
	if err != nil {
		s.errf(ReaderError, 2, "Unable to open the FITS stream: %v", err)
		return Result{NumErrors: 1, Aborted: true}, fmt.Errorf("%w: %s: %v", ErrOpenFailed, label, err)
	}
	defer f.Close()
	return s.run(f), nil
}

// run walks the HDUs of an opened reader and produces the per-file
// result. Every resource acquired on the way is released on the normal
// return path, including after an abort.
func (s *State) run(f *fits.File) Result {
	s.rdr = f
	defer func() { s.rdr = nil }()

	s.totalHDU = f.HDUCount()
	s.infof("%d Header-Data Units in this file.", s.totalHDU)
	s.info(" ")
	s.initHDUDirectory(s.totalHDU)

	for hdu := 1; hdu <= s.totalHDU; hdu++ {
		if s.aborted {
			break
		}
		if err := f.MoveTo(hdu); err != nil {
			s.curHDU = hdu
			s.readerErrf(ReaderError, 2, "Cannot move to HDU %d: ", hdu)
			s.snapshotHDUCounters(hdu)
			continue
		}
		s.curHDU = hdu
		s.curType = f.CurrentType()
		s.info(separator('=', fmt.Sprintf(" HDU %d: %s ", hdu, s.curType), 60))
		s.info(" ")

		v := s.verifyHeader(f)
		if !s.aborted {
			s.verifyData(f, v)
		}
		s.closeHDU(v)
		s.snapshotHDUCounters(hdu)
	}

	s.curHDU = 0
	if !s.aborted {
		s.testEnd(f)
		s.testDuplicateNames()
	}
	s.closeReport()

	return Result{
		NumErrors:   s.fileErr,
		NumWarnings: s.fileWarn,
		NumHDUs:     s.totalHDU,
		Aborted:     s.aborted,
	}
}
