package verify

import (
	"fmt"

	"example.com/fitsgate/internal/fits"
)

// testEnd checks for extraneous content past the last HDU.
func (s *State) testEnd(f *fits.File) {
	err := f.MoveRelative(1)
	if err == nil {
		s.info("< End-of-File >")
		s.errf(ExtraHDUs, 2, "There are extraneous HDU(s) beyond the end of last HDU.")
		s.info(" ")
		return
	}
	if err != fits.ErrEndOfFile {
		s.readerErrStackf(ReaderStack, 2, "Bad HDU? ")
		return
	}
	f.ClearErrStack()

	_, _, dataEnd := f.HDUByteRange()
	if dataEnd > 0 {
		if err := f.PositionAt(dataEnd - 1); err != nil {
			s.errf(BadHDU, 2, "Error trying to read last byte of the file at byte %d.", dataEnd)
			s.info("< End-of-File >")
			s.info(" ")
			return
		}
	}
	if err := f.PositionAt(dataEnd); err == nil {
		s.info("< End-of-File >")
		s.errf(ExtraBytes, 2, "File has extra byte(s) after last HDU at byte %d.", dataEnd)
		s.info(" ")
	}
}

// testDuplicateNames warns about HDUs that collide on
// (EXTNAME, type, EXTVER). The HDU count is small, so the pairwise scan
// is fine.
func (s *State) testDuplicateNames() {
	for i := 0; i < len(s.hduRecs); i++ {
		for j := i + 1; j < len(s.hduRecs); j++ {
			if sameExtension(&s.hduRecs[i], &s.hduRecs[j]) {
				// tag the diagnostic with the later colliding HDU
				s.curHDU = s.hduRecs[j].Index
				s.hint.keyword = "EXTNAME"
				s.warnf(WarnDuplicateExtname, false,
					"HDU #%d and #%d have identical EXTNAME = '%s', EXTVER = %d, and type.",
					s.hduRecs[i].Index, s.hduRecs[j].Index,
					s.hduRecs[i].ExtName, s.hduRecs[i].ExtVer)
			}
		}
	}
	s.curHDU = 0
}

// printSummary renders the per-HDU error summary table.
func (s *State) printSummary() {
	s.info(separator('+', " Error Summary  ", 60))
	s.info(" ")
	s.info(" HDU#  Name (version)       Type             Warnings  Errors")

	for i := range s.hduRecs {
		rec := &s.hduRecs[i]
		name := rec.ExtName
		if rec.ExtVer != 0 {
			name = fmt.Sprintf("%s (%d)", name, rec.ExtVer)
		}
		s.infof(" %-5d %-20s %-16s %-4d      %-4d", rec.Index, name, rec.Type, rec.WarnCount, rec.ErrCount)
	}
	if s.nerrs > 0 || s.nwrns > 0 {
		s.infof(" End-of-file %-30s  %-4d      %-4d", "", s.nwrns, s.nerrs)
	}
	s.info(" ")
}

// closeReport finalizes one verification: summary, per-file totals, and
// the session accumulators. The HDU directory is torn down here on every
// path.
func (s *State) closeReport() {
	if s.opt.printSummary {
		s.printSummary()
	}
	errs, warns := s.fileTotals()
	s.fileErr = errs
	s.fileWarn = warns
	s.infof("**** Verification found %d warning(s) and %d error(s). ****", warns, errs)
	s.totalErr += int64(errs)
	s.totalWarn += int64(warns)
	s.closeDirectory()
}
