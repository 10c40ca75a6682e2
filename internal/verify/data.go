package verify

import (
	"fmt"
	"strings"

	"example.com/fitsgate/internal/fits"
)

// verifyData runs the data-region checks for the current HDU: checksums,
// fill bytes, and per-column value validation for tables.
func (s *State) verifyData(f *fits.File, v *hduView) {
	if s.opt.testCsum {
		s.testChecksum(f)
		if s.aborted {
			return
		}
	}
	if s.opt.testFill {
		s.testFill(f)
		if s.aborted {
			return
		}
		if s.curType == fits.AsciiTable {
			s.testAsciiGap(f, v)
			if s.aborted {
				return
			}
		}
	}
	if !s.opt.testData {
		return
	}
	if s.curType != fits.AsciiTable && s.curType != fits.BinaryTable {
		return
	}
	if v.tfields <= 0 {
		return
	}
	nrows, err := f.NumRows()
	if err != nil {
		s.readerErrf(ReaderError, 2, "Cannot read NAXIS2: ")
		return
	}
	if nrows > 2147483647 {
		s.info("Cannot test data in tables with more than 2**31 (2147483647) rows.")
		return
	}
	if s.curType == fits.AsciiTable {
		s.testAsciiColumns(f, v)
	} else {
		s.testBinaryColumns(f, v, nrows)
	}
}

// ---- checksums -----------------------------------------------------------

func (s *State) testChecksum(f *fits.File) {
	dataOK, hduOK, err := f.VerifyChecksum()
	if err != nil {
		s.readerErrf(ReaderError, 2, "verifying checksums: ")
		return
	}
	if dataOK == -1 {
		s.warnf(WarnBadChecksum, false, "Data checksum is not consistent with the DATASUM keyword")
	}
	if hduOK == -1 {
		if dataOK == 1 {
			s.warnf(WarnBadChecksum, false, "Invalid CHECKSUM means header has been modified. (DATASUM is OK)")
		} else {
			s.warnf(WarnBadChecksum, false, "HDU checksum is not in agreement with CHECKSUM.")
		}
	}
}

// ---- fill bytes ----------------------------------------------------------

func (s *State) testFill(f *fits.File) {
	hb, err := f.HeaderFillBytes()
	if err != nil {
		s.readerErrf(ReaderError, 1, "checking header fill: ")
	} else {
		for _, b := range hb {
			if b != ' ' {
				s.errf(HeaderFill, 1, "Header fill area of HDU %d contains non-blank byte(s).", s.curHDU)
				break
			}
		}
	}
	db, err := f.DataFillBytes()
	if err != nil {
		s.readerErrf(ReaderError, 1, "checking data fill: ")
		return
	}
	want := byte(0)
	desc := "zeros"
	if s.curType == fits.AsciiTable {
		want = ' '
		desc = "blanks"
	}
	for _, b := range db {
		if b != want {
			s.errf(DataFill, 1, "Data fill area of HDU %d is not all %s.", s.curHDU, desc)
			break
		}
	}
}

// ---- ASCII table gap and column bytes ------------------------------------

// testAsciiGap reads every row as raw bytes and checks character legality
// both inside the declared columns and in the gaps between them.
func (s *State) testAsciiGap(f *fits.File, v *hduView) {
	rowlen, err := f.RowLength()
	if err != nil || rowlen <= 0 {
		f.ClearErrStack()
		return
	}
	nrows, err := f.NumRows()
	if err != nil || nrows <= 0 {
		f.ClearErrStack()
		return
	}
	if nrows > 2147483647 {
		return
	}
	covered := make([]bool, rowlen)
	ncols, err := f.NumCols()
	if err != nil {
		s.readerErrf(ReaderError, 1, "reading table layout: ")
		return
	}
	for c := 1; c <= ncols; c++ {
		ci, err := f.Column(c)
		if err != nil {
			continue
		}
		for t := ci.ByteOff; t < ci.ByteOff+ci.Width && t < rowlen; t++ {
			covered[t] = true
		}
	}

	var nbad int64
	gapReported := false
	for row := int64(1); row <= nrows; row++ {
		if s.aborted {
			return
		}
		raw, err := f.ReadRowBytes(row)
		if err != nil {
			s.readerErrf(ReaderError, 1, "reading table row: ")
			return
		}
		for j, b := range raw {
			switch {
			case b > 127:
				if nbad == 0 {
					s.errf(NonASCIITable, 1, "row %d contains non-ASCII characters.", row)
				}
				nbad++
			case covered[j] && !isPrintable(b) && b != 0:
				if nbad == 0 {
					s.errf(NonASCIITable, 1, "row %d data contains non-ASCII-text characters.", row)
				}
				nbad++
			case !covered[j] && !isPrintable(b):
				if !gapReported {
					s.errf(ASCIIGap, 1,
						"row %d has non-printable byte(s) in the gap between table columns.", row)
					gapReported = true
				}
			}
		}
	}
	if nbad > 1 {
		s.errf(NonASCIITable, 1, "This ASCII table contains %d non-ASCII-text characters", nbad)
	}
}

// testAsciiColumns checks decimal-point and embedded-space rules in the
// floating-point columns of an ASCII table.
func (s *State) testAsciiColumns(f *fits.File, v *hduView) {
	var floatCols []int
	for n := 1; n <= v.tfields; n++ {
		ci, err := f.Column(n)
		if err != nil {
			s.readerErrf(ReaderError, 2, "Column #%d: ", n)
			return
		}
		if ci.IsFloat {
			floatCols = append(floatCols, n)
		}
	}
	if len(floatCols) == 0 {
		return
	}
	foundDot := make(map[int]bool)
	foundSpace := make(map[int]bool)
	err := f.IterateColumns(floatCols, func(row int64, cells [][]byte) error {
		if s.aborted {
			return errStopIteration
		}
		for i, cell := range cells {
			col := floatCols[i]
			s.hint.colnum = col
			val := strings.TrimSpace(string(cell))
			if val == "" {
				continue // blank field is a null
			}
			if !foundDot[col] && !strings.Contains(val, ".") {
				s.errf(NoDecimal, 1, "Number in row #%d, column #%d has no decimal point:", row, col)
				s.info(val + "  (Other rows may have similar errors).")
				foundDot[col] = true
			}
			if !foundSpace[col] && strings.Contains(val, " ") {
				s.errf(EmbeddedSpace, 1, "Number in row #%d, column #%d has embedded space:", row, col)
				s.info(val + "  (Other rows may have similar errors).")
				foundSpace[col] = true
			}
		}
		return nil
	})
	if err != nil && err != errStopIteration {
		s.readerErrf(ReaderError, 2, "When reading data, ")
	}
}

var errStopIteration = fmt.Errorf("iteration stopped")

// testBinaryColumns checks bit justification, logical bytes, string
// character legality and variable-length descriptors in a binary table.
func (s *State) testBinaryColumns(f *fits.File, v *hduView, nrows int64) {
	var fixed []int
	var masks = make(map[int]byte)
	var descs []descColumn
	infos := make(map[int]fits.ColumnInfo)

	for n := 1; n <= v.tfields; n++ {
		ci, err := f.Column(n)
		if err != nil {
			s.readerErrf(ReaderError, 2, "Column #%d: ", n)
			return
		}
		infos[n] = ci
		switch {
		case ci.IsVar:
			descs = append(descs, descColumn{num: n, info: ci})
		case ci.Type == 'X' && ci.Repeat%8 != 0:
			fixed = append(fixed, n)
			masks[n] = byte(0xFF) >> (ci.Repeat % 8)
		case ci.Type == 'L' || ci.Type == 'A':
			fixed = append(fixed, n)
		}
	}

	if len(fixed) > 0 {
		found := make(map[int]bool)
		err := f.IterateColumns(fixed, func(row int64, cells [][]byte) error {
			if s.aborted {
				return errStopIteration
			}
			for i, cell := range cells {
				col := fixed[i]
				if found[col] {
					continue
				}
				ci := infos[col]
				s.hint.colnum = col
				switch ci.Type {
				case 'X':
					last := cell[len(cell)-1]
					if last&masks[col] != 0 {
						var hexdump strings.Builder
						for _, b := range cell {
							fmt.Fprintf(&hexdump, "0x%02x ", b)
						}
						s.errf(BitNotJustified, 2,
							"Row #%d, and Column #%d: X vector %sis not left justified.", row, col, hexdump.String())
						s.info("             (Other rows may have errors).")
						found[col] = true
					}
				case 'L':
					for _, b := range cell {
						if b != 'T' && b != 'F' && b != 0 {
							s.errf(BadLogicalData, 1,
								"Logical value in row #%d, column #%d not equal to 'T', 'F', or 0", row, col)
							s.info("             (Other rows may have similar errors).")
							found[col] = true
							break
						}
					}
				case 'A':
					for _, b := range cell {
						if b != 0 && !isPrintable(b) {
							s.errf(NonASCIIData, 1,
								"String in row #%d, column #%d contains non-ASCII text.", row, col)
							s.info("             (Other rows may have errors).")
							found[col] = true
							break
						}
					}
				}
			}
			return nil
		})
		if err != nil && err != errStopIteration {
			s.readerErrf(ReaderStack, 2, "When Reading data, ")
		}
	}

	if len(descs) == 0 {
		return
	}
	s.testDescriptors(f, v, descs, nrows)
}

type descColumn struct {
	num  int
	info fits.ColumnInfo
}

func (s *State) testDescriptors(f *fits.File, v *hduView, descs []descColumn, nrows int64) {
	largeLenWarned := false
	largeOffWarned := false
	innerFound := make(map[int]bool)

	for row := int64(1); row <= nrows; row++ {
		if s.aborted {
			return
		}
		for _, dc := range descs {
			col := dc.num
			ci := dc.info
			s.hint.colnum = col
			length, offset, err := f.ReadDescriptor(col, row)
			if err != nil {
				s.readerErrf(ReaderError, 2, "Row #%d Col.#%d: ", row, col)
				continue
			}
			if !ci.IsQ {
				if !largeLenWarned && length > 2147483647 {
					s.warnf(WarnVarExceeds32bit, false,
						"Var row length exceeds maximum 32-bit signed int.  First detected for Row #%d Column #%d", row, col)
					largeLenWarned = true
				}
				if !largeOffWarned && offset > 2147483647 {
					s.warnf(WarnVarExceeds32bit, false,
						"Heap offset for var length row exceeds maximum 32-bit signed int.  First detected for Row #%d Column #%d", row, col)
					largeOffWarned = true
				}
			}
			if ci.MaxVarLen > -1 && length > ci.MaxVarLen {
				s.descriptorHint(v, col, ci, row, length)
				s.errf(VarExceedsMaxLen, 1,
					"Descriptor of Column #%d at Row %d: nelem(%d) > maxlen(%d) given by TFORM%d.",
					col, row, length, ci.MaxVarLen, col)
			}
			bytelen := length * int64(ci.ElemBytes)
			if ci.Type == 'X' {
				bytelen = (length + 7) / 8
			}
			if offset+bytelen > v.pcount {
				s.hint.colnum = col
				s.errf(VarExceedsHeap, 2,
					"Descriptor of Column #%d at Row %d:  offset of first element(%d) + nelem(%d)*%d >  total heap area  = %d.",
					col, row, offset, length, ci.ElemBytes, v.pcount)
				continue
			}
			if length == 0 || innerFound[col] {
				continue
			}
			switch ci.Type {
			case 'L', 'A':
				buf, err := f.ReadHeapBytes(offset, int(bytelen))
				if err != nil {
					s.readerErrf(ReaderError, 2, "Row #%d Col.#%d: ", row, col)
					continue
				}
				s.hint.colnum = col
				for _, b := range buf {
					if ci.Type == 'L' && b != 'T' && b != 'F' && b != 0 {
						s.errf(BadLogicalData, 1,
							"Logical value in row #%d, column #%d not equal to 'T', 'F', or 0", row, col)
						s.info("             (This error is reported only once; other rows may have errors).")
						innerFound[col] = true
						break
					}
					if ci.Type == 'A' && b != 0 && !isPrintable(b) {
						s.errf(NonASCIIData, 1,
							"String in row #%d, and column #%d contains non-ASCII text.", row, col)
						s.info("             (This error is reported only once; other rows may have errors).")
						innerFound[col] = true
						break
					}
				}
			}
		}
	}
}

// descriptorHint writes the call-site fix hint for an over-long
// variable-length array, proposing the exact replacement TFORM.
func (s *State) descriptorHint(v *hduView, col int, ci fits.ColumnInfo, row, length int64) {
	form := ""
	if col < len(v.tform) {
		form = v.tform[col]
	}
	pq := byte('P')
	if ci.IsQ {
		pq = 'Q'
	}
	repl := fmt.Sprintf("1%c%c(%d)", pq, ci.Type, length)
	colname := ""
	if col < len(v.ttype) {
		colname = v.ttype[col]
	}
	if colname != "" {
		s.setFixHint("Column '%s' (col %d) has TFORM%d = '%s' declaring max %d elements, but row %d contains %d. Change TFORM%d to '%s'.",
			colname, col, col, form, ci.MaxVarLen, row, length, col, repl)
	} else {
		s.setFixHint("Column %d has TFORM%d = '%s' declaring max %d elements, but row %d contains %d. Change TFORM%d to '%s'.",
			col, col, form, ci.MaxVarLen, row, length, col, repl)
	}
	s.setExplainHint("Variable-length array columns use TFORM = '1P<type>(<max>)' where <max> declares the maximum array size. The data in row %d has %d elements which exceeds the declared maximum of %d. Either increase <max> in TFORM%d or the data is corrupt. See FITS Standard Section 7.3.5.",
		row, length, ci.MaxVarLen, col)
}
