package verify

import (
	"fmt"
	"strconv"
	"strings"

	"example.com/fitsgate/internal/fits"
)

// hduView is the per-HDU scratch assembled while validating one header.
// It is released by closeHDU on every path, including abort.
type hduView struct {
	cards  []ParsedCard
	byName map[string][]int // keyword -> indices into cards

	bitpix  int
	naxis   int
	naxes   []int64
	pcount  int64
	gcount  int64
	tfields int

	ttype []string // 1-based; index 0 unused
	tform []string
	tunit []string

	isGroups   bool
	useLongstr bool
	extname    string
	extver     int
}

func (v *hduView) lookup(name string) (*ParsedCard, bool) {
	idx, ok := v.byName[name]
	if !ok || len(idx) == 0 {
		return nil, false
	}
	return &v.cards[idx[0]], true
}

func (v *hduView) count(name string) int {
	return len(v.byName[name])
}

// closeHDU releases every per-HDU allocation. The teardown is
// unconditional: it must not depend on what the validation found.
func (s *State) closeHDU(v *hduView) {
	if v == nil {
		return
	}
	v.cards = nil
	v.byName = nil
	v.ttype = nil
	v.tform = nil
	v.tunit = nil
	v.naxes = nil
}

// commentaryName reports whether a keyword may legally repeat.
func commentaryName(name string) bool {
	switch name {
	case "COMMENT", "HISTORY", "CONTINUE", "HIERARCH", "":
		return true
	}
	return false
}

// verifyHeader ingests and validates the header of the current HDU,
// returning the populated view for the data validator.
func (s *State) verifyHeader(f *fits.File) *hduView {
	v := &hduView{byName: make(map[string][]int), gcount: 1}

	ncards := f.NumCards()
	for i := 1; i <= ncards+1; i++ {
		raw, err := f.ReadCard(i)
		if err != nil {
			s.readerErrf(ReaderError, 2, "Cannot read card #%d: ", i)
			break
		}
		if s.opt.printHeader && i <= ncards {
			s.info(strings.TrimRight(string(raw), " "))
		}
		pc, _ := s.parseCard(i, raw)
		if s.aborted {
			return v
		}
		if i <= ncards {
			v.cards = append(v.cards, pc)
			v.byName[pc.Name] = append(v.byName[pc.Name], len(v.cards)-1)
		}
	}

	s.checkMandatory(f, v)
	if s.aborted {
		return v
	}
	s.checkPlacement(v)
	if s.aborted {
		return v
	}
	if s.curType == fits.AsciiTable || s.curType == fits.BinaryTable {
		s.checkColumns(v)
		if s.aborted {
			return v
		}
	}
	s.checkWCS(v)
	if s.aborted {
		return v
	}
	s.checkConventions(v)

	if pc, ok := v.lookup("EXTNAME"); ok && pc.Kind == StrKey {
		v.extname = pc.Value
	}
	if pc, ok := v.lookup("EXTVER"); ok && pc.Kind == IntKey {
		if n, err := strconv.Atoi(pc.Value); err == nil {
			v.extver = n
		}
	}
	s.setHDUName(s.curHDU, s.curType, v.extname, v.extver)
	return v
}

// ---- mandatory keyword sequence -----------------------------------------

// mandCard resolves the mandatory keyword expected at 1-based position
// pos. A present-but-misplaced keyword is reported once and still
// returned so its value can be checked; a missing keyword is reported and
// nil returned.
func (s *State) mandCard(v *hduView, pos int, name string) *ParsedCard {
	if pos <= len(v.cards) && v.cards[pos-1].Name == name {
		return &v.cards[pos-1]
	}
	s.hint.keyword = name
	if pc, ok := v.lookup(name); ok {
		s.errf(KeywordOrder, 1, "Keyword #%d, %s is out of order; it should be keyword #%d.", pc.Index, name, pos)
		return pc
	}
	s.errf(MissingKeyword, 1, "Mandatory keyword %s is not present in HDU %d.", name, s.curHDU)
	return nil
}

func (s *State) mandDuplicates(v *hduView, names []string) {
	for _, name := range names {
		if v.count(name) > 1 {
			s.hint.keyword = name
			s.errf(KeywordDuplicate, 1, "Mandatory keyword %s is duplicated in HDU %d.", name, s.curHDU)
		}
	}
}

func legalBitpix(n int) bool {
	switch n {
	case 8, 16, 32, 64, -32, -64:
		return true
	}
	return false
}

func (s *State) rawCard(f *fits.File, pc *ParsedCard) string {
	raw, err := f.ReadCard(pc.Index)
	if err != nil {
		return ""
	}
	return string(raw)
}

// mandInt checks one mandatory integer keyword: type, fixed format, and
// returns its value.
func (s *State) mandInt(f *fits.File, v *hduView, pos int, name string) (int64, bool) {
	pc := s.mandCard(v, pos, name)
	if pc == nil {
		return 0, false
	}
	if !s.requireInt(pc) {
		s.hint.keyword = name
		s.errf(KeywordType, 1, "Mandatory keyword %s in HDU %d must have an integer value.", name, s.curHDU)
		return 0, false
	}
	s.checkFixedInt(s.rawCard(f, pc))
	n, err := strconv.ParseInt(pc.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *State) checkMandatory(f *fits.File, v *hduView) {
	if s.curHDU == 1 {
		s.checkMandatoryPrimary(f, v)
	} else {
		s.checkMandatoryExtension(f, v)
	}
}

func (s *State) checkMandatoryPrimary(f *fits.File, v *hduView) {
	if pc := s.mandCard(v, 1, "SIMPLE"); pc != nil {
		if s.requireLog(pc) {
			s.checkFixedLog(s.rawCard(f, pc))
			if pc.Value == "F" {
				s.warnf(WarnSimpleFalse, false, "SIMPLE = F: file may not conform to the FITS Standard.")
			}
		} else {
			s.hint.keyword = "SIMPLE"
			s.errf(KeywordType, 1, "Mandatory keyword SIMPLE must have a logical value.")
		}
	}
	s.checkBitpixNaxis(f, v, 2)
	s.mandDuplicates(v, append([]string{"SIMPLE", "BITPIX", "NAXIS"}, naxisNames(v.naxis)...))

	if pc, ok := v.lookup("GROUPS"); ok && pc.Kind == LogKey && pc.Value == "T" &&
		v.naxis >= 1 && len(v.naxes) > 0 && v.naxes[0] == 0 {
		v.isGroups = true
		if n, ok := v.lookup("PCOUNT"); ok && n.Kind == IntKey {
			v.pcount, _ = strconv.ParseInt(n.Value, 10, 64)
		}
		if n, ok := v.lookup("GCOUNT"); ok && n.Kind == IntKey {
			v.gcount, _ = strconv.ParseInt(n.Value, 10, 64)
		}
		s.warnf(WarnRandomGroups, false, "HDU %d uses the deprecated Random Groups convention.", s.curHDU)
	}
}

func naxisNames(naxis int) []string {
	names := make([]string, 0, naxis)
	for i := 1; i <= naxis; i++ {
		names = append(names, fmt.Sprintf("NAXIS%d", i))
	}
	return names
}

// checkBitpixNaxis validates BITPIX, NAXIS and the NAXISn sequence
// starting at the given mandatory position.
func (s *State) checkBitpixNaxis(f *fits.File, v *hduView, pos int) int {
	if n, ok := s.mandInt(f, v, pos, "BITPIX"); ok {
		if !legalBitpix(int(n)) {
			s.hint.keyword = "BITPIX"
			s.errf(KeywordValue, 1, "Keyword BITPIX in HDU %d has illegal value %d (legal: 8, 16, 32, 64, -32, -64).", s.curHDU, n)
		} else {
			v.bitpix = int(n)
		}
	}
	pos++
	if n, ok := s.mandInt(f, v, pos, "NAXIS"); ok {
		if n < 0 || n > 999 {
			s.hint.keyword = "NAXIS"
			s.errf(KeywordValue, 1, "Keyword NAXIS in HDU %d has illegal value %d (legal: 0 - 999).", s.curHDU, n)
		} else {
			v.naxis = int(n)
		}
	}
	pos++
	for i := 1; i <= v.naxis; i++ {
		name := fmt.Sprintf("NAXIS%d", i)
		if n, ok := s.mandInt(f, v, pos, name); ok {
			if n < 0 {
				s.hint.keyword = name
				s.errf(KeywordValue, 1, "Keyword %s in HDU %d may not be negative (value = %d).", name, s.curHDU, n)
			} else {
				for len(v.naxes) < i {
					v.naxes = append(v.naxes, 0)
				}
				v.naxes[i-1] = n
			}
		}
		pos++
	}
	return pos
}

var legacyXtensions = map[string]bool{
	"A3DTABLE": true,
	"IUEIMAGE": true,
	"FOREIGN":  true,
	"DUMP":     true,
}

func (s *State) checkMandatoryExtension(f *fits.File, v *hduView) {
	if pc := s.mandCard(v, 1, "XTENSION"); pc != nil {
		if s.requireStr(pc) {
			s.checkFixedStr(s.rawCard(f, pc))
			val := strings.TrimRight(pc.Value, " ")
			switch {
			case val == "IMAGE" || val == "TABLE" || val == "BINTABLE":
			case legacyXtensions[val]:
				s.hint.keyword = "XTENSION"
				s.warnf(WarnLegacyXtension, false, "XTENSION = '%s' is a legacy extension type; use IMAGE, TABLE, or BINTABLE.", val)
			default:
				s.hint.keyword = "XTENSION"
				s.errf(KeywordValue, 1, "Keyword XTENSION in HDU %d has unknown value '%s'.", s.curHDU, val)
			}
			if strings.HasPrefix(pc.Value, " ") {
				s.hint.keyword = "XTENSION"
				s.errf(LeadingSpace, 1, "Keyword XTENSION value '%s' has leading space(s).", pc.Value)
			}
		} else {
			s.hint.keyword = "XTENSION"
			s.errf(KeywordType, 1, "Mandatory keyword XTENSION must have a string value.")
		}
	}
	pos := s.checkBitpixNaxis(f, v, 2)
	if n, ok := s.mandInt(f, v, pos, "PCOUNT"); ok {
		if n < 0 {
			s.hint.keyword = "PCOUNT"
			s.errf(KeywordValue, 1, "Keyword PCOUNT in HDU %d may not be negative (value = %d).", s.curHDU, n)
		} else {
			v.pcount = n
		}
	}
	pos++
	if n, ok := s.mandInt(f, v, pos, "GCOUNT"); ok {
		v.gcount = n
		if n != 1 {
			s.hint.keyword = "GCOUNT"
			s.errf(KeywordValue, 1, "Keyword GCOUNT in HDU %d must have value 1 (value = %d).", s.curHDU, n)
		}
	}
	pos++

	mand := []string{"XTENSION", "BITPIX", "NAXIS"}
	mand = append(mand, naxisNames(v.naxis)...)
	mand = append(mand, "PCOUNT", "GCOUNT")

	switch s.curType {
	case fits.AsciiTable, fits.BinaryTable:
		if s.curType == fits.AsciiTable {
			if v.bitpix != 0 && v.bitpix != 8 {
				s.hint.keyword = "BITPIX"
				s.errf(KeywordValue, 1, "Keyword BITPIX in ASCII table HDU %d must be 8 (value = %d).", s.curHDU, v.bitpix)
			}
			if v.pcount != 0 {
				s.hint.keyword = "PCOUNT"
				s.errf(KeywordValue, 1, "Keyword PCOUNT in ASCII table HDU %d must be 0 (value = %d).", s.curHDU, v.pcount)
			}
		}
		if v.naxis != 0 && v.naxis != 2 {
			s.hint.keyword = "NAXIS"
			s.errf(KeywordValue, 1, "Keyword NAXIS in table HDU %d must be 2 (value = %d).", s.curHDU, v.naxis)
		}
		if n, ok := s.mandInt(f, v, pos, "TFIELDS"); ok {
			if n < 0 || n > 999 {
				s.hint.keyword = "TFIELDS"
				s.errf(BadTFields, 1, "Keyword TFIELDS in HDU %d has illegal value %d (legal: 0 - 999).", s.curHDU, n)
			} else {
				v.tfields = int(n)
			}
		}
		mand = append(mand, "TFIELDS")
		v.ttype = make([]string, v.tfields+1)
		v.tform = make([]string, v.tfields+1)
		v.tunit = make([]string, v.tfields+1)
		for i := 1; i <= v.tfields; i++ {
			name := fmt.Sprintf("TFORM%d", i)
			mand = append(mand, name)
			pc, ok := v.lookup(name)
			if !ok {
				s.hint.keyword = name
				s.errf(MissingKeyword, 1, "Mandatory keyword %s is not present in HDU %d.", name, s.curHDU)
				continue
			}
			if s.requireStr(pc) {
				s.checkFixedStr(s.rawCard(f, pc))
				v.tform[i] = pc.Value
				if strings.HasPrefix(pc.Value, " ") {
					s.hint.keyword = name
					s.errf(LeadingSpace, 1, "Keyword %s value '%s' has leading space(s).", name, pc.Value)
				}
			}
			if s.curType == fits.AsciiTable {
				bname := fmt.Sprintf("TBCOL%d", i)
				mand = append(mand, bname)
				bpc, ok := v.lookup(bname)
				if !ok {
					s.hint.keyword = bname
					s.errf(MissingKeyword, 1, "Mandatory keyword %s is not present in HDU %d.", bname, s.curHDU)
				} else if s.requireInt(bpc) {
					s.checkFixedInt(s.rawCard(f, bpc))
				}
			}
		}
	}
	s.mandDuplicates(v, mand)
}

// ---- keyword placement by HDU type --------------------------------------

var imageOnlyKeys = []string{"BSCALE", "BZERO", "BUNIT", "BLANK", "DATAMAX", "DATAMIN"}

var tableWCSRoots = []string{
	"TCTYP", "TCRPX", "TCRVL", "TCDLT", "TCUNI", "TCROT",
	"TCRD", "TCSY", "TWCS", "TCD", "TPC", "TPV", "TPS",
}

var columnRoots = []string{
	"TTYPE", "TFORM", "TUNIT", "TSCAL", "TZERO", "TNULL",
	"TDISP", "TDIM", "TBCOL", "TLMIN", "TLMAX", "TDMIN", "TDMAX",
}

// splitIndexed splits a keyword like TFORM12 into its root and index.
func splitIndexed(name string, roots []string) (root string, n int, ok bool) {
	for _, r := range roots {
		if !strings.HasPrefix(name, r) {
			continue
		}
		digits := name[len(r):]
		if digits == "" {
			continue
		}
		v, err := strconv.Atoi(digits)
		if err != nil || v < 0 {
			continue
		}
		// prefer the longest matching root (TCRVL before TCD, etc.)
		if len(r) > len(root) {
			root, n, ok = r, v, true
		}
	}
	return root, n, ok
}

func (s *State) checkPlacement(v *hduView) {
	isTable := s.curType == fits.AsciiTable || s.curType == fits.BinaryTable
	for i := range v.cards {
		pc := &v.cards[i]
		name := pc.Name
		if name == "" || pc.Kind == ComKey {
			continue
		}
		s.hint.keyword = name
		if s.curHDU == 1 {
			if name == "XTENSION" {
				s.errf(XtensionInPrimary, 1, "Keyword #%d, XTENSION is not allowed in the primary HDU.", pc.Index)
			}
		} else {
			switch name {
			case "SIMPLE", "EXTEND", "BLOCKED":
				s.errf(PrimaryKeyInExt, 1, "Keyword #%d, %s is only allowed in the primary HDU.", pc.Index, name)
			}
		}
		if isTable {
			for _, k := range imageOnlyKeys {
				if name == k {
					s.errf(ImageKeyInTable, 1, "Keyword #%d, %s is not allowed in a table HDU.", pc.Index, name)
				}
			}
		} else {
			if name == "TFIELDS" {
				s.errf(TableKeyInImage, 1, "Keyword #%d, TFIELDS is only allowed in table HDUs.", pc.Index)
			}
			if root, _, ok := splitIndexed(name, columnRoots); ok {
				s.errf(TableKeyInImage, 1, "Keyword #%d, %s (column keyword %sn) is only allowed in table HDUs.", pc.Index, name, root)
			} else if root, _, ok := splitIndexed(name, tableWCSRoots); ok {
				s.errf(TableWCSInImage, 1, "Keyword #%d, %s (table WCS keyword %sn) is only allowed in table HDUs.", pc.Index, name, root)
			}
		}
	}
}

// ---- indexed column keywords --------------------------------------------

// columnClass reports the coarse datatype of a binary-table column for
// scaling/null applicability checks.
func columnClass(form string) byte {
	info, err := fits.ParseTFormBin(form)
	if err != nil {
		return 0
	}
	return info.Type
}

func (s *State) checkColumns(v *hduView) {
	for i := range v.cards {
		pc := &v.cards[i]
		root, n, ok := splitIndexed(pc.Name, columnRoots)
		if !ok || pc.Kind == ComKey {
			continue
		}
		s.hint.keyword = pc.Name
		if n < 1 || n > v.tfields {
			s.errf(IndexExceedsFields, 1,
				"Keyword #%d, %s: index %d exceeds TFIELDS = %d.", pc.Index, pc.Name, n, v.tfields)
			continue
		}
		switch root {
		case "TTYPE", "TUNIT", "TDISP", "TDIM":
			if !s.requireStr(pc) {
				continue
			}
		case "TFORM", "TBCOL":
			// value and type already checked with the mandatory sequence
		case "TSCAL", "TZERO":
			if !s.requireFlt(pc) {
				continue
			}
		case "TLMIN", "TLMAX", "TDMIN", "TDMAX":
			if !s.requireFlt(pc) {
				continue
			}
		case "TNULL":
			if s.curType == fits.BinaryTable {
				if !s.requireInt(pc) {
					continue
				}
			} else if !s.requireStr(pc) {
				continue
			}
		}

		form := ""
		if n < len(v.tform) {
			form = v.tform[n]
		}
		class := byte(0)
		if s.curType == fits.BinaryTable && form != "" {
			class = columnClass(form)
		}

		switch root {
		case "TTYPE":
			if n < len(v.ttype) {
				v.ttype[n] = pc.Value
			}
		case "TUNIT":
			if n < len(v.tunit) {
				v.tunit[n] = pc.Value
			}
		case "TSCAL", "TZERO":
			if class == 'A' || class == 'L' || class == 'X' {
				s.errf(TScalWrongType, 1,
					"Keyword #%d, %s is not allowed for the %c-type column %d.", pc.Index, pc.Name, class, n)
			}
			if fv, err := strconv.ParseFloat(strings.Map(dToE, pc.Value), 64); err == nil && fv == 0 && root == "TSCAL" {
				s.warnf(WarnZeroScale, false, "Keyword %s has a scale value of 0.", pc.Name)
			}
		case "TNULL":
			if s.curType == fits.BinaryTable {
				switch class {
				case 'E', 'D', 'C', 'M':
					s.errf(TNullWrongType, 1,
						"Keyword #%d, %s is not allowed for the floating-point column %d.", pc.Index, pc.Name, n)
				default:
					s.checkTNullRange(pc, class)
				}
			}
		case "TDIM":
			if s.curType == fits.AsciiTable {
				s.errf(TDimInASCII, 1, "Keyword #%d, %s is not allowed in an ASCII table.", pc.Index, pc.Name)
			}
		case "TBCOL":
			if s.curType == fits.BinaryTable {
				s.errf(TBColInBinary, 1, "Keyword #%d, %s is not allowed in a binary table.", pc.Index, pc.Name)
			}
		case "TDISP":
			s.checkTDisp(pc, n, class)
		}
	}

	// TFORM syntax, the rAw convention, and variable-length format
	for n := 1; n <= v.tfields; n++ {
		form := strings.TrimSpace(v.tform[n])
		if form == "" {
			continue
		}
		name := fmt.Sprintf("TFORM%d", n)
		s.hint.keyword = name
		if s.curType == fits.BinaryTable {
			info, err := fits.ParseTFormBin(form)
			if err != nil {
				s.errf(BadTForm, 1, "Keyword %s has invalid format '%s'.", name, form)
				continue
			}
			if info.Type == 'A' && info.SubWidth > 0 && info.Repeat%int64(info.SubWidth) != 0 {
				s.warnf(WarnRawNotMultiple, true,
					"Keyword %s = '%s': repeat %d is not a multiple of the substring width %d.",
					name, form, info.Repeat, info.SubWidth)
			}
		} else {
			if _, err := fits.ParseTFormASCII(form); err != nil {
				s.errf(BadTForm, 1, "Keyword %s has invalid format '%s'.", name, form)
			}
		}
	}

	// THEAP is meaningless without a heap
	if pc, ok := v.lookup("THEAP"); ok {
		if s.curType == fits.AsciiTable {
			s.hint.keyword = "THEAP"
			s.errf(TDimInASCII, 1, "Keyword #%d, THEAP is not allowed in an ASCII table.", pc.Index)
		} else if v.pcount == 0 {
			s.hint.keyword = "THEAP"
			s.errf(THeapNoPcount, 1, "Keyword #%d, THEAP is present but PCOUNT = 0 (no heap).", pc.Index)
		}
	}

	// a heap without any variable-length column is unused space
	if s.curType == fits.BinaryTable && v.pcount > 0 {
		hasVLA := false
		for n := 1; n <= v.tfields; n++ {
			if info, err := fits.ParseTFormBin(strings.TrimSpace(v.tform[n])); err == nil && info.IsVar {
				hasVLA = true
				break
			}
		}
		if !hasVLA {
			s.hint.keyword = "PCOUNT"
			s.warnf(WarnPcountNoVLA, true,
				"PCOUNT = %d but no column uses variable-length array format.", v.pcount)
		}
	}

	// column names
	s.checkColumnNames(v)
}

func dToE(r rune) rune {
	if r == 'D' || r == 'd' {
		return 'E'
	}
	return r
}

var tnullRanges = map[byte][2]int64{
	'B': {0, 255},
	'I': {-32768, 32767},
	'J': {-2147483648, 2147483647},
}

func (s *State) checkTNullRange(pc *ParsedCard, class byte) {
	r, ok := tnullRanges[class]
	if !ok || pc.Kind != IntKey {
		return
	}
	n, err := strconv.ParseInt(pc.Value, 10, 64)
	if err != nil {
		return
	}
	if n < r[0] || n > r[1] {
		s.warnf(WarnTNullRange, false,
			"Keyword %s value %d is out of range for the %c-type column (legal: %d to %d).",
			pc.Name, n, class, r[0], r[1])
	}
}

// checkTDisp validates a TDISPn display format against the column type.
func (s *State) checkTDisp(pc *ParsedCard, col int, class byte) {
	if pc.Kind != StrKey {
		return
	}
	disp := strings.TrimSpace(pc.Value)
	if disp == "" {
		return
	}
	code := disp[0]
	rest := disp[1:]
	if (code == 'E' || code == 'G') && len(rest) > 0 && (rest[0] == 'N' || rest[0] == 'S') {
		rest = rest[1:]
	}
	valid := false
	switch code {
	case 'A', 'L', 'I', 'B', 'O', 'Z', 'F', 'E', 'G', 'D':
		valid = dispWidthOK(rest, code == 'F' || code == 'E' || code == 'G' || code == 'D')
	}
	if !valid {
		s.hint.keyword = pc.Name
		s.errf(BadTDisp, 1, "Keyword #%d, %s has invalid display format '%s'.", pc.Index, pc.Name, disp)
		return
	}
	if class == 0 {
		return
	}
	// type compatibility per column class
	compatible := true
	switch code {
	case 'A':
		compatible = class == 'A'
	case 'L':
		compatible = class == 'L'
	case 'I', 'B', 'O', 'Z':
		compatible = class == 'B' || class == 'I' || class == 'J' || class == 'K' || class == 'X'
	case 'F', 'E', 'D', 'G':
		compatible = class != 'A' && class != 'L'
	}
	if !compatible {
		s.hint.keyword = pc.Name
		s.errf(BadTDisp, 1,
			"Keyword #%d, %s display format '%s' is inconsistent with the %c-type column %d.",
			pc.Index, pc.Name, disp, class, col)
	}
}

func dispWidthOK(rest string, allowDecimals bool) bool {
	if rest == "" {
		return false
	}
	dot := strings.IndexByte(rest, '.')
	width := rest
	if dot >= 0 {
		if !allowDecimals {
			return false
		}
		width = rest[:dot]
		if _, err := strconv.Atoi(rest[dot+1:]); err != nil {
			return false
		}
	}
	w, err := strconv.Atoi(width)
	return err == nil && w > 0
}

func (s *State) checkColumnNames(v *hduView) {
	seen := make(map[string]int)
	for n := 1; n <= v.tfields; n++ {
		name := v.ttype[n]
		if name == "" {
			if _, ok := v.lookup(fmt.Sprintf("TTYPE%d", n)); !ok {
				s.hint.colnum = n
				s.warnf(WarnNoColumnName, true, "Column #%d has no name (TTYPE%d keyword is absent).", n, n)
			}
			continue
		}
		if strings.Contains(name, "&") {
			s.hint.colnum = n
			s.warnf(WarnContinueChar, true, "Column #%d name '%s' contains the continuation character '&'.", n, name)
		}
		bad := false
		for i := 0; i < len(name); i++ {
			c := name[i]
			if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
				bad = true
				break
			}
		}
		if bad {
			s.hint.colnum = n
			s.warnf(WarnBadColumnName, true,
				"Column #%d name '%s' contains character other than letter, digit and \"_\".", n, name)
		}
		if prev, ok := seen[strings.ToUpper(name)]; ok {
			s.hint.colnum = n
			s.warnf(WarnDuplicateColumn, true, "Columns #%d and #%d have the same name '%s'.", prev, n, name)
		} else {
			seen[strings.ToUpper(name)] = n
		}
	}
}

// ---- WCS ordering and index bounds --------------------------------------

var wcsRoots = []string{
	"CRPIX", "CRVAL", "CDELT", "CTYPE", "CUNIT", "CROTA",
	"CRDER", "CSYER", "CNAME",
}

func (s *State) checkWCS(v *hduView) {
	wcsaxes := -1
	wcsaxesPos := 0
	if pc, ok := v.lookup("WCSAXES"); ok {
		if pc.Kind == IntKey {
			if n, err := strconv.Atoi(pc.Value); err == nil {
				wcsaxes = n
				wcsaxesPos = pc.Index
			}
		}
	}
	limit := v.naxis
	hasWCSAxes := wcsaxes >= 0
	if hasWCSAxes && wcsaxes > limit {
		limit = wcsaxes
	}

	for i := range v.cards {
		pc := &v.cards[i]
		_, n, ok := splitIndexed(pc.Name, wcsRoots)
		if !ok || pc.Kind == ComKey {
			continue
		}
		if hasWCSAxes && pc.Index < wcsaxesPos {
			s.hint.keyword = pc.Name
			s.errf(WCSAxesOrder, 1,
				"Keyword #%d, %s appears before WCSAXES (keyword #%d); WCSAXES must precede other WCS keywords.",
				pc.Index, pc.Name, wcsaxesPos)
		}
		if n > limit && limit > 0 {
			s.hint.keyword = pc.Name
			if hasWCSAxes {
				s.errf(WCSIndex, 1,
					"Keyword #%d, %s: axis index %d exceeds WCSAXES = %d.", pc.Index, pc.Name, n, wcsaxes)
			} else {
				s.warnf(WarnWCSIndex, false,
					"Keyword %s: axis index %d exceeds NAXIS = %d and WCSAXES is not present.", pc.Name, n, v.naxis)
			}
		}
	}
}

// ---- convention and deprecation warnings --------------------------------

var timesysValues = map[string]bool{
	"UTC": true, "TAI": true, "TDB": true, "TT": true, "ET": true,
	"UT1": true, "UT": true, "TCG": true, "TCB": true, "TDT": true,
	"IAT": true, "GPS": true, "LOCAL": true,
}

func (s *State) checkConventions(v *hduView) {
	for _, name := range []string{"EPOCH", "BLOCKED"} {
		if pc, ok := v.lookup(name); ok {
			s.hint.keyword = name
			s.warnf(WarnDeprecated, false, "Keyword #%d, %s is deprecated.", pc.Index, name)
		}
	}

	if pc, ok := v.lookup("BSCALE"); ok && (pc.Kind == IntKey || pc.Kind == FltKey) {
		if fv, err := strconv.ParseFloat(strings.Map(dToE, pc.Value), 64); err == nil && fv == 0 {
			s.hint.keyword = "BSCALE"
			s.warnf(WarnZeroScale, false, "Keyword BSCALE has a scale value of 0.")
		}
	}

	if pc, ok := v.lookup("BLANK"); ok {
		if s.curType == fits.PrimaryHDU || s.curType == fits.ImageExt {
			if v.bitpix < 0 {
				s.hint.keyword = "BLANK"
				s.errf(BlankWrongType, 1,
					"Keyword #%d, BLANK must not be used with floating-point images (BITPIX = %d).", pc.Index, v.bitpix)
			} else if pc.Kind == IntKey {
				s.checkBlankRange(pc, v.bitpix)
			}
		}
	}

	if pc, ok := v.lookup("DATE"); ok && pc.Kind == StrKey {
		val := strings.TrimSpace(pc.Value)
		if len(val) == 8 && val[2] == '/' && val[5] == '/' {
			if yy, err := strconv.Atoi(val[6:8]); err == nil && yy < 10 {
				s.hint.keyword = "DATE"
				s.warnf(WarnY2K, false,
					"Keyword DATE = '%s' uses the old dd/mm/yy format with yy < 10; use 'YYYY-MM-DD'.", val)
			}
		}
	}

	if pc, ok := v.lookup("TIMESYS"); ok && pc.Kind == StrKey {
		if !timesysValues[strings.TrimSpace(pc.Value)] {
			s.hint.keyword = "TIMESYS"
			s.warnf(WarnTimesysValue, false, "Keyword TIMESYS has unrecognized time scale '%s'.", strings.TrimSpace(pc.Value))
		}
	}

	if _, ok := v.lookup("INHERIT"); ok && s.curHDU == 1 && v.naxis > 0 {
		s.hint.keyword = "INHERIT"
		s.warnf(WarnInheritPrimary, true, "Keyword INHERIT should not be used in a primary HDU with data.")
	}

	// ESO HIERARCH keywords, when enabled: the long-form name must be
	// unique within the header
	if s.opt.testHierarch {
		seen := make(map[string]bool)
		for i := range v.cards {
			pc := &v.cards[i]
			if pc.Name != "HIERARCH" {
				continue
			}
			long := pc.Comment
			if eq := strings.IndexByte(long, '='); eq >= 0 {
				long = long[:eq]
			}
			long = strings.TrimSpace(long)
			if long == "" {
				continue
			}
			if seen[long] {
				s.hint.keyword = "HIERARCH"
				s.warnf(WarnHierarchDuplicate, false, "HIERARCH keyword '%s' is duplicated in HDU %d.", long, s.curHDU)
			}
			seen[long] = true
		}
	}

	// duplicated non-commentary keywords
	for name, idx := range v.byName {
		if len(idx) < 2 || commentaryName(name) || name == "END" {
			continue
		}
		s.hint.keyword = name
		s.warnf(WarnDuplicateKeyword, false, "Keyword %s is duplicated in HDU %d.", name, s.curHDU)
	}

	// long strings require the LONGSTRN convention keyword
	for i := range v.cards {
		pc := &v.cards[i]
		if pc.Kind == StrKey && strings.HasSuffix(pc.Value, "&") {
			if i+1 < len(v.cards) && v.cards[i+1].Name == "CONTINUE" {
				v.useLongstr = true
			}
		}
	}
	if v.useLongstr {
		if _, ok := v.lookup("LONGSTRN"); !ok {
			s.hint.keyword = "LONGSTRN"
			s.warnf(WarnMissingLongstrn, true,
				"Header uses the CONTINUE long-string convention but has no LONGSTRN keyword.")
		}
	}
}

var blankRanges = map[int][2]int64{
	8:  {0, 255},
	16: {-32768, 32767},
	32: {-2147483648, 2147483647},
}

func (s *State) checkBlankRange(pc *ParsedCard, bitpix int) {
	r, ok := blankRanges[bitpix]
	if !ok {
		return
	}
	n, err := strconv.ParseInt(pc.Value, 10, 64)
	if err != nil {
		return
	}
	if n < r[0] || n > r[1] {
		s.hint.keyword = "BLANK"
		s.warnf(WarnTNullRange, false,
			"Keyword BLANK value %d is out of range for BITPIX = %d (legal: %d to %d).", n, bitpix, r[0], r[1])
	}
}
