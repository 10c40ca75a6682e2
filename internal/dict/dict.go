// Package dict holds the closed dictionary of FITS keyword knowledge used
// by the hint generator: what each reserved keyword means and which
// section of the FITS Standard defines it. The table is a compile-time
// constant; there is no dynamic registry.
package dict

import "strings"

// Entry describes one reserved FITS keyword.
type Entry struct {
	Purpose string
	Section string
}

type key struct {
	name   string
	prefix bool // match indexed forms like NAXISn, TFORMn
}

var entries = []struct {
	key
	Entry
}{
	{key{"SIMPLE", false}, Entry{"'SIMPLE' indicates whether the file conforms to the FITS Standard (T = conforming).", "Section 4.4.1.1"}},
	{key{"BITPIX", false}, Entry{"'BITPIX' specifies the number of bits per data element (e.g., 8 for bytes, 16 for short integers, -32 for single-precision floats).", "Section 4.4.1.1"}},
	{key{"NAXIS", true}, Entry{"'NAXIS' specifies the number of axes (dimensions) in the data array; NAXISn gives the size of axis n.", "Section 4.4.1.1"}},
	{key{"XTENSION", false}, Entry{"'XTENSION' identifies the type of extension (e.g., 'IMAGE', 'TABLE', 'BINTABLE').", "Section 7.1"}},
	{key{"PCOUNT", false}, Entry{"'PCOUNT' is the number of bytes of supplemental data following the main data table (the heap for variable-length arrays).", "Section 7.1"}},
	{key{"GCOUNT", false}, Entry{"'GCOUNT' is the number of groups (always 1 for standard extensions).", "Section 7.1"}},
	{key{"TFIELDS", false}, Entry{"'TFIELDS' specifies the number of columns in a table.", "Section 7.2.1"}},
	{key{"EXTEND", false}, Entry{"'EXTEND' indicates whether the file may contain extensions after the primary HDU.", "Section 4.4.2.1"}},
	{key{"END", false}, Entry{"'END' marks the end of the header; all remaining bytes to the 2880-byte boundary must be blank (ASCII 32).", "Section 4.3.1"}},
	{key{"TFORM", true}, Entry{"TFORMn specifies the data format for column n (e.g., '1J' for 32-bit integer, '20A' for 20-character string).", "Section 7.2.1 (ASCII), Section 7.3.1 (binary)"}},
	{key{"TTYPE", true}, Entry{"TTYPEn gives column n a descriptive name for identification.", "Section 7.2.1"}},
	{key{"TUNIT", true}, Entry{"TUNITn specifies the physical units of the data in column n.", "Section 7.2.1"}},
	{key{"TBCOL", true}, Entry{"TBCOLn specifies the starting byte position of column n within each row of an ASCII table.", "Section 7.2.1"}},
	{key{"TSCAL", true}, Entry{"TSCALn is the linear scaling factor for column n: physical = raw * TSCALn + TZEROn.", "Section 7.3.2"}},
	{key{"TZERO", true}, Entry{"TZEROn is the offset applied after scaling for column n: physical = raw * TSCALn + TZEROn.", "Section 7.3.2"}},
	{key{"TNULL", true}, Entry{"TNULLn defines the value used to represent undefined (null) entries in integer column n.", "Section 7.3.2"}},
	{key{"TDISP", true}, Entry{"TDISPn specifies the display format for column n (e.g., 'I10', 'F12.5').", "Section 7.3.3"}},
	{key{"TDIM", true}, Entry{"TDIMn describes the multi-dimensional shape of column n's array data (e.g., '(100,200)').", "Section 7.3.2"}},
	{key{"BSCALE", false}, Entry{"'BSCALE' is the linear scaling factor for image pixels: physical = raw * BSCALE + BZERO.", "Section 4.4.2.1"}},
	{key{"BZERO", false}, Entry{"'BZERO' is the offset applied after scaling for image pixels.", "Section 4.4.2.1"}},
	{key{"BUNIT", false}, Entry{"'BUNIT' specifies the physical units of the image pixel values.", "Section 4.4.2.1"}},
	{key{"BLANK", false}, Entry{"'BLANK' defines the integer value used to represent undefined pixels in integer images.", "Section 4.4.2.1"}},
	{key{"DATAMAX", false}, Entry{"'DATAMAX' records the maximum data value in the image.", "Section 4.4.2.1"}},
	{key{"DATAMIN", false}, Entry{"'DATAMIN' records the minimum data value in the image.", "Section 4.4.2.1"}},
	{key{"BLOCKED", false}, Entry{"'BLOCKED' is a deprecated keyword formerly used for tape blocking.", "Appendix H"}},
	{key{"EPOCH", false}, Entry{"'EPOCH' is deprecated; use 'EQUINOX' instead to specify the equinox of celestial coordinates.", "Section 8.3"}},
	{key{"THEAP", false}, Entry{"'THEAP' specifies the byte offset of the heap area in a binary table with variable-length arrays.", "Section 7.3.1"}},
	{key{"WCSAXES", false}, Entry{"'WCSAXES' declares the number of WCS axes, which may differ from NAXIS.", "Section 8.2"}},
	{key{"TIMESYS", false}, Entry{"'TIMESYS' specifies the time scale used for time-related keywords (e.g., UTC, TAI, TDB).", "Section 8.4 (WCS Paper IV)"}},
	{key{"MJDREF", false}, Entry{"'MJDREF' specifies the reference Modified Julian Date for time coordinates.", "Section 8.4 (WCS Paper IV)"}},
	{key{"DATEREF", false}, Entry{"'DATEREF' specifies the reference date/time for time coordinates in ISO 8601 format.", "Section 8.4 (WCS Paper IV)"}},
	{key{"TIMEUNIT", false}, Entry{"'TIMEUNIT' specifies the units of time-related keywords (e.g., 's' for seconds, 'd' for days).", "Section 8.4 (WCS Paper IV)"}},
}

// Lookup finds the dictionary entry for a keyword. Indexed keywords
// (NAXIS3, TFORM12, ...) match their root entry.
func Lookup(keyword string) (Entry, bool) {
	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return Entry{}, false
	}
	var best *Entry
	bestLen := -1
	for i := range entries {
		e := &entries[i]
		matched := false
		if e.prefix {
			matched = kw == e.name || (strings.HasPrefix(kw, e.name) && allDigits(kw[len(e.name):]))
		} else {
			matched = kw == e.name
		}
		if matched && len(e.name) > bestLen {
			best = &e.Entry
			bestLen = len(e.name)
		}
	}
	if best == nil {
		return Entry{}, false
	}
	return *best, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
