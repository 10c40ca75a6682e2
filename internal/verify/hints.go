package verify

import (
	"fmt"
	"strings"

	"example.com/fitsgate/internal/dict"
	"example.com/fitsgate/internal/fits"
)

// hintEntry is the static fix/explain pair for one error code.
type hintEntry struct {
	fix     string
	explain string
}

var staticHints = map[Code]hintEntry{
	ExtraHDUs: {
		"Remove extraneous data after the last valid HDU.",
		"The file contains additional HDU-like structures beyond what is expected. This usually indicates file corruption or an incomplete write."},
	ExtraBytes: {
		"Truncate the file at the end of the last HDU's 2880-byte block.",
		"FITS files must end exactly at a 2880-byte block boundary after the last HDU. Extra bytes beyond this boundary violate the standard and may indicate file corruption or concatenation errors."},
	BadHDU: {
		"Check the HDU structure; the header or data section may be malformed.",
		"The HDU could not be parsed correctly. This may indicate a corrupted header, incorrect NAXIS/NAXISn values, or a data section that does not match the header description."},
	ReadFail: {
		"Check that the file is accessible and not truncated.",
		"An error occurred while reading the file data. The file may be truncated, the disk may have errors, or the file may not be a valid FITS file."},

	MissingKeyword: {
		"Add the missing mandatory keyword to the header.",
		"Certain keywords are required by the FITS Standard in every HDU. For the primary HDU: SIMPLE, BITPIX, NAXIS, and NAXISn. For extensions: XTENSION, BITPIX, NAXIS, NAXISn, PCOUNT, GCOUNT."},
	KeywordOrder: {
		"Reorder mandatory keywords to follow the FITS Standard sequence.",
		"Mandatory keywords must appear in a specific order at the beginning of the header. For example, SIMPLE must be first in the primary HDU, followed by BITPIX, NAXIS, and NAXISn in sequence."},
	KeywordDuplicate: {
		"Remove the duplicate mandatory keyword; it must appear exactly once.",
		"Mandatory keywords must appear only once in a header. Having duplicates creates ambiguity about which value should be used."},
	KeywordValue: {
		"Correct the keyword value to a legal value per the FITS Standard.",
		"The mandatory keyword has a value that is not permitted by the standard. For example, BITPIX must be one of 8, 16, 32, 64, -32, or -64."},
	KeywordType: {
		"Change the keyword value to the required datatype (integer, string, etc.).",
		"FITS requires mandatory keywords to have specific datatypes. For example, BITPIX and NAXIS must be integers, not floating-point or string values."},
	MissingEND: {
		"Add an END keyword and pad the header to a 2880-byte boundary.",
		"Every FITS header must terminate with an END keyword in columns 1-3, followed by blank-filled records to complete the 2880-byte block."},
	ENDNotBlank: {
		"Fill columns 9-80 of the END keyword record with blank spaces.",
		"The END keyword card must have blanks (ASCII 32) in columns 9 through 80. No other characters are permitted after 'END' on this card."},
	NotFixedFormat: {
		"Write the mandatory keyword value in fixed format (value in columns 11-30).",
		"Mandatory keywords must use fixed-format notation: the value indicator '= ' in columns 9-10, and the value right-justified in columns 11-30."},

	NonASCIIHeader: {
		"Replace non-ASCII characters with printable ASCII (codes 32-126).",
		"FITS headers are restricted to the printable ASCII character set (codes 32 through 126). Characters outside this range, including tabs and UTF-8 sequences, are not permitted."},
	IllegalNameChar: {
		"Rename the keyword using only uppercase A-Z, digits 0-9, hyphen, and underscore.",
		"FITS keyword names may only contain uppercase Latin letters, digits, hyphens, and underscores. Lowercase letters and other characters are not allowed. The name must be left-justified in columns 1-8."},
	NameNotJustified: {
		"Left-justify the keyword name in columns 1-8.",
		"Keyword names must start in column 1 with no leading spaces."},
	BadValueFormat: {
		"Fix the keyword value to conform to FITS value-field syntax.",
		"The value field (columns 11-80) must follow FITS formatting rules: strings in single quotes, integers without decimal points, floating-point with decimal point, logical as T or F in column 30."},
	NoValueSeparator: {
		"Add a '/' separator between the value and comment fields.",
		"When both a value and comment are present, they must be separated by a slash character '/'. The slash should follow the value (after any trailing spaces)."},
	BadString: {
		"Ensure string values contain only printable ASCII characters.",
		"String keyword values (enclosed in single quotes) must contain only printable ASCII characters (codes 32-126). Control characters and non-ASCII bytes are not permitted."},
	MissingQuote: {
		"Add the missing closing single quote to the string value.",
		"String values must be enclosed in single quotes. A string that starts with a quote in column 11 must have a matching closing quote within columns 11-80 (or use the CONTINUE long-string convention)."},
	BadLogical: {
		"Set the logical value to T or F in column 30.",
		"Logical (boolean) keyword values must be the character T (true) or F (false) in column 30, with spaces in columns 11-29."},
	BadNumber: {
		"Fix the numeric value to use valid FITS integer or floating-point format.",
		"Numeric values must follow Fortran-style formatting: integers with optional sign, floating-point with a decimal point, and optional exponent using 'E' or 'D'."},
	LowercaseExponent: {
		"Change the lowercase exponent letter (d/e) to uppercase (D/E).",
		"The FITS Standard requires that exponent indicators in floating-point values use uppercase 'E' or 'D', not lowercase."},
	ComplexFormat: {
		"Format the complex value as (real, imaginary) with proper parentheses and comma.",
		"Complex keyword values must be written as two numbers enclosed in parentheses and separated by a comma, e.g. (1.0, 2.0)."},
	BadComment: {
		"Remove non-printable characters from the comment field.",
		"Comments (after the '/' separator) may only contain printable ASCII characters."},
	UnknownType: {
		"Check that the keyword value conforms to one of the FITS value types.",
		"The keyword value does not match any recognized FITS type (string, integer, floating-point, complex, or logical). Verify the formatting."},
	WrongType: {
		"Change the keyword value to the expected datatype.",
		"This keyword is expected to have a specific datatype (e.g., string, integer) but the value found is of a different type."},
	NullValue: {
		"Provide a value for the keyword, or remove it if not needed.",
		"The keyword has no value (the value field is blank). If the keyword is intended to carry information, it needs a valid value."},
	CardTooLong: {
		"Ensure the header card does not exceed 80 characters.",
		"Each FITS header record is exactly 80 characters. Cards longer than 80 characters violate the standard."},
	NontextChars: {
		"Remove non-text characters from the string value.",
		"String values should contain only text characters. Control characters or other non-printable bytes are not permitted."},
	LeadingSpace: {
		"Remove leading spaces from the keyword value.",
		"Certain keyword values (XTENSION, TFORMn, TDISPn, TDIMn) must not have leading spaces within the quoted string."},
	ReservedValue: {
		"Correct the reserved keyword to its required value.",
		"Reserved keywords (like EXTEND, BLOCKED) have specific allowed values defined by the FITS Standard."},

	XtensionInPrimary: {
		"Remove the XTENSION keyword from the primary HDU.",
		"XTENSION is used to identify extension HDUs. It must not appear in the primary HDU, which uses the SIMPLE keyword instead."},
	ImageKeyInTable: {
		"Remove image-specific keywords (BSCALE, BZERO, BUNIT, BLANK, DATAMAX, DATAMIN) from the table HDU.",
		"Keywords like BSCALE, BZERO, BUNIT, BLANK, DATAMAX, and DATAMIN are only valid in image HDUs. In table HDUs, use the column-specific equivalents (TSCALn, TZEROn, TUNITn, TNULLn)."},
	TableKeyInImage: {
		"Remove table-specific keywords (TFIELDS, TTYPEn, TFORMn, etc.) from the image HDU.",
		"Column-related keywords like TFIELDS, TTYPEn, TFORMn, TBCOLn are only valid in table extensions (ASCII or binary tables), not in images."},
	PrimaryKeyInExt: {
		"Remove SIMPLE, EXTEND, or BLOCKED from this extension HDU.",
		"The keywords SIMPLE, EXTEND, and BLOCKED are only valid in the primary HDU. They must not appear in any extension."},
	TableWCSInImage: {
		"Remove table WCS keywords (TCTYPn, TCRPXn, TCRVLn, etc.) from the image HDU.",
		"Table-specific WCS keywords (those with column index 'n') are only valid in table extensions. Image HDUs use CTYPEn, CRPIXn, CRVALn without the 'T' prefix."},
	KeywordNotAllowed: {
		"Remove the keyword that is not permitted in this HDU type.",
		"This keyword is not valid in the current HDU type. Check the FITS Standard for which keywords are allowed in each HDU type."},

	BadTFields: {
		"Set TFIELDS to the correct number of columns in the table.",
		"TFIELDS specifies how many columns the table contains. It must match the actual number of TFORMn keywords present."},
	NAXIS1Mismatch: {
		"Adjust NAXIS1 to equal the sum of all column widths.",
		"In a table HDU, NAXIS1 is the number of bytes per row. It must equal the sum of the widths of all columns as specified by TFORMn (and TBCOLn for ASCII tables)."},
	BadTForm: {
		"Correct the TFORMn value to a valid FITS column format.",
		"TFORMn specifies the data format for column n. Valid formats include integer widths for ASCII tables (e.g., I10, F12.5) and type codes for binary tables (e.g., 1J, 20A, 1E)."},
	BadTDisp: {
		"Fix TDISPn to be consistent with the column datatype.",
		"TDISPn specifies the display format for column n. It must be compatible with the column's data format (e.g., an integer column should not have a floating-point TDISPn)."},
	IndexExceedsFields: {
		"Ensure column keyword index n does not exceed the TFIELDS value.",
		"A column-indexed keyword (TTYPEn, TFORMn, etc.) has an index greater than TFIELDS. Either increase TFIELDS or remove the excess keyword."},
	TScalWrongType: {
		"Remove TSCALn/TZEROn from ASCII, logical, or bit columns.",
		"TSCALn and TZEROn are scaling keywords valid only for numeric binary table columns (integer or floating-point). They are not applicable to ASCII, logical, or bit-type columns."},
	TNullWrongType: {
		"Remove TNULLn from this floating-point column; use NaN instead.",
		"TNULLn defines a null value for integer columns only. For floating-point columns, IEEE NaN is the standard null representation."},
	BlankWrongType: {
		"Remove BLANK from this floating-point image; use NaN instead.",
		"The BLANK keyword defines null pixels for integer images only. For floating-point images (BITPIX = -32 or -64), IEEE NaN represents null."},
	THeapNoPcount: {
		"Remove THEAP or set PCOUNT > 0 to allocate a variable-length data heap.",
		"THEAP specifies the heap offset for variable-length arrays. It is meaningless when PCOUNT = 0 (no heap exists)."},
	TDimInASCII: {
		"Remove TDIMn from the ASCII table; it is only valid for binary tables.",
		"TDIMn defines multi-dimensional array structure for binary table columns. ASCII tables do not support this feature."},
	TBColInBinary: {
		"Remove TBCOLn from the binary table; it is only valid for ASCII tables.",
		"TBCOLn specifies the starting column position in ASCII tables. Binary tables use sequential packing based on TFORMn and do not use TBCOLn."},
	VarFormat: {
		"Fix the variable-length array format descriptor in TFORMn.",
		"Variable-length array columns use the format 'nPt(max)' or 'nQt(max)' where t is the data type code. Check that the format string is valid."},
	TBColMismatch: {
		"Correct TBCOLn values so columns are properly positioned within the row.",
		"TBCOLn values must correctly specify the starting byte position of each column, forming a consistent layout that does not exceed NAXIS1."},

	VarExceedsMaxLen: {
		"Reduce the variable-length array size or increase the maximum in TFORMn.",
		"A variable-length array entry exceeds the maximum length declared in the TFORMn descriptor (the value in parentheses). Either the data is corrupt or the declared maximum is too small."},
	VarExceedsHeap: {
		"Fix the variable-length array descriptor; its address extends beyond the heap.",
		"The descriptor for a variable-length array column points to an address outside the allocated heap area (beyond PCOUNT bytes after the fixed table). This usually indicates data corruption."},
	BitNotJustified: {
		"Left-justify the bit values and zero-fill unused trailing bits.",
		"Bit columns (TFORMn = 'nX') must be left-justified, with any unused bits in the last byte set to zero."},
	BadLogicalData: {
		"Set logical column values to 'T' (true), 'F' (false), or 0 (null).",
		"Logical columns in binary tables may only contain the byte values 'T' (0x54), 'F' (0x46), or 0 (null/undefined)."},
	NonASCIIData: {
		"Replace non-ASCII characters in the string column with printable ASCII.",
		"String columns in binary tables must contain only printable ASCII characters or null bytes for padding."},
	NoDecimal: {
		"Add a decimal point to the floating-point value in the ASCII table.",
		"Floating-point values in ASCII table columns (TFORMn = En.d, Fn.d, Dn.d) must contain a decimal point."},
	EmbeddedSpace: {
		"Remove embedded spaces from the numeric value in the ASCII table.",
		"Numeric values in ASCII table columns must not contain embedded spaces. Leading spaces are allowed, but spaces within the number are not."},
	NonASCIITable: {
		"Replace non-ASCII characters in the ASCII table with valid ASCII.",
		"ASCII tables must contain only ASCII characters (codes 0-127). Characters with values above 127 violate the standard."},
	DataFill: {
		"Fix data fill bytes: use blanks (0x20) for ASCII tables, zeros (0x00) for others.",
		"Fill bytes after the last row of data must be ASCII blanks (space, 0x20) for ASCII tables, or binary zeros (0x00) for all other HDU types, out to the next 2880-byte boundary."},
	HeaderFill: {
		"Fill unused header bytes after END with blank spaces (ASCII 32).",
		"All bytes in the header block after the END keyword must be filled with ASCII blank characters (space, code 32) up to the 2880-byte boundary."},
	ASCIIGap: {
		"Replace non-printable characters in ASCII table column gaps.",
		"Gaps between defined columns in ASCII tables (bytes not covered by any TBCOLn/TFORMn range) must contain only printable ASCII characters."},

	WCSAxesOrder: {
		"Move WCSAXES before all other WCS keywords in the header.",
		"When present, the WCSAXES keyword must appear before any other WCS keywords (CRPIXn, CRVALn, CTYPEn, CDELTn, etc.) so that the WCS dimensionality is known before the per-axis keywords are read."},
	WCSIndex: {
		"Reduce the WCS keyword index to not exceed the WCSAXES value.",
		"WCS keywords with axis indices (CRPIXn, CRVALn, etc.) must have index n <= WCSAXES. Indices beyond this range are invalid."},

	ReaderError: {
		"Check the reader error message for details on the I/O or parsing failure.",
		"The FITS reader reported an error while processing the file. This may indicate file corruption, an unsupported feature, or a system I/O problem."},
	ReaderStack: {
		"Review the reader error stack messages for the root cause.",
		"The FITS reader reported one or more errors. The error stack shows the sequence of reader operations that led to the failure."},

	TooManyErrors: {
		"Fix the most critical errors first; the file has too many problems to list completely.",
		"Verification was aborted because the error count exceeded the maximum threshold (200). The file likely has a fundamental structural problem that causes cascading errors."},

	WarnSimpleFalse: {
		"Set SIMPLE = T unless the file intentionally uses non-standard features.",
		"SIMPLE = F indicates the file may not conform to the FITS Standard. Most FITS readers expect SIMPLE = T. Only use F if the file contains non-standard data that requires special handling."},
	WarnDeprecated: {
		"Replace deprecated keywords: EPOCH -> EQUINOX, BLOCKED -> (remove).",
		"The EPOCH keyword is deprecated in favor of EQUINOX. The BLOCKED keyword is deprecated and should be removed; it was related to tape blocking which is no longer relevant."},
	WarnDuplicateExtname: {
		"Give each HDU a unique combination of EXTNAME, EXTVER, and EXTLEVEL.",
		"Multiple HDUs share the same EXTNAME, EXTVER, and EXTLEVEL values. While not strictly forbidden, this makes it impossible to uniquely identify HDUs by name, which breaks many FITS tools."},
	WarnZeroScale: {
		"Set BSCALE/TSCALn to a non-zero value.",
		"A scale factor of zero would map all raw values to the same physical value (the offset), which is almost certainly unintended. The standard formula is: physical = raw * BSCALE + BZERO."},
	WarnTNullRange: {
		"Set BLANK/TNULLn to a value within the valid range for the datatype.",
		"The null value indicator must be representable in the column's or image's datatype. For example, TNULLn for a 16-bit integer column must be between -32768 and 32767."},
	WarnRawNotMultiple: {
		"Adjust the TFORMn 'rAw' format so r is a multiple of w.",
		"For character columns in binary tables with format rAw, the repeat count r should be a multiple of the character width w. Otherwise the last sub-string is truncated."},
	WarnY2K: {
		"Use the DATE format 'YYYY-MM-DD' instead of 'DD/MM/YY'.",
		"The old DATE format 'DD/MM/YY' is ambiguous for years near 2000. The FITS Standard requires the ISO 8601 format 'YYYY-MM-DD' (or 'YYYY-MM-DDThh:mm:ss')."},
	WarnWCSIndex: {
		"Add a WCSAXES keyword, or ensure WCS indices do not exceed NAXIS.",
		"A WCS keyword has an axis index exceeding NAXIS. If the WCS has more axes than the data (e.g., for celestial + spectral), add WCSAXES to declare the WCS dimensionality."},
	WarnDuplicateKeyword: {
		"Remove the duplicate keyword or rename one of the copies.",
		"The same keyword appears more than once in the header. Only COMMENT, HISTORY, blank, and CONTINUE keywords may be duplicated."},
	WarnBadColumnName: {
		"Rename the column using only letters, digits, and underscores.",
		"Column names (TTYPEn) should contain only letters (A-Z, a-z), digits (0-9), and underscores. Other characters may cause problems with FITS processing software."},
	WarnNoColumnName: {
		"Add a TTYPEn keyword to give the column a descriptive name.",
		"Every table column should have a TTYPEn keyword with a descriptive name. While technically optional, unnamed columns are difficult to work with in most FITS tools."},
	WarnDuplicateColumn: {
		"Rename one of the duplicate columns to have a unique TTYPEn value.",
		"Multiple columns share the same name. While not forbidden by the standard, duplicate column names cause ambiguity when accessing columns by name."},
	WarnBadChecksum: {
		"Recompute CHECKSUM and DATASUM using a FITS checksum utility.",
		"The stored CHECKSUM or DATASUM does not match the computed value, indicating the file has been modified since the checksums were written. Recompute them if the current data is correct, or investigate if the file may be corrupt."},
	WarnMissingLongstrn: {
		"Add 'LONGSTRN = OGIP 1.0' to the header when using CONTINUE long strings.",
		"The header uses CONTINUE keywords for long string values but lacks the LONGSTRN convention keyword that declares this usage."},
	WarnVarExceeds32bit: {
		"Use 'Q' format (64-bit descriptor) instead of 'P' for large variable-length arrays.",
		"A variable-length array descriptor value exceeds the 32-bit range. The 'P' format uses 32-bit descriptors (max ~2 GB). For larger data, use the 'Q' format with 64-bit descriptors."},
	WarnHierarchDuplicate: {
		"Remove or rename the duplicate HIERARCH keyword.",
		"The same HIERARCH keyword appears more than once. Each HIERARCH keyword should be unique within the header."},
	WarnPcountNoVLA: {
		"Set PCOUNT = 0 or add variable-length array columns.",
		"PCOUNT is non-zero (indicating a variable-length data heap exists) but no columns use variable-length array format (P or Q descriptors). The heap space appears unused."},
	WarnContinueChar: {
		"Remove the trailing '&' from the column name unless CONTINUE convention is intended.",
		"A column name (TTYPEn) contains an ampersand '&', which is the continuation character used in the CONTINUE long-string convention. This is unusual for a column name and may indicate a formatting error."},
	WarnRandomGroups: {
		"Convert Random Groups data to a binary table extension.",
		"The Random Groups convention has been deprecated since FITS Standard Version 1. Binary table extensions provide equivalent functionality with better tool support. See FITS Standard Section 7."},
	WarnLegacyXtension: {
		"Use a standard XTENSION value: IMAGE, TABLE, or BINTABLE.",
		"The FITS Standard defines only three XTENSION values: IMAGE, TABLE, and BINTABLE. Other values (A3DTABLE, IUEIMAGE, FOREIGN, DUMP) are legacy or non-standard and may not be supported by FITS readers."},
	WarnTimesysValue: {
		"Set TIMESYS to a recognized time scale (e.g., UTC, TAI, TDB, TT).",
		"TIMESYS specifies the time scale for time-related keywords. Allowed values: UTC, TAI, TDB, TT, ET, UT1, UT, TCG, TCB, TDT, IAT, GPS, LOCAL. See FITS Standard Section 4.4.2.6."},
	WarnInheritPrimary: {
		"Remove INHERIT or ensure the primary HDU has NAXIS = 0.",
		"INHERIT = T allows extensions to inherit primary header keywords, but is only meaningful when the primary HDU has no data (NAXIS = 0). See FITS Standard Section 4.4.2.4."},
}

func (s *State) hduTypeName() string {
	if s.curHDU == 1 {
		return "a primary array"
	}
	switch s.curType {
	case fits.ImageExt:
		return "an image extension"
	case fits.AsciiTable:
		return "an ASCII table"
	case fits.BinaryTable:
		return "a binary table"
	}
	return "an HDU"
}

func (s *State) mandatoryList() string {
	if s.curHDU == 1 {
		return "SIMPLE, BITPIX, NAXIS, NAXISn, END"
	}
	switch s.curType {
	case fits.ImageExt:
		return "XTENSION, BITPIX, NAXIS, NAXISn, PCOUNT, GCOUNT, END"
	case fits.AsciiTable:
		return "XTENSION, BITPIX, NAXIS, NAXIS1, NAXIS2, PCOUNT, GCOUNT, TFIELDS, TBCOLn, TFORMn, END"
	case fits.BinaryTable:
		return "XTENSION, BITPIX, NAXIS, NAXIS1, NAXIS2, PCOUNT, GCOUNT, TFIELDS, TFORMn, END"
	}
	return "XTENSION, BITPIX, NAXIS, NAXISn, PCOUNT, GCOUNT, END"
}

func sectionOr(section, fallback string) string {
	if section != "" {
		return section
	}
	return fallback
}

// expectedTypeFor names the required value type for well-known keywords,
// used to sharpen wrong-type hints.
func expectedTypeFor(kw string) string {
	switch {
	case strings.HasPrefix(kw, "CRPIX"), strings.HasPrefix(kw, "CRVAL"),
		strings.HasPrefix(kw, "CDELT"), strings.HasPrefix(kw, "CROTA"),
		strings.HasPrefix(kw, "CRDER"), strings.HasPrefix(kw, "CSYER"),
		strings.HasPrefix(kw, "CD"), strings.HasPrefix(kw, "PC"),
		strings.HasPrefix(kw, "PV"),
		kw == "EQUINOX", kw == "MJD-OBS", kw == "MJD-AVG",
		kw == "LONPOLE", kw == "LATPOLE", kw == "RESTFRQ", kw == "RESTWAV",
		kw == "MJDREF", kw == "JDREF", kw == "TSTART", kw == "TSTOP",
		strings.HasPrefix(kw, "TCRVL"), strings.HasPrefix(kw, "TCDLT"),
		strings.HasPrefix(kw, "TCRPX"), strings.HasPrefix(kw, "TCROT"),
		strings.HasPrefix(kw, "TLMIN"), strings.HasPrefix(kw, "TLMAX"),
		strings.HasPrefix(kw, "TDMIN"), strings.HasPrefix(kw, "TDMAX"),
		strings.HasPrefix(kw, "TSCAL"), strings.HasPrefix(kw, "TZERO"),
		kw == "BSCALE", kw == "BZERO", kw == "DATAMAX", kw == "DATAMIN",
		kw == "EPOCH":
		return "floating-point number (without quotes)"
	case kw == "BITPIX", kw == "NAXIS", strings.HasPrefix(kw, "NAXIS"),
		kw == "PCOUNT", kw == "GCOUNT", kw == "TFIELDS",
		kw == "EXTVER", kw == "EXTLEVEL", strings.HasPrefix(kw, "TNULL"),
		kw == "BLANK", strings.HasPrefix(kw, "TBCOL"), kw == "WCSAXES":
		return "integer (without quotes)"
	case kw == "SIMPLE", kw == "EXTEND", kw == "GROUPS", kw == "INHERIT":
		return "logical value (T or F, without quotes)"
	}
	return ""
}

// generateHint produces the (fix, explain) pair for the current dispatch.
// Call-site overrides win; otherwise a context-aware overlay names the
// actual keyword, column and HDU, and the static table is the fallback.
func (s *State) generateHint(code Code) (fix, explain string) {
	static := staticHints[code]
	fix = static.fix
	explain = static.explain
	if s.hint.overrideFx {
		fix = s.hint.fix
	}
	if s.hint.overrideEx {
		explain = s.hint.explain
	}

	kw := s.hint.keyword
	col := s.hint.colnum
	hasKw := kw != ""
	hasCol := col > 0
	if !hasKw && !hasCol {
		return fix, explain
	}
	hdu := s.curHDU
	hduName := s.hduTypeName()
	entry, hasEntry := dict.Lookup(kw)
	overridden := s.hint.overrideFx || s.hint.overrideEx

	switch code {
	case MissingKeyword:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Add the keyword '%s' to the header of HDU %d. The mandatory keywords for %s in order are: %s.",
				kw, hdu, hduName, s.mandatoryList())
		}
		if hasKw && hasEntry && !s.hint.overrideEx {
			explain = fmt.Sprintf("%s Without it, FITS readers cannot interpret the %s. See FITS Standard %s.",
				entry.Purpose, hduName, sectionOr(entry.Section, "(see relevant section)"))
		}
	case KeywordOrder:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Move keyword '%s' to its required position in HDU %d. The mandatory order for %s is: %s.",
				kw, hdu, hduName, s.mandatoryList())
			explain = fmt.Sprintf("FITS requires mandatory keywords in a fixed order at the start of each header. '%s' must appear in its designated position. See FITS Standard Section 4.4.1.", kw)
		}
	case KeywordDuplicate:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Remove the duplicate '%s' keyword in HDU %d; it must appear exactly once.", kw, hdu)
			explain = fmt.Sprintf("Mandatory keywords must appear only once. Having two '%s' keywords creates ambiguity about which value should be used. See FITS Standard Section 4.4.1.", kw)
		}
	case KeywordValue:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Correct the value of '%s' in HDU %d to a legal value per the FITS Standard.", kw, hdu)
		}
		if hasKw && hasEntry && !s.hint.overrideEx {
			explain = fmt.Sprintf("%s The current value is not permitted. See FITS Standard %s.",
				entry.Purpose, sectionOr(entry.Section, "(see relevant section)"))
		}
	case KeywordType:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Change the value of '%s' in HDU %d to the required datatype.", kw, hdu)
		}
		if hasKw && hasEntry && !s.hint.overrideEx {
			explain = fmt.Sprintf("%s The value must use the correct datatype (e.g., BITPIX must be an integer). See FITS Standard %s.",
				entry.Purpose, sectionOr(entry.Section, "(see relevant section)"))
		}
	case NotFixedFormat:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Write '%s' in HDU %d using fixed format (value indicator '= ' in columns 9-10, value right-justified in columns 11-30).", kw, hdu)
			explain = fmt.Sprintf("Mandatory keywords must use fixed-format notation so that any reader can parse them without interpreting free-format values. '%s' must have its value in columns 11-30. See FITS Standard Section 4.2.1.", kw)
		}
	case IllegalNameChar, NameNotJustified:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Fix keyword '%s' in HDU %d: names must use only uppercase A-Z, digits 0-9, hyphen, and underscore, left-justified in columns 1-8.", kw, hdu)
		}
	case BadString, MissingQuote, BadLogical, BadNumber, LowercaseExponent,
		ComplexFormat, BadComment, NoValueSeparator, UnknownType, NontextChars:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Keyword '%s' in HDU %d: %s", kw, hdu, static.fix)
			explain = fmt.Sprintf("Keyword '%s': %s See FITS Standard Section 4.2.", kw, static.explain)
		}
	case WrongType:
		if overridden {
			if !s.hint.overrideEx && hasEntry {
				explain = fmt.Sprintf("%s The value must match the expected type. See FITS Standard %s.",
					entry.Purpose, sectionOr(entry.Section, "(see relevant section)"))
			}
		} else if hasKw {
			if expected := expectedTypeFor(kw); expected != "" {
				fix = fmt.Sprintf("Change '%s' in HDU %d to a %s. If the value is currently a quoted string, remove the quotes.", kw, hdu, expected)
			} else {
				fix = fmt.Sprintf("Change the value of '%s' in HDU %d to the expected datatype.", kw, hdu)
			}
			if hasEntry {
				explain = fmt.Sprintf("%s The value must match the expected type. See FITS Standard %s.",
					entry.Purpose, sectionOr(entry.Section, "(see relevant section)"))
			} else {
				explain = fmt.Sprintf("Keyword '%s' has a value of the wrong datatype. Check the FITS Standard for the required type.", kw)
			}
		}
	case NullValue:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Provide a value for '%s' in HDU %d, or remove it if not needed.", kw, hdu)
		}
		if hasKw && hasEntry && !s.hint.overrideEx {
			explain = fmt.Sprintf("%s The keyword currently has no value (blank value field).", entry.Purpose)
		}
	case LeadingSpace:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Remove leading spaces from the value of '%s' in HDU %d.", kw, hdu)
			explain = fmt.Sprintf("Keyword '%s': certain keyword values (XTENSION, TFORMn, TDISPn, TDIMn) must not have leading spaces within the quoted string. See FITS Standard Section 4.2.1.", kw)
		}
	case ReservedValue:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Correct the value of reserved keyword '%s' in HDU %d.", kw, hdu)
		}
		if hasKw && hasEntry && !s.hint.overrideEx {
			explain = fmt.Sprintf("%s The current value violates the FITS Standard. See FITS Standard %s.",
				entry.Purpose, sectionOr(entry.Section, "(see relevant section)"))
		}
	case KeywordNotAllowed:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Remove keyword '%s' from HDU %d; it is not permitted in %s.", kw, hdu, hduName)
			explain = fmt.Sprintf("Keyword '%s' is not valid in %s. Check the FITS Standard for which keywords are allowed in each HDU type.", kw, hduName)
		}
	case PrimaryKeyInExt:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Remove '%s' from HDU %d; it is only valid in the primary HDU.", kw, hdu)
			explain = fmt.Sprintf("The keyword '%s' is only valid in the primary HDU (HDU 1). It must not appear in any extension. See FITS Standard Section 4.4.2.", kw)
		}
	case ImageKeyInTable:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Remove '%s' from HDU %d (%s); it is only valid in image HDUs.", kw, hdu, hduName)
			explain = fmt.Sprintf("Keywords like BSCALE, BZERO, BUNIT, BLANK, DATAMAX, and DATAMIN are only valid in image HDUs. In tables, use the column-specific equivalents (TSCALn, TZEROn, TUNITn, TNULLn). '%s' was found in %s. See FITS Standard Section 7.", kw, hduName)
		}
	case TableKeyInImage:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Remove table keyword '%s' from HDU %d (%s).", kw, hdu, hduName)
			explain = fmt.Sprintf("Column-related keywords like TFIELDS, TTYPEn, TFORMn are only valid in table extensions. '%s' was found in %s. See FITS Standard Section 7.", kw, hduName)
		}
	case IndexExceedsFields:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Keyword '%s' in HDU %d has a column index exceeding TFIELDS. Either increase TFIELDS or remove the excess keyword.", kw, hdu)
			explain = fmt.Sprintf("Column-indexed keywords (TTYPEn, TFORMn, etc.) must have index n <= TFIELDS. '%s' exceeds this limit. See FITS Standard Section 7.2.1.", kw)
		}
	case BadTForm:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Correct '%s' in HDU %d to a valid FITS column format.", kw, hdu)
			explain = fmt.Sprintf("'%s' specifies the data format for a column. Valid formats include integer widths for ASCII tables (e.g., I10, F12.5) and type codes for binary tables (e.g., 1J, 20A, 1E). See FITS Standard %s.",
				kw, sectionOr(entry.Section, "Section 7.2.1/7.3.1"))
		}
	case BadTDisp:
		if overridden {
			if !s.hint.overrideEx {
				explain = "TDISPn controls the display format for column n. The display format must be compatible with the column's TFORMn data type. See FITS Standard Section 7.3.3."
			}
		} else if hasKw {
			fix = fmt.Sprintf("Correct the display format in '%s' in HDU %d. Valid formats: Aw (character), Lw (logical), Iw/Bw/Ow/Zw (integer), Fw.d/Ew.d/Dw.d/Gw.d (numeric).", kw, hdu)
			explain = "TDISPn controls the display format for column n. The format must be a valid Fortran-style format code with correct width and precision. See FITS Standard Section 7.3.3."
		}
	case BlankWrongType:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Remove '%s' from HDU %d; it must not be used with floating-point data. Use NaN instead.", kw, hdu)
		}
	case TScalWrongType:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Remove '%s' from HDU %d; scaling keywords are only valid for numeric (integer/float) binary table columns.", kw, hdu)
		}
	case TNullWrongType:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Remove '%s' from this floating-point column in HDU %d; use IEEE NaN for null values instead.", kw, hdu)
		}
	case WarnDeprecated:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Remove or replace deprecated keyword '%s' in HDU %d.", kw, hdu)
		}
		if !s.hint.overrideEx {
			switch kw {
			case "EPOCH":
				explain = "'EPOCH' is deprecated in favor of 'EQUINOX'. See FITS Standard Section 8.3."
			case "BLOCKED":
				explain = "'BLOCKED' is deprecated and should be removed; it was related to tape blocking which is no longer relevant."
			}
		}
	case WarnZeroScale:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Set '%s' in HDU %d to a non-zero value.", kw, hdu)
			explain = fmt.Sprintf("A scale factor of zero for '%s' would map all raw values to the same physical value (the offset). The formula is: physical = raw * %s + offset. See FITS Standard %s.",
				kw, kw, sectionOr(entry.Section, "Section 4.4.2.1"))
		}
	case WarnDuplicateKeyword:
		if hasKw && !overridden {
			fix = fmt.Sprintf("Remove the duplicate '%s' keyword in HDU %d, or rename one of the copies.", kw, hdu)
			explain = fmt.Sprintf("'%s' appears more than once in the header of HDU %d. Only COMMENT, HISTORY, blank, and CONTINUE keywords may be duplicated. See FITS Standard Section 4.4.1.", kw, hdu)
		}
	case NonASCIIData, BadLogicalData, BitNotJustified, NoDecimal, EmbeddedSpace:
		if hasCol && !overridden {
			fix = fmt.Sprintf("Column %d in HDU %d: %s", col, hdu, static.fix)
			explain = fmt.Sprintf("Column %d: %s", col, static.explain)
		}
	case VarExceedsMaxLen, VarExceedsHeap:
		if hasCol && !overridden {
			fix = fmt.Sprintf("Column %d in HDU %d: %s", col, hdu, static.fix)
		}
	case WarnVarExceeds32bit:
		if hasCol && !s.hint.overrideFx {
			fix = fmt.Sprintf("Column %d in HDU %d: use 'Q' format (64-bit descriptor) instead of 'P' for large variable-length arrays.", col, hdu)
		}
	case WCSAxesOrder:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Move WCSAXES before keyword '%s' in HDU %d.", kw, hdu)
		}
	case WCSIndex:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Keyword '%s' in HDU %d: reduce the axis index to not exceed the WCSAXES value.", kw, hdu)
		}
	case WarnWCSIndex:
		if hasKw && !s.hint.overrideFx {
			fix = fmt.Sprintf("Keyword '%s' in HDU %d: add a WCSAXES keyword, or ensure WCS indices do not exceed NAXIS.", kw, hdu)
		}
	default:
		if !overridden {
			if hasKw && static.fix != "" {
				fix = fmt.Sprintf("Keyword '%s' in HDU %d: %s", kw, hdu, static.fix)
			} else if hasCol && static.fix != "" {
				fix = fmt.Sprintf("Column %d in HDU %d: %s", col, hdu, static.fix)
			}
		}
	}
	return fix, explain
}
