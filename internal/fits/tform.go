package fits

import (
	"strconv"
	"strings"
)

// TFormInfo is the decoded form of a binary-table TFORMn value.
type TFormInfo struct {
	Repeat    int64
	Type      byte  // L X B I J K A E D C M
	ElemBytes int   // size of one element; bit columns report 0
	IsVar     bool  // P or Q descriptor column
	IsQ       bool  // 64-bit descriptor form
	MaxVarLen int64 // declared max for var columns, -1 when absent
	SubWidth  int   // w of the rAw convention, 0 when absent
}

// elemBytesFor maps a binary-table type code to its element size in bytes.
func elemBytesFor(code byte) (int, bool) {
	switch code {
	case 'L', 'B', 'A':
		return 1, true
	case 'X':
		return 0, true // bit column, packed
	case 'I':
		return 2, true
	case 'J', 'E':
		return 4, true
	case 'K', 'D', 'C':
		return 8, true
	case 'M':
		return 16, true
	}
	return 0, false
}

// ParseTFormBin decodes a binary-table TFORM value: rT, rPT(max), rQT(max),
// and the rAw substring convention.
func ParseTFormBin(form string) (TFormInfo, error) {
	info := TFormInfo{Repeat: 1, MaxVarLen: -1}
	s := strings.TrimSpace(form)
	if s == "" {
		return info, ErrBadTForm
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 {
		r, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return info, ErrBadTForm
		}
		info.Repeat = r
	}
	if i >= len(s) {
		return info, ErrBadTForm
	}
	if s[i] == 'P' || s[i] == 'Q' {
		info.IsVar = true
		info.IsQ = s[i] == 'Q'
		i++
		if i >= len(s) {
			return info, ErrBadTForm
		}
	}
	code := s[i]
	eb, ok := elemBytesFor(code)
	if !ok {
		return info, ErrBadTForm
	}
	info.Type = code
	info.ElemBytes = eb
	i++
	rest := s[i:]
	if info.IsVar {
		if strings.HasPrefix(rest, "(") {
			close := strings.IndexByte(rest, ')')
			if close < 0 {
				return info, ErrBadTForm
			}
			m, err := strconv.ParseInt(rest[1:close], 10, 64)
			if err != nil {
				return info, ErrBadTForm
			}
			info.MaxVarLen = m
		}
		return info, nil
	}
	if code == 'A' && rest != "" {
		w, err := strconv.Atoi(rest)
		if err != nil || w <= 0 {
			return info, ErrBadTForm
		}
		info.SubWidth = w
	}
	return info, nil
}

// CellBytes reports the width of one fixed-table cell for this format.
func (t TFormInfo) CellBytes() int64 {
	if t.IsVar {
		if t.IsQ {
			return 16
		}
		return 8
	}
	if t.Type == 'X' {
		return (t.Repeat + 7) / 8
	}
	return t.Repeat * int64(t.ElemBytes)
}

// AsciiTFormInfo is the decoded form of an ASCII-table TFORMn value.
type AsciiTFormInfo struct {
	Type     byte // A I F E D
	Width    int
	Decimals int
}

// ParseTFormASCII decodes an ASCII-table TFORM value: Aw, Iw, Fw.d, Ew.d,
// Dw.d.
func ParseTFormASCII(form string) (AsciiTFormInfo, error) {
	var info AsciiTFormInfo
	s := strings.TrimSpace(form)
	if s == "" {
		return info, ErrBadTForm
	}
	switch s[0] {
	case 'A', 'I', 'F', 'E', 'D':
		info.Type = s[0]
	default:
		return info, ErrBadTForm
	}
	rest := s[1:]
	if rest == "" {
		return info, ErrBadTForm
	}
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		if info.Type == 'A' || info.Type == 'I' {
			return info, ErrBadTForm
		}
		w, err := strconv.Atoi(rest[:dot])
		if err != nil || w <= 0 {
			return info, ErrBadTForm
		}
		d, err := strconv.Atoi(rest[dot+1:])
		if err != nil || d < 0 {
			return info, ErrBadTForm
		}
		info.Width = w
		info.Decimals = d
		return info, nil
	}
	w, err := strconv.Atoi(rest)
	if err != nil || w <= 0 {
		return info, ErrBadTForm
	}
	info.Width = w
	return info, nil
}

// IsFloat reports whether an ASCII-table type code denotes a
// floating-point column.
func (a AsciiTFormInfo) IsFloat() bool {
	return a.Type == 'F' || a.Type == 'E' || a.Type == 'D'
}
