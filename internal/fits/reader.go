package fits

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// File is an open FITS stream positioned at one HDU at a time.
type File struct {
	src      dataSource
	label    string
	hdus     []hduInfo
	cur      int // 0-based index of the current HDU
	cols     []column
	colsFor  int // HDU index the cached layout belongs to, -1 = none
	errstack []string
}

// Open opens a FITS file on disk and scans its HDU structure.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, err
	}
	f := &File{
		src:     newBlockSource(fh, info.Size(), 0),
		label:   path,
		colsFor: -1,
	}
	if err := f.scan(); err != nil {
		f.src.Close()
		return nil, err
	}
	return f, nil
}

// OpenMem opens a FITS stream held in memory. The buffer is borrowed, not
// copied; it must stay valid until Close.
func OpenMem(buf []byte, label string) (*File, error) {
	if label == "" {
		label = "<memory>"
	}
	f := &File{
		src:     &memSource{data: buf},
		label:   label,
		colsFor: -1,
	}
	if err := f.scan(); err != nil {
		f.src.Close()
		return nil, err
	}
	return f, nil
}

// Close releases the underlying source. Safe to call on a nil File.
func (f *File) Close() error {
	if f == nil || f.src == nil {
		return nil
	}
	err := f.src.Close()
	f.src = nil
	return err
}

func (f *File) Label() string { return f.label }

// Size reports the total length of the underlying stream in bytes.
func (f *File) Size() int64 { return f.src.Size() }

// HDUCount reports the number of structurally complete HDUs found by the
// open scan.
func (f *File) HDUCount() int { return len(f.hdus) }

// scan walks the stream once, recording the geometry of every HDU.
func (f *File) scan() error {
	size := f.src.Size()
	off := int64(0)
	for off < size {
		h, err := f.scanHeader(off, len(f.hdus) == 0)
		if err != nil {
			if len(f.hdus) == 0 {
				return err
			}
			// Later HDU failed to parse. Keep what was found; the
			// trailing bytes are reported by the file-level checks.
			f.pushErr(fmt.Sprintf("HDU %d: %v", len(f.hdus)+1, err))
			break
		}
		if h.dataEnd > size {
			if len(f.hdus) == 0 {
				return fmt.Errorf("data region of HDU 1 extends past end of file (need %d bytes, have %d)", h.dataEnd, size)
			}
			f.pushErr(fmt.Sprintf("data region of HDU %d extends past end of file", len(f.hdus)+1))
			break
		}
		f.hdus = append(f.hdus, h)
		off = h.dataEnd
	}
	if len(f.hdus) == 0 {
		return ErrNotFITS
	}
	return nil
}

func (f *File) scanHeader(start int64, primary bool) (hduInfo, error) {
	h := hduInfo{headerStart: start, naxes: nil, gcount: 1}
	first, err := sliceExact(f.src, start, CardSize)
	if err != nil {
		return h, ErrNoEND
	}
	name0 := cardName(first)
	if primary {
		if name0 != "SIMPLE" {
			return h, ErrNotFITS
		}
		h.typ = PrimaryHDU
	} else {
		if name0 != "XTENSION" {
			return h, fmt.Errorf("expected XTENSION card at byte %d", start)
		}
		switch strings.TrimSpace(cardStringValue(first)) {
		case "IMAGE", "IUEIMAGE":
			h.typ = ImageExt
		case "TABLE":
			h.typ = AsciiTable
		case "BINTABLE", "A3DTABLE":
			h.typ = BinaryTable
		default:
			h.typ = UnknownHDU
		}
	}

	foundEnd := false
	var i int
	for i = 0; ; i++ {
		card, err := sliceExact(f.src, start+int64(i)*CardSize, CardSize)
		if err != nil {
			return h, ErrNoEND
		}
		name := cardName(card)
		if name == "END" {
			foundEnd = true
			h.ncards = i
			h.endCardOff = start + int64(i+1)*CardSize
			break
		}
		switch {
		case name == "BITPIX":
			if v, ok := cardIntValue(card); ok {
				h.bitpix = int(v)
			}
		case name == "NAXIS":
			if v, ok := cardIntValue(card); ok {
				h.naxis = int(v)
			}
		case name == "PCOUNT":
			if v, ok := cardIntValue(card); ok {
				h.pcount = v
			}
		case name == "GCOUNT":
			if v, ok := cardIntValue(card); ok {
				h.gcount = v
			}
		case name == "GROUPS":
			h.groups = cardLogicalValue(card)
		case strings.HasPrefix(name, "NAXIS"):
			if n, err := strconv.Atoi(name[5:]); err == nil && n >= 1 {
				if v, ok := cardIntValue(card); ok {
					for len(h.naxes) < n {
						h.naxes = append(h.naxes, 0)
					}
					h.naxes[n-1] = v
				}
			}
		}
	}
	if !foundEnd {
		return h, ErrNoEND
	}
	h.groups = h.groups && h.naxis >= 1 && len(h.naxes) > 0 && h.naxes[0] == 0
	h.dataStart = padTo(h.endCardOff, BlockSize)
	h.dataEnd = h.dataStart + padTo(h.dataSize(), BlockSize)
	return h, nil
}

// MoveTo positions the File at the given 1-based HDU index.
func (f *File) MoveTo(index int) error {
	if index < 1 || index > len(f.hdus) {
		f.pushErr(fmt.Sprintf("cannot move to HDU %d: file has %d HDUs", index, len(f.hdus)))
		return ErrNoSuchHDU
	}
	f.cur = index - 1
	return nil
}

// MoveRelative moves by delta HDUs. Moving past the last HDU returns
// ErrEndOfFile; this is how callers probe for extraneous HDUs.
func (f *File) MoveRelative(delta int) error {
	idx := f.cur + delta
	if idx >= len(f.hdus) {
		return ErrEndOfFile
	}
	if idx < 0 {
		return ErrNoSuchHDU
	}
	f.cur = idx
	return nil
}

// CurrentIndex reports the 1-based index of the current HDU.
func (f *File) CurrentIndex() int { return f.cur + 1 }

// CurrentType reports the type of the current HDU.
func (f *File) CurrentType() HDUType { return f.hdus[f.cur].typ }

// IsRandomGroups reports whether the current HDU uses the random-groups
// convention (GROUPS = T with NAXIS1 = 0).
func (f *File) IsRandomGroups() bool { return f.hdus[f.cur].groups }

// NumCards reports the number of cards in the current header, excluding END.
func (f *File) NumCards() int { return f.hdus[f.cur].ncards }

// ReadCard returns the raw 80-byte card at 1-based position i. Position
// NumCards()+1 is the END card.
func (f *File) ReadCard(i int) ([]byte, error) {
	h := &f.hdus[f.cur]
	if i < 1 || i > h.ncards+1 {
		f.pushErr(fmt.Sprintf("card %d out of range (header has %d cards)", i, h.ncards))
		return nil, ErrKeyNotFound
	}
	card, err := sliceExact(f.src, h.headerStart+int64(i-1)*CardSize, CardSize)
	if err != nil {
		f.pushErr(fmt.Sprintf("reading card %d: %v", i, err))
		return nil, err
	}
	out := make([]byte, CardSize)
	copy(out, card)
	return out, nil
}

func (f *File) findCard(name string) ([]byte, bool) {
	h := &f.hdus[f.cur]
	for i := 0; i < h.ncards; i++ {
		card, err := sliceExact(f.src, h.headerStart+int64(i)*CardSize, CardSize)
		if err != nil {
			return nil, false
		}
		if cardName(card) == name {
			return card, true
		}
	}
	return nil, false
}

// ReadKeyInt reads an integer-valued keyword from the current header.
func (f *File) ReadKeyInt(name string) (int64, error) {
	card, ok := f.findCard(name)
	if !ok {
		f.pushErr(fmt.Sprintf("keyword %s not found in HDU %d", name, f.cur+1))
		return 0, ErrKeyNotFound
	}
	v, ok := cardIntValue(card)
	if !ok {
		f.pushErr(fmt.Sprintf("keyword %s does not have an integer value", name))
		return 0, fmt.Errorf("keyword %s: not an integer", name)
	}
	return v, nil
}

// ReadKeyFloat reads a floating-point keyword, accepting the FITS D
// exponent form.
func (f *File) ReadKeyFloat(name string) (float64, error) {
	card, ok := f.findCard(name)
	if !ok {
		f.pushErr(fmt.Sprintf("keyword %s not found in HDU %d", name, f.cur+1))
		return 0, ErrKeyNotFound
	}
	raw := strings.TrimSpace(cardRawValue(card))
	raw = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.pushErr(fmt.Sprintf("keyword %s does not have a numeric value", name))
		return 0, fmt.Errorf("keyword %s: not a number", name)
	}
	return v, nil
}

// ReadKeyString reads a string keyword. Quotes are stripped and doubled
// quotes collapsed.
func (f *File) ReadKeyString(name string) (string, error) {
	card, ok := f.findCard(name)
	if !ok {
		f.pushErr(fmt.Sprintf("keyword %s not found in HDU %d", name, f.cur+1))
		return "", ErrKeyNotFound
	}
	return cardStringValue(card), nil
}

// ReadKeyLogical reads a logical keyword.
func (f *File) ReadKeyLogical(name string) (bool, error) {
	card, ok := f.findCard(name)
	if !ok {
		f.pushErr(fmt.Sprintf("keyword %s not found in HDU %d", name, f.cur+1))
		return false, ErrKeyNotFound
	}
	return cardLogicalValue(card), nil
}

// HasKey reports whether the current header carries the keyword.
func (f *File) HasKey(name string) bool {
	_, ok := f.findCard(name)
	return ok
}

// HDUByteRange reports the byte extent of the current HDU.
func (f *File) HDUByteRange() (headerStart, dataStart, dataEnd int64) {
	h := &f.hdus[f.cur]
	return h.headerStart, h.dataStart, h.dataEnd
}

// PositionAt probes whether the stream has at least one byte at offset.
// Returns ErrPastEnd when the offset is at or beyond the end of the stream.
func (f *File) PositionAt(offset int64) error {
	if offset < 0 || offset >= f.src.Size() {
		return ErrPastEnd
	}
	return nil
}

// HeaderFillBytes returns the bytes between the END card and the end of the
// header block.
func (f *File) HeaderFillBytes() ([]byte, error) {
	h := &f.hdus[f.cur]
	n := int(h.dataStart - h.endCardOff)
	if n == 0 {
		return nil, nil
	}
	return sliceExact(f.src, h.endCardOff, n)
}

// DataFillBytes returns the padding bytes between the end of the data and
// the 2880-byte boundary of the current HDU.
func (f *File) DataFillBytes() ([]byte, error) {
	h := &f.hdus[f.cur]
	used := h.dataStart + h.dataSize()
	n := int(h.dataEnd - used)
	if n == 0 {
		return nil, nil
	}
	return sliceExact(f.src, used, n)
}

// ReadBytesAt reads n raw bytes at the given absolute offset.
func (f *File) ReadBytesAt(offset int64, n int) ([]byte, error) {
	b, err := sliceExact(f.src, offset, n)
	if err != nil {
		f.pushErr(fmt.Sprintf("reading %d bytes at offset %d: %v", n, offset, err))
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ---- reader error stack -------------------------------------------------

func (f *File) pushErr(msg string) {
	if len(f.errstack) < 20 {
		f.errstack = append(f.errstack, msg)
	}
}

// ErrStackMessage pops the oldest message from the reader error stack, or
// returns "" when the stack is empty.
func (f *File) ErrStackMessage() string {
	if len(f.errstack) == 0 {
		return ""
	}
	msg := f.errstack[0]
	f.errstack = f.errstack[1:]
	return msg
}

// ClearErrStack drops any pending reader error messages.
func (f *File) ClearErrStack() {
	f.errstack = f.errstack[:0]
}

// ---- minimal card value extraction --------------------------------------
//
// The reader parses card values only as far as it needs for structure and
// typed keyword reads. Full syntax diagnosis belongs to the verification
// engine's card parser.

func cardName(card []byte) string {
	n := card
	if len(n) > 8 {
		n = n[:8]
	}
	return strings.TrimRight(string(n), " ")
}

// cardRawValue returns the value field with any trailing comment removed.
func cardRawValue(card []byte) string {
	if len(card) < 10 || card[8] != '=' {
		return ""
	}
	body := card[10:]
	// a quoted string may contain '/'
	trimmed := bytes.TrimLeft(body, " ")
	if len(trimmed) > 0 && trimmed[0] == '\'' {
		end := closeQuote(trimmed)
		if end < 0 {
			return string(trimmed)
		}
		return string(trimmed[:end+1])
	}
	if i := bytes.IndexByte(body, '/'); i >= 0 {
		body = body[:i]
	}
	return string(body)
}

// closeQuote finds the index of the closing quote in a quoted value,
// honouring the doubled-quote escape. Returns -1 when unterminated.
func closeQuote(b []byte) int {
	for i := 1; i < len(b); i++ {
		if b[i] != '\'' {
			continue
		}
		if i+1 < len(b) && b[i+1] == '\'' {
			i++
			continue
		}
		return i
	}
	return -1
}

func cardIntValue(card []byte) (int64, bool) {
	raw := strings.TrimSpace(cardRawValue(card))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func cardLogicalValue(card []byte) bool {
	return strings.TrimSpace(cardRawValue(card)) == "T"
}

func cardStringValue(card []byte) string {
	raw := strings.TrimSpace(cardRawValue(card))
	if len(raw) < 2 || raw[0] != '\'' {
		return raw
	}
	end := closeQuote([]byte(raw))
	if end < 0 {
		end = len(raw)
	}
	inner := raw[1:end]
	inner = strings.ReplaceAll(inner, "''", "'")
	return strings.TrimRight(inner, " ")
}
