package fits

import (
	"encoding/binary"
	"fmt"
)

// column is one entry of a table layout cached per HDU.
type column struct {
	num     int
	form    string
	bin     TFormInfo
	asc     AsciiTFormInfo
	byteOff int64 // offset within a row
	width   int64 // cell width in bytes
}

// ColumnInfo is the reader-declared description of one table column.
type ColumnInfo struct {
	Form      string
	Type      byte
	Repeat    int64
	ElemBytes int
	Width     int64
	ByteOff   int64
	Decimals  int
	IsVar     bool
	IsQ       bool
	MaxVarLen int64
	IsFloat   bool // ASCII tables only
}

// layout builds and caches the column layout of the current table HDU.
func (f *File) layout() ([]column, error) {
	if f.colsFor == f.cur {
		return f.cols, nil
	}
	typ := f.CurrentType()
	if typ != AsciiTable && typ != BinaryTable {
		return nil, ErrNotTable
	}
	tfields, err := f.ReadKeyInt("TFIELDS")
	if err != nil {
		return nil, err
	}
	cols := make([]column, 0, tfields)
	off := int64(0)
	for n := 1; n <= int(tfields); n++ {
		form, err := f.ReadKeyString(fmt.Sprintf("TFORM%d", n))
		if err != nil {
			return nil, err
		}
		c := column{num: n, form: form}
		if typ == BinaryTable {
			info, err := ParseTFormBin(form)
			if err != nil {
				f.pushErr(fmt.Sprintf("column %d: cannot parse TFORM%d = '%s'", n, n, form))
				return nil, err
			}
			c.bin = info
			c.width = info.CellBytes()
			c.byteOff = off
			off += c.width
		} else {
			info, err := ParseTFormASCII(form)
			if err != nil {
				f.pushErr(fmt.Sprintf("column %d: cannot parse TFORM%d = '%s'", n, n, form))
				return nil, err
			}
			tbcol, err := f.ReadKeyInt(fmt.Sprintf("TBCOL%d", n))
			if err != nil {
				return nil, err
			}
			c.asc = info
			c.width = int64(info.Width)
			c.byteOff = tbcol - 1
		}
		cols = append(cols, c)
	}
	f.cols = cols
	f.colsFor = f.cur
	return cols, nil
}

// NumCols reports the column count of the current table HDU.
func (f *File) NumCols() (int, error) {
	cols, err := f.layout()
	if err != nil {
		return 0, err
	}
	return len(cols), nil
}

// Column describes the given 1-based column of the current table HDU.
func (f *File) Column(n int) (ColumnInfo, error) {
	cols, err := f.layout()
	if err != nil {
		return ColumnInfo{}, err
	}
	if n < 1 || n > len(cols) {
		return ColumnInfo{}, ErrNoSuchCol
	}
	c := cols[n-1]
	info := ColumnInfo{
		Form:    c.form,
		Width:   c.width,
		ByteOff: c.byteOff,
	}
	if f.CurrentType() == BinaryTable {
		info.Type = c.bin.Type
		info.Repeat = c.bin.Repeat
		info.ElemBytes = c.bin.ElemBytes
		info.IsVar = c.bin.IsVar
		info.IsQ = c.bin.IsQ
		info.MaxVarLen = c.bin.MaxVarLen
	} else {
		info.Type = c.asc.Type
		info.Repeat = 1
		info.Decimals = c.asc.Decimals
		info.IsFloat = c.asc.IsFloat()
	}
	return info, nil
}

// NumRows reports NAXIS2 of the current table HDU.
func (f *File) NumRows() (int64, error) {
	return f.ReadKeyInt("NAXIS2")
}

// RowLength reports NAXIS1 of the current table HDU.
func (f *File) RowLength() (int64, error) {
	return f.ReadKeyInt("NAXIS1")
}

// ReadCell returns the raw bytes of one fixed-table cell. Row and column
// numbers are 1-based.
func (f *File) ReadCell(col int, row int64) ([]byte, error) {
	cols, err := f.layout()
	if err != nil {
		return nil, err
	}
	if col < 1 || col > len(cols) {
		return nil, ErrNoSuchCol
	}
	rowlen, err := f.RowLength()
	if err != nil {
		return nil, err
	}
	c := cols[col-1]
	h := &f.hdus[f.cur]
	off := h.dataStart + (row-1)*rowlen + c.byteOff
	b, err := sliceExact(f.src, off, int(c.width))
	if err != nil {
		f.pushErr(fmt.Sprintf("reading row %d column %d: %v", row, col, err))
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadRowBytes returns the raw bytes of one full table row.
func (f *File) ReadRowBytes(row int64) ([]byte, error) {
	rowlen, err := f.RowLength()
	if err != nil {
		return nil, err
	}
	h := &f.hdus[f.cur]
	off := h.dataStart + (row-1)*rowlen
	b, err := sliceExact(f.src, off, int(rowlen))
	if err != nil {
		f.pushErr(fmt.Sprintf("reading row %d: %v", row, err))
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadDescriptor reads the (length, heap offset) pair of a variable-length
// column cell.
func (f *File) ReadDescriptor(col int, row int64) (length, heapOff int64, err error) {
	cell, err := f.ReadCell(col, row)
	if err != nil {
		return 0, 0, err
	}
	cols, _ := f.layout()
	c := cols[col-1]
	if !c.bin.IsVar {
		return 0, 0, fmt.Errorf("column %d is not a variable-length column", col)
	}
	if c.bin.IsQ {
		if len(cell) < 16 {
			return 0, 0, fmt.Errorf("short Q descriptor in column %d", col)
		}
		return int64(binary.BigEndian.Uint64(cell[0:8])), int64(binary.BigEndian.Uint64(cell[8:16])), nil
	}
	if len(cell) < 8 {
		return 0, 0, fmt.Errorf("short P descriptor in column %d", col)
	}
	return int64(binary.BigEndian.Uint32(cell[0:4])), int64(binary.BigEndian.Uint32(cell[4:8])), nil
}

// HeapStart reports the absolute byte offset of the heap of the current
// binary table (THEAP when present, otherwise NAXIS1 * NAXIS2).
func (f *File) HeapStart() (int64, error) {
	h := &f.hdus[f.cur]
	if theap, err := f.ReadKeyInt("THEAP"); err == nil {
		return h.dataStart + theap, nil
	}
	rowlen, err := f.RowLength()
	if err != nil {
		return 0, err
	}
	nrows, err := f.NumRows()
	if err != nil {
		return 0, err
	}
	return h.dataStart + rowlen*nrows, nil
}

// ReadHeapBytes reads n bytes from the heap of the current binary table at
// the given heap-relative offset.
func (f *File) ReadHeapBytes(offset int64, n int) ([]byte, error) {
	base, err := f.HeapStart()
	if err != nil {
		return nil, err
	}
	return f.ReadBytesAt(base+offset, n)
}

// iterBatchBytes caps how many row bytes one iteration batch reads at once.
const iterBatchBytes = 1 << 20

// IterateColumns streams the requested 1-based columns row by row. The
// underlying reads are batched; the callback sees one row at a time with
// one raw cell slice per requested column. Returning an error stops the
// iteration.
func (f *File) IterateColumns(colnums []int, fn func(row int64, cells [][]byte) error) error {
	cols, err := f.layout()
	if err != nil {
		return err
	}
	for _, n := range colnums {
		if n < 1 || n > len(cols) {
			return ErrNoSuchCol
		}
	}
	rowlen, err := f.RowLength()
	if err != nil {
		return err
	}
	nrows, err := f.NumRows()
	if err != nil {
		return err
	}
	if rowlen <= 0 || nrows <= 0 || len(colnums) == 0 {
		return nil
	}
	batch := int64(iterBatchBytes) / rowlen
	if batch < 1 {
		batch = 1
	}
	h := &f.hdus[f.cur]
	cells := make([][]byte, len(colnums))
	for first := int64(1); first <= nrows; first += batch {
		todo := batch
		if first+todo-1 > nrows {
			todo = nrows - first + 1
		}
		raw, err := sliceExact(f.src, h.dataStart+(first-1)*rowlen, int(todo*rowlen))
		if err != nil {
			f.pushErr(fmt.Sprintf("reading rows %d-%d: %v", first, first+todo-1, err))
			return err
		}
		for r := int64(0); r < todo; r++ {
			rowBytes := raw[r*rowlen : (r+1)*rowlen]
			for i, n := range colnums {
				c := cols[n-1]
				cells[i] = rowBytes[c.byteOff : c.byteOff+c.width]
			}
			if err := fn(first+r, cells); err != nil {
				return err
			}
		}
	}
	return nil
}
