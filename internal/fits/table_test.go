package fits

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildBinaryTable builds a two-HDU FITS stream (primary + binary table)
// with the given rows and heap.
func buildBinaryTable(t *testing.T, tforms []string, rowlen int, rows [][]byte, heap []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(buildHDU([][]byte{
		testCard("SIMPLE", "T", ""),
		testCard("BITPIX", "8", ""),
		testCard("NAXIS", "0", ""),
	}, nil))

	cards := [][]byte{
		testCard("XTENSION", "'BINTABLE'", ""),
		testCard("BITPIX", "8", ""),
		testCard("NAXIS", "2", ""),
		testCard("NAXIS1", itoa(rowlen), ""),
		testCard("NAXIS2", itoa(len(rows)), ""),
		testCard("PCOUNT", itoa(len(heap)), ""),
		testCard("GCOUNT", "1", ""),
		testCard("TFIELDS", itoa(len(tforms)), ""),
	}
	for i, form := range tforms {
		cards = append(cards, testCard("TFORM"+itoa(i+1), "'"+form+"'", ""))
	}
	var data bytes.Buffer
	for _, r := range rows {
		if len(r) != rowlen {
			t.Fatalf("row length %d != NAXIS1 %d", len(r), rowlen)
		}
		data.Write(r)
	}
	data.Write(heap)
	buf.Write(buildHDU(cards, data.Bytes()))
	return buf.Bytes()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

func TestTableLayoutAndCells(t *testing.T) {
	rows := [][]byte{
		append([]byte{0, 0, 0, 1}, []byte{'T', 'a', 'b', 'c'}...),
		append([]byte{0, 0, 0, 2}, []byte{'F', 'x', 'y', 'z'}...),
	}
	data := buildBinaryTable(t, []string{"1J", "1L", "3A"}, 8, rows, nil)
	f, err := OpenMem(data, "")
	if err != nil {
		t.Fatalf("OpenMem: %v", err)
	}
	defer f.Close()
	if err := f.MoveTo(2); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	ncols, err := f.NumCols()
	if err != nil || ncols != 3 {
		t.Fatalf("NumCols = %d, %v", ncols, err)
	}
	ci, err := f.Column(2)
	if err != nil {
		t.Fatalf("Column(2): %v", err)
	}
	if ci.Type != 'L' || ci.ByteOff != 4 || ci.Width != 1 {
		t.Fatalf("Column(2) = %+v", ci)
	}
	cell, err := f.ReadCell(3, 2)
	if err != nil {
		t.Fatalf("ReadCell: %v", err)
	}
	if string(cell) != "xyz" {
		t.Fatalf("cell = %q", cell)
	}

	var seen []int64
	err = f.IterateColumns([]int{1}, func(row int64, cells [][]byte) error {
		seen = append(seen, int64(binary.BigEndian.Uint32(cells[0])))
		return nil
	})
	if err != nil {
		t.Fatalf("IterateColumns: %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("iterated values = %v", seen)
	}
}

func TestReadDescriptorAndHeap(t *testing.T) {
	// one 1PB(4) column; row 1 points at 3 heap bytes, offset 2
	row := make([]byte, 8)
	binary.BigEndian.PutUint32(row[0:4], 3)
	binary.BigEndian.PutUint32(row[4:8], 2)
	heap := []byte{0, 0, 'a', 'b', 'c'}
	data := buildBinaryTable(t, []string{"1PB(4)"}, 8, [][]byte{row}, heap)
	f, err := OpenMem(data, "")
	if err != nil {
		t.Fatalf("OpenMem: %v", err)
	}
	defer f.Close()
	f.MoveTo(2)
	length, off, err := f.ReadDescriptor(1, 1)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if length != 3 || off != 2 {
		t.Fatalf("descriptor = (%d, %d)", length, off)
	}
	buf, err := f.ReadHeapBytes(off, int(length))
	if err != nil {
		t.Fatalf("ReadHeapBytes: %v", err)
	}
	if string(buf) != "abc" {
		t.Fatalf("heap bytes = %q", buf)
	}
}

func TestVerifyChecksumRoundTrip(t *testing.T) {
	pixels := make([]byte, 200)
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}
	build := func(datasum string) []byte {
		cards := [][]byte{
			testCard("SIMPLE", "T", ""),
			testCard("BITPIX", "16", ""),
			testCard("NAXIS", "2", ""),
			testCard("NAXIS1", "10", ""),
			testCard("NAXIS2", "10", ""),
			testCard("DATASUM", "'"+datasum+"'", ""),
			testCard("CHECKSUM", "'0000000000000000'", ""),
		}
		return buildHDU(cards, pixels)
	}

	// first pass computes the data sum over the padded data region
	probe := build("0")
	dsum := AddChecksum(0, probe[BlockSize:])
	stream := build(itoa(int(dsum)))

	total := AddChecksum(0, stream)
	enc := EncodeChecksum(total, true)
	placeholder := []byte("'0000000000000000'")
	at := bytes.Index(stream, placeholder)
	if at < 0 {
		t.Fatal("placeholder not found")
	}
	copy(stream[at+1:], enc)

	f, err := OpenMem(stream, "")
	if err != nil {
		t.Fatalf("OpenMem: %v", err)
	}
	defer f.Close()
	f.MoveTo(1)
	dataOK, hduOK, err := f.VerifyChecksum()
	if err != nil {
		t.Fatalf("VerifyChecksum: %v", err)
	}
	if dataOK != 1 {
		t.Fatalf("dataOK = %d, want 1", dataOK)
	}
	if hduOK != 1 {
		t.Fatalf("hduOK = %d, want 1", hduOK)
	}

	// corrupt one data byte: both sums must now fail
	stream[BlockSize+5] ^= 0xFF
	f2, err := OpenMem(stream, "")
	if err != nil {
		t.Fatalf("OpenMem corrupt: %v", err)
	}
	defer f2.Close()
	f2.MoveTo(1)
	dataOK, hduOK, err = f2.VerifyChecksum()
	if err != nil {
		t.Fatalf("VerifyChecksum corrupt: %v", err)
	}
	if dataOK != -1 || hduOK != -1 {
		t.Fatalf("corrupt sums = (%d, %d), want (-1, -1)", dataOK, hduOK)
	}
}

func TestChecksumAbsentKeywords(t *testing.T) {
	f, err := OpenMem(minimalImage(t), "")
	if err != nil {
		t.Fatalf("OpenMem: %v", err)
	}
	defer f.Close()
	f.MoveTo(1)
	dataOK, hduOK, err := f.VerifyChecksum()
	if err != nil {
		t.Fatalf("VerifyChecksum: %v", err)
	}
	if dataOK != 0 || hduOK != 0 {
		t.Fatalf("sums = (%d, %d), want (0, 0)", dataOK, hduOK)
	}
}
