package verify

import (
	"bytes"
	"fmt"
	"testing"

	"example.com/fitsgate/internal/fits"
)

// asciiTable renders an ASCII-table extension HDU.
func asciiTable(tforms []string, tbcols []int, rowlen int, rows []string) []byte {
	cards := [][]byte{
		testCard("XTENSION", "'TABLE   '", ""),
		testCard("BITPIX", "8", ""),
		testCard("NAXIS", "2", ""),
		testCard("NAXIS1", fmt.Sprintf("%d", rowlen), ""),
		testCard("NAXIS2", fmt.Sprintf("%d", len(rows)), ""),
		testCard("PCOUNT", "0", ""),
		testCard("GCOUNT", "1", ""),
		testCard("TFIELDS", fmt.Sprintf("%d", len(tforms)), ""),
	}
	for i, form := range tforms {
		cards = append(cards, testCard(fmt.Sprintf("TFORM%d", i+1), "'"+form+"'", ""))
		cards = append(cards, testCard(fmt.Sprintf("TBCOL%d", i+1), fmt.Sprintf("%d", tbcols[i]), ""))
	}
	var data bytes.Buffer
	for _, r := range rows {
		data.WriteString(r)
	}
	return buildHDU(cards, data.Bytes())
}

func withPrimary(hdus ...[]byte) []byte {
	var buf bytes.Buffer
	buf.Write(emptyPrimary())
	for _, h := range hdus {
		buf.Write(h)
	}
	return buf.Bytes()
}

func TestBadLogicalColumn(t *testing.T) {
	rows := [][]byte{{'T'}, {'X'}, {'F'}}
	data := withPrimary(binaryTable(nil, []string{"1L"}, 1, 0, rows, nil))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	found := c.withCode(BadLogicalData)
	if len(found) != 1 {
		t.Fatalf("bad-logical diagnostics = %d, want 1 (first violation only)", len(found))
	}
	if !containsAll(found[0].Text, "row #2", "column #1") {
		t.Fatalf("text = %q", found[0].Text)
	}
}

func TestBitColumnFill(t *testing.T) {
	// 3X: mask for the final byte is 0x1F; 0xFF has fill bits set
	rows := [][]byte{{0xE0}, {0xFF}, {0xFF}}
	data := withPrimary(binaryTable(nil, []string{"3X"}, 1, 0, rows, nil))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	found := c.withCode(BitNotJustified)
	if len(found) != 1 {
		t.Fatalf("bit diagnostics = %d, want 1", len(found))
	}
	if found[0].Severity != SevSevere {
		t.Fatalf("severity = %v", found[0].Severity)
	}
}

func TestNonASCIIStringColumn(t *testing.T) {
	rows := [][]byte{{'o', 'k', 0, 0}, {'b', 0xC3, 0xA9, 0}}
	data := withPrimary(binaryTable(nil, []string{"4A"}, 4, 0, rows, nil))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(NonASCIIData)) != 1 {
		t.Fatalf("diags = %+v", c.diags)
	}
}

func TestAsciiTableDecimalAndSpace(t *testing.T) {
	// column 1: F5.1 float, column 2: I3 integer
	rows := []string{
		" 12.5 17",
		" 1234 18", // no decimal point
		" 1 .5 19", // embedded space
	}
	data := withPrimary(asciiTable([]string{"F5.1", "I3"}, []int{1, 7}, 9, padRows(rows, 9)))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(NoDecimal)) != 1 {
		t.Fatalf("no-decimal diags = %d, want 1", len(c.withCode(NoDecimal)))
	}
	if len(c.withCode(EmbeddedSpace)) != 1 {
		t.Fatalf("embedded-space diags = %d, want 1", len(c.withCode(EmbeddedSpace)))
	}
}

func padRows(rows []string, width int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		for len(r) < width {
			r += " "
		}
		out[i] = r
	}
	return out
}

func TestAsciiTableNonASCIIByte(t *testing.T) {
	rows := []string{"abc", "d\xfff"}
	data := withPrimary(asciiTable([]string{"A3"}, []int{1}, 3, rows))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(NonASCIITable)) == 0 {
		t.Fatalf("diags = %+v", c.diags)
	}
}

func TestDataFillBytes(t *testing.T) {
	data := minimalImage()
	// corrupt one byte of the data padding area
	data[fits.BlockSize+300] = 7
	state := NewState()
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(DataFill)) != 1 {
		t.Fatalf("data-fill diags = %+v", c.diags)
	}
}

func TestHeaderFillBytes(t *testing.T) {
	data := minimalImage()
	// corrupt one byte between END and the end of the header block
	data[6*fits.CardSize+10] = 'x'
	state := NewState()
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(HeaderFill)) != 1 {
		t.Fatalf("header-fill diags = %+v", c.diags)
	}
}

func TestFillChecksDisabled(t *testing.T) {
	data := minimalImage()
	data[fits.BlockSize+300] = 7
	state := NewState()
	state.SetOption(OptTestFill, 0)
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(DataFill)) != 0 {
		t.Fatal("fill check ran despite option off")
	}
}

func TestChecksumMismatchWarns(t *testing.T) {
	cards := minimalImageCards()
	cards = append(cards, testCard("DATASUM", "'12345   '", ""))
	data := buildHDU(cards, make([]byte, 200))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	found := c.withCode(WarnBadChecksum)
	if len(found) != 1 {
		t.Fatalf("checksum warnings = %d, want 1", len(found))
	}
	if !containsAll(found[0].Text, "DATASUM") {
		t.Fatalf("text = %q", found[0].Text)
	}
}

func TestVarDescriptorExceedsHeap(t *testing.T) {
	row := make([]byte, 8)
	row[3] = 4  // length 4
	row[7] = 20 // offset 20: 20 + 4*4 > pcount 16
	data := withPrimary(binaryTable(nil, []string{"1PE"}, 8, 16, [][]byte{row}, make([]byte, 16)))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	found := c.withCode(VarExceedsHeap)
	if len(found) != 1 {
		t.Fatalf("heap diags = %+v", c.diags)
	}
	if found[0].Severity != SevSevere {
		t.Fatalf("severity = %v", found[0].Severity)
	}
}

func TestVarLogicalInnerValues(t *testing.T) {
	row := make([]byte, 8)
	row[3] = 3 // length 3, offset 0
	heap := []byte{'T', 'Q', 'F', 0}
	data := withPrimary(binaryTable(nil, []string{"1PL(4)"}, 8, 4, [][]byte{row}, heap))
	state := NewState()
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(BadLogicalData)) != 1 {
		t.Fatalf("diags = %+v", c.diags)
	}
}

func TestDataChecksDisabled(t *testing.T) {
	rows := [][]byte{{'X'}}
	data := withPrimary(binaryTable(nil, []string{"1L"}, 1, 0, rows, nil))
	state := NewState()
	state.SetOption(OptTestData, 0)
	_, c := verifyBytes(t, state, data)
	if len(c.withCode(BadLogicalData)) != 0 {
		t.Fatal("data check ran despite option off")
	}
}
