package verify

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"example.com/fitsgate/internal/fits"
)

// testCard renders one 80-byte fixed-format card.
func testCard(name, value, comment string) []byte {
	card := make([]byte, fits.CardSize)
	for i := range card {
		card[i] = ' '
	}
	copy(card, name)
	if value == "" {
		copy(card[8:], comment)
		return card
	}
	card[8] = '='
	if len(value) > 0 && value[0] == '\'' {
		// pad the quoted body to 8 characters, as FITS writers do
		inner := strings.TrimSuffix(value[1:], "'")
		for len(inner) < 8 {
			inner += " "
		}
		copy(card[10:], "'"+inner+"'")
	} else {
		copy(card[30-len(value):30], value)
	}
	if comment != "" {
		copy(card[31:], "/ "+comment)
	}
	return card
}

func buildHDU(cards [][]byte, data []byte) []byte {
	var buf bytes.Buffer
	for _, c := range cards {
		buf.Write(c)
	}
	buf.Write(testCard("END", "", ""))
	for buf.Len()%fits.BlockSize != 0 {
		buf.WriteByte(' ')
	}
	buf.Write(data)
	for buf.Len()%fits.BlockSize != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func minimalImageCards() [][]byte {
	return [][]byte{
		testCard("SIMPLE", "T", "conforms to FITS standard"),
		testCard("BITPIX", "16", "bits per pixel"),
		testCard("NAXIS", "2", "number of axes"),
		testCard("NAXIS1", "10", ""),
		testCard("NAXIS2", "10", ""),
	}
}

func minimalImage() []byte {
	return buildHDU(minimalImageCards(), make([]byte, 200))
}

func emptyPrimary() []byte {
	return buildHDU([][]byte{
		testCard("SIMPLE", "T", ""),
		testCard("BITPIX", "8", ""),
		testCard("NAXIS", "0", ""),
	}, nil)
}

// binaryTable renders a binary-table extension HDU.
func binaryTable(extra [][]byte, tforms []string, rowlen, pcount int, rows [][]byte, heap []byte) []byte {
	cards := [][]byte{
		testCard("XTENSION", "'BINTABLE'", ""),
		testCard("BITPIX", "8", ""),
		testCard("NAXIS", "2", ""),
		testCard("NAXIS1", fmt.Sprintf("%d", rowlen), ""),
		testCard("NAXIS2", fmt.Sprintf("%d", len(rows)), ""),
		testCard("PCOUNT", fmt.Sprintf("%d", pcount), ""),
		testCard("GCOUNT", "1", ""),
		testCard("TFIELDS", fmt.Sprintf("%d", len(tforms)), ""),
	}
	for i, form := range tforms {
		cards = append(cards, testCard(fmt.Sprintf("TFORM%d", i+1), "'"+form+"'", ""))
	}
	cards = append(cards, extra...)
	var data bytes.Buffer
	for _, r := range rows {
		data.Write(r)
	}
	data.Write(heap)
	return buildHDU(cards, data.Bytes())
}

// collector captures every delivered diagnostic.
type collector struct {
	diags []Diagnostic
}

func (c *collector) fn(d Diagnostic) {
	c.diags = append(c.diags, d)
}

func (c *collector) withCode(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func (c *collector) counted() (errs, warns int) {
	for _, d := range c.diags {
		switch d.Severity {
		case SevError, SevSevere:
			if d.Code != TooManyErrors {
				errs++
			}
		case SevWarning:
			warns++
		}
	}
	return errs, warns
}

func verifyBytes(t *testing.T, state *State, data []byte) (Result, *collector) {
	t.Helper()
	c := &collector{}
	state.SetOutput(c.fn)
	res, err := state.VerifyMemory(data, "test.fits", nil)
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	return res, c
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
