package report

import (
	"os"
	"path/filepath"
	"testing"

	"example.com/fitsgate/internal/verify"
)

func sampleReport() Report {
	return Report{
		Version:       "1.0.0",
		ReaderVersion: "1.0",
		Files: []FileReport{{
			File: "m101.fits",
			Messages: []Message{
				{Severity: "error", Code: int(verify.KeywordValue), HDU: 1, Text: "*** Error:   Keyword BITPIX in HDU 1 has illegal value 99", FixHint: "Correct the value of 'BITPIX' in HDU 1"},
				{Severity: "warning", Code: int(verify.WarnDeprecated), HDU: 1, Text: "*** Warning: Keyword #7, EPOCH is deprecated."},
			},
			NumErrors:   1,
			NumWarnings: 1,
			NumHDUs:     1,
		}},
		TotalErrors:   1,
		TotalWarnings: 1,
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	rep := sampleReport()
	if err := SaveReportJSON(rep, path); err != nil {
		t.Fatalf("SaveReportJSON: %v", err)
	}
	got, err := LoadReportJSON(path)
	if err != nil {
		t.Fatalf("LoadReportJSON: %v", err)
	}
	if got.Version != rep.Version || got.TotalErrors != 1 || got.TotalWarnings != 1 {
		t.Fatalf("loaded = %+v", got)
	}
	if len(got.Files) != 1 || len(got.Files[0].Messages) != 2 {
		t.Fatalf("files = %+v", got.Files)
	}
	if got.Files[0].Messages[0].FixHint == "" {
		t.Fatal("fix hint lost in round trip")
	}
	if got.Pass() {
		t.Fatal("report with errors must not pass")
	}
}

func TestDigestStable(t *testing.T) {
	rep1 := sampleReport()
	a, err := rep1.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	rep2 := sampleReport()
	b, err := rep2.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if a != b {
		t.Fatalf("digest unstable: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("digest length = %d", len(a))
	}

	mutated := sampleReport()
	mutated.TotalErrors = 2
	c, _ := mutated.Digest()
	if c == a {
		t.Fatal("digest did not change with content")
	}
}

func TestFromDiagnostic(t *testing.T) {
	d := verify.Diagnostic{
		Severity: verify.SevWarning,
		Code:     verify.WarnY2K,
		HDU:      3,
		Text:     "old date format",
		FixHint:  "use YYYY-MM-DD",
	}
	m := FromDiagnostic(d)
	if m.Severity != "warning" || m.Code != int(verify.WarnY2K) || m.HDU != 3 {
		t.Fatalf("message = %+v", m)
	}
	if m.FixHint != "use YYYY-MM-DD" || m.Explain != "" {
		t.Fatalf("message = %+v", m)
	}
}

func TestDigestToQR(t *testing.T) {
	rep := sampleReport()
	digest, err := rep.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	png, err := DigestToQR(digest, 128)
	if err != nil {
		t.Fatalf("DigestToQR: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("empty QR image")
	}
	if _, err := DigestToQR("", 128); err == nil {
		t.Fatal("empty digest accepted")
	}
}

func TestSaveReportPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	if err := SaveReportPDF(sampleReport(), path); err != nil {
		t.Fatalf("SaveReportPDF: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty PDF written")
	}
}
