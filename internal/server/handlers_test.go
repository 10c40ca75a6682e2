package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/fitsgate/internal/fits"
	"example.com/fitsgate/internal/report"
)

func testCard(name, value string) []byte {
	card := make([]byte, fits.CardSize)
	for i := range card {
		card[i] = ' '
	}
	copy(card, name)
	if value == "" {
		return card
	}
	card[8] = '='
	if value[0] == '\'' {
		inner := strings.TrimSuffix(value[1:], "'")
		for len(inner) < 8 {
			inner += " "
		}
		copy(card[10:], "'"+inner+"'")
	} else {
		copy(card[30-len(value):30], value)
	}
	return card
}

func minimalImage() []byte {
	var buf bytes.Buffer
	for _, c := range [][]byte{
		testCard("SIMPLE", "T"),
		testCard("BITPIX", "16"),
		testCard("NAXIS", "2"),
		testCard("NAXIS1", "10"),
		testCard("NAXIS2", "10"),
		testCard("END", ""),
	} {
		buf.Write(c)
	}
	for buf.Len()%fits.BlockSize != 0 {
		buf.WriteByte(' ')
	}
	buf.Write(make([]byte, 200))
	for buf.Len()%fits.BlockSize != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	srv, err := NewServer(Options{StorageDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	router, err := NewRouter(srv)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return router
}

func TestVerifyEndpoint(t *testing.T) {
	router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/verify?label=clean.fits", bytes.NewReader(minimalImage()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID     string        `json:"id"`
		Report report.Report `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("missing job id")
	}
	if len(resp.Report.Files) != 1 {
		t.Fatalf("files = %+v", resp.Report.Files)
	}
	fr := resp.Report.Files[0]
	if fr.File != "clean.fits" || fr.NumErrors != 0 || fr.NumHDUs != 1 || fr.Aborted {
		t.Fatalf("file report = %+v", fr)
	}

	// the stored report must be retrievable
	req2 := httptest.NewRequest(http.MethodGet, "/api/reports/"+resp.ID, nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("report fetch status = %d", rec2.Code)
	}
	var stored report.Report
	if err := json.Unmarshal(rec2.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode stored report: %v", err)
	}
	if len(stored.Files) != 1 || stored.Files[0].File != "clean.fits" {
		t.Fatalf("stored report = %+v", stored)
	}
}

func TestVerifyEndpointBadUpload(t *testing.T) {
	router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/verify", bytes.NewReader([]byte("not a FITS file at all, it has no SIMPLE card anywhere here")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Report report.Report `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Report.Files) != 1 || !resp.Report.Files[0].Aborted {
		t.Fatalf("report = %+v", resp.Report)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/verify", bytes.NewReader(nil))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("empty upload status = %d", rec2.Code)
	}
}

func TestReportNotFound(t *testing.T) {
	router := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/reports/00000000-0000-0000-0000-000000000000", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/reports/..%2Fescape", nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusBadRequest && rec2.Code != http.StatusNotFound &&
		rec2.Code != http.StatusMovedPermanently {
		t.Fatalf("traversal id status = %d", rec2.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVerifyMethodNotAllowed(t *testing.T) {
	router := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/verify", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
