// Package report persists verification runs as JSON documents and renders
// them as PDF reports with a QR stamp of the report digest.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"example.com/fitsgate/internal/verify"
)

// Message is one delivered diagnostic.
type Message struct {
	Severity string `json:"severity"`
	Code     int    `json:"code"`
	HDU      int    `json:"hdu"`
	Text     string `json:"text"`
	FixHint  string `json:"fix_hint,omitempty"`
	Explain  string `json:"explain,omitempty"`
}

// FromDiagnostic copies one diagnostic into its serialized form. The
// diagnostic's strings are only valid during the callback, so the copy
// happens here.
func FromDiagnostic(d verify.Diagnostic) Message {
	return Message{
		Severity: d.Severity.String(),
		Code:     int(d.Code),
		HDU:      d.HDU,
		Text:     d.Text,
		FixHint:  d.FixHint,
		Explain:  d.Explain,
	}
}

// FileReport is the outcome of verifying one file.
type FileReport struct {
	File        string    `json:"file"`
	Messages    []Message `json:"messages"`
	NumErrors   int       `json:"num_errors"`
	NumWarnings int       `json:"num_warnings"`
	NumHDUs     int       `json:"num_hdus"`
	Aborted     bool      `json:"aborted"`
}

// Report is one verification invocation over one or more files.
type Report struct {
	Version       string       `json:"fitsverify_version"`
	ReaderVersion string       `json:"cfitsio_version"`
	Files         []FileReport `json:"files"`
	TotalErrors   int64        `json:"total_errors"`
	TotalWarnings int64        `json:"total_warnings"`
}

// Pass reports whether the run found no errors and no warnings.
func (r *Report) Pass() bool {
	return r.TotalErrors == 0 && r.TotalWarnings == 0
}

// Digest returns the SHA-256 hex digest of the report's JSON encoding,
// used to match a printed PDF to its stored record.
func (r *Report) Digest() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// SaveReportJSON writes the report as indented JSON.
func SaveReportJSON(rep Report, path string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0644)
}

// LoadReportJSON reads a report saved by SaveReportJSON.
func LoadReportJSON(path string) (Report, error) {
	var rep Report
	b, err := os.ReadFile(path)
	if err != nil {
		return rep, err
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		return rep, fmt.Errorf("decode report %s: %w", path, err)
	}
	return rep, nil
}
