package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"example.com/fitsgate/internal/fits"
	"example.com/fitsgate/internal/report"
	"example.com/fitsgate/internal/verify"
)

var reportIDPattern = regexp.MustCompile(`^[0-9a-f-]{36}$`)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type verifyResponse struct {
	ID     string        `json:"id"`
	Report report.Report `json:"report"`
}

// handleVerify accepts a FITS upload, runs one verification job and
// stores the report under a fresh job id.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	label, body, err := s.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}

	state := verify.NewState()
	state.SetOption(verify.OptFixHints, boolOpt(r, "fix_hints", s.opts.FixHints))
	state.SetOption(verify.OptExplain, boolOpt(r, "explain", s.opts.Explain))
	switch r.URL.Query().Get("report") {
	case "errors":
		state.SetOption(verify.OptErrReport, 1)
	case "severe":
		state.SetOption(verify.OptErrReport, 2)
	}

	var messages []report.Message
	state.SetOutput(func(d verify.Diagnostic) {
		messages = append(messages, report.FromDiagnostic(d))
	})

	result, verr := state.VerifyMemory(body, label, nil)
	if verr != nil && !errors.Is(verr, verify.ErrOpenFailed) {
		writeError(w, http.StatusInternalServerError, verr.Error())
		return
	}

	totalErrs, totalWarns := state.Totals()
	rep := report.Report{
		Version:       verify.Version,
		ReaderVersion: fits.Version,
		Files: []report.FileReport{{
			File:        label,
			Messages:    messages,
			NumErrors:   result.NumErrors,
			NumWarnings: result.NumWarnings,
			NumHDUs:     result.NumHDUs,
			Aborted:     result.Aborted,
		}},
		TotalErrors:   totalErrs,
		TotalWarnings: totalWarns,
	}

	id := uuid.NewString()
	if err := report.SaveReportJSON(rep, s.reportPath(id)); err != nil {
		writeError(w, http.StatusInternalServerError, "store report: "+err.Error())
		return
	}
	log.Printf("verified %s: %d errors, %d warnings, %d HDUs (report %s)",
		label, result.NumErrors, result.NumWarnings, result.NumHDUs, id)
	writeJSON(w, http.StatusOK, verifyResponse{ID: id, Report: rep})
}

// readUpload extracts the FITS bytes from either a multipart form (field
// "file") or the raw request body.
func (s *Server) readUpload(r *http.Request) (label string, body []byte, err error) {
	limited := http.MaxBytesReader(nil, r.Body, s.opts.MaxUploadBytes)
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
			return "", nil, errors.New("parse multipart form: " + err.Error())
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			return "", nil, errors.New("missing form file \"file\"")
		}
		defer file.Close()
		body, err = io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes+1))
		if err != nil {
			return "", nil, err
		}
		if int64(len(body)) > s.opts.MaxUploadBytes {
			return "", nil, errors.New("upload exceeds size limit")
		}
		return filepath.Base(hdr.Filename), body, nil
	}
	body, err = io.ReadAll(limited)
	if err != nil {
		return "", nil, errors.New("read body: " + err.Error())
	}
	label = r.URL.Query().Get("label")
	if label == "" {
		label = "upload.fits"
	}
	return filepath.Base(label), body, nil
}

func boolOpt(r *http.Request, name string, def bool) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		if def {
			return 1
		}
		return 0
	}
	if v == "1" || v == "true" {
		return 1
	}
	return 0
}

// handleReport serves a stored report as JSON.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, id string) {
	if !reportIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	rep, err := report.LoadReportJSON(s.reportPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "report not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleReportPDF renders a stored report to PDF and serves it.
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request, id string) {
	if !reportIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	rep, err := report.LoadReportJSON(s.reportPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "report not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	tmp, err := os.CreateTemp("", "fitsgate-report-*.pdf")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)
	if err := report.SaveReportPDF(rep, tmpPath); err != nil {
		writeError(w, http.StatusInternalServerError, "render pdf: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, tmpPath)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": verify.Version,
	})
}
