// Package server exposes the verification engine over HTTP: clients
// upload a FITS file, the server runs a verification job and stores the
// outcome, and reports can be fetched as JSON or PDF.
package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultMaxUploadBytes = 512 << 20

// Options configures server creation.
type Options struct {
	StorageDir     string
	MaxUploadBytes int64
	FixHints       bool // attach fix hints to stored reports
	Explain        bool // attach explanations to stored reports
}

// Server owns the report store. Each verification request runs on its own
// state and reader, so requests may be served concurrently.
type Server struct {
	opts       Options
	reportsDir string
	uploadsDir string
}

// NewServer validates the options and prepares the storage layout.
func NewServer(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.StorageDir) == "" {
		return nil, errors.New("storage directory is required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	reportsDir := filepath.Join(opts.StorageDir, "reports")
	uploadsDir := filepath.Join(opts.StorageDir, "uploads")
	for _, dir := range []string{opts.StorageDir, reportsDir, uploadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &Server{opts: opts, reportsDir: reportsDir, uploadsDir: uploadsDir}, nil
}

// Close releases server resources. Present for symmetry with the daemon's
// shutdown path; the report store needs no teardown.
func (s *Server) Close() error {
	return nil
}

func (s *Server) reportPath(id string) string {
	return filepath.Join(s.reportsDir, id+".json")
}
