package server

import (
	"errors"
	"net/http"
	"strings"
)

// NewRouter builds the HTTP mux for a server.
func NewRouter(s *Server) (http.Handler, error) {
	if s == nil {
		return nil, errors.New("nil server")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/verify", s.handleVerify)
	mux.HandleFunc("/api/reports/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/reports/")
		if id, ok := strings.CutSuffix(rest, "/pdf"); ok {
			s.handleReportPDF(w, r, id)
			return
		}
		s.handleReport(w, r, rest)
	})
	return mux, nil
}
