package server

import (
	"net/http"
	"strings"

	"evidenceos/core/explain"
)

// handleExplanation handles GET /explanation/{evidence_id}.
func (s *Server) handleExplanation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/explanation/")
	if id == "" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	rec := s.capture.Get(id)
	if rec == nil {
		http.Error(w, "Evidence not found", http.StatusNotFound)
		return
	}
	writeJSON(w, explain.Generate(rec))
}
