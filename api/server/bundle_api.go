package server

import (
	"fmt"
	"net/http"
	"time"

	"evidenceos/core/audit"
)

// handleGenerateBundle handles POST /audit/generate-bundle. Query params:
// tenant_id (required), start_date, end_date (RFC 3339, required).
func (s *Server) handleGenerateBundle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID == "" {
		http.Error(w, "tenant_id is required", http.StatusBadRequest)
		return
	}
	start, end, hasRange, err := parseTimeRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !hasRange {
		http.Error(w, "start_date and end_date are required", http.StatusBadRequest)
		return
	}

	records := s.capture.Range(start, end, tenantID)
	if len(records) == 0 {
		http.Error(w, "No evidence found in date range", http.StatusNotFound)
		return
	}

	data, err := s.bundles.Generate(tenantID, start, end, records)
	if err != nil {
		http.Error(w, "Bundle generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.LogEvent(audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: "BundleExport",
		EntityID:  tenantID,
		Result:    "success",
	})

	filename := fmt.Sprintf("audit_bundle_%s_%s_%s.zip",
		tenantID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}
