package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"evidenceos/core/capture"
	"evidenceos/core/evidence"
)

// CaptureEvidenceRequest mirrors the evidence record payload sections.
type CaptureEvidenceRequest struct {
	EventType      evidence.EventType     `json:"event_type"`
	Regulation     map[string]interface{} `json:"regulation"`
	Detection      map[string]interface{} `json:"detection"`
	ViolationState map[string]interface{} `json:"violation_state,omitempty"`
	Remediation    map[string]interface{} `json:"remediation,omitempty"`
	ReasoningChain map[string]interface{} `json:"reasoning_chain,omitempty"`
	Linkages       map[string]interface{} `json:"linkages,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type CaptureEvidenceResponse struct {
	EvidenceID string `json:"evidence_id"`
	Message    string `json:"message"`
}

// schemaAvailable reports whether the capture JSON schema can be located, so
// a checkout run from a different working directory degrades to structural
// validation only.
func schemaAvailable() bool {
	if env := os.Getenv("EVIDENCE_SCHEMA_PATH"); env != "" {
		_, err := os.Stat(env)
		return err == nil
	}
	_, err := os.Stat(filepath.Join("core", "evidence", "schemas", "evidence_schema_v1.json"))
	return err == nil
}

// handleCaptureEvidence handles POST /evidence/capture.
func (s *Server) handleCaptureEvidence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if schemaAvailable() {
		if err := evidence.ValidatePayload(bodyBytes); err != nil {
			http.Error(w, "Invalid payload: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	var req CaptureEvidenceRequest
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.capture.Capture(capture.Params{
		EventType:      req.EventType,
		Regulation:     req.Regulation,
		Detection:      req.Detection,
		ViolationState: req.ViolationState,
		Remediation:    req.Remediation,
		ReasoningChain: req.ReasoningChain,
		Linkages:       req.Linkages,
		Metadata:       req.Metadata,
	})
	if err != nil {
		http.Error(w, "Capture failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, CaptureEvidenceResponse{
		EvidenceID: rec.EvidenceID,
		Message:    "Evidence captured successfully",
	})
}

// handleGetEvidence handles GET /evidence/{id}.
func (s *Server) handleGetEvidence(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/evidence/")
	if id == "" || id == "capture" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	rec := s.capture.Get(id)
	if rec == nil {
		http.Error(w, "Evidence not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

// handleListEvidence handles GET /evidence with optional start_date/end_date
// and tenant_id query params.
func (s *Server) handleListEvidence(w http.ResponseWriter, r *http.Request) {
	start, end, hasRange, err := parseTimeRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tenantID := r.URL.Query().Get("tenant_id")

	var records []*evidence.Record
	if hasRange {
		records = s.capture.Range(start, end, tenantID)
	} else {
		for _, rec := range s.capture.ListAll() {
			if tenantID != "" && rec.TenantID() != tenantID {
				continue
			}
			records = append(records, rec)
		}
	}

	writeJSON(w, map[string]interface{}{
		"count":    len(records),
		"evidence": records,
	})
}

func parseTimeRange(r *http.Request) (start, end time.Time, ok bool, err error) {
	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	end, err = time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return start, end, true, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
