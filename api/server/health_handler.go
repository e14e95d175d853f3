// health_handler.go - HTTP handlers for /health, /health/liveness, /health/readiness
package server

import (
	"net/http"
	"time"
)

// LivenessResponse for /health/liveness
type LivenessResponse struct {
	Alive bool `json:"alive"`
}

// ReadinessResponse for /health/readiness
type ReadinessResponse struct {
	Ready bool `json:"ready"`
}

// HandleHealth responds to /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleLiveness responds to /health/liveness
func (s *Server) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, LivenessResponse{Alive: true})
}

// HandleReadiness responds to /health/readiness. The service is ready once
// the storage layer answers.
func (s *Server) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ready := true
	if s.store != nil {
		if _, err := s.store.NodeCount(); err != nil {
			ready = false
		}
	}
	writeJSON(w, ReadinessResponse{Ready: ready})
}
