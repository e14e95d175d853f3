// status_handler.go - HTTP handler for /status
package server

import (
	"net/http"
)

// StatusResponse represents the JSON structure for the /status endpoint
type StatusResponse struct {
	Service    string         `json:"service"`
	Status     string         `json:"status"`
	Uptime     int64          `json:"uptime_seconds"`
	Version    string         `json:"version"`
	APIVersion string         `json:"api_version"`
	Metrics    ServiceMetrics `json:"metrics"`
}

// HandleStatus responds to /status with service status
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	metrics := s.GetServiceMetrics()

	status := "operational"
	if metrics.ChainLength == 0 {
		status = "empty"
	}

	writeJSON(w, StatusResponse{
		Service:    "Evidence & Audit Trust Layer",
		Status:     status,
		Uptime:     metrics.UptimeSeconds,
		Version:    ServiceVersion(),
		APIVersion: APIVersion(),
		Metrics:    metrics,
	})
}
