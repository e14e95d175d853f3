package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// BaseURL returns the evidence service endpoint, overridable via env.
func BaseURL() string {
	if v := os.Getenv("EVIDENCE_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func addAuth(req *http.Request) {
	if key := os.Getenv("API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}
}

func get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, BaseURL()+path, nil)
	if err != nil {
		return err
	}
	addAuth(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}

type Status struct {
	Service    string `json:"service"`
	Status     string `json:"status"`
	Uptime     int64  `json:"uptime_seconds"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	Metrics    struct {
		ChainLength    int     `json:"chain_length"`
		EvidenceCount  int     `json:"evidence_count"`
		CPULoadPercent float64 `json:"cpu_load_percent"`
		MemoryMB       float64 `json:"memory_mb"`
		LastAppendTime string  `json:"last_append_time"`
	} `json:"metrics"`
}

func (s Status) ToJSON() string {
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

func GetStatus() (Status, error) {
	var status Status
	err := get("/status", &status)
	return status, err
}

// VerificationReport mirrors the /audit/verify response.
type VerificationReport struct {
	Valid      bool `json:"valid"`
	TotalNodes int  `json:"total_nodes"`
	Errors     []struct {
		Node     string  `json:"node"`
		Sequence *uint64 `json:"sequence,omitempty"`
		Issue    string  `json:"issue"`
		Expected string  `json:"expected,omitempty"`
		Actual   string  `json:"actual,omitempty"`
	} `json:"errors"`
}

func VerifyChain() (VerificationReport, error) {
	var report VerificationReport
	err := get("/audit/verify", &report)
	return report, err
}

// TrailResponse mirrors the /audit/trail response.
type TrailResponse struct {
	Count int               `json:"count"`
	Chain []json.RawMessage `json:"chain"`
}

func GetTrail(startDate, endDate string) (TrailResponse, error) {
	path := "/audit/trail"
	if startDate != "" && endDate != "" {
		path += "?start_date=" + startDate + "&end_date=" + endDate
	}
	var trail TrailResponse
	err := get(path, &trail)
	return trail, err
}

type CaptureResponse struct {
	EvidenceID string `json:"evidence_id"`
	Message    string `json:"message"`
}

// CaptureEvidence submits a raw capture payload to the service.
func CaptureEvidence(payload []byte) (CaptureResponse, error) {
	req, err := http.NewRequest(http.MethodPost, BaseURL()+"/evidence/capture", bytes.NewReader(payload))
	if err != nil {
		return CaptureResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return CaptureResponse{}, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return CaptureResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	var out CaptureResponse
	err = json.Unmarshal(body, &out)
	return out, err
}

// DownloadBundle fetches an audit bundle zip and writes it to outPath.
func DownloadBundle(tenantID, startDate, endDate, outPath string) error {
	url := fmt.Sprintf("%s/audit/generate-bundle?tenant_id=%s&start_date=%s&end_date=%s",
		BaseURL(), tenantID, startDate, endDate)
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	addAuth(req)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}
