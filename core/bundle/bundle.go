package bundle

import (
	"archive/zip"
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"evidenceos/core"
	"evidenceos/core/chain"
	"evidenceos/core/evidence"
	"evidenceos/core/explain"
)

// Generator assembles audit-ready zip bundles from the ledger and a set of
// evidence records. When a signing key is configured the manifest is signed so
// auditors can check the bundle came from this service.
type Generator struct {
	ledger     *chain.Ledger
	signingKey ed25519.PrivateKey
}

func NewGenerator(ledger *chain.Ledger, signingKey ed25519.PrivateKey) *Generator {
	return &Generator{ledger: ledger, signingKey: signingKey}
}

// Manifest describes the bundle contents.
type Manifest struct {
	TenantID      string    `json:"tenant_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	DateRange     DateRange `json:"date_range"`
	EvidenceCount int       `json:"evidence_count"`
	BundleVersion string    `json:"bundle_version"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Generate builds the bundle zip. Layout:
//
//	MANIFEST.json (+ MANIFEST.sig when signing is configured)
//	EVIDENCE/evidence_<id>.json, EVIDENCE/evidence_index.json
//	AUDIT_TRAIL/hash_chain.json, AUDIT_TRAIL/chain_verification_report.txt
//	DECISION_LOGS/agent_decisions.jsonl, DECISION_LOGS/explanations/<id>.json
//	EXECUTIVE_SUMMARY.md
//
// The exported chain nodes carry every node field verbatim so an independent
// verifier can run against the bundle without access to the live ledger.
func (g *Generator) Generate(tenantID string, start, end time.Time, records []*evidence.Record) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	manifest := Manifest{
		TenantID:      tenantID,
		GeneratedAt:   time.Now().UTC(),
		DateRange:     DateRange{Start: start, End: end},
		EvidenceCount: len(records),
		BundleVersion: "1.0",
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "MANIFEST.json", manifestJSON); err != nil {
		return nil, err
	}
	if g.signingKey != nil {
		sig := core.Sign(g.signingKey, manifestJSON)
		if err := writeEntry(zw, "MANIFEST.sig", []byte(hex.EncodeToString(sig))); err != nil {
			return nil, err
		}
	}

	index := make([]string, 0, len(records))
	for _, rec := range records {
		index = append(index, rec.EvidenceID)
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("EVIDENCE/evidence_%s.json", rec.EvidenceID)
		if err := writeEntry(zw, name, data); err != nil {
			return nil, err
		}
	}
	indexJSON, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "EVIDENCE/evidence_index.json", indexJSON); err != nil {
		return nil, err
	}

	nodes := g.ledger.Range(start, end)
	chainJSON, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "AUDIT_TRAIL/hash_chain.json", chainJSON); err != nil {
		return nil, err
	}

	report := chain.Verify(g.ledger)
	if err := writeEntry(zw, "AUDIT_TRAIL/chain_verification_report.txt", []byte(formatReport(report))); err != nil {
		return nil, err
	}

	var decisions bytes.Buffer
	for _, rec := range records {
		line := map[string]interface{}{
			"evidence_id": rec.EvidenceID,
			"timestamp":   rec.Timestamp.Format(time.RFC3339Nano),
			"event_type":  rec.EventType,
			"regulation":  fieldOrNil(rec.Regulation, "clause"),
			"detected_by": fieldOrNil(rec.Detection, "detected_by"),
			"remediation": fieldOrNil(rec.Remediation, "action_type"),
		}
		lineJSON, err := json.Marshal(line)
		if err != nil {
			return nil, err
		}
		decisions.Write(lineJSON)
		decisions.WriteByte('\n')
	}
	if err := writeEntry(zw, "DECISION_LOGS/agent_decisions.jsonl", decisions.Bytes()); err != nil {
		return nil, err
	}

	for _, rec := range records {
		exp := explain.Generate(rec)
		data, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("DECISION_LOGS/explanations/%s.json", exp.ExplanationID)
		if err := writeEntry(zw, name, data); err != nil {
			return nil, err
		}
	}

	if err := writeEntry(zw, "EXECUTIVE_SUMMARY.md", []byte(executiveSummary(records))); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func fieldOrNil(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return nil
	}
	return m[key]
}

func formatReport(report *chain.Report) string {
	lines := []string{
		"AUDIT TRAIL VERIFICATION REPORT",
		strings.Repeat("=", 50),
		"",
	}
	status := "INVALID"
	if report.Valid {
		status = "VALID"
	}
	lines = append(lines,
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Total Nodes: %d", report.TotalNodes),
		"",
	)
	if len(report.Errors) > 0 {
		lines = append(lines, "Errors Found:")
		for _, e := range report.Errors {
			lines = append(lines, fmt.Sprintf("  - %s: %s", e.Node, e.Issue))
		}
	} else {
		lines = append(lines, "No errors found. Chain integrity verified.")
	}
	return strings.Join(lines, "\n")
}

func executiveSummary(records []*evidence.Record) string {
	total := len(records)
	violations := 0
	remediations := 0
	for _, rec := range records {
		if rec.EventType == evidence.EventViolation {
			violations++
		}
		if rec.Remediation != nil {
			remediations++
		}
	}
	return fmt.Sprintf(`# Audit Executive Summary

## Overview
- **Total Events**: %d
- **Violations Detected**: %d
- **Remediations Executed**: %d

## Evidence Records
This bundle contains %d evidence records covering compliance events, violations, and remediations.

## Audit Trail
The audit trail includes a hash-chained log of all evidence records, ensuring tamper-evident history.

## Verification
Run the verification report against the exported chain to confirm the integrity of the audit trail.
`, total, violations, remediations, total)
}
