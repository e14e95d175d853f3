package bundle

import (
	"archive/zip"
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"evidenceos/core/chain"
	"evidenceos/core/evidence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLedger(t *testing.T) (*chain.Ledger, []*evidence.Record) {
	t.Helper()
	ledger := chain.NewLedger()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var records []*evidence.Record
	for i, id := range []string{"EVID-A", "EVID-B"} {
		rec := &evidence.Record{
			EvidenceID:  id,
			EventType:   evidence.EventViolation,
			Regulation:  map[string]interface{}{"framework": "PCI-DSS", "clause": "3.4", "requirement": "PAN must be unreadable"},
			Detection:   map[string]interface{}{"detected_by": "dlp-agent"},
			Remediation: map[string]interface{}{"action_type": "mask_pan", "agent_id": "remediator-1"},
			Metadata:    map[string]interface{}{"tenant_id": "acme"},
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		}
		_, err := ledger.Append(rec)
		require.NoError(t, err)
		records = append(records, rec)
	}
	return ledger, records
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = content
	}
	return files
}

func TestGenerateBundleLayout(t *testing.T) {
	ledger, records := buildLedger(t)
	gen := NewGenerator(ledger, nil)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	data, err := gen.Generate("acme", start, end, records)
	require.NoError(t, err)

	files := readZip(t, data)
	for _, name := range []string{
		"MANIFEST.json",
		"EVIDENCE/evidence_EVID-A.json",
		"EVIDENCE/evidence_EVID-B.json",
		"EVIDENCE/evidence_index.json",
		"AUDIT_TRAIL/hash_chain.json",
		"AUDIT_TRAIL/chain_verification_report.txt",
		"DECISION_LOGS/agent_decisions.jsonl",
		"DECISION_LOGS/explanations/EXP-EVID-A.json",
		"DECISION_LOGS/explanations/EXP-EVID-B.json",
		"EXECUTIVE_SUMMARY.md",
	} {
		assert.Contains(t, files, name)
	}
	// Unsigned generator produces no signature entry.
	assert.NotContains(t, files, "MANIFEST.sig")

	var manifest Manifest
	require.NoError(t, json.Unmarshal(files["MANIFEST.json"], &manifest))
	assert.Equal(t, "acme", manifest.TenantID)
	assert.Equal(t, 2, manifest.EvidenceCount)

	// The exported chain carries every node field verbatim so an external
	// verifier can run without the live ledger.
	var nodes []*chain.Node
	require.NoError(t, json.Unmarshal(files["AUDIT_TRAIL/hash_chain.json"], &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "EVID-A", nodes[0].EvidenceID)
	assert.NotEmpty(t, nodes[0].DataDigest)
	assert.NotEmpty(t, nodes[0].RecordDigest)
	assert.Equal(t, nodes[0].RecordDigest, nodes[1].PreviousDigest)

	assert.Contains(t, string(files["AUDIT_TRAIL/chain_verification_report.txt"]), "Status: VALID")

	lines := strings.Split(strings.TrimSpace(string(files["DECISION_LOGS/agent_decisions.jsonl"])), "\n")
	assert.Len(t, lines, 2)
}

func TestGenerateBundleSignsManifest(t *testing.T) {
	ledger, records := buildLedger(t)
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	gen := NewGenerator(ledger, priv)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	data, err := gen.Generate("acme", start, start.Add(24*time.Hour), records)
	require.NoError(t, err)

	files := readZip(t, data)
	require.Contains(t, files, "MANIFEST.sig")
	sig, err := hex.DecodeString(string(files["MANIFEST.sig"]))
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, files["MANIFEST.json"], sig))
}

func TestBundleReportsTampering(t *testing.T) {
	ledger, records := buildLedger(t)
	ledger.All()[0].EvidenceData.Regulation["clause"] = "tampered"

	gen := NewGenerator(ledger, nil)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	data, err := gen.Generate("acme", start, start.Add(24*time.Hour), records)
	require.NoError(t, err)

	files := readZip(t, data)
	report := string(files["AUDIT_TRAIL/chain_verification_report.txt"])
	assert.Contains(t, report, "Status: INVALID")
	assert.Contains(t, report, "EVID-A")
}
