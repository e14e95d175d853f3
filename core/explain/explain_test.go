package explain

import (
	"testing"
	"time"

	"evidenceos/core/evidence"
)

func TestGenerateForRemediatedViolation(t *testing.T) {
	rec := &evidence.Record{
		EvidenceID: "EVID-1",
		EventType:  evidence.EventViolation,
		Regulation: map[string]interface{}{"framework": "PCI-DSS", "clause": "3.4", "requirement": "PAN must be unreadable"},
		Detection:  map[string]interface{}{"detected_by": "dlp-agent", "context": "plaintext PAN in logs"},
		ViolationState: map[string]interface{}{
			"violation_type": "unencrypted cardholder data",
		},
		Remediation: map[string]interface{}{"action_type": "mask_pan", "agent_id": "remediator-1"},
		Timestamp:   time.Now().UTC(),
	}

	exp := Generate(rec)
	if exp.ExplanationID != "EXP-EVID-1" {
		t.Errorf("unexpected explanation ID: %s", exp.ExplanationID)
	}
	if exp.DecisionSummary != "remediator-1 executed mask_pan to resolve violation" {
		t.Errorf("unexpected summary: %s", exp.DecisionSummary)
	}
	what, _ := exp.Narrative["what"].(string)
	if what != "dlp-agent detected unencrypted cardholder data" {
		t.Errorf("unexpected what: %s", what)
	}
	why, _ := exp.Narrative["why_flagged"].(string)
	if why != "PCI-DSS 3.4 requires that PAN must be unreadable. This violation occurred because plaintext PAN in logs." {
		t.Errorf("unexpected why_flagged: %s", why)
	}
}

func TestGenerateWithoutRemediation(t *testing.T) {
	rec := &evidence.Record{
		EvidenceID: "EVID-2",
		EventType:  evidence.EventViolation,
		Regulation: map[string]interface{}{"clause": "Art. 32"},
		Detection:  map[string]interface{}{},
		Timestamp:  time.Now().UTC(),
	}

	exp := Generate(rec)
	if exp.DecisionSummary != "System flagged violation for Art. 32" {
		t.Errorf("unexpected summary: %s", exp.DecisionSummary)
	}
	if got := exp.Narrative["remediation_choice"]; got == nil {
		t.Error("remediation_choice should be an empty map, not nil")
	}
}
