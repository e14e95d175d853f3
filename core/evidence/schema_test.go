package evidence

import (
	"testing"
)

func TestValidatePayload(t *testing.T) {
	t.Setenv("EVIDENCE_SCHEMA_PATH", "schemas/evidence_schema_v1.json")

	valid := []byte(`{
		"event_type": "violation",
		"regulation": {"framework": "PCI-DSS", "clause": "3.4"},
		"detection": {"detected_by": "scanner"}
	}`)
	if err := ValidatePayload(valid); err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}

	missingRequired := []byte(`{"event_type": "violation"}`)
	if err := ValidatePayload(missingRequired); err == nil {
		t.Error("expected error for missing regulation/detection, got nil")
	}

	badEventType := []byte(`{
		"event_type": "coffee_break",
		"regulation": {},
		"detection": {}
	}`)
	if err := ValidatePayload(badEventType); err == nil {
		t.Error("expected error for unknown event type, got nil")
	}

	notJSON := []byte(`{`)
	if err := ValidatePayload(notJSON); err == nil {
		t.Error("expected error for malformed JSON, got nil")
	}
}
