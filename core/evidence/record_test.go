package evidence

import (
	"bytes"
	"regexp"
	"testing"
	"time"
)

func TestCanonicalBytesDeterministic(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	build := func() *Record {
		return &Record{
			EvidenceID: "EVID-1",
			EventType:  EventViolation,
			Regulation: map[string]interface{}{"framework": "GDPR", "clause": "Art. 32", "requirement": "encryption at rest"},
			Detection:  map[string]interface{}{"detected_by": "dlp-agent", "context": "plaintext PAN in logs"},
			Metadata:   map[string]interface{}{"tenant_id": "acme", "region": "eu-west-1"},
			Timestamp:  ts,
		}
	}

	a, err := build().CanonicalBytes()
	if err != nil {
		t.Fatalf("serialization failed: %v", err)
	}
	b, err := build().CanonicalBytes()
	if err != nil {
		t.Fatalf("serialization failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("independently built equal records serialized differently:\n%s\n%s", a, b)
	}
}

func TestCanonicalBytesNormalizesTimezone(t *testing.T) {
	utc := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CET", 3600))

	recUTC := &Record{EvidenceID: "EVID-1", EventType: EventViolation, Timestamp: utc}
	recCET := &Record{EvidenceID: "EVID-1", EventType: EventViolation, Timestamp: offset}

	a, err := recUTC.CanonicalBytes()
	if err != nil {
		t.Fatal(err)
	}
	b, err := recCET.CanonicalBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same instant in different zones serialized differently")
	}
}

func TestCanonicalBytesRejectsUnserializablePayload(t *testing.T) {
	rec := &Record{
		EvidenceID: "EVID-1",
		EventType:  EventViolation,
		Regulation: map[string]interface{}{"bad": make(chan int)},
		Timestamp:  time.Now().UTC(),
	}
	if _, err := rec.CanonicalBytes(); err == nil {
		t.Error("expected serialization failure for channel payload, got nil")
	}
}

func TestNewEvidenceIDFormat(t *testing.T) {
	id := NewEvidenceID(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	matched, err := regexp.MatchString(`^EVID-\d+-[0-9A-F]{6}$`, id)
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Errorf("unexpected evidence ID format: %s", id)
	}

	other := NewEvidenceID(time.Now())
	if id == other {
		t.Errorf("two generated IDs collided: %s", id)
	}
}

func TestTenantID(t *testing.T) {
	rec := &Record{Metadata: map[string]interface{}{"tenant_id": "acme"}}
	if got := rec.TenantID(); got != "acme" {
		t.Errorf("expected acme, got %q", got)
	}
	if got := (&Record{}).TenantID(); got != "" {
		t.Errorf("expected empty tenant, got %q", got)
	}
}
