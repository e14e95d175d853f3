package evidence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a compliance event.
type EventType string

const (
	EventViolation     EventType = "violation"
	EventRemediation   EventType = "remediation"
	EventPolicyCheck   EventType = "policy_check"
	EventAgentDecision EventType = "agent_decision"
)

// ValidEventType reports whether t is one of the known event types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventViolation, EventRemediation, EventPolicyCheck, EventAgentDecision:
		return true
	}
	return false
}

// Record is a single compliance event. The payload sections (regulation,
// detection, remediation, ...) are opaque to the audit chain; only the
// identifier and timestamp are interpreted by it.
type Record struct {
	EvidenceID     string                 `json:"evidence_id"`
	EventType      EventType              `json:"event_type"`
	Regulation     map[string]interface{} `json:"regulation"`
	Detection      map[string]interface{} `json:"detection"`
	ViolationState map[string]interface{} `json:"violation_state,omitempty"`
	Remediation    map[string]interface{} `json:"remediation,omitempty"`
	ReasoningChain map[string]interface{} `json:"reasoning_chain,omitempty"`
	Linkages       map[string]interface{} `json:"linkages,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

// CanonicalBytes serializes the record deterministically: struct fields in
// declaration order, map keys sorted (encoding/json sorts map keys), timestamps
// in RFC 3339 UTC. Two semantically equal records always produce identical
// bytes, which is what makes the data digest a valid integrity check.
func (r *Record) CanonicalBytes() ([]byte, error) {
	// Normalize to UTC so the same instant never serializes two ways.
	rec := *r
	rec.Timestamp = rec.Timestamp.UTC()
	data, err := json.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("canonical serialization failed: %w", err)
	}
	return data, nil
}

// TenantID returns metadata["tenant_id"] if present, else "".
func (r *Record) TenantID() string {
	if r.Metadata == nil {
		return ""
	}
	if v, ok := r.Metadata["tenant_id"].(string); ok {
		return v
	}
	return ""
}

// NewEvidenceID generates a unique evidence identifier of the form
// EVID-<unix>-<6 hex chars>.
func NewEvidenceID(now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("EVID-%d-%X", now.Unix(), id[:3])
}
