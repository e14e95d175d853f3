package explain

import (
	"fmt"

	"evidenceos/core/evidence"
)

// Explanation is a human-readable account of one evidence record, built for
// auditors by string templating over the record's payload fields.
type Explanation struct {
	ExplanationID   string                 `json:"explanation_id"`
	DecisionSummary string                 `json:"decision_summary"`
	Narrative       map[string]interface{} `json:"narrative"`
}

// Generate builds the explanation for a record.
func Generate(rec *evidence.Record) *Explanation {
	narrative := map[string]interface{}{
		"what":               buildWhat(rec),
		"why_flagged":        buildWhyFlagged(rec),
		"regulation_context": rec.Regulation,
		"detection_details":  rec.Detection,
		"remediation_choice": orEmpty(rec.Remediation),
		"agent_reasoning":    orEmpty(rec.ReasoningChain),
	}
	return &Explanation{
		ExplanationID:   "EXP-" + rec.EvidenceID,
		DecisionSummary: buildDecisionSummary(rec),
		Narrative:       narrative,
	}
}

func buildWhat(rec *evidence.Record) string {
	detectedBy := stringField(rec.Detection, "detected_by", "System")
	violationType := "compliance issue"
	if rec.ViolationState != nil {
		violationType = stringField(rec.ViolationState, "violation_type", violationType)
	}
	return fmt.Sprintf("%s detected %s", detectedBy, violationType)
}

func buildWhyFlagged(rec *evidence.Record) string {
	framework := stringField(rec.Regulation, "framework", "")
	clause := stringField(rec.Regulation, "clause", "")
	requirement := stringField(rec.Regulation, "requirement", "")
	context := stringField(rec.Detection, "context", "")

	explanation := fmt.Sprintf("%s %s requires that %s.", framework, clause, requirement)
	if context != "" {
		explanation += fmt.Sprintf(" This violation occurred because %s.", context)
	}
	return explanation
}

func buildDecisionSummary(rec *evidence.Record) string {
	if rec.Remediation != nil {
		action := stringField(rec.Remediation, "action_type", "remediation")
		agent := stringField(rec.Remediation, "agent_id", "agent")
		return fmt.Sprintf("%s executed %s to resolve violation", agent, action)
	}
	detectedBy := stringField(rec.Detection, "detected_by", "System")
	clause := stringField(rec.Regulation, "clause", "regulation")
	return fmt.Sprintf("%s flagged violation for %s", detectedBy, clause)
}

func stringField(m map[string]interface{}, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func orEmpty(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
