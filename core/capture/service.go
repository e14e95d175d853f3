package capture

import (
	"fmt"
	"time"

	"evidenceos/core/audit"
	"evidenceos/core/chain"
	"evidenceos/core/evidence"
)

// Service is the evidence capture boundary: it assigns identifiers and
// timestamps, admits records to the evidence store and appends them to the
// audit chain. A record that exists in the store but never reached the chain
// is not evidence, so a failed append rolls the record back.
type Service struct {
	store  *evidence.Store
	ledger *chain.Ledger
	logger audit.Logger
}

func NewService(store *evidence.Store, ledger *chain.Ledger, logger audit.Logger) *Service {
	if logger == nil {
		logger = audit.NewNopLogger()
	}
	return &Service{store: store, ledger: ledger, logger: logger}
}

// Params carries the payload sections of a new evidence record. The capture
// service passes them through opaquely; their schemas belong to the detection
// and remediation layers upstream.
type Params struct {
	EventType      evidence.EventType
	Regulation     map[string]interface{}
	Detection      map[string]interface{}
	ViolationState map[string]interface{}
	Remediation    map[string]interface{}
	ReasoningChain map[string]interface{}
	Linkages       map[string]interface{}
	Metadata       map[string]interface{}
}

// Capture creates a new evidence record, stores it and appends it to the
// audit chain exactly once.
func (s *Service) Capture(p Params) (*evidence.Record, error) {
	if !evidence.ValidEventType(p.EventType) {
		return nil, fmt.Errorf("unknown event type %q", p.EventType)
	}
	now := time.Now().UTC()
	rec := &evidence.Record{
		EvidenceID:     evidence.NewEvidenceID(now),
		EventType:      p.EventType,
		Regulation:     p.Regulation,
		Detection:      p.Detection,
		ViolationState: p.ViolationState,
		Remediation:    p.Remediation,
		ReasoningChain: p.ReasoningChain,
		Linkages:       p.Linkages,
		Metadata:       p.Metadata,
		Timestamp:      now,
	}

	// Fail before admitting anything if the payload cannot be canonically
	// serialized; otherwise the chain append would produce a ghost record.
	if _, err := rec.CanonicalBytes(); err != nil {
		return nil, err
	}

	if err := s.store.Put(rec); err != nil {
		return nil, err
	}
	node, err := s.ledger.Append(rec)
	if err != nil {
		if delErr := s.store.Delete(rec.EvidenceID); delErr != nil {
			s.logger.LogEvent(audit.Event{
				Timestamp: time.Now().UTC(),
				EventType: "CaptureRollback",
				EntityID:  rec.EvidenceID,
				Result:    "failure",
				Reason:    delErr.Error(),
			})
		}
		return nil, fmt.Errorf("append to audit chain: %w", err)
	}

	s.logger.LogEvent(audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: "EvidenceCapture",
		EntityID:  rec.EvidenceID,
		Result:    "success",
		Metadata:  map[string]string{"sequence": fmt.Sprintf("%d", node.SequenceNumber)},
	})
	return rec, nil
}

// Updates carries replacement payload sections for a superseding record.
// Nil sections keep the original's content.
type Updates struct {
	ViolationState map[string]interface{}
	Remediation    map[string]interface{}
	ReasoningChain map[string]interface{}
	Metadata       map[string]interface{}
}

// Supersede captures a new record correcting a chained one. The original is
// never edited in place: mutating chained data would desynchronize it from its
// digest. The new record names the original in linkages["supersedes"].
func (s *Service) Supersede(originalID string, u Updates) (*evidence.Record, error) {
	original := s.store.Get(originalID)
	if original == nil {
		return nil, fmt.Errorf("evidence %s not found", originalID)
	}

	p := Params{
		EventType:      original.EventType,
		Regulation:     original.Regulation,
		Detection:      original.Detection,
		ViolationState: original.ViolationState,
		Remediation:    original.Remediation,
		ReasoningChain: original.ReasoningChain,
		Metadata:       original.Metadata,
	}
	if u.ViolationState != nil {
		p.ViolationState = u.ViolationState
	}
	if u.Remediation != nil {
		p.Remediation = u.Remediation
	}
	if u.ReasoningChain != nil {
		p.ReasoningChain = u.ReasoningChain
	}
	if u.Metadata != nil {
		p.Metadata = u.Metadata
	}
	p.Linkages = map[string]interface{}{"supersedes": originalID}
	for k, v := range original.Linkages {
		if k != "supersedes" {
			p.Linkages[k] = v
		}
	}
	return s.Capture(p)
}

// Get returns a stored record by evidence ID, or nil.
func (s *Service) Get(id string) *evidence.Record {
	return s.store.Get(id)
}

// ListAll returns all stored records in capture order.
func (s *Service) ListAll() []*evidence.Record {
	return s.store.ListAll()
}

// Range returns records in [start, end] inclusive, optionally tenant-filtered.
func (s *Service) Range(start, end time.Time, tenantID string) []*evidence.Record {
	return s.store.Range(start, end, tenantID)
}
