package chain

import (
	"encoding/json"
	"fmt"
	"time"

	"evidenceos/core/evidence"
	"evidenceos/types/ids"
)

// Node is one immutable link in the audit chain. It binds a copy of the
// evidence record taken at append time to the digest of the previous node, so
// any later alteration of either is detectable by recomputing digests.
//
// PreviousDigest is empty for the genesis node. RecordDigest is computed over
// previous_digest || data_digest || timestamp, in that order; reordering the
// concatenation breaks compatibility with independently-written verifiers.
type Node struct {
	EvidenceID     string          `json:"evidence_id"`
	SequenceNumber uint64          `json:"sequence_number"`
	PreviousDigest string          `json:"previous_digest,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	EvidenceData   evidence.Record `json:"evidence_data"`
	DataDigest     string          `json:"data_digest"`
	RecordDigest   string          `json:"record_digest"`
}

// computeRecordDigest derives the chain-binding digest for a node.
func computeRecordDigest(previousDigest, dataDigest string, ts time.Time) string {
	input := previousDigest + dataDigest + ts.UTC().Format(time.RFC3339Nano)
	return ids.NewDigest([]byte(input)).String()
}

// newNode constructs a chain node for a record at the given position. The
// record is copied into the node so mutation of the evidence store can never
// retroactively alter chained data.
func newNode(rec *evidence.Record, previousDigest string, sequenceNumber uint64) (*Node, error) {
	canonical, err := rec.CanonicalBytes()
	if err != nil {
		return nil, err
	}

	// Deep-copy the record through its canonical form so the node's embedded
	// data shares no maps with the evidence store; mutating the store must
	// never retroactively alter chained data.
	var embedded evidence.Record
	if err := json.Unmarshal(canonical, &embedded); err != nil {
		return nil, fmt.Errorf("copy evidence record: %w", err)
	}

	// Digest the embedded copy, not the caller's record. The JSON round trip
	// rewrites payload numbers (int64 becomes float64), so the caller's bytes
	// and the stored copy's bytes can differ; verification recomputes from the
	// stored copy and must land on the same digest.
	stored, err := embedded.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	dataDigest := ids.NewDigest(stored).String()

	return &Node{
		EvidenceID:     rec.EvidenceID,
		SequenceNumber: sequenceNumber,
		PreviousDigest: previousDigest,
		Timestamp:      embedded.Timestamp,
		EvidenceData:   embedded,
		DataDigest:     dataDigest,
		RecordDigest:   computeRecordDigest(previousDigest, dataDigest, embedded.Timestamp),
	}, nil
}
