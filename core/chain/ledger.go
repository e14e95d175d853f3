package chain

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"evidenceos/core/evidence"
)

// NodeStore abstracts durable node persistence. Implementations must return
// nodes from ListNodes in ascending sequence order. A nil NodeStore keeps the
// chain in memory only.
type NodeStore interface {
	PutNode(sequence uint64, data []byte) error
	ListNodes() ([][]byte, error)
}

// Ledger owns the ordered sequence of chain nodes. Append is the only mutator;
// nodes are never removed or reordered. Every Ledger is constructed explicitly
// and holds its own state, so tests can run isolated chains side by side.
type Ledger struct {
	mu    sync.RWMutex
	nodes []*Node
	store NodeStore
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// OpenLedger creates a ledger backed by the given store, loading any nodes
// already persisted.
func OpenLedger(store NodeStore) (*Ledger, error) {
	l := &Ledger{store: store}
	if store == nil {
		return l, nil
	}
	persisted, err := store.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("load chain nodes: %w", err)
	}
	for i, data := range persisted {
		var node Node
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode chain node %d: %w", i, err)
		}
		if node.SequenceNumber != uint64(i) {
			return nil, fmt.Errorf("chain node out of order: got sequence %d at position %d", node.SequenceNumber, i)
		}
		l.nodes = append(l.nodes, &node)
	}
	return l, nil
}

// Append constructs a node for the record, links it to the current tail and
// commits it. The whole read-tail / compute / persist / publish sequence runs
// under one lock so concurrent appends can never claim the same sequence
// number or the same previous digest.
func (l *Ledger) Append(rec *evidence.Record) (*Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	previousDigest := ""
	if n := len(l.nodes); n > 0 {
		previousDigest = l.nodes[n-1].RecordDigest
	}
	node, err := newNode(rec, previousDigest, uint64(len(l.nodes)))
	if err != nil {
		return nil, err
	}
	if l.store != nil {
		data, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("encode chain node: %w", err)
		}
		if err := l.store.PutNode(node.SequenceNumber, data); err != nil {
			return nil, fmt.Errorf("persist chain node: %w", err)
		}
	}
	l.nodes = append(l.nodes, node)
	return node, nil
}

// Latest returns the current tail node, or nil for an empty ledger.
func (l *Ledger) Latest() *Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.nodes) == 0 {
		return nil
	}
	return l.nodes[len(l.nodes)-1]
}

// All returns a snapshot of all nodes in ascending sequence order.
func (l *Ledger) All() []*Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Node, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// Range returns nodes whose timestamp falls in [start, end] inclusive, in
// ascending sequence order.
func (l *Ledger) Range(start, end time.Time) []*Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*Node
	for _, node := range l.nodes {
		if node.Timestamp.Before(start) || node.Timestamp.After(end) {
			continue
		}
		out = append(out, node)
	}
	return out
}

// FindByEvidenceID returns the node for the given evidence ID, or nil.
func (l *Ledger) FindByEvidenceID(id string) *Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, node := range l.nodes {
		if node.EvidenceID == id {
			return node
		}
	}
	return nil
}

// Len returns the number of nodes in the chain.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.nodes)
}
