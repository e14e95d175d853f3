package storage

import (
	"bytes"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// Key layout:
//   node:<16-digit zero-padded sequence>  -> chain node JSON
//   evidence:<evidence_id>                -> evidence record JSON
// Zero-padded sequence keys make LevelDB's key order the chain order.
const (
	nodeKeyPrefix     = "node:"
	evidenceKeyPrefix = "evidence:"
)

// Storage is the LevelDB-backed persistence layer. It implements
// chain.NodeStore and evidence.Backend. Values are encrypted at rest with
// AES-256-GCM when a DEK is configured (see encrypt.go).
type Storage struct {
	db  *leveldb.DB
	dek []byte
}

func NewStorage(path string) (*Storage, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	dek, err := loadDEK()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{db: db, dek: dek}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func nodeKey(sequence uint64) []byte {
	return []byte(fmt.Sprintf("%s%016d", nodeKeyPrefix, sequence))
}

// PutNode stores a serialized chain node under its sequence key. The node key
// and the latest-sequence marker are written in one batch so a crash cannot
// leave them disagreeing.
func (s *Storage) PutNode(sequence uint64, data []byte) error {
	enc, err := s.seal(data)
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	batch.Put(nodeKey(sequence), enc)
	batch.Put([]byte("latestSeq"), []byte(fmt.Sprintf("%d", sequence)))
	return s.db.Write(batch, nil)
}

// ListNodes returns all serialized chain nodes in ascending sequence order.
func (s *Storage) ListNodes() ([][]byte, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	var nodes [][]byte
	for iter.Next() {
		key := iter.Key()
		if !bytes.HasPrefix(key, []byte(nodeKeyPrefix)) {
			continue
		}
		dec, err := s.open(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("decrypt node %s: %w", key, err)
		}
		nodes = append(nodes, dec)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// PutRecord stores a serialized evidence record.
func (s *Storage) PutRecord(id string, data []byte) error {
	enc, err := s.seal(data)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(evidenceKeyPrefix+id), enc, nil)
}

// DeleteRecord removes an evidence record. Only capture rollback uses this.
func (s *Storage) DeleteRecord(id string) error {
	return s.db.Delete([]byte(evidenceKeyPrefix+id), nil)
}

// ListRecords returns all serialized evidence records keyed by evidence ID.
func (s *Storage) ListRecords() (map[string][]byte, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	records := make(map[string][]byte)
	for iter.Next() {
		key := iter.Key()
		if !bytes.HasPrefix(key, []byte(evidenceKeyPrefix)) {
			continue
		}
		id := string(key[len(evidenceKeyPrefix):])
		dec, err := s.open(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("decrypt evidence %s: %w", id, err)
		}
		records[id] = dec
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return records, nil
}

// NodeCount counts persisted chain nodes.
func (s *Storage) NodeCount() (int, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	count := 0
	for iter.Next() {
		if bytes.HasPrefix(iter.Key(), []byte(nodeKeyPrefix)) {
			count++
		}
	}
	if err := iter.Error(); err != nil {
		return 0, err
	}
	return count, nil
}

// Iterator exposes a raw iterator over the underlying database.
func (s *Storage) Iterator() iterator.Iterator {
	return s.db.NewIterator(nil, nil)
}

// DB exposes the underlying LevelDB instance
func (s *Storage) DB() *leveldb.DB {
	return s.db
}
