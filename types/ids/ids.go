package ids

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a 32-byte SHA-256 digest.
type Digest [32]byte

// Empty is the zero-value Digest (all zeros)
var Empty Digest

// NewDigest computes the SHA-256 digest of the input bytes
func NewDigest(data []byte) Digest {
	hash := sha256.Sum256(data)
	return Digest(hash)
}

// FromString parses a hex string into a Digest
func FromString(s string) (Digest, error) {
	var d Digest
	bytes, err := hex.DecodeString(s)
	if err != nil {
		return d, err
	}
	copy(d[:], bytes)
	return d, nil
}

// String converts a Digest back to a hex string
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFromString computes the SHA-256 digest of a string value
func DigestFromString(s string) Digest {
	return NewDigest([]byte(s))
}
