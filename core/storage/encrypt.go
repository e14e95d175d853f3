package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"os"
)

// loadDEK retrieves the Data Encryption Key from the environment
// (base64-encoded, 32 bytes after decoding). An unset EVIDENCE_DEK disables
// at-rest encryption, which is the test and development default.
func loadDEK() ([]byte, error) {
	dekB64 := os.Getenv("EVIDENCE_DEK")
	if dekB64 == "" {
		return nil, nil
	}
	dek, err := base64.StdEncoding.DecodeString(dekB64)
	if err != nil {
		return nil, errors.New("failed to decode EVIDENCE_DEK: " + err.Error())
	}
	if len(dek) != 32 {
		return nil, errors.New("EVIDENCE_DEK must be 32 bytes (base64-encoded)")
	}
	return dek, nil
}

// seal encrypts plaintext using AES-256-GCM and a random nonce. With no DEK
// configured the plaintext passes through unchanged.
func (s *Storage) seal(plaintext []byte) ([]byte, error) {
	if s.dek == nil {
		return plaintext, nil
	}
	block, err := aes.NewCipher(s.dek)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts ciphertext using AES-256-GCM.
func (s *Storage) open(ciphertext []byte) ([]byte, error) {
	if s.dek == nil {
		return ciphertext, nil
	}
	block, err := aes.NewCipher(s.dek)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ct := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ct, nil)
}
