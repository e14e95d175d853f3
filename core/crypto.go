package core

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
)

const (
	PrivKeyFile = "service_ed25519.priv"
	PubKeyFile  = "service_ed25519.pub"
)

func keyDir() string {
	if dir := os.Getenv("EVIDENCE_KEY_DIR"); dir != "" {
		return dir
	}
	return "."
}

// GenerateAndSaveKeypair generates an Ed25519 keypair for signing audit bundle
// manifests and saves it to disk if not present.
func GenerateAndSaveKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	privPath := filepath.Join(keyDir(), PrivKeyFile)
	pubPath := filepath.Join(keyDir(), PubKeyFile)
	if _, err := os.Stat(privPath); err == nil {
		return LoadKeypair()
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	if err := os.WriteFile(privPath, []byte(hex.EncodeToString(priv)), 0600); err != nil {
		return nil, nil, err
	}
	if err := os.WriteFile(pubPath, []byte(hex.EncodeToString(pub)), 0644); err != nil {
		return nil, nil, err
	}
	return pub, priv, nil
}

// LoadKeypair loads the Ed25519 keypair from disk.
func LoadKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	privHex, err := os.ReadFile(filepath.Join(keyDir(), PrivKeyFile))
	if err != nil {
		return nil, nil, err
	}
	pubHex, err := os.ReadFile(filepath.Join(keyDir(), PubKeyFile))
	if err != nil {
		return nil, nil, err
	}
	priv, err := hex.DecodeString(string(privHex))
	if err != nil {
		return nil, nil, err
	}
	pub, err := hex.DecodeString(string(pubHex))
	if err != nil {
		return nil, nil, err
	}
	return ed25519.PublicKey(pub), ed25519.PrivateKey(priv), nil
}

// Sign signs the message with the service's private key
func Sign(priv ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv, msg)
}

// Verify verifies the signature with the given public key
func Verify(pub ed25519.PublicKey, msg, sig []byte) bool {
	return ed25519.Verify(pub, msg, sig)
}
