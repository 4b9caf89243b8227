package attest

import (
	"crypto/ed25519"
	"fmt"
	"sync"
)

// Signer is the opaque signing capability injected by whoever holds the
// private key, whether an enclave, a KMS, or a test fixture. The engine never
// stores or derives raw key material through this interface.
type Signer interface {
	// Sign returns a 64-byte signature over the message.
	Sign(message []byte) ([]byte, error)

	// PublicKey returns the 32-byte public counterpart for embedding in the
	// attestation record.
	PublicKey() [PublicKeySize]byte
}

// Ed25519Signer signs attestation messages with an in-memory ed25519 key.
// It suits callers whose process already sits inside the key's trust
// boundary; production deployments typically wrap their key-management
// service instead.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
	mu   sync.RWMutex
}

// NewEd25519Signer wraps an existing private key. Key generation stays
// outside the engine.
func NewEd25519Signer(priv ed25519.PrivateKey) (*Ed25519Signer, error) {
	if priv == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}
	if l := len(priv); l != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: got %d, want %d", l, ed25519.PrivateKeySize)
	}
	return &Ed25519Signer{priv: priv}, nil
}

// Sign signs the message and returns the 64-byte signature.
func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.priv == nil {
		return nil, fmt.Errorf("private key not initialised")
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("message cannot be empty")
	}
	return ed25519.Sign(s.priv, message), nil
}

// PublicKey returns the signer's public key in wire form.
func (s *Ed25519Signer) PublicKey() [PublicKeySize]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pub [PublicKeySize]byte
	copy(pub[:], s.priv.Public().(ed25519.PublicKey))
	return pub
}
