package attest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/nautilus-earnout/kpi-engine/document"
)

// CanonicalDocuments returns the canonical serialization of a document
// sequence: the RFC 8785 (JCS) form of the JSON array. Key order inside each
// document cannot perturb the result, but the sequence order can: the
// attestation binds a computation over a specific ordering, not a set. This
// serialization is a compatibility contract shared with every independent
// verifier.
func CanonicalDocuments(docs []document.Document) ([]byte, error) {
	if docs == nil {
		docs = []document.Document{}
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("marshal documents: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize documents: %w", err)
	}
	return canonical, nil
}

// InputHash digests the canonical document serialization for embedding in an
// attestation.
func InputHash(docs []document.Document) ([HashSize]byte, error) {
	canonical, err := CanonicalDocuments(docs)
	if err != nil {
		return [HashSize]byte{}, err
	}
	return sha256.Sum256(canonical), nil
}
