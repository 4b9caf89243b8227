package app

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/nautilus-earnout/kpi-engine/attest"
	"github.com/nautilus-earnout/kpi-engine/document"
)

// loadDocuments reads a JSON array of financial documents from disk.
func loadDocuments(path string) ([]document.Document, error) {
	// #nosec G304 -- caller supplies local document path by design
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}

	var docs []document.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse documents: %w", err)
	}
	return docs, nil
}

// loadSigner reads a base64-encoded ed25519 private key from disk and wraps
// it as a signing capability. Key generation and custody stay outside this
// tool.
func loadSigner(path string) (attest.Signer, error) {
	// #nosec G304 -- caller supplies local key path by design
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	return attest.NewEd25519Signer(ed25519.PrivateKey(decoded))
}

func parseDecimal(value string) (*apd.Decimal, error) {
	dec, _, err := apd.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", value, err)
	}
	return dec, nil
}
