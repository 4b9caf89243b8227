// Package service connects the pure attestation engine to its external
// collaborators: the document-storage network that holds the evidence and
// the ledger that records attestations. Both stay behind interfaces; this
// package owns the queueing, batching, logging, and retry discipline around
// the engine, while the engine itself stays synchronous and side-effect
// free.
package service

import (
	"context"

	"github.com/nautilus-earnout/kpi-engine/document"
)

// DocumentStore is the document-storage collaborator. It resolves a
// document-set identifier to the parsed evidence documents, already
// decrypted and decoded by the storage layer.
type DocumentStore interface {
	LoadDocuments(ctx context.Context, documentSetID string) ([]document.Document, error)
}

// LedgerClient is the ledger collaborator. SubmitAttestation receives the
// encoded 144-byte record alongside the scaled KPI value and the
// document-set identifier. The ledger side runs its own verification and
// gates acceptance on its own preconditions (for example, that every
// evidentiary document is already marked audited); this service does not
// enforce those.
type LedgerClient interface {
	SubmitAttestation(ctx context.Context, record []byte, kpiValueScaled int64, documentSetID string) error
}
