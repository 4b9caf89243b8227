package attest

import (
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/nautilus-earnout/kpi-engine/document"
	"github.com/nautilus-earnout/kpi-engine/kpi"
)

// Builder turns a document sequence into a signed attestation. Each Build
// call is independent and purely computational; concurrent builds need no
// coordination. Now is replaceable so tests can produce byte-identical
// attestations from identical inputs.
type Builder struct {
	Signer     Signer
	Aggregator *kpi.Aggregator
	Now        func() time.Time
}

// NewBuilder returns a builder with the default aggregation policy and the
// real clock.
func NewBuilder(signer Signer) *Builder {
	return &Builder{
		Signer:     signer,
		Aggregator: kpi.NewAggregator(),
		Now:        time.Now,
	}
}

// Build aggregates the documents, hashes their canonical serialization,
// captures the timestamp, signs the message, and assembles the 144-byte
// record, in that order. The aggregation result is returned alongside the
// attestation so callers can surface the contribution trace.
func (b *Builder) Build(docs []document.Document, initial *apd.Decimal) (*Attestation, kpi.Result, error) {
	if b.Signer == nil {
		return nil, kpi.Result{}, fmt.Errorf("signer not configured")
	}

	result := b.Aggregator.Aggregate(docs, initial)

	scaled, err := result.ScaledValue()
	if err != nil {
		return nil, result, fmt.Errorf("scale kpi value: %w", err)
	}

	hash, err := InputHash(docs)
	if err != nil {
		return nil, result, err
	}

	att := &Attestation{
		KPIValueScaled: scaled,
		InputHash:      hash,
		Timestamp:      uint64(b.Now().UnixMilli()),
	}

	signature, err := b.Signer.Sign(att.SigningMessage())
	if err != nil {
		return nil, result, fmt.Errorf("sign attestation: %w", err)
	}
	if l := len(signature); l != SignatureSize {
		return nil, result, fmt.Errorf("signer returned %d-byte signature, want %d", l, SignatureSize)
	}

	att.SignerPublicKey = b.Signer.PublicKey()
	copy(att.Signature[:], signature)
	return att, result, nil
}
