// Package attest binds a computed KPI value to the exact evidence it was
// derived from. An attestation is the signed 144-byte claim "this metric was
// derived from this document sequence, at this time, by this signer"; it is
// built once, transmitted once, and terminally accepted or rejected by the
// verifying party.
package attest

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// RecordSize is the exact width of an encoded attestation. Downstream
	// ledger logic allocates a fixed buffer for it, so any change to a field
	// width breaks wire compatibility.
	RecordSize = 144

	// HashSize is the width of the input-set digest.
	HashSize = 32

	// PublicKeySize and SignatureSize are the ed25519 widths fixed by the
	// wire contract.
	PublicKeySize = 32
	SignatureSize = 64

	messageSize = 8 + HashSize + 8
)

// ErrMalformedAttestation reports a record that is not exactly RecordSize
// bytes. It is fatal; there is nothing to retry.
var ErrMalformedAttestation = errors.New("malformed attestation record")

// Attestation is the signed claim, decoded.
//
// Wire layout (little-endian integers):
//
//	offset 0   8 bytes   kpiValueScaled (i64, kpi * 1000, rounded)
//	offset 8   32 bytes  inputHash
//	offset 40  8 bytes   timestamp (u64 ms since epoch)
//	offset 48  32 bytes  signerPublicKey
//	offset 80  64 bytes  signature
type Attestation struct {
	KPIValueScaled  int64
	InputHash       [HashSize]byte
	Timestamp       uint64
	SignerPublicKey [PublicKeySize]byte
	Signature       [SignatureSize]byte
}

// Encode serializes the attestation into its 144-byte wire form.
func (a *Attestation) Encode() []byte {
	buf := make([]byte, RecordSize)
	cursor := 0

	binary.LittleEndian.PutUint64(buf[cursor:cursor+8], uint64(a.KPIValueScaled))
	cursor += 8

	copy(buf[cursor:cursor+HashSize], a.InputHash[:])
	cursor += HashSize

	binary.LittleEndian.PutUint64(buf[cursor:cursor+8], a.Timestamp)
	cursor += 8

	copy(buf[cursor:cursor+PublicKeySize], a.SignerPublicKey[:])
	cursor += PublicKeySize

	copy(buf[cursor:cursor+SignatureSize], a.Signature[:])
	return buf
}

// Decode parses a 144-byte wire record. It is the exact inverse of Encode
// and fails with ErrMalformedAttestation for any other input length.
func Decode(data []byte) (*Attestation, error) {
	if len(data) != RecordSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedAttestation, len(data), RecordSize)
	}

	att := &Attestation{}
	cursor := 0

	att.KPIValueScaled = int64(binary.LittleEndian.Uint64(data[cursor : cursor+8]))
	cursor += 8

	copy(att.InputHash[:], data[cursor:cursor+HashSize])
	cursor += HashSize

	att.Timestamp = binary.LittleEndian.Uint64(data[cursor : cursor+8])
	cursor += 8

	copy(att.SignerPublicKey[:], data[cursor:cursor+PublicKeySize])
	cursor += PublicKeySize

	copy(att.Signature[:], data[cursor:cursor+SignatureSize])
	return att, nil
}

// SigningMessage returns the exact bytes covered by the signature:
// le_u64(kpiValueScaled) || inputHash || le_u64(timestamp). The public key
// and signature are excluded, and nothing else is. Signing a superset or
// subset breaks cross-implementation verification.
func (a *Attestation) SigningMessage() []byte {
	msg := make([]byte, messageSize)
	binary.LittleEndian.PutUint64(msg[0:8], uint64(a.KPIValueScaled))
	copy(msg[8:8+HashSize], a.InputHash[:])
	binary.LittleEndian.PutUint64(msg[8+HashSize:], a.Timestamp)
	return msg
}
