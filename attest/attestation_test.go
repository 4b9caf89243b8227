package attest

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAttestation() *Attestation {
	att := &Attestation{
		KPIValueScaled: -380000000,
		Timestamp:      1735689600123,
	}
	for i := range att.InputHash {
		att.InputHash[i] = byte(i)
	}
	for i := range att.SignerPublicKey {
		att.SignerPublicKey[i] = byte(0xA0 + i%16)
	}
	for i := range att.Signature {
		att.Signature[i] = byte(0x30 + i%64)
	}
	return att
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	att := sampleAttestation()

	record := att.Encode()
	require.Len(t, record, RecordSize)

	decoded, err := Decode(record)
	require.NoError(t, err)
	require.Equal(t, att, decoded)

	// Re-encoding must reproduce the record byte for byte.
	require.True(t, bytes.Equal(record, decoded.Encode()))
}

func TestEncodeLayout(t *testing.T) {
	att := sampleAttestation()
	record := att.Encode()

	assert.Equal(t, uint64(att.KPIValueScaled), binary.LittleEndian.Uint64(record[0:8]))
	assert.Equal(t, att.InputHash[:], record[8:40])
	assert.Equal(t, att.Timestamp, binary.LittleEndian.Uint64(record[40:48]))
	assert.Equal(t, att.SignerPublicKey[:], record[48:80])
	assert.Equal(t, att.Signature[:], record[80:144])
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	for _, length := range []int{0, 1, 40, RecordSize - 1, RecordSize + 1, 2 * RecordSize} {
		_, err := Decode(make([]byte, length))
		require.Error(t, err, "length %d must be rejected", length)
		require.ErrorIs(t, err, ErrMalformedAttestation)
	}
}

func TestSigningMessage(t *testing.T) {
	att := sampleAttestation()
	msg := att.SigningMessage()

	require.Len(t, msg, 48)
	assert.Equal(t, uint64(att.KPIValueScaled), binary.LittleEndian.Uint64(msg[0:8]))
	assert.Equal(t, att.InputHash[:], msg[8:40])
	assert.Equal(t, att.Timestamp, binary.LittleEndian.Uint64(msg[40:48]))

	// The message covers exactly the first three wire fields and nothing
	// else: public key and signature never sign themselves.
	record := att.Encode()
	assert.Equal(t, record[0:48], msg)
}
