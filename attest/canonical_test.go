package attest

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-earnout/kpi-engine/document"
)

func TestCanonicalDocumentsKeyOrder(t *testing.T) {
	// Logically identical documents must canonicalize identically: JCS
	// sorts object keys and normalizes number forms.
	doc := document.Document{"b": 2.0, "a": 1.0, "nested": map[string]any{"z": true, "y": "x"}}

	canonical, err := CanonicalDocuments([]document.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1,"b":2,"nested":{"y":"x","z":true}}]`, string(canonical))
}

func TestInputHashOrderSensitive(t *testing.T) {
	a := document.Document{"journalEntryId": "JE-1"}
	b := document.Document{"employeeDetails": map[string]any{}, "grossPay": 100.0}

	forward, err := InputHash([]document.Document{a, b})
	require.NoError(t, err)
	reversed, err := InputHash([]document.Document{b, a})
	require.NoError(t, err)

	// Two permutations of the same set must hash differently: the
	// attestation binds a specific computation, not a set.
	assert.NotEqual(t, forward, reversed)
}

func TestInputHashDeterministic(t *testing.T) {
	docs := []document.Document{
		{"journalEntryId": "JE-1", "credits": []any{map[string]any{"account": "Sales Revenue", "amount": 500000.0}}},
	}

	first, err := InputHash(docs)
	require.NoError(t, err)
	second, err := InputHash(docs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInputHashEmptySequence(t *testing.T) {
	fromNil, err := InputHash(nil)
	require.NoError(t, err)
	fromEmpty, err := InputHash([]document.Document{})
	require.NoError(t, err)

	assert.Equal(t, fromEmpty, fromNil)
	assert.Equal(t, [HashSize]byte(sha256.Sum256([]byte("[]"))), fromNil)
}
