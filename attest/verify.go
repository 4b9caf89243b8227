package attest

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/nautilus-earnout/kpi-engine/document"
	"github.com/nautilus-earnout/kpi-engine/kpi"
)

// FailureCode identifies which verification check rejected an attestation.
// Each code marks a distinct tamper or staleness scenario; consumers must
// react to them individually, never collapse them.
type FailureCode int

const (
	FailureInputSetMismatch FailureCode = iota + 1
	FailureValueMismatch
	FailureExpired
	FailureFutureTimestamp
	FailureInvalidSignature
)

func (c FailureCode) String() string {
	switch c {
	case FailureInputSetMismatch:
		return "input set mismatch"
	case FailureValueMismatch:
		return "value mismatch"
	case FailureExpired:
		return "expired"
	case FailureFutureTimestamp:
		return "future timestamp"
	case FailureInvalidSignature:
		return "invalid signature"
	default:
		return fmt.Sprintf("unknown failure code %d", int(c))
	}
}

// VerificationError reports one failed verification check.
type VerificationError struct {
	Code   FailureCode
	Detail string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("attestation verification failed (%s): %s", e.Code, e.Detail)
}

// VerifyParams carries the verifier's independent expectations: the value
// and documents it would accept, its own clock, and the freshness window.
type VerifyParams struct {
	ExpectedValue     *apd.Decimal
	ExpectedDocuments []document.Document
	Now               time.Time
	MaxAge            time.Duration

	// ClockSkewTolerance bounds how far in the future a timestamp may sit
	// before it is rejected, absorbing clock drift between signer and
	// verifier.
	ClockSkewTolerance time.Duration
}

// Verify runs the checks in order (input hash, value, freshness, signature)
// and returns the first failure as a *VerificationError, or nil
// when all pass. Production gates use this form; the returned error always
// says which check failed.
func Verify(att *Attestation, params VerifyParams) error {
	for _, check := range checks(att, params) {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// VerifyAll runs every check regardless of earlier failures and returns all
// of them, in check order. Diagnostic and test harnesses use this form to
// see the complete damage picture at once.
func VerifyAll(att *Attestation, params VerifyParams) []error {
	var failures []error
	for _, check := range checks(att, params) {
		if err := check(); err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}

func checks(att *Attestation, params VerifyParams) []func() error {
	return []func() error{
		func() error { return checkInputHash(att, params.ExpectedDocuments) },
		func() error { return checkValue(att, params.ExpectedValue) },
		func() error {
			return checkFreshness(att, params.Now, params.MaxAge, params.ClockSkewTolerance)
		},
		func() error { return checkSignature(att) },
	}
}

// checkInputHash independently recomputes the input hash from the documents
// the verifier expects and compares it to the attested one.
func checkInputHash(att *Attestation, docs []document.Document) error {
	expected, err := InputHash(docs)
	if err != nil {
		return &VerificationError{
			Code:   FailureInputSetMismatch,
			Detail: fmt.Sprintf("recompute input hash: %v", err),
		}
	}
	if expected != att.InputHash {
		return &VerificationError{
			Code:   FailureInputSetMismatch,
			Detail: fmt.Sprintf("recomputed %x, attested %x", expected, att.InputHash),
		}
	}
	return nil
}

func checkValue(att *Attestation, expected *apd.Decimal) error {
	scaled, err := kpi.Scale(expected)
	if err != nil {
		return &VerificationError{
			Code:   FailureValueMismatch,
			Detail: fmt.Sprintf("scale expected value: %v", err),
		}
	}
	if scaled != att.KPIValueScaled {
		return &VerificationError{
			Code:   FailureValueMismatch,
			Detail: fmt.Sprintf("expected scaled value %d, attested %d", scaled, att.KPIValueScaled),
		}
	}
	return nil
}

// checkFreshness accepts timestamps whose age sits within
// [-ClockSkewTolerance, MaxAge]. An attestation aged exactly MaxAge still
// passes; one millisecond older does not.
func checkFreshness(att *Attestation, now time.Time, maxAge, skew time.Duration) error {
	age := now.UnixMilli() - int64(att.Timestamp)
	if age > maxAge.Milliseconds() {
		return &VerificationError{
			Code:   FailureExpired,
			Detail: fmt.Sprintf("attestation is %dms old, max age %dms", age, maxAge.Milliseconds()),
		}
	}
	if age < -skew.Milliseconds() {
		return &VerificationError{
			Code:   FailureFutureTimestamp,
			Detail: fmt.Sprintf("timestamp is %dms ahead of verifier clock, tolerance %dms", -age, skew.Milliseconds()),
		}
	}
	return nil
}

func checkSignature(att *Attestation) error {
	if !ed25519.Verify(att.SignerPublicKey[:], att.SigningMessage(), att.Signature[:]) {
		return &VerificationError{
			Code:   FailureInvalidSignature,
			Detail: "signature does not verify over the signing message",
		}
	}
	return nil
}
