// Package kpi folds classified financial documents into the single
// cumulative earn-out metric. The fold is a pure sum, so the final value is
// order-independent even though the attestation layer binds the literal
// document order. Arithmetic runs on exact decimals; floats only appear at
// the edge where JSON numbers enter.
package kpi

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/nautilus-earnout/kpi-engine/document"
)

// DefaultRevenueAccount is the credit account whose journal entries count
// toward revenue.
const DefaultRevenueAccount = "Sales Revenue"

const monthsPerYear = 12

// Contribution records what one document added to the running metric, for
// audit replay. ZeroNotes explains every field that coerced to zero, so a
// reviewer can tell a legitimately zero delta from a corrupted one.
type Contribution struct {
	Index     int
	Kind      document.Kind
	Delta     *apd.Decimal
	ZeroNotes []string
}

// Result is the outcome of folding a document sequence. Value is the
// cumulative metric after the fold, Delta is Value minus the initial value,
// and LastKind is the kind of the final document processed. LastKind exists
// for diagnostic display only; callers must not branch business logic on it.
type Result struct {
	Value         *apd.Decimal
	Delta         *apd.Decimal
	LastKind      document.Kind
	Contributions []Contribution
}

// ScaledValue returns the on-the-wire fixed-point form of Value.
func (r Result) ScaledValue() (int64, error) {
	return Scale(r.Value)
}

// Aggregator folds documents into the cumulative metric. The zero-value
// policy knobs default to the contractual constants; the service layer may
// override them from configuration.
type Aggregator struct {
	RevenueAccount string
	OverheadRate   *apd.Decimal

	ctx *apd.Context
}

// NewAggregator returns an aggregator with the contractual defaults: revenue
// recognised from "Sales Revenue" credits and a fixed 10% overhead
// allocation.
func NewAggregator() *Aggregator {
	return &Aggregator{
		RevenueAccount: DefaultRevenueAccount,
		OverheadRate:   apd.New(10, -2),
		ctx:            newContext(),
	}
}

// Aggregate folds the documents left to right starting from initial (nil
// means zero). Each document is classified, its kind-specific transform
// yields a signed delta, and the delta is added to the running total.
// Aggregate is total: malformed or missing fields contribute zero and are
// recorded in the contribution trace instead of aborting the computation.
func (a *Aggregator) Aggregate(docs []document.Document, initial *apd.Decimal) Result {
	start := new(apd.Decimal)
	if initial != nil {
		start.Set(initial)
	}

	value := new(apd.Decimal).Set(start)
	contributions := make([]Contribution, 0, len(docs))
	lastKind := document.KindUnknown

	for i, doc := range docs {
		kind := document.Classify(doc)
		delta, notes := a.deltaFor(kind, doc)
		_, _ = a.ctx.Add(value, value, delta)
		contributions = append(contributions, Contribution{
			Index:     i,
			Kind:      kind,
			Delta:     delta,
			ZeroNotes: notes,
		})
		lastKind = kind
	}

	delta := new(apd.Decimal)
	_, _ = a.ctx.Sub(delta, value, start)

	return Result{
		Value:         value,
		Delta:         delta,
		LastKind:      lastKind,
		Contributions: contributions,
	}
}

// Aggregate folds documents with the default policy constants. Convenience
// wrapper over NewAggregator for callers that do not carry configuration.
func Aggregate(docs []document.Document, initial *apd.Decimal) Result {
	return NewAggregator().Aggregate(docs, initial)
}

func newContext() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}
