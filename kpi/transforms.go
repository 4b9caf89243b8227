package kpi

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/nautilus-earnout/kpi-engine/document"
)

// deltaFor dispatches to the kind-specific transform. Unknown documents
// contribute nothing and carry no notes; contributing zero is their
// legitimate behaviour, not a corruption signal.
func (a *Aggregator) deltaFor(kind document.Kind, doc document.Document) (*apd.Decimal, []string) {
	switch kind {
	case document.KindJournalEntry:
		return a.journalDelta(doc)
	case document.KindFixedAssetsRegister:
		return a.depreciationDelta(doc)
	case document.KindPayrollExpense:
		return a.payrollDelta(doc)
	case document.KindOverheadReport:
		return a.overheadDelta(doc)
	default:
		return new(apd.Decimal), nil
	}
}

// journalDelta contributes the amount of the first credit line booked against
// the revenue account. A journal entry without such a line legitimately
// contributes zero, which the note makes distinguishable from corruption.
func (a *Aggregator) journalDelta(doc document.Document) (*apd.Decimal, []string) {
	var shape document.JournalEntry
	var notes []string
	if err := document.DecodeShape(doc, &shape); err != nil {
		notes = append(notes, fmt.Sprintf("journal fields coerced to zero: %v", err))
	}

	for _, credit := range shape.Credits {
		if credit.Account == a.RevenueAccount {
			return decimalFromFloat(credit.Amount), notes
		}
	}
	notes = append(notes, fmt.Sprintf("no credit line for account %q", a.RevenueAccount))
	return new(apd.Decimal), notes
}

// depreciationDelta contributes the negated straight-line monthly
// depreciation summed over every listed asset:
// -(originalCost - residualValue) / (usefulLifeYears * 12).
// A missing or non-positive useful life coerces to 1 year, not 0, so the
// quotient stays defined.
func (a *Aggregator) depreciationDelta(doc document.Document) (*apd.Decimal, []string) {
	var shape document.FixedAssetsRegister
	var notes []string
	if err := document.DecodeShape(doc, &shape); err != nil {
		notes = append(notes, fmt.Sprintf("asset fields coerced to zero: %v", err))
	}

	total := new(apd.Decimal)
	for _, asset := range shape.AssetList {
		life := asset.UsefulLifeYears
		if life <= 0 {
			life = 1
			notes = append(notes, fmt.Sprintf("asset %q: usefulLife_years missing, assuming 1 year", asset.AssetID))
		}

		basis := new(apd.Decimal)
		_, _ = a.ctx.Sub(basis, decimalFromFloat(asset.OriginalCost), decimalFromFloat(asset.ResidualValue))

		monthly := new(apd.Decimal)
		_, _ = a.ctx.Quo(monthly, basis, decimalFromFloat(life*monthsPerYear))
		_, _ = a.ctx.Add(total, total, monthly)
	}

	return total.Neg(total), notes
}

// payrollDelta contributes -grossPay.
func (a *Aggregator) payrollDelta(doc document.Document) (*apd.Decimal, []string) {
	var shape document.PayrollExpense
	var notes []string
	if err := document.DecodeShape(doc, &shape); err != nil {
		notes = append(notes, fmt.Sprintf("payroll fields coerced to zero: %v", err))
	}
	if _, present := doc["grossPay"]; !present {
		notes = append(notes, "grossPay absent, contributing 0")
	}

	gross := decimalFromFloat(shape.GrossPay)
	return gross.Neg(gross), notes
}

// overheadDelta contributes the negated fixed allocation share of the
// reported overhead: -(totalOverheadCost * OverheadRate).
func (a *Aggregator) overheadDelta(doc document.Document) (*apd.Decimal, []string) {
	var shape document.OverheadReport
	var notes []string
	if err := document.DecodeShape(doc, &shape); err != nil {
		notes = append(notes, fmt.Sprintf("overhead fields coerced to zero: %v", err))
	}
	if _, present := doc["totalOverheadCost"]; !present {
		notes = append(notes, "totalOverheadCost absent, contributing 0")
	}

	allocated := new(apd.Decimal)
	_, _ = a.ctx.Mul(allocated, decimalFromFloat(shape.TotalOverheadCost), a.OverheadRate)
	return allocated.Neg(allocated), notes
}

// decimalFromFloat converts a JSON-sourced number to an exact decimal. JSON
// cannot carry NaN or infinities, but the guard keeps the transforms total
// if a caller hands us one anyway.
func decimalFromFloat(f float64) *apd.Decimal {
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(f); err != nil {
		return new(apd.Decimal)
	}
	return d
}
