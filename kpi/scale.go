package kpi

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// FixedPointScale is the factor between the KPI value and its wire form.
// Three decimal digits survive the trip onto the ledger; everything finer is
// rounded half away from zero.
const FixedPointScale = 1000

// Scale converts a KPI value to its ledger form: round(value * 1000) as a
// signed 64-bit integer. A nil value scales to zero. Values whose scaled
// form does not fit in an int64 are rejected rather than truncated, since a
// silently wrapped metric would still sign and verify.
func Scale(value *apd.Decimal) (int64, error) {
	if value == nil {
		return 0, nil
	}

	ctx := newContext()
	scaled := new(apd.Decimal)
	if _, err := ctx.Mul(scaled, value, apd.New(FixedPointScale, 0)); err != nil {
		return 0, fmt.Errorf("scale kpi value: %w", err)
	}
	if _, err := ctx.RoundToIntegralValue(scaled, scaled); err != nil {
		return 0, fmt.Errorf("round scaled value: %w", err)
	}

	out, err := scaled.Int64()
	if err != nil {
		return 0, fmt.Errorf("scaled value %s exceeds int64 range: %w", scaled.Text('f'), err)
	}
	return out, nil
}
