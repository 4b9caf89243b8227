package kpi

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nautilus-earnout/kpi-engine/document"
)

func requireDecimal(t *testing.T, expected string, actual *apd.Decimal) {
	t.Helper()
	want, _, err := apd.NewFromString(expected)
	require.NoError(t, err)
	require.Zerof(t, want.Cmp(actual), "expected %s, got %s", expected, actual.Text('f'))
}

func journalDoc(amount float64) document.Document {
	return document.Document{
		"journalEntryId": "JE-2025-001",
		"credits": []any{
			map[string]any{"account": "Sales Revenue", "amount": amount},
		},
	}
}

func payrollDoc(grossPay float64) document.Document {
	return document.Document{
		"employeeDetails": map[string]any{"name": "A. Person"},
		"grossPay":        grossPay,
	}
}

func TestAggregateScenario(t *testing.T) {
	// Revenue credit of 500000 and gross pay of 120000 must net to 380000,
	// scaling to 380000000 on the wire.
	docs := []document.Document{journalDoc(500000), payrollDoc(120000)}

	result := Aggregate(docs, nil)

	requireDecimal(t, "380000", result.Value)
	requireDecimal(t, "380000", result.Delta)
	assert.Equal(t, document.KindPayrollExpense, result.LastKind)

	scaled, err := result.ScaledValue()
	require.NoError(t, err)
	assert.Equal(t, int64(380000000), scaled)
}

func TestAggregateInitialValue(t *testing.T) {
	initial, _, err := apd.NewFromString("1000.5")
	require.NoError(t, err)

	result := Aggregate([]document.Document{journalDoc(500)}, initial)

	requireDecimal(t, "1500.5", result.Value)
	requireDecimal(t, "500", result.Delta)
}

// The final value is a pure sum and must not depend on document order, even
// though the attestation hash does.
func TestAggregateOrderIndependence(t *testing.T) {
	docs := []document.Document{
		journalDoc(500000),
		payrollDoc(120000),
		{
			"reportTitle":       document.OverheadReportTitle,
			"totalOverheadCost": 50000.0,
		},
		{
			"assetList": []any{
				map[string]any{
					"assetID":          "FA-1",
					"originalCost":     120000.0,
					"residualValue":    20000.0,
					"usefulLife_years": 5.0,
				},
			},
		},
	}

	base := Aggregate(docs, nil)

	permutations := [][]document.Document{
		{docs[3], docs[2], docs[1], docs[0]},
		{docs[1], docs[3], docs[0], docs[2]},
		{docs[2], docs[0], docs[3], docs[1]},
	}
	for _, perm := range permutations {
		got := Aggregate(perm, nil)
		require.Zerof(t, base.Value.Cmp(got.Value),
			"value changed under permutation: %s vs %s", base.Value.Text('f'), got.Value.Text('f'))
	}
}

func TestAggregateDepreciation(t *testing.T) {
	docs := []document.Document{
		{
			"assetList": []any{
				map[string]any{
					"assetID":          "FA-1",
					"originalCost":     120000.0,
					"residualValue":    20000.0,
					"usefulLife_years": 5.0,
				},
			},
		},
	}

	result := Aggregate(docs, nil)

	// -(120000 - 20000) / (5 * 12) = -1666.666..., rounding half away from
	// zero on the wire.
	scaled, err := result.ScaledValue()
	require.NoError(t, err)
	assert.Equal(t, int64(-1666667), scaled)
	assert.Equal(t, document.KindFixedAssetsRegister, result.LastKind)
}

func TestAggregateDepreciationMissingLife(t *testing.T) {
	docs := []document.Document{
		{
			"assetList": []any{
				map[string]any{"assetID": "FA-2", "originalCost": 1200.0},
			},
		},
	}

	result := Aggregate(docs, nil)

	// Missing useful life assumes 1 year: -1200/12 = -100.
	requireDecimal(t, "-100", result.Value)
	require.Len(t, result.Contributions, 1)
	assert.NotEmpty(t, result.Contributions[0].ZeroNotes)
}

func TestAggregateOverhead(t *testing.T) {
	docs := []document.Document{
		{
			"reportTitle":       document.OverheadReportTitle,
			"totalOverheadCost": 50000.0,
		},
	}

	result := Aggregate(docs, nil)

	requireDecimal(t, "-5000", result.Value)
	assert.Equal(t, document.KindOverheadReport, result.LastKind)
}

func TestAggregateUnknownShape(t *testing.T) {
	docs := []document.Document{
		journalDoc(1000),
		{"invoiceNumber": "INV-7", "total": 42.0},
	}

	result := Aggregate(docs, nil)

	requireDecimal(t, "1000", result.Value)
	assert.Equal(t, document.KindUnknown, result.LastKind)
	require.Len(t, result.Contributions, 2)
	requireDecimal(t, "0", result.Contributions[1].Delta)
}

func TestAggregateMalformedFieldsContributeZero(t *testing.T) {
	t.Run("payroll with string gross pay", func(t *testing.T) {
		docs := []document.Document{
			{"employeeDetails": map[string]any{}, "grossPay": "oops"},
		}

		result := Aggregate(docs, nil)

		requireDecimal(t, "0", result.Value)
		require.Len(t, result.Contributions, 1)
		assert.NotEmpty(t, result.Contributions[0].ZeroNotes,
			"a coerced-to-zero field must leave an audit note")
	})

	t.Run("journal without revenue credit", func(t *testing.T) {
		docs := []document.Document{
			{
				"journalEntryId": "JE-2",
				"credits": []any{
					map[string]any{"account": "Deferred Revenue", "amount": 900.0},
				},
			},
		}

		result := Aggregate(docs, nil)

		requireDecimal(t, "0", result.Value)
		require.Len(t, result.Contributions, 1)
		assert.NotEmpty(t, result.Contributions[0].ZeroNotes)
	})

	t.Run("payroll without gross pay field", func(t *testing.T) {
		docs := []document.Document{
			{"employeeDetails": map[string]any{}},
		}

		result := Aggregate(docs, nil)

		requireDecimal(t, "0", result.Value)
		assert.NotEmpty(t, result.Contributions[0].ZeroNotes)
	})
}

func TestAggregateFirstRevenueCreditWins(t *testing.T) {
	docs := []document.Document{
		{
			"journalEntryId": "JE-3",
			"credits": []any{
				map[string]any{"account": "Sales Revenue", "amount": 100.0},
				map[string]any{"account": "Sales Revenue", "amount": 900.0},
			},
		},
	}

	result := Aggregate(docs, nil)
	requireDecimal(t, "100", result.Value)
}

func TestAggregateCustomPolicy(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.RevenueAccount = "Licence Revenue"
	aggregator.OverheadRate = apd.New(25, -2)

	docs := []document.Document{
		{
			"journalEntryId": "JE-4",
			"credits": []any{
				map[string]any{"account": "Licence Revenue", "amount": 800.0},
			},
		},
		{
			"reportTitle":       document.OverheadReportTitle,
			"totalOverheadCost": 1000.0,
		},
	}

	result := aggregator.Aggregate(docs, nil)
	requireDecimal(t, "550", result.Value) // 800 - 25% of 1000
}

func TestAggregateEmptyInput(t *testing.T) {
	result := Aggregate(nil, nil)
	requireDecimal(t, "0", result.Value)
	requireDecimal(t, "0", result.Delta)
	assert.Equal(t, document.KindUnknown, result.LastKind)
	assert.Empty(t, result.Contributions)
}
