package document

import (
	"github.com/mitchellh/mapstructure"
)

// Typed projections of the known document shapes. Field names mirror the
// evidence producers' JSON keys, including the inconsistent
// "usefulLife_years" casing, which is part of the interchange format.

type CreditLine struct {
	Account string  `mapstructure:"account"`
	Amount  float64 `mapstructure:"amount"`
}

type JournalEntry struct {
	JournalEntryID string       `mapstructure:"journalEntryId"`
	Credits        []CreditLine `mapstructure:"credits"`
}

type Asset struct {
	AssetID         string  `mapstructure:"assetID"`
	OriginalCost    float64 `mapstructure:"originalCost"`
	ResidualValue   float64 `mapstructure:"residualValue"`
	UsefulLifeYears float64 `mapstructure:"usefulLife_years"`
}

type FixedAssetsRegister struct {
	AssetList []Asset `mapstructure:"assetList"`
}

type PayrollExpense struct {
	GrossPay float64 `mapstructure:"grossPay"`
}

type OverheadReport struct {
	ReportTitle       string  `mapstructure:"reportTitle"`
	TotalOverheadCost float64 `mapstructure:"totalOverheadCost"`
}

// DecodeShape projects an untyped document tree onto one of the typed shapes
// above. Decoding is tolerant: a field that cannot be decoded is left at its
// zero value while the rest of the shape is still populated, and the returned
// error lists every field that was skipped. Callers turn that error into an
// audit note, not a failure, because partially corrupt evidence must not
// abort the whole computation.
func DecodeShape(doc Document, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]any(doc))
}
