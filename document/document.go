// Package document models one piece of financial evidence and its structural
// classification. Documents arrive as arbitrary key/value trees produced by
// independent, untrusted parties, so classification works purely from shape:
// there is no explicit type label to trust.
package document

// Document is one parsed piece of financial evidence. The engine never
// mutates a document; it only reads fields for the duration of a single
// computation.
type Document map[string]any

// Kind is the structural classification of a document.
type Kind int

const (
	KindUnknown Kind = iota
	KindJournalEntry
	KindFixedAssetsRegister
	KindPayrollExpense
	KindOverheadReport
)

func (k Kind) String() string {
	switch k {
	case KindJournalEntry:
		return "JournalEntry"
	case KindFixedAssetsRegister:
		return "FixedAssetsRegister"
	case KindPayrollExpense:
		return "PayrollExpense"
	case KindOverheadReport:
		return "OverheadReport"
	default:
		return "Unknown"
	}
}
