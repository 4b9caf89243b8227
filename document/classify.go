package document

// OverheadReportTitle is the literal report title that marks a corporate
// overhead report. The match is exact; untrusted producers do not get fuzzy
// matching.
const OverheadReportTitle = "Corporate Overhead Report"

// Classify determines which financial-statement shape a document matches.
// The probes run in priority order and the first match wins. Shapes are not
// mutually exclusive in adversarial input, so the probe order is part of the
// classification contract. Unmatched documents classify as KindUnknown;
// Classify never fails.
func Classify(doc Document) Kind {
	if _, ok := doc["journalEntryId"]; ok {
		return KindJournalEntry
	}
	if list, ok := doc["assetList"].([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			if _, ok := first["assetID"]; ok {
				return KindFixedAssetsRegister
			}
		}
	}
	if _, ok := doc["employeeDetails"]; ok {
		return KindPayrollExpense
	}
	if title, ok := doc["reportTitle"].(string); ok && title == OverheadReportTitle {
		return KindOverheadReport
	}
	return KindUnknown
}
