package extract

// SheetPayload is one admitted workbook tab, serialized for the generation call.
type SheetPayload struct {
	Name            string `json:"name"`             // Canonical name, not the workbook's native tab name
	SerializedText  string `json:"serialized_text"`  // Flat "cell | cell | cell" rows
	EstimatedTokens int    `json:"estimated_tokens"` // ceil(len/4) proxy for downstream consumption
}

// ExtractionResult holds the budget-bounded subset of tabs selected from a workbook.
// Sheets appear in priority order (primary statements first), not workbook order.
type ExtractionResult struct {
	Sheets               []SheetPayload `json:"sheets"`
	TotalEstimatedTokens int            `json:"total_estimated_tokens"`
	MissingRequired      []string       `json:"missing_required"`
	SkippedForBudget     []string       `json:"skipped_for_budget"`
}

// CanonicalSheet defines one entry in the fixed extraction priority list.
type CanonicalSheet struct {
	Name     string   // Canonical name used in the payload ("PL - RAW")
	Aliases  []string // Known real-world tab name synonyms
	Required bool     // Hard requirement: extraction fails fast if absent
	Keyword  string   // Domain keyword used by the loose missing-required check
}
