// Package extract selects and serializes a token-budget-bounded subset of
// workbook tabs for the report generation call.
package extract

import (
	"bytes"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultTokenBudget leaves a safe margin below the generation model's input ceiling.
const DefaultTokenBudget = 150000

// PrioritySheets is the fixed extraction order: primary statements first, then
// supporting dashboards, then budget/forecast extras. The two statement tabs
// are hard requirements.
var PrioritySheets = []CanonicalSheet{
	{
		Name:     "PL - RAW",
		Aliases:  []string{"Income Statement", "P&L", "PL", "Profit and Loss", "Profit & Loss", "P&L Statement", "Statement of Operations", "PnL"},
		Required: true,
		Keyword:  "pl",
	},
	{
		Name:     "BS - RAW",
		Aliases:  []string{"Balance Sheet", "BS", "Statement of Financial Position", "Balance Sheet - RAW"},
		Required: true,
		Keyword:  "bs",
	},
	{
		Name:    "KPI Dashboard",
		Aliases: []string{"KPIs", "Dashboard", "Metrics", "KPI"},
	},
	{
		Name:    "Cash Flow",
		Aliases: []string{"Cash Flow Statement", "CF", "Statement of Cash Flows", "Cashflow"},
	},
	{
		Name:    "Variance",
		Aliases: []string{"Budget vs Actual", "BvA", "Variance Analysis", "Actual vs Budget"},
	},
	{
		Name:    "Budget",
		Aliases: []string{"Annual Budget", "Plan", "Operating Budget"},
	},
	{
		Name:    "Forecast",
		Aliases: []string{"Reforecast", "Projections", "Rolling Forecast"},
	},
}

// Extractor reads a workbook and admits tabs greedily under a token budget.
type Extractor struct {
	priority []CanonicalSheet
}

// NewExtractor creates an extractor with the standard priority list.
func NewExtractor() *Extractor {
	return &Extractor{priority: PrioritySheets}
}

// Extract parses workbook bytes and returns the admitted sheet payloads.
// Deterministic for identical inputs; no side effects beyond logging.
// Returns ErrWorkbookUnreadable for corrupt bytes or an empty workbook, and
// *MissingSheetsError when a hard-required statement tab cannot be resolved.
func (e *Extractor) Extract(workbookBytes []byte, tokenBudget int) (*ExtractionResult, error) {
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}

	f, err := excelize.OpenReader(bytes.NewReader(workbookBytes))
	if err != nil {
		log.Printf("[Extract] Workbook open failed: %v", err)
		return nil, ErrWorkbookUnreadable
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, ErrWorkbookUnreadable
	}

	// Case-insensitive index of actual tab names.
	actualByLower := make(map[string]string, len(sheetList))
	for _, name := range sheetList {
		actualByLower[strings.ToLower(strings.TrimSpace(name))] = name
	}

	result := &ExtractionResult{}
	admitted := make(map[string]bool) // canonical name -> admitted

	for _, canonical := range e.priority {
		actual, ok := resolveSheet(canonical, actualByLower)
		if !ok {
			continue
		}

		serialized, err := serializeSheet(f, actual)
		if err != nil || serialized == "" {
			continue
		}

		cost := estimateTokens(serialized)
		if result.TotalEstimatedTokens+cost > tokenBudget {
			// Skip but keep trying: a later, smaller sheet may still fit.
			log.Printf("[Extract] Skipping %q (%d tokens), budget %d with %d used",
				canonical.Name, cost, tokenBudget, result.TotalEstimatedTokens)
			result.SkippedForBudget = append(result.SkippedForBudget, canonical.Name)
			continue
		}

		result.Sheets = append(result.Sheets, SheetPayload{
			Name:            canonical.Name,
			SerializedText:  serialized,
			EstimatedTokens: cost,
		})
		result.TotalEstimatedTokens += cost
		admitted[canonical.Name] = true
	}

	result.MissingRequired = e.missingRequired(admitted)
	if len(result.MissingRequired) > 0 {
		return result, &MissingSheetsError{Missing: result.MissingRequired}
	}

	return result, nil
}

// resolveSheet maps a canonical sheet to an actual tab name: exact
// case-insensitive match first, then the alias table.
func resolveSheet(canonical CanonicalSheet, actualByLower map[string]string) (string, bool) {
	if actual, ok := actualByLower[strings.ToLower(canonical.Name)]; ok {
		return actual, true
	}
	for _, alias := range canonical.Aliases {
		if actual, ok := actualByLower[strings.ToLower(alias)]; ok {
			return actual, true
		}
	}
	return "", false
}

// missingRequired checks the hard-required tabs against admitted canonical
// names by domain keyword substring. Intentionally loose, see DESIGN.md.
func (e *Extractor) missingRequired(admitted map[string]bool) []string {
	var missing []string
	for _, canonical := range e.priority {
		if !canonical.Required {
			continue
		}
		found := false
		for name := range admitted {
			if strings.Contains(strings.ToLower(name), canonical.Keyword) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, canonical.Name)
		}
	}
	return missing
}

// serializeSheet flattens a tab's grid to delimited text. Rows with only
// empty cells are dropped; cells keep their displayed formatting.
func serializeSheet(f *excelize.File, sheetName string) (string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, row := range rows {
		cells := make([]string, len(row))
		hasData := false
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				hasData = true
			}
		}
		if !hasData {
			continue
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// estimateTokens approximates downstream token consumption at 4 chars/token,
// rounded up.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}
