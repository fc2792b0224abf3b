package render

import (
	"regexp"
	"strings"
)

// Table is a pipe-delimited table lifted out of section narrative, with
// every cell already classified for display.
type Table struct {
	Headers []string        `json:"headers"`
	Rows    []ClassifiedRow `json:"rows"`
}

// ClassifiedRow carries the row's leading label plus per-cell classification
// and the total/subtotal highlight flags.
type ClassifiedRow struct {
	Label      string            `json:"label"`
	Cells      []ClassifiedValue `json:"cells"`
	IsTotal    bool              `json:"is_total"`
	IsSubtotal bool              `json:"is_subtotal"`
}

var tableSeparatorRe = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)

// indicatorHeaderRe recognizes yes/no flag columns ("Material?", "Flag",
// "Indicator") whose cells carry checkmarks rather than figures.
var indicatorHeaderRe = regexp.MustCompile(`(?i)^\s*(material|flag|indicator|significant)\s*\??\s*$`)

// ParseTables splits pipe-delimited tables out of narrative text, classifying
// every cell. Returns the tables and the remaining narrative with table
// lines (and residual block headings) removed.
func ParseTables(text string) ([]Table, string) {
	lines := strings.Split(text, "\n")

	var tables []Table
	var narrative []string
	var current []string

	flush := func() {
		if tbl, ok := buildTable(current); ok {
			tables = append(tables, tbl)
		} else {
			narrative = append(narrative, current...)
		}
		current = nil
	}

	for _, line := range lines {
		if isTableLine(line) {
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			flush()
		}
		narrative = append(narrative, line)
	}
	if len(current) > 0 {
		flush()
	}

	return tables, strings.TrimSpace(strings.Join(narrative, "\n"))
}

func isTableLine(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "|") && strings.Count(t, "|") >= 2
}

// buildTable turns consecutive pipe lines into a classified table. Requires
// at least a header and one data row to count as a table.
func buildTable(lines []string) (Table, bool) {
	var rows [][]string
	for _, line := range lines {
		if tableSeparatorRe.MatchString(line) {
			continue
		}
		rows = append(rows, splitPipeRow(line))
	}
	if len(rows) < 2 {
		return Table{}, false
	}

	tbl := Table{Headers: rows[0]}

	indicatorCols := make(map[int]bool)
	for i, header := range rows[0] {
		if indicatorHeaderRe.MatchString(header) {
			indicatorCols[i] = true
		}
	}

	for _, cells := range rows[1:] {
		label := ""
		if len(cells) > 0 {
			label = cells[0]
		}
		row := ClassifiedRow{
			Label:      label,
			IsTotal:    IsTotalRow(label),
			IsSubtotal: IsSubtotalRow(label),
		}
		for i, cell := range cells {
			// Indicator columns take precedence over numeric classification;
			// an unrecognized token falls back to the ordinary path.
			if indicatorCols[i] {
				if cv, ok := classifyIndicatorCell(cell); ok {
					row.Cells = append(row.Cells, cv)
					continue
				}
			}
			row.Cells = append(row.Cells, Classify(cell))
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, true
}

// classifyIndicatorCell maps a recognized indicator cell to its display form.
// The second result is false for tokens ClassifyIndicator cannot place.
func classifyIndicatorCell(raw string) (ClassifiedValue, bool) {
	switch ClassifyIndicator(raw) {
	case IndicatorYes:
		return ClassifiedValue{DisplayText: "✓", IsPositive: true}, true
	case IndicatorNo:
		return ClassifiedValue{DisplayText: "✗"}, true
	case IndicatorNA:
		return ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}, true
	default:
		return ClassifiedValue{}, false
	}
}

func splitPipeRow(line string) []string {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	parts := strings.Split(t, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		// Row labels are classified raw; Classify trims again for display.
		cells[i] = strings.Trim(p, " ")
		cells[i] = strings.TrimSpace(strings.Trim(cells[i], "*")) // bold-wrapped labels
	}
	return cells
}
