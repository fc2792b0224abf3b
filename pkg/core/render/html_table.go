package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The generator occasionally emits raw HTML tables instead of pipe tables.
// NormalizeHTMLTables rewrites each <table> span into an equivalent pipe
// table using a virtual grid so colspan/rowspan cells still line up.

var htmlTableRe = regexp.MustCompile(`(?is)<table[^>]*>.*?</table>`)

// NormalizeHTMLTables replaces embedded HTML tables with pipe-table text.
// Unconvertible tables are dropped rather than leaked into the narrative.
func NormalizeHTMLTables(text string) string {
	if !strings.Contains(strings.ToLower(text), "<table") {
		return text
	}
	return htmlTableRe.ReplaceAllStringFunc(text, func(tableHTML string) string {
		return convertHTMLTable(tableHTML)
	})
}

func convertHTMLTable(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return ""
	}

	trs := doc.Find("tr")
	rowCount := trs.Length()
	if rowCount == 0 {
		return ""
	}

	// Size the grid from the widest row, counting colspans.
	maxCols := 0
	trs.Each(func(_ int, tr *goquery.Selection) {
		cols := 0
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cols += spanAttr(cell, "colspan")
		})
		if cols > maxCols {
			maxCols = cols
		}
	})
	if maxCols == 0 {
		return ""
	}

	grid := make([][]string, rowCount)
	filled := make([][]bool, rowCount)
	for i := range grid {
		grid[i] = make([]string, maxCols)
		filled[i] = make([]bool, maxCols)
	}

	trs.Each(func(rowIdx int, tr *goquery.Selection) {
		colIdx := 0
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			for colIdx < maxCols && filled[rowIdx][colIdx] {
				colIdx++
			}
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")
			text := strings.Join(strings.Fields(cell.Text()), " ")

			for r := 0; r < rowspan && rowIdx+r < rowCount; r++ {
				for c := 0; c < colspan && colIdx+c < maxCols; c++ {
					if r == 0 && c == 0 {
						grid[rowIdx+r][colIdx+c] = text
					}
					filled[rowIdx+r][colIdx+c] = true
				}
			}
			colIdx += colspan
		})
	})

	var sb strings.Builder
	for i, row := range grid {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString(" |\n")
		if i == 0 {
			sb.WriteString("|")
			sb.WriteString(strings.Repeat(" --- |", maxCols))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func spanAttr(cell *goquery.Selection, name string) int {
	n, err := strconv.Atoi(cell.AttrOr(name, "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
