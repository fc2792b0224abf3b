package extract

import (
	"fmt"
	"strings"
)

// BuildPayload assembles the delimited text blob handed to the generation
// call: a header identifying the client and period, then each admitted sheet
// under a "### SHEET:" marker. This exact shape is the generation contract.
func BuildPayload(result *ExtractionResult, tenantName string, periodLabel string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("CLIENT: %s\n", tenantName))
	sb.WriteString(fmt.Sprintf("PERIOD: %s\n\n", periodLabel))

	for _, sheet := range result.Sheets {
		sb.WriteString(fmt.Sprintf("### SHEET: %s\n", sheet.Name))
		sb.WriteString(sheet.SerializedText)
		sb.WriteString("\n")
	}

	return sb.String()
}
