// Package render classifies and formats report values at view time.
// Classification is recomputed on every render and never persisted, so
// formatting-rule changes apply retroactively to already-generated reports.
package render

import (
	"regexp"
	"strconv"
	"strings"
)

// ClassifiedValue is the ephemeral, view-time derivation of a raw cell or
// narrative value. Pure function of the input string.
type ClassifiedValue struct {
	DisplayText     string `json:"display_text"`
	IsNegative      bool   `json:"is_negative"`
	IsPositive      bool   `json:"is_positive"`
	IsZero          bool   `json:"is_zero"`
	IsNotApplicable bool   `json:"is_not_applicable"`
}

var (
	dashOnlyRe      = regexp.MustCompile(`^[-–—]+$`)
	leadingMinusRe  = regexp.MustCompile(`^-[$€£]?\d`)
	leadingPlusRe   = regexp.MustCompile(`^\+.*\d`)
	numericKeepRe   = regexp.MustCompile(`[^0-9.+-]`)
	parenCurrencyRe = regexp.MustCompile(`\([$€£]`)
)

// naTokens are the exact (case-insensitive) not-applicable markers.
var naTokens = map[string]bool{
	"n/a": true,
	"n/m": true,
	"nm":  true,
}

const zeroEpsilon = 0.01

// Classify maps any raw string to a ClassifiedValue following financial
// document conventions: N/A detection first, then zero/dash, then
// negative-to-parens reformatting, then the explicit-positive flag. Total
// over all inputs; malformed values come back as ordinary text.
func Classify(raw string) ClassifiedValue {
	trimmed := strings.TrimSpace(raw)

	// 1. Not applicable.
	if isNotApplicable(trimmed) {
		return ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}
	}

	// 2. Zero: dash placeholders and sub-epsilon magnitudes. Percentages
	// keep their literal zero form ("0.0%") instead of collapsing to a dash.
	if dashOnlyRe.MatchString(trimmed) {
		return ClassifiedValue{DisplayText: "—", IsZero: true}
	}
	if v, ok := parseNumeric(trimmed); ok && v > -zeroEpsilon && v < zeroEpsilon {
		if strings.Contains(trimmed, "%") {
			return ClassifiedValue{DisplayText: trimmed, IsZero: true}
		}
		return ClassifiedValue{DisplayText: "—", IsZero: true}
	}

	// 3. Negative: reformat leading-minus forms to parenthesized; already
	// parenthesized input passes through unchanged.
	if isNegative(trimmed) {
		return ClassifiedValue{DisplayText: toParenForm(trimmed), IsNegative: true}
	}

	// 4. Explicit positive flag (optional green highlight downstream).
	if leadingPlusRe.MatchString(trimmed) {
		return ClassifiedValue{DisplayText: trimmed, IsPositive: true}
	}

	return ClassifiedValue{DisplayText: trimmed}
}

func isNotApplicable(trimmed string) bool {
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	if naTokens[lower] {
		return true
	}
	return strings.Contains(lower, "data not provided")
}

func isNegative(trimmed string) bool {
	if leadingMinusRe.MatchString(trimmed) {
		return true
	}
	if strings.HasPrefix(trimmed, "-(") {
		return true
	}
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		return true
	}
	return parenCurrencyRe.MatchString(trimmed)
}

// toParenForm converts "-$5.8K" to "($5.8K)", "-47.3%" to "(47.3%)" and a
// bare "-5.8" to "(5.8)". Input already in paren form is returned as is.
func toParenForm(trimmed string) string {
	if strings.HasPrefix(trimmed, "(") {
		return trimmed
	}
	body := strings.TrimPrefix(trimmed, "-")
	if strings.HasPrefix(body, "(") && strings.HasSuffix(body, ")") {
		return body
	}
	return "(" + body + ")"
}

// parseNumeric strips everything except digits and signs, then parses. The
// bool result is false for values with no parseable numeric core.
func parseNumeric(trimmed string) (float64, bool) {
	stripped := numericKeepRe.ReplaceAllString(trimmed, "")
	if stripped == "" || stripped == "-" || stripped == "+" || stripped == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IndicatorKind classifies a "material?" style flag cell.
type IndicatorKind int

const (
	IndicatorUnknown IndicatorKind = iota
	IndicatorYes
	IndicatorNo
	IndicatorNA
)

// ClassifyIndicator interprets a recognized indicator column's cell:
// checkmarks/"yes", crosses/"no", or the N/A tokens. The three kinds are
// mutually exclusive and take precedence over numeric classification for
// indicator columns.
func ClassifyIndicator(raw string) IndicatorKind {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case trimmed == "" || naTokens[trimmed] || strings.Contains(trimmed, "data not provided"):
		return IndicatorNA
	case strings.ContainsAny(trimmed, "✓✔") || trimmed == "yes" || trimmed == "y":
		return IndicatorYes
	case strings.ContainsAny(trimmed, "✗✘✕") || trimmed == "no" || trimmed == "x":
		return IndicatorNo
	default:
		return IndicatorUnknown
	}
}

// terminalLineNames are financial-statement bottom lines that mark a total
// row by substring; "net cash" only counts as an exact label.
var terminalLineNames = []string{"net income", "gross profit", "ebitda", "ebit"}

// IsTotalRow reports whether a row label denotes a total line and should be
// highlighted. Subtotal labels are never totals.
func IsTotalRow(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" || strings.HasPrefix(l, "subtotal") || strings.HasPrefix(l, "sub-total") {
		return false
	}
	if strings.HasPrefix(l, "total") || strings.HasPrefix(l, "= ") {
		return true
	}
	if l == "net cash" {
		return true
	}
	for _, name := range terminalLineNames {
		if strings.Contains(l, name) {
			return true
		}
	}
	return false
}

// IsSubtotalRow reports whether a row label denotes a subtotal line.
// Checked independently of IsTotalRow; a row is never both.
func IsSubtotalRow(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	return strings.HasPrefix(l, "subtotal") || strings.HasPrefix(l, "sub-total")
}
