// Package report segments a generated month-end review document into the
// fixed taxonomy of nine report areas and extracts their special blocks.
package report

import (
	"regexp"
	"strings"
)

// SectionKey identifies one of the nine canonical report areas, or the
// whole-document fallback.
type SectionKey string

const (
	SectionExecutiveSnapshot   SectionKey = "executive_snapshot"
	SectionRevenuePerformance  SectionKey = "revenue_performance"
	SectionCOGSGrossMargin     SectionKey = "cogs_gross_margin"
	SectionOperatingExpenses   SectionKey = "operating_expenses"
	SectionProfitabilityBridge SectionKey = "profitability_bridges"
	SectionVariancePerformance SectionKey = "variance_performance"
	SectionCashFlowLiquidity   SectionKey = "cash_flow_liquidity"
	SectionBalanceSheetHealth  SectionKey = "balance_sheet_health"
	SectionRiskControls        SectionKey = "risk_controls"

	// SectionFullReport is emitted when no heading matches any canonical
	// pattern: the entire document becomes one section.
	SectionFullReport SectionKey = "full_report"
)

// sectionDef couples a canonical key with its display name, fixed sort
// position and heading keyword patterns.
type sectionDef struct {
	Key         SectionKey
	DisplayName string
	SortOrder   int
	patterns    []*regexp.Regexp
}

// Taxonomy is the fixed, ordered set of canonical sections. Pattern
// precedence for ambiguous headings follows this order.
var Taxonomy = []sectionDef{
	{SectionExecutiveSnapshot, "Executive Snapshot", 1, compileAll(
		`(?i)executive.*snapshot`,
		`(?i)executive\s+summary`,
	)},
	{SectionRevenuePerformance, "Revenue Performance", 2, compileAll(
		`(?i)revenue.*performance`,
		`(?i)revenue\s+(analysis|review|trends)`,
	)},
	{SectionCOGSGrossMargin, "COGS & Gross Margin", 3, compileAll(
		`(?i)\bcogs\b`,
		`(?i)gross\s+margin`,
		`(?i)cost\s+of\s+(goods|sales|revenue)`,
	)},
	{SectionOperatingExpenses, "Operating Expenses", 4, compileAll(
		`(?i)operating\s+expenses?`,
		`(?i)\bopex\b`,
	)},
	{SectionProfitabilityBridge, "Profitability & Bridges", 5, compileAll(
		`(?i)profitability`,
		`(?i)\bbridge`,
		`(?i)ebitda\s+(bridge|walk)`,
	)},
	{SectionVariancePerformance, "Variance & Performance", 6, compileAll(
		`(?i)variance`,
		`(?i)budget\s+vs\.?\s+actual`,
	)},
	{SectionCashFlowLiquidity, "Cash Flow & Liquidity", 7, compileAll(
		`(?i)cash\s+flow`,
		`(?i)liquidity`,
	)},
	{SectionBalanceSheetHealth, "Balance Sheet Health", 8, compileAll(
		`(?i)balance\s+sheet`,
		`(?i)working\s+capital`,
	)},
	{SectionRiskControls, "Risks & Controls", 9, compileAll(
		`(?i)\brisks?\b`,
		`(?i)\bcontrols?\b`,
		`(?i)watch\s*-?\s*list`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// ClassifyHeading matches a heading title against the canonical section
// patterns. First match in taxonomy order wins. All pattern heuristics live
// behind this one function so they can be extended without touching the
// parser or renderer.
func ClassifyHeading(title string) (SectionKey, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}
	for _, def := range Taxonomy {
		for _, re := range def.patterns {
			if re.MatchString(title) {
				return def.Key, true
			}
		}
	}
	return "", false
}

// lookupSection returns the taxonomy entry for a key.
func lookupSection(key SectionKey) (sectionDef, bool) {
	for _, def := range Taxonomy {
		if def.Key == key {
			return def, true
		}
	}
	return sectionDef{}, false
}

// DisplayNameFor returns the human label for a canonical key; the fallback
// key renders as "Full Report".
func DisplayNameFor(key SectionKey) string {
	if def, ok := lookupSection(key); ok {
		return def.DisplayName
	}
	if key == SectionFullReport {
		return "Full Report"
	}
	return string(key)
}
