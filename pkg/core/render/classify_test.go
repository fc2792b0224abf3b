package render

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ClassifiedValue
	}{
		// N/A detection
		{"Empty", "", ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}},
		{"Whitespace", "   ", ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}},
		{"n/a lower", "n/a", ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}},
		{"NM upper", "NM", ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}},
		{"n/m", "n/m", ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}},
		{"Data not provided phrase", "N/A — Data not provided", ClassifiedValue{DisplayText: "N/A", IsNotApplicable: true}},

		// Zero detection
		{"Plain zero", "0", ClassifiedValue{DisplayText: "—", IsZero: true}},
		{"Zero dollars", "$0.00", ClassifiedValue{DisplayText: "—", IsZero: true}},
		{"Hyphen dash", "-", ClassifiedValue{DisplayText: "—", IsZero: true}},
		{"Em dash", "—", ClassifiedValue{DisplayText: "—", IsZero: true}},
		{"En dash", "–", ClassifiedValue{DisplayText: "—", IsZero: true}},
		{"Zero percent keeps literal form", "0.0%", ClassifiedValue{DisplayText: "0.0%", IsZero: true}},

		// Negative detection and paren reformatting
		{"Minus currency", "-$23.0K", ClassifiedValue{DisplayText: "($23.0K)", IsNegative: true}},
		{"Minus percent", "-47.3%", ClassifiedValue{DisplayText: "(47.3%)", IsNegative: true}},
		{"Bare minus", "-5.8", ClassifiedValue{DisplayText: "(5.8)", IsNegative: true}},
		{"Already parenthesized", "($5.8K)", ClassifiedValue{DisplayText: "($5.8K)", IsNegative: true}},
		{"Paren plain", "(1,234)", ClassifiedValue{DisplayText: "(1,234)", IsNegative: true}},
		{"Minus paren construct", "-(5.8)", ClassifiedValue{DisplayText: "(5.8)", IsNegative: true}},

		// Positive flag
		{"Plus percent", "+5.2%", ClassifiedValue{DisplayText: "+5.2%", IsPositive: true}},
		{"Plus currency", "+$12K", ClassifiedValue{DisplayText: "+$12K", IsPositive: true}},

		// Ordinary values pass through
		{"Plain number", "1,234.56", ClassifiedValue{DisplayText: "1,234.56"}},
		{"Currency", "$120.4K", ClassifiedValue{DisplayText: "$120.4K"}},
		{"Text", "Flat vs budget", ClassifiedValue{DisplayText: "Flat vs budget"}},
		{"Malformed stays literal", "1.2.3.4", ClassifiedValue{DisplayText: "1.2.3.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

// Re-classifying canonical display text must not change any flag.
func TestClassifyIdempotent(t *testing.T) {
	inputs := []string{"-$23.0K", "0", "N/A — Data not provided", "(47.3%)", "—", "1,234.56", "+5.2%"}
	for _, raw := range inputs {
		first := Classify(raw)
		second := Classify(first.DisplayText)
		if first != second {
			t.Errorf("Classify not idempotent for %q: first %+v, second %+v", raw, first, second)
		}
	}
}

func TestClassifyIndicator(t *testing.T) {
	tests := []struct {
		raw  string
		want IndicatorKind
	}{
		{"✓", IndicatorYes},
		{"Yes", IndicatorYes},
		{"✗", IndicatorNo},
		{"no", IndicatorNo},
		{"x", IndicatorNo},
		{"n/m", IndicatorNA},
		{"N/A", IndicatorNA},
		{"", IndicatorNA},
		{"12.3%", IndicatorUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyIndicator(tt.raw); got != tt.want {
			t.Errorf("ClassifyIndicator(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestIsTotalRow(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Total Expenses", true},
		{"total revenue", true},
		{"= Net Operating Income", true},
		{"Net Income", true},
		{"Gross Profit", true},
		{"Adjusted EBITDA", true},
		{"Net Cash", true},
		{"  Contractor Expenses", false},
		{"Net cash from operations", false}, // "net cash" is exact-match only
		{"Subtotal COGS", false},            // never both total and subtotal
		{"", false},
	}
	for _, tt := range tests {
		if got := IsTotalRow(tt.label); got != tt.want {
			t.Errorf("IsTotalRow(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestIsSubtotalRow(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Subtotal COGS", true},
		{"sub-total payroll", true},
		{"Total Expenses", false},
		{"Marketing", false},
	}
	for _, tt := range tests {
		if got := IsSubtotalRow(tt.label); got != tt.want {
			t.Errorf("IsSubtotalRow(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}
