package report

// ReportSection is one segmented area of a generated review document.
// Created once when generation completes; immutable thereafter.
type ReportSection struct {
	Key         SectionKey `json:"key"`
	DisplayName string     `json:"display_name"`
	SortOrder   int        `json:"sort_order"` // Fixed 1-9 taxonomy position, not document position
	Content     string     `json:"content"`    // Raw narrative between this heading and the next
}

// SectionBlocks is a section's content after special-block extraction: the
// three recurring sub-lists pulled out, everything else left as narrative.
type SectionBlocks struct {
	Narrative string   `json:"narrative"`
	Insights  []string `json:"insights"`
	Takeaways []string `json:"takeaways"`
	Questions []string `json:"questions"`
}
