package report

import (
	"log"
	"regexp"
	"sort"
	"strings"
)

// headingRe matches a markdown heading line: one or more '#' markers,
// optionally a numeral with a period or paren, then the title.
var headingRe = regexp.MustCompile(`^(#{1,6})\s*(?:\d+[.)]\s*)?(.+?)\s*$`)

// ParseSections segments one generated document into canonical sections.
// Sections are emitted in taxonomy order regardless of document order. A
// document with no recognizable section heading becomes a single fallback
// section holding the whole text. Narrative is never re-flowed; the only
// mutation is cutting at section boundaries.
func ParseSections(document string) []ReportSection {
	lines := strings.Split(document, "\n")

	type match struct {
		key       SectionKey
		level     int
		startLine int // first content line (after the heading)
		endLine   int // exclusive
	}

	var matches []match
	for i, line := range lines {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		title := m[2]

		if len(matches) > 0 {
			// A heading at or above the current section's level closes it,
			// whether or not it starts a new canonical section.
			cur := &matches[len(matches)-1]
			if cur.endLine == 0 && level <= cur.level {
				cur.endLine = i
			}
		}

		if key, ok := ClassifyHeading(title); ok {
			// A canonical heading always closes the open section, even when
			// the generator nested it at a deeper level.
			if len(matches) > 0 && matches[len(matches)-1].endLine == 0 {
				matches[len(matches)-1].endLine = i
			}
			matches = append(matches, match{key: key, level: level, startLine: i + 1})
		}
	}
	if len(matches) > 0 && matches[len(matches)-1].endLine == 0 {
		matches[len(matches)-1].endLine = len(lines)
	}

	if len(matches) == 0 {
		log.Printf("[Report] No canonical headings matched; emitting whole-document fallback section")
		return []ReportSection{{
			Key:         SectionFullReport,
			DisplayName: DisplayNameFor(SectionFullReport),
			SortOrder:   1,
			Content:     strings.TrimSpace(document),
		}}
	}

	// First occurrence of a key wins; later duplicates are ignored.
	byKey := make(map[SectionKey]ReportSection, len(matches))
	for _, m := range matches {
		if _, dup := byKey[m.key]; dup {
			log.Printf("[Report] Duplicate section heading for %q ignored", m.key)
			continue
		}
		def, _ := lookupSection(m.key)
		byKey[m.key] = ReportSection{
			Key:         m.key,
			DisplayName: def.DisplayName,
			SortOrder:   def.SortOrder,
			Content:     strings.TrimSpace(strings.Join(lines[m.startLine:m.endLine], "\n")),
		}
	}

	sections := make([]ReportSection, 0, len(byKey))
	for _, sec := range byKey {
		sections = append(sections, sec)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].SortOrder < sections[j].SortOrder })
	return sections
}
