package report

import (
	"regexp"
	"strings"
)

// Block heading patterns. Insights is the most specific and is always
// extracted first so the looser takeaway/question patterns cannot match
// fragments it leaves behind.
var (
	insightsHeadingRe  = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*)?\s*(?:\d+(?:\.\d+)*[.)]?\s*)?(?:top|executive)\s+insights?\b.*$`)
	takeawaysHeadingRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*)?\s*(?:\d+(?:\.\d+)*[.)]?\s*)?key\s+takeaways?\s*(?:\([^)]*\))?\s*:?\s*(?:\*\*)?\s*:?\s*$`)
	questionsHeadingRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*)?\s*(?:\d+(?:\.\d+)*[.)]?\s*)?questions?\s+(?:for|to)\s+management\s*(?:\([^)]*\))?\s*:?\s*(?:\*\*)?\s*:?\s*$`)

	numberedItemRe = regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`)
	bulletItemRe   = regexp.MustCompile(`^\s*[-*•]\s+(.*)$`)
	questionItemRe = regexp.MustCompile(`^\s*[-*•?]\s+(.*)$`)
)

// ExtractBlocks pulls the three recurring sub-structures out of one
// section's text. Absent blocks yield empty lists, never an error; whatever
// text remains after extraction is the narrative.
func ExtractBlocks(sectionText string, sectionDisplayName string) SectionBlocks {
	lines := strings.Split(sectionText, "\n")
	lines = stripEchoedTitle(lines, sectionDisplayName)

	var blocks SectionBlocks

	// Insights: first block only.
	lines, blocks.Insights = extractListBlock(lines, insightsHeadingRe, numberedItemRe, true)

	// Takeaways and questions: a section may carry one block per subsection;
	// all items are captured in document order.
	lines, blocks.Takeaways = extractListBlock(lines, takeawaysHeadingRe, bulletItemRe, false)
	lines, blocks.Questions = extractListBlock(lines, questionsHeadingRe, questionItemRe, false)

	blocks.Narrative = strings.TrimSpace(strings.Join(lines, "\n"))
	return blocks
}

// extractListBlock removes every span of [heading, list items] matching
// headingRe and returns the captured item texts. firstOnly limits extraction
// to the first matching block.
func extractListBlock(lines []string, headingRe, itemRe *regexp.Regexp, firstOnly bool) ([]string, []string) {
	var remaining []string
	var items []string
	found := false

	for i := 0; i < len(lines); i++ {
		if (!found || !firstOnly) && headingRe.MatchString(lines[i]) {
			// Consume the heading, optional blank lines, then the list.
			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			captured := false
			for j < len(lines) {
				m := itemRe.FindStringSubmatch(lines[j])
				if m == nil {
					// Numbered insights sometimes arrive as bullets instead.
					if itemRe == numberedItemRe {
						m = bulletItemRe.FindStringSubmatch(lines[j])
					}
					if m == nil {
						break
					}
				}
				if item := strings.TrimSpace(m[1]); item != "" {
					items = append(items, item)
					captured = true
				}
				j++
			}
			if captured {
				found = true
				i = j - 1 // skip the consumed span
				continue
			}
			// Heading with no list under it: drop the bare heading anyway.
			continue
		}
		remaining = append(remaining, lines[i])
	}

	return remaining, items
}

// stripEchoedTitle drops a leading heading that merely repeats the section's
// display name. The generator commonly echoes the title it was given as its
// own first heading. Matches exact text, a numbered variant, or a
// bold-wrapped variant, case-insensitively.
func stripEchoedTitle(lines []string, displayName string) []string {
	if displayName == "" {
		return lines
	}
	idx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		idx = i
		break
	}
	if idx < 0 {
		return lines
	}

	text := strings.TrimSpace(lines[idx])
	text = strings.TrimLeft(text, "# ")
	text = strings.Trim(text, "*")
	text = regexp.MustCompile(`^\d+(?:\.\d+)*[.)]?\s*`).ReplaceAllString(text, "")
	text = strings.TrimSpace(strings.TrimSuffix(text, ":"))

	if strings.EqualFold(text, strings.TrimSpace(displayName)) {
		return append(lines[:idx:idx], lines[idx+1:]...)
	}
	return lines
}

// IsResidualBlockHeading reports whether a narrative line is an insights/
// takeaways/questions header that survived extraction (malformed spacing and
// the like). Renderers suppress such lines instead of showing a header with
// no list under it.
func IsResidualBlockHeading(line string) bool {
	return insightsHeadingRe.MatchString(line) ||
		takeawaysHeadingRe.MatchString(line) ||
		questionsHeadingRe.MatchString(line)
}
