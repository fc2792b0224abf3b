package prompt

// Built-in prompt templates used when no resources directory overrides them.

// ReportPromptID renders the month-end review generation prompt.
const ReportPromptID = "report.monthly_review"

// NavigatePromptID renders the section-navigation intent prompt.
const NavigatePromptID = "assistant.navigate"

var builtins = []*Template{
	{
		ID:       ReportPromptID,
		Name:     "Month-End Financial Review",
		Category: "report",
		Version:  "1",
		SystemPrompt: `You are a fractional CFO writing a Month-End Financial Review for a client.
Write in markdown. Structure the review into these numbered sections, each under a "##" heading:
1. Executive Snapshot
2. Revenue Performance
3. COGS & Gross Margin
4. Operating Expenses
5. Profitability & Bridges
6. Variance & Performance
7. Cash Flow & Liquidity
8. Balance Sheet Health
9. Risks & Controls

Inside each section use pipe-delimited markdown tables for figures, show negatives in
parentheses, use "—" for zero and "N/A" where data was not provided. Open each section
with a "Top Insights" numbered list, and close with a "Key Takeaways" bullet list and a
"Questions for Management" bullet list where warranted. Do not invent numbers that are
not supported by the data payload.`,
		UserPromptTmpl: `Prepare the Month-End Financial Review from the following extracted workbook data.

{{.Payload}}`,
	},
	{
		ID:       NavigatePromptID,
		Name:     "Section Navigation Intent",
		Category: "assistant",
		Version:  "1",
		SystemPrompt: `You are a navigation assistant for a financial review portal. The portal shows a
report split into these sections:

{{SECTION_REGISTRY}}

Analyze the user's message and respond with a JSON object:
{
  "intent": "navigate" | "query" | "chat",
  "target_section": "<canonical section key if intent is navigate>",
  "section_label": "<human readable label>",
  "confidence": <0.0-1.0>,
  "explanation": "<brief explanation>"
}
Return ONLY valid JSON, no markdown or extra text.`,
		UserPromptTmpl: `{{.Message}}`,
	},
}
