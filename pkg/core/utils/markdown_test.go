package utils

import "testing"

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "## Heading\nbody", "## Heading\nbody"},
		{"markdown fence stripped", "```markdown\n## Heading\nbody\n```", "## Heading\nbody"},
		{"bare fence stripped", "```\n## Heading\n```", "## Heading"},
		{"surrounding whitespace trimmed", "  \n## Heading\n  ", "## Heading"},
		{"inner fences preserved", "intro\n```go\ncode\n```\noutro", "intro\n```go\ncode\n```\noutro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.input); got != tt.want {
				t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepairJSON(t *testing.T) {
	repaired, err := RepairJSON("```json\n{'intent': 'navigate', 'confidence': 0.9,}\n```")
	if err != nil {
		t.Fatalf("RepairJSON() error = %v", err)
	}
	if repaired == "" || repaired == "{}" {
		t.Errorf("RepairJSON() = %q, want repaired object", repaired)
	}
}

func TestMustRepairJSONFallback(t *testing.T) {
	if got := MustRepairJSON("{\"ok\": true}"); got == "" {
		t.Error("MustRepairJSON returned empty string for valid JSON")
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("## Heading\n\n| a | b |\n|---|---|\n| 1 | 2 |") {
		t.Error("well-formed markdown rejected")
	}
}
