package utils

import (
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// RepairJSON fixes the common JSON defects in LLM output: single quotes,
// unquoted keys, trailing commas, unclosed brackets, markdown fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// MustRepairJSON is RepairJSON with an empty-object fallback, for callers
// that need a guaranteed JSON string.
func MustRepairJSON(malformed string) string {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "{}"
	}
	return repaired
}
