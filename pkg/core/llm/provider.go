// Package llm wraps the opaque report-generation capability. The pipeline's
// correctness never depends on what happens inside a provider call.
package llm

import (
	"context"
)

// Provider is the interface for all generation providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// ResolveModel picks the model for one call: the options override from the
// agent config wins, then the provider's configured model, then the
// provider's default. Never returns an empty name.
func ResolveModel(configured string, options map[string]interface{}, fallback string) string {
	if val, ok := options["model"].(string); ok && val != "" {
		return val
	}
	if configured != "" {
		return configured
	}
	return fallback
}
