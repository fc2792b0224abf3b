// Package prompt is the prompt library for the generation calls. Prompts
// live in JSON files under resources/prompts and can be updated without a
// code change; built-in defaults cover a missing resources directory.
package prompt

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// Template is one reusable prompt with its user-prompt Go template.
type Template struct {
	ID             string `json:"id"`       // e.g. "report.monthly_review"
	Name           string `json:"name"`     // Human-readable name
	Category       string `json:"category"` // report, assistant, ...
	Description    string `json:"description"`
	SystemPrompt   string `json:"system_prompt"`
	UserPromptTmpl string `json:"user_prompt_template"`
	Version        string `json:"version"`
}

// Registry holds all loaded prompt templates.
type Registry struct {
	prompts map[string]*Template
	mu      sync.RWMutex
}

var (
	globalRegistry *Registry
	once           sync.Once
)

// Get returns the global registry singleton, pre-seeded with the built-in
// defaults.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = &Registry{prompts: make(map[string]*Template)}
		for _, t := range builtins {
			globalRegistry.prompts[t.ID] = t
		}
	})
	return globalRegistry
}

// Register adds or replaces a template.
func (r *Registry) Register(t *Template) error {
	if t.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[t.ID] = t
	return nil
}

// GetPrompt retrieves a template by ID.
func (r *Registry) GetPrompt(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.prompts[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// Count returns the number of registered templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// Render executes the template's user prompt against the given variables and
// returns (userPrompt, systemPrompt).
func (r *Registry) Render(id string, vars map[string]interface{}) (string, string, error) {
	t, err := r.GetPrompt(id)
	if err != nil {
		return "", "", err
	}
	tmpl, err := template.New(t.ID).Parse(t.UserPromptTmpl)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", id, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", "", fmt.Errorf("failed to render template %s: %w", id, err)
	}
	return buf.String(), t.SystemPrompt, nil
}
