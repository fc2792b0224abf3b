// Package agent routes named roles ("report_writer", "navigator") to
// configured generation providers.
package agent

import (
	"context"
	"fmt"
	"log"

	"monthend_portal/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional per-role override
	Model       string `yaml:"model"`
	Description string `yaml:"description"`
}

type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

// NewManager builds the provider registry. The googleai provider is created
// lazily on first use so a missing API key only fails the calls that need it.
func NewManager(config Config) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = "gemini"
	}
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{},
			"googleai": &llm.GoogleAIProvider{},
			"deepseek": &llm.DeepSeekProvider{},
		},
	}
}

// GetProvider resolves the provider for a role: per-role override first,
// then the global active provider, then gemini.
func (m *Manager) GetProvider(role string) llm.Provider {
	if agentConfig, ok := m.config.Agents[role]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
		log.Printf("[Agent] Unknown provider %q for role %q, falling back", agentConfig.Provider, role)
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["gemini"]
}

// ActiveProvider reports the current global provider name.
func (m *Manager) ActiveProvider() string {
	return m.config.ActiveProvider
}

// ProviderNames lists the registered providers.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

// ExecutePrompt runs one generation call for the given role.
func (m *Manager) ExecutePrompt(ctx context.Context, role string, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(role)
	if options == nil {
		options = map[string]interface{}{}
	}
	if cfg, ok := m.config.Agents[role]; ok && cfg.Model != "" {
		if _, set := options["model"]; !set {
			options["model"] = cfg.Model
		}
	}
	return provider.GenerateResponse(ctx, prompt, systemPrompt, options)
}

// SetGlobalProvider switches the active provider at runtime.
func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	log.Printf("[Agent] Global provider set to %s", name)
	return nil
}
