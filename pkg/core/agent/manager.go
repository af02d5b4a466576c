// Package agent maps pipeline roles (classifier, extractor) to configured
// model providers. Configuration comes from a YAML file so providers can be
// swapped without code changes.
package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"finstmt/pkg/core/llm"
)

// Config selects providers per agent role.
type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

// AgentConfig optionally overrides the provider and model for one role.
type AgentConfig struct {
	Provider    string `yaml:"provider"` // optional override
	Model       string `yaml:"model"`
	Description string `yaml:"description"`
}

// Credentials carries the API keys needed to construct providers.
// Construction fails fast when the selected provider's key is absent.
type Credentials struct {
	GeminiAPIKey   string
	DeepSeekAPIKey string
}

// Manager resolves a provider instance for each agent role.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

// LoadConfig reads a YAML config file. A missing file yields the default
// configuration (gemini for everything).
func LoadConfig(path string) Config {
	cfg := Config{ActiveProvider: "gemini"}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("Warning: failed to parse agent config %s: %v (using defaults)\n", path, err)
		return Config{ActiveProvider: "gemini"}
	}
	if cfg.ActiveProvider == "" {
		cfg.ActiveProvider = "gemini"
	}
	return cfg
}

// NewManager constructs every provider the config can select. Providers whose
// credentials are absent are skipped; selecting one later is an error.
func NewManager(config Config, creds Credentials) *Manager {
	providers := make(map[string]llm.Provider)

	if creds.GeminiAPIKey != "" {
		if p, err := llm.NewGeminiProvider(creds.GeminiAPIKey, ""); err == nil {
			providers["gemini"] = p
		}
		if p, err := llm.NewGoogleAIProvider(creds.GeminiAPIKey, ""); err == nil {
			providers["googleai"] = p
		}
	}
	if creds.DeepSeekAPIKey != "" {
		if p, err := llm.NewDeepSeekProvider(creds.DeepSeekAPIKey, ""); err == nil {
			providers["deepseek"] = p
		}
	}

	return &Manager{config: config, providers: providers}
}

// GetProvider resolves the provider for an agent role, honoring per-role
// overrides before the global active provider.
func (m *Manager) GetProvider(agentType string) (llm.Provider, error) {
	name := m.config.ActiveProvider
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		name = agentConfig.Provider
	}

	p, ok := m.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not available for agent %q (missing credentials?)", name, agentType)
	}
	return p, nil
}

// ModelFor returns the configured model override for a role, or empty.
func (m *Manager) ModelFor(agentType string) string {
	if agentConfig, ok := m.config.Agents[agentType]; ok {
		return agentConfig.Model
	}
	return ""
}
