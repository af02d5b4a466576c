package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finstmt/pkg/core/llm"
)

type fakeProvider struct{ name string }

func (f *fakeProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return f.name, nil
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.ActiveProvider != "gemini" {
		t.Errorf("expected default provider gemini, got %q", cfg.ActiveProvider)
	}
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `active_provider: deepseek
agents:
  classifier:
    model: deepseek-chat
  extractor:
    provider: gemini
    model: gemini-2.0-flash
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(path)
	if cfg.ActiveProvider != "deepseek" {
		t.Errorf("active_provider = %q", cfg.ActiveProvider)
	}
	if cfg.Agents["extractor"].Provider != "gemini" {
		t.Errorf("extractor override not parsed: %+v", cfg.Agents["extractor"])
	}
	if cfg.Agents["classifier"].Model != "deepseek-chat" {
		t.Errorf("classifier model not parsed: %+v", cfg.Agents["classifier"])
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte("agents: [not: a map"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := LoadConfig(path)
	if cfg.ActiveProvider != "gemini" {
		t.Errorf("bad yaml should fall back to defaults, got %q", cfg.ActiveProvider)
	}
}

func TestGetProviderRoleOverride(t *testing.T) {
	m := &Manager{
		config: Config{
			ActiveProvider: "gemini",
			Agents: map[string]AgentConfig{
				"extractor": {Provider: "deepseek"},
			},
		},
		providers: map[string]llm.Provider{
			"gemini":   &fakeProvider{name: "gemini"},
			"deepseek": &fakeProvider{name: "deepseek"},
		},
	}

	p, err := m.GetProvider("classifier")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := p.GenerateResponse(context.Background(), "", "", nil); got != "gemini" {
		t.Errorf("classifier should use active provider, got %q", got)
	}

	p, err = m.GetProvider("extractor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := p.GenerateResponse(context.Background(), "", "", nil); got != "deepseek" {
		t.Errorf("extractor should use the role override, got %q", got)
	}
}

func TestGetProviderMissingCredentials(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"}, Credentials{})
	if _, err := m.GetProvider("classifier"); err == nil {
		t.Error("expected error when no provider credentials are configured")
	}
}

func TestModelFor(t *testing.T) {
	m := &Manager{config: Config{
		Agents: map[string]AgentConfig{"classifier": {Model: "gemini-2.0-flash"}},
	}}
	if got := m.ModelFor("classifier"); got != "gemini-2.0-flash" {
		t.Errorf("ModelFor = %q", got)
	}
	if got := m.ModelFor("unknown"); got != "" {
		t.Errorf("expected empty model for unknown role, got %q", got)
	}
}
