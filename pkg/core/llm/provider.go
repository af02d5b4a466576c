// Package llm provides model providers behind a single interface. Providers
// carry their credentials explicitly; construction fails fast when a key is
// missing instead of lazily reading the environment at call time.
package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// Config holds process-wide model configuration. It is read-only after
// initialization and safe for concurrent use by all workers.
type Config struct {
	Provider string // "gemini", "googleai", "deepseek"
	Model    string // provider-specific model name, empty for default
	APIKey   string
}
