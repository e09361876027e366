// Package provider wraps the AI model backends behind a common
// completion interface so the orchestrator can fail over between them.
package provider

import (
	"context"
	"fmt"

	"idea-path/internal/common/config"
)

// Request carries one completion call to a model backend.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
}

// Provider is a single AI backend capable of text completion.
type Provider interface {
	// Name identifies the backend ("anthropic" or "gemini").
	Name() string
	// Complete sends one prompt pair and returns the raw model text.
	Complete(ctx context.Context, req Request) (string, error)
	// Available reports whether the provider has credentials configured.
	Available() bool
}

// FromConfig builds a provider from its config block.
func FromConfig(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}
