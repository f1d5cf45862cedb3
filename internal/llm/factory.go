package llm

import (
	"context"
	"fmt"
)

// Backend names accepted by NewGenerator.
const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendGemini    = "gemini"
)

// GeneratorConfig selects and configures a backend.
type GeneratorConfig struct {
	Backend string
	BaseURL string
	APIKey  string
	Model   string
}

// NewGenerator builds the generator named by cfg.Backend.
func NewGenerator(ctx context.Context, cfg GeneratorConfig) (Generator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	switch cfg.Backend {
	case BackendOpenAI, "":
		return NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case BackendAnthropic:
		return NewAnthropic(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case BackendGemini:
		return NewGemini(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", cfg.Backend)
	}
}
