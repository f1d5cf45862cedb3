package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// SamplingConfig controls how the model picks tokens.
type SamplingConfig struct {
	Temperature  float32
	TopP         float32
	MaxNewTokens int
}

func DefaultSampling() SamplingConfig {
	return SamplingConfig{
		Temperature:  0.8,
		TopP:         0.92,
		MaxNewTokens: 90,
	}
}

// Request is a single generation call.
type Request struct {
	Prompt   string
	Sampling SamplingConfig
	// Seed is forwarded to backends that support seeded sampling.
	Seed int32
}

// Generator produces the continuation of a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// OpenAI talks to any server exposing the OpenAI completions endpoint
// (vLLM, llama.cpp, TGI, Ollama), which is how a plain causal language model
// such as distilgpt2 is usually served.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(baseURL, apiKey, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	seed := int(req.Seed)
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       c.model,
		Prompt:      req.Prompt,
		MaxTokens:   req.Sampling.MaxNewTokens,
		Temperature: req.Sampling.Temperature,
		TopP:        req.Sampling.TopP,
		Seed:        &seed,
	})
	if err != nil {
		return "", fmt.Errorf("completion with %s: %w", c.model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned by %s", c.model)
	}
	return resp.Choices[0].Text, nil
}
