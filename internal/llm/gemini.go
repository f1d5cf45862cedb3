package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini generates with Google's GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, baseURL, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Sampling.Temperature),
		TopP:            genai.Ptr(req.Sampling.TopP),
		MaxOutputTokens: int32(req.Sampling.MaxNewTokens),
		Seed:            genai.Ptr(req.Seed),
	})
	if err != nil {
		return "", fmt.Errorf("genai generate with %s: %w", g.model, err)
	}

	return resp.Text(), nil
}
