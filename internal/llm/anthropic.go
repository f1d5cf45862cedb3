package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic generates with the Messages API. The API has no seed parameter,
// so runs against it are not reproducible.
type Anthropic struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(baseURL, apiKey, model string) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (a *Anthropic) Generate(ctx context.Context, req Request) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(req.Sampling.MaxNewTokens),
		Temperature: anthropic.Float(float64(req.Sampling.Temperature)),
		TopP:        anthropic.Float(float64(req.Sampling.TopP)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message with %s: %w", a.model, err)
	}

	// An empty reply is a valid continuation, as with the other backends.
	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}
