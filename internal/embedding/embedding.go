package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
	}
}

const maxBatchSize = 256

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: c.model,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embeddings (batch %d-%d): %w", start, end, err)
		}

		for _, emb := range resp.Data {
			if emb.Index < 0 || start+emb.Index >= end {
				return nil, fmt.Errorf("embedding index %d out of range for batch %d-%d", emb.Index, start, end)
			}
			vectors[start+emb.Index] = emb.Embedding
		}
	}

	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}
	return vectors, nil
}

func (c *Client) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vecs[0], nil
}

// BlurbText is the text embedded for a blurb: its name, language, topics and
// generated summary.
func BlurbText(b models.Blurb) string {
	var sb strings.Builder
	sb.WriteString(b.Name)
	if b.Language != "" {
		sb.WriteString(" (" + b.Language + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(b.Text)
	if len(b.Topics) > 0 {
		sb.WriteString(" Topics: " + strings.Join(b.Topics, ", "))
	}
	return sb.String()
}
