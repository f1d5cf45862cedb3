package surrealdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kevinmichaelchen/repo-blurbs/internal/config"
	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	sdk "github.com/surrealdb/surrealdb.go"
)

type Client struct {
	db *sdk.DB
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.SurrealURL == "" {
		return nil, fmt.Errorf("SURREAL_URL is not set")
	}

	db, err := sdk.FromEndpointURLString(ctx, cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, sdk.Auth{
		Namespace: cfg.SurrealNS,
		Database:  cfg.SurrealDB,
		Username:  cfg.SurrealUser,
		Password:  cfg.SurrealPass,
	}); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("signing in: %w", err)
	}

	if err := db.Use(ctx, cfg.SurrealNS, cfg.SurrealDB); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("selecting ns/db: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

const schema = `
DEFINE TABLE IF NOT EXISTS blurb SCHEMAFULL;

DEFINE FIELD IF NOT EXISTS name         ON TABLE blurb TYPE string;
DEFINE FIELD IF NOT EXISTS url          ON TABLE blurb TYPE string;
DEFINE FIELD IF NOT EXISTS blurb        ON TABLE blurb TYPE string;
DEFINE FIELD IF NOT EXISTS stars        ON TABLE blurb TYPE int;
DEFINE FIELD IF NOT EXISTS lang         ON TABLE blurb TYPE string;
DEFINE FIELD IF NOT EXISTS topics       ON TABLE blurb TYPE array<string>;
DEFINE FIELD IF NOT EXISTS embedding    ON TABLE blurb TYPE option<array<float>>;
DEFINE FIELD IF NOT EXISTS published_at ON TABLE blurb TYPE datetime;

DEFINE INDEX IF NOT EXISTS idx_url ON TABLE blurb FIELDS url UNIQUE;
`

func (c *Client) InitSchema(ctx context.Context) error {
	if _, err := sdk.Query[any](ctx, c.db, schema, nil); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// UpsertBlurb stores b keyed by its repository URL. An existing embedding is
// kept; call UpdateEmbedding to replace it.
func (c *Client) UpsertBlurb(ctx context.Context, b models.Blurb) error {
	_, err := sdk.Query[any](ctx, c.db,
		`UPSERT type::thing("blurb", $id) MERGE $data`,
		map[string]any{
			"id":   RecordID(b.URL),
			"data": blurbData(b, time.Now().UTC()),
		})
	if err != nil {
		return fmt.Errorf("upserting %s: %w", b.Name, err)
	}
	return nil
}

func (c *Client) UpdateEmbedding(ctx context.Context, blurbURL string, embedding []float32) error {
	_, err := sdk.Query[any](ctx, c.db,
		`UPDATE blurb SET embedding = $embedding WHERE url = $url`,
		map[string]any{
			"url":       blurbURL,
			"embedding": embedding,
		})
	if err != nil {
		return fmt.Errorf("updating embedding for %s: %w", blurbURL, err)
	}
	return nil
}

func (c *Client) VectorSearch(ctx context.Context, queryVec []float32, k int) ([]models.SearchResult, error) {
	// Brute-force cosine similarity; portfolios are small enough that an
	// HNSW index buys nothing.
	query := fmt.Sprintf(`
		SELECT name, url, blurb, stars, lang, topics,
			vector::similarity::cosine(embedding, $query_vec) AS score
		FROM blurb
		WHERE embedding IS NOT NONE
		ORDER BY score DESC
		LIMIT %d
	`, k)

	results, err := sdk.Query[[]models.SearchResult](ctx, c.db, query,
		map[string]any{"query_vec": queryVec})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

type Stats struct {
	Total    int
	Embedded int
}

func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	results, err := sdk.Query[[]map[string]any](ctx, c.db,
		`SELECT
			count() AS total,
			math::sum(IF embedding IS NOT NONE THEN 1 ELSE 0 END) AS embedded
		FROM blurb GROUP ALL`,
		nil)
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	if len(*results) == 0 || len((*results)[0].Result) == 0 {
		return &Stats{}, nil
	}
	row := (*results)[0].Result[0]
	return &Stats{
		Total:    toInt(row["total"]),
		Embedded: toInt(row["embedded"]),
	}, nil
}

// RecordID derives a stable record key from a repository URL, e.g.
// https://github.com/octo/foo becomes github.com__octo__foo.
func RecordID(repoURL string) string {
	key := repoURL
	if u, err := url.Parse(repoURL); err == nil && u.Host != "" {
		key = u.Host + u.Path
	}
	key = strings.Trim(key, "/")
	return strings.ReplaceAll(key, "/", "__")
}

func blurbData(b models.Blurb, now time.Time) map[string]any {
	topics := b.Topics
	if topics == nil {
		topics = []string{}
	}
	return map[string]any{
		"name":         b.Name,
		"url":          b.URL,
		"blurb":        b.Text,
		"stars":        b.Stars,
		"lang":         b.Language,
		"topics":       topics,
		"published_at": now,
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	default:
		return 0
	}
}
