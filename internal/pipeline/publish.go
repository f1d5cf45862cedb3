package pipeline

import (
	"context"
	"fmt"

	"github.com/kevinmichaelchen/repo-blurbs/internal/artifact"
	"github.com/kevinmichaelchen/repo-blurbs/internal/config"
	"github.com/kevinmichaelchen/repo-blurbs/internal/embedding"
	"github.com/kevinmichaelchen/repo-blurbs/internal/logger"
	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	"github.com/kevinmichaelchen/repo-blurbs/internal/surrealdb"
)

type PublishOptions struct {
	InFile string
	// Embed also stores an embedding per blurb so Search can find it.
	Embed bool
}

// Publish archives the blurbs in InFile to SurrealDB.
func Publish(ctx context.Context, cfg *config.Config, opts PublishOptions) error {
	log := logger.C(ctx)

	blurbs, err := artifact.ReadJSON[models.Blurb](opts.InFile)
	if err != nil {
		return err
	}

	fmt.Println("Connecting to SurrealDB...")
	db, err := surrealdb.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(ctx) }()

	if err := db.InitSchema(ctx); err != nil {
		return err
	}

	for i, b := range blurbs {
		if err := db.UpsertBlurb(ctx, b); err != nil {
			return err
		}
		if (i+1)%50 == 0 || i+1 == len(blurbs) {
			fmt.Printf("  Upserted %d/%d\n", i+1, len(blurbs))
		}
	}

	if !opts.Embed || len(blurbs) == 0 {
		fmt.Printf("Published %d blurbs\n", len(blurbs))
		return nil
	}

	fmt.Printf("Generating embeddings for %d blurbs...\n", len(blurbs))
	emb := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)

	texts := make([]string, len(blurbs))
	for i, b := range blurbs {
		texts[i] = embedding.BlurbText(b)
	}
	vectors, err := emb.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("generating embeddings: %w", err)
	}

	stored := 0
	for i, b := range blurbs {
		if err := db.UpdateEmbedding(ctx, b.URL, vectors[i]); err != nil {
			log.Warn().Err(err).Str("repo", b.Name).Msg("storing embedding")
			continue
		}
		stored++
	}
	fmt.Printf("Published %d blurbs (%d embedded)\n", len(blurbs), stored)
	return nil
}

// Search embeds query and returns the k most similar archived blurbs.
func Search(ctx context.Context, cfg *config.Config, query string, k int) ([]models.SearchResult, error) {
	emb := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	vec, err := emb.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	db, err := surrealdb.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close(ctx) }()

	return db.VectorSearch(ctx, vec, k)
}

// ArchiveStats reports how many blurbs are archived and embedded.
func ArchiveStats(ctx context.Context, cfg *config.Config) (*surrealdb.Stats, error) {
	db, err := surrealdb.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close(ctx) }()

	return db.GetStats(ctx)
}
