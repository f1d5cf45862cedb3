// Package collector pages through an account's repositories and enriches
// each one with its topics and README.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/kevinmichaelchen/repo-blurbs/internal/github"
	"github.com/kevinmichaelchen/repo-blurbs/internal/logger"
	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultPageDelay spaces out listing requests to stay clear of GitHub's
// secondary rate limits.
const DefaultPageDelay = 100 * time.Millisecond

type Options struct {
	// ExcludeForks drops repositories the account forked from elsewhere.
	ExcludeForks bool
	// PageDelay is the pause after each enriched page, before the next
	// listing request. Enrichment calls are not throttled.
	PageDelay time.Duration
	// Concurrency bounds how many repositories of one page are enriched at
	// once. Values below 1 mean sequential.
	Concurrency int
}

func DefaultOptions() Options {
	return Options{
		ExcludeForks: true,
		PageDelay:    DefaultPageDelay,
		Concurrency:  1,
	}
}

type Collector struct {
	gh   *github.Client
	opts Options
}

func New(gh *github.Client, opts Options) *Collector {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Collector{gh: gh, opts: opts}
}

// ListRepositories returns every repository owned by account in listing
// order. A failed listing request aborts the whole collection; failed
// enrichment calls leave empty topics or README text.
func (c *Collector) ListRepositories(ctx context.Context, account string) ([]models.Repo, error) {
	log := logger.C(ctx)

	repos := []models.Repo{}
	for page := 1; ; page++ {
		listed, err := c.gh.ListPage(ctx, account, page)
		if err != nil {
			return nil, fmt.Errorf("listing repositories of %s (page %d): %w", account, page, err)
		}
		if len(listed) == 0 {
			break
		}

		kept := make([]github.ListedRepo, 0, len(listed))
		for _, lr := range listed {
			if c.opts.ExcludeForks && lr.Fork {
				log.Debug().Str("repo", lr.FullName).Msg("skipping fork")
				continue
			}
			kept = append(kept, lr)
		}

		enriched, err := c.enrich(ctx, kept)
		if err != nil {
			return nil, err
		}
		repos = append(repos, enriched...)

		log.Info().
			Int("page", page).
			Int("listed", len(listed)).
			Int("kept", len(kept)).
			Int("total", len(repos)).
			Msg("collected page")

		if err := pause(ctx, c.opts.PageDelay); err != nil {
			return nil, err
		}
	}

	return repos, nil
}

// enrich fetches topics and README for each repository, writing results by
// index so the page order survives concurrent enrichment.
func (c *Collector) enrich(ctx context.Context, listed []github.ListedRepo) ([]models.Repo, error) {
	out := make([]models.Repo, len(listed))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, lr := range listed {
		g.Go(func() error {
			out[i] = c.enrichOne(gCtx, lr)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collector) enrichOne(ctx context.Context, lr github.ListedRepo) models.Repo {
	log := logger.C(ctx)

	topics := c.gh.Topics(ctx, lr.FullName)
	if topics.Degraded() {
		log.Debug().Err(topics.Err).Str("repo", lr.FullName).Msg("topics unavailable")
	}
	readme := c.gh.Readme(ctx, lr.FullName)
	if readme.Degraded() {
		log.Debug().Err(readme.Err).Str("repo", lr.FullName).Msg("readme unavailable")
	}

	return toRepo(lr, topics.Value, readme.Value)
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toRepo(lr github.ListedRepo, topics []string, readme string) models.Repo {
	r := models.Repo{
		Name:      lr.Name,
		FullName:  lr.FullName,
		URL:       lr.HTMLURL,
		Stars:     lr.StargazersCount,
		Topics:    topics,
		Readme:    readme,
		UpdatedAt: lr.UpdatedAt,
	}
	if lr.Description != nil {
		r.Description = *lr.Description
	}
	if lr.Language != nil {
		r.Language = *lr.Language
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	return r
}
