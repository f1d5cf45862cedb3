package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kevinmichaelchen/repo-blurbs/internal/artifact"
	"github.com/kevinmichaelchen/repo-blurbs/internal/collector"
	"github.com/kevinmichaelchen/repo-blurbs/internal/config"
	"github.com/kevinmichaelchen/repo-blurbs/internal/github"
	"github.com/kevinmichaelchen/repo-blurbs/internal/llm"
	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	"github.com/kevinmichaelchen/repo-blurbs/internal/render"
	"github.com/kevinmichaelchen/repo-blurbs/internal/summarizer"
)

type CollectOptions struct {
	Account   string
	OutFile   string
	Collector collector.Options
}

type SummarizeOptions struct {
	InFile   string
	OutFile  string
	Sampling llm.SamplingConfig
	// Rand is the run's only source of randomness.
	Rand *rand.Rand
}

type RenderOptions struct {
	InFile  string
	OutFile string
	Date    time.Time
}

// Options configures a full run. Each stage reads the file the previous
// stage wrote.
type Options struct {
	Collect   CollectOptions
	Summarize SummarizeOptions
	Render    RenderOptions
}

// Run executes collect, summarize and render in order.
func Run(ctx context.Context, cfg *config.Config, gen llm.Generator, opts Options) error {
	// Step 1: Collect repositories from GitHub
	if _, err := Collect(ctx, cfg, opts.Collect); err != nil {
		return err
	}

	// Step 2: Generate blurbs
	if opts.Summarize.InFile == "" {
		opts.Summarize.InFile = opts.Collect.OutFile
	}
	if _, err := Summarize(ctx, gen, opts.Summarize); err != nil {
		return err
	}

	// Step 3: Render the portfolio
	if opts.Render.InFile == "" {
		opts.Render.InFile = opts.Summarize.OutFile
	}
	if _, err := Render(opts.Render); err != nil {
		return err
	}

	fmt.Println("Pipeline complete!")
	return nil
}

// Collect lists the account's repositories and writes them to OutFile.
func Collect(ctx context.Context, cfg *config.Config, opts CollectOptions) ([]models.Repo, error) {
	if opts.Account == "" {
		return nil, fmt.Errorf("account cannot be empty")
	}

	gh := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken)
	repos, err := collector.New(gh, opts.Collector).ListRepositories(ctx, opts.Account)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Found %d repos for %s\n", len(repos), opts.Account)

	if err := artifact.WriteJSON(opts.OutFile, repos); err != nil {
		return nil, err
	}
	fmt.Printf("Saved %d repos to %s\n", len(repos), opts.OutFile)
	return repos, nil
}

// Summarize reads repositories from InFile, generates a blurb for each and
// writes them to OutFile. Nothing is written if any generation fails.
func Summarize(ctx context.Context, gen llm.Generator, opts SummarizeOptions) ([]models.Blurb, error) {
	repos, err := artifact.ReadJSON[models.Repo](opts.InFile)
	if err != nil {
		return nil, err
	}
	if opts.Rand == nil {
		return nil, fmt.Errorf("summarize needs a random source")
	}

	blurbs, err := summarizer.New(gen, opts.Rand, opts.Sampling).Summarize(ctx, repos)
	if err != nil {
		return nil, err
	}

	if err := artifact.WriteJSON(opts.OutFile, blurbs); err != nil {
		return nil, err
	}
	fmt.Printf("Saved %d blurbs to %s\n", len(blurbs), opts.OutFile)
	return blurbs, nil
}

// Render reads blurbs from InFile and writes the Markdown document to
// OutFile. A zero Date means today.
func Render(opts RenderOptions) (string, error) {
	blurbs, err := artifact.ReadJSON[models.Blurb](opts.InFile)
	if err != nil {
		return "", err
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	doc := render.Markdown(blurbs, date)
	if err := render.WriteFile(opts.OutFile, doc); err != nil {
		return "", err
	}
	fmt.Printf("Wrote %s\n", opts.OutFile)
	return doc, nil
}
