// Package summarizer turns collected repositories into generated blurbs.
package summarizer

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/kevinmichaelchen/repo-blurbs/internal/llm"
	"github.com/kevinmichaelchen/repo-blurbs/internal/logger"
	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	"github.com/kevinmichaelchen/repo-blurbs/internal/textutil"
)

const previewLen = 80

type Summarizer struct {
	gen      llm.Generator
	rng      *rand.Rand
	sampling llm.SamplingConfig
	out      io.Writer
}

// New returns a summarizer drawing per-call seeds from rng. Given the same
// rng seed, generator and inputs, Summarize sends identical requests.
func New(gen llm.Generator, rng *rand.Rand, sampling llm.SamplingConfig) *Summarizer {
	return &Summarizer{gen: gen, rng: rng, sampling: sampling, out: os.Stdout}
}

// WithOutput sends the per-blurb progress lines to w instead of stdout.
func (s *Summarizer) WithOutput(w io.Writer) *Summarizer {
	s.out = w
	return s
}

// GenerateBlurb writes a blurb for one repository. Generation errors are
// returned as-is; there is no retry.
func (s *Summarizer) GenerateBlurb(ctx context.Context, repo models.Repo) (string, error) {
	prompt := llm.BuildPrompt(repo)

	generated, err := s.gen.Generate(ctx, llm.Request{
		Prompt:   prompt,
		Sampling: s.sampling,
		Seed:     s.rng.Int32(),
	})
	if err != nil {
		return "", fmt.Errorf("generating blurb for %s: %w", repo.Name, err)
	}

	return llm.ExtractBlurb(prompt + generated), nil
}

// Summarize generates one blurb per repository, in input order. The first
// failure aborts the run and nothing is returned.
func (s *Summarizer) Summarize(ctx context.Context, repos []models.Repo) ([]models.Blurb, error) {
	log := logger.C(ctx)

	out := make([]models.Blurb, 0, len(repos))
	for i, repo := range repos {
		text, err := s.GenerateBlurb(ctx, repo)
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewBlurb(repo, text))

		fmt.Fprintf(s.out, "✔ %s: %s…\n", repo.Name, textutil.Truncate(text, previewLen))
		log.Debug().
			Str("repo", repo.Name).
			Int("n", i+1).
			Int("of", len(repos)).
			Msg("generated blurb")
	}
	return out, nil
}
