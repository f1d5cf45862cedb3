package main

import (
	"testing"

	"github.com/kevinmichaelchen/repo-blurbs/internal/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"collect", "summarize", "render", "run", "publish", "search", "stats"} {
		assert.Contains(t, names, want)
	}
}

func TestRunFlagDefaults(t *testing.T) {
	root := newRootCmd()
	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)

	for flag, want := range map[string]string{
		"out":            artifact.DefaultReposFile,
		"outfile":        artifact.DefaultSummariesFile,
		"portfolio":      artifact.DefaultPortfolioFile,
		"seed":           "42",
		"max-new-tokens": "90",
		"include-forks":  "false",
	} {
		f := run.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, want, f.DefValue, flag)
	}
	assert.Nil(t, run.Flags().Lookup("infile"))
}

func TestRenderFlagDefaults(t *testing.T) {
	root := newRootCmd()
	render, _, err := root.Find([]string{"render"})
	require.NoError(t, err)

	assert.Equal(t, artifact.DefaultSummariesFile, render.Flags().Lookup("infile").DefValue)
	assert.Equal(t, artifact.DefaultPortfolioFile, render.Flags().Lookup("outfile").DefValue)
	assert.Nil(t, render.Flags().Lookup("portfolio"))
}

func TestSummarizeOptionsFromFlags(t *testing.T) {
	f := summarizeFlags{infile: "in.json", outfile: "out.json", seed: 7, temperature: 0.5, topP: 0.9, maxNewTokens: 10}
	opts := f.options()

	assert.Equal(t, "in.json", opts.InFile)
	assert.Equal(t, "out.json", opts.OutFile)
	assert.InDelta(t, 0.5, opts.Sampling.Temperature, 1e-6)
	assert.InDelta(t, 0.9, opts.Sampling.TopP, 1e-6)
	assert.Equal(t, 10, opts.Sampling.MaxNewTokens)
	require.NotNil(t, opts.Rand)

	again := f.options()
	assert.Equal(t, opts.Rand.Int32(), again.Rand.Int32())
}

func TestCollectOptionsFromFlags(t *testing.T) {
	f := collectFlags{user: "octo", out: "r.json", concurrency: 4}
	opts := f.options()

	assert.Equal(t, "octo", opts.Account)
	assert.Equal(t, "r.json", opts.OutFile)
	assert.True(t, opts.Collector.ExcludeForks)
	assert.Equal(t, 4, opts.Collector.Concurrency)

	f.includeForks = true
	assert.False(t, f.options().Collector.ExcludeForks)
}
