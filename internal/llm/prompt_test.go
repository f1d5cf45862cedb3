package llm_test

import (
	"strings"
	"testing"

	"github.com/kevinmichaelchen/repo-blurbs/internal/llm"
	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	repo := models.Repo{
		Name:        "widget",
		Language:    "Go",
		Topics:      []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		Description: strings.Repeat("d", 300),
		Readme:      "# Widget\r\n\r\n\r\n\r\nDoes things.  \n",
	}

	want := "You are a helpful assistant that writes concise, upbeat blurbs about GitHub repos.\n" +
		"Write a 2-3 sentence summary for the repo below, focusing on what it does and the tech stack.\n\n" +
		"Repo name: widget\n" +
		"Main language: Go\n" +
		"Topics: a, b, c, d, e, f, g, h\n" +
		"Short description: " + strings.Repeat("d", 180) + "\n" +
		"README excerpt: # Widget\n\nDoes things.\n\n" +
		"Blurb:"

	assert.Equal(t, want, llm.BuildPrompt(repo))
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt := llm.BuildPrompt(models.Repo{Name: "bare"})

	assert.Contains(t, prompt, "Repo name: bare\n")
	assert.Contains(t, prompt, "Main language: mixed\n")
	assert.Contains(t, prompt, "Topics: \n")
	assert.Contains(t, prompt, "Short description: \n")
	assert.Contains(t, prompt, "README excerpt: \n")
	assert.True(t, strings.HasSuffix(prompt, llm.Marker))
}

func TestBuildPromptTruncatesReadme(t *testing.T) {
	prompt := llm.BuildPrompt(models.Repo{Name: "long", Readme: strings.Repeat("é", 2000)})

	_, excerpt, found := strings.Cut(prompt, "README excerpt: ")
	assert.True(t, found)
	excerpt = strings.TrimSuffix(excerpt, "\n\n"+llm.Marker)
	assert.Equal(t, strings.Repeat("é", 800), excerpt)
}

func TestBuildPromptDeterministic(t *testing.T) {
	repo := models.Repo{Name: "x", Topics: []string{"go"}, Readme: "r"}
	assert.Equal(t, llm.BuildPrompt(repo), llm.BuildPrompt(repo))
}

func TestExtractBlurb(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "adds period", in: "prompt\n\nBlurb: A tiny tool", want: "A tiny tool."},
		{name: "keeps period", in: "Blurb: Done.", want: "Done."},
		{name: "keeps exclamation", in: "Blurb: Wow!", want: "Wow!"},
		{name: "keeps question", in: "Blurb: Why not?", want: "Why not?"},
		{name: "last marker wins", in: "Blurb: first\nBlurb: second", want: "second."},
		{name: "cuts at blank line", in: "Blurb:  One line.\nStill here\n\nRepo name: next", want: "One line.\nStill here."},
		{name: "no marker", in: "  just text  ", want: "just text."},
		{name: "empty continuation", in: "Blurb:", want: "."},
		{name: "leading blank lines are trimmed first", in: "Blurb:\n\n\nReal text", want: "Real text."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.ExtractBlurb(tt.in))
		})
	}
}

func TestExtractBlurbAlwaysTerminated(t *testing.T) {
	for _, in := range []string{"", "Blurb:", "x", "Blurb: a\n\n", "Blurb: ends with comma,", "Blurb: ... ?"} {
		got := llm.ExtractBlurb(in)
		last := got[len(got)-1]
		assert.Contains(t, ".!?", string(last), "ExtractBlurb(%q) = %q", in, got)
	}
}
