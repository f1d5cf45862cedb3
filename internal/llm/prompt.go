package llm

import (
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
	"github.com/kevinmichaelchen/repo-blurbs/internal/textutil"
)

// Marker ends every prompt; the blurb is whatever follows its last occurrence.
const Marker = "Blurb:"

const (
	maxPromptTopics   = 8
	maxDescriptionLen = 180
	maxReadmeLen      = 800
	defaultLanguage   = "mixed"
)

const promptTemplate = `You are a helpful assistant that writes concise, upbeat blurbs about GitHub repos.
Write a 2-3 sentence summary for the repo below, focusing on what it does and the tech stack.

Repo name: %s
Main language: %s
Topics: %s
Short description: %s
README excerpt: %s

` + Marker

// BuildPrompt fills the blurb prompt from a repository's metadata.
func BuildPrompt(repo models.Repo) string {
	lang := repo.Language
	if lang == "" {
		lang = defaultLanguage
	}

	topics := repo.Topics
	if len(topics) > maxPromptTopics {
		topics = topics[:maxPromptTopics]
	}

	return fmt.Sprintf(promptTemplate,
		repo.Name,
		lang,
		strings.Join(topics, ", "),
		textutil.Truncate(repo.Description, maxDescriptionLen),
		textutil.Truncate(textutil.CleanText(repo.Readme), maxReadmeLen),
	)
}

// ExtractBlurb pulls the blurb out of a prompt plus its continuation: the
// text after the last Marker, cut at the first blank line, ending in
// sentence punctuation.
func ExtractBlurb(text string) string {
	if i := strings.LastIndex(text, Marker); i >= 0 {
		text = text[i+len(Marker):]
	}
	text = strings.TrimSpace(text)

	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}
	return text
}
