// Package render turns generated blurbs into the portfolio document.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/kevinmichaelchen/repo-blurbs/internal/artifact"
	"github.com/kevinmichaelchen/repo-blurbs/internal/models"
)

// Title is the first line of every portfolio document.
const Title = "# GitHub Projects — Portfolio Blurbs"

const (
	maxTopics = 6
	metaSep   = " · "
)

// Markdown renders blurbs in order under a title and a generation date line.
func Markdown(blurbs []models.Blurb, date time.Time) string {
	lines := []string{
		Title,
		"",
		fmt.Sprintf("_Auto-generated on %s_", date.Format(time.DateOnly)),
		"",
	}

	for _, b := range blurbs {
		lines = append(lines, fmt.Sprintf("## [%s](%s)", b.Name, b.URL))
		if meta := metaLine(b); meta != "" {
			lines = append(lines, "**"+meta+"**")
		}
		lines = append(lines, "", b.Text, "")
	}
	return strings.Join(lines, "\n")
}

// metaLine joins language, star count and leading topics, skipping empty
// parts. It is empty when all three are.
func metaLine(b models.Blurb) string {
	var parts []string
	if b.Language != "" {
		parts = append(parts, b.Language)
	}
	if b.Stars != 0 {
		parts = append(parts, fmt.Sprintf("⭐ %d", b.Stars))
	}

	topics := b.Topics
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	if t := strings.Join(topics, ", "); t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, metaSep)
}

// WriteFile writes the document to path, creating parent directories.
func WriteFile(path, doc string) error {
	return artifact.WriteFile(path, []byte(doc))
}

// Preview renders the document for a terminal of the given width.
func Preview(doc string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return out, nil
}
