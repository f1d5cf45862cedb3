// Package textutil holds the small string helpers shared by the summarizer.
package textutil

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// NewRand returns the random source for a run. Create it once at startup and
// pass it to whatever needs randomness; nothing in this module seeds global state.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// CleanText turns carriage returns into newlines, collapses three or more
// consecutive newlines into one blank line, and trims surrounding whitespace.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r", "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Truncate returns the first maxChars characters of s. It counts runes, not
// bytes, and does not look for word boundaries.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}

// CountRunes reports the length of s in characters.
func CountRunes(s string) int {
	return len([]rune(s))
}
