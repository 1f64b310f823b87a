package ai

import (
	"fmt"
	"regexp"
	"strings"

	"secondbrain/internal/knowledge/model"
)

var (
	// Leading "-" or "*" bullets (possibly repeated) and the horizontal whitespace around them.
	listMarker   = regexp.MustCompile(`(?m)^[^\S\n]*(?:[-*][^\S\n]*)+`)
	excessBreaks = regexp.MustCompile(`\n{3,}`)
)

// asciiSpace matches the characters trimmed from both ends of an answer.
const asciiSpace = "\t\n\f\r "

// CleanAnswer strips markdown emphasis, heading marks and bullet markers from a model reply and
// normalizes blank lines. CleanAnswer(CleanAnswer(s)) == CleanAnswer(s) for every s.
func CleanAnswer(s string) string {
	// Headings go first so "# - item" still reads as a bullet line.
	s = strings.ReplaceAll(s, "#", "")
	s = listMarker.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "*", "")
	s = excessBreaks.ReplaceAllString(s, "\n\n")
	return strings.Trim(s, asciiSpace)
}

// BuildContext renders notes as the text block the answer prompt is grounded on, keeping
// the order they were given in.
func BuildContext(notes []model.Note) string {
	blocks := make([]string, 0, len(notes))
	for _, n := range notes {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nContent: %s", n.Title, n.Content))
	}
	return strings.Join(blocks, "\n\n")
}
