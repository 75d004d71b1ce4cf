package text

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	// Tags that end a visual line in the editor's markup
	breakTags = regexp.MustCompile(`(?i)<\s*(br\s*/?|/p|/div|/li|/h[1-6]|/tr)\s*>`)

	blankRuns = regexp.MustCompile(`\n{3,}`)

	stripAll = bluemonday.StrictPolicy()
)

// PlainText reduces rich-text markup to plain text. Block-level closing tags
// and <br> become line breaks, every other tag is dropped and character
// entities are decoded. Text without markup is returned with only line
// endings and surrounding whitespace normalized.
func PlainText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if strings.ContainsAny(s, "<&") {
		s = breakTags.ReplaceAllString(s, "\n")
		s = stripAll.Sanitize(s)
		s = html.UnescapeString(s)
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
