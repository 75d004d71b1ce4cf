package text

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended by Ellipsize to shortened text
const Ellipsis = "…"

// Wrap breaks s into lines no wider than maxWidth at the given font size.
// Newlines in s always start a new line; empty input lines are kept as empty
// lines. Words wider than maxWidth are split between runes.
func Wrap(s string, maxWidth, size float64, m Measurer) []string {
	return wrap(s, maxWidth, size, m, false)
}

// WrapBold is Wrap measured with the bold face
func WrapBold(s string, maxWidth, size float64, m Measurer) []string {
	return wrap(s, maxWidth, size, m, true)
}

func wrap(s string, maxWidth, size float64, m Measurer, bold bool) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if WidthOf(m, candidate, size, bold) <= maxWidth {
				line = candidate
				continue
			}

			if line != "" {
				lines = append(lines, line)
			}

			// Hard-split words that cannot fit on a line of their own
			for utf8.RuneCountInString(word) > 1 && WidthOf(m, word, size, bold) > maxWidth {
				head, tail := splitAt(word, maxWidth, size, m, bold)
				lines = append(lines, head)
				word = tail
			}
			line = word
		}
		lines = append(lines, line)
	}

	return lines
}

// splitAt returns the longest prefix of word that fits in maxWidth (at least
// one rune) and the remainder.
func splitAt(word string, maxWidth, size float64, m Measurer, bold bool) (string, string) {
	cut := 0
	for i, r := range word {
		end := i + utf8.RuneLen(r)
		if cut > 0 && WidthOf(m, word[:end], size, bold) > maxWidth {
			break
		}
		cut = end
	}
	return word[:cut], word[cut:]
}

// Ellipsize shortens s so that s plus Ellipsis fits in maxWidth. The second
// return value reports whether s was shortened.
func Ellipsize(s string, maxWidth, size float64, m Measurer) (string, bool) {
	if m.Width(s, size) <= maxWidth {
		return s, false
	}

	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + Ellipsis
		if m.Width(candidate, size) <= maxWidth {
			return candidate, true
		}
	}
	return Ellipsis, true
}
