package text

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// DefaultCharWidthRatio is the average character width as a fraction of the
// font size. 0.5 em is close to the mean advance of Helvetica over English
// prose.
const DefaultCharWidthRatio = 0.5

// Measurer computes the rendered width of a single line of text in points.
// Implementations must be safe for concurrent use.
type Measurer interface {
	Width(s string, size float64) float64
}

// BoldMeasurer is implemented by measurers that know a distinct bold face
type BoldMeasurer interface {
	Measurer
	BoldWidth(s string, size float64) float64
}

// WidthOf measures s with m, using the bold face when requested and available
func WidthOf(m Measurer, s string, size float64, bold bool) float64 {
	if bold {
		if bm, ok := m.(BoldMeasurer); ok {
			return bm.BoldWidth(s, size)
		}
	}
	return m.Width(s, size)
}

// AverageMeasurer approximates text width with a fixed average character
// width. It ignores glyph shapes entirely, so it can over- or under-estimate
// a particular line by a few percent.
type AverageMeasurer struct {
	// Ratio is the character width as a fraction of the font size.
	// Zero means DefaultCharWidthRatio.
	Ratio float64
}

// Width returns the approximate width of s at the given font size
func (m AverageMeasurer) Width(s string, size float64) float64 {
	ratio := m.Ratio
	if ratio <= 0 {
		ratio = DefaultCharWidthRatio
	}
	return Units(s) * ratio * size
}

// BoldWidth widens the average by 10%, roughly the difference between
// Helvetica and Helvetica-Bold.
func (m AverageMeasurer) BoldWidth(s string, size float64) float64 {
	return m.Width(s, size) * 1.1
}

// Units returns the number of average character cells s occupies after NFC
// normalization.
func Units(s string) float64 {
	if s == "" {
		return 0
	}
	units := 0.0
	for _, r := range norm.NFC.String(s) {
		units += runeUnits(r)
	}
	return units
}

func runeUnits(r rune) float64 {
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
