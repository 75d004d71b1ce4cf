package font

import (
	"golang.org/x/text/unicode/norm"
)

// DefaultWidth is used for runes missing from a width table (1000ths of em)
const DefaultWidth = 556.0

// Font holds the glyph widths of one PDF Standard 14 font
type Font struct {
	BaseFont string

	// Character width information
	widths map[rune]float64
}

// New returns the metrics for a Standard 14 base font name. Unknown names get
// Helvetica metrics, which is what the PDF backend falls back to as well.
func New(baseFont string) *Font {
	f := &Font{
		BaseFont: baseFont,
		widths:   make(map[rune]float64),
	}

	// Load default widths for Standard 14 fonts
	f.loadStandardWidths()

	return f
}

// GetWidth returns the width of a character (in 1000ths of em). Accented
// Latin letters take the width of their base letter.
func (f *Font) GetWidth(r rune) float64 {
	if w, ok := f.widths[r]; ok {
		return w
	}

	if r > 126 {
		if base := []rune(norm.NFD.String(string(r))); len(base) > 1 {
			if w, ok := f.widths[base[0]]; ok {
				return w
			}
		}
	}

	return DefaultWidth
}

// GetStringWidth calculates the total width of a string (in 1000ths of em)
func (f *Font) GetStringWidth(s string) float64 {
	total := 0.0
	for _, r := range norm.NFC.String(s) {
		total += f.GetWidth(r)
	}
	return total
}

// StringWidth returns the width of s in points at the given font size
func (f *Font) StringWidth(s string, size float64) float64 {
	return f.GetStringWidth(s) * size / 1000
}

// IsStandardFont returns true if this is one of the supported Standard 14 fonts
func (f *Font) IsStandardFont() bool {
	_, ok := standardFonts[f.BaseFont]
	return ok
}

// loadStandardWidths loads default widths for Standard 14 fonts
func (f *Font) loadStandardWidths() {
	widths, ok := standardFonts[f.BaseFont]
	if !ok {
		widths = helveticaWidths
	}
	for r, w := range widths {
		f.widths[r] = w
	}
}

// StandardMeasurer measures text with Standard 14 metrics so that layout
// widths agree with what the PDF backend draws using its core fonts.
type StandardMeasurer struct {
	Regular *Font
	Bold    *Font
}

// NewStandardMeasurer returns a measurer for a regular and bold base font pair
func NewStandardMeasurer(regular, bold string) StandardMeasurer {
	return StandardMeasurer{
		Regular: New(regular),
		Bold:    New(bold),
	}
}

// NewHelveticaMeasurer returns a measurer for Helvetica and Helvetica-Bold
func NewHelveticaMeasurer() StandardMeasurer {
	return NewStandardMeasurer("Helvetica", "Helvetica-Bold")
}

// NewFamilyMeasurer returns the measurer for a PDF core font family:
// "Times", "Courier" or "Helvetica". Other names get Helvetica.
func NewFamilyMeasurer(family string) StandardMeasurer {
	switch family {
	case "Times":
		return NewStandardMeasurer("Times-Roman", "Times-Bold")
	case "Courier":
		return NewStandardMeasurer("Courier", "Courier-Bold")
	default:
		return NewHelveticaMeasurer()
	}
}

// Width returns the width of s in points
func (m StandardMeasurer) Width(s string, size float64) float64 {
	return m.Regular.StringWidth(s, size)
}

// BoldWidth returns the width of s in points using the bold face
func (m StandardMeasurer) BoldWidth(s string, size float64) float64 {
	if m.Bold == nil {
		return m.Width(s, size)
	}
	return m.Bold.StringWidth(s, size)
}

// Standard 14 font names
var standardFonts = map[string]map[rune]float64{
	"Helvetica":             helveticaWidths,
	"Helvetica-Bold":        helveticaBoldWidths,
	"Helvetica-Oblique":     helveticaWidths,
	"Helvetica-BoldOblique": helveticaBoldWidths,
	"Times-Roman":           timesWidths,
	"Times-Bold":            timesBoldWidths,
	"Times-Italic":          timesWidths,
	"Times-BoldItalic":      timesBoldWidths,
	"Courier":               courierWidths,
	"Courier-Bold":          courierWidths,
	"Courier-Oblique":       courierWidths,
	"Courier-BoldOblique":   courierWidths,
}

// Helvetica widths (in 1000ths of em) for printable ASCII
var helveticaWidths = map[rune]float64{
	' ':  278,
	'!':  278,
	'"':  355,
	'#':  556,
	'$':  556,
	'%':  889,
	'&':  667,
	'\'': 191,
	'(':  333,
	')':  333,
	'*':  389,
	'+':  584,
	',':  278,
	'-':  333,
	'.':  278,
	'/':  278,
	'0':  556,
	'1':  556,
	'2':  556,
	'3':  556,
	'4':  556,
	'5':  556,
	'6':  556,
	'7':  556,
	'8':  556,
	'9':  556,
	':':  278,
	';':  278,
	'<':  584,
	'=':  584,
	'>':  584,
	'?':  556,
	'@':  1015,
	'A':  667,
	'B':  667,
	'C':  722,
	'D':  722,
	'E':  667,
	'F':  611,
	'G':  778,
	'H':  722,
	'I':  278,
	'J':  500,
	'K':  667,
	'L':  556,
	'M':  833,
	'N':  722,
	'O':  778,
	'P':  667,
	'Q':  778,
	'R':  722,
	'S':  667,
	'T':  611,
	'U':  722,
	'V':  667,
	'W':  944,
	'X':  667,
	'Y':  667,
	'Z':  611,
	'[':  278,
	'\\': 278,
	']':  278,
	'^':  469,
	'_':  556,
	'`':  333,
	'a':  556,
	'b':  556,
	'c':  500,
	'd':  556,
	'e':  556,
	'f':  278,
	'g':  556,
	'h':  556,
	'i':  222,
	'j':  222,
	'k':  500,
	'l':  222,
	'm':  833,
	'n':  556,
	'o':  556,
	'p':  556,
	'q':  556,
	'r':  333,
	's':  500,
	't':  278,
	'u':  556,
	'v':  500,
	'w':  722,
	'x':  500,
	'y':  500,
	'z':  500,
	'{':  334,
	'|':  260,
	'}':  334,
	'~':  584,
}

// Helvetica-Bold widths (in 1000ths of em) for printable ASCII
var helveticaBoldWidths = map[rune]float64{
	' ':  278,
	'!':  333,
	'"':  474,
	'#':  556,
	'$':  556,
	'%':  889,
	'&':  722,
	'\'': 238,
	'(':  333,
	')':  333,
	'*':  389,
	'+':  584,
	',':  278,
	'-':  333,
	'.':  278,
	'/':  278,
	'0':  556,
	'1':  556,
	'2':  556,
	'3':  556,
	'4':  556,
	'5':  556,
	'6':  556,
	'7':  556,
	'8':  556,
	'9':  556,
	':':  333,
	';':  333,
	'<':  584,
	'=':  584,
	'>':  584,
	'?':  611,
	'@':  975,
	'A':  722,
	'B':  722,
	'C':  722,
	'D':  722,
	'E':  667,
	'F':  611,
	'G':  778,
	'H':  722,
	'I':  278,
	'J':  556,
	'K':  722,
	'L':  611,
	'M':  833,
	'N':  722,
	'O':  778,
	'P':  667,
	'Q':  778,
	'R':  722,
	'S':  667,
	'T':  611,
	'U':  722,
	'V':  667,
	'W':  944,
	'X':  667,
	'Y':  667,
	'Z':  611,
	'[':  333,
	'\\': 278,
	']':  333,
	'^':  584,
	'_':  556,
	'`':  333,
	'a':  556,
	'b':  611,
	'c':  556,
	'd':  611,
	'e':  556,
	'f':  333,
	'g':  611,
	'h':  611,
	'i':  278,
	'j':  278,
	'k':  556,
	'l':  278,
	'm':  889,
	'n':  611,
	'o':  611,
	'p':  611,
	'q':  611,
	'r':  389,
	's':  556,
	't':  333,
	'u':  611,
	'v':  556,
	'w':  778,
	'x':  556,
	'y':  556,
	'z':  500,
	'{':  389,
	'|':  280,
	'}':  389,
	'~':  584,
}

// Times-Roman widths (in 1000ths of em) for printable ASCII
var timesWidths = map[rune]float64{
	' ':  250,
	'!':  333,
	'"':  408,
	'#':  500,
	'$':  500,
	'%':  833,
	'&':  778,
	'\'': 180,
	'(':  333,
	')':  333,
	'*':  500,
	'+':  564,
	',':  250,
	'-':  333,
	'.':  250,
	'/':  278,
	'0':  500,
	'1':  500,
	'2':  500,
	'3':  500,
	'4':  500,
	'5':  500,
	'6':  500,
	'7':  500,
	'8':  500,
	'9':  500,
	':':  278,
	';':  278,
	'<':  564,
	'=':  564,
	'>':  564,
	'?':  444,
	'@':  921,
	'A':  722,
	'B':  667,
	'C':  667,
	'D':  722,
	'E':  611,
	'F':  556,
	'G':  722,
	'H':  722,
	'I':  333,
	'J':  389,
	'K':  722,
	'L':  611,
	'M':  889,
	'N':  722,
	'O':  722,
	'P':  556,
	'Q':  722,
	'R':  667,
	'S':  556,
	'T':  611,
	'U':  722,
	'V':  722,
	'W':  944,
	'X':  722,
	'Y':  722,
	'Z':  611,
	'[':  333,
	'\\': 278,
	']':  333,
	'^':  469,
	'_':  500,
	'`':  333,
	'a':  444,
	'b':  500,
	'c':  444,
	'd':  500,
	'e':  444,
	'f':  333,
	'g':  500,
	'h':  500,
	'i':  278,
	'j':  278,
	'k':  500,
	'l':  278,
	'm':  778,
	'n':  500,
	'o':  500,
	'p':  500,
	'q':  500,
	'r':  333,
	's':  389,
	't':  278,
	'u':  500,
	'v':  500,
	'w':  722,
	'x':  500,
	'y':  500,
	'z':  444,
	'{':  480,
	'|':  200,
	'}':  480,
	'~':  541,
}

// Times-Bold widths (in 1000ths of em) for printable ASCII
var timesBoldWidths = map[rune]float64{
	' ':  250,
	'!':  333,
	'"':  555,
	'#':  500,
	'$':  500,
	'%':  1000,
	'&':  833,
	'\'': 278,
	'(':  333,
	')':  333,
	'*':  500,
	'+':  570,
	',':  250,
	'-':  333,
	'.':  250,
	'/':  278,
	'0':  500,
	'1':  500,
	'2':  500,
	'3':  500,
	'4':  500,
	'5':  500,
	'6':  500,
	'7':  500,
	'8':  500,
	'9':  500,
	':':  333,
	';':  333,
	'<':  570,
	'=':  570,
	'>':  570,
	'?':  500,
	'@':  930,
	'A':  722,
	'B':  667,
	'C':  722,
	'D':  722,
	'E':  667,
	'F':  611,
	'G':  778,
	'H':  778,
	'I':  389,
	'J':  500,
	'K':  778,
	'L':  667,
	'M':  944,
	'N':  722,
	'O':  778,
	'P':  611,
	'Q':  778,
	'R':  722,
	'S':  556,
	'T':  667,
	'U':  722,
	'V':  722,
	'W':  1000,
	'X':  722,
	'Y':  722,
	'Z':  667,
	'[':  333,
	'\\': 278,
	']':  333,
	'^':  581,
	'_':  500,
	'`':  333,
	'a':  500,
	'b':  556,
	'c':  444,
	'd':  556,
	'e':  444,
	'f':  333,
	'g':  500,
	'h':  556,
	'i':  278,
	'j':  333,
	'k':  556,
	'l':  278,
	'm':  833,
	'n':  556,
	'o':  500,
	'p':  556,
	'q':  556,
	'r':  444,
	's':  389,
	't':  333,
	'u':  556,
	'v':  500,
	'w':  722,
	'x':  500,
	'y':  500,
	'z':  444,
	'{':  394,
	'|':  220,
	'}':  394,
	'~':  520,
}

// Courier widths (monospaced)
var courierWidths = map[rune]float64{}

func init() {
	// Courier is monospaced - all characters have same width
	for r := rune(32); r <= 126; r++ {
		courierWidths[r] = 600
	}
}
