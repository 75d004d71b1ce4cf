package layout

import (
	"errors"
	"fmt"

	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/text"
)

// ErrInvalidConfig is returned when the page geometry leaves no room for
// content or the stamps do not fit inside the margins.
var ErrInvalidConfig = errors.New("layout: invalid config")

// FontMetrics pairs a font size with the line height used for it
type FontMetrics struct {
	Size       float64
	LineHeight float64
}

// Config holds the page geometry and the fixed block dimensions used by the
// composer. All values are in points.
type Config struct {
	// PageSize is the size of every page
	// Default: A4
	PageSize model.PageSize

	// Margins bound the content area. The header is drawn inside the top
	// margin and the footer inside the bottom margin.
	// Default: top 120, right 50, bottom 60, left 50
	Margins model.Margins

	// Body is the paragraph, link and key/value text style
	// Default: 10pt on 14pt lines
	Body FontMetrics

	// Headings holds the styles for heading levels 1 to 3
	// Default: 18/24, 14/20, 12/16
	Headings [3]FontMetrics

	// CharWidthRatio is the average character width as a fraction of the
	// font size. Used when Measurer is nil.
	// Default: 0.5
	CharWidthRatio float64

	// Measurer measures text for wrapping. Nil selects the average
	// character width approximation.
	Measurer text.Measurer

	// BlockSpacing is the vertical gap between blocks on the same page. It
	// is dropped at a page top and collapses at the page bottom.
	// Default: 6
	BlockSpacing float64

	// RowHeight is the height of one key/value grid row
	// Default: 18
	RowHeight float64

	// LabelRatio is the fraction of the column given to key/value labels
	// Default: 0.35
	LabelRatio float64

	// CellPadding is the horizontal text inset inside grid cells
	// Default: 4
	CellPadding float64

	// ImageWidth and ImageHeight give the standard image box. Images are
	// scaled into it keeping their aspect ratio.
	// Default: 320 x 200
	ImageWidth  float64
	ImageHeight float64

	// ImageFallback replaces undecodable images without FallbackText
	// Default: "[image unavailable]"
	ImageFallback string

	// SignatureHeight is the fixed height of a signature block
	// Default: 90
	SignatureHeight float64

	// SignatureRuleWidth is the length of the signature line
	// Default: 200
	SignatureRuleWidth float64

	// Letterhead lines are stamped centred at the top of every page. The
	// first line is bold.
	Letterhead []string

	// HeaderTop is the Y of the first letterhead line
	// Default: 30
	HeaderTop float64

	// Stamp is the header and footer text style
	// Default: 9pt on 13pt lines
	Stamp FontMetrics

	// FooterText is the confidentiality line. The case ID is appended as a
	// reference.
	// Default: "CONFIDENTIAL - For official use only"
	FooterText string

	// FooterOffset is the distance from the content bottom to the footer rule
	// Default: 20
	FooterOffset float64

	// ShowTitle places the report title, subtitle and case line at the top
	// of the first page.
	// Default: true
	ShowTitle bool

	// AutoSignature appends a signature block built from the report's
	// authority fields when no section contains one.
	// Default: true
	AutoSignature bool
}

// DefaultLetterhead is the default organisational letterhead
var DefaultLetterhead = []string{
	"DEPARTMENT OF POLICE",
	"Criminal Investigation Division",
	"Official Case Report",
}

// headerRuleGap is the space between the last letterhead line and its rule
const headerRuleGap = 4

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		PageSize: model.A4,
		Margins: model.Margins{
			Top:    120,
			Right:  50,
			Bottom: 60,
			Left:   50,
		},
		Body: FontMetrics{Size: 10, LineHeight: 14},
		Headings: [3]FontMetrics{
			{Size: 18, LineHeight: 24},
			{Size: 14, LineHeight: 20},
			{Size: 12, LineHeight: 16},
		},
		CharWidthRatio:     text.DefaultCharWidthRatio,
		BlockSpacing:       6,
		RowHeight:          18,
		LabelRatio:         0.35,
		CellPadding:        4,
		ImageWidth:         320,
		ImageHeight:        200,
		ImageFallback:      "[image unavailable]",
		SignatureHeight:    90,
		SignatureRuleWidth: 200,
		Letterhead:         append([]string(nil), DefaultLetterhead...),
		HeaderTop:          30,
		Stamp:              FontMetrics{Size: 9, LineHeight: 13},
		FooterText:         "CONFIDENTIAL - For official use only",
		FooterOffset:       20,
		ShowTitle:          true,
		AutoSignature:      true,
	}
}

// ContentBox returns the area inside the margins
func (c Config) ContentBox() model.BBox {
	return c.Margins.ContentBox(c.PageSize)
}

// UsableHeight returns the height available for blocks on one page
func (c Config) UsableHeight() float64 {
	return c.ContentBox().Height
}

// HeadingMetrics returns the style for a heading level. Levels outside 1..3
// are clamped.
func (c Config) HeadingMetrics(level int) FontMetrics {
	return c.Headings[clampLevel(level)-1]
}

// measurer returns the configured measurer or the average width fallback
func (c Config) measurer() text.Measurer {
	if c.Measurer != nil {
		return c.Measurer
	}
	return text.AverageMeasurer{Ratio: c.CharWidthRatio}
}

// Validate checks that the geometry leaves room for content and stamps
func (c Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.PageSize.Width > 0 && c.PageSize.Height > 0, "page size %gx%g must be positive", c.PageSize.Width, c.PageSize.Height)
	check(c.Margins.Top >= 0 && c.Margins.Right >= 0 && c.Margins.Bottom >= 0 && c.Margins.Left >= 0, "margins must not be negative")

	box := c.ContentBox()
	check(box.Width > 0, "margins leave no content width")
	check(box.Height > 0, "margins leave no content height")

	check(c.Body.Size > 0 && c.Body.LineHeight > 0, "body font metrics must be positive")
	for i, h := range c.Headings {
		check(h.Size > 0 && h.LineHeight > 0, "heading level %d font metrics must be positive", i+1)
	}
	check(c.Stamp.Size > 0 && c.Stamp.LineHeight > 0, "stamp font metrics must be positive")
	if c.Measurer == nil {
		check(c.CharWidthRatio > 0, "char width ratio must be positive")
	}

	check(c.BlockSpacing >= 0, "block spacing must not be negative")
	check(c.RowHeight > 0, "row height must be positive")
	check(c.LabelRatio > 0 && c.LabelRatio < 1, "label ratio %g must be between 0 and 1", c.LabelRatio)
	check(c.CellPadding >= 0, "cell padding must not be negative")
	check(c.ImageWidth > 0 && c.ImageHeight > 0, "image box must be positive")
	check(c.SignatureRuleWidth > 0, "signature rule width must be positive")
	check(c.SignatureHeight >= signatureMinHeight(c), "signature height %g is below the %g needed for its lines", c.SignatureHeight, signatureMinHeight(c))

	if len(c.Letterhead) > 0 {
		check(c.HeaderTop >= 0, "header top must not be negative")
		headerBottom := c.HeaderTop + float64(len(c.Letterhead))*c.Stamp.LineHeight + headerRuleGap
		check(headerBottom <= c.Margins.Top, "letterhead ends at %g, below the top margin %g", headerBottom, c.Margins.Top)
	}

	check(c.FooterOffset >= 0, "footer offset must not be negative")
	footerHeight := c.FooterOffset + footerTextGap + c.Stamp.LineHeight
	check(footerHeight <= c.Margins.Bottom, "footer needs %g points but the bottom margin is %g", footerHeight, c.Margins.Bottom)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}
