package model

import "time"

// LayoutPlan is the fully resolved, page-by-page output of the layout engine
type LayoutPlan struct {
	DocumentID string
	Meta       Metadata
	PageSize   PageSize
	Margins    Margins
	Pages      []*Page
	TotalPages int
}

// Metadata contains document-level information carried over from the Report
type Metadata struct {
	Title       string
	Subtitle    string
	CaseID      string
	Author      string
	GeneratedAt time.Time
}

// GetPage returns a page by number (1-indexed)
func (p *LayoutPlan) GetPage(number int) *Page {
	if number < 1 || number > len(p.Pages) {
		return nil
	}
	return p.Pages[number-1]
}

// BlockCount returns the number of placed blocks across all pages
func (p *LayoutPlan) BlockCount() int {
	n := 0
	for _, page := range p.Pages {
		n += len(page.Blocks)
	}
	return n
}

// Page is one page of a LayoutPlan
type Page struct {
	Index  int // 0-indexed
	Blocks []PlacedBlock

	Header *Stamp
	Footer *Stamp

	HeaderStamped bool
	FooterStamped bool
}

// Number returns the 1-indexed page number
func (p *Page) Number() int {
	return p.Index + 1
}

// ContentBottom returns the lowest Y reached by any placed block, or 0 when
// the page is empty.
func (p *Page) ContentBottom() float64 {
	bottom := 0.0
	for _, b := range p.Blocks {
		if b.BBox.Bottom() > bottom {
			bottom = b.BBox.Bottom()
		}
	}
	return bottom
}

// PlacedBlock is a block with resolved coordinates. The drawing primitives
// (Texts, Rules, Frames, Image, Link) all lie inside BBox.
type PlacedBlock struct {
	Source Block
	Kind   BlockKind
	BBox   BBox

	Texts  []Text
	Rules  []Rule
	Frames []BBox // stroked rectangles
	Image  *PlacedImage
	Link   *LinkAnnotation

	// Degraded is set when fallback content replaced the original
	Degraded bool
}

// Text is one line of text drawn inside BBox with the given alignment.
// BBox.Height is the line height.
type Text struct {
	Value string
	BBox  BBox
	Style TextStyle
	Align TextAlignment
}

// Rule is a straight line segment
type Rule struct {
	Start Point
	End   Point
	Width float64
}

// PlacedImage is decoded-and-verified raster data placed at BBox
type PlacedImage struct {
	Data        []byte
	Format      string // "png", "jpeg", "gif", "bmp", "tiff" or "webp"
	PixelWidth  int
	PixelHeight int
	BBox        BBox
}

// LinkAnnotation is a clickable area pointing at URL
type LinkAnnotation struct {
	URL  string
	BBox BBox
}

// RegionType indicates whether a stamp is a header or footer
type RegionType int

const (
	Header RegionType = iota
	Footer
)

func (r RegionType) String() string {
	if r == Header {
		return "header"
	}
	return "footer"
}

// Stamp is the repeated header or footer content of a page
type Stamp struct {
	Type  RegionType
	BBox  BBox
	Texts []Text
	Rules []Rule

	// Footer only
	PageNumber int
	TotalPages int
}

// TextStyle represents text styling
type TextStyle struct {
	Size   float64
	Bold   bool
	Italic bool
	Color  Color
}

// TextAlignment represents text alignment
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}
