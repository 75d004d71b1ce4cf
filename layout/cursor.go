package layout

import (
	"github.com/lgodoyplay/cerco-sub000/model"
)

// epsilon absorbs floating point error in fit checks
const epsilon = 1e-6

// Cursor is the running position of one composition. It is owned by a
// single Compose call and moved exactly once per placed block.
type Cursor struct {
	PageIndex int
	Y         float64

	PageWidth  float64
	PageHeight float64

	MarginTop    float64
	MarginLeft   float64
	MarginRight  float64
	MarginBottom float64
}

// NewCursor returns a cursor at the top of the first page
func NewCursor(size model.PageSize, margins model.Margins) Cursor {
	return Cursor{
		Y:            margins.Top,
		PageWidth:    size.Width,
		PageHeight:   size.Height,
		MarginTop:    margins.Top,
		MarginLeft:   margins.Left,
		MarginRight:  margins.Right,
		MarginBottom: margins.Bottom,
	}
}

// ContentWidth returns the width between the side margins
func (c *Cursor) ContentWidth() float64 {
	return c.PageWidth - c.MarginLeft - c.MarginRight
}

// Bottom returns the lowest Y a block may reach
func (c *Cursor) Bottom() float64 {
	return c.PageHeight - c.MarginBottom
}

// UsableHeight returns the height between the top and bottom margins
func (c *Cursor) UsableHeight() float64 {
	return c.PageHeight - c.MarginTop - c.MarginBottom
}

// Remaining returns the height left on the current page
func (c *Cursor) Remaining() float64 {
	return c.Bottom() - c.Y
}

// AtTop reports whether nothing has been placed on the current page
func (c *Cursor) AtTop() bool {
	return c.Y <= c.MarginTop+epsilon
}

// WillFit reports whether a block of the given height fits below Y
func (c *Cursor) WillFit(height float64) bool {
	return c.Y+height <= c.Bottom()+epsilon
}

// Advance moves Y down by height, clamped to the content area
func (c *Cursor) Advance(height float64) {
	c.Y += height
	if c.Y > c.Bottom() {
		c.Y = c.Bottom()
	}
	if c.Y < c.MarginTop {
		c.Y = c.MarginTop
	}
}

// BreakPage moves to the top of the next page
func (c *Cursor) BreakPage() {
	c.PageIndex++
	c.Y = c.MarginTop
}
