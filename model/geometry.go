package model

// Point is a position on a page in points.
type Point struct {
	X, Y float64
}

// BBox represents a bounding box (rectangle)
type BBox struct {
	X      float64 // Left
	Y      float64 // Top (page coordinates grow downward)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Encloses reports whether other lies entirely inside b, allowing for a
// rounding tolerance of eps points on every edge.
func (b BBox) Encloses(other BBox, eps float64) bool {
	return other.Left() >= b.Left()-eps &&
		other.Right() <= b.Right()+eps &&
		other.Top() >= b.Top()-eps &&
		other.Bottom() <= b.Bottom()+eps
}

// Translate returns the box moved by dx, dy
func (b BBox) Translate(dx, dy float64) BBox {
	return BBox{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// PageSize represents page dimensions in points.
type PageSize struct {
	Width  float64
	Height float64
}

// Standard page sizes in points
var (
	A4     = PageSize{595.28, 841.89}
	Letter = PageSize{612, 792}
	Legal  = PageSize{612, 1008}
)

// Margins holds the four page margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// ContentBox returns the area of a page of the given size that lies inside
// the margins.
func (m Margins) ContentBox(size PageSize) BBox {
	return BBox{
		X:      m.Left,
		Y:      m.Top,
		Width:  size.Width - m.Left - m.Right,
		Height: size.Height - m.Top - m.Bottom,
	}
}
