package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/text/unicode/norm"
)

// GlyphMeasurer measures text with the glyph advances of the Go font family.
// Faces are created lazily per size and shared; a mutex serializes access
// because opentype faces are not safe for concurrent use.
type GlyphMeasurer struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// NewGlyphMeasurer parses the embedded Go Regular and Go Bold fonts
func NewGlyphMeasurer() (*GlyphMeasurer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing Go Regular: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing Go Bold: %w", err)
	}
	return &GlyphMeasurer{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Width returns the advance width of s in points
func (g *GlyphMeasurer) Width(s string, size float64) float64 {
	return g.measure(s, size, false)
}

// BoldWidth returns the advance width of s in Go Bold
func (g *GlyphMeasurer) BoldWidth(s string, size float64) float64 {
	return g.measure(s, size, true)
}

func (g *GlyphMeasurer) measure(s string, size float64, bold bool) float64 {
	if s == "" {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	face, err := g.face(size, bold)
	if err != nil {
		return AverageMeasurer{}.Width(s, size)
	}
	// At 72 DPI one pixel is one point; advances are 26.6 fixed point
	return float64(font.MeasureString(face, norm.NFC.String(s))) / 64
}

func (g *GlyphMeasurer) face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if f, ok := g.faces[key]; ok {
		return f, nil
	}

	src := g.regular
	if bold {
		src = g.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	g.faces[key] = f
	return f, nil
}
