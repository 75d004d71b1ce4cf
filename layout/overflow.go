package layout

// Decision is the outcome of an overflow check
type Decision int

const (
	// PlaceHere means the block fits at the cursor
	PlaceHere Decision = iota
	// BreakFirst means the block goes to a new page
	BreakFirst
	// Overflow means the block cannot fit even on an empty page
	Overflow
)

func (d Decision) String() string {
	switch d {
	case PlaceHere:
		return "place"
	case BreakFirst:
		return "break"
	default:
		return "overflow"
	}
}

// OverflowPolicy decides where a measured block goes and caps blocks that
// are taller than a page.
type OverflowPolicy struct {
	// MaxHeight is the usable height of an empty page
	MaxHeight float64
}

// NewOverflowPolicy returns the policy for a cursor's page geometry
func NewOverflowPolicy(c *Cursor) OverflowPolicy {
	return OverflowPolicy{MaxHeight: c.UsableHeight()}
}

// Decide checks a block height against the cursor. A page that already
// holds content is broken; an empty page that still cannot hold the block
// is an overflow.
func (p OverflowPolicy) Decide(c *Cursor, height float64) Decision {
	if c.WillFit(height) {
		return PlaceHere
	}
	if c.AtTop() {
		return Overflow
	}
	return BreakFirst
}

// NeedsCap reports whether m is taller than an empty page
func (p OverflowPolicy) NeedsCap(m *Measurement) bool {
	return m.Height > p.MaxHeight+epsilon
}

// Cap shortens m to MaxHeight. Text lines and grid rows below the cap are
// dropped and counted; an image is scaled down into the remaining space.
// Returns the number of dropped lines.
func (p OverflowPolicy) Cap(m *Measurement) int {
	if !p.NeedsCap(m) {
		return 0
	}
	limit := p.MaxHeight

	omitted := 0
	texts := m.Texts[:0:0]
	for _, t := range m.Texts {
		if t.BBox.Bottom() > limit+epsilon {
			omitted++
			continue
		}
		texts = append(texts, t)
	}
	m.Texts = texts

	rules := m.Rules[:0:0]
	for _, r := range m.Rules {
		if r.Start.Y > limit+epsilon || r.End.Y > limit+epsilon {
			continue
		}
		rules = append(rules, r)
	}
	m.Rules = rules

	frames := m.Frames[:0:0]
	for _, f := range m.Frames {
		if f.Bottom() > limit+epsilon {
			continue
		}
		frames = append(frames, f)
	}
	m.Frames = frames

	if m.Image != nil && m.Image.BBox.Bottom() > limit+epsilon {
		img := *m.Image
		scale := (limit - img.BBox.Y) / img.BBox.Height
		if scale < 0 {
			scale = 0
		}
		w := img.BBox.Width * scale
		img.BBox.X += (img.BBox.Width - w) / 2
		img.BBox.Width = w
		img.BBox.Height *= scale
		m.Image = &img
	}

	if m.Link != nil && m.Link.BBox.Bottom() > limit+epsilon {
		m.Link = nil
	}

	m.Height = limit
	return omitted
}
