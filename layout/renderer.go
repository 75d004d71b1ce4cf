package layout

import (
	"github.com/lgodoyplay/cerco-sub000/model"
)

// BlockRenderer measures one block variant. Measure must be pure: the same
// block and width always give the same Measurement.
type BlockRenderer interface {
	Measure(b model.Block, width float64) Measurement
}

// Measurement is a measured block whose primitives are relative to the
// block's top-left corner. Place turns it into a PlacedBlock.
type Measurement struct {
	Kind   model.BlockKind
	Width  float64
	Height float64

	Texts  []model.Text
	Rules  []model.Rule
	Frames []model.BBox
	Image  *model.PlacedImage
	Link   *model.LinkAnnotation

	Degraded bool

	// Warnings are returned without location; the composer fills it in
	Warnings []Warning
}

func (m *Measurement) warn(kind WarningKind, msg string) {
	m.Warnings = append(m.Warnings, Warning{Kind: kind, Message: msg})
}

// addLine appends a text line spanning width at the given offset
func (m *Measurement) addLine(value string, x, y, width, lineHeight float64, style model.TextStyle, align model.TextAlignment) {
	m.Texts = append(m.Texts, model.Text{
		Value: value,
		BBox:  model.BBox{X: x, Y: y, Width: width, Height: lineHeight},
		Style: style,
		Align: align,
	})
}

// Place resolves the measurement at absolute position (x, y)
func (m *Measurement) Place(source model.Block, x, y float64) model.PlacedBlock {
	pb := model.PlacedBlock{
		Source:   source,
		Kind:     m.Kind,
		BBox:     model.BBox{X: x, Y: y, Width: m.Width, Height: m.Height},
		Degraded: m.Degraded,
	}

	if len(m.Texts) > 0 {
		pb.Texts = make([]model.Text, len(m.Texts))
		for i, t := range m.Texts {
			t.BBox = t.BBox.Translate(x, y)
			pb.Texts[i] = t
		}
	}
	if len(m.Rules) > 0 {
		pb.Rules = make([]model.Rule, len(m.Rules))
		for i, r := range m.Rules {
			pb.Rules[i] = model.Rule{
				Start: model.Point{X: r.Start.X + x, Y: r.Start.Y + y},
				End:   model.Point{X: r.End.X + x, Y: r.End.Y + y},
				Width: r.Width,
			}
		}
	}
	if len(m.Frames) > 0 {
		pb.Frames = make([]model.BBox, len(m.Frames))
		for i, f := range m.Frames {
			pb.Frames[i] = f.Translate(x, y)
		}
	}
	if m.Image != nil {
		img := *m.Image
		img.BBox = img.BBox.Translate(x, y)
		pb.Image = &img
	}
	if m.Link != nil {
		pb.Link = &model.LinkAnnotation{URL: m.Link.URL, BBox: m.Link.BBox.Translate(x, y)}
	}

	return pb
}
