package layout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lgodoyplay/cerco-sub000/internal/imaging"
	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/text"
)

var (
	linkColor  = model.Color{R: 0, G: 70, B: 160}
	mutedColor = model.Color{R: 90, G: 90, B: 90}
)

// defaultRenderers returns the built-in renderer for every block kind
func defaultRenderers(cfg Config) map[model.BlockKind]BlockRenderer {
	m := cfg.measurer()
	return map[model.BlockKind]BlockRenderer{
		model.BlockKindHeading:   &HeadingRenderer{cfg: cfg, m: m},
		model.BlockKindParagraph: &ParagraphRenderer{cfg: cfg, m: m},
		model.BlockKindKeyValue:  &KeyValueRenderer{cfg: cfg, m: m},
		model.BlockKindImage:     &ImageRenderer{cfg: cfg, m: m},
		model.BlockKindLink:      &LinkRenderer{cfg: cfg, m: m},
		model.BlockKindSignature: &SignatureRenderer{cfg: cfg, m: m},
	}
}

// ============================================================================
// Text blocks
// ============================================================================

// ParagraphRenderer word-wraps plain text to the column width
type ParagraphRenderer struct {
	cfg Config
	m   text.Measurer
}

// Measure implements BlockRenderer
func (r *ParagraphRenderer) Measure(b model.Block, width float64) Measurement {
	p, ok := b.(*model.ParagraphBlock)
	if !ok {
		return mismatched(b, width)
	}
	body := r.cfg.Body

	out := Measurement{Kind: model.BlockKindParagraph, Width: width}
	lines := text.Wrap(text.PlainText(p.Text), width, body.Size, r.m)
	style := model.TextStyle{Size: body.Size}
	for i, line := range lines {
		out.addLine(line, 0, float64(i)*body.LineHeight, width, body.LineHeight, style, model.AlignLeft)
	}
	out.Height = float64(len(lines)) * body.LineHeight
	return out
}

// HeadingRenderer wraps bold heading text. Level 1 is centred.
type HeadingRenderer struct {
	cfg Config
	m   text.Measurer
}

// Measure implements BlockRenderer
func (r *HeadingRenderer) Measure(b model.Block, width float64) Measurement {
	h, ok := b.(*model.HeadingBlock)
	if !ok {
		return mismatched(b, width)
	}
	level := h.Level
	if level == 0 {
		level = 2
	}
	fm := r.cfg.HeadingMetrics(level)

	align := model.AlignLeft
	if clampLevel(level) == 1 {
		align = model.AlignCenter
	}

	out := Measurement{Kind: model.BlockKindHeading, Width: width}
	lines := text.WrapBold(text.PlainText(h.Text), width, fm.Size, r.m)
	style := model.TextStyle{Size: fm.Size, Bold: true}
	for i, line := range lines {
		out.addLine(line, 0, float64(i)*fm.LineHeight, width, fm.LineHeight, style, align)
	}
	out.Height = float64(len(lines)) * fm.LineHeight
	return out
}

// ============================================================================
// Key/value grid
// ============================================================================

// KeyValueRenderer draws a bordered two-column grid with fixed row height.
// Cells hold a single line; longer values are ellipsized.
type KeyValueRenderer struct {
	cfg Config
	m   text.Measurer
}

// Measure implements BlockRenderer
func (r *KeyValueRenderer) Measure(b model.Block, width float64) Measurement {
	kv, ok := b.(*model.KeyValueBlock)
	if !ok {
		return mismatched(b, width)
	}
	cfg := r.cfg
	rh := cfg.RowHeight
	pad := cfg.CellPadding
	labelW := width * cfg.LabelRatio
	valueW := width - labelW

	out := Measurement{Kind: model.BlockKindKeyValue, Width: width}
	labelStyle := model.TextStyle{Size: cfg.Body.Size, Bold: true}
	valueStyle := model.TextStyle{Size: cfg.Body.Size}

	for i, pair := range kv.Pairs {
		y := float64(i) * rh
		out.Frames = append(out.Frames,
			model.BBox{X: 0, Y: y, Width: labelW, Height: rh},
			model.BBox{X: labelW, Y: y, Width: valueW, Height: rh},
		)

		label := r.fit(&out, pair.Label, labelW-2*pad, true)
		value := r.fit(&out, pair.Value, valueW-2*pad, false)
		out.addLine(label, pad, y, labelW-2*pad, rh, labelStyle, model.AlignLeft)
		out.addLine(value, labelW+pad, y, valueW-2*pad, rh, valueStyle, model.AlignLeft)
	}
	out.Height = float64(len(kv.Pairs)) * rh
	return out
}

// fit flattens a cell to one line and ellipsizes it to maxWidth
func (r *KeyValueRenderer) fit(out *Measurement, s string, maxWidth float64, bold bool) string {
	flat := strings.Join(strings.Fields(text.PlainText(s)), " ")
	fitted, cut := ellipsize(flat, maxWidth, r.cfg.Body.Size, r.m, bold)
	if cut {
		out.warn(ValueTruncated, fmt.Sprintf("%q shortened to fit its cell", flat))
	}
	return fitted
}

// ============================================================================
// Images
// ============================================================================

// ImageRenderer places decoded raster data in the standard image box. Data
// that cannot be decoded is replaced by one line of fallback text.
type ImageRenderer struct {
	cfg Config
	m   text.Measurer
}

// Measure implements BlockRenderer
func (r *ImageRenderer) Measure(b model.Block, width float64) Measurement {
	ib, ok := b.(*model.ImageBlock)
	if !ok {
		return mismatched(b, width)
	}
	cfg := r.cfg
	body := cfg.Body
	out := Measurement{Kind: model.BlockKindImage, Width: width}

	info, _, err := imaging.Decode(ib.Data)
	if err != nil {
		fallback := strings.TrimSpace(ib.FallbackText)
		if fallback == "" {
			fallback = cfg.ImageFallback
		}
		line, _ := ellipsize(fallback, width, body.Size, r.m, false)
		out.addLine(line, 0, 0, width, body.LineHeight, model.TextStyle{Size: body.Size, Italic: true, Color: mutedColor}, model.AlignCenter)
		out.Height = body.LineHeight
		out.Degraded = true
		out.warn(ImageUndecodable, err.Error())
		return out
	}

	boxW := cfg.ImageWidth
	if boxW > width {
		boxW = width
	}
	boxH := cfg.ImageHeight
	scale := boxW / float64(info.Width)
	if s := boxH / float64(info.Height); s < scale {
		scale = s
	}
	w := float64(info.Width) * scale
	h := float64(info.Height) * scale

	out.Image = &model.PlacedImage{
		Data:        ib.Data,
		Format:      strings.ToLower(info.Format.String()),
		PixelWidth:  info.Width,
		PixelHeight: info.Height,
		BBox:        model.BBox{X: (width - w) / 2, Y: (boxH - h) / 2, Width: w, Height: h},
	}
	out.Height = boxH

	if caption := strings.Join(strings.Fields(text.PlainText(ib.Caption)), " "); caption != "" {
		line, cut := ellipsize(caption, width, body.Size, r.m, false)
		if cut {
			out.warn(ValueTruncated, fmt.Sprintf("caption %q shortened to one line", caption))
		}
		out.addLine(line, 0, boxH, width, body.LineHeight, model.TextStyle{Size: body.Size, Italic: true, Color: mutedColor}, model.AlignCenter)
		out.Height += body.LineHeight
	}
	return out
}

// ============================================================================
// Links
// ============================================================================

// LinkRenderer draws a single underlined line with a link annotation over
// its text. Targets that are not absolute http, https or mailto URLs are
// drawn as plain text.
type LinkRenderer struct {
	cfg Config
	m   text.Measurer
}

// Measure implements BlockRenderer
func (r *LinkRenderer) Measure(b model.Block, width float64) Measurement {
	lb, ok := b.(*model.LinkBlock)
	if !ok {
		return mismatched(b, width)
	}
	body := r.cfg.Body
	out := Measurement{Kind: model.BlockKindLink, Width: width, Height: body.LineHeight}

	label := strings.Join(strings.Fields(text.PlainText(lb.GetText())), " ")
	line, cut := ellipsize(label, width, body.Size, r.m, false)
	if cut {
		out.warn(ValueTruncated, fmt.Sprintf("link label %q shortened to one line", label))
	}

	target, err := linkTarget(lb.URL)
	if err != nil {
		out.addLine(line, 0, 0, width, body.LineHeight, model.TextStyle{Size: body.Size}, model.AlignLeft)
		out.warn(InvalidLink, err.Error())
		return out
	}

	out.addLine(line, 0, 0, width, body.LineHeight, model.TextStyle{Size: body.Size, Color: linkColor}, model.AlignLeft)
	textW := r.m.Width(line, body.Size)
	if textW > width {
		textW = width
	}
	underline := body.LineHeight - (body.LineHeight-body.Size)/2
	out.Rules = append(out.Rules, model.Rule{
		Start: model.Point{X: 0, Y: underline},
		End:   model.Point{X: textW, Y: underline},
		Width: 0.5,
	})
	out.Link = &model.LinkAnnotation{URL: target, BBox: model.BBox{X: 0, Y: 0, Width: textW, Height: body.LineHeight}}
	return out
}

// linkTarget validates a hyperlink target
func linkTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty link target")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("link target %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return "", fmt.Errorf("link target %q has no host", raw)
		}
	case "mailto":
		if u.Opaque == "" && u.Path == "" {
			return "", fmt.Errorf("link target %q has no address", raw)
		}
	default:
		return "", fmt.Errorf("link target %q is not an http, https or mailto URL", raw)
	}
	return u.String(), nil
}

// ============================================================================
// Signature
// ============================================================================

// SignatureRenderer draws a fixed-height centred block: a rule followed by
// the signer's name, role and identifier.
type SignatureRenderer struct {
	cfg Config
	m   text.Measurer
}

// signatureMinHeight is the space the rule and three lines need
func signatureMinHeight(cfg Config) float64 {
	return 3*cfg.Body.LineHeight + signatureRuleGap
}

const signatureRuleGap = 4

// Measure implements BlockRenderer
func (r *SignatureRenderer) Measure(b model.Block, width float64) Measurement {
	sb, ok := b.(*model.SignatureBlock)
	if !ok {
		return mismatched(b, width)
	}
	cfg := r.cfg
	body := cfg.Body
	out := Measurement{Kind: model.BlockKindSignature, Width: width, Height: cfg.SignatureHeight}

	ruleW := cfg.SignatureRuleWidth
	if ruleW > width {
		ruleW = width
	}
	ruleY := cfg.SignatureHeight - signatureMinHeight(cfg)
	out.Rules = append(out.Rules, model.Rule{
		Start: model.Point{X: (width - ruleW) / 2, Y: ruleY},
		End:   model.Point{X: (width + ruleW) / 2, Y: ruleY},
		Width: 0.75,
	})

	lines := []struct {
		value string
		style model.TextStyle
	}{
		{sb.Name, model.TextStyle{Size: body.Size, Bold: true}},
		{sb.Role, model.TextStyle{Size: body.Size}},
		{sb.Identifier, model.TextStyle{Size: body.Size, Color: mutedColor}},
	}
	y := ruleY + signatureRuleGap
	for _, l := range lines {
		value := strings.Join(strings.Fields(l.value), " ")
		if value != "" {
			fitted, cut := ellipsize(value, width, body.Size, r.m, l.style.Bold)
			if cut {
				out.warn(ValueTruncated, fmt.Sprintf("signature line %q shortened", value))
			}
			out.addLine(fitted, 0, y, width, body.LineHeight, l.style, model.AlignCenter)
		}
		y += body.LineHeight
	}
	return out
}

// ellipsize shortens s to maxWidth, measuring with the bold face when asked
// mismatched is the empty measurement for a block of the wrong type
func mismatched(b model.Block, width float64) Measurement {
	return Measurement{Kind: b.Kind(), Width: width, Degraded: true}
}

func ellipsize(s string, maxWidth, size float64, m text.Measurer, bold bool) (string, bool) {
	if bold {
		return text.Ellipsize(s, maxWidth, size, boldOnly{m})
	}
	return text.Ellipsize(s, maxWidth, size, m)
}

// boldOnly measures every string with the bold face of m
type boldOnly struct{ m text.Measurer }

func (b boldOnly) Width(s string, size float64) float64 {
	return text.WidthOf(b.m, s, size, true)
}
