package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/internal/imaging"
	"github.com/lgodoyplay/cerco-sub000/model"
)

// DefaultProducer is written to the PDF Info dictionary.
const DefaultProducer = "cerco"

// baselineRatio places the text baseline inside its line box:
// baseline = top + lineHeight/2 + size*baselineRatio.
const baselineRatio = 0.35

var stampColor = model.Color{R: 90, G: 90, B: 90}

// PDF draws a layout plan with the PDF core fonts.
type PDF struct {
	family   string
	compress bool
	producer string
	lang     string
}

// PDFOption configures a PDF renderer.
type PDFOption func(*PDF)

// WithFontFamily selects the core font family: "Helvetica" (default),
// "Times" or "Courier".
func WithFontFamily(family string) PDFOption {
	return func(p *PDF) {
		p.family = family
	}
}

// WithCompression toggles stream compression. Compression is on by default.
func WithCompression(on bool) PDFOption {
	return func(p *PDF) {
		p.compress = on
	}
}

// WithProducer overrides the Producer entry of the document information.
func WithProducer(producer string) PDFOption {
	return func(p *PDF) {
		p.producer = producer
	}
}

// WithLanguage sets the document language, e.g. "en-US".
func WithLanguage(lang string) PDFOption {
	return func(p *PDF) {
		p.lang = lang
	}
}

// NewPDF creates a PDF renderer.
func NewPDF(opts ...PDFOption) *PDF {
	p := &PDF{
		family:   "Helvetica",
		compress: true,
		producer: DefaultProducer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FontFamily returns the core font family the renderer draws with.
func (p *PDF) FontFamily() string {
	return p.family
}

// Format returns format.PDF.
func (p *PDF) Format() format.Format {
	return format.PDF
}

// Render writes plan as a PDF document with exactly plan.TotalPages pages.
func (p *PDF) Render(w io.Writer, plan *model.LayoutPlan) error {
	if err := checkPlan(plan); err != nil {
		return err
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: plan.PageSize.Width, Ht: plan.PageSize.Height},
	})
	doc.SetMargins(plan.Margins.Left, plan.Margins.Top, plan.Margins.Right)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(p.compress)
	doc.SetCatalogSort(true)
	if p.lang != "" {
		doc.SetLang(p.lang)
	}

	d := &pdfDrawer{
		doc:    doc,
		family: p.family,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
	}
	d.meta(plan, p.producer)

	for _, page := range plan.Pages {
		doc.AddPage()
		if page.Header != nil {
			d.stamp(page.Header)
		}
		for i := range page.Blocks {
			d.block(page.Number(), i, &page.Blocks[i])
		}
		if page.Footer != nil {
			d.stamp(page.Footer)
		}
		if err := doc.Error(); err != nil {
			return fmt.Errorf("render page %d: %w", page.Number(), err)
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfDrawer holds the per-document drawing state.
type pdfDrawer struct {
	doc    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (d *pdfDrawer) meta(plan *model.LayoutPlan, producer string) {
	m := plan.Meta
	d.doc.SetTitle(m.Title, true)
	if m.Subtitle != "" {
		d.doc.SetSubject(m.Subtitle, true)
	}
	if m.Author != "" {
		d.doc.SetAuthor(m.Author, true)
	}
	keywords := []string{"case:" + m.CaseID}
	if plan.DocumentID != "" {
		keywords = append(keywords, "document:"+plan.DocumentID)
	}
	d.doc.SetKeywords(strings.Join(keywords, " "), true)
	d.doc.SetCreator(producer, true)
	d.doc.SetProducer(producer, true)
	if !m.GeneratedAt.IsZero() {
		d.doc.SetCreationDate(m.GeneratedAt.UTC())
		d.doc.SetModificationDate(m.GeneratedAt.UTC())
	}
}

func (d *pdfDrawer) stamp(s *model.Stamp) {
	d.doc.SetDrawColor(int(stampColor.R), int(stampColor.G), int(stampColor.B))
	for _, r := range s.Rules {
		d.rule(r)
	}
	for _, t := range s.Texts {
		d.text(t)
	}
}

func (d *pdfDrawer) block(pageNumber, index int, b *model.PlacedBlock) {
	d.doc.SetDrawColor(0, 0, 0)

	for _, f := range b.Frames {
		d.doc.SetLineWidth(0.5)
		d.doc.Rect(f.X, f.Y, f.Width, f.Height, "D")
	}
	for _, r := range b.Rules {
		d.rule(r)
	}
	if b.Image != nil {
		d.image(fmt.Sprintf("p%d-b%d", pageNumber, index), b.Image)
	}
	for _, t := range b.Texts {
		d.text(t)
	}
	if b.Link != nil {
		l := b.Link.BBox
		d.doc.LinkString(l.X, l.Y, l.Width, l.Height, b.Link.URL)
	}

	if h, ok := b.Source.(*model.HeadingBlock); ok && b.Kind == model.BlockKindHeading {
		d.doc.Bookmark(d.tr(h.Text), 0, b.BBox.Y)
	}
}

func (d *pdfDrawer) rule(r model.Rule) {
	width := r.Width
	if width <= 0 {
		width = 0.5
	}
	d.doc.SetLineWidth(width)
	d.doc.Line(r.Start.X, r.Start.Y, r.End.X, r.End.Y)
}

func (d *pdfDrawer) text(t model.Text) {
	if t.Value == "" {
		return
	}

	d.doc.SetFont(d.family, fontStyle(t.Style), t.Style.Size)
	d.doc.SetTextColor(int(t.Style.Color.R), int(t.Style.Color.G), int(t.Style.Color.B))

	s := d.tr(t.Value)
	x := t.BBox.X
	switch t.Align {
	case model.AlignCenter:
		x += (t.BBox.Width - d.doc.GetStringWidth(s)) / 2
	case model.AlignRight:
		x = t.BBox.Right() - d.doc.GetStringWidth(s)
	}
	y := t.BBox.Y + t.BBox.Height/2 + t.Style.Size*baselineRatio

	d.doc.Text(x, y, s)
}

func (d *pdfDrawer) image(name string, img *model.PlacedImage) {
	data, f, err := imaging.Embeddable(img.Data)
	if err != nil {
		// The plan only carries images that decoded during layout.
		d.doc.SetErrorf("embed image %s: %v", name, err)
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if f == format.JPEG {
		opts.ImageType = "JPG"
	}
	d.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.doc.ImageOptions(name, img.BBox.X, img.BBox.Y, img.BBox.Width, img.BBox.Height, false, opts, 0, "")
}

func fontStyle(s model.TextStyle) string {
	switch {
	case s.Bold && s.Italic:
		return "BI"
	case s.Bold:
		return "B"
	case s.Italic:
		return "I"
	default:
		return ""
	}
}
