package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/model"
)

// Markdown writes a page-by-page preview of a plan. It lists what was placed
// where, so reviewers can check pagination without opening the PDF.
type Markdown struct {
	geometry bool
}

// MarkdownOption configures a Markdown renderer.
type MarkdownOption func(*Markdown)

// WithoutGeometry drops the position column from the block tables.
func WithoutGeometry() MarkdownOption {
	return func(m *Markdown) {
		m.geometry = false
	}
}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown(opts ...MarkdownOption) *Markdown {
	m := &Markdown{geometry: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Format returns format.Markdown.
func (m *Markdown) Format() format.Format {
	return format.Markdown
}

// Render writes the preview of plan to w.
func (m *Markdown) Render(w io.Writer, plan *model.LayoutPlan) error {
	if err := checkPlan(plan); err != nil {
		return err
	}

	md := markdown.NewMarkdown(w)
	m.writeHeader(md, plan)
	for _, page := range plan.Pages {
		m.writePage(md, page, plan.TotalPages)
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("build markdown: %w", err)
	}
	return nil
}

func (m *Markdown) writeHeader(md *markdown.Markdown, plan *model.LayoutPlan) {
	md.H1(plan.Meta.Title)
	if plan.Meta.Subtitle != "" {
		md.PlainText(markdown.Italic(plan.Meta.Subtitle))
	}
	md.PlainText("")

	rows := [][]string{
		{"Case", cell(plan.Meta.CaseID)},
		{"Document", markdown.Code(plan.DocumentID)},
		{"Pages", strconv.Itoa(plan.TotalPages)},
		{"Page size", fmt.Sprintf("%.2f x %.2f pt", plan.PageSize.Width, plan.PageSize.Height)},
	}
	if !plan.Meta.GeneratedAt.IsZero() {
		rows = append(rows, []string{"Generated", plan.Meta.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")})
	}
	if plan.Meta.Author != "" {
		rows = append(rows, []string{"Authority", cell(plan.Meta.Author)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (m *Markdown) writePage(md *markdown.Markdown, page *model.Page, total int) {
	md.H2(layout.PageLabel(page.Number(), total))
	md.PlainText("")

	if page.Header != nil {
		md.Blockquote(stampLine(page.Header))
		md.PlainText("")
	}

	header := []string{"#", "Kind", "Content"}
	if m.geometry {
		header = []string{"#", "Kind", "Position", "Content"}
	}
	rows := make([][]string, 0, len(page.Blocks))
	for i, b := range page.Blocks {
		row := []string{strconv.Itoa(i + 1), b.Kind.String()}
		if m.geometry {
			row = append(row, position(b.BBox))
		}
		row = append(row, summary(b))
		rows = append(rows, row)
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")

	if page.Footer != nil {
		md.PlainText(markdown.Italic(stampLine(page.Footer)))
		md.PlainText("")
	}
	md.HorizontalRule()
	md.PlainText("")
}

func stampLine(s *model.Stamp) string {
	parts := make([]string, 0, len(s.Texts))
	for _, t := range s.Texts {
		if t.Value != "" {
			parts = append(parts, t.Value)
		}
	}
	return cell(strings.Join(parts, " | "))
}

func position(b model.BBox) string {
	return fmt.Sprintf("%.1f, %.1f (%.1f x %.1f)", b.X, b.Y, b.Width, b.Height)
}

// summary describes a placed block in one table cell.
func summary(b model.PlacedBlock) string {
	var s string
	switch {
	case b.Image != nil:
		s = fmt.Sprintf("image %s %dx%d px", b.Image.Format, b.Image.PixelWidth, b.Image.PixelHeight)
		if len(b.Texts) > 0 {
			s += ": " + cell(joinTexts(b.Texts))
		}
	case b.Link != nil:
		s = markdown.Link(cell(joinTexts(b.Texts)), b.Link.URL)
	default:
		s = cell(joinTexts(b.Texts))
	}
	if b.Degraded {
		s += " " + markdown.Bold("(degraded)")
	}
	return s
}

func joinTexts(texts []model.Text) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if v := strings.TrimSpace(t.Value); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// cell makes s safe for a single table cell.
func cell(s string) string {
	return cellReplacer.Replace(s)
}
