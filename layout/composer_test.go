package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgodoyplay/cerco-sub000/model"
)

var generatedAt = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

// testConfig returns defaults without the title panel, automatic signature
// or block spacing so that page arithmetic is exact
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ShowTitle = false
	cfg.AutoSignature = false
	cfg.BlockSpacing = 0
	return cfg
}

func newComposer(t *testing.T, cfg Config, opts ...Option) *Composer {
	t.Helper()
	c, err := NewComposer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewComposer failed: %v", err)
	}
	return c
}

func newReport(sections ...model.Section) *model.Report {
	return &model.Report{
		Title:         "Incident Report",
		Subtitle:      "Burglary at 12 Grove Street",
		CaseID:        "2024-0117",
		GeneratedAt:   generatedAt,
		AuthorityName: "Det. Ana Ruiz",
		AuthorityRole: "Lead Investigator",
		AuthorityID:   "Badge 4471",
		Sections:      sections,
	}
}

// lines returns a paragraph of n hard-broken lines
func lines(n int) *model.ParagraphBlock {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("line %d", i+1)
	}
	return &model.ParagraphBlock{Text: strings.Join(parts, "\n")}
}

// mixedReport exercises every block kind across several pages
func mixedReport(t *testing.T) *model.Report {
	t.Helper()
	var sections []model.Section
	for i := 0; i < 6; i++ {
		sections = append(sections, model.Section{
			Heading: fmt.Sprintf("Section %d", i+1),
			Blocks: []model.Block{
				&model.ParagraphBlock{Text: strings.Repeat("The suspect was observed near the scene. ", 20+i*7)},
				&model.KeyValueBlock{Pairs: []model.KeyValue{
					{Label: "Witness", Value: fmt.Sprintf("Witness %d", i)},
					{Label: "Statement", Value: strings.Repeat("detail ", 3+i*10)},
				}},
				&model.ImageBlock{Data: pngData(t, 40+i, 30), Caption: fmt.Sprintf("Exhibit %d", i+1)},
				&model.LinkBlock{URL: fmt.Sprintf("https://evidence.example.org/%d", i), Label: "Evidence locker"},
			},
		})
	}
	sections[5].Blocks = append(sections[5].Blocks, lines(80))
	return newReport(sections...)
}

// ============================================================================
// Scenario Tests
// ============================================================================

// One heading, a 500-word paragraph and three images paginate to the
// page count predicted by total height over usable height.
func TestCompose_ScenarioA_PageCountFormula(t *testing.T) {
	cfg := testConfig()
	c := newComposer(t, cfg)

	paragraph := strings.TrimSpace(strings.Repeat("lorem ", 500))
	r := newReport(model.Section{Blocks: []model.Block{
		&model.HeadingBlock{Text: "Findings", Level: 2},
		&model.ParagraphBlock{Text: paragraph},
		&model.ImageBlock{Data: pngData(t, 64, 48)},
		&model.ImageBlock{Data: pngData(t, 64, 48)},
		&model.ImageBlock{Data: pngData(t, 64, 48)},
	}})

	plan, warnings, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	// 16 words per 495pt line: 32 lines of 14pt
	paraHeight := plan.Pages[0].Blocks[1].BBox.Height
	if paraHeight != 32*cfg.Body.LineHeight {
		t.Fatalf("paragraph height = %f, want %f", paraHeight, 32*cfg.Body.LineHeight)
	}

	total := cfg.HeadingMetrics(2).LineHeight + paraHeight + 3*cfg.ImageHeight
	want := int(math.Ceil(total / cfg.UsableHeight()))
	if plan.TotalPages != want {
		t.Errorf("TotalPages = %d, want ceil(%.2f / %.2f) = %d", plan.TotalPages, total, cfg.UsableHeight(), want)
	}
	if plan.BlockCount() != 5 {
		t.Errorf("BlockCount() = %d, want 5", plan.BlockCount())
	}
}

// Corrupt image data yields one fallback line and exactly one warning.
func TestCompose_ScenarioB_UndecodableImage(t *testing.T) {
	c := newComposer(t, testConfig())

	r := newReport(model.Section{Heading: "Evidence", Blocks: []model.Block{
		&model.ParagraphBlock{Text: "Photographs taken at the scene."},
		&model.ImageBlock{Data: []byte("\x89PNG\r\n\x1a\ncorrupt"), Caption: "Front door"},
	}})

	plan, warnings, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(warnings), warnings)
	}
	w := warnings[0]
	if w.Kind != ImageUndecodable || w.Section != 0 || w.Block != 1 || w.Page != 1 {
		t.Errorf("warning = %+v", w)
	}

	blocks := plan.Pages[0].Blocks
	img := blocks[len(blocks)-1]
	if img.Kind != model.BlockKindImage || !img.Degraded {
		t.Fatalf("expected degraded image block, got %+v", img)
	}
	if img.Image != nil {
		t.Error("fallback must not carry image data")
	}
	if len(img.Texts) != 1 || img.BBox.Height != testConfig().Body.LineHeight {
		t.Errorf("expected a single fallback line, got %d texts, height %f", len(img.Texts), img.BBox.Height)
	}
}

// A report without a case ID fails validation before any page exists.
func TestCompose_ScenarioC_MissingCaseID(t *testing.T) {
	c := newComposer(t, testConfig())

	r := newReport(model.Section{Blocks: []model.Block{&model.ParagraphBlock{Text: "x"}}})
	r.CaseID = ""

	plan, warnings, err := c.Compose(r)
	if plan != nil {
		t.Error("expected no plan")
	}
	if warnings != nil {
		t.Error("expected no warnings")
	}
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Problems) != 1 || verr.Problems[0] != "case ID is required" {
		t.Errorf("Problems = %v", verr.Problems)
	}
}

// Two sections that exactly fill the page push the next block to exactly
// one new page.
func TestCompose_ScenarioD_ExactFill(t *testing.T) {
	cfg := testConfig()
	cfg.PageSize = model.PageSize{Width: 595.28, Height: 800}
	cfg.Margins = model.Margins{Top: 120, Right: 50, Bottom: 120, Left: 50}
	c := newComposer(t, cfg)

	// 20 + 20 lines of 14pt = 560pt = usable height
	r := newReport(
		model.Section{Blocks: []model.Block{lines(20)}},
		model.Section{Blocks: []model.Block{lines(20)}},
		model.Section{Blocks: []model.Block{&model.ParagraphBlock{Text: "Next"}}},
	)

	plan, _, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if plan.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", plan.TotalPages)
	}
	if n := len(plan.Pages[0].Blocks); n != 2 {
		t.Errorf("page 1 holds %d blocks, want 2", n)
	}
	if bottom := plan.Pages[0].ContentBottom(); bottom != 680 {
		t.Errorf("page 1 content ends at %f, want 680", bottom)
	}
	p2 := plan.Pages[1].Blocks
	if len(p2) != 1 || p2[0].BBox.Y != cfg.Margins.Top {
		t.Errorf("page 2 should start with the next block at the top margin, got %+v", p2)
	}
}

// With the default block spacing the gap before the second section
// collapses, so both sections still share the first page.
func TestCompose_ScenarioD_ExactFillDefaultSpacing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowTitle = false
	cfg.PageSize = model.PageSize{Width: 595.28, Height: 800}
	cfg.Margins = model.Margins{Top: 120, Right: 50, Bottom: 120, Left: 50}
	c := newComposer(t, cfg)

	r := newReport(
		model.Section{Blocks: []model.Block{lines(20)}},
		model.Section{Blocks: []model.Block{lines(20)}},
		model.Section{Blocks: []model.Block{&model.ParagraphBlock{Text: "Next"}}},
	)

	plan, _, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if plan.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", plan.TotalPages)
	}
	p1 := plan.Pages[0].Blocks
	if len(p1) != 2 {
		t.Fatalf("page 1 holds %d blocks, want 2", len(p1))
	}
	if p1[1].BBox.Y != p1[0].BBox.Bottom() {
		t.Errorf("second section at %f, want flush at %f", p1[1].BBox.Y, p1[0].BBox.Bottom())
	}
	if bottom := plan.Pages[0].ContentBottom(); bottom != 680 {
		t.Errorf("page 1 content ends at %f, want 680", bottom)
	}

	// next paragraph, then the automatic signature after one gap
	p2 := plan.Pages[1].Blocks
	if len(p2) != 2 || p2[0].BBox.Y != cfg.Margins.Top {
		t.Fatalf("page 2 should start with the next block at the top margin, got %+v", p2)
	}
	if p2[1].BBox.Y != p2[0].BBox.Bottom()+cfg.BlockSpacing {
		t.Errorf("signature at %f, want %f", p2[1].BBox.Y, p2[0].BBox.Bottom()+cfg.BlockSpacing)
	}
}

func TestCompose_BlockSpacing(t *testing.T) {
	cfg := testConfig()
	cfg.BlockSpacing = 6
	cfg.PageSize = model.PageSize{Width: 595.28, Height: 800}
	cfg.Margins = model.Margins{Top: 120, Right: 50, Bottom: 120, Left: 50}
	c := newComposer(t, cfg)

	tests := []struct {
		name   string
		first  int
		second int
		gap    float64
		pages  int
	}{
		// 266 + 6 + 280 = 552 of 560
		{"room for the gap", 19, 20, 6, 1},
		// 280 + 280 = 560, the gap collapses
		{"gap collapses", 20, 20, 0, 1},
		// 280 + 294 > 560
		{"block moves on", 20, 21, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, _, err := c.Compose(newReport(model.Section{Blocks: []model.Block{lines(tt.first), lines(tt.second)}}))
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			if plan.TotalPages != tt.pages {
				t.Fatalf("TotalPages = %d, want %d", plan.TotalPages, tt.pages)
			}
			if tt.pages == 2 {
				if y := plan.Pages[1].Blocks[0].BBox.Y; y != cfg.Margins.Top {
					t.Errorf("moved block at %f, want the top margin", y)
				}
				return
			}
			blocks := plan.Pages[0].Blocks
			if got := blocks[1].BBox.Y - blocks[0].BBox.Bottom(); math.Abs(got-tt.gap) > 1e-9 {
				t.Errorf("gap = %f, want %f", got, tt.gap)
			}
		})
	}
}

// ============================================================================
// Property Tests
// ============================================================================

func TestCompose_PageCountProperty(t *testing.T) {
	cfg := testConfig()
	c := newComposer(t, cfg)

	for _, n := range []int{5, 17, 40, 97} {
		t.Run(fmt.Sprintf("%d paragraphs", n), func(t *testing.T) {
			var blocks []model.Block
			total := 0.0
			for i := 0; i < n; i++ {
				k := i%7 + 1
				blocks = append(blocks, lines(k))
				total += float64(k) * cfg.Body.LineHeight
			}
			if total <= cfg.UsableHeight() {
				t.Skip("content fits on one page")
			}

			plan, _, err := c.Compose(newReport(model.Section{Blocks: blocks}))
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}

			want := int(math.Ceil(total / cfg.UsableHeight()))
			if diff := plan.TotalPages - want; diff < -1 || diff > 1 {
				t.Errorf("TotalPages = %d, want %d ±1", plan.TotalPages, want)
			}
		})
	}
}

// Under the default configuration the title panel, block spacing and the
// automatic signature all count towards the total height.
func TestCompose_PageCountPropertyDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	c := newComposer(t, cfg)

	for _, n := range []int{5, 17, 40, 97} {
		t.Run(fmt.Sprintf("%d paragraphs", n), func(t *testing.T) {
			var blocks []model.Block
			for i := 0; i < n; i++ {
				blocks = append(blocks, lines(i%7+1))
			}

			plan, warnings, err := c.Compose(newReport(model.Section{Blocks: blocks}))
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}

			total := float64(plan.BlockCount()-1) * cfg.BlockSpacing
			for _, page := range plan.Pages {
				for _, b := range page.Blocks {
					total += b.BBox.Height
				}
			}
			want := int(math.Ceil(total / cfg.UsableHeight()))
			if diff := plan.TotalPages - want; diff < -1 || diff > 1 {
				t.Errorf("TotalPages = %d, want %d ±1", plan.TotalPages, want)
			}
		})
	}
}

func TestCompose_Containment(t *testing.T) {
	cfg := DefaultConfig()
	c := newComposer(t, cfg)

	plan, _, err := c.Compose(mixedReport(t))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if plan.TotalPages < 3 {
		t.Fatalf("expected a multi-page plan, got %d pages", plan.TotalPages)
	}

	content := cfg.ContentBox()
	const eps = 1e-6
	for _, page := range plan.Pages {
		for i, b := range page.Blocks {
			if !content.Encloses(b.BBox, eps) {
				t.Errorf("page %d block %d (%s) at %+v outside content %+v", page.Number(), i, b.Kind, b.BBox, content)
			}
			for _, txt := range b.Texts {
				if !b.BBox.Encloses(txt.BBox, eps) {
					t.Errorf("page %d block %d text %q outside its block", page.Number(), i, txt.Value)
				}
			}
			for _, f := range b.Frames {
				if !b.BBox.Encloses(f, eps) {
					t.Errorf("page %d block %d frame outside its block", page.Number(), i)
				}
			}
			if b.Image != nil && !b.BBox.Encloses(b.Image.BBox, eps) {
				t.Errorf("page %d block %d image outside its block", page.Number(), i)
			}
		}
	}
}

func TestCompose_Idempotent(t *testing.T) {
	c := newComposer(t, DefaultConfig())
	r := mixedReport(t)

	first, w1, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	second, w2, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("plans differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(w1, w2); diff != "" {
		t.Errorf("warnings differ (-first +second):\n%s", diff)
	}
}

func TestCompose_HeadersAndFooters(t *testing.T) {
	c := newComposer(t, DefaultConfig())

	plan, _, err := c.Compose(mixedReport(t))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(plan.Pages) != plan.TotalPages {
		t.Fatalf("len(Pages) = %d, TotalPages = %d", len(plan.Pages), plan.TotalPages)
	}

	for i, page := range plan.Pages {
		if page.Index != i {
			t.Errorf("page %d has index %d", i, page.Index)
		}
		if !page.HeaderStamped || page.Header == nil {
			t.Errorf("page %d header not stamped", i+1)
		}
		if !page.FooterStamped || page.Footer == nil {
			t.Fatalf("page %d footer not stamped", i+1)
		}
		if page.Footer.PageNumber != i+1 {
			t.Errorf("page %d footer number = %d", i+1, page.Footer.PageNumber)
		}
		if page.Footer.TotalPages != plan.TotalPages {
			t.Errorf("page %d footer total = %d, want %d", i+1, page.Footer.TotalPages, plan.TotalPages)
		}
		if len(page.Blocks) == 0 {
			t.Errorf("page %d is empty", i+1)
		}
	}
}

// ============================================================================
// Degradation Tests
// ============================================================================

func TestCompose_HeightCapped(t *testing.T) {
	cfg := testConfig()
	c := newComposer(t, cfg)

	r := newReport(model.Section{Blocks: []model.Block{
		lines(100),
		&model.ParagraphBlock{Text: "After"},
	}})

	plan, warnings, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(warnings) != 1 || warnings[0].Kind != HeightCapped {
		t.Fatalf("expected one HeightCapped warning, got %v", warnings)
	}
	// floor(661.89 / 14) = 47 lines fit
	if !strings.Contains(warnings[0].Message, "53 lines omitted") {
		t.Errorf("message = %q", warnings[0].Message)
	}

	capped := plan.Pages[0].Blocks[0]
	if capped.BBox.Height != cfg.UsableHeight() {
		t.Errorf("capped height = %f, want %f", capped.BBox.Height, cfg.UsableHeight())
	}
	if len(capped.Texts) != 47 {
		t.Errorf("kept %d lines, want 47", len(capped.Texts))
	}
	if plan.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", plan.TotalPages)
	}
}

func TestCompose_WarningsCarryLocation(t *testing.T) {
	c := newComposer(t, testConfig())

	r := newReport(
		model.Section{Blocks: []model.Block{lines(40)}},
		model.Section{Heading: "Links", Blocks: []model.Block{
			&model.LinkBlock{URL: "https://example.org", Label: "ok"},
			&model.LinkBlock{URL: "ftp://example.org", Label: "bad"},
		}},
	)

	_, warnings, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	w := warnings[0]
	if w.Kind != InvalidLink || w.Section != 1 || w.Block != 1 || w.Page != 1 {
		t.Errorf("warning = %+v", w)
	}
	if !strings.HasPrefix(w.String(), "page 1, section 2 block 2: invalid_link:") {
		t.Errorf("String() = %q", w.String())
	}
}

// ============================================================================
// Title and Signature Tests
// ============================================================================

func TestCompose_TitleAndAutoSignature(t *testing.T) {
	c := newComposer(t, DefaultConfig())
	r := newReport(model.Section{Heading: "Summary", Blocks: []model.Block{
		&model.ParagraphBlock{Text: "Nothing unusual."},
	}})

	plan, warnings, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	blocks := plan.Pages[0].Blocks
	// title, subtitle, case panel, section heading, paragraph, signature
	if len(blocks) != 6 {
		t.Fatalf("expected 6 blocks, got %d", len(blocks))
	}

	title := blocks[0]
	if title.Kind != model.BlockKindHeading || title.Texts[0].Value != r.Title || title.Texts[0].Align != model.AlignCenter {
		t.Errorf("first block should be the centred title, got %+v", title)
	}
	if blocks[1].Texts[0].Value != r.Subtitle {
		t.Errorf("second block = %q, want subtitle", blocks[1].Texts[0].Value)
	}
	panel := blocks[2]
	if panel.Kind != model.BlockKindKeyValue || panel.Texts[1].Value != r.CaseID {
		t.Errorf("case panel = %+v", panel)
	}
	if panel.Texts[3].Value != "2024-03-14 09:30 UTC" {
		t.Errorf("generated = %q", panel.Texts[3].Value)
	}
	if blocks[3].Texts[0].Value != "Summary" {
		t.Errorf("section heading = %q", blocks[3].Texts[0].Value)
	}

	sig := blocks[5]
	if sig.Kind != model.BlockKindSignature {
		t.Fatalf("last block = %s, want signature", sig.Kind)
	}
	if sig.Texts[0].Value != r.AuthorityName {
		t.Errorf("signature name = %q", sig.Texts[0].Value)
	}
}

func TestCompose_ExplicitSignatureNotDuplicated(t *testing.T) {
	c := newComposer(t, DefaultConfig())
	r := newReport(model.Section{Blocks: []model.Block{
		&model.ParagraphBlock{Text: "Closing remarks."},
		&model.SignatureBlock{Name: "Sgt. Lee", Role: "Supervisor"},
	}})

	plan, _, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	signatures := 0
	for _, page := range plan.Pages {
		for _, b := range page.Blocks {
			if b.Kind == model.BlockKindSignature {
				signatures++
			}
		}
	}
	if signatures != 1 {
		t.Errorf("found %d signature blocks, want 1", signatures)
	}
}

func TestCompose_Metadata(t *testing.T) {
	c := newComposer(t, testConfig())
	r := newReport(model.Section{Blocks: []model.Block{lines(1)}})

	plan, _, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if plan.DocumentID != model.DocumentID(r) {
		t.Errorf("DocumentID = %q", plan.DocumentID)
	}
	if plan.Meta.CaseID != r.CaseID || plan.Meta.Author != r.AuthorityName || !plan.Meta.GeneratedAt.Equal(generatedAt) {
		t.Errorf("Meta = %+v", plan.Meta)
	}
	if plan.PageSize != model.A4 {
		t.Errorf("PageSize = %+v", plan.PageSize)
	}
}

// ============================================================================
// Validation Tests
// ============================================================================

type strangeBlock struct{}

func (strangeBlock) Kind() model.BlockKind { return model.BlockKind(99) }

// impostorBlock claims a built-in kind without being its model type
type impostorBlock struct{}

func (impostorBlock) Kind() model.BlockKind { return model.BlockKindParagraph }

func TestCompose_Validation(t *testing.T) {
	c := newComposer(t, testConfig())

	tests := []struct {
		name     string
		report   *model.Report
		problems []string
	}{
		{
			name:     "nil report",
			report:   nil,
			problems: []string{"report is nil"},
		},
		{
			name: "missing metadata",
			report: &model.Report{Sections: []model.Section{
				{Blocks: []model.Block{lines(1)}},
			}},
			problems: []string{"title is required", "case ID is required", "generation time is required"},
		},
		{
			name:     "no sections",
			report:   newReport(),
			problems: []string{"at least one section is required"},
		},
		{
			name:     "empty sections",
			report:   newReport(model.Section{Heading: "A"}, model.Section{Heading: "B"}),
			problems: []string{"at least one block is required"},
		},
		{
			name:     "nil block",
			report:   newReport(model.Section{Blocks: []model.Block{lines(1), nil, (*model.ImageBlock)(nil)}}),
			problems: []string{"section 1 block 2 is nil", "section 1 block 3 is nil"},
		},
		{
			name:     "unsupported block",
			report:   newReport(model.Section{Blocks: []model.Block{strangeBlock{}}}),
			problems: []string{"section 1 block 1 has unsupported kind Unknown"},
		},
		{
			name:     "kind without its type",
			report:   newReport(model.Section{Blocks: []model.Block{lines(1), impostorBlock{}}}),
			problems: []string{"section 1 block 2 is layout.impostorBlock, not a Paragraph block"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, _, err := c.Compose(tt.report)
			if plan != nil {
				t.Error("expected no plan")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if diff := cmp.Diff(tt.problems, verr.Problems); diff != "" {
				t.Errorf("problems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// stubRenderer measures every block as one empty line
type stubRenderer struct{}

func (stubRenderer) Measure(b model.Block, width float64) Measurement {
	return Measurement{Kind: b.Kind(), Width: width, Height: 14}
}

func TestCompose_CustomRendererAcceptsOwnTypes(t *testing.T) {
	c := newComposer(t, testConfig(), WithRenderer(model.BlockKindParagraph, stubRenderer{}))

	plan, _, err := c.Compose(newReport(model.Section{Blocks: []model.Block{impostorBlock{}}}))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if plan.BlockCount() != 1 {
		t.Errorf("BlockCount() = %d, want 1", plan.BlockCount())
	}
}

func TestRenderers_WrongBlockType(t *testing.T) {
	for kind, r := range defaultRenderers(DefaultConfig()) {
		t.Run(kind.String(), func(t *testing.T) {
			m := r.Measure(impostorBlock{}, 200)
			if !m.Degraded || m.Height != 0 || len(m.Texts) != 0 {
				t.Errorf("Measure(wrong type) = %+v, want an empty degraded measurement", m)
			}
		})
	}
}

func TestCompose_StampWarnings(t *testing.T) {
	cfg := testConfig()
	cfg.Letterhead = []string{"STATE POLICE", strings.Repeat("Forensics ", 60)}
	c := newComposer(t, cfg)

	plan, warnings, err := c.Compose(newReport(model.Section{Blocks: []model.Block{lines(1)}}))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	w := warnings[0]
	if w.Kind != ValueTruncated || w.Section != -1 || w.Page != 1 {
		t.Errorf("warning = %+v", w)
	}
	if !strings.Contains(w.String(), "letterhead line 2") {
		t.Errorf("String() = %q", w.String())
	}
	if !strings.HasSuffix(plan.Pages[0].Header.Texts[1].Value, "\u2026") {
		t.Errorf("letterhead line = %q, want an ellipsis", plan.Pages[0].Header.Texts[1].Value)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Problems: []string{"title is required", "case ID is required"}}
	if got := err.Error(); got != "invalid report: title is required; case ID is required" {
		t.Errorf("Error() = %q", got)
	}
}

// ============================================================================
// Overflow Invariant Tests
// ============================================================================

// brokenRenderer reports a height no page can hold
type brokenRenderer struct{}

func (brokenRenderer) Measure(b model.Block, width float64) Measurement {
	return Measurement{Kind: b.Kind(), Width: width, Height: math.NaN()}
}

func TestCompose_OverflowInvariant(t *testing.T) {
	c := newComposer(t, testConfig(), WithRenderer(model.BlockKindLink, brokenRenderer{}))

	tests := []struct {
		name   string
		blocks []model.Block
		page   int
	}{
		{"first block", []model.Block{&model.LinkBlock{URL: "https://example.org"}}, 1},
		{"after a break", []model.Block{lines(3), &model.LinkBlock{URL: "https://example.org"}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, _, err := c.Compose(newReport(model.Section{Blocks: tt.blocks}))
			if plan != nil {
				t.Error("expected no plan on overflow")
			}
			if !errors.Is(err, ErrOverflowInvariant) {
				t.Fatalf("expected ErrOverflowInvariant, got %v", err)
			}
			var oerr *OverflowError
			if !errors.As(err, &oerr) {
				t.Fatalf("expected *OverflowError, got %T", err)
			}
			if oerr.Kind != model.BlockKindLink || oerr.Page != tt.page {
				t.Errorf("OverflowError = %+v", oerr)
			}
		})
	}
}

// ============================================================================
// Composer Tests
// ============================================================================

func TestNewComposer_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Margins.Top = 900

	c, err := NewComposer(cfg)
	if c != nil {
		t.Error("expected nil composer")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewComposer_ConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	c := newComposer(t, cfg)

	cfg.Letterhead[0] = "CHANGED"
	if c.Config().Letterhead[0] == "CHANGED" {
		t.Error("composer shares the caller's letterhead slice")
	}

	got := c.Config()
	got.Letterhead[0] = "CHANGED"
	if c.Config().Letterhead[0] == "CHANGED" {
		t.Error("Config() exposes the composer's letterhead slice")
	}
}

func TestCompose_WithMeasurer(t *testing.T) {
	cfg := testConfig()
	r := newReport(model.Section{Blocks: []model.Block{
		&model.ParagraphBlock{Text: strings.Repeat("word ", 200)},
	}})

	narrow := newComposer(t, cfg)
	wide := newComposer(t, cfg, WithMeasurer(fixedMeasurer{perRune: 1}))

	p1, _, err := narrow.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	p2, _, err := wide.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	h1 := p1.Pages[0].Blocks[0].BBox.Height
	h2 := p2.Pages[0].Blocks[0].BBox.Height
	if h2 >= h1 {
		t.Errorf("a narrower measurer should produce fewer lines: %f vs %f", h2, h1)
	}
}

// fixedMeasurer gives every rune the same width regardless of size
type fixedMeasurer struct{ perRune float64 }

func (m fixedMeasurer) Width(s string, size float64) float64 {
	return float64(len([]rune(s))) * m.perRune
}

func TestCompose_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newComposer(t, testConfig(), WithLogger(zap.New(core)))

	r := newReport(model.Section{Blocks: []model.Block{
		lines(40),
		lines(10),
		&model.ImageBlock{Data: []byte("bad")},
	}})
	if _, _, err := c.Compose(r); err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	degraded := logs.FilterMessage("Block degraded")
	if degraded.Len() != 1 {
		t.Fatalf("expected one degradation log, got %d", degraded.Len())
	}
	entry := degraded.All()[0]
	if entry.Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entry.Level)
	}
	if entry.ContextMap()["kind"] != "image_undecodable" {
		t.Errorf("kind field = %v", entry.ContextMap()["kind"])
	}

	// idle -> laying out, breaking, back, finalizing, done
	if n := logs.FilterMessage("Layout state").Len(); n != 5 {
		t.Errorf("expected 5 state transitions, got %d", n)
	}
}

func TestCompose_Concurrent(t *testing.T) {
	c := newComposer(t, DefaultConfig())
	r := mixedReport(t)

	want, _, err := c.Compose(r)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	var wg sync.WaitGroup
	plans := make([]*model.LayoutPlan, 8)
	errs := make([]error, 8)
	for i := range plans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plans[i], _, errs[i] = c.Compose(r)
		}(i)
	}
	wg.Wait()

	for i := range plans {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if diff := cmp.Diff(want, plans[i]); diff != "" {
			t.Errorf("goroutine %d produced a different plan:\n%s", i, diff)
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "idle"},
		{StateLayingOutSection, "laying_out_section"},
		{StateBreaking, "breaking"},
		{StateFinalizing, "finalizing"},
		{StateDone, "done"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
