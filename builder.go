package cerco

import (
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/lgodoyplay/cerco-sub000/font"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/render"
	"github.com/lgodoyplay/cerco-sub000/text"
)

// ErrInvalidOption is returned by terminal operations when a configuration
// method received an unusable value.
var ErrInvalidOption = errors.New("cerco: invalid option")

// Builder provides a fluent interface for composing and rendering a report.
// Each configuration method returns a new Builder instance, making it
// safe for concurrent use and allowing method chaining.
type Builder struct {
	report *model.Report

	// Configuration
	options buildOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Builder with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (b *Builder) clone() *Builder {
	return &Builder{
		report:  b.report,
		options: b.options.clone(),
		err:     b.err,
	}
}

// fail records the first configuration error.
func (b *Builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: "+format, append([]any{ErrInvalidOption}, args...)...)
	}
}

// ============================================================================
// Configuration Methods (return new Builder instance)
// ============================================================================

// Config replaces the whole layout configuration. Later configuration
// methods adjust the replacement.
//
// Example:
//
//	cfg := layout.DefaultConfig()
//	cfg.BlockSpacing = 10
//	plan, _, err := cerco.New(report).Config(cfg).Plan()
func (b *Builder) Config(cfg layout.Config) *Builder {
	newB := b.clone()
	newB.options.config = cfg
	if cfg.Letterhead != nil {
		newB.options.config.Letterhead = append([]string(nil), cfg.Letterhead...)
	}
	return newB
}

// PageSize sets the page size in points.
//
// Example:
//
//	plan, _, err := cerco.New(report).PageSize(model.Letter).Plan()
func (b *Builder) PageSize(size model.PageSize) *Builder {
	newB := b.clone()
	if !positive(size.Width) || !positive(size.Height) {
		newB.fail("page size %.2fx%.2f", size.Width, size.Height)
		return newB
	}
	newB.options.config.PageSize = size
	return newB
}

// Margins sets the four page margins in points.
//
// Example:
//
//	plan, _, err := cerco.New(report).
//	    Margins(model.Margins{Top: 100, Right: 40, Bottom: 60, Left: 40}).
//	    Plan()
func (b *Builder) Margins(m model.Margins) *Builder {
	newB := b.clone()
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		newB.fail("negative margin %+v", m)
		return newB
	}
	newB.options.config.Margins = m
	return newB
}

// Letterhead replaces the lines stamped at the top of every page. Calling
// it with no lines removes the letterhead.
//
// Example:
//
//	plan, _, err := cerco.New(report).Letterhead("STATE POLICE", "Forensics Unit").Plan()
func (b *Builder) Letterhead(lines ...string) *Builder {
	newB := b.clone()
	newB.options.config.Letterhead = append([]string{}, lines...)
	return newB
}

// FooterText replaces the confidentiality line of the footer.
func (b *Builder) FooterText(s string) *Builder {
	newB := b.clone()
	newB.options.config.FooterText = s
	return newB
}

// BlockSpacing sets the vertical gap between blocks on the same page.
func (b *Builder) BlockSpacing(pt float64) *Builder {
	newB := b.clone()
	if pt < 0 || math.IsNaN(pt) || math.IsInf(pt, 0) {
		newB.fail("block spacing %v", pt)
		return newB
	}
	newB.options.config.BlockSpacing = pt
	return newB
}

// Measurer selects how text is measured for wrapping.
//
// Example:
//
//	plan, _, err := cerco.New(report).Measurer(font.NewHelveticaMeasurer()).Plan()
func (b *Builder) Measurer(m text.Measurer) *Builder {
	newB := b.clone()
	newB.options.config.Measurer = m
	return newB
}

// Logger sets the logger used during composition. Nothing is logged by
// default.
func (b *Builder) Logger(l *zap.Logger) *Builder {
	newB := b.clone()
	newB.options.logger = l
	return newB
}

// Renderer overrides how blocks of one kind are measured.
func (b *Builder) Renderer(kind model.BlockKind, r layout.BlockRenderer) *Builder {
	newB := b.clone()
	if newB.options.renderers == nil {
		newB.options.renderers = make(map[model.BlockKind]layout.BlockRenderer)
	}
	newB.options.renderers[kind] = r
	return newB
}

// WithoutTitle omits the title lines at the top of the first page.
func (b *Builder) WithoutTitle() *Builder {
	newB := b.clone()
	newB.options.config.ShowTitle = false
	return newB
}

// WithoutSignature stops the composer from appending a signature block for
// the report's authority.
func (b *Builder) WithoutSignature() *Builder {
	newB := b.clone()
	newB.options.config.AutoSignature = false
	return newB
}

// PDFOptions adds options for the PDF backend used by PDF().
//
// Example:
//
//	_, err := cerco.New(report).PDFOptions(render.WithFontFamily("Times")).PDF(w)
func (b *Builder) PDFOptions(opts ...render.PDFOption) *Builder {
	newB := b.clone()
	newB.options.pdf = append(newB.options.pdf, opts...)
	return newB
}

// ============================================================================
// Terminal Methods
// ============================================================================

// Plan lays out the report and returns the resulting plan.
//
// Returns the plan, any warnings encountered during layout, and an error if
// the report or configuration is invalid. Warnings indicate content that was
// replaced or shortened; the plan is still complete.
//
// Example:
//
//	plan, warnings, err := cerco.New(report).Plan()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", cerco.FormatWarnings(warnings))
//	}
func (b *Builder) Plan() (*model.LayoutPlan, []Warning, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	c, err := layout.NewComposer(b.options.config, b.options.composerOptions()...)
	if err != nil {
		return nil, nil, err
	}
	return c.Compose(b.report)
}

// Render lays out the report and writes it with r.
func (b *Builder) Render(w io.Writer, r render.Renderer) ([]Warning, error) {
	plan, warnings, err := b.Plan()
	if err != nil {
		return nil, err
	}
	if err := r.Render(w, plan); err != nil {
		return warnings, fmt.Errorf("render %s: %w", r.Format(), err)
	}
	return warnings, nil
}

// PDF lays out the report and writes it to w as a PDF document. Unless a
// measurer was set, text is measured with the metrics of the PDF font so
// that drawn lines stay inside the margins.
//
// Example:
//
//	f, _ := os.Create("report.pdf")
//	defer f.Close()
//	warnings, err := cerco.New(report).PDF(f)
func (b *Builder) PDF(w io.Writer) ([]Warning, error) {
	r := render.NewPDF(b.options.pdf...)
	if b.options.config.Measurer == nil {
		b = b.Measurer(font.NewFamilyMeasurer(r.FontFamily()))
	}
	return b.Render(w, r)
}

// Markdown lays out the report and writes a page-by-page preview to w.
func (b *Builder) Markdown(w io.Writer) ([]Warning, error) {
	return b.Render(w, render.NewMarkdown())
}

// JSON lays out the report and writes the plan to w as indented JSON.
func (b *Builder) JSON(w io.Writer) ([]Warning, error) {
	return b.Render(w, render.NewJSON(render.WithPrettyPrint()))
}

// PageCount lays out the report and returns the number of pages it needs.
func (b *Builder) PageCount() (int, error) {
	plan, _, err := b.Plan()
	if err != nil {
		return 0, err
	}
	return plan.TotalPages, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
