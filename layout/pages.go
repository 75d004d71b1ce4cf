package layout

import (
	"fmt"
	"strings"

	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/text"
)

// footerTextGap is the space between the footer rule and its text
const footerTextGap = 4

// PageManager owns the pages of one composition. Every page gets the
// letterhead when it is created; footers wait for Finalize because they
// carry the total page count.
type PageManager struct {
	cfg    Config
	m      text.Measurer
	caseID string

	header   model.Stamp
	pages    []*model.Page
	final    bool
	warnings []Warning

	// footerCut is set once a footer reference has been shortened
	footerCut bool
}

// NewPageManager creates a page manager for one report
func NewPageManager(cfg Config, caseID string) *PageManager {
	pm := &PageManager{
		cfg:    cfg,
		m:      cfg.measurer(),
		caseID: strings.TrimSpace(caseID),
	}
	pm.header = pm.buildHeader()
	return pm
}

// NewPage appends a page and stamps its header
func (pm *PageManager) NewPage() *model.Page {
	page := &model.Page{Index: len(pm.pages)}
	header := cloneStamp(pm.header)
	page.Header = &header
	page.HeaderStamped = true
	pm.pages = append(pm.pages, page)
	return page
}

// Current returns the last page, or nil before the first NewPage
func (pm *PageManager) Current() *model.Page {
	if len(pm.pages) == 0 {
		return nil
	}
	return pm.pages[len(pm.pages)-1]
}

// Pages returns the pages created so far
func (pm *PageManager) Pages() []*model.Page {
	return pm.pages
}

// Place adds a placed block to the current page
func (pm *PageManager) Place(pb model.PlacedBlock) error {
	page := pm.Current()
	if page == nil {
		return fmt.Errorf("layout: block placed before the first page")
	}
	if !page.HeaderStamped {
		return fmt.Errorf("layout: block placed on page %d before its header", page.Number())
	}
	if pm.final {
		return fmt.Errorf("layout: block placed after finalize")
	}
	page.Blocks = append(page.Blocks, pb)
	return nil
}

// Warnings returns the degradations of the header and footer stamps. Each
// stamp problem is reported once, on the first page it affects.
func (pm *PageManager) Warnings() []Warning {
	return pm.warnings
}

func (pm *PageManager) stampWarning(page int, format string, args ...interface{}) {
	pm.warnings = append(pm.warnings, Warning{
		Kind:    ValueTruncated,
		Section: -1,
		Block:   -1,
		Page:    page,
		Message: fmt.Sprintf(format, args...),
	})
}

// Finalize stamps every footer with the final page count and returns it.
// It may run only once.
func (pm *PageManager) Finalize() (int, error) {
	if pm.final {
		return 0, fmt.Errorf("layout: pages already finalized")
	}
	total := len(pm.pages)
	for _, page := range pm.pages {
		if page.FooterStamped {
			return 0, fmt.Errorf("layout: footer of page %d stamped twice", page.Number())
		}
		footer := pm.buildFooter(page.Number(), total)
		page.Footer = &footer
		page.FooterStamped = true
	}
	pm.final = true
	return total, nil
}

// PageLabel returns the footer page label
func PageLabel(number, total int) string {
	return fmt.Sprintf("Page %d of %d", number, total)
}

func (pm *PageManager) buildHeader() model.Stamp {
	cfg := pm.cfg
	box := cfg.ContentBox()
	lh := cfg.Stamp.LineHeight

	stamp := model.Stamp{
		Type: model.Header,
		BBox: model.BBox{X: box.X, Y: cfg.HeaderTop, Width: box.Width},
	}
	if len(cfg.Letterhead) == 0 {
		return stamp
	}

	for i, line := range cfg.Letterhead {
		style := model.TextStyle{Size: cfg.Stamp.Size}
		if i == 0 {
			style.Bold = true
		}
		fitted, cut := ellipsize(line, box.Width, style.Size, pm.m, style.Bold)
		if cut {
			pm.stampWarning(1, "letterhead line %d shortened to fit the page width", i+1)
		}
		stamp.Texts = append(stamp.Texts, model.Text{
			Value: fitted,
			BBox:  model.BBox{X: box.X, Y: cfg.HeaderTop + float64(i)*lh, Width: box.Width, Height: lh},
			Style: style,
			Align: model.AlignCenter,
		})
	}

	ruleY := cfg.HeaderTop + float64(len(cfg.Letterhead))*lh + headerRuleGap
	stamp.Rules = []model.Rule{{
		Start: model.Point{X: box.Left(), Y: ruleY},
		End:   model.Point{X: box.Right(), Y: ruleY},
		Width: 1,
	}}
	stamp.BBox.Height = ruleY - cfg.HeaderTop
	return stamp
}

func (pm *PageManager) buildFooter(number, total int) model.Stamp {
	cfg := pm.cfg
	box := cfg.ContentBox()
	lh := cfg.Stamp.LineHeight
	ruleY := box.Bottom() + cfg.FooterOffset
	textY := ruleY + footerTextGap
	style := model.TextStyle{Size: cfg.Stamp.Size, Color: mutedColor}

	label := PageLabel(number, total)
	labelW := pm.m.Width(label, style.Size)

	reference := cfg.FooterText
	if pm.caseID != "" {
		if reference != "" {
			reference += " | "
		}
		reference += "Ref. " + pm.caseID
	}
	refW := box.Width - labelW - 2*cfg.Stamp.Size
	if refW < 0 {
		refW = 0
	}
	reference, cut := ellipsize(reference, refW, style.Size, pm.m, false)
	if cut && !pm.footerCut {
		pm.footerCut = true
		pm.stampWarning(number, "footer reference shortened to fit beside %q", label)
	}

	return model.Stamp{
		Type: model.Footer,
		BBox: model.BBox{X: box.X, Y: ruleY, Width: box.Width, Height: footerTextGap + lh},
		Texts: []model.Text{
			{
				Value: reference,
				BBox:  model.BBox{X: box.X, Y: textY, Width: refW, Height: lh},
				Style: style,
				Align: model.AlignLeft,
			},
			{
				Value: label,
				BBox:  model.BBox{X: box.X, Y: textY, Width: box.Width, Height: lh},
				Style: style,
				Align: model.AlignRight,
			},
		},
		Rules: []model.Rule{{
			Start: model.Point{X: box.Left(), Y: ruleY},
			End:   model.Point{X: box.Right(), Y: ruleY},
			Width: 0.5,
		}},
		PageNumber: number,
		TotalPages: total,
	}
}

func cloneStamp(s model.Stamp) model.Stamp {
	s.Texts = append([]model.Text(nil), s.Texts...)
	s.Rules = append([]model.Rule(nil), s.Rules...)
	return s
}
