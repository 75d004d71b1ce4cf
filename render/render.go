// Package render turns a layout plan into bytes: a PDF document, a Markdown
// preview for review, or the plan itself as JSON.
//
// Renderers never re-flow content. Every coordinate comes from the plan, so
// two renderings of the same plan are identical.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/model"
)

var (
	// ErrUnknownFormat is returned by ForFormat for unsupported output names.
	ErrUnknownFormat = errors.New("render: unknown output format")
	// ErrEmptyPlan is returned when a plan is nil or has no pages.
	ErrEmptyPlan = errors.New("render: plan has no pages")
)

// Renderer writes a layout plan to w in one output format.
type Renderer interface {
	// Render writes plan to w. The plan is not modified.
	Render(w io.Writer, plan *model.LayoutPlan) error

	// Format returns the output format produced by the renderer.
	Format() format.Format
}

// ForFormat returns the renderer for an output name such as "pdf", "md" or
// "json".
func ForFormat(name string) (Renderer, error) {
	switch f := format.Parse(name); f {
	case format.PDF:
		return NewPDF(), nil
	case format.Markdown:
		return NewMarkdown(), nil
	case format.JSON:
		return NewJSON(WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func checkPlan(plan *model.LayoutPlan) error {
	if plan == nil || len(plan.Pages) == 0 {
		return ErrEmptyPlan
	}
	return nil
}
