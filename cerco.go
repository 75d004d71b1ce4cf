// Package cerco composes case reports into paginated, print-ready documents.
//
// Basic usage:
//
//	plan, warnings, err := cerco.Compose(report)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", cerco.FormatWarnings(warnings))
//	}
//
// With options:
//
//	warnings, err := cerco.New(report).
//	    PageSize(model.Letter).
//	    Letterhead("STATE POLICE", "Forensics Unit").
//	    FooterText("RESTRICTED").
//	    PDF(w)
//
// For advanced use cases, the lower-level layout and render packages are
// also available.
package cerco

import (
	"strings"

	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/model"
)

// New returns a Builder for fluent configuration of one report.
//
// Example:
//
//	plan, warnings, err := cerco.New(report).Plan()
func New(report *model.Report) *Builder {
	return &Builder{
		report:  report,
		options: defaultOptions(),
	}
}

// Compose lays out report with the default configuration.
// It is a shorthand for New(report).Plan().
//
// Example:
//
//	plan, warnings, err := cerco.Compose(report)
func Compose(report *model.Report) (*model.LayoutPlan, []Warning, error) {
	return New(report).Plan()
}

// Warning is a recoverable degradation reported alongside a usable plan.
type Warning = layout.Warning

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	renderer := cerco.Must(render.ForFormat("pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustPlan is a helper that wraps a call to Plan() or Compose() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	plan := cerco.MustPlan(cerco.Compose(report))
func MustPlan[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")

// FileName returns the conventional output file name for a case, such as
// "report-2024-0117.pdf".
func FileName(caseID string, f format.Format) string {
	return "report-" + fileNameReplacer.Replace(strings.TrimSpace(caseID)) + f.Extension()
}
