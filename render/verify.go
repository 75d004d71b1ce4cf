package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrPageMismatch is returned by VerifyPDF when the document page count
// differs from the plan.
var ErrPageMismatch = errors.New("render: page count mismatch")

// CountPages parses and validates a PDF document and returns its page count.
func CountPages(r io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(r, conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}

// VerifyPDF checks that r is a valid PDF with exactly want pages.
func VerifyPDF(r io.ReadSeeker, want int) error {
	got, err := CountPages(r)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: document has %d pages, plan has %d", ErrPageMismatch, got, want)
	}
	return nil
}
