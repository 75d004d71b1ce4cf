package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lgodoyplay/cerco-sub000/model"
)

var (
	// ErrInvalidReport is wrapped by every ValidationError
	ErrInvalidReport = errors.New("layout: invalid report")

	// ErrOverflowInvariant is wrapped by OverflowError. It signals a defect
	// in measurement or capping, never a data problem.
	ErrOverflowInvariant = errors.New("layout: overflow invariant violated")
)

// ValidationError lists every structural problem found in a report.
// Composition stops before any page is created.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid report: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidReport
}

// OverflowError reports a block that did not fit on a freshly started page
type OverflowError struct {
	Section   int
	Block     int
	Kind      model.BlockKind
	Page      int
	Height    float64
	Available float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: %s block %d of section %d needs %.2fpt but page %d has %.2fpt",
		ErrOverflowInvariant, e.Kind, e.Block, e.Section, e.Height, e.Page, e.Available)
}

func (e *OverflowError) Unwrap() error {
	return ErrOverflowInvariant
}
