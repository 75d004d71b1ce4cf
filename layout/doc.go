// Package layout paginates case reports into layout plans.
//
// The composer walks a report's sections in order, measures every block
// against the column width, breaks pages when a block does not fit and
// places each block whole on exactly one page. Every page is stamped with
// the letterhead when it is created; footers carrying "Page X of N" are
// stamped in a final pass once the page count is known.
//
// # Basic Usage
//
//	c, err := layout.NewComposer(layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	plan, warnings, err := c.Compose(report)
//
// # Block Renderers
//
// Each block kind has a BlockRenderer that measures the block and returns
// its drawing primitives relative to the block origin:
//
//   - Headings and paragraphs wrap to the column width
//   - Key/value grids have a fixed row height; long values are ellipsized
//   - Images are scaled into a fixed box; undecodable data becomes one line
//     of fallback text
//   - Links are a single line with a hyperlink annotation
//   - Signatures are a fixed-height centred block
//
// # Degradation
//
// Recoverable problems never abort composition. They are reported as
// Warning values next to a complete plan. A block taller than a page is
// capped to the usable height and reported as HeightCapped.
//
// # Text Measurement
//
// By default text is measured with an average character width (see
// text.AverageMeasurer). Config.Measurer or WithMeasurer select precise
// metrics such as font.StandardMeasurer.
package layout
