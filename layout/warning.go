package layout

import "fmt"

// WarningKind classifies a recoverable rendering problem
type WarningKind int

const (
	// ImageUndecodable means image data was replaced by fallback text
	ImageUndecodable WarningKind = iota + 1
	// HeightCapped means a block was taller than a page and lost content
	HeightCapped
	// ValueTruncated means text was shortened with an ellipsis to fit its cell
	ValueTruncated
	// InvalidLink means a link target was rendered as plain text
	InvalidLink
)

func (k WarningKind) String() string {
	switch k {
	case ImageUndecodable:
		return "image_undecodable"
	case HeightCapped:
		return "height_capped"
	case ValueTruncated:
		return "value_truncated"
	case InvalidLink:
		return "invalid_link"
	default:
		return "unknown"
	}
}

// Warning records a degradation that was resolved with fallback content.
// The plan it accompanies is complete and usable.
type Warning struct {
	Kind WarningKind

	// Section and Block index the source block in Report.Sections. Section
	// is -1 for blocks the composer adds itself (title, signature) and Block
	// is -1 for a section heading.
	Section int
	Block   int

	// Page is the 1-indexed page the block was placed on
	Page int

	Message string
}

func (w Warning) String() string {
	loc := fmt.Sprintf("section %d block %d", w.Section+1, w.Block+1)
	switch {
	case w.Section < 0:
		loc = "document"
	case w.Block < 0:
		loc = fmt.Sprintf("section %d heading", w.Section+1)
	}
	return fmt.Sprintf("page %d, %s: %s: %s", w.Page, loc, w.Kind, w.Message)
}
