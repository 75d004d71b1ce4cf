package model

// BlockKind represents the type of report block
type BlockKind int

const (
	BlockKindUnknown BlockKind = iota
	BlockKindHeading
	BlockKindParagraph
	BlockKindKeyValue
	BlockKindImage
	BlockKindLink
	BlockKindSignature
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindHeading:
		return "Heading"
	case BlockKindParagraph:
		return "Paragraph"
	case BlockKindKeyValue:
		return "KeyValue"
	case BlockKindImage:
		return "Image"
	case BlockKindLink:
		return "Link"
	case BlockKindSignature:
		return "Signature"
	default:
		return "Unknown"
	}
}

// Block is the interface for all report content blocks
type Block interface {
	Kind() BlockKind
}

// TextBlock is an interface for blocks carrying a single run of text
type TextBlock interface {
	Block
	GetText() string
}

// HeadingBlock is a heading line. Level 1 is the largest; zero means 1.
type HeadingBlock struct {
	Text  string
	Level int
}

func (h *HeadingBlock) Kind() BlockKind { return BlockKindHeading }
func (h *HeadingBlock) GetText() string { return h.Text }

// ParagraphBlock is body text. Line breaks in Text are kept; light rich-text
// markup is reduced to plain text before wrapping.
type ParagraphBlock struct {
	Text string
}

func (p *ParagraphBlock) Kind() BlockKind { return BlockKindParagraph }
func (p *ParagraphBlock) GetText() string { return p.Text }

// KeyValue is one row of a KeyValueBlock
type KeyValue struct {
	Label string
	Value string
}

// KeyValueBlock is a bordered two-column grid, typically a case metadata panel
type KeyValueBlock struct {
	Pairs []KeyValue
}

func (kv *KeyValueBlock) Kind() BlockKind { return BlockKindKeyValue }

// ImageBlock carries encoded raster data (PNG, JPEG, GIF, BMP, TIFF or WebP).
// FallbackText replaces the image when the data cannot be decoded.
type ImageBlock struct {
	Data         []byte
	Caption      string
	FallbackText string
}

func (i *ImageBlock) Kind() BlockKind { return BlockKindImage }

// LinkBlock is a single line with a hyperlink
type LinkBlock struct {
	URL   string
	Label string
}

func (l *LinkBlock) Kind() BlockKind { return BlockKindLink }
func (l *LinkBlock) GetText() string {
	if l.Label != "" {
		return l.Label
	}
	return l.URL
}

// SignatureBlock is the signing authority block placed near the document end
type SignatureBlock struct {
	Name       string
	Role       string
	Identifier string
}

func (s *SignatureBlock) Kind() BlockKind { return BlockKindSignature }
