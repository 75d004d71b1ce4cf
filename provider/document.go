package provider

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lgodoyplay/cerco-sub000/model"
)

// Block keys of the report document
const (
	keyHeading   = "heading"
	keyParagraph = "paragraph"
	keyKeyValues = "key_values"
	keyImage     = "image"
	keyLink      = "link"
	keySignature = "signature"
)

type document struct {
	Title       string       `yaml:"title"`
	Subtitle    string       `yaml:"subtitle,omitempty"`
	CaseID      string       `yaml:"case_id"`
	GeneratedAt time.Time    `yaml:"generated_at"`
	Authority   authorityDoc `yaml:"authority,omitempty"`
	Sections    []sectionDoc `yaml:"sections"`
}

type authorityDoc struct {
	Name string `yaml:"name,omitempty"`
	Role string `yaml:"role,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

type sectionDoc struct {
	Heading string     `yaml:"heading,omitempty"`
	Blocks  []blockDoc `yaml:"blocks"`
}

type headingDoc struct {
	Text  string `yaml:"text"`
	Level int    `yaml:"level,omitempty"`
}

type keyValueDoc struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type imageDoc struct {
	Data     string `yaml:"data,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Caption  string `yaml:"caption,omitempty"`
	Fallback string `yaml:"fallback,omitempty"`
}

type linkDoc struct {
	URL   string `yaml:"url"`
	Label string `yaml:"label,omitempty"`
}

type signatureDoc struct {
	Name string `yaml:"name"`
	Role string `yaml:"role,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// blockDoc is a single-key map naming the block kind:
//
//	- paragraph: Entry was forced through the rear door.
//	- link: {url: https://example.org, label: Evidence}
type blockDoc struct {
	Kind string

	Heading   headingDoc
	Paragraph string
	KeyValues []keyValueDoc
	Image     imageDoc
	Link      linkDoc
	Signature signatureDoc
}

func (b *blockDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: block must be a map with exactly one key", node.Line)
	}
	key, value := node.Content[0], node.Content[1]

	var err error
	switch b.Kind = key.Value; b.Kind {
	case keyHeading:
		if value.Kind == yaml.ScalarNode {
			b.Heading = headingDoc{Text: value.Value}
			return nil
		}
		err = value.Decode(&b.Heading)
	case keyParagraph:
		err = value.Decode(&b.Paragraph)
	case keyKeyValues:
		err = value.Decode(&b.KeyValues)
	case keyImage:
		err = value.Decode(&b.Image)
	case keyLink:
		if value.Kind == yaml.ScalarNode {
			b.Link = linkDoc{URL: value.Value}
			return nil
		}
		err = value.Decode(&b.Link)
	case keySignature:
		err = value.Decode(&b.Signature)
	default:
		return fmt.Errorf("line %d: unknown block kind %q", key.Line, key.Value)
	}
	if err != nil {
		return fmt.Errorf("line %d: %s: %w", key.Line, b.Kind, err)
	}
	return nil
}

func (b blockDoc) MarshalYAML() (interface{}, error) {
	var v interface{}
	switch b.Kind {
	case keyHeading:
		v = b.Heading
	case keyParagraph:
		v = b.Paragraph
	case keyKeyValues:
		v = b.KeyValues
	case keyImage:
		v = b.Image
	case keyLink:
		v = b.Link
	case keySignature:
		v = b.Signature
	default:
		return nil, fmt.Errorf("unknown block kind %q", b.Kind)
	}
	return map[string]interface{}{b.Kind: v}, nil
}

// DecodeOption configures Decode.
type DecodeOption func(*decoder)

type decoder struct {
	baseDir string
}

// WithBaseDir resolves relative image paths against dir instead of the
// working directory.
func WithBaseDir(dir string) DecodeOption {
	return func(d *decoder) {
		d.baseDir = dir
	}
}

// Decode reads one YAML report document.
//
// Image blocks carry either inline base64 data or a path to an image file.
// An image file that cannot be read leaves the block without data, so the
// composer replaces it with its fallback text.
func Decode(r io.Reader, opts ...DecodeOption) (*model.Report, error) {
	d := &decoder{}
	for _, opt := range opts {
		opt(d)
	}

	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return d.report(&doc)
}

func (d *decoder) report(doc *document) (*model.Report, error) {
	r := &model.Report{
		Title:         doc.Title,
		Subtitle:      doc.Subtitle,
		CaseID:        doc.CaseID,
		GeneratedAt:   doc.GeneratedAt.UTC(),
		AuthorityName: doc.Authority.Name,
		AuthorityRole: doc.Authority.Role,
		AuthorityID:   doc.Authority.ID,
		Sections:      make([]model.Section, 0, len(doc.Sections)),
	}

	for si, s := range doc.Sections {
		section := model.Section{Heading: s.Heading, Blocks: make([]model.Block, 0, len(s.Blocks))}
		for bi, b := range s.Blocks {
			block, err := d.block(b)
			if err != nil {
				return nil, fmt.Errorf("%w: section %d block %d: %w", ErrInvalidDocument, si+1, bi+1, err)
			}
			section.Blocks = append(section.Blocks, block)
		}
		r.Sections = append(r.Sections, section)
	}
	return r, nil
}

func (d *decoder) block(b blockDoc) (model.Block, error) {
	switch b.Kind {
	case keyHeading:
		return &model.HeadingBlock{Text: b.Heading.Text, Level: b.Heading.Level}, nil
	case keyParagraph:
		return &model.ParagraphBlock{Text: b.Paragraph}, nil
	case keyKeyValues:
		pairs := make([]model.KeyValue, len(b.KeyValues))
		for i, kv := range b.KeyValues {
			pairs[i] = model.KeyValue{Label: kv.Label, Value: kv.Value}
		}
		return &model.KeyValueBlock{Pairs: pairs}, nil
	case keyImage:
		data, err := d.imageData(b.Image)
		if err != nil {
			return nil, err
		}
		return &model.ImageBlock{Data: data, Caption: b.Image.Caption, FallbackText: b.Image.Fallback}, nil
	case keyLink:
		return &model.LinkBlock{URL: b.Link.URL, Label: b.Link.Label}, nil
	case keySignature:
		return &model.SignatureBlock{Name: b.Signature.Name, Role: b.Signature.Role, Identifier: b.Signature.ID}, nil
	default:
		return nil, fmt.Errorf("unknown block kind %q", b.Kind)
	}
}

func (d *decoder) imageData(img imageDoc) ([]byte, error) {
	switch {
	case img.Data != "" && img.Path != "":
		return nil, errors.New("image has both data and path")
	case img.Data != "":
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, fmt.Errorf("image data: %w", err)
		}
		return data, nil
	case img.Path != "":
		path := img.Path
		if !filepath.IsAbs(path) && d.baseDir != "" {
			path = filepath.Join(d.baseDir, path)
		}
		data, err := os.ReadFile(path) //nolint:gosec // Paths come from the report author
		if err != nil {
			return nil, nil
		}
		return data, nil
	default:
		return nil, nil
	}
}

// Encode writes report as a YAML document. Image data is always inlined.
func Encode(w io.Writer, report *model.Report) error {
	doc, err := encodeDocument(report)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

func encodeDocument(r *model.Report) (*document, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil report", ErrInvalidDocument)
	}
	doc := &document{
		Title:       r.Title,
		Subtitle:    r.Subtitle,
		CaseID:      r.CaseID,
		GeneratedAt: r.GeneratedAt.UTC(),
		Authority:   authorityDoc{Name: r.AuthorityName, Role: r.AuthorityRole, ID: r.AuthorityID},
		Sections:    make([]sectionDoc, 0, len(r.Sections)),
	}
	for si, s := range r.Sections {
		section := sectionDoc{Heading: s.Heading, Blocks: make([]blockDoc, 0, len(s.Blocks))}
		for bi, b := range s.Blocks {
			bd, err := encodeBlock(b)
			if err != nil {
				return nil, fmt.Errorf("section %d block %d: %w", si+1, bi+1, err)
			}
			if bd.Kind == keyImage {
				bd.Image.Data = base64.StdEncoding.EncodeToString(b.(*model.ImageBlock).Data)
			}
			section.Blocks = append(section.Blocks, bd)
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc, nil
}

// encodeBlock converts a block without its image data.
func encodeBlock(b model.Block) (blockDoc, error) {
	switch v := b.(type) {
	case *model.HeadingBlock:
		return blockDoc{Kind: keyHeading, Heading: headingDoc{Text: v.Text, Level: v.Level}}, nil
	case *model.ParagraphBlock:
		return blockDoc{Kind: keyParagraph, Paragraph: v.Text}, nil
	case *model.KeyValueBlock:
		kvs := make([]keyValueDoc, len(v.Pairs))
		for i, p := range v.Pairs {
			kvs[i] = keyValueDoc{Label: p.Label, Value: p.Value}
		}
		return blockDoc{Kind: keyKeyValues, KeyValues: kvs}, nil
	case *model.ImageBlock:
		return blockDoc{Kind: keyImage, Image: imageDoc{Caption: v.Caption, Fallback: v.FallbackText}}, nil
	case *model.LinkBlock:
		return blockDoc{Kind: keyLink, Link: linkDoc{URL: v.URL, Label: v.Label}}, nil
	case *model.SignatureBlock:
		return blockDoc{Kind: keySignature, Signature: signatureDoc{Name: v.Name, Role: v.Role, ID: v.Identifier}}, nil
	default:
		return blockDoc{}, fmt.Errorf("unsupported block %T", b)
	}
}
