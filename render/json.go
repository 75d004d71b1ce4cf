package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/model"
)

// JSON writes the layout plan itself. Image data is base64 encoded by
// encoding/json.
type JSON struct {
	indent       bool
	indentPrefix string
	indentString string
}

// JSONOption configures a JSON renderer.
type JSONOption func(*JSON)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONOption {
	return func(j *JSON) {
		j.indent = true
		j.indentPrefix = prefix
		j.indentString = indent
	}
}

// WithPrettyPrint enables indented output with two spaces.
func WithPrettyPrint() JSONOption {
	return WithIndent("", "  ")
}

// NewJSON creates a JSON renderer. Output is compact unless an indent
// option is given.
func NewJSON(opts ...JSONOption) *JSON {
	j := &JSON{}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Format returns format.JSON.
func (j *JSON) Format() format.Format {
	return format.JSON
}

// Render encodes plan followed by a newline.
func (j *JSON) Render(w io.Writer, plan *model.LayoutPlan) error {
	if err := checkPlan(plan); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if j.indent {
		enc.SetIndent(j.indentPrefix, j.indentString)
	}
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}
