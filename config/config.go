package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/lgodoyplay/cerco-sub000/font"
	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/text"
)

// File is the on-disk settings document.
type File struct {
	Page       PageConfig   `yaml:"page"`
	Text       TextConfig   `yaml:"text"`
	Letterhead []string     `yaml:"letterhead"`
	Footer     FooterConfig `yaml:"footer"`
	Blocks     BlockConfig  `yaml:"blocks"`
	Output     OutputConfig `yaml:"output"`
	Log        LogConfig    `yaml:"log"`
}

// PageConfig holds the page geometry in points.
type PageConfig struct {
	// Size is a4, letter, legal or custom
	Size string `yaml:"size"`

	// Width and Height are used when Size is custom
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	Margins MarginsConfig `yaml:"margins"`
}

// MarginsConfig holds the four page margins.
type MarginsConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// TextConfig selects the text measurement model and body text metrics.
type TextConfig struct {
	// Measurer is average, helvetica, times, courier or glyph
	Measurer string `yaml:"measurer"`

	// CharWidthRatio is used by the average measurer
	CharWidthRatio float64 `yaml:"char_width_ratio"`

	BodySize       float64 `yaml:"body_size"`
	BodyLineHeight float64 `yaml:"body_line_height"`
}

// FooterConfig holds the footer settings.
type FooterConfig struct {
	Text string `yaml:"text"`
}

// BlockConfig holds fixed block dimensions.
type BlockConfig struct {
	Spacing         float64 `yaml:"spacing"`
	RowHeight       float64 `yaml:"row_height"`
	ImageWidth      float64 `yaml:"image_width"`
	ImageHeight     float64 `yaml:"image_height"`
	ImageFallback   string  `yaml:"image_fallback"`
	SignatureHeight float64 `yaml:"signature_height"`
	ShowTitle       bool    `yaml:"show_title"`
	AutoSignature   bool    `yaml:"auto_signature"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	// Format is pdf, md or json
	Format string `yaml:"format"`

	// FontFamily is the PDF core font family
	FontFamily string `yaml:"font_family"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn or error
	Level string `yaml:"level"`
}

// Default returns the settings matching layout.DefaultConfig.
func Default() *File {
	cfg := layout.DefaultConfig()
	return &File{
		Page: PageConfig{
			Size: "a4",
			Margins: MarginsConfig{
				Top:    cfg.Margins.Top,
				Right:  cfg.Margins.Right,
				Bottom: cfg.Margins.Bottom,
				Left:   cfg.Margins.Left,
			},
		},
		Text: TextConfig{
			Measurer:       "average",
			CharWidthRatio: cfg.CharWidthRatio,
			BodySize:       cfg.Body.Size,
			BodyLineHeight: cfg.Body.LineHeight,
		},
		Letterhead: append([]string(nil), cfg.Letterhead...),
		Footer:     FooterConfig{Text: cfg.FooterText},
		Blocks: BlockConfig{
			Spacing:         cfg.BlockSpacing,
			RowHeight:       cfg.RowHeight,
			ImageWidth:      cfg.ImageWidth,
			ImageHeight:     cfg.ImageHeight,
			ImageFallback:   cfg.ImageFallback,
			SignatureHeight: cfg.SignatureHeight,
			ShowTitle:       cfg.ShowTitle,
			AutoSignature:   cfg.AutoSignature,
		},
		Output: OutputConfig{Format: "pdf", FontFamily: "Helvetica"},
		Log:    LogConfig{Level: "info"},
	}
}

// Validate checks the names and sizes that Load cannot check while
// decoding. Geometry problems are reported later by LayoutConfig.
func (f *File) Validate() error {
	if _, err := f.PageSize(); err != nil {
		return err
	}
	if _, err := f.measurer(); err != nil {
		return err
	}
	if format.Parse(f.Output.Format) == format.Unknown {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f.Output.Format)
	}
	switch f.Output.FontFamily {
	case "Helvetica", "Times", "Courier":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFontFamily, f.Output.FontFamily)
	}
	if _, err := f.LogLevel(); err != nil {
		return err
	}
	return nil
}

// PageSize resolves the configured page size.
func (f *File) PageSize() (model.PageSize, error) {
	switch strings.ToLower(f.Page.Size) {
	case "", "a4":
		return model.A4, nil
	case "letter":
		return model.Letter, nil
	case "legal":
		return model.Legal, nil
	case "custom":
		if f.Page.Width <= 0 || f.Page.Height <= 0 {
			return model.PageSize{}, fmt.Errorf("%w: %gx%g", ErrInvalidPageSize, f.Page.Width, f.Page.Height)
		}
		return model.PageSize{Width: f.Page.Width, Height: f.Page.Height}, nil
	default:
		return model.PageSize{}, fmt.Errorf("%w: %q", ErrUnknownPageSize, f.Page.Size)
	}
}

// LogLevel parses the configured log level. An empty level is info.
func (f *File) LogLevel() (zapcore.Level, error) {
	if f.Log.Level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(f.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLogLevel, f.Log.Level)
	}
	return lvl, nil
}

// measurer returns the configured text measurer. Nil selects the average
// character width approximation.
func (f *File) measurer() (text.Measurer, error) {
	switch strings.ToLower(f.Text.Measurer) {
	case "", "average":
		return nil, nil
	case "helvetica":
		return font.NewHelveticaMeasurer(), nil
	case "times":
		return font.NewFamilyMeasurer("Times"), nil
	case "courier":
		return font.NewFamilyMeasurer("Courier"), nil
	case "glyph":
		m, err := text.NewGlyphMeasurer()
		if err != nil {
			return nil, fmt.Errorf("load glyph measurer: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasurer, f.Text.Measurer)
	}
}

// LayoutConfig converts the settings into a validated layout configuration.
func (f *File) LayoutConfig() (layout.Config, error) {
	if err := f.Validate(); err != nil {
		return layout.Config{}, err
	}

	cfg := layout.DefaultConfig()
	cfg.PageSize, _ = f.PageSize()
	cfg.Margins = model.Margins{
		Top:    f.Page.Margins.Top,
		Right:  f.Page.Margins.Right,
		Bottom: f.Page.Margins.Bottom,
		Left:   f.Page.Margins.Left,
	}

	m, err := f.measurer()
	if err != nil {
		return layout.Config{}, err
	}
	cfg.Measurer = m
	cfg.CharWidthRatio = f.Text.CharWidthRatio
	cfg.Body = layout.FontMetrics{Size: f.Text.BodySize, LineHeight: f.Text.BodyLineHeight}

	cfg.Letterhead = append([]string(nil), f.Letterhead...)
	cfg.FooterText = f.Footer.Text

	cfg.BlockSpacing = f.Blocks.Spacing
	cfg.RowHeight = f.Blocks.RowHeight
	cfg.ImageWidth = f.Blocks.ImageWidth
	cfg.ImageHeight = f.Blocks.ImageHeight
	if f.Blocks.ImageFallback != "" {
		cfg.ImageFallback = f.Blocks.ImageFallback
	}
	cfg.SignatureHeight = f.Blocks.SignatureHeight
	cfg.ShowTitle = f.Blocks.ShowTitle
	cfg.AutoSignature = f.Blocks.AutoSignature

	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}
