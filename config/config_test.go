package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/lgodoyplay/cerco-sub000/font"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultMatchesLayout(t *testing.T) {
	t.Parallel()

	cfg, err := Default().LayoutConfig()
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultConfig(), cfg)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	f, err := Decode(strings.NewReader(`
page:
  size: letter
  margins: {top: 110, right: 54, bottom: 60, left: 54}
text:
  measurer: helvetica
letterhead:
  - STATE POLICE
footer:
  text: RESTRICTED
blocks:
  spacing: 10
  show_title: false
output:
  format: md
log:
  level: debug
`))
	require.NoError(t, err)

	cfg, err := f.LayoutConfig()
	require.NoError(t, err)
	assert.Equal(t, model.Letter, cfg.PageSize)
	assert.Equal(t, model.Margins{Top: 110, Right: 54, Bottom: 60, Left: 54}, cfg.Margins)
	assert.Equal(t, []string{"STATE POLICE"}, cfg.Letterhead)
	assert.Equal(t, "RESTRICTED", cfg.FooterText)
	assert.Equal(t, 10.0, cfg.BlockSpacing)
	assert.False(t, cfg.ShowTitle)
	assert.True(t, cfg.AutoSignature, "unset fields keep their defaults")
	assert.IsType(t, font.StandardMeasurer{}, cfg.Measurer)

	lvl, err := f.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}

func TestDecodeEmpty(t *testing.T) {
	t.Parallel()

	f, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"page size", "page: {size: a5}", ErrUnknownPageSize},
		{"custom size", "page: {size: custom, width: 400}", ErrInvalidPageSize},
		{"measurer", "text: {measurer: arial}", ErrUnknownMeasurer},
		{"format", "output: {format: docx}", ErrUnknownFormat},
		{"font family", "output: {font_family: Arial}", ErrUnknownFontFamily},
		{"log level", "log: {level: loud}", ErrUnknownLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		_, err := Decode(strings.NewReader("pages: {size: a4}"))
		assert.Error(t, err)
	})
}

func TestCustomPageSize(t *testing.T) {
	t.Parallel()

	f, err := Decode(strings.NewReader("page: {size: custom, width: 500, height: 700}"))
	require.NoError(t, err)
	size, err := f.PageSize()
	require.NoError(t, err)
	assert.Equal(t, model.PageSize{Width: 500, Height: 700}, size)
}

func TestLayoutConfigInvalidGeometry(t *testing.T) {
	t.Parallel()

	f := Default()
	f.Page.Margins.Top = 10 // letterhead no longer fits above the content
	_, err := f.LayoutConfig()
	assert.ErrorIs(t, err, layout.ErrInvalidConfig)
}

func TestMeasurers(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"average", "helvetica", "times", "courier", "glyph"} {
		f := Default()
		f.Text.Measurer = name
		cfg, err := f.LayoutConfig()
		require.NoError(t, err, name)
		if name == "average" {
			assert.Nil(t, cfg.Measurer)
		} else {
			assert.NotNil(t, cfg.Measurer, name)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "cerco.yaml", "footer: {text: INTERNAL}\n")

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "INTERNAL", f.Footer.Text)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	bad := writeFile(t, dir, "bad.yaml", "page: [")
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestFindExplicit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "")

	got, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = Find(filepath.Join(dir, "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, _, err = LoadOrDefault(filepath.Join(dir, "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound, "an explicit path must exist")
}
