package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lgodoyplay/cerco-sub000/config"
	"github.com/lgodoyplay/cerco-sub000/render"
)

const reportDoc = `
title: Incident Report
case_id: 2024-0117
generated_at: 2024-03-14T09:30:00Z
authority: {name: Det. Ana Ruiz, role: Lead Investigator}
sections:
  - heading: Summary
    blocks:
      - key_values:
          - {label: Offence, value: Burglary}
      - paragraph: Entry was forced through the rear door.
      - image: {path: missing.png, fallback: Scene photograph not available}
`

func writeReport(t *testing.T, dir, name, caseID string) string {
	t.Helper()
	doc := strings.Replace(reportDoc, "2024-0117", caseID, 1)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	for _, name := range []string{"compose", "batch", "import", "serve", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cerco "), out)
}

func TestComposePDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeReport(t, dir, "report.yaml", "2024-0117")
	out := filepath.Join(dir, "out", "report.pdf")

	_, stderr, err := run(t, "compose", "--input", input, "--out", out, "--verify")
	require.NoError(t, err)
	assert.Contains(t, stderr, "2024-0117: 1 image could not be embedded")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	n, err := render.CountPages(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestComposeMarkdownToStdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeReport(t, dir, "2024-0117.yaml", "2024-0117")

	out, _, err := run(t, "compose", "--dir", dir, "--case", "2024-0117", "--format", "md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Incident Report"), out)
	assert.Contains(t, out, "## Page 1 of 1")
}

func TestComposeErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeReport(t, dir, "report.yaml", "2024-0117")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no report", []string{"compose"}, "a report is required"},
		{"both sources", []string{"compose", "--input", input, "--case", "x"}, "cannot be used together"},
		{"case without source", []string{"compose", "--case", "x"}, "--db or --dir"},
		{"verify markdown", []string{"compose", "--input", input, "--format", "md", "--verify"}, "--verify needs pdf"},
		{"unknown format", []string{"compose", "--input", input, "--format", "docx"}, "unknown output format"},
		{"missing case", []string{"compose", "--dir", dir, "--case", "2024-9999"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestComposeWithSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeReport(t, dir, "report.yaml", "2024-0117")
	settings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("output: {format: json}\nletterhead: [STATE POLICE]\n"), 0o600))

	out, _, err := run(t, "--config", settings, "compose", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, `"TotalPages": 1`)
	assert.Contains(t, out, "STATE POLICE")

	_, _, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "compose", "--input", input)
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestImportAndBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "reports.db")
	a := writeReport(t, dir, "a.yaml", "2024-0117")
	b := writeReport(t, dir, "b.yaml", "2024-0200")

	out, _, err := run(t, "import", "--db", db, a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 reports")

	outDir := filepath.Join(dir, "out")
	out, _, err = run(t, "batch", "--db", db, "--out-dir", outDir, "--jobs", "2")
	require.NoError(t, err)
	assert.Equal(t, "composed 2 reports (2 with warnings)\n", out)

	for _, id := range []string{"2024-0117", "2024-0200"} {
		data, err := os.ReadFile(filepath.Join(outDir, "report-"+id+".pdf"))
		require.NoError(t, err, id)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), id)
	}

	// selected case IDs only
	out, _, err = run(t, "batch", "--db", db, "--out-dir", outDir, "--format", "md", "2024-0200")
	require.NoError(t, err)
	assert.Equal(t, "composed 1 reports (1 with warnings)\n", out)
	_, err = os.Stat(filepath.Join(outDir, "report-2024-0200.md"))
	assert.NoError(t, err)
}

func TestBatchErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, err := run(t, "batch", "--dir", dir, "--jobs", "0")
	assert.ErrorContains(t, err, "--jobs must be positive")

	_, _, err = run(t, "batch", "--dir", dir, "--out-dir", dir, "missing")
	assert.ErrorContains(t, err, "missing")

	_, _, err = run(t, "import", filepath.Join(dir, "x.yaml"))
	assert.ErrorContains(t, err, "--db is required")
}

func TestServeShutdown(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, zap.NewNop()) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
