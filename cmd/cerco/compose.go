package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cerco "github.com/lgodoyplay/cerco-sub000"
	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/provider"
	"github.com/lgodoyplay/cerco-sub000/render"
)

type composeOptions struct {
	input  string
	caseID string
	db     string
	dir    string
	format string
	out    string
	verify bool
}

// NewComposeCmd creates the compose command.
func NewComposeCmd(e *env) *cobra.Command {
	opts := &composeOptions{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose one report",
		Long: `Compose lays out one report and writes it as a PDF document, a Markdown
preview or a JSON layout plan.

The report is read from a YAML document (--input) or looked up by case ID
in a database (--db) or a directory of documents (--dir).

Examples:
  # PDF from a report document
  cerco compose --input 2024-0117.yaml --out 2024-0117.pdf

  # Markdown preview of a stored report on stdout
  cerco compose --db reports.db --case 2024-0117 --format md

  # Check that the PDF has exactly the planned pages
  cerco compose --input 2024-0117.yaml --out 2024-0117.pdf --verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompose(cmd, e, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Report document (YAML)")
	cmd.Flags().StringVar(&opts.caseID, "case", "", "Case ID to look up with --db or --dir")
	cmd.Flags().StringVar(&opts.db, "db", "", "SQLite report database")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Directory of report documents")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: pdf, md or json (default from settings)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "Validate the PDF and check its page count")

	return cmd
}

func runCompose(cmd *cobra.Command, e *env, opts *composeOptions) error {
	switch {
	case opts.input != "" && opts.caseID != "":
		return errors.New("--input and --case cannot be used together")
	case opts.input == "" && opts.caseID == "":
		return errors.New("a report is required: use --input or --case")
	}

	report, err := loadReport(cmd, opts)
	if err != nil {
		return err
	}

	c, err := e.composer()
	if err != nil {
		return err
	}
	r, err := e.renderer(opts.format)
	if err != nil {
		return err
	}
	if opts.verify && r.Format() != format.PDF {
		return fmt.Errorf("--verify needs pdf output, not %s", r.Format())
	}

	plan, warnings, err := c.Compose(report)
	if err != nil {
		return fmt.Errorf("compose %s: %w", report.CaseID, err)
	}
	if len(warnings) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", report.CaseID, cerco.SummarizeWarnings(warnings))
		e.logger.Debug("Warnings", zap.String("case", report.CaseID), zap.String("detail", cerco.FormatWarnings(warnings)))
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, plan); err != nil {
		return err
	}
	if opts.verify {
		if err := render.VerifyPDF(bytes.NewReader(buf.Bytes()), plan.TotalPages); err != nil {
			return err
		}
		e.logger.Info("PDF verified", zap.String("case", report.CaseID), zap.Int("pages", plan.TotalPages))
	}

	return writeOutput(cmd.OutOrStdout(), opts.out, buf.Bytes())
}

func loadReport(cmd *cobra.Command, opts *composeOptions) (*model.Report, error) {
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return nil, fmt.Errorf("failed to open report: %w", err)
		}
		defer f.Close()

		r, err := provider.Decode(f, provider.WithBaseDir(filepath.Dir(opts.input)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.input, err)
		}
		return r, nil
	}

	p, closer, err := openProvider(cmd.Context(), opts.db, opts.dir)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return p.Report(cmd.Context(), opts.caseID)
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
