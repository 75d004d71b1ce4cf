package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cerco "github.com/lgodoyplay/cerco-sub000"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/provider"
	"github.com/lgodoyplay/cerco-sub000/render"
)

type batchOptions struct {
	db     string
	dir    string
	outDir string
	format string
	jobs   int
}

// NewBatchCmd creates the batch command.
func NewBatchCmd(e *env) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch [caseID...]",
		Short: "Compose many reports concurrently",
		Long: `Batch composes the given reports, or every stored report when no case
ID is given, and writes one file per report to --out-dir.

Examples:
  # Every report in the database, four at a time
  cerco batch --db reports.db --out-dir out/ --jobs 4

  # Two reports from a directory as Markdown previews
  cerco batch --dir reports/ --out-dir previews/ --format md 2024-0117 2024-0200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, e, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.db, "db", "", "SQLite report database")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Directory of report documents")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", ".", "Output directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: pdf, md or json (default from settings)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Number of reports composed at once")

	return cmd
}

func runBatch(cmd *cobra.Command, e *env, opts *batchOptions, caseIDs []string) error {
	if opts.jobs < 1 {
		return fmt.Errorf("--jobs must be positive, got %d", opts.jobs)
	}

	ctx := cmd.Context()
	p, closer, err := openProvider(ctx, opts.db, opts.dir)
	if err != nil {
		return err
	}
	defer closer.Close()

	if len(caseIDs) == 0 {
		lister, ok := p.(provider.Lister)
		if !ok {
			return errors.New("no case IDs given")
		}
		if caseIDs, err = lister.CaseIDs(ctx); err != nil {
			return err
		}
	}

	c, err := e.composer()
	if err != nil {
		return err
	}
	r, err := e.renderer(opts.format)
	if err != nil {
		return err
	}

	var degraded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for _, id := range caseIDs {
		g.Go(func() error {
			n, err := composeOne(gctx, p, c, r, id, opts.outDir)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			if n > 0 {
				degraded.Add(1)
				e.logger.Warn("Report degraded", zap.String("case", id), zap.Int("warnings", n))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "composed %d reports (%d with warnings)\n", len(caseIDs), degraded.Load())
	return nil
}

// composeOne composes and writes one report and returns its warning count.
func composeOne(ctx context.Context, p provider.Provider, c *layout.Composer, r render.Renderer, caseID, outDir string) (int, error) {
	report, err := p.Report(ctx, caseID)
	if err != nil {
		return 0, err
	}

	plan, warnings, err := c.Compose(report)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, plan); err != nil {
		return 0, err
	}

	path := filepath.Join(outDir, cerco.FileName(caseID, r.Format()))
	if err := writeOutput(nil, path, buf.Bytes()); err != nil {
		return 0, err
	}
	return len(warnings), nil
}
