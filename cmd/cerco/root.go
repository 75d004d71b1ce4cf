package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lgodoyplay/cerco-sub000/config"
	"github.com/lgodoyplay/cerco-sub000/format"
	"github.com/lgodoyplay/cerco-sub000/layout"
	"github.com/lgodoyplay/cerco-sub000/provider"
	"github.com/lgodoyplay/cerco-sub000/render"
)

// env is the state shared by all subcommands of one invocation.
type env struct {
	configPath string
	verbose    bool

	settings *config.File
	level    zap.AtomicLevel
	logger   *zap.Logger
}

// NewRootCmd creates the root command for cerco.
func NewRootCmd() *cobra.Command {
	e := &env{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "cerco",
		Short: "Compose case reports into paginated documents",
		Long: `cerco lays out case reports page by page and renders them as PDF
documents, Markdown previews or JSON layout plans.

Settings are read from --config, ./cerco.yaml or cerco/config.yaml in the
XDG configuration directories.`,
		Version:           getVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = e.logger.Sync()
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "Path to the settings file")
	cmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewComposeCmd(e))
	cmd.AddCommand(NewBatchCmd(e))
	cmd.AddCommand(NewImportCmd(e))
	cmd.AddCommand(NewServeCmd(e))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the settings and builds the logger.
func (e *env) setup(cmd *cobra.Command, _ []string) error {
	settings, path, err := config.LoadOrDefault(e.configPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	e.settings = settings

	lvl, err := settings.LogLevel()
	if err != nil {
		return err
	}
	if e.verbose {
		lvl = zapcore.DebugLevel
	}
	e.level = zap.NewAtomicLevelAt(lvl)

	zc := zap.NewProductionConfig()
	if e.verbose {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = e.level
	zc.OutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	e.logger = logger.Named(cmd.Name())

	if path != "" {
		e.logger.Debug("Settings loaded", zap.String("path", path))
	}
	return nil
}

// composer builds a composer from the settings.
func (e *env) composer() (*layout.Composer, error) {
	cfg, err := e.settings.LayoutConfig()
	if err != nil {
		return nil, err
	}
	return layout.NewComposer(cfg, layout.WithLogger(e.logger))
}

// renderer returns the renderer for name, or for the configured default
// format when name is empty.
func (e *env) renderer(name string) (render.Renderer, error) {
	if name == "" {
		name = e.settings.Output.Format
	}
	r, err := render.ForFormat(name)
	if err != nil {
		return nil, err
	}
	if r.Format() == format.PDF {
		return render.NewPDF(render.WithFontFamily(e.settings.Output.FontFamily)), nil
	}
	return r, nil
}

// errNoSource is returned when a command needs --db or --dir.
var errNoSource = errors.New("a report source is required: use --db or --dir")

// openProvider opens the SQLite database at db or the document directory
// dir. The returned closer must be called when done.
func openProvider(ctx context.Context, db, dir string) (provider.Provider, io.Closer, error) {
	switch {
	case db != "" && dir != "":
		return nil, nil, errors.New("--db and --dir cannot be used together")
	case db != "":
		p, err := provider.OpenSQLite(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case dir != "":
		return provider.NewDirProvider(dir), nopCloser{}, nil
	default:
		return nil, nil, errNoSource
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
