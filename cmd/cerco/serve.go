package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgodoyplay/cerco-sub000/delivery"
	"github.com/lgodoyplay/cerco-sub000/render"
)

// shutdownTimeout bounds the wait for in-flight requests on exit
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd(e *env) *cobra.Command {
	var addr, db, dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Long: `Serve composes reports on request:

  GET /reports/{caseID}.pdf   printable document
  GET /reports/{caseID}.md    pagination preview
  GET /reports/{caseID}.json  layout plan

Examples:
  cerco serve --db reports.db --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, closer, err := openProvider(ctx, db, dir)
			if err != nil {
				return err
			}
			defer closer.Close()

			c, err := e.composer()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr: addr,
				Handler: delivery.NewServer(p, c,
					delivery.WithLogger(e.logger),
					delivery.WithPDFOptions(render.WithFontFamily(e.settings.Output.FontFamily))),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, e.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&db, "db", "", "SQLite report database")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory of report documents")

	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
