package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgodoyplay/cerco-sub000/provider"
)

// NewImportCmd creates the import command.
func NewImportCmd(e *env) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "import --db FILE report.yaml...",
		Short: "Load report documents into a database",
		Long: `Import reads YAML report documents and stores them in a SQLite database.
A report with the same case ID is replaced. Image paths are resolved relative
to each document and the image bytes are stored in the database.

Examples:
  cerco import --db reports.db reports/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if db == "" {
				return errors.New("--db is required")
			}

			p, err := provider.OpenSQLite(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer p.Close()

			for _, path := range args {
				id, err := importFile(cmd, p, path)
				if err != nil {
					return err
				}
				e.logger.Info("Report imported", zap.String("case", id), zap.String("path", path))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d reports into %s\n", len(args), db)
			return nil
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "SQLite report database")

	return cmd
}

func importFile(cmd *cobra.Command, p *provider.SQLiteProvider, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	r, err := provider.Decode(f, provider.WithBaseDir(filepath.Dir(path)))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Save(cmd.Context(), r); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return r.CaseID, nil
}
