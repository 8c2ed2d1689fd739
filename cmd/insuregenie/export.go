package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/insuregenie/internal/repository"
	"github.com/joseph-ayodele/insuregenie/internal/services/export"
)

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored analysis to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(false); err != nil {
				return err
			}
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			xlsx, err := export.NewService(repository.NewDocumentRepository(db, a.logger), a.logger).AnalysesXLSX(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, xlsx, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("export written", "path", out, "bytes", len(xlsx))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "insuregenie-report.xlsx", "output XLSX path")
	return cmd
}
