package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/repository"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var noStore bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Extract, summarize, check and store one document; prints the JSON report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(true); err != nil {
				return err
			}
			ctx := cmd.Context()

			var docs repository.DocumentRepository
			if !noStore {
				db, err := a.openDB(ctx)
				if err != nil {
					return err
				}
				defer db.Close()
				docs = repository.NewDocumentRepository(db, a.logger)
			}

			report, err := a.processor(docs).AnalyzeFile(ctx, args[0])
			if report == nil {
				return err
			}
			if werr := writeJSON(cmd.OutOrStdout(), report); werr != nil {
				return werr
			}
			if err != nil && errors.Is(err, common.ErrDatabase) {
				a.logger.Error("report was not fully stored", "error", err)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist the analysis")
	return cmd
}
