package main

import (
	"context"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/core"
	"github.com/joseph-ayodele/insuregenie/internal/core/async"
	"github.com/joseph-ayodele/insuregenie/internal/repository"
	"github.com/joseph-ayodele/insuregenie/internal/services/ingest"
)

type batchSummary struct {
	Enqueued   int               `json:"enqueued"`
	Passed     int               `json:"passed"`
	Failed     int               `json:"failed"`
	Errors     map[string]string `json:"errors,omitempty"`
	Statistics ingest.DirStats   `json:"statistics"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		includeHidden  bool
		keepDuplicates bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze and store every supported document under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(true); err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			proc := a.processor(repository.NewDocumentRepository(db, a.logger))

			var (
				mu      sync.Mutex
				summary = batchSummary{Errors: map[string]string{}}
			)
			q := async.NewProcessorQueue(proc, a.logger,
				async.WithWorkers(a.cfg.Queue.Workers),
				async.WithQueueSize(a.cfg.Queue.Size),
				async.WithProcessTimeout(a.cfg.Queue.ProcessTimeout),
				async.WithResultHook(func(job async.Job, report *core.Report, err error) {
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						summary.Errors[job.Path] = err.Error()
					}
					if report != nil && report.Validation.Status == constants.ValidationPass {
						summary.Passed++
					} else {
						summary.Failed++
					}
				}),
			)

			res, err := ingest.NewService(ingest.NewScanner(a.logger), q, a.logger).IngestDirectory(ctx, ingest.DirectoryIngestRequest{
				RootPath:       args[0],
				SkipHidden:     !includeHidden,
				SkipDuplicates: !keepDuplicates,
			})

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Queue.ProcessTimeout+time.Minute)
			defer cancel()
			q.Shutdown(shutdownCtx)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			summary.Enqueued = res.Enqueued
			summary.Statistics = res.Statistics
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "also scan hidden files and directories")
	cmd.Flags().BoolVar(&keepDuplicates, "keep-duplicates", false, "analyze files whose content was already seen in this run")
	return cmd
}
