package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/insuregenie/internal/core"
	"github.com/joseph-ayodele/insuregenie/internal/core/async"
	"github.com/joseph-ayodele/insuregenie/internal/repository"
	"github.com/joseph-ayodele/insuregenie/internal/services/ingest"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		initialScan   bool
		includeHidden bool
		debounce      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Analyze and store documents as they appear under one or more directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(true); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			q := async.NewProcessorQueue(a.processor(repository.NewDocumentRepository(db, a.logger)), a.logger,
				async.WithWorkers(a.cfg.Queue.Workers),
				async.WithQueueSize(a.cfg.Queue.Size),
				async.WithProcessTimeout(a.cfg.Queue.ProcessTimeout),
				async.WithResultHook(func(job async.Job, report *core.Report, err error) {
					if report == nil {
						return
					}
					a.logger.Info("watch.analyzed",
						"path", job.Path,
						"doc_id", report.DocumentID,
						"validation", report.Validation.Status,
					)
				}),
			)

			n, err := ingest.NewService(ingest.NewScanner(a.logger), q, a.logger).WatchDirectory(ctx, ingest.WatchConfig{
				Roots:       args,
				InitialScan: initialScan,
				SkipHidden:  !includeHidden,
				Debounce:    debounce,
			})

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Queue.ProcessTimeout+time.Minute)
			defer cancel()
			q.Shutdown(shutdownCtx)
			a.logger.Info("watch stopped", "enqueued", n)
			return err
		},
	}
	cmd.Flags().BoolVar(&initialScan, "initial-scan", true, "analyze files already present when the watch starts")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "also watch hidden files and directories")
	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "wait this long after the last write before analyzing a file")
	return cmd
}
