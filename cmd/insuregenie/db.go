package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/insuregenie/internal/repository"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(false); err != nil {
				return err
			}
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			db.Close()
			return nil
		},
	}
}

func newDBHealthCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "dbhealth",
		Short: "Ping the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(false); err != nil {
				return err
			}
			db, err := repository.Open(cmd.Context(), a.cfg.Database, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.HealthCheck(cmd.Context(), timeout); err != nil {
				return err
			}
			a.logger.Info("database health OK", "driver", a.cfg.Database.Driver)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "ping timeout")
	return cmd
}
