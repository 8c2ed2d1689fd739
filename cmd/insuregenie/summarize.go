package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/insuregenie/internal/core/compliance"
)

func newSummarizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize a document and run compliance checks without storing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(true); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			text, fields, validation := a.processor(nil).RunAgent(cmd.Context(), data, filepath.Base(args[0]))
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"fields":     fields,
				"validation": validation,
				"compliance": compliance.RunChecks(text),
			})
		},
	}
}
