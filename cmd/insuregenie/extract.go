package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var detailed bool
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the text extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			res := a.engine().ExtractDetailed(cmd.Context(), data, filepath.Base(args[0]))
			if detailed {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"kind":    res.Kind,
					"method":  res.Method,
					"pages":   res.Pages,
					"elapsed": res.Duration.String(),
					"text":    res.Text,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "print kind, method and page count as JSON")
	return cmd
}
