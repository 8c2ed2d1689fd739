package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/insuregenie/internal/common"
)

type rootOptions struct {
	configPath string
	envFile    string
	logFormat  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:           "insuregenie",
		Short:         "Summarize insurance policy documents and check them for key terms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a yaml config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newAnalyzeCmd(a),
		newExtractCmd(a),
		newSummarizeCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newExportCmd(a),
		newMigrateCmd(a),
		newDBHealthCmd(a),
		newServeCmd(a),
	)
	return cmd
}

func (a *app) init(stderr io.Writer, opts *rootOptions) error {
	logger, err := newLogger(stderr, opts.logFormat, opts.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	slog.SetDefault(logger)

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to load env file", "path", opts.envFile, "error", err)
		}
	}

	cfg, err := common.LoadConfig(opts.configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	a.cfg = cfg
	return nil
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	}
	return nil, fmt.Errorf("invalid --log-format %q", format)
}
