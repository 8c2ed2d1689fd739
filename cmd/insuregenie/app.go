package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core"
	"github.com/joseph-ayodele/insuregenie/internal/core/extract"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
	"github.com/joseph-ayodele/insuregenie/internal/llm/groq"
	"github.com/joseph-ayodele/insuregenie/internal/repository"
)

// app holds what every command shares once the root command has run.
type app struct {
	cfg    *common.Config
	logger *slog.Logger
}

// openDB connects to the configured store and brings its schema up to date.
func (a *app) openDB(ctx context.Context) (*repository.DB, error) {
	db, err := repository.Open(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (a *app) engine() *extract.Engine {
	return extract.NewFromConfig(a.cfg.OCR, nil, a.logger)
}

func (a *app) summarizer() llm.Summarizer {
	return groq.NewClient(groq.ConfigFrom(a.cfg.LLM), a.logger)
}

// processor builds a Processor; docs may be nil.
func (a *app) processor(docs repository.DocumentRepository) *core.Processor {
	return core.NewProcessor(a.logger, a.engine(), a.summarizer(), docs)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
