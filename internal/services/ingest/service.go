package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/async"
)

// Service scans directories and feeds the analysis queue.
type Service struct {
	scanner *Scanner
	queue   async.Queue
	logger  *slog.Logger
}

// NewService creates a new ingest service.
func NewService(scanner *Scanner, q async.Queue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{scanner: scanner, queue: q, logger: logger}
}

// DirectoryIngestRequest represents directory ingestion parameters.
type DirectoryIngestRequest struct {
	RootPath       string
	SkipHidden     bool
	SkipDuplicates bool
}

// DirectoryIngestResult represents directory ingestion results.
type DirectoryIngestResult struct {
	Statistics DirStats
	Candidates []Candidate
	Enqueued   int
}

// IngestDirectory scans RootPath and enqueues every readable candidate,
// leaving out duplicates when SkipDuplicates is set.
func (s *Service) IngestDirectory(ctx context.Context, req DirectoryIngestRequest) (*DirectoryIngestResult, error) {
	root := strings.TrimSpace(req.RootPath)
	if root == "" {
		s.logger.Error("ingest directory request missing root_path")
		return nil, common.NewAppError(common.CodeInvalidInput, "root_path is required", common.ErrInvalidInput)
	}
	ctx, traceID := common.EnsureRequestID(ctx)

	s.logger.Info("starting directory ingest", "root", root, "skip_hidden", req.SkipHidden, "req_id", traceID)
	candidates, stats, err := s.scanner.Scan(ctx, root, req.SkipHidden)
	if err != nil {
		return nil, common.NewAppError(common.CodeInvalidInput, fmt.Sprintf("ingest directory: %v", err), common.ErrInvalidInput)
	}

	enqueued := 0
	for _, c := range candidates {
		if c.Err != "" {
			continue
		}
		if c.Duplicate && req.SkipDuplicates {
			s.logger.Info("skipping processing (duplicate)", "path", c.Path, "duplicate_of", c.DuplicateOf)
			continue
		}
		if err := s.queue.Enqueue(ctx, async.Job{Path: c.Path, SubmittedAt: time.Now(), TraceID: traceID}); err != nil {
			s.logger.Error("enqueue failed for file", "path", c.Path, "error", err)
			return &DirectoryIngestResult{Statistics: stats, Candidates: candidates, Enqueued: enqueued}, fmt.Errorf("enqueue %s: %w", c.Path, err)
		}
		enqueued++
	}

	s.logger.Info("directory ingest completed",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
		"enqueued", enqueued,
	)
	return &DirectoryIngestResult{Statistics: stats, Candidates: candidates, Enqueued: enqueued}, nil
}
