package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/async"
)

// WatchConfig controls Watch.
type WatchConfig struct {
	Roots       []string      // watched recursively
	InitialScan bool          // emit files already present under Roots
	SkipHidden  bool
	Debounce    time.Duration // coalesce bursts of writes to the same file
}

// Watch emits paths of supported documents created or rewritten under
// cfg.Roots. Directories created later are watched too. The returned channel
// is closed once ctx is done.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, common.NewAppError(common.CodeInvalidInput, "no roots to watch", common.ErrInvalidInput)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	var initial []string
	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if cfg.SkipHidden && path != root && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return fw.Add(path)
			}
			if cfg.InitialScan && d.Type().IsRegular() && constants.IsAllowedExt(constants.ExtOf(path)) {
				initial = append(initial, path)
			}
			return nil
		})
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}

	out := make(chan string)
	go watchLoop(ctx, fw, cfg, initial, out, logger)
	logger.Info("ingest.watch.started", "roots", cfg.Roots, "initial", len(initial))
	return out, nil
}

func watchLoop(ctx context.Context, fw *fsnotify.Watcher, cfg WatchConfig, initial []string, out chan<- string, logger *slog.Logger) {
	defer close(out)
	defer func() { _ = fw.Close() }()

	emit := func(paths []string) bool {
		for _, p := range paths {
			select {
			case out <- p:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}
	if !emit(initial) {
		return
	}

	pending := map[string]struct{}{}
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	flush := func() bool {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		clear(pending)
		sort.Strings(paths)
		return emit(paths)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if cfg.SkipHidden && IsHidden(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := fw.Add(ev.Name); err != nil {
						logger.Warn("ingest.watch.add_failed", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !constants.IsAllowedExt(constants.ExtOf(ev.Name)) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if cfg.Debounce <= 0 {
				if !flush() {
					return
				}
				continue
			}
			timer.Reset(cfg.Debounce)
		case <-timer.C:
			if !flush() {
				return
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Error("ingest.watch.error", "error", err)
		}
	}
}

// WatchDirectory enqueues every document Watch reports until ctx is done and
// returns how many jobs were queued.
func (s *Service) WatchDirectory(ctx context.Context, cfg WatchConfig) (int, error) {
	// releases the watch loop and its fsnotify handle on every return
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths, err := Watch(ctx, cfg, s.logger)
	if err != nil {
		return 0, err
	}
	ctx, traceID := common.EnsureRequestID(ctx)

	enqueued := 0
	for p := range paths {
		if err := s.queue.Enqueue(ctx, async.Job{Path: p, SubmittedAt: time.Now(), TraceID: traceID}); err != nil {
			if ctx.Err() != nil {
				break
			}
			s.logger.Error("enqueue failed for file", "path", p, "error", err)
			return enqueued, fmt.Errorf("enqueue %s: %w", p, err)
		}
		enqueued++
	}
	return enqueued, nil
}
