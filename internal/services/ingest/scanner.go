package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/insuregenie/constants"
)

// Candidate is one matching file found by a scan.
type Candidate struct {
	Path        string
	Ext         string
	Size        int64
	HashHex     string
	Duplicate   bool
	DuplicateOf string // first path seen with the same content
	Err         string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned    uint32
	Matched    uint32
	Duplicates uint32
	Failed     uint32
}

// Scanner finds analyzable documents on the local filesystem.
type Scanner struct {
	logger *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan walks root in lexical order, keeps files with an allowed extension and
// hashes them. A file whose content was already seen in this scan is marked
// Duplicate. Per-file failures are recorded and do not stop the walk.
func (s *Scanner) Scan(ctx context.Context, root string, skipHidden bool) ([]Candidate, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var (
		out   []Candidate
		stats DirStats
		seen  = map[string]string{}
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			out = append(out, Candidate{Path: path, Err: walkErr.Error()})
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++

		ext := constants.ExtOf(path)
		if !constants.IsAllowedExt(ext) {
			return nil
		}
		stats.Matched++

		c := Candidate{Path: path, Ext: ext}
		size, sum, err := hashFile(path)
		if err != nil {
			s.logger.Warn("ingest.scan.hash_failed", "path", path, "error", err)
			c.Err = err.Error()
			stats.Failed++
			out = append(out, c)
			return nil
		}
		c.Size, c.HashHex = size, sum
		if first, dup := seen[sum]; dup {
			c.Duplicate, c.DuplicateOf = true, first
			stats.Duplicates++
		} else {
			seen[sum] = path
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return out, stats, fmt.Errorf("walk: %w", err)
	}

	s.logger.Info("ingest.scan.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
	)
	return out, stats, nil
}

func hashFile(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", fmt.Errorf("hash: %w", err)
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
