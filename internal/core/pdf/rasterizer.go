package pdf

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/ocr"
)

// Rasterizer renders every page of a PDF, in document order.
type Rasterizer interface {
	Render(ctx context.Context, data []byte) ([]image.Image, error)
}

// PopplerConfig configures the pdftoppm rasterizer.
type PopplerConfig struct {
	Binary   string // default "pdftoppm"
	DPI      int    // default 200
	MaxPages int    // 0 = all pages
	Timeout  time.Duration
}

// Poppler renders pages with pdftoppm into a temp dir and decodes the PNGs.
type Poppler struct {
	cfg    PopplerConfig
	runner ocr.Runner
	logger *slog.Logger
}

func NewPoppler(cfg PopplerConfig, runner ocr.Runner, logger *slog.Logger) *Poppler {
	if cfg.Binary == "" {
		cfg.Binary = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if runner == nil {
		runner = ocr.NewExecRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poppler{cfg: cfg, runner: runner, logger: logger}
}

func (p *Poppler) Render(ctx context.Context, data []byte) ([]image.Image, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	tmpDir, err := os.MkdirTemp("", "ig-pp-*")
	if err != nil {
		return nil, renderFailure(err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			p.logger.Warn("pdf.poppler.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, renderFailure(err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png [-l N] <in.pdf> <tmp/page>
	args := []string{"-r", strconv.Itoa(p.cfg.DPI), "-png"}
	if p.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(p.cfg.MaxPages))
	}
	args = append(args, in, prefix)
	if _, _, err := p.runner.Run(ctx, p.cfg.Binary, p.logger, args...); err != nil {
		return nil, renderFailure(err)
	}

	// pdftoppm zero-pads page numbers to a common width, so lexical order is page order
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, renderFailure(err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, renderFailure(fmt.Errorf("pdftoppm produced no images"))
	}

	pages := make([]image.Image, 0, len(matches))
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, renderFailure(err)
		}
		img, _, err := ocr.Decode(raw)
		if err != nil {
			return nil, renderFailure(fmt.Errorf("decode %s: %w", filepath.Base(path), err))
		}
		pages = append(pages, img)
	}
	p.logger.Debug("pdf.poppler.rendered", "pages", len(pages), "dpi", p.cfg.DPI)
	return pages, nil
}

func renderFailure(err error) error {
	return common.NewAppError(common.CodeRenderFailure, err.Error(), common.ErrRender)
}
