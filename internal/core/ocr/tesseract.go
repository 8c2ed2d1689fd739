package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joseph-ayodele/insuregenie/internal/common"
)

// TesseractConfig mirrors common.OCRConfig for the recognizer.
type TesseractConfig struct {
	Binary      string // default "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	PSM         int // 0 keeps tesseract's default
	OEM         int // 0 keeps tesseract's default
	Timeout     time.Duration
}

// Tesseract runs the tesseract CLI on a temporary PNG.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, runner Runner, logger *slog.Logger) *Tesseract {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

func (t *Tesseract) Available() bool { return true }

// Recognize returns cleaned text. Failures are RECOGNITION_FAILURE AppErrors.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	tmpDir, err := os.MkdirTemp("", "ig-tess-*")
	if err != nil {
		return "", recognitionFailure("create temp dir", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.logger.Warn("ocr.tesseract.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "page.png")
	if err := writePNG(in, img); err != nil {
		return "", recognitionFailure("encode raster", err)
	}

	// tesseract <in> stdout -l <lang> [--psm N] [--oem N] [--tessdata-dir D]
	args := []string{in, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	start := time.Now()
	out, _, err := t.runner.Run(ctx, t.cfg.Binary, t.logger, args...)
	if err != nil {
		return "", recognitionFailure("tesseract", err)
	}
	text := CleanRecognized(string(out))
	t.logger.Debug("ocr.tesseract.ok",
		"raster", describe(img),
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func recognitionFailure(step string, err error) error {
	return common.NewAppError(common.CodeRecognitionFailure, fmt.Sprintf("%s: %v", step, err), common.ErrRecognition)
}
