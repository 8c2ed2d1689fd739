package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/ocr"
	"github.com/joseph-ayodele/insuregenie/internal/core/pdf"
)

// NewFromConfig wires an Engine for the configured recognition engine and
// rasterizer. runner may be nil to use the real exec runner.
func NewFromConfig(cfg common.OCRConfig, runner ocr.Runner, logger *slog.Logger) *Engine {
	if runner == nil {
		runner = ocr.NewExecRunner()
	}

	var recognizer ocr.Recognizer = ocr.Unavailable{}
	if cfg.Engine == common.OCREngineTesseract {
		recognizer = ocr.NewTesseract(ocr.TesseractConfig{
			Binary:      cfg.Tesseract,
			Lang:        cfg.Lang,
			TessdataDir: cfg.TessdataDir,
			PSM:         cfg.PSM,
			OEM:         cfg.OEM,
			Timeout:     cfg.CommandTimeout,
		}, runner, logger)
	}

	var rasterizer pdf.Rasterizer
	switch cfg.Rasterizer {
	case common.RasterizerEmbedded:
		rasterizer = pdf.NewEmbeddedImages(cfg.MaxPages, logger)
	default:
		rasterizer = pdf.NewPoppler(pdf.PopplerConfig{
			Binary:   cfg.Pdftoppm,
			DPI:      cfg.DPI,
			MaxPages: cfg.MaxPages,
			Timeout:  cfg.CommandTimeout,
		}, runner, logger)
	}

	return NewEngine(pdf.NewLayerReader(), rasterizer, recognizer, logger)
}
