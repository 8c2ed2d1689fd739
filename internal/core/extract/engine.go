// Package extract implements the text extraction policy: image OCR, and for
// PDFs the text layer first with render-and-recognize as the fallback.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/document"
	"github.com/joseph-ayodele/insuregenie/internal/core/ocr"
	"github.com/joseph-ayodele/insuregenie/internal/core/pdf"
)

// Engine wires the classifier, preprocessor, recognizer and PDF collaborators.
type Engine struct {
	textLayer  pdf.TextLayer
	rasterizer pdf.Rasterizer
	recognizer ocr.Recognizer
	logger     *slog.Logger
}

func NewEngine(textLayer pdf.TextLayer, rasterizer pdf.Rasterizer, recognizer ocr.Recognizer, logger *slog.Logger) *Engine {
	if textLayer == nil {
		textLayer = pdf.NewLayerReader()
	}
	if recognizer == nil {
		recognizer = ocr.Unavailable{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		textLayer:  textLayer,
		rasterizer: rasterizer,
		recognizer: recognizer,
		logger:     logger,
	}
}

// Extract returns trimmed text, "" when every path failed, or
// ocr.NotSupportedText when recognition is needed but disabled. It never fails.
func (e *Engine) Extract(ctx context.Context, data []byte, filename string) string {
	return e.ExtractDetailed(ctx, data, filename).Text
}

func (e *Engine) ExtractDetailed(ctx context.Context, data []byte, filename string) Result {
	start := time.Now()
	log := common.LoggerFrom(ctx, e.logger).With("filename", filename, "bytes", len(data))

	kind := document.Classify(data, filename)
	var res Result
	if kind == constants.PDF {
		res = e.extractPDF(ctx, data, log)
	} else {
		res = e.extractImage(ctx, data, log)
	}
	res.Kind = kind
	res.Duration = time.Since(start)

	log.Info("extract.done",
		"kind", res.Kind,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"failure", common.ErrorCode(res.Err),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res
}

func (e *Engine) extractImage(ctx context.Context, data []byte, log *slog.Logger) Result {
	if !e.recognizer.Available() {
		return Result{Text: ocr.NotSupportedText, Method: constants.MethodUnsupported, Pages: 1}
	}
	raster, err := ocr.Preprocess(data)
	if err != nil {
		log.Warn("extract.image.decode_failed", "error", err)
		return Result{Method: constants.MethodNone, Err: err}
	}
	text, err := e.recognizer.Recognize(ctx, raster)
	if err != nil {
		log.Warn("extract.image.recognize_failed", "error", err)
		return Result{Method: constants.MethodNone, Pages: 1, Err: err}
	}
	return Result{Text: strings.TrimSpace(text), Method: constants.MethodImageOCR, Pages: 1}
}

func (e *Engine) extractPDF(ctx context.Context, data []byte, log *slog.Logger) Result {
	text, pages, err := e.textLayerText(data)
	switch {
	case err != nil:
		log.Warn("extract.tier1.parse_failed", "error", err)
	case text != "":
		return Result{Text: text, Method: constants.MethodTextLayer, Pages: pages}
	default:
		log.Info("extract.tier1.empty", "pages", pages)
	}

	res := e.recognizePages(ctx, data, log)
	if res.Err == nil && err != nil {
		res.Err = err
	}
	if res.Pages == 0 {
		res.Pages = pages
	}
	if res.Pages == 0 {
		n, cerr := pdf.PageCount(data)
		if cerr != nil {
			log.Debug("extract.page_count_failed", "error", cerr)
		}
		res.Pages = n
	}
	return res
}

// textLayerText joins every page's embedded text with a blank line.
func (e *Engine) textLayerText(data []byte) (string, int, error) {
	pages, err := e.textLayer.PageTexts(data)
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(strings.Join(pages, "\n\n")), len(pages), nil
}

// recognizePages is tier 2. Only a rasterizer failure aborts the document;
// a page that fails recognition contributes empty text under its marker.
func (e *Engine) recognizePages(ctx context.Context, data []byte, log *slog.Logger) Result {
	if !e.recognizer.Available() {
		return Result{Text: ocr.NotSupportedText, Method: constants.MethodUnsupported}
	}
	if e.rasterizer == nil {
		err := common.NewAppError(common.CodeRenderFailure, "no rasterizer configured", common.ErrRender)
		log.Error("extract.tier2.render_failed", "error", err)
		return Result{Method: constants.MethodNone, Err: err}
	}

	rasters, err := e.rasterizer.Render(ctx, data)
	if err != nil {
		log.Error("extract.tier2.render_failed", "error", err)
		return Result{Method: constants.MethodNone, Err: err}
	}

	var (
		b        strings.Builder
		firstErr error
	)
	for i, raster := range rasters {
		pageText, err := e.recognizer.Recognize(ctx, ocr.Binarize(raster))
		if err != nil {
			log.Warn("extract.tier2.page_failed", "page", i+1, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", i+1, err)
			}
			pageText = ""
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n", i+1)
		b.WriteString(pageText)
	}
	if firstErr != nil && !errors.Is(firstErr, common.ErrRecognition) {
		firstErr = common.NewAppError(common.CodeRecognitionFailure, firstErr.Error(), common.ErrRecognition)
	}
	return Result{
		Text:   strings.TrimSpace(b.String()),
		Method: constants.MethodPDFOCR,
		Pages:  len(rasters),
		Err:    firstErr,
	}
}
