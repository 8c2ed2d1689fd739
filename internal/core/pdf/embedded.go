package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/insuregenie/internal/core/ocr"
)

// EmbeddedImages rasterizes scanned PDFs without an external renderer: the
// largest image drawn on each page is taken as that page's raster.
type EmbeddedImages struct {
	maxPages int
	logger   *slog.Logger
}

func NewEmbeddedImages(maxPages int, logger *slog.Logger) *EmbeddedImages {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddedImages{maxPages: maxPages, logger: logger}
}

func (e *EmbeddedImages) Render(ctx context.Context, data []byte) ([]image.Image, error) {
	pctx, err := readContext(data)
	if err != nil {
		return nil, renderFailure(err)
	}

	n := pctx.PageCount
	if e.maxPages > 0 && n > e.maxPages {
		n = e.maxPages
	}
	if n == 0 {
		return nil, renderFailure(fmt.Errorf("document has no pages"))
	}

	pages := make([]image.Image, 0, n)
	for pageNr := 1; pageNr <= n; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, renderFailure(err)
		}
		imgs, err := pdfcpu.ExtractPageImages(pctx, pageNr, false)
		if err != nil {
			return nil, renderFailure(fmt.Errorf("page %d: %w", pageNr, err))
		}
		pages = append(pages, e.pageRaster(pageNr, imgs))
	}
	return pages, nil
}

// pageRaster keeps page numbering aligned: a page with no decodable image
// becomes a blank 1x1 raster that recognizes to "".
func (e *EmbeddedImages) pageRaster(pageNr int, imgs map[int]model.Image) image.Image {
	var (
		best     image.Image
		bestArea int
	)
	for objNr, img := range imgs {
		if img.Reader == nil || img.Width*img.Height <= bestArea {
			continue
		}
		raw, err := io.ReadAll(img)
		if err != nil {
			e.logger.Warn("pdf.embedded.read_failed", "page", pageNr, "obj_nr", objNr, "error", err)
			continue
		}
		decoded, _, err := ocr.Decode(raw)
		if err != nil {
			e.logger.Debug("pdf.embedded.skip_image", "page", pageNr, "obj_nr", objNr, "file_type", img.FileType, "error", err)
			continue
		}
		best, bestArea = decoded, img.Width*img.Height
	}
	if best == nil {
		blank := image.NewGray(image.Rect(0, 0, 1, 1))
		blank.Pix[0] = 0xff
		return blank
	}
	return best
}

// PageCount returns the number of pages pdfcpu sees in data.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), relaxedConfig())
	if err != nil {
		return 0, parseFailure(err)
	}
	return n, nil
}

func readContext(data []byte) (*model.Context, error) {
	return api.ReadValidateAndOptimize(bytes.NewReader(data), relaxedConfig())
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
