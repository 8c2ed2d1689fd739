package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/ocr"
	"github.com/joseph-ayodele/insuregenie/internal/core/pdf"
)

func TestNewFromConfig(t *testing.T) {
	cfg := common.DefaultConfig().OCR

	e := NewFromConfig(cfg, nil, nil)
	assert.True(t, e.recognizer.Available())
	assert.IsType(t, &pdf.Poppler{}, e.rasterizer)

	cfg.Engine = common.OCREngineNone
	cfg.Rasterizer = common.RasterizerEmbedded
	e = NewFromConfig(cfg, nil, nil)
	assert.Equal(t, ocr.Unavailable{}, e.recognizer)
	assert.IsType(t, &pdf.EmbeddedImages{}, e.rasterizer)
}
