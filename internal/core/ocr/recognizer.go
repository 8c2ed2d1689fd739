package ocr

import (
	"context"
	"image"
	"strings"
)

// NotSupportedText is returned in place of extracted text when recognition is
// disabled for the deployment.
const NotSupportedText = "⚠️ OCR is not supported in this deployment. Upload a PDF with selectable text."

// Recognizer turns a raster into text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
	// Available reports whether Recognize performs real recognition.
	Available() bool
}

// Unavailable is the recognizer used when no OCR engine is installed.
type Unavailable struct{}

func (Unavailable) Recognize(context.Context, image.Image) (string, error) {
	return NotSupportedText, nil
}

func (Unavailable) Available() bool { return false }

// IsNotSupported reports whether text is the disabled-recognition sentinel.
func IsNotSupported(text string) bool {
	return strings.TrimSpace(text) == NotSupportedText
}
