package extract

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/core/ocr"
)

// MinUsableChars is the shortest trimmed text worth summarizing.
const MinUsableChars = 20

// TextExtractor is Stage 1: document bytes -> text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) string
	ExtractDetailed(ctx context.Context, data []byte, filename string) Result
}

// Result is the detailed outcome of one extraction. Text follows the public
// contract (trimmed, "" or the not-supported sentinel on failure); Err keeps
// the typed failure for logging and metadata and is never surfaced to callers
// of Extract.
type Result struct {
	Text     string
	Kind     constants.DocumentKind
	Method   constants.ExtractionMethod
	Pages    int
	Duration time.Duration
	Err      error
}

// Usable reports whether text is real content worth summarizing.
func Usable(text string) bool {
	trimmed := strings.TrimSpace(text)
	if ocr.IsNotSupported(trimmed) {
		return false
	}
	return utf8.RuneCountInString(trimmed) >= MinUsableChars
}
