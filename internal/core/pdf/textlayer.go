// Package pdf wraps the PDF collaborators used by extraction: the structural
// text-layer reader and the page rasterizers.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/insuregenie/internal/common"
)

// TextLayer reads the embedded text of every page.
type TextLayer interface {
	PageTexts(data []byte) ([]string, error)
}

// LayerReader implements TextLayer with github.com/ledongthuc/pdf.
type LayerReader struct{}

func NewLayerReader() LayerReader { return LayerReader{} }

// PageTexts returns one entry per page in document order. Pages without a
// content dictionary yield "". Malformed documents return PARSE_FAILURE.
func (LayerReader) PageTexts(data []byte) (pages []string, err error) {
	// the parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = parseFailure(fmt.Errorf("parser panic: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, parseFailure(err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, parseFailure(fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func parseFailure(err error) error {
	return common.NewAppError(common.CodeParseFailure, err.Error(), common.ErrParse)
}
