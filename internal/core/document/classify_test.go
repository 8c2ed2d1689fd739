package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/insuregenie/constants"
)

func TestClassify(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

	tests := []struct {
		name     string
		data     []byte
		filename string
		want     constants.DocumentKind
	}{
		{"pdf extension wins over content", pngHeader, "policy.pdf", constants.PDF},
		{"upper case extension", nil, "SCAN.PDF", constants.PDF},
		{"magic bytes without filename", []byte("%PDF-1.7\n..."), "", constants.PDF},
		{"magic bytes with image filename", []byte("%PDF-1.4"), "photo.jpg", constants.PDF},
		{"png content and name", pngHeader, "card.png", constants.IMAGE},
		{"empty payload", nil, "", constants.IMAGE},
		{"short payload", []byte("%PD"), "", constants.IMAGE},
		{"pdf only in the middle of the name", []byte("GIF89a"), "policy.pdf.png", constants.IMAGE},
		{"lowercase magic is not a pdf", []byte("%pdf-1.4"), "", constants.IMAGE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.data, tt.filename))
		})
	}
}
