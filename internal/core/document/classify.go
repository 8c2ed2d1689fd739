// Package document decides how an uploaded document is routed through extraction.
package document

import (
	"bytes"

	"github.com/joseph-ayodele/insuregenie/constants"
)

// Classify returns PDF when the filename ends in .pdf (any case) or the payload
// starts with the %PDF header, and IMAGE otherwise. It never fails; unreadable
// payloads are left to the image path.
func Classify(data []byte, filename string) constants.DocumentKind {
	if filename != "" && constants.ExtOf(filename) == "pdf" {
		return constants.PDF
	}
	if bytes.HasPrefix(data, []byte(constants.PDFMagic)) {
		return constants.PDF
	}
	return constants.IMAGE
}
