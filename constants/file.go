package constants

import (
	"path/filepath"
	"strings"
)

// DocumentKind is the coarse classification used to route a document through extraction.
type DocumentKind string

const (
	PDF   DocumentKind = "PDF"
	IMAGE DocumentKind = "IMAGE"
)

// PDFMagic is the header every PDF file starts with.
const PDFMagic = "%PDF"

// AllowedExtensions holds the file extensions accepted for batch ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ExtOf returns the normalized extension of a filename ("" when there is none).
func ExtOf(filename string) string {
	return NormalizeExt(filepath.Ext(filename))
}

// IsAllowedExt reports whether ext (with or without the dot) is accepted for ingestion.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
