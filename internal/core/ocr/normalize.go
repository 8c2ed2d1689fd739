package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF        = regexp.MustCompile(`\r\n?`)
	reTrailingWS  = regexp.MustCompile(`(?m)[ \t]+$`)
	reFormFeedEnd = regexp.MustCompile(`\f+\s*$`)
)

// CleanRecognized tidies raw recognizer output: unix line endings, no trailing
// blanks on lines, and no trailing page-break form feed. Line structure is kept.
func CleanRecognized(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reFormFeedEnd.ReplaceAllString(s, "")
	s = reTrailingWS.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
