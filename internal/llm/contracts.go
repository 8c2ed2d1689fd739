package llm

import (
	"context"
	"strings"
)

// FailureMarker prefixes every summary produced on a failed summarization.
const FailureMarker = "❌"

// FieldSummary is the key the summary text is stored under.
const FieldSummary = "summary"

// Fields is the summarizer output: field name -> value. It is persisted verbatim
// as document metadata.
type Fields map[string]string

// Summary returns the summary field and whether it was present.
func (f Fields) Summary() (string, bool) {
	s, ok := f[FieldSummary]
	return s, ok
}

// Failed reports whether the summary is missing, empty or a failure marker.
func (f Fields) Failed() bool {
	s, ok := f.Summary()
	return !ok || s == "" || strings.HasPrefix(s, FailureMarker)
}

// FailedSummary builds the Fields returned in place of an error.
func FailedSummary(details string) Fields {
	return Fields{FieldSummary: FailureMarker + " " + details}
}

// Summarizer turns extracted policy text into a plain-language summary.
// Implementations never return an error: failures come back as a summary
// starting with FailureMarker.
type Summarizer interface {
	Summarize(ctx context.Context, text string) Fields
}
