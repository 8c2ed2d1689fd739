// Package validate checks the summarizer output before it is stored.
package validate

import (
	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
)

// ErrSummaryMissing is reported when the summary is absent, empty or a failure marker.
const ErrSummaryMissing = "Summary missing or failed to generate."

// Result is the validation outcome. Status is FAIL iff Errors is non-empty.
type Result struct {
	Status constants.ValidationStatus `json:"status"`
	Errors []string                   `json:"errors"`
}

// Passed reports whether no rule failed.
func (r Result) Passed() bool { return r.Status == constants.ValidationPass }

// Validate applies every rule to fields.
func Validate(fields llm.Fields) Result {
	var errs []string
	if fields.Failed() {
		errs = append(errs, ErrSummaryMissing)
	}
	return New(errs...)
}

// New builds a Result whose status follows errs.
func New(errs ...string) Result {
	if len(errs) == 0 {
		return Result{Status: constants.ValidationPass, Errors: []string{}}
	}
	return Result{Status: constants.ValidationFail, Errors: errs}
}
