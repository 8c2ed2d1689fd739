// Package compliance runs the fixed battery of pattern checks against extracted policy text.
package compliance

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/insuregenie/constants"
)

// NotFound is the evidence reported by a failed check.
const NotFound = "Not found"

const (
	CheckPolicyNumber = "Policy Number Present"
	CheckStartDate    = "Start Date Present"
	CheckEndDate      = "End Date Present"
	CheckInsurer      = "Insurer Name Present"
	CheckCoverage     = "Coverage Terms Mentioned"
	CheckExclusions   = "Exclusions Section Present"
)

// Result is the outcome of one check.
type Result struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// Status renders Passed the way reports and the database store it.
func (r Result) Status() constants.ValidationStatus {
	if r.Passed {
		return constants.ValidationPass
	}
	return constants.ValidationFail
}

var (
	// \s is ASCII-only in RE2; text layers often emit U+00A0 between words.
	policyNumberRe = regexp.MustCompile(`(?i)(policy[\s\p{Z}]*no\.?|policy[\s\p{Z}]*number)[:\s\p{Z}]*([A-Za-z0-9\-/]{6,})`)
	dateRe         = regexp.MustCompile(`(0[1-9]|[12][0-9]|3[01])/(0[1-9]|1[0-2])/\d{4}`)
	exclusionsRe   = regexp.MustCompile(`(?i)(exclusions|not covered)`)

	insurerRes  = wordPatterns(constants.InsurersAsStringSlice())
	coverageRes = substringPatterns(constants.CoverageTerms())
)

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// wordPatterns matches whole words. RE2's \b only knows ASCII word
// characters, so the boundary is spelled out over Unicode letters and digits.
func wordPatterns(names []string) []namedPattern {
	const edge = `[^\p{L}\p{N}_]`
	out := make([]namedPattern, 0, len(names))
	for _, n := range names {
		re := regexp.MustCompile(`(?i)(?:^|` + edge + `)` + regexp.QuoteMeta(n) + `(?:$|` + edge + `)`)
		out = append(out, namedPattern{name: n, re: re})
	}
	return out
}

func substringPatterns(terms []string) []namedPattern {
	out := make([]namedPattern, 0, len(terms))
	for _, t := range terms {
		out = append(out, namedPattern{name: t, re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t))})
	}
	return out
}

// RunChecks evaluates every check against text, in display order. It never fails.
func RunChecks(text string) []Result {
	dates := dateRe.FindAllString(text, -1)

	return []Result{
		matchSpan(CheckPolicyNumber, policyNumberRe, text),
		nthDate(CheckStartDate, dates, 0),
		nthDate(CheckEndDate, dates, 1),
		firstListed(CheckInsurer, insurerRes, text),
		firstListed(CheckCoverage, coverageRes, text),
		matchSpan(CheckExclusions, exclusionsRe, text),
	}
}

// Passed counts the checks that passed.
func Passed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Passed {
			n++
		}
	}
	return n
}

func matchSpan(name string, re *regexp.Regexp, text string) Result {
	if m := re.FindString(text); m != "" {
		return Result{Check: name, Passed: true, Details: strings.TrimSpace(m)}
	}
	return Result{Check: name, Details: NotFound}
}

// nthDate reads from the single date scan shared by the start and end checks.
func nthDate(name string, dates []string, i int) Result {
	if len(dates) > i {
		return Result{Check: name, Passed: true, Details: dates[i]}
	}
	return Result{Check: name, Details: NotFound}
}

func firstListed(name string, patterns []namedPattern, text string) Result {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return Result{Check: name, Passed: true, Details: p.name}
		}
	}
	return Result{Check: name, Details: NotFound}
}
