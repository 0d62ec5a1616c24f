package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// CheckKind identifies one of the technical audit checks.
//
// Design decision: An enumerated kind rather than bare strings lets the audit
// engine keep its dispatch table total and testable. The String() form is the
// stable name used in JSON output, the --checks flag, and CSV headers.
type CheckKind int

const (
	// CheckTitle inspects the <title> tag for presence, length, and
	// generic placeholder values.
	CheckTitle CheckKind = iota

	// CheckMetaDescription inspects the meta description for presence,
	// length, and duplication of the title.
	CheckMetaDescription

	// CheckHeadings inspects the h1-h6 hierarchy.
	CheckHeadings

	// CheckImages inspects img tags for alt text and explicit dimensions.
	CheckImages

	// CheckCanonical inspects the rel=canonical link.
	CheckCanonical

	// CheckRobotsMeta inspects the robots meta tag for indexing directives.
	CheckRobotsMeta

	// CheckSchemaMarkup inspects JSON-LD structured data blocks.
	CheckSchemaMarkup

	// CheckLinks classifies anchors as internal or external and inspects
	// external link rel attributes.
	CheckLinks
)

// String returns the stable name of the check.
func (k CheckKind) String() string {
	switch k {
	case CheckTitle:
		return "title"
	case CheckMetaDescription:
		return "meta_description"
	case CheckHeadings:
		return "headings"
	case CheckImages:
		return "images"
	case CheckCanonical:
		return "canonical"
	case CheckRobotsMeta:
		return "robots"
	case CheckSchemaMarkup:
		return "schema"
	case CheckLinks:
		return "links"
	default:
		return "unknown"
	}
}

// ParseCheckKind converts a check name back into its CheckKind.
func ParseCheckKind(name string) (CheckKind, error) {
	for _, k := range AllCheckKinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return CheckTitle, fmt.Errorf("unknown check %q", name)
}

// AllCheckKinds returns every technical audit check in execution order.
func AllCheckKinds() []CheckKind {
	return []CheckKind{
		CheckTitle,
		CheckMetaDescription,
		CheckHeadings,
		CheckImages,
		CheckCanonical,
		CheckRobotsMeta,
		CheckSchemaMarkup,
		CheckLinks,
	}
}

// CheckResult holds the outcome of a single technical audit check.
type CheckResult struct {
	// Status is the check outcome: ok, warning, or error.
	Status CheckStatus `json:"status"`

	// Message describes the finding when the check did not pass cleanly.
	Message string `json:"message,omitempty"`

	// Content is the inspected value, such as the title text or the
	// canonical URL.
	Content string `json:"content,omitempty"`

	// Length is the character count of Content where length rules apply.
	Length int `json:"length,omitempty"`

	// Details carries check-specific counters and lists, such as image
	// counts or heading structure.
	Details map[string]any `json:"details,omitempty"`

	// Recommendations lists concrete fixes for the findings.
	Recommendations []string `json:"recommendations,omitempty"`
}

// IssueTally counts check outcomes by severity.
type IssueTally struct {
	// Critical is the number of checks that ended in an error.
	Critical int `json:"critical"`

	// Warnings is the number of checks that ended in a warning.
	Warnings int `json:"warnings"`

	// Passed is the number of checks that passed cleanly.
	Passed int `json:"passed"`
}

// Total returns the number of checks that ran.
func (t IssueTally) Total() int {
	return t.Critical + t.Warnings + t.Passed
}

// AuditResult is the outcome of a technical audit run against one URL.
//
// Design decision: Checks accumulate through AddCheck so the tally and the
// check map can never disagree. Callers never write the map directly.
type AuditResult struct {
	// URL is the audited page address.
	URL string `json:"url"`

	// Timestamp is when the audit ran, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Status is completed when the page was fetched and parsed, error when
	// the audit could not run at all.
	Status RunStatus `json:"status"`

	// Score is the percentage of checks that passed, 0-100.
	Score int `json:"score"`

	// Checks maps check names to their results.
	Checks map[string]*CheckResult `json:"checks,omitempty"`

	// Issues tallies check outcomes by severity.
	Issues IssueTally `json:"issues"`

	// Error holds the failure message when Status is error.
	Error string `json:"error,omitempty"`
}

// NewAuditResult returns an audit result for the given URL stamped with the
// current UTC time.
func NewAuditResult(url string) *AuditResult {
	return &AuditResult{
		URL:       url,
		Timestamp: time.Now().UTC(),
		Status:    RunCompleted,
		Checks:    make(map[string]*CheckResult),
	}
}

// AddCheck records a check result and updates the severity tally.
func (r *AuditResult) AddCheck(kind CheckKind, result *CheckResult) {
	if result == nil {
		return
	}
	if r.Checks == nil {
		r.Checks = make(map[string]*CheckResult)
	}
	r.Checks[kind.String()] = result

	switch result.Status {
	case CheckStatusError:
		r.Issues.Critical++
	case CheckStatusWarning:
		r.Issues.Warnings++
	case CheckStatusOK:
		r.Issues.Passed++
	}
}

// FinalizeScore computes the overall score from the tally.
// The score is the rounded percentage of passed checks, 0 when nothing ran.
func (r *AuditResult) FinalizeScore() {
	r.Score = ratioScore(r.Issues.Passed, r.Issues.Total())
}

// Fail marks the audit as unrunnable and clears the score.
func (r *AuditResult) Fail(err error) {
	r.Status = RunError
	r.Score = 0
	if err != nil {
		r.Error = err.Error()
	}
}

// CheckNames returns the recorded check names in stable sorted order.
func (r *AuditResult) CheckNames() []string {
	names := make([]string, 0, len(r.Checks))
	for name := range r.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ratioScore converts passed/total into a 0-100 score, rounding half up.
func ratioScore(passed, total int) int {
	if total <= 0 {
		return 0
	}
	score := int(math.Round(float64(passed) / float64(total) * 100))
	return ClampScore(score)
}

// ClampScore bounds a score to the 0-100 range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
