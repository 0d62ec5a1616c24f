package model

import (
	"time"

	"github.com/google/uuid"
)

// Report aggregates the component results of one audit run against a URL.
//
// Design decision: Each component keeps its own fetch and its own result
// record. The aggregate only collects them, so a single failing component
// never poisons the rest of the run. Single-component commands build a Report
// with just their section set, which lets every output format render from one
// structure.
type Report struct {
	// ID uniquely identifies this report for history storage.
	ID string `json:"id"`

	// URL is the audited address.
	URL string `json:"url"`

	// Timestamp is when the run started, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Technical holds the technical audit section, nil when not run.
	Technical *AuditResult `json:"technical,omitempty"`

	// Vitals holds the Core Web Vitals section, nil when not run.
	Vitals *VitalsResult `json:"core_web_vitals,omitempty"`

	// Schema holds the structured data section, nil when not run.
	Schema *SchemaResult `json:"schema,omitempty"`

	// Sitemap holds the sitemap section, nil when not run.
	Sitemap *SitemapResult `json:"sitemap,omitempty"`

	// Mobile holds the mobile-friendliness section, nil when not run.
	Mobile *MobileResult `json:"mobile,omitempty"`

	// Error holds a run-level failure message, such as an invalid URL.
	Error string `json:"error,omitempty"`
}

// NewReport creates an empty report for the given URL with a fresh ID and
// the current UTC timestamp.
func NewReport(url string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		URL:       url,
		Timestamp: time.Now().UTC(),
	}
}

// SectionScore is a named component score used for summaries.
type SectionScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SectionScores returns the scores of every section present on the report,
// in the fixed section order.
func (r *Report) SectionScores() []SectionScore {
	var scores []SectionScore
	if r.Technical != nil {
		scores = append(scores, SectionScore{Name: "technical", Score: r.Technical.Score})
	}
	if r.Vitals != nil {
		scores = append(scores, SectionScore{Name: "cwv", Score: r.Vitals.Score})
	}
	if r.Schema != nil {
		scores = append(scores, SectionScore{Name: "schema", Score: r.Schema.Score})
	}
	if r.Sitemap != nil {
		// Discovery-only sections carry no score.
		if r.Sitemap.Status == RunCompleted {
			scores = append(scores, SectionScore{Name: "sitemap", Score: sitemapScore(r.Sitemap)})
		}
	}
	if r.Mobile != nil {
		scores = append(scores, SectionScore{Name: "mobile", Score: r.Mobile.Score})
	}
	return scores
}

// OverallScore averages the section scores. The second return value is false
// when no scored section is present.
func (r *Report) OverallScore() (int, bool) {
	scores := r.SectionScores()
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range scores {
		sum += s.Score
	}
	return sum / len(scores), true
}

// CriticalCount sums the blocking findings across all sections.
func (r *Report) CriticalCount() int {
	count := 0
	if r.Technical != nil {
		count += r.Technical.Issues.Critical
	}
	if r.Schema != nil {
		count += len(r.Schema.Errors)
	}
	if r.Sitemap != nil {
		count += len(r.Sitemap.Errors)
	}
	if r.Mobile != nil {
		count += len(r.Mobile.Issues)
	}
	return count
}

// WarningCount sums the non-blocking findings across all sections.
func (r *Report) WarningCount() int {
	count := 0
	if r.Technical != nil {
		count += r.Technical.Issues.Warnings
	}
	if r.Schema != nil {
		count += len(r.Schema.Warnings)
	}
	if r.Sitemap != nil {
		count += len(r.Sitemap.Warnings)
	}
	if r.Mobile != nil {
		count += len(r.Mobile.Warnings)
	}
	return count
}

// sitemapScore derives a coarse score for a sitemap section so that full
// audits can include it in the overall average: 100 minus 20 per error and 5
// per warning, clamped.
func sitemapScore(s *SitemapResult) int {
	return ClampScore(100 - 20*len(s.Errors) - 5*len(s.Warnings))
}
