package model

import "time"

// Sitemap document kinds.
const (
	// SitemapTypeIndex marks a sitemap index referencing child sitemaps.
	SitemapTypeIndex = "index"

	// SitemapTypeURLSet marks a plain urlset sitemap listing page URLs.
	SitemapTypeURLSet = "urlset"
)

// SitemapEntry is one child sitemap referenced by a sitemap index.
type SitemapEntry struct {
	// Loc is the child sitemap URL.
	Loc string `json:"loc"`

	// LastMod is the raw lastmod value, empty when absent.
	LastMod string `json:"lastmod,omitempty"`
}

// SitemapStats summarizes the URL entries of a urlset sitemap.
type SitemapStats struct {
	// TotalURLs is the number of url entries.
	TotalURLs int `json:"total_urls"`

	// WithLastMod counts entries carrying a lastmod element.
	WithLastMod int `json:"urls_with_lastmod"`

	// WithChangeFreq counts entries carrying a changefreq element.
	WithChangeFreq int `json:"urls_with_changefreq"`

	// WithPriority counts entries carrying a priority element.
	WithPriority int `json:"urls_with_priority"`

	// Duplicates counts exact duplicate locations.
	Duplicates int `json:"duplicate_urls"`

	// Invalid counts locations missing a scheme or host.
	Invalid int `json:"invalid_urls"`

	// LastModPct is the lastmod coverage percentage, one decimal.
	LastModPct float64 `json:"lastmod_percentage"`

	// ChangeFreqPct is the changefreq coverage percentage, one decimal.
	ChangeFreqPct float64 `json:"changefreq_percentage"`

	// PriorityPct is the priority coverage percentage, one decimal.
	PriorityPct float64 `json:"priority_percentage"`

	// StatusCodes histograms the HTTP status codes of probed URLs.
	// Only populated when liveness checking is enabled.
	StatusCodes map[int]int `json:"status_codes,omitempty"`
}

// SitemapResult is the outcome of one sitemap analysis run.
type SitemapResult struct {
	// URL is the analyzed sitemap address.
	URL string `json:"url"`

	// Timestamp is when the analysis ran, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Status is completed when the sitemap was fetched and recognized,
	// error otherwise, not_found when discovery located nothing.
	Status RunStatus `json:"status"`

	// Type is the recognized document kind: index or urlset.
	Type string `json:"type,omitempty"`

	// URLCount is the number of url entries in a urlset sitemap.
	URLCount int `json:"urls_count"`

	// Sitemaps lists the child sitemaps of an index document.
	Sitemaps []SitemapEntry `json:"sitemaps,omitempty"`

	// Stats summarizes the urlset entries.
	Stats *SitemapStats `json:"stats,omitempty"`

	// Errors lists fatal defects such as missing loc elements.
	Errors []string `json:"errors,omitempty"`

	// Warnings lists non-fatal defects such as invalid lastmod values.
	Warnings []string `json:"warnings,omitempty"`

	// Info lists neutral notes such as unreachable probe targets.
	Info []string `json:"info,omitempty"`

	// Recommendations lists improvements derived from the statistics.
	Recommendations []string `json:"recommendations,omitempty"`

	// DiscoveredSitemaps lists sitemap URLs located during discovery.
	DiscoveredSitemaps []string `json:"discovered_sitemaps,omitempty"`

	// Error holds the failure message when Status is error.
	Error string `json:"error,omitempty"`
}

// NewSitemapResult returns a sitemap result for the given URL stamped with
// the current UTC time.
func NewSitemapResult(url string) *SitemapResult {
	return &SitemapResult{
		URL:       url,
		Timestamp: time.Now().UTC(),
		Status:    RunCompleted,
	}
}

// Fail marks the analysis as unrunnable and records the failure message.
func (r *SitemapResult) Fail(err error) {
	r.Status = RunError
	if err != nil {
		r.Error = err.Error()
	}
}

// AddError records a fatal defect.
func (r *SitemapResult) AddError(message string) {
	r.Errors = append(r.Errors, message)
}

// AddWarning records a non-fatal defect.
func (r *SitemapResult) AddWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// AddInfo records a neutral note.
func (r *SitemapResult) AddInfo(message string) {
	r.Info = append(r.Info, message)
}
