package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/youssefhodaigui/seoaudit/internal/fetch"
	"github.com/youssefhodaigui/seoaudit/internal/model"
)

const (
	// maxSitemapSize is the protocol limit on uncompressed sitemap size.
	maxSitemapSize = 50 * 1024 * 1024

	// maxSitemapURLs is the protocol limit on url entries per sitemap.
	maxSitemapURLs = 50000

	// probeLimit caps how many entry URLs the liveness check visits.
	probeLimit = 10
)

// validChangeFreqs are the changefreq values the sitemap protocol defines.
var validChangeFreqs = map[string]bool{
	"always":  true,
	"hourly":  true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
	"never":   true,
}

// lastModLayouts are the date formats accepted for lastmod values.
var lastModLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type sitemapIndexDoc struct {
	Sitemaps []sitemapRef `xml:"sitemap"`
}

type sitemapRef struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type urlSetDoc struct {
	URLs []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Analyzer fetches and validates sitemaps.
type Analyzer struct {
	fetcher   *fetch.Fetcher
	prober    *fetch.Fetcher
	logger    *slog.Logger
	checkURLs bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFetcher sets the HTTP fetcher used to download sitemaps.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(a *Analyzer) {
		a.fetcher = f
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithURLChecks enables HEAD probing of the first entry URLs.
func WithURLChecks(enabled bool) Option {
	return func(a *Analyzer) {
		a.checkURLs = enabled
	}
}

// New creates an Analyzer. Sitemap downloads get a 30 second timeout and may
// run to the 50MB protocol limit; liveness probes get 5 seconds each.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher: fetch.New(
			fetch.WithTimeout(30*time.Second),
			fetch.WithMaxBodySize(maxSitemapSize+1),
		),
		prober: fetch.New(fetch.WithTimeout(5 * time.Second)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches the sitemap at the given URL and validates it. Transport
// failures mark the result as failed; content defects accumulate as errors,
// warnings, and info notes.
func (a *Analyzer) Analyze(ctx context.Context, target string) *model.SitemapResult {
	result := model.NewSitemapResult(target)

	resp, err := a.fetcher.Get(ctx, target)
	if err != nil {
		a.logger.Debug("sitemap fetch failed", "url", target, "error", err)
		result.Fail(err)
		result.Recommendations = append(result.Recommendations,
			"Fix the errors above before resubmitting the sitemap to search engines")
		return result
	}

	body := decompress(target, resp)
	if len(body) > maxSitemapSize {
		result.Fail(fmt.Errorf("sitemap exceeds the 50MB size limit"))
		result.Recommendations = append(result.Recommendations,
			"Fix the errors above before resubmitting the sitemap to search engines")
		return result
	}

	// The document kind is dispatched on a substring before XML decoding,
	// so a urlset wrapped in junk still gets a useful parse error.
	content := string(body)
	switch {
	case strings.Contains(content, "<sitemapindex"):
		a.analyzeIndex(result, body)
	case strings.Contains(content, "<urlset"):
		a.analyzeURLSet(ctx, result, body, target)
	default:
		result.Fail(errors.New("invalid sitemap format"))
	}

	if result.Status == model.RunError {
		result.Recommendations = append(result.Recommendations,
			"Fix the errors above before resubmitting the sitemap to search engines")
	}

	a.logger.Debug("sitemap analysis finished",
		"url", target,
		"type", result.Type,
		"urls", result.URLCount,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))
	return result
}

// decompress gunzips the body when the URL or content type says so, keeping
// the raw bytes when decompression fails.
func decompress(target string, resp *fetch.Response) []byte {
	gzipped := strings.HasSuffix(strings.ToLower(target), ".gz") ||
		strings.Contains(strings.ToLower(resp.ContentType()), "gzip")
	if !gzipped {
		return resp.Body
	}

	reader, err := gzip.NewReader(bytes.NewReader(resp.Body))
	if err != nil {
		return resp.Body
	}
	defer reader.Close()

	decoded, err := io.ReadAll(io.LimitReader(reader, maxSitemapSize+1))
	if err != nil {
		return resp.Body
	}
	return decoded
}

// analyzeIndex validates a sitemap index document.
func (a *Analyzer) analyzeIndex(result *model.SitemapResult, body []byte) {
	result.Type = model.SitemapTypeIndex

	var doc sitemapIndexDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		result.Fail(fmt.Errorf("failed to parse sitemap index: %w", err))
		return
	}

	if len(doc.Sitemaps) == 0 {
		result.AddError("No sitemaps found in index")
		return
	}

	for i, ref := range doc.Sitemaps {
		loc := strings.TrimSpace(ref.Loc)
		if loc == "" {
			result.AddError(fmt.Sprintf("Sitemap entry %d has no loc element", i+1))
			continue
		}
		if !isAbsoluteURL(loc) {
			result.AddWarning(fmt.Sprintf("Sitemap entry %d has a relative URL: %s", i+1, loc))
		}
		if ref.LastMod != "" && !validLastMod(ref.LastMod) {
			result.AddWarning(fmt.Sprintf("Sitemap entry %d has an invalid lastmod date: %s", i+1, ref.LastMod))
		}
		result.Sitemaps = append(result.Sitemaps, model.SitemapEntry{
			Loc:     loc,
			LastMod: strings.TrimSpace(ref.LastMod),
		})
	}
}

// analyzeURLSet validates a urlset document and computes coverage statistics.
func (a *Analyzer) analyzeURLSet(ctx context.Context, result *model.SitemapResult, body []byte, target string) {
	result.Type = model.SitemapTypeURLSet

	var doc urlSetDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		result.Fail(fmt.Errorf("failed to parse sitemap: %w", err))
		return
	}

	result.URLCount = len(doc.URLs)
	if len(doc.URLs) > maxSitemapURLs {
		result.AddError(fmt.Sprintf("Sitemap contains %d URLs, exceeding the 50,000 limit", len(doc.URLs)))
	}

	stats := &model.SitemapStats{TotalURLs: len(doc.URLs)}
	result.Stats = stats

	sitemapHost := hostOf(target)
	seen := make(map[string]bool, len(doc.URLs))
	crossDomain := 0

	for i, entry := range doc.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			result.AddError(fmt.Sprintf("URL entry %d has no loc element", i+1))
			continue
		}

		if seen[loc] {
			stats.Duplicates++
		}
		seen[loc] = true

		parsed, err := url.Parse(loc)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			stats.Invalid++
			result.AddError(fmt.Sprintf("URL entry %d is not a valid absolute URL: %s", i+1, loc))
			continue
		}

		if sitemapHost != "" && !strings.EqualFold(parsed.Host, sitemapHost) {
			crossDomain++
		}

		if entry.LastMod != "" {
			stats.WithLastMod++
			if !validLastMod(entry.LastMod) {
				result.AddWarning(fmt.Sprintf("URL entry %d has an invalid lastmod date: %s", i+1, entry.LastMod))
			}
		}
		if entry.ChangeFreq != "" {
			stats.WithChangeFreq++
			if !validChangeFreqs[strings.ToLower(strings.TrimSpace(entry.ChangeFreq))] {
				result.AddWarning(fmt.Sprintf("URL entry %d has an invalid changefreq: %s", i+1, entry.ChangeFreq))
			}
		}
		if entry.Priority != "" {
			stats.WithPriority++
			priority, err := strconv.ParseFloat(strings.TrimSpace(entry.Priority), 64)
			if err != nil || priority < 0 || priority > 1 {
				result.AddWarning(fmt.Sprintf("URL entry %d has a priority outside 0.0-1.0: %s", i+1, entry.Priority))
			}
		}
	}

	if crossDomain > 0 {
		result.AddWarning(fmt.Sprintf("%d URLs are on a different domain than the sitemap", crossDomain))
	}
	if stats.Duplicates > 0 {
		result.AddWarning(fmt.Sprintf("%d duplicate URLs found", stats.Duplicates))
	}

	if stats.TotalURLs > 0 {
		stats.LastModPct = roundPct(stats.WithLastMod, stats.TotalURLs)
		stats.ChangeFreqPct = roundPct(stats.WithChangeFreq, stats.TotalURLs)
		stats.PriorityPct = roundPct(stats.WithPriority, stats.TotalURLs)
	}

	if a.checkURLs {
		a.probeEntries(ctx, result, doc.URLs)
	}

	recommendURLSet(result)
}

// probeEntries HEAD-checks the first entry URLs and histograms the statuses.
func (a *Analyzer) probeEntries(ctx context.Context, result *model.SitemapResult, entries []urlEntry) {
	result.Stats.StatusCodes = make(map[int]int)

	checked := 0
	for _, entry := range entries {
		if checked == probeLimit {
			break
		}
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}
		checked++

		code, err := a.prober.Head(ctx, loc)
		if err != nil {
			result.AddInfo(fmt.Sprintf("Could not check %s: %v", loc, err))
			continue
		}
		result.Stats.StatusCodes[code]++
		if code >= 400 {
			result.AddWarning(fmt.Sprintf("%s returned status %d", loc, code))
		}
	}
}

// recommendURLSet derives improvement suggestions from the statistics.
func recommendURLSet(result *model.SitemapResult) {
	stats := result.Stats
	add := func(message string) {
		result.Recommendations = append(result.Recommendations, message)
	}

	if stats.TotalURLs == 0 {
		add("Sitemap contains no URLs; add your pages or remove the sitemap")
		return
	}
	if stats.TotalURLs > 45000 {
		add("Sitemap is close to the 50,000 URL limit; split it into multiple sitemaps with an index")
	} else if stats.TotalURLs > 10000 {
		add("Consider splitting this sitemap and adding a sitemap index for easier maintenance")
	}
	if stats.LastModPct < 50 {
		add("Add lastmod dates to more URLs so crawlers can prioritize fresh content")
	}
	if stats.Duplicates > 0 {
		add("Remove duplicate URLs from the sitemap")
	}
	if stats.Invalid > 0 {
		add("Replace invalid URLs with absolute http or https addresses")
	}
	if stats.WithPriority == stats.TotalURLs {
		add("Every URL has the same priority treatment; vary priorities or drop them")
	} else if stats.WithPriority == 0 {
		add("Consider adding priority hints for your most important pages")
	}
	for code, count := range stats.StatusCodes {
		if code >= 400 {
			add(fmt.Sprintf("Remove or fix the %d URLs returning status %d", count, code))
		}
	}
}

// validLastMod reports whether the value parses as an ISO 8601 date.
func validLastMod(value string) bool {
	value = strings.TrimSpace(value)
	for _, layout := range lastModLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// isAbsoluteURL reports whether the value has both a scheme and a host.
func isAbsoluteURL(value string) bool {
	parsed, err := url.Parse(value)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// hostOf extracts the host of a URL, empty when unparseable.
func hostOf(value string) string {
	parsed, err := url.Parse(value)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// roundPct computes count/total as a percentage rounded to one decimal.
func roundPct(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 10
}
