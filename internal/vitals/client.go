package vitals

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// DefaultEndpoint is the PageSpeed Insights v5 API endpoint.
const DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Metric names used as keys in VitalsResult.Metrics.
const (
	MetricLCP  = "lcp"
	MetricFID  = "fid"
	MetricCLS  = "cls"
	MetricFCP  = "fcp"
	MetricTTFB = "ttfb"
	MetricTTI  = "tti"
)

// threshold holds the good and poor boundaries for a metric.
// Values at or below Good are good; values at or below Poor need improvement;
// anything beyond is poor.
type threshold struct {
	Good float64
	Poor float64
}

// metricThresholds are the published Core Web Vitals thresholds.
// LCP is in seconds, FID (approximated by total blocking time) in
// milliseconds, CLS unitless. The remaining metrics have no official
// threshold and classify as unknown.
var metricThresholds = map[string]threshold{
	MetricLCP: {Good: 2.5, Poor: 4.0},
	MetricFID: {Good: 100, Poor: 300},
	MetricCLS: {Good: 0.1, Poor: 0.25},
}

// metricRecommendations maps metrics to fixes suggested when the metric is
// outside the good range.
var metricRecommendations = map[string][]string{
	MetricLCP: {
		"Optimize and compress images above the fold",
		"Preload the largest contentful element's resources",
		"Reduce server response time with caching or a CDN",
	},
	MetricFID: {
		"Break up long JavaScript tasks",
		"Defer or remove unused JavaScript",
		"Use a web worker for heavy computation",
	},
	MetricCLS: {
		"Set explicit width and height on images and embeds",
		"Reserve space for ads and dynamically injected content",
		"Avoid inserting content above existing content",
	},
}

// Client calls the PageSpeed Insights API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	delay      time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the PageSpeed API key. Without a key the API applies
// strict anonymous quotas but still works for occasional use.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithEndpoint overrides the API endpoint. Mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithDelay sets the pause between consecutive bulk requests.
func WithDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.delay = delay
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a PageSpeed client with a 30 second timeout and a
// 1 second bulk delay.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   DefaultEndpoint,
		delay:      time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse mirrors the PageSpeed Insights v5 response fields we consume.
type apiResponse struct {
	LighthouseResult  *lighthouseResult  `json:"lighthouseResult"`
	LoadingExperience *loadingExperience `json:"loadingExperience"`
}

type lighthouseResult struct {
	Audits     map[string]lighthouseAudit `json:"audits"`
	Categories struct {
		Performance struct {
			Score float64 `json:"score"`
		} `json:"performance"`
	} `json:"categories"`
}

type lighthouseAudit struct {
	Score        float64 `json:"score"`
	NumericValue float64 `json:"numericValue"`
	DisplayValue string  `json:"displayValue"`
}

type loadingExperience struct {
	OverallCategory string `json:"overall_category"`
	Metrics         map[string]struct {
		Percentile float64 `json:"percentile"`
		Category   string  `json:"category"`
	} `json:"metrics"`
}

// Analyze requests a PageSpeed analysis for the target URL.
// The API runs a full Lighthouse pass server-side; a single attempt is made
// and any failure is converted into an error result.
func (c *Client) Analyze(ctx context.Context, target, strategy string) *model.VitalsResult {
	result := model.NewVitalsResult(target, strategy)

	reqURL, err := c.requestURL(target, strategy)
	if err != nil {
		result.Fail(err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		result.Fail(fmt.Errorf("failed to create request: %w", err))
		return result
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("pagespeed request failed", "url", target, "error", err)
		result.Fail(fmt.Errorf("pagespeed request failed: %w", err))
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Fail(fmt.Errorf("pagespeed API returned status %d", resp.StatusCode))
		return result
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		result.Fail(fmt.Errorf("failed to decode pagespeed response: %w", err))
		return result
	}
	if api.LighthouseResult == nil {
		result.Fail(fmt.Errorf("pagespeed response missing lighthouse result"))
		return result
	}

	c.extractMetrics(result, api.LighthouseResult)
	result.Score = model.ClampScore(int(math.Round(api.LighthouseResult.Categories.Performance.Score * 100)))
	result.FieldData = extractFieldData(api.LoadingExperience)
	result.Recommendations = recommendations(result.Metrics)

	c.logger.Debug("pagespeed analysis completed", "url", target, "strategy", strategy, "score", result.Score)
	return result
}

// requestURL builds the API request URL with query parameters.
func (c *Client) requestURL(target, strategy string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("url", target)
	q.Set("strategy", strategy)
	q.Set("category", "performance")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// extractMetrics converts Lighthouse audits into normalized metric readings.
// Timing metrics are converted from milliseconds to seconds; blocking time
// and server response time stay in milliseconds; layout shift is unitless.
func (c *Client) extractMetrics(result *model.VitalsResult, lh *lighthouseResult) {
	if audit, ok := lh.Audits["largest-contentful-paint"]; ok {
		value := audit.NumericValue / 1000
		result.Metrics[MetricLCP] = model.MetricReading{
			Value:        value,
			Score:        audit.Score,
			DisplayValue: audit.DisplayValue,
			Status:       classify(MetricLCP, value),
		}
	}
	if audit, ok := lh.Audits["total-blocking-time"]; ok {
		// The field FID metric has no lab equivalent; total blocking
		// time is the accepted lab proxy.
		result.Metrics[MetricFID] = model.MetricReading{
			Value:        audit.NumericValue,
			Score:        audit.Score,
			DisplayValue: fmt.Sprintf("%d ms (TBT)", int(math.Round(audit.NumericValue))),
			Status:       classify(MetricFID, audit.NumericValue),
		}
	}
	if audit, ok := lh.Audits["cumulative-layout-shift"]; ok {
		result.Metrics[MetricCLS] = model.MetricReading{
			Value:        audit.NumericValue,
			Score:        audit.Score,
			DisplayValue: audit.DisplayValue,
			Status:       classify(MetricCLS, audit.NumericValue),
		}
	}
	if audit, ok := lh.Audits["first-contentful-paint"]; ok {
		value := audit.NumericValue / 1000
		result.Metrics[MetricFCP] = model.MetricReading{
			Value:        value,
			Score:        audit.Score,
			DisplayValue: audit.DisplayValue,
			Status:       classify(MetricFCP, value),
		}
	}
	if audit, ok := lh.Audits["server-response-time"]; ok {
		result.Metrics[MetricTTFB] = model.MetricReading{
			Value:        audit.NumericValue,
			Score:        audit.Score,
			DisplayValue: audit.DisplayValue,
			Status:       classify(MetricTTFB, audit.NumericValue),
		}
	}
	if audit, ok := lh.Audits["interactive"]; ok {
		value := audit.NumericValue / 1000
		result.Metrics[MetricTTI] = model.MetricReading{
			Value:        value,
			Score:        audit.Score,
			DisplayValue: audit.DisplayValue,
			Status:       classify(MetricTTI, value),
		}
	}
}

// classify buckets a metric value against the fixed thresholds.
// Metrics without published thresholds classify as unknown.
func classify(metric string, value float64) model.MetricStatus {
	t, ok := metricThresholds[metric]
	if !ok {
		return model.MetricUnknown
	}
	switch {
	case value <= t.Good:
		return model.MetricGood
	case value <= t.Poor:
		return model.MetricNeedsImprovement
	default:
		return model.MetricPoor
	}
}

// extractFieldData converts the CrUX loading experience section.
func extractFieldData(le *loadingExperience) *model.FieldData {
	if le == nil || (le.OverallCategory == "" && len(le.Metrics) == 0) {
		return nil
	}
	fd := &model.FieldData{
		OverallCategory: le.OverallCategory,
		Metrics:         make(map[string]model.FieldMetric, len(le.Metrics)),
	}
	for name, m := range le.Metrics {
		fd.Metrics[name] = model.FieldMetric{
			Percentile: m.Percentile,
			Category:   m.Category,
		}
	}
	return fd
}

// recommendations collects fixes for every metric outside the good range.
func recommendations(metrics map[string]model.MetricReading) []string {
	var recs []string
	for _, metric := range []string{MetricLCP, MetricFID, MetricCLS} {
		reading, ok := metrics[metric]
		if !ok {
			continue
		}
		if reading.Status == model.MetricNeedsImprovement || reading.Status == model.MetricPoor {
			recs = append(recs, metricRecommendations[metric]...)
		}
	}
	return recs
}
