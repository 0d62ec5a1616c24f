package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// MetricStatus classifies a Core Web Vitals reading against the fixed
// Google-published thresholds.
type MetricStatus int

const (
	// MetricGood indicates the reading is within the good threshold.
	MetricGood MetricStatus = iota

	// MetricNeedsImprovement indicates the reading is between the good and
	// poor thresholds.
	MetricNeedsImprovement

	// MetricPoor indicates the reading is beyond the poor threshold.
	MetricPoor

	// MetricUnknown indicates no threshold applies to the metric.
	MetricUnknown
)

// String returns the stable serialized form of the metric status.
func (s MetricStatus) String() string {
	switch s {
	case MetricGood:
		return "good"
	case MetricNeedsImprovement:
		return "needs-improvement"
	case MetricPoor:
		return "poor"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the metric status as its string form.
func (s MetricStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form back into a MetricStatus.
func (s *MetricStatus) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	switch text {
	case "good":
		*s = MetricGood
	case "needs-improvement":
		*s = MetricNeedsImprovement
	case "poor":
		*s = MetricPoor
	case "unknown":
		*s = MetricUnknown
	default:
		return fmt.Errorf("unknown metric status %q", text)
	}
	return nil
}

// MetricReading is a single lab metric relayed from the PageSpeed API.
type MetricReading struct {
	// Value is the normalized reading: seconds for timing metrics,
	// milliseconds for blocking time, unitless for layout shift.
	Value float64 `json:"value"`

	// Score is the 0-1 Lighthouse audit score for the metric.
	Score float64 `json:"score"`

	// DisplayValue is the human-readable form, such as "2.5 s".
	DisplayValue string `json:"display_value"`

	// Status classifies the reading against the fixed thresholds.
	Status MetricStatus `json:"status"`
}

// FieldMetric is a real-user (CrUX) metric percentile.
type FieldMetric struct {
	// Percentile is the 75th percentile reading.
	Percentile float64 `json:"percentile"`

	// Category is the API-reported bucket: FAST, AVERAGE, or SLOW.
	Category string `json:"category"`
}

// FieldData is the real-user experience section of a PageSpeed response.
type FieldData struct {
	// OverallCategory is the API-reported overall bucket.
	OverallCategory string `json:"overall_category"`

	// Metrics maps metric names to their field percentiles.
	Metrics map[string]FieldMetric `json:"metrics,omitempty"`
}

// VitalsResult is the outcome of one Core Web Vitals analysis.
type VitalsResult struct {
	// URL is the analyzed page address.
	URL string `json:"url"`

	// Strategy is the analysis strategy: mobile or desktop.
	Strategy string `json:"strategy"`

	// Timestamp is when the analysis ran, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Status is completed when the API responded, error otherwise.
	Status RunStatus `json:"status"`

	// Score is the rounded Lighthouse performance score, 0-100.
	Score int `json:"score"`

	// Metrics maps metric names (lcp, fid, cls, fcp, ttfb, tti) to their
	// lab readings.
	Metrics map[string]MetricReading `json:"metrics,omitempty"`

	// FieldData holds real-user percentiles when the API returned them.
	FieldData *FieldData `json:"field_data,omitempty"`

	// Recommendations lists fixes for metrics outside the good threshold.
	Recommendations []string `json:"recommendations,omitempty"`

	// Error holds the failure message when Status is error.
	Error string `json:"error,omitempty"`
}

// NewVitalsResult returns a vitals result for the given URL and strategy
// stamped with the current UTC time.
func NewVitalsResult(url, strategy string) *VitalsResult {
	return &VitalsResult{
		URL:       url,
		Strategy:  strategy,
		Timestamp: time.Now().UTC(),
		Status:    RunCompleted,
		Metrics:   make(map[string]MetricReading),
	}
}

// Fail marks the analysis as unrunnable and clears the score.
func (r *VitalsResult) Fail(err error) {
	r.Status = RunError
	r.Score = 0
	if err != nil {
		r.Error = err.Error()
	}
}

// MetricStats summarizes one metric across a set of URLs.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// RankedURL pairs a URL with its raw metric value for comparison rankings.
type RankedURL struct {
	URL   string  `json:"url"`
	Value float64 `json:"value"`
}

// Comparison is the outcome of analyzing several URLs and comparing their
// Core Web Vitals.
type Comparison struct {
	// Timestamp is when the comparison ran, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Strategy is the analysis strategy shared by all results.
	Strategy string `json:"strategy"`

	// Results holds the per-URL analyses in input order.
	Results []*VitalsResult `json:"results"`

	// Stats maps metric names to summary statistics over completed results.
	Stats map[string]MetricStats `json:"stats,omitempty"`

	// Rankings maps metric names to URLs sorted ascending by raw value,
	// so the best performer for each metric comes first.
	Rankings map[string][]RankedURL `json:"rankings,omitempty"`
}
