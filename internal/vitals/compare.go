package vitals

import (
	"context"
	"sort"
	"time"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// ComparisonMetrics are the metric keys summarized when comparing URLs.
func ComparisonMetrics() []string {
	return []string{MetricLCP, MetricFID, MetricCLS, MetricFCP, MetricTTFB}
}

// AnalyzeBulk analyzes several URLs sequentially with the configured delay
// between requests. A failing URL yields an error result in its slot; the
// remaining URLs are still analyzed. The delay is context-aware so a
// cancelled run stops promptly.
func (c *Client) AnalyzeBulk(ctx context.Context, targets []string, strategy string) []*model.VitalsResult {
	results := make([]*model.VitalsResult, 0, len(targets))
	for i, target := range targets {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				remaining := model.NewVitalsResult(target, strategy)
				remaining.Fail(ctx.Err())
				results = append(results, remaining)
				continue
			case <-time.After(c.delay):
			}
		}
		results = append(results, c.Analyze(ctx, target, strategy))
	}
	return results
}

// Compare analyzes several URLs and summarizes their metrics.
// Statistics and rankings only cover completed analyses; failed URLs stay in
// Results with their error status.
func (c *Client) Compare(ctx context.Context, targets []string, strategy string) *model.Comparison {
	comparison := &model.Comparison{
		Timestamp: time.Now().UTC(),
		Strategy:  strategy,
		Results:   c.AnalyzeBulk(ctx, targets, strategy),
		Stats:     make(map[string]model.MetricStats),
		Rankings:  make(map[string][]model.RankedURL),
	}

	for _, metric := range ComparisonMetrics() {
		var ranked []model.RankedURL
		for _, result := range comparison.Results {
			if result.Status != model.RunCompleted {
				continue
			}
			reading, ok := result.Metrics[metric]
			if !ok {
				continue
			}
			ranked = append(ranked, model.RankedURL{URL: result.URL, Value: reading.Value})
		}
		if len(ranked) == 0 {
			continue
		}

		// Lower is better for every comparison metric.
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].Value < ranked[j].Value })

		comparison.Rankings[metric] = ranked
		comparison.Stats[metric] = summarize(ranked)
	}

	return comparison
}

// summarize computes mean, median, min, and max over ranked values.
// The input must be sorted ascending and non-empty.
func summarize(ranked []model.RankedURL) model.MetricStats {
	sum := 0.0
	for _, r := range ranked {
		sum += r.Value
	}

	n := len(ranked)
	var median float64
	if n%2 == 1 {
		median = ranked[n/2].Value
	} else {
		median = (ranked[n/2-1].Value + ranked[n/2].Value) / 2
	}

	return model.MetricStats{
		Mean:   sum / float64(n),
		Median: median,
		Min:    ranked[0].Value,
		Max:    ranked[n-1].Value,
	}
}
