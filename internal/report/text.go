package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *TextWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeTechnical(&sb, report.Technical)
	w.writeVitals(&sb, report.Vitals)
	w.writeSchema(&sb, report.Schema)
	w.writeSitemap(&sb, report.Sitemap)
	w.writeMobile(&sb, report.Mobile)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          SEO AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("URL:        %s\n", report.URL))
	sb.WriteString(fmt.Sprintf("Audit Date: %s\n", report.Timestamp.Format("2006-01-02 15:04:05 MST")))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:     ERROR - %s\n", report.Error))
	} else {
		sb.WriteString("Status:     Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the section score summary.
func (w *TextWriter) writeSummary(sb *strings.Builder, report *model.Report) {
	scores := report.SectionScores()
	if len(scores) == 0 && !w.showEmpty {
		return
	}

	w.sectionRule(sb, "SCORE SUMMARY")

	for _, section := range scores {
		sb.WriteString(fmt.Sprintf("  %-18s %3d/100 (%s)\n",
			sectionTitle(section.Name)+":", section.Score, scoreGrade(section.Score)))
	}
	if overall, ok := report.OverallScore(); ok {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  %-18s %3d/100 (%s)\n", "Overall:", overall, scoreGrade(overall)))
	}

	sb.WriteString(fmt.Sprintf("\n  Critical issues: %d\n", report.CriticalCount()))
	sb.WriteString(fmt.Sprintf("  Warnings:        %d\n", report.WarningCount()))
	sb.WriteString("\n")
}

// writeTechnical writes the technical audit section with per-check results.
func (w *TextWriter) writeTechnical(sb *strings.Builder, audit *model.AuditResult) {
	if audit == nil {
		return
	}

	w.sectionRule(sb, "TECHNICAL SEO")

	if audit.Status == model.RunError {
		sb.WriteString(fmt.Sprintf("  Audit failed: %s\n\n", audit.Error))
		return
	}

	for _, name := range audit.CheckNames() {
		check := audit.Checks[name]
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", statusBadge(check.Status), sectionTitle(name)))
		sb.WriteString(fmt.Sprintf("      %s\n", check.Message))
		if w.verbose {
			for _, rec := range check.Recommendations {
				sb.WriteString(fmt.Sprintf("      > %s\n", rec))
			}
		}
	}
	sb.WriteString("\n")
}

// writeVitals writes the Core Web Vitals section.
func (w *TextWriter) writeVitals(sb *strings.Builder, vitals *model.VitalsResult) {
	if vitals == nil {
		return
	}

	w.sectionRule(sb, "CORE WEB VITALS")

	if vitals.Status == model.RunError {
		sb.WriteString(fmt.Sprintf("  Analysis failed: %s\n\n", vitals.Error))
		return
	}

	sb.WriteString(fmt.Sprintf("  Strategy:          %s\n", vitals.Strategy))
	sb.WriteString(fmt.Sprintf("  Performance score: %d/100\n\n", vitals.Score))

	names := make([]string, 0, len(vitals.Metrics))
	for name := range vitals.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		metric := vitals.Metrics[name]
		sb.WriteString(fmt.Sprintf("  %-6s %-14s %s\n",
			strings.ToUpper(name)+":", metric.DisplayValue, metricLabel(metric.Status)))
	}

	for _, rec := range vitals.Recommendations {
		sb.WriteString(fmt.Sprintf("  > %s\n", rec))
	}
	sb.WriteString("\n")
}

// writeSchema writes the structured data section.
func (w *TextWriter) writeSchema(sb *strings.Builder, schema *model.SchemaResult) {
	if schema == nil {
		return
	}

	w.sectionRule(sb, "STRUCTURED DATA")

	if schema.Status == model.RunError {
		sb.WriteString(fmt.Sprintf("  Validation failed: %s\n\n", schema.Error))
		return
	}

	if len(schema.SchemasFound) == 0 {
		sb.WriteString("  No structured data found\n")
	} else {
		sb.WriteString(fmt.Sprintf("  Schemas found: %s\n", strings.Join(schema.SchemasFound, ", ")))
	}
	sb.WriteString(fmt.Sprintf("  Score: %d/100\n", schema.Score))

	w.writeFindingList(sb, "Errors", schema.Errors)
	w.writeFindingList(sb, "Warnings", schema.Warnings)
	w.writeFindingList(sb, "Recommendations", schema.Recommendations)
	sb.WriteString("\n")
}

// writeSitemap writes the sitemap section.
func (w *TextWriter) writeSitemap(sb *strings.Builder, sitemap *model.SitemapResult) {
	if sitemap == nil {
		return
	}

	w.sectionRule(sb, "SITEMAP")

	switch sitemap.Status {
	case model.RunError:
		sb.WriteString(fmt.Sprintf("  Analysis failed: %s\n\n", sitemap.Error))
		return
	case model.RunNotFound:
		sb.WriteString("  No sitemap found\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("  Sitemap: %s (%s)\n", sitemap.URL, sitemap.Type))
	if sitemap.Type == model.SitemapTypeIndex {
		sb.WriteString(fmt.Sprintf("  Child sitemaps: %d\n", len(sitemap.Sitemaps)))
	} else if sitemap.Stats != nil {
		sb.WriteString(fmt.Sprintf("  URLs: %d (lastmod %.1f%%, changefreq %.1f%%, priority %.1f%%)\n",
			sitemap.Stats.TotalURLs, sitemap.Stats.LastModPct,
			sitemap.Stats.ChangeFreqPct, sitemap.Stats.PriorityPct))
	}

	w.writeFindingList(sb, "Errors", sitemap.Errors)
	w.writeFindingList(sb, "Warnings", sitemap.Warnings)
	w.writeFindingList(sb, "Recommendations", sitemap.Recommendations)
	sb.WriteString("\n")
}

// writeMobile writes the mobile-friendliness section.
func (w *TextWriter) writeMobile(sb *strings.Builder, mobile *model.MobileResult) {
	if mobile == nil {
		return
	}

	w.sectionRule(sb, "MOBILE FRIENDLINESS")

	if mobile.Status == model.RunError {
		sb.WriteString(fmt.Sprintf("  Check failed: %s\n\n", mobile.Error))
		return
	}

	if mobile.MobileFriendly {
		sb.WriteString("  Mobile friendly: yes\n")
	} else {
		sb.WriteString("  Mobile friendly: NO\n")
	}
	sb.WriteString(fmt.Sprintf("  Score: %d/100\n", mobile.Score))

	w.writeFindingList(sb, "Issues", mobile.Issues)
	w.writeFindingList(sb, "Warnings", mobile.Warnings)
	w.writeFindingList(sb, "Recommendations", mobile.Recommendations)
	sb.WriteString("\n")
}

// writeFindingList writes a labeled list of findings, skipping empty lists.
func (w *TextWriter) writeFindingList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(fmt.Sprintf("\n  %s:\n", label))
	if len(items) == 0 {
		sb.WriteString("    none\n")
		return
	}
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("    * %s\n", item))
	}
}

// sectionRule writes a section heading between horizontal rules.
func (w *TextWriter) sectionRule(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by SEOAudit\n")
	sb.WriteString("https://github.com/youssefhodaigui/seoaudit\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// statusBadge returns a short marker for a check status.
func statusBadge(status model.CheckStatus) string {
	switch status {
	case model.CheckStatusOK:
		return "PASS"
	case model.CheckStatusWarning:
		return "WARN"
	case model.CheckStatusError:
		return "FAIL"
	default:
		return "????"
	}
}

// metricLabel returns a readable label for a metric status.
func metricLabel(status model.MetricStatus) string {
	switch status {
	case model.MetricGood:
		return "good"
	case model.MetricNeedsImprovement:
		return "needs improvement"
	case model.MetricPoor:
		return "poor"
	default:
		return "no data"
	}
}
