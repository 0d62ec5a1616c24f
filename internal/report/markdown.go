package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation, pull requests, and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeScores(md, report)
	w.writeAlert(md, report)
	w.writeTechnical(md, report.Technical)
	w.writeVitals(md, report.Vitals)
	w.writeSectionFindings(md, "Structured Data", sectionFindings(report.Schema))
	w.writeSectionFindings(md, "Sitemap", sitemapFindings(report.Sitemap))
	w.writeSectionFindings(md, "Mobile Friendliness", mobileFindings(report.Mobile))
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("SEO Audit Report")
	md.PlainText("")

	status := "✅ Complete"
	if report.Error != "" {
		status = "❌ Error - " + report.Error
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Audit Date", report.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeScores writes the per-section score table.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, report *model.Report) {
	scores := report.SectionScores()
	if len(scores) == 0 {
		return
	}

	md.H2("Scores")
	md.PlainText("")

	rows := make([][]string, 0, len(scores)+1)
	for _, section := range scores {
		rows = append(rows, []string{
			sectionTitle(section.Name),
			strconv.Itoa(section.Score) + "/100",
			scoreGrade(section.Score),
		})
	}
	if overall, ok := report.OverallScore(); ok {
		rows = append(rows, []string{
			"**Overall**",
			"**" + strconv.Itoa(overall) + "/100**",
			"**" + scoreGrade(overall) + "**",
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Section", "Score", "Grade"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert summarizing the finding counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	critical := report.CriticalCount()
	warnings := report.WarningCount()

	switch {
	case critical > 0:
		md.Cautionf("%d critical issue(s) found that hurt search visibility. Fix these first.", critical)
	case warnings > 0:
		md.Warningf("%d warning(s) found. Addressing them should improve rankings.", warnings)
	default:
		md.Tip("No significant SEO issues detected.")
	}
	md.PlainText("")
}

// writeTechnical writes the technical audit check table.
func (w *MarkdownWriter) writeTechnical(md *markdown.Markdown, audit *model.AuditResult) {
	if audit == nil {
		return
	}

	md.H2("Technical SEO")
	md.PlainText("")

	if audit.Status == model.RunError {
		md.PlainText("Audit failed: " + audit.Error)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(audit.Checks))
	for _, name := range audit.CheckNames() {
		check := audit.Checks[name]
		rows = append(rows, []string{
			sectionTitle(name),
			check.Status.String(),
			check.Message,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Check", "Status", "Result"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeVitals writes the Core Web Vitals metric table.
func (w *MarkdownWriter) writeVitals(md *markdown.Markdown, vitals *model.VitalsResult) {
	if vitals == nil {
		return
	}

	md.H2("Core Web Vitals")
	md.PlainText("")

	if vitals.Status == model.RunError {
		md.PlainText("Analysis failed: " + vitals.Error)
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(vitals.Metrics))
	for _, name := range []string{"lcp", "fid", "cls", "fcp", "ttfb", "tti"} {
		metric, ok := vitals.Metrics[name]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			markdown.Bold(name),
			metric.DisplayValue,
			metricLabel(metric.Status),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value", "Assessment"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(vitals.Recommendations) > 0 {
		md.BulletList(vitals.Recommendations...)
		md.PlainText("")
	}
}

// findings groups the three finding lists of a section.
type findings struct {
	errors          []string
	warnings        []string
	recommendations []string
	failure         string
	present         bool
}

// sectionFindings flattens a schema section for the shared renderer.
func sectionFindings(schema *model.SchemaResult) findings {
	if schema == nil {
		return findings{}
	}
	return findings{
		errors:          schema.Errors,
		warnings:        schema.Warnings,
		recommendations: schema.Recommendations,
		failure:         failureOf(schema.Status, schema.Error),
		present:         true,
	}
}

// sitemapFindings flattens a sitemap section for the shared renderer.
func sitemapFindings(sitemap *model.SitemapResult) findings {
	if sitemap == nil {
		return findings{}
	}
	return findings{
		errors:          sitemap.Errors,
		warnings:        sitemap.Warnings,
		recommendations: sitemap.Recommendations,
		failure:         failureOf(sitemap.Status, sitemap.Error),
		present:         true,
	}
}

// mobileFindings flattens a mobile section for the shared renderer.
func mobileFindings(mobile *model.MobileResult) findings {
	if mobile == nil {
		return findings{}
	}
	return findings{
		errors:          mobile.Issues,
		warnings:        mobile.Warnings,
		recommendations: mobile.Recommendations,
		failure:         failureOf(mobile.Status, mobile.Error),
		present:         true,
	}
}

// failureOf returns the failure message of an errored run, empty otherwise.
func failureOf(status model.RunStatus, message string) string {
	if status != model.RunError {
		return ""
	}
	if message == "" {
		return "check failed"
	}
	return message
}

// writeSectionFindings writes the finding lists of one section.
func (w *MarkdownWriter) writeSectionFindings(md *markdown.Markdown, title string, f findings) {
	if !f.present {
		return
	}

	md.H2(title)
	md.PlainText("")

	if f.failure != "" {
		md.PlainText("Check failed: " + f.failure)
		md.PlainText("")
		return
	}

	if len(f.errors) == 0 && len(f.warnings) == 0 && len(f.recommendations) == 0 {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	if len(f.errors) > 0 {
		md.PlainText("**Errors**")
		md.PlainText("")
		md.BulletList(f.errors...)
		md.PlainText("")
	}
	if len(f.warnings) > 0 {
		md.PlainText("**Warnings**")
		md.PlainText("")
		md.BulletList(f.warnings...)
		md.PlainText("")
	}
	if len(f.recommendations) > 0 {
		md.PlainText("**Recommendations**")
		md.PlainText("")
		md.BulletList(f.recommendations...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [SEOAudit](https://github.com/youssefhodaigui/seoaudit)*")
}
