package report

import (
	"bytes"
	"html/template"
	"io"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// HTMLWriter outputs reports as a self-contained HTML page.
// This format is designed for sharing with non-technical stakeholders;
// the stylesheet is embedded so the file needs no external assets.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

// htmlReport is the template context for one rendered report.
type htmlReport struct {
	Report       *model.Report
	Overall      int
	HasOverall   bool
	OverallGrade string
	Sections     []htmlSection
	Critical     int
	Warnings     int
}

// htmlSection is one scored section with its findings flattened for display.
type htmlSection struct {
	Title           string
	Score           int
	Grade           string
	Status          model.RunStatus
	Errors          []string
	Warnings        []string
	Recommendations []string
}

// Write renders the report into the HTML template.
func (w *HTMLWriter) Write(report *model.Report) (int, error) {
	ctx := buildHTMLContext(report)

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, ctx); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// buildHTMLContext flattens the report sections for the template.
func buildHTMLContext(report *model.Report) *htmlReport {
	ctx := &htmlReport{
		Report:   report,
		Critical: report.CriticalCount(),
		Warnings: report.WarningCount(),
	}
	if overall, ok := report.OverallScore(); ok {
		ctx.Overall = overall
		ctx.HasOverall = true
		ctx.OverallGrade = scoreGrade(overall)
	}

	if t := report.Technical; t != nil {
		section := htmlSection{Title: sectionTitle("technical"), Score: t.Score, Status: t.Status}
		for _, name := range t.CheckNames() {
			check := t.Checks[name]
			switch check.Status {
			case model.CheckStatusError:
				section.Errors = append(section.Errors, check.Message)
			case model.CheckStatusWarning:
				section.Warnings = append(section.Warnings, check.Message)
			}
			section.Recommendations = append(section.Recommendations, check.Recommendations...)
		}
		ctx.addSection(section)
	}
	if v := report.Vitals; v != nil {
		ctx.addSection(htmlSection{
			Title:           sectionTitle("cwv"),
			Score:           v.Score,
			Status:          v.Status,
			Recommendations: v.Recommendations,
		})
	}
	if s := report.Schema; s != nil {
		ctx.addSection(htmlSection{
			Title:           sectionTitle("schema"),
			Score:           s.Score,
			Status:          s.Status,
			Errors:          s.Errors,
			Warnings:        s.Warnings,
			Recommendations: s.Recommendations,
		})
	}
	if s := report.Sitemap; s != nil {
		score := 0
		if s.Status == model.RunCompleted {
			score = model.ClampScore(100 - 20*len(s.Errors) - 5*len(s.Warnings))
		}
		ctx.addSection(htmlSection{
			Title:           sectionTitle("sitemap"),
			Score:           score,
			Status:          s.Status,
			Errors:          s.Errors,
			Warnings:        s.Warnings,
			Recommendations: s.Recommendations,
		})
	}
	if m := report.Mobile; m != nil {
		ctx.addSection(htmlSection{
			Title:           sectionTitle("mobile"),
			Score:           m.Score,
			Status:          m.Status,
			Errors:          m.Issues,
			Warnings:        m.Warnings,
			Recommendations: m.Recommendations,
		})
	}

	return ctx
}

// addSection appends a section with its grade filled in.
func (c *htmlReport) addSection(section htmlSection) {
	section.Grade = scoreGrade(section.Score)
	c.Sections = append(c.Sections, section)
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>SEO Audit Report - {{.Report.URL}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
.container { max-width: 880px; margin: 0 auto; padding: 32px 16px; }
header { background: #1f2430; color: #fff; padding: 24px 16px; }
header h1 { margin: 0 0 4px; font-size: 22px; }
header .meta { color: #aeb4c2; font-size: 14px; }
.overall { display: flex; align-items: baseline; gap: 12px; margin: 24px 0; }
.overall .score { font-size: 44px; font-weight: 700; }
.grade-A, .grade-B { color: #0a8754; }
.grade-C, .grade-D { color: #c77d00; }
.grade-F { color: #c0392b; }
.counts { font-size: 14px; color: #5b6472; }
.section { background: #fff; border-radius: 8px; padding: 20px 24px; margin-bottom: 16px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.section h2 { margin: 0 0 8px; font-size: 17px; display: flex; justify-content: space-between; }
.section h2 .score { font-size: 15px; }
.section ul { margin: 8px 0; padding-left: 20px; }
.errors li { color: #c0392b; }
.warnings li { color: #c77d00; }
.recs li { color: #35507a; }
.label { font-size: 12px; text-transform: uppercase; letter-spacing: .05em; color: #7a8394; margin-top: 12px; }
footer { text-align: center; color: #7a8394; font-size: 13px; padding: 16px; }
</style>
</head>
<body>
<header>
<h1>SEO Audit Report</h1>
<div class="meta">{{.Report.URL}} &middot; {{.Report.Timestamp.Format "2006-01-02 15:04 MST"}}</div>
</header>
<div class="container">
{{if .Report.Error}}<div class="section"><h2>Run failed</h2><p>{{.Report.Error}}</p></div>{{end}}
{{if .HasOverall}}
<div class="overall">
<span class="score grade-{{.OverallGrade}}">{{.Overall}}</span>
<span>/ 100 ({{.OverallGrade}})</span>
<span class="counts">{{.Critical}} critical &middot; {{.Warnings}} warnings</span>
</div>
{{end}}
{{range .Sections}}
<div class="section">
<h2>{{.Title}} <span class="score grade-{{.Grade}}">{{.Score}}/100</span></h2>
{{if eq .Status "error"}}<p>This check could not run.</p>{{else if eq .Status "not_found"}}<p>Nothing found to analyze.</p>{{else}}
{{if .Errors}}<div class="label">Errors</div><ul class="errors">{{range .Errors}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Warnings}}<div class="label">Warnings</div><ul class="warnings">{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Recommendations}}<div class="label">Recommendations</div><ul class="recs">{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{end}}
</div>
{{end}}
</div>
<footer>Generated by <a href="https://github.com/youssefhodaigui/seoaudit">SEOAudit</a></footer>
</body>
</html>
`))
