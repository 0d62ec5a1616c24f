package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/youssefhodaigui/seoaudit/internal/model"
)

// CSVWriter outputs report summaries as CSV rows.
// This format is designed for spreadsheets and quick diffing across runs.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs one summary row per section of the report.
func (w *CSVWriter) Write(report *model.Report) (int, error) {
	counter := &countingWriter{inner: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write([]string{"url", "check", "score", "critical", "warnings", "status"}); err != nil {
		return counter.written, err
	}

	for _, row := range sectionRows(report) {
		if err := cw.Write(row); err != nil {
			return counter.written, err
		}
	}

	cw.Flush()
	return counter.written, cw.Error()
}

// WriteBulk outputs one row per audited URL with per-check score columns.
func (w *CSVWriter) WriteBulk(reports []*model.Report) (int, error) {
	counter := &countingWriter{inner: w.output}
	cw := csv.NewWriter(counter)

	header := []string{
		"url", "timestamp", "overall_score",
		"technical_score", "cwv_score", "schema_score", "mobile_score",
		"critical_issues", "warnings", "error",
	}
	if err := cw.Write(header); err != nil {
		return counter.written, err
	}

	for _, report := range reports {
		overall := ""
		if score, ok := report.OverallScore(); ok {
			overall = strconv.Itoa(score)
		}
		row := []string{
			report.URL,
			report.Timestamp.Format("2006-01-02 15:04:05"),
			overall,
			sectionScoreColumn(report, "technical"),
			sectionScoreColumn(report, "cwv"),
			sectionScoreColumn(report, "schema"),
			sectionScoreColumn(report, "mobile"),
			strconv.Itoa(report.CriticalCount()),
			strconv.Itoa(report.WarningCount()),
			report.Error,
		}
		if err := cw.Write(row); err != nil {
			return counter.written, err
		}
	}

	cw.Flush()
	return counter.written, cw.Error()
}

// sectionRows builds the per-section summary rows of a report.
func sectionRows(report *model.Report) [][]string {
	var rows [][]string

	add := func(name string, score int, critical, warnings int, status model.RunStatus) {
		rows = append(rows, []string{
			report.URL,
			name,
			strconv.Itoa(score),
			strconv.Itoa(critical),
			strconv.Itoa(warnings),
			string(status),
		})
	}

	if t := report.Technical; t != nil {
		add("technical", t.Score, t.Issues.Critical, t.Issues.Warnings, t.Status)
	}
	if v := report.Vitals; v != nil {
		add("cwv", v.Score, 0, 0, v.Status)
	}
	if s := report.Schema; s != nil {
		add("schema", s.Score, len(s.Errors), len(s.Warnings), s.Status)
	}
	if s := report.Sitemap; s != nil {
		score := 0
		if s.Status == model.RunCompleted {
			score = model.ClampScore(100 - 20*len(s.Errors) - 5*len(s.Warnings))
		}
		add("sitemap", score, len(s.Errors), len(s.Warnings), s.Status)
	}
	if m := report.Mobile; m != nil {
		add("mobile", m.Score, len(m.Issues), len(m.Warnings), m.Status)
	}

	return rows
}

// sectionScoreColumn returns the score of a named section, empty when the
// section was not run.
func sectionScoreColumn(report *model.Report, name string) string {
	for _, section := range report.SectionScores() {
		if section.Name == name {
			return strconv.Itoa(section.Score)
		}
	}
	return ""
}

// countingWriter counts bytes as they pass through to the inner writer, so
// the csv encoder can satisfy the Writer interface byte count.
type countingWriter struct {
	inner   io.Writer
	written int
}

// Write forwards to the inner writer and accumulates the byte count.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.inner.Write(p)
	c.written += n
	if err != nil {
		return n, fmt.Errorf("write csv: %w", err)
	}
	return n, nil
}
