// Package report renders audit reports in multiple output formats.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - HTMLWriter: Self-contained HTML page with embedded styling
//   - CSVWriter: Spreadsheet-friendly summary rows
//   - MarkdownWriter: Documentation-friendly Markdown with tables
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
