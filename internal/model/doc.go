// Package model defines the core data structures used throughout the toolkit.
//
// This package contains the following main types:
//   - AuditResult: Technical audit findings with per-check results
//   - VitalsResult: Core Web Vitals readings relayed from the PageSpeed API
//   - SchemaResult: Structured data validation findings
//   - SitemapResult: Sitemap analysis findings and statistics
//   - MobileResult: Mobile-friendliness findings
//   - Report: An aggregate of the above for a full audit run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (audit, vitals, schema, sitemap, mobile,
// report, database, pipeline) need to use these types, so centralizing them
// prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
