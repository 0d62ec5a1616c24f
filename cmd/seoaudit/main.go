// Package main provides the entry point for the seoaudit CLI.
//
// seoaudit is a website SEO auditing toolkit. It runs technical on-page
// checks, retrieves Core Web Vitals, validates structured data, analyzes
// sitemaps, and checks mobile-friendliness.
//
// Usage:
//
//	seoaudit audit <url>
//	seoaudit bulk <file> --save report.csv
//
// See --help for all available options.
package main

// main is the entry point for seoaudit.
func main() {
	Execute()
}
